/*
 * Copyright (C) 2025 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var proofDigest = hash.SHA256Sum([]byte("nid:1"))

type observed struct {
	authority string
	outcome   string
}

func newTestServer(t *testing.T, setup func(e *echo.Echo)) (string, *[]observed, core.HTTPRequestDoer) {
	e := echo.New()
	setup(e)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	var observations []observed
	return server.URL, &observations, core.CreateHTTPClient(core.ClientConfig{Timeout: time.Second, Token: "token"}, nil)
}

func observer(observations *[]observed) RequestObserver {
	return func(authority string, outcome string) {
		*observations = append(*observations, observed{authority: authority, outcome: outcome})
	}
}

func TestCertificateClient_IssueCertificate(t *testing.T) {
	ctx := context.Background()
	request := authority.CertificateRequest{
		SignatoryID: "signatory-1",
		Proof:       types.IdentityProof{Kind: types.NationalIDProof, Digest: proofDigest},
		Attributes:  types.ProfileAttributes{GivenName: "Jane", FamilyName: "Doe"},
	}
	serve := func(status int, body interface{}) func(e *echo.Echo) {
		return func(e *echo.Echo) {
			e.POST("/certificates", func(c echo.Context) error {
				var message certificateRequestMessage
				if err := c.Bind(&message); err != nil {
					return err
				}
				digest, err := hash.ParseMultibase(message.Proof.Digest)
				if err != nil || !digest.Equals(proofDigest) {
					return c.NoContent(http.StatusBadRequest)
				}
				if c.Request().Header.Get("Authorization") != "Bearer token" {
					return c.NoContent(http.StatusUnauthorized)
				}
				return c.JSON(status, body)
			})
		}
	}

	t.Run("ok - issued", func(t *testing.T) {
		url, observations, doer := newTestServer(t, serve(http.StatusCreated, map[string]string{"alias": "cert-1"}))

		response, err := NewCertificateClient(url, doer, nil, observer(observations)).IssueCertificate(ctx, request)

		require.NoError(t, err)
		assert.Equal(t, authority.CertificateResponse{Status: authority.StatusIssued, Alias: "cert-1"}, *response)
		assert.Equal(t, []observed{{"certificate", OutcomeOK}}, *observations)
	})
	t.Run("ok - exists", func(t *testing.T) {
		url, _, doer := newTestServer(t, serve(http.StatusOK, map[string]string{"alias": "cert-1"}))

		response, err := NewCertificateClient(url, doer, nil, nil).IssueCertificate(ctx, request)

		require.NoError(t, err)
		assert.Equal(t, authority.StatusExists, response.Status)
	})
	t.Run("ok - rejected", func(t *testing.T) {
		url, _, doer := newTestServer(t, serve(http.StatusUnprocessableEntity, map[string]string{"reason": "unknown organization"}))

		response, err := NewCertificateClient(url, doer, nil, nil).IssueCertificate(ctx, request)

		require.NoError(t, err)
		assert.Equal(t, authority.StatusRejected, response.Status)
		assert.Equal(t, "unknown organization", response.Reason)
	})
	t.Run("error - bad request is a rejection", func(t *testing.T) {
		url, observations, doer := newTestServer(t, serve(http.StatusBadRequest, map[string]string{"error": "invalid"}))

		_, err := NewCertificateClient(url, doer, nil, observer(observations)).IssueCertificate(ctx, request)

		assert.ErrorIs(t, err, types.ErrAuthorityRejected)
		assert.EqualError(t, err, `certificate authority: authority rejected request: server returned HTTP 400: {"error":"invalid"}`)
		assert.Equal(t, []observed{{"certificate", OutcomeRejected}}, *observations)
	})
	t.Run("error - server error is unreachable", func(t *testing.T) {
		url, _, doer := newTestServer(t, serve(http.StatusBadGateway, map[string]string{}))

		_, err := NewCertificateClient(url, doer, nil, nil).IssueCertificate(ctx, request)

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
	})
	t.Run("error - no alias", func(t *testing.T) {
		url, _, doer := newTestServer(t, serve(http.StatusCreated, map[string]string{}))

		_, err := NewCertificateClient(url, doer, nil, nil).IssueCertificate(ctx, request)

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
	})
	t.Run("error - connection refused", func(t *testing.T) {
		var observations []observed
		doer := core.CreateHTTPClient(core.ClientConfig{Timeout: time.Second}, nil)
		client := NewCertificateClient("http://localhost:1", doer, nil, observer(&observations))

		_, err := client.IssueCertificate(ctx, request)

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
		assert.Equal(t, []observed{{"certificate", OutcomeUnreachable}}, observations)
	})
	t.Run("error - deadline exceeded", func(t *testing.T) {
		url, _, doer := newTestServer(t, func(e *echo.Echo) {
			e.POST("/certificates", func(c echo.Context) error {
				<-c.Request().Context().Done()
				return nil
			})
		})
		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err := NewCertificateClient(url, doer, nil, nil).IssueCertificate(ctx, request)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
	t.Run("error - rate limited until deadline", func(t *testing.T) {
		url, _, doer := newTestServer(t, serve(http.StatusCreated, map[string]string{"alias": "cert-1"}))
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		client := NewCertificateClient(url, doer, limiter, nil)
		_, err := client.IssueCertificate(ctx, request)
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err = client.IssueCertificate(ctx, request)

		assert.Error(t, err)
	})
}

func TestChallengeClient(t *testing.T) {
	ctx := context.Background()
	url, _, doer := newTestServer(t, func(e *echo.Echo) {
		e.POST("/challenges", func(c echo.Context) error {
			var request authority.CodeRequest
			if err := c.Bind(&request); err != nil {
				return err
			}
			if request.Recipient == "" {
				return c.String(http.StatusBadRequest, "no recipient")
			}
			return c.JSON(http.StatusAccepted, authority.CodeAck{Reference: "ref-" + request.TicketID})
		})
		e.POST("/challenges/:ticketID/verify", func(c echo.Context) error {
			var request authority.VerifyRequest
			if err := c.Bind(&request); err != nil {
				return err
			}
			switch request.Code {
			case "123456":
				return c.JSON(http.StatusOK, authority.VerifyResult{Outcome: authority.Authorized, Proof: "proof-" + c.Param("ticketID")})
			case "expired":
				return c.JSON(http.StatusOK, authority.VerifyResult{Outcome: authority.Expired})
			case "garbage":
				return c.JSON(http.StatusOK, map[string]string{"outcome": "maybe"})
			}
			return c.JSON(http.StatusOK, authority.VerifyResult{Outcome: authority.Invalid})
		})
	})
	client := NewChallengeClient(url, doer, nil, nil)

	t.Run("send", func(t *testing.T) {
		ack, err := client.SendCode(ctx, authority.CodeRequest{TicketID: "t1", Channel: types.SMSChannel, Recipient: "+31600000000"})

		require.NoError(t, err)
		assert.Equal(t, "ref-t1", ack.Reference)
	})
	t.Run("send - rejected", func(t *testing.T) {
		_, err := client.SendCode(ctx, authority.CodeRequest{TicketID: "t1", Channel: types.SMSChannel})

		assert.ErrorIs(t, err, types.ErrAuthorityRejected)
	})
	t.Run("verify", func(t *testing.T) {
		for code, expected := range map[string]authority.VerifyOutcome{"123456": authority.Authorized, "expired": authority.Expired, "000000": authority.Invalid} {
			result, err := client.VerifyCode(ctx, authority.VerifyRequest{TicketID: "t 1", Code: code})

			require.NoError(t, err)
			assert.Equal(t, expected, result.Outcome)
		}
	})
	t.Run("verify - unknown outcome", func(t *testing.T) {
		_, err := client.VerifyCode(ctx, authority.VerifyRequest{TicketID: "t1", Code: "garbage"})

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
	})
}

func TestSigningClient(t *testing.T) {
	ctx := context.Background()
	documentDigest := hash.SHA256Sum([]byte("document"))
	url, _, doer := newTestServer(t, func(e *echo.Echo) {
		e.POST("/operations", func(c echo.Context) error {
			var message submitMessage
			if err := c.Bind(&message); err != nil {
				return err
			}
			if message.ChallengeProof != "fresh" {
				return c.String(http.StatusConflict, "challenge already used")
			}
			digest, err := hash.ParseMultibase(message.Documents[0].Digest)
			if err != nil || !digest.Equals(documentDigest) {
				return c.NoContent(http.StatusBadRequest)
			}
			return c.JSON(http.StatusAccepted, operationMessage{OperationID: "op-1"})
		})
		e.GET("/operations/:id", func(c echo.Context) error {
			if c.Param("id") != "op-1" {
				return c.NoContent(http.StatusNotFound)
			}
			return c.JSON(http.StatusOK, authority.StatusReport{
				Done:      false,
				Documents: []authority.DocumentReport{{DocumentID: "doc-1", Status: types.DocumentPending}},
			})
		})
		e.POST("/artifacts", func(c echo.Context) error {
			var message artifactRequestMessage
			if err := c.Bind(&message); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, artifactMessage{Reference: "artifact-" + message.OperationIDs[0]})
		})
	})
	client := NewSigningClient(url, doer, nil, nil)
	request := authority.SubmitRequest{
		CertificateAlias: "cert-1",
		ChallengeProof:   "fresh",
		Documents:        []authority.DocumentPayload{{DocumentID: "doc-1", Title: "Agreement", Digest: documentDigest}},
	}

	t.Run("submit", func(t *testing.T) {
		operationID, err := client.Submit(ctx, request)

		require.NoError(t, err)
		assert.Equal(t, "op-1", operationID)
	})
	t.Run("submit - stale challenge", func(t *testing.T) {
		stale := request
		stale.ChallengeProof = "used"

		_, err := client.Submit(ctx, stale)

		assert.True(t, errors.Is(err, types.ErrStaleChallenge))
	})
	t.Run("query status", func(t *testing.T) {
		report, err := client.QueryStatus(ctx, "op-1")

		require.NoError(t, err)
		assert.False(t, report.Done)
		assert.Equal(t, types.DocumentPending, report.Documents[0].Status)
	})
	t.Run("query status - unknown operation", func(t *testing.T) {
		_, err := client.QueryStatus(ctx, "op-2")

		assert.ErrorIs(t, err, types.ErrAuthorityRejected)
	})
	t.Run("final artifact", func(t *testing.T) {
		reference, err := client.FinalArtifact(ctx, []string{"op-1", "op-2"})

		require.NoError(t, err)
		assert.Equal(t, "artifact-op-1", reference)
	})
}
