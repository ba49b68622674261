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
	"net/url"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"golang.org/x/time/rate"
)

var _ authority.SigningAuthority = (*SigningClient)(nil)

type documentMessage struct {
	DocumentID string `json:"documentID"`
	Title      string `json:"title"`
	// Digest is the multibase encoded multihash of the document.
	Digest string `json:"digest"`
}

type submitMessage struct {
	SessionID        string               `json:"sessionID"`
	CertificateAlias string               `json:"certificateAlias"`
	ChallengeProof   string               `json:"challengeProof"`
	Documents        []documentMessage    `json:"documents"`
	Appearance       authority.Appearance `json:"appearance"`
}

type operationMessage struct {
	OperationID string `json:"operationID"`
}

type artifactRequestMessage struct {
	OperationIDs []string `json:"operationIDs"`
}

type artifactMessage struct {
	Reference string `json:"reference"`
}

// SigningClient submits documents to a remote signing authority.
type SigningClient struct {
	client client
}

// NewSigningClient creates a client for the signing authority at the given base URL.
func NewSigningClient(baseURL string, doer core.HTTPRequestDoer, limiter *rate.Limiter, observer RequestObserver) *SigningClient {
	return &SigningClient{client: newClient("signing", baseURL, doer, limiter, observer)}
}

// Submit calls POST /operations. The authority answers 409 when the challenge proof is stale.
func (s SigningClient) Submit(ctx context.Context, request authority.SubmitRequest) (string, error) {
	message := submitMessage{
		SessionID:        request.SessionID,
		CertificateAlias: request.CertificateAlias,
		ChallengeProof:   request.ChallengeProof,
		Appearance:       request.Appearance,
	}
	for _, document := range request.Documents {
		digest, err := document.Digest.Multibase()
		if err != nil {
			return "", err
		}
		message.Documents = append(message.Documents, documentMessage{
			DocumentID: document.DocumentID,
			Title:      document.Title,
			Digest:     digest,
		})
	}
	var result operationMessage
	status, err := s.client.do(ctx, http.MethodPost, "/operations", message, &result, http.StatusAccepted, http.StatusCreated)
	if status == http.StatusConflict {
		return "", types.ErrStaleChallenge
	}
	if err != nil {
		return "", err
	}
	if result.OperationID == "" {
		return "", core.WrapError(types.ErrAuthorityUnreachable, errors.New("signing authority returned no operation ID"))
	}
	return result.OperationID, nil
}

// QueryStatus calls GET /operations/{operationID}.
func (s SigningClient) QueryStatus(ctx context.Context, operationID string) (*authority.StatusReport, error) {
	var result authority.StatusReport
	if _, err := s.client.do(ctx, http.MethodGet, "/operations/"+url.PathEscape(operationID), nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// FinalArtifact calls POST /artifacts.
func (s SigningClient) FinalArtifact(ctx context.Context, operationIDs []string) (string, error) {
	var result artifactMessage
	if _, err := s.client.do(ctx, http.MethodPost, "/artifacts", artifactRequestMessage{OperationIDs: operationIDs}, &result, http.StatusOK); err != nil {
		return "", err
	}
	return result.Reference, nil
}
