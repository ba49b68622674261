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
	"fmt"
	"net/http"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"golang.org/x/time/rate"
)

var _ authority.CertificateAuthority = (*CertificateClient)(nil)

type proofMessage struct {
	Kind types.ProofKind `json:"kind"`
	// Digest is the multibase encoded multihash of the proof.
	Digest string `json:"digest"`
}

type certificateRequestMessage struct {
	SignatoryID string                  `json:"signatoryID"`
	Proof       proofMessage            `json:"proof"`
	Attributes  types.ProfileAttributes `json:"attributes"`
	Email       string                  `json:"email,omitempty"`
	Phone       string                  `json:"phone,omitempty"`
}

// CertificateClient requests certificates from a remote certificate authority.
type CertificateClient struct {
	client client
}

// NewCertificateClient creates a client for the certificate authority at the given base URL.
func NewCertificateClient(baseURL string, doer core.HTTPRequestDoer, limiter *rate.Limiter, observer RequestObserver) *CertificateClient {
	return &CertificateClient{client: newClient("certificate", baseURL, doer, limiter, observer)}
}

// IssueCertificate calls POST /certificates. The authority answers 201 when it issued a certificate, 200 when one existed
// and 422 when it refuses to issue one.
func (c CertificateClient) IssueCertificate(ctx context.Context, request authority.CertificateRequest) (*authority.CertificateResponse, error) {
	digest, err := request.Proof.Digest.Multibase()
	if err != nil {
		return nil, err
	}
	message := certificateRequestMessage{
		SignatoryID: request.SignatoryID,
		Proof:       proofMessage{Kind: request.Proof.Kind, Digest: digest},
		Attributes:  request.Attributes,
		Email:       request.Email,
		Phone:       request.Phone,
	}
	var result authority.CertificateResponse
	status, err := c.client.do(ctx, http.MethodPost, "/certificates", message, &result, http.StatusOK, http.StatusCreated, http.StatusUnprocessableEntity)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusCreated:
		result.Status = authority.StatusIssued
	case http.StatusOK:
		result.Status = authority.StatusExists
	default:
		result.Status = authority.StatusRejected
	}
	if result.Status != authority.StatusRejected && result.Alias == "" {
		return nil, fmt.Errorf("certificate authority: %w: no alias in response", types.ErrAuthorityUnreachable)
	}
	return &result, nil
}
