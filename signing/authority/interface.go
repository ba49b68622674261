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

// Package authority defines the remote authorities the signing flow depends on.
package authority

import (
	"context"

	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// CertificateStatus is the status the certificate authority reports for an issuance request.
type CertificateStatus string

const (
	// StatusIssued means a new certificate was issued.
	StatusIssued CertificateStatus = "issued"
	// StatusExists means the signatory already has a certificate.
	StatusExists CertificateStatus = "exists"
	// StatusRejected means the authority refused to issue a certificate.
	StatusRejected CertificateStatus = "rejected"
)

// CertificateRequest requests a digital identity certificate for a signatory.
type CertificateRequest struct {
	SignatoryID string                  `json:"signatoryID"`
	Proof       types.IdentityProof     `json:"proof"`
	Attributes  types.ProfileAttributes `json:"attributes"`
	Email       string                  `json:"email,omitempty"`
	Phone       string                  `json:"phone,omitempty"`
}

// CertificateResponse is the answer of the certificate authority.
type CertificateResponse struct {
	Status CertificateStatus `json:"status"`
	Alias  string            `json:"alias"`
	Reason string            `json:"reason,omitempty"`
}

// CertificateAuthority issues digital identity certificates.
type CertificateAuthority interface {
	// IssueCertificate requests a certificate. A rejection is reported through the response status,
	// errors are reserved for failures to communicate with the authority.
	IssueCertificate(ctx context.Context, request CertificateRequest) (*CertificateResponse, error)
}

// CodeRequest requests a one-time passcode to be sent to the signatory.
type CodeRequest struct {
	SessionID string        `json:"sessionID"`
	TicketID  string        `json:"ticketID"`
	Channel   types.Channel `json:"channel"`
	// Recipient is the phone number or email address, depending on the channel.
	Recipient string `json:"recipient"`
}

// CodeAck acknowledges a passcode was sent.
type CodeAck struct {
	// Reference is the authority's reference for the challenge, to be passed when verifying the code.
	Reference string `json:"reference,omitempty"`
}

// VerifyRequest asks the challenge authority to verify a passcode.
type VerifyRequest struct {
	SessionID    string `json:"sessionID"`
	TicketID     string `json:"ticketID"`
	OperationRef string `json:"operationRef,omitempty"`
	Code         string `json:"code"`
}

// VerifyOutcome is the result of a passcode verification.
type VerifyOutcome string

const (
	// Authorized means the code was correct.
	Authorized VerifyOutcome = "authorized"
	// Invalid means the code was wrong.
	Invalid VerifyOutcome = "invalid"
	// Expired means the challenge is no longer valid.
	Expired VerifyOutcome = "expired"
)

// VerifyResult is the answer of the challenge authority to a verification request.
type VerifyResult struct {
	Outcome VerifyOutcome `json:"outcome"`
	// Proof authorizes exactly one submission, only set when the outcome is Authorized.
	Proof string `json:"proof,omitempty"`
}

// ChallengeAuthority sends and verifies one-time passcodes.
type ChallengeAuthority interface {
	// SendCode sends a passcode to the signatory.
	SendCode(ctx context.Context, request CodeRequest) (*CodeAck, error)
	// VerifyCode verifies a passcode. Wrong or expired codes are reported through the outcome.
	VerifyCode(ctx context.Context, request VerifyRequest) (*VerifyResult, error)
}

// DocumentPayload is a document to be signed, identified by its digest.
type DocumentPayload struct {
	DocumentID string          `json:"documentID"`
	Title      string          `json:"title"`
	Digest     hash.SHA256Hash `json:"digest"`
}

// Placement is the position of the visual stamp on the document.
type Placement struct {
	Page   int `json:"page" koanf:"page"`
	X      int `json:"x" koanf:"x"`
	Y      int `json:"y" koanf:"y"`
	Width  int `json:"width" koanf:"width"`
	Height int `json:"height" koanf:"height"`
}

// Appearance holds the rendering metadata of the visual signature stamp.
type Appearance struct {
	Text      string    `json:"text"`
	Locale    string    `json:"locale"`
	Place     string    `json:"place,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Placement Placement `json:"placement"`
}

// SubmitRequest submits documents for signing.
type SubmitRequest struct {
	SessionID        string            `json:"sessionID"`
	CertificateAlias string            `json:"certificateAlias"`
	ChallengeProof   string            `json:"challengeProof"`
	Documents        []DocumentPayload `json:"documents"`
	Appearance       Appearance        `json:"appearance"`
}

// DocumentReport is the status of a single document in a signing operation.
type DocumentReport struct {
	DocumentID  string               `json:"documentID"`
	Status      types.DocumentStatus `json:"status"`
	ErrorDetail string               `json:"errorDetail,omitempty"`
}

// StatusReport is the status of a signing operation.
type StatusReport struct {
	Done      bool             `json:"done"`
	Documents []DocumentReport `json:"documents"`
}

// SigningAuthority signs documents asynchronously.
type SigningAuthority interface {
	// Submit submits documents for signing and returns the ID of the operation.
	// It returns types.ErrStaleChallenge if the challenge proof was not the one just verified.
	Submit(ctx context.Context, request SubmitRequest) (string, error)
	// QueryStatus returns the status of an operation.
	QueryStatus(ctx context.Context, operationID string) (*StatusReport, error)
	// FinalArtifact returns a reference to the document signed by all given operations.
	FinalArtifact(ctx context.Context, operationIDs []string) (string, error)
}

// Authorities groups the authorities used by the signing flow.
type Authorities struct {
	Certificate CertificateAuthority
	Challenge   ChallengeAuthority
	Signing     SigningAuthority
}
