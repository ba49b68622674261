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

package types

import (
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
)

// ProofKind tells which identity material an IdentityProof was derived from.
type ProofKind string

const (
	// NationalIDProof is a proof derived from a verified government ID number.
	NationalIDProof ProofKind = "national-id"
	// EmailProof is the weaker proof derived from an email address.
	EmailProof ProofKind = "email"
)

// IdentityProof is the one-way digest identifying a signatory towards the certificate authority.
type IdentityProof struct {
	Kind   ProofKind       `json:"kind"`
	Digest hash.SHA256Hash `json:"digest"`
}

// Degraded returns true if the proof was derived from the email address instead of a national ID.
func (p IdentityProof) Degraded() bool {
	return p.Kind == EmailProof
}

// ProfileAttributes are the signatory attributes sent along with the identity proof.
type ProfileAttributes struct {
	GivenName    string `json:"givenName"`
	FamilyName   string `json:"familyName"`
	Organization string `json:"organization"`
	DocumentType string `json:"documentType"`
}

// Signatory is a human party to be bound to a signature. It is immutable for the lifetime of a session.
type Signatory struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"displayName"`
	Email        string            `json:"email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Organization string            `json:"organization,omitempty"`
	Proof        IdentityProof     `json:"proof"`
	Attributes   ProfileAttributes `json:"attributes"`
}

// DocumentSignTarget is one document to be signed.
type DocumentSignTarget struct {
	DocumentID string `json:"documentID"`
	// Locator is the URL the document bytes are retrieved from (file:// or http(s)://).
	Locator string `json:"locator"`
	Title   string `json:"title"`
}
