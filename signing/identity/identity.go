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

// Package identity derives the identity proof and profile attributes of signatories.
package identity

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

const (
	nationalIDPrefix = "nid:"
	emailPrefix      = "email:"
)

// Profile is the signatory information supplied by the profile store.
type Profile struct {
	ID string `json:"id"`
	// NationalID is the verified government ID number, if available.
	NationalID   string `json:"nationalID,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	DocumentType string `json:"documentType,omitempty"`
}

// NewProof derives the identity proof from the national ID, or from the email address when no national ID is given.
// If neither is given the proof digest is empty.
func NewProof(nationalID string, email string) types.IdentityProof {
	if normalized := normalizeNationalID(nationalID); normalized != "" {
		return types.IdentityProof{
			Kind:   types.NationalIDProof,
			Digest: hash.SHA256Sum([]byte(nationalIDPrefix + normalized)),
		}
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return types.IdentityProof{Kind: types.EmailProof, Digest: hash.EmptyHash()}
	}
	return types.IdentityProof{
		Kind:   types.EmailProof,
		Digest: hash.SHA256Sum([]byte(emailPrefix + normalized)),
	}
}

// normalizeNationalID removes separators and whitespace and upper-cases the ID.
func normalizeNationalID(nationalID string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			return -1
		}
		return unicode.ToUpper(r)
	}, nationalID)
}

// SplitName splits a name on whitespace: the first token is the given name, the remainder the family name.
// If there is no remainder, the family name equals the given name.
func SplitName(name string) (givenName string, familyName string) {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], tokens[0]
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}

// Build derives the signatory from the given profile.
// The kind of the returned proof tells whether it was derived from the national ID or degraded to the email address.
func Build(profile Profile) types.Signatory {
	givenName, familyName := SplitName(profile.Name)
	proof := NewProof(profile.NationalID, profile.Email)
	if proof.Degraded() {
		log.Logger().
			WithField(core.LogFieldSignatoryID, profile.ID).
			Debug("No national ID available, identity proof is derived from email address")
	}
	return types.Signatory{
		ID:           profile.ID,
		DisplayName:  strings.Join(strings.Fields(profile.Name), " "),
		Email:        strings.TrimSpace(profile.Email),
		Phone:        strings.TrimSpace(profile.Phone),
		Organization: profile.Organization,
		Proof:        proof,
		Attributes: types.ProfileAttributes{
			GivenName:    givenName,
			FamilyName:   familyName,
			Organization: profile.Organization,
			DocumentType: profile.DocumentType,
		},
	}
}

// Validate checks the signatory has the attributes required to request a certificate.
func Validate(signatory types.Signatory) error {
	var missing []string
	if signatory.ID == "" {
		missing = append(missing, "id")
	}
	if signatory.Attributes.GivenName == "" {
		missing = append(missing, "name")
	}
	if signatory.Proof.Digest.Empty() {
		missing = append(missing, "nationalID or email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", types.ErrProfileIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
