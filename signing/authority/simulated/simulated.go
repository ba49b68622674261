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

// Package simulated contains deterministic stand-ins for the remote authorities, for development and testing.
// They keep state in memory, so they must not be used in a clustered deployment.
package simulated

import (
	"errors"

	"github.com/nuts-foundation/nuts-signing/signing/authority"
)

var errNotEnabled = errors.New("simulated authorities are not allowed in strict mode")

// NewAuthorities creates linked simulated authorities: the signing authority only accepts proofs issued by the challenge authority.
func NewAuthorities(strictMode bool) authority.Authorities {
	challengeAuthority := NewChallengeAuthority()
	challengeAuthority.InStrictMode = strictMode
	certificateAuthority := NewCertificateAuthority()
	certificateAuthority.InStrictMode = strictMode
	signingAuthority := NewSigningAuthority(challengeAuthority)
	signingAuthority.InStrictMode = strictMode
	return authority.Authorities{
		Certificate: certificateAuthority,
		Challenge:   challengeAuthority,
		Signing:     signingAuthority,
	}
}
