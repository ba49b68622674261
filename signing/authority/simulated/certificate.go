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

package simulated

import (
	"context"
	"sync"

	"github.com/nuts-foundation/nuts-signing/signing/authority"
)

var _ authority.CertificateAuthority = (*CertificateAuthority)(nil)

// CertificateAuthority issues one certificate per signatory and identity proof.
type CertificateAuthority struct {
	InStrictMode bool
	// Rejections holds the reason to reject issuance, per signatory ID.
	Rejections map[string]string

	mux          sync.Mutex
	certificates map[string]string
}

// NewCertificateAuthority creates a simulated certificate authority without certificates.
func NewCertificateAuthority() *CertificateAuthority {
	return &CertificateAuthority{
		Rejections:   map[string]string{},
		certificates: map[string]string{},
	}
}

func (c *CertificateAuthority) IssueCertificate(_ context.Context, request authority.CertificateRequest) (*authority.CertificateResponse, error) {
	if c.InStrictMode {
		return nil, errNotEnabled
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if reason, ok := c.Rejections[request.SignatoryID]; ok {
		return &authority.CertificateResponse{Status: authority.StatusRejected, Reason: reason}, nil
	}
	key := request.SignatoryID + "/" + request.Proof.Digest.String()
	if alias, ok := c.certificates[key]; ok {
		return &authority.CertificateResponse{Status: authority.StatusExists, Alias: alias}, nil
	}
	alias := "simulated-" + request.SignatoryID + "-" + request.Proof.Digest.String()[:8]
	c.certificates[key] = alias
	return &authority.CertificateResponse{Status: authority.StatusIssued, Alias: alias}, nil
}
