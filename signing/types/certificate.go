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

import "time"

// CertificateOutcome is the result of a certificate issuance request.
type CertificateOutcome string

const (
	// CertificateIssued means the certificate was newly issued.
	CertificateIssued CertificateOutcome = "issued"
	// CertificateExists means the signatory already had a certificate.
	CertificateExists CertificateOutcome = "exists"
	// CertificateFailed means the certificate could not be issued.
	CertificateFailed CertificateOutcome = "failed"
)

// CertificateRecord is the handle of a signatory's digital identity certificate.
type CertificateRecord struct {
	Alias       string             `json:"alias"`
	Outcome     CertificateOutcome `json:"outcome"`
	SignatoryID string             `json:"signatoryID"`
	IssuedAt    time.Time          `json:"issuedAt"`
}

// Usable returns true if the certificate can be used for signing.
func (c CertificateRecord) Usable() bool {
	return c.Alias != "" && (c.Outcome == CertificateIssued || c.Outcome == CertificateExists)
}
