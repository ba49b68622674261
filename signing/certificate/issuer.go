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

// Package certificate requests, or reuses, the digital identity certificates of signatories.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the maximum duration of a certificate request.
const DefaultTimeout = 30 * time.Second

// Issuer makes sure a signatory has exactly one certificate.
type Issuer struct {
	authority authority.CertificateAuthority
	records   RecordStore
	timeout   time.Duration
	// now returns the current time, replaced in tests.
	now func() time.Time
}

// NewIssuer creates an Issuer. Requests to the certificate authority are cancelled after the given timeout.
func NewIssuer(certificateAuthority authority.CertificateAuthority, records RecordStore, timeout time.Duration) *Issuer {
	return &Issuer{
		authority: certificateAuthority,
		records:   records,
		timeout:   timeout,
		now:       time.Now,
	}
}

// IssueOrReuse returns the certificate of the signatory, requesting it when the signatory has none.
// All failures are returned as types.CertificateError. The request is not retried.
func (i *Issuer) IssueOrReuse(ctx context.Context, signatory types.Signatory) (*types.CertificateRecord, error) {
	logger := i.logger(signatory)
	if err := identity.Validate(signatory); err != nil {
		return nil, i.fail(ctx, signatory, types.CertificateError{Cause: types.ErrProfileIncomplete, Reason: err.Error()})
	}
	if signatory.Proof.Degraded() {
		audit.Log(ctx, logger, audit.IdentityProofDegradedEvent).Info("No national ID available, identity proof is derived from email address")
	}
	existing, err := i.records.Get(ctx, signatory)
	if err != nil {
		logger.WithError(err).Warn("Unable to read certificate record, requesting certificate")
	}
	if existing != nil && existing.Usable() {
		result := *existing
		result.Outcome = types.CertificateExists
		audit.Log(ctx, logger, audit.CertificateReusedEvent).Infof("Reusing certificate %s", result.Alias)
		return &result, nil
	}

	requestCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	response, err := i.authority.IssueCertificate(requestCtx, authority.CertificateRequest{
		SignatoryID: signatory.ID,
		Proof:       signatory.Proof,
		Attributes:  signatory.Attributes,
		Email:       signatory.Email,
		Phone:       signatory.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(requestCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			return nil, i.fail(ctx, signatory, types.CertificateError{
				Cause:  types.ErrTimeout,
				Reason: fmt.Sprintf("certificate authority did not respond within %s", i.timeout),
			})
		case errors.Is(err, types.ErrAuthorityRejected):
			return nil, i.fail(ctx, signatory, types.CertificateError{Cause: types.ErrAuthorityRejected, Reason: err.Error()})
		default:
			return nil, i.fail(ctx, signatory, types.CertificateError{Cause: types.ErrAuthorityUnreachable, Reason: err.Error()})
		}
	}

	var record types.CertificateRecord
	switch response.Status {
	case authority.StatusIssued:
		record = types.CertificateRecord{Alias: response.Alias, Outcome: types.CertificateIssued, SignatoryID: signatory.ID, IssuedAt: i.now()}
		audit.Log(ctx, logger, audit.CertificateIssuedEvent).Infof("Certificate %s issued", record.Alias)
	case authority.StatusExists:
		record = types.CertificateRecord{Alias: response.Alias, Outcome: types.CertificateExists, SignatoryID: signatory.ID, IssuedAt: i.now()}
		audit.Log(ctx, logger, audit.CertificateReusedEvent).Infof("Certificate %s already existed", record.Alias)
	default:
		reason := response.Reason
		if reason == "" {
			reason = "no reason given"
		}
		return nil, i.fail(ctx, signatory, types.CertificateError{Cause: types.ErrAuthorityRejected, Reason: reason})
	}
	if err := i.records.Put(ctx, signatory, record); err != nil {
		// a new request results in "exists", so this is recoverable
		logger.WithError(err).Error("Unable to store certificate record")
	}
	return &record, nil
}

func (i *Issuer) fail(ctx context.Context, signatory types.Signatory, err types.CertificateError) error {
	audit.Log(ctx, i.logger(signatory), audit.CertificateFailedEvent).Warn(err.Error())
	return err
}

func (i *Issuer) logger(signatory types.Signatory) *logrus.Entry {
	return log.Logger().
		WithField(core.LogFieldSignatoryID, signatory.ID).
		WithField(core.LogFieldProofKind, signatory.Proof.Kind)
}
