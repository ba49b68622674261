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
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is returned when required authority configuration is absent or invalid.
var ErrConfiguration = errors.New("invalid signing configuration")

// ErrProfileIncomplete is returned when the signatory profile misses required attributes.
var ErrProfileIncomplete = errors.New("signatory profile is incomplete")

// ErrTimeout is returned when a bounded wait was exceeded.
var ErrTimeout = errors.New("timeout")

// ErrChallengeInvalid is returned when the passcode was wrong.
var ErrChallengeInvalid = errors.New("challenge code is invalid")

// ErrChallengeExpired is returned when the passcode is no longer valid, e.g. because a newer challenge was sent.
var ErrChallengeExpired = errors.New("challenge code has expired")

// ErrStaleChallenge is returned when the signing authority rejects a submission because its challenge was not the one just verified.
var ErrStaleChallenge = errors.New("challenge is stale, request a new challenge")

// ErrAuthorityUnreachable is returned when a remote authority could not be reached.
var ErrAuthorityUnreachable = errors.New("authority unreachable")

// ErrAuthorityRejected is returned when a remote authority rejected a request.
var ErrAuthorityRejected = errors.New("authority rejected request")

// ErrDigestMismatch is returned when a document changed after its digest was computed.
var ErrDigestMismatch = errors.New("document digest mismatch")

// ErrSessionBusy is returned when an operation is already in progress for the session.
var ErrSessionBusy = errors.New("session busy")

// ErrInvalidPhase is returned when an operation is not allowed in the current phase of the session.
var ErrInvalidPhase = errors.New("operation not allowed in current phase")

// ErrSessionNotFound is returned when the session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrCampaignNotFound is returned when the campaign does not exist.
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrSigningFailed is returned when one or more documents failed to sign.
var ErrSigningFailed = errors.New("signing failed")

// CertificateError is returned when no certificate could be issued for a signatory.
// Cause is one of ErrTimeout, ErrAuthorityUnreachable, ErrProfileIncomplete or ErrAuthorityRejected.
type CertificateError struct {
	Cause  error
	Reason string
}

func (c CertificateError) Error() string {
	if c.Reason == "" {
		return fmt.Sprintf("certificate issuance failed: %s", c.Cause)
	}
	return fmt.Sprintf("certificate issuance failed: %s: %s", c.Cause, c.Reason)
}

func (c CertificateError) Unwrap() error {
	return c.Cause
}

// DocumentFailure describes why a single document failed to sign.
type DocumentFailure struct {
	DocumentID string `json:"documentID"`
	Reason     string `json:"reason"`
}

// SigningFailedError is returned when one or more documents of an operation failed to sign.
type SigningFailedError struct {
	Failures []DocumentFailure
}

func (s SigningFailedError) Error() string {
	parts := make([]string, len(s.Failures))
	for i, failure := range s.Failures {
		parts[i] = fmt.Sprintf("%s (%s)", failure.DocumentID, failure.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrSigningFailed, strings.Join(parts, ", "))
}

func (s SigningFailedError) Is(target error) bool {
	return target == ErrSigningFailed
}
