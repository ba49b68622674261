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

package audit

import (
	"bytes"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// CertificateIssuedEvent occurs when the certificate authority issued a new certificate for a signatory.
	CertificateIssuedEvent = "CertificateIssued"
	// CertificateReusedEvent occurs when an existing certificate of a signatory is reused.
	CertificateReusedEvent = "CertificateReused"
	// CertificateFailedEvent occurs when a certificate could not be issued.
	CertificateFailedEvent = "CertificateFailed"
	// IdentityProofDegradedEvent occurs when a signatory has no national ID and the identity proof falls back to email.
	IdentityProofDegradedEvent = "IdentityProofDegraded"
	// ChallengeSentEvent occurs when a one-time code has been sent to a signatory.
	ChallengeSentEvent = "ChallengeSent"
	// ChallengeVerifiedEvent occurs when a signatory entered a correct one-time code.
	ChallengeVerifiedEvent = "ChallengeVerified"
	// ChallengeRejectedEvent occurs when a one-time code was wrong or expired.
	ChallengeRejectedEvent = "ChallengeRejected"
	// DocumentsSubmittedEvent occurs when documents were submitted to the signing authority.
	DocumentsSubmittedEvent = "DocumentsSubmitted"
	// SigningCompletedEvent occurs when all documents of a session were signed.
	SigningCompletedEvent = "SigningCompleted"
	// SigningFailedEvent occurs when a signing session failed.
	SigningFailedEvent = "SigningFailed"
	// SessionCancelledEvent occurs when a signing session was cancelled.
	SessionCancelledEvent = "SessionCancelled"
)

const auditLogLevel = "audit"

var auditLoggerInstance *logrus.Logger
var initAuditLoggerOnce = &sync.Once{}

type auditContextKey struct{}

// Info contains contextual information about the actor of an audited operation.
type Info struct {
	// Actor is the entity performing the operation, e.g. an API user or the signatory.
	Actor string
	// Operation is the name of the operation, prefixed with its module.
	Operation string
}

// Context returns a child context of the given context, carrying the audit information.
func Context(ctx context.Context, actor, module, operation string) context.Context {
	return context.WithValue(ctx, auditContextKey{}, Info{
		Actor:     actor,
		Operation: module + "." + operation,
	})
}

// InfoFromContext returns the audit information from the given context, or nil if it's not present.
func InfoFromContext(ctx context.Context) *Info {
	info, ok := ctx.Value(auditContextKey{}).(Info)
	if !ok {
		return nil
	}
	return &info
}

// Log returns a log entry for the given audit event, which must be logged by the caller (e.g. with Info()).
// It panics when the context has no audit information or no event name is given:
// audit events that can't be attributed are a programming error.
func Log(ctx context.Context, logger *logrus.Entry, eventName string) *logrus.Entry {
	info := InfoFromContext(ctx)
	if info == nil || info.Actor == "" {
		panic("audit: no actor in context")
	}
	if eventName == "" {
		panic("audit: no event name")
	}
	entry := auditLogger().WithFields(logger.Data).
		WithField("event", eventName).
		WithField("actor", info.Actor).
		WithField("log", "audit")
	if info.Operation != "" {
		entry = entry.WithField("operation", info.Operation)
	}
	return entry.WithContext(ctx)
}

func auditLogger() *logrus.Logger {
	initAuditLoggerOnce.Do(func() {
		auditLoggerInstance = logrus.New()
		std := logrus.StandardLogger()
		auditLoggerInstance.SetOutput(std.Out)
		auditLoggerInstance.SetLevel(logrus.InfoLevel)
		auditLoggerInstance.SetFormatter(&auditFormatter{})
	})
	return auditLoggerInstance
}

// auditFormatter formats entries with the formatter of the standard logger, replacing the level with "audit".
// Audit entries are always written, regardless of the configured verbosity.
type auditFormatter struct{}

func (a auditFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data, err := logrus.StandardLogger().Formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	level := []byte(entry.Level.String())
	replacements := [][2][]byte{
		{append([]byte("level="), level...), []byte("level=" + auditLogLevel)},
		{append([]byte(`"level":"`), level...), []byte(`"level":"` + auditLogLevel)},
	}
	for _, r := range replacements {
		if bytes.Contains(data, r[0]) {
			return bytes.Replace(data, r[0], r[1], 1), nil
		}
	}
	return data, nil
}
