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

package events

import (
	"context"
	"time"
)

// Kind identifies what happened in a signing flow.
type Kind string

const (
	// CertificateIssued is sent when the signatory's certificate was issued or reused.
	CertificateIssued Kind = "certificate.issued"
	// CertificateFailed is sent when the certificate could not be issued.
	CertificateFailed Kind = "certificate.failed"
	// ChallengeSent is sent when a passcode was sent to the signatory.
	ChallengeSent Kind = "challenge.sent"
	// ChallengeRejected is sent when a passcode was wrong or expired.
	ChallengeRejected Kind = "challenge.rejected"
	// SigningSubmitted is sent when the documents were submitted to the signing authority.
	SigningSubmitted Kind = "signing.submitted"
	// SigningCompleted is sent when all documents of a session were signed.
	SigningCompleted Kind = "signing.completed"
	// SigningFailed is sent when a session failed.
	SigningFailed Kind = "signing.failed"
	// SigningExpired is sent when the signing authority did not resolve the operation in time.
	SigningExpired Kind = "signing.expired"
	// SessionCancelled is sent when a session was cancelled.
	SessionCancelled Kind = "session.cancelled"
	// CampaignUpdated is sent when the combined status of a campaign changed.
	CampaignUpdated Kind = "campaign.updated"
)

// Notification is a human-readable progress or error event of a signing flow.
type Notification struct {
	Kind        Kind      `json:"kind"`
	SessionID   string    `json:"sessionID,omitempty"`
	CampaignID  string    `json:"campaignID,omitempty"`
	SignatoryID string    `json:"signatoryID,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// Sink receives notifications. Implementations must not block the caller on delivery
// and report delivery failures through logging only.
type Sink interface {
	Notify(ctx context.Context, notification Notification)
}

// Manager is the engine providing the notification sink of the node.
type Manager interface {
	// Sink returns the sink notifications should be sent to.
	Sink() Sink
}
