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

package signing

import (
	"context"

	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// ModuleName contains the name of this module
const ModuleName = "Signing"

// Participant is a signatory with the documents to sign.
type Participant struct {
	Profile   identity.Profile
	Documents []types.DocumentSignTarget
}

// Service orchestrates signing sessions and campaigns.
type Service interface {
	// StartSession creates a session for the participant and requests its certificate.
	// On success the session awaits a challenge. When the certificate can't be issued,
	// the failed session is returned together with the error.
	StartSession(ctx context.Context, participant Participant) (*types.SigningSession, error)
	// Session returns the current state of the session.
	Session(ctx context.Context, sessionID string) (*types.SigningSession, error)
	// SendChallenge sends a passcode to the signatory of the session.
	SendChallenge(ctx context.Context, sessionID string, channel types.Channel) (*types.ChallengeTicket, error)
	// Authorize verifies the passcode and submits the documents. Polling for the result continues in the background.
	Authorize(ctx context.Context, sessionID string, ticketID string, code string) (*types.SigningSession, error)
	// CheckStatus checks an expired session again.
	CheckStatus(ctx context.Context, sessionID string) (*types.SigningSession, error)
	// RefreshDigests recomputes the document digests of a session that awaits a challenge.
	RefreshDigests(ctx context.Context, sessionID string) (*types.SigningSession, error)
	// Cancel returns the session to Idle.
	Cancel(ctx context.Context, sessionID string) (*types.SigningSession, error)

	// CreateCampaign starts sessions for both parties.
	// The campaign is stored even when a party's session fails, so that party can be replaced.
	CreateCampaign(ctx context.Context, owner Participant, counterparty Participant) (*types.CampaignCompletionState, error)
	// Campaign returns the combined completion state of the campaign.
	Campaign(ctx context.Context, campaignID string) (*types.CampaignCompletionState, error)
	// ResendChallenge sends a new passcode to a party of the campaign that did not sign yet.
	ResendChallenge(ctx context.Context, campaignID string, party types.Party, channel types.Channel) (*types.ChallengeTicket, error)
	// ReplaceParty starts a new session for a party of which the session failed or expired.
	ReplaceParty(ctx context.Context, campaignID string, party types.Party) (*types.CampaignCompletionState, error)
}
