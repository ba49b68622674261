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

package campaign

import (
	"context"

	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// Sessions gives the tracker access to the signing sessions of the parties.
type Sessions interface {
	// Get returns the current state of the session.
	Get(ctx context.Context, sessionID string) (*types.SigningSession, error)
	// Create creates and starts a session for the signatory, as part of the given campaign.
	Create(ctx context.Context, campaignID string, signatory types.Signatory, documents []types.DocumentSignTarget) (*types.SigningSession, error)
	// SendChallenge sends a new passcode to the signatory of the session.
	SendChallenge(ctx context.Context, sessionID string, channel types.Channel) (*types.ChallengeTicket, error)
}

// Participant is a party of a new campaign.
type Participant struct {
	Signatory types.Signatory
	Documents []types.DocumentSignTarget
}
