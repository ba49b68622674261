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

package v1

import (
	"github.com/nuts-foundation/nuts-signing/signing"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// SigningSession is a type alias
type SigningSession = types.SigningSession

// ChallengeTicket is a type alias
type ChallengeTicket = types.ChallengeTicket

// CampaignCompletionState is a type alias
type CampaignCompletionState = types.CampaignCompletionState

// ParticipantRequest is a signatory with the documents it needs to sign.
type ParticipantRequest struct {
	Profile   identity.Profile           `json:"profile"`
	Documents []types.DocumentSignTarget `json:"documents"`
}

func (p ParticipantRequest) toParticipant() signing.Participant {
	return signing.Participant{Profile: p.Profile, Documents: p.Documents}
}

// CreateCampaignRequest is the body of a request that starts a campaign.
type CreateCampaignRequest struct {
	Owner        ParticipantRequest `json:"owner"`
	Counterparty ParticipantRequest `json:"counterparty"`
}

// SendChallengeRequest is the body of a request that sends a passcode.
type SendChallengeRequest struct {
	// Channel is either SMS or EMAIL.
	Channel string `json:"channel"`
}

// AuthorizeRequest is the body of a request that authorizes the submission with a passcode.
type AuthorizeRequest struct {
	TicketID string `json:"ticketID"`
	Code     string `json:"code"`
}
