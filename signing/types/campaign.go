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

// CampaignStatus is the combined status of a multi-party signing campaign.
type CampaignStatus string

const (
	// CampaignPending means neither party completed signing.
	CampaignPending CampaignStatus = "pending"
	// CampaignPartiallySigned means exactly one party completed signing.
	CampaignPartiallySigned CampaignStatus = "partially-signed"
	// CampaignCompleted means both parties completed signing.
	CampaignCompleted CampaignStatus = "completed"
	// CampaignExpired means a party's session expired.
	CampaignExpired CampaignStatus = "expired"
	// CampaignFailed means a party's session failed.
	CampaignFailed CampaignStatus = "failed"
)

// Party identifies a party in a campaign.
type Party string

const (
	// Owner is the party that initiated the campaign.
	Owner Party = "owner"
	// Counterparty is the party that counter-signs.
	Counterparty Party = "counterparty"
)

// CampaignCompletionState tracks two independent signing sessions that together produce one signed artifact.
type CampaignCompletionState struct {
	ID                    string         `json:"id"`
	OwnerSessionID        string         `json:"ownerSessionID"`
	CounterpartySessionID string         `json:"counterpartySessionID"`
	OwnerSignedAt         *time.Time     `json:"ownerSignedAt,omitempty"`
	CounterpartySignedAt  *time.Time     `json:"counterpartySignedAt,omitempty"`
	Status                CampaignStatus `json:"status"`
	// ArtifactRef is the reference to the final signed document, set once the campaign completed.
	ArtifactRef string    `json:"artifactRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionID returns the session ID of the given party.
func (c CampaignCompletionState) SessionID(party Party) string {
	if party == Owner {
		return c.OwnerSessionID
	}
	return c.CounterpartySessionID
}
