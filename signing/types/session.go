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
	"time"

	"github.com/nuts-foundation/nuts-signing/crypto/hash"
)

// SigningSession is the state of one signatory signing one batch of documents.
type SigningSession struct {
	ID         string               `json:"id"`
	CampaignID string               `json:"campaignID,omitempty"`
	Phase      Phase                `json:"phase"`
	Signatory  Signatory            `json:"signatory"`
	Documents  []DocumentSignTarget `json:"documents"`
	// Digests holds the digests documents were submitted with, keyed by document ID.
	// They are pinned once the documents were submitted.
	Digests     map[string]hash.SHA256Hash `json:"digests,omitempty"`
	Certificate *CertificateRecord         `json:"certificate,omitempty"`
	Ticket      *ChallengeTicket           `json:"ticket,omitempty"`
	// SupersededTickets holds the IDs of tickets that were replaced by a newer challenge.
	SupersededTickets []string          `json:"supersededTickets,omitempty"`
	Operation         *SigningOperation `json:"operation,omitempty"`
	LastError         string            `json:"lastError,omitempty"`
	PollAttempts      int               `json:"pollAttempts"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	CompletedAt       *time.Time        `json:"completedAt,omitempty"`
}

// DocumentIDs returns the IDs of the session's documents, in order.
func (s SigningSession) DocumentIDs() []string {
	result := make([]string, len(s.Documents))
	for i, document := range s.Documents {
		result[i] = document.DocumentID
	}
	return result
}

// Succeeded returns true if the session completed with all documents signed.
func (s SigningSession) Succeeded() bool {
	return s.Phase == Completed && s.Operation != nil && s.Operation.AllSigned()
}

// Copy returns a deep copy of the session.
func (s SigningSession) Copy() *SigningSession {
	result := s
	result.Documents = append([]DocumentSignTarget{}, s.Documents...)
	if s.Digests != nil {
		result.Digests = make(map[string]hash.SHA256Hash, len(s.Digests))
		for k, v := range s.Digests {
			result.Digests[k] = v
		}
	}
	if s.Certificate != nil {
		certificate := *s.Certificate
		result.Certificate = &certificate
	}
	if s.Ticket != nil {
		ticket := *s.Ticket
		result.Ticket = &ticket
	}
	result.SupersededTickets = append([]string{}, s.SupersededTickets...)
	if s.Operation != nil {
		result.Operation = s.Operation.Copy()
	}
	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		result.CompletedAt = &completedAt
	}
	return &result
}
