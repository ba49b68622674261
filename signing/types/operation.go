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
	"sort"
	"time"
)

// DocumentStatus is the status of a single document in a signing operation.
type DocumentStatus string

const (
	// DocumentPending means the document has not been resolved yet.
	DocumentPending DocumentStatus = "pending"
	// DocumentSigned means the document was signed.
	DocumentSigned DocumentStatus = "signed"
	// DocumentFailed means the document could not be signed.
	DocumentFailed DocumentStatus = "failed"
)

// DocumentOutcome is the last known status of a document in a signing operation.
type DocumentOutcome struct {
	Status      DocumentStatus `json:"status"`
	ErrorDetail string         `json:"errorDetail,omitempty"`
}

// SigningOperation is the asynchronous job the signing authority created for a submission.
type SigningOperation struct {
	ID          string                     `json:"id"`
	DocumentIDs []string                   `json:"documentIDs"`
	Outcomes    map[string]DocumentOutcome `json:"outcomes"`
	Terminal    bool                       `json:"terminal"`
	SubmittedAt time.Time                  `json:"submittedAt"`
}

// NewSigningOperation creates an operation with all documents pending.
func NewSigningOperation(id string, documentIDs []string, submittedAt time.Time) *SigningOperation {
	outcomes := make(map[string]DocumentOutcome, len(documentIDs))
	for _, documentID := range documentIDs {
		outcomes[documentID] = DocumentOutcome{Status: DocumentPending}
	}
	return &SigningOperation{
		ID:          id,
		DocumentIDs: append([]string{}, documentIDs...),
		Outcomes:    outcomes,
		SubmittedAt: submittedAt,
	}
}

// Update records the outcome of a document and recalculates the terminal flag.
// Outcomes for documents that are not part of the operation are ignored.
func (o *SigningOperation) Update(documentID string, outcome DocumentOutcome) {
	if _, ok := o.Outcomes[documentID]; !ok {
		return
	}
	o.Outcomes[documentID] = outcome
	o.Terminal = o.Pending() == 0
}

// Pending returns the number of documents without a terminal outcome.
func (o SigningOperation) Pending() int {
	count := 0
	for _, documentID := range o.DocumentIDs {
		if o.Outcomes[documentID].Status == DocumentPending || o.Outcomes[documentID].Status == "" {
			count++
		}
	}
	return count
}

// Failures returns the failed documents, ordered by document ID.
func (o SigningOperation) Failures() []DocumentFailure {
	var result []DocumentFailure
	for _, documentID := range o.DocumentIDs {
		outcome := o.Outcomes[documentID]
		if outcome.Status == DocumentFailed {
			result = append(result, DocumentFailure{DocumentID: documentID, Reason: outcome.ErrorDetail})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocumentID < result[j].DocumentID
	})
	return result
}

// AllSigned returns true if every document of the operation was signed.
func (o SigningOperation) AllSigned() bool {
	for _, documentID := range o.DocumentIDs {
		if o.Outcomes[documentID].Status != DocumentSigned {
			return false
		}
	}
	return len(o.DocumentIDs) > 0
}

// Copy returns a deep copy of the operation.
func (o SigningOperation) Copy() *SigningOperation {
	result := o
	result.DocumentIDs = append([]string{}, o.DocumentIDs...)
	result.Outcomes = make(map[string]DocumentOutcome, len(o.Outcomes))
	for k, v := range o.Outcomes {
		result.Outcomes[k] = v
	}
	return &result
}
