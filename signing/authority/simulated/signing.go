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

package simulated

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

var _ authority.SigningAuthority = (*SigningAuthority)(nil)

// DefaultScript is the sequence of statuses reported for each document: pending twice, then signed.
var DefaultScript = []types.DocumentStatus{types.DocumentPending, types.DocumentPending, types.DocumentSigned}

type operation struct {
	documentIDs []string
	queries     int
}

// SigningAuthority resolves documents following a script of statuses, one step per status query.
type SigningAuthority struct {
	InStrictMode bool
	// Scripts holds the statuses reported for a document, per document ID. Documents without script follow DefaultScript.
	// Once the end of the script is reached its last status is reported.
	Scripts map[string][]types.DocumentStatus

	challenges *ChallengeAuthority
	mux        sync.Mutex
	operations map[string]*operation
}

// NewSigningAuthority creates a simulated signing authority accepting proofs from the given challenge authority.
func NewSigningAuthority(challenges *ChallengeAuthority) *SigningAuthority {
	return &SigningAuthority{
		Scripts:    map[string][]types.DocumentStatus{},
		challenges: challenges,
		operations: map[string]*operation{},
	}
}

func (s *SigningAuthority) Submit(_ context.Context, request authority.SubmitRequest) (string, error) {
	if s.InStrictMode {
		return "", errNotEnabled
	}
	if len(request.Documents) == 0 {
		return "", fmt.Errorf("%w: no documents", types.ErrAuthorityRejected)
	}
	if request.CertificateAlias == "" {
		return "", fmt.Errorf("%w: no certificate", types.ErrAuthorityRejected)
	}
	if !s.challenges.redeem(request.ChallengeProof) {
		return "", types.ErrStaleChallenge
	}
	documentIDs := make([]string, len(request.Documents))
	for i, document := range request.Documents {
		documentIDs[i] = document.DocumentID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	id := uuid.NewString()
	s.operations[id] = &operation{documentIDs: documentIDs}
	return id, nil
}

func (s *SigningAuthority) QueryStatus(_ context.Context, operationID string) (*authority.StatusReport, error) {
	if s.InStrictMode {
		return nil, errNotEnabled
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	current, ok := s.operations[operationID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %s", types.ErrAuthorityRejected, operationID)
	}
	current.queries++
	result := &authority.StatusReport{Done: true}
	for _, documentID := range current.documentIDs {
		status := s.statusOf(documentID, current.queries)
		report := authority.DocumentReport{DocumentID: documentID, Status: status}
		if status == types.DocumentFailed {
			report.ErrorDetail = "simulated failure"
		}
		if status == types.DocumentPending {
			result.Done = false
		}
		result.Documents = append(result.Documents, report)
	}
	return result, nil
}

func (s *SigningAuthority) statusOf(documentID string, query int) types.DocumentStatus {
	script, ok := s.Scripts[documentID]
	if !ok || len(script) == 0 {
		script = DefaultScript
	}
	if query < 1 {
		return types.DocumentPending
	}
	if query > len(script) {
		return script[len(script)-1]
	}
	return script[query-1]
}

func (s *SigningAuthority) FinalArtifact(_ context.Context, operationIDs []string) (string, error) {
	if s.InStrictMode {
		return "", errNotEnabled
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, operationID := range operationIDs {
		current, ok := s.operations[operationID]
		if !ok {
			return "", fmt.Errorf("%w: unknown operation %s", types.ErrAuthorityRejected, operationID)
		}
		for _, documentID := range current.documentIDs {
			if s.statusOf(documentID, current.queries) != types.DocumentSigned {
				return "", fmt.Errorf("%w: operation %s is not signed", types.ErrAuthorityRejected, operationID)
			}
		}
	}
	sorted := append([]string{}, operationIDs...)
	sort.Strings(sorted)
	return "artifact-" + hash.SHA256Sum([]byte(strings.Join(sorted, ","))).String()[:16], nil
}
