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

// Package submission submits documents to the signing authority.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/crypto/hash"
	"github.com/nuts-foundation/nuts-signing/signing/appearance"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/digest"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

// Submitter binds the reviewed document digests, the certificate and a just verified challenge into one submission.
type Submitter struct {
	digests   *digest.Service
	authority authority.SigningAuthority
	renderer  *appearance.Renderer
	// now returns the current time, replaced in tests.
	now func() time.Time
}

// NewSubmitter creates a Submitter.
func NewSubmitter(digests *digest.Service, signingAuthority authority.SigningAuthority, renderer *appearance.Renderer) *Submitter {
	return &Submitter{
		digests:   digests,
		authority: signingAuthority,
		renderer:  renderer,
		now:       time.Now,
	}
}

// PinDigests computes the digests of the documents that have none yet, and pins them on the session.
func (s *Submitter) PinDigests(ctx context.Context, session *types.SigningSession) error {
	if session.Digests == nil {
		session.Digests = map[string]hash.SHA256Hash{}
	}
	for _, document := range session.Documents {
		if _, ok := session.Digests[document.DocumentID]; ok {
			continue
		}
		result, err := s.digests.Digest(ctx, session.ID, document)
		if err != nil {
			return err
		}
		session.Digests[document.DocumentID] = result
	}
	return nil
}

// Submit submits the session's documents using the given authorization, which must belong to the session's
// just consumed ticket. Pinned digests are checked against the current document bytes before anything is sent:
// a changed document fails with types.ErrDigestMismatch.
// A stale challenge, detected locally or by the authority, fails with types.ErrStaleChallenge.
func (s *Submitter) Submit(ctx context.Context, session *types.SigningSession, authorization types.SubmissionAuthorization) (*types.SigningOperation, error) {
	logger := log.Logger().
		WithField(core.LogFieldSessionID, session.ID).
		WithField(core.LogFieldSignatoryID, session.Signatory.ID)
	if session.Certificate == nil || !session.Certificate.Usable() {
		return nil, fmt.Errorf("%w: session has no usable certificate", types.ErrInvalidPhase)
	}
	if session.Ticket == nil || !session.Ticket.Consumed || session.Ticket.ID != authorization.TicketID || authorization.Proof == "" {
		return nil, types.ErrStaleChallenge
	}
	if len(session.Documents) == 0 {
		return nil, fmt.Errorf("%w: no documents to sign", types.ErrInvalidPhase)
	}

	payloads := make([]authority.DocumentPayload, 0, len(session.Documents))
	for _, document := range session.Documents {
		pinned, ok := session.Digests[document.DocumentID]
		if ok {
			if err := s.digests.Verify(ctx, session.ID, document, pinned); err != nil {
				return nil, err
			}
		} else {
			var err error
			if pinned, err = s.digests.Digest(ctx, session.ID, document); err != nil {
				return nil, err
			}
			if session.Digests == nil {
				session.Digests = map[string]hash.SHA256Hash{}
			}
			session.Digests[document.DocumentID] = pinned
		}
		payloads = append(payloads, authority.DocumentPayload{
			DocumentID: document.DocumentID,
			Title:      document.Title,
			Digest:     pinned,
		})
	}
	stamp, err := s.renderer.Render(session.Signatory, s.now())
	if err != nil {
		return nil, err
	}

	operationID, err := s.authority.Submit(ctx, authority.SubmitRequest{
		SessionID:        session.ID,
		CertificateAlias: session.Certificate.Alias,
		ChallengeProof:   authorization.Proof,
		Documents:        payloads,
		Appearance:       stamp,
	})
	if errors.Is(err, types.ErrStaleChallenge) {
		logger.Info("Signing authority rejected the challenge as stale")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("unable to submit documents: %w", err)
	}
	audit.Log(ctx, logger.WithField(core.LogFieldOperationID, operationID), audit.DocumentsSubmittedEvent).
		Infof("Submitted %d document(s) for signing", len(payloads))
	return types.NewSigningOperation(operationID, session.DocumentIDs(), s.now()), nil
}
