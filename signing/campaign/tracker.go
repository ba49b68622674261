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

// Package campaign tracks two independently signing parties that together produce one signed artifact.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/sirupsen/logrus"
)

// Combine derives the status of a campaign from the sessions of both parties.
// A failed session takes precedence over an expired one, which takes precedence over any progress.
// The result does not depend on the order of the arguments.
func Combine(owner *types.SigningSession, counterparty *types.SigningSession) types.CampaignStatus {
	switch {
	case owner.Phase == types.Failed || counterparty.Phase == types.Failed:
		return types.CampaignFailed
	case owner.Phase == types.Expired || counterparty.Phase == types.Expired:
		return types.CampaignExpired
	case owner.Succeeded() && counterparty.Succeeded():
		return types.CampaignCompleted
	case owner.Succeeded() || counterparty.Succeeded():
		return types.CampaignPartiallySigned
	default:
		return types.CampaignPending
	}
}

// Tracker maintains the combined completion state of campaigns.
type Tracker struct {
	sessions   Sessions
	repository Repository
	authority  authority.SigningAuthority
	sink       events.Sink
	// now returns the current time, replaced in tests.
	now func() time.Time
	// newID generates campaign IDs, replaced in tests.
	newID func() string
}

// NewTracker creates a Tracker. The signing authority provides the final artifact of completed campaigns.
func NewTracker(sessions Sessions, repository Repository, signingAuthority authority.SigningAuthority, sink events.Sink) *Tracker {
	return &Tracker{
		sessions:   sessions,
		repository: repository,
		authority:  signingAuthority,
		sink:       sink,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Create starts a session for both parties and stores the campaign.
// A session that could be stored but failed to start is kept: the campaign then is failed, and the party can be replaced.
func (t *Tracker) Create(ctx context.Context, owner Participant, counterparty Participant) (*types.CampaignCompletionState, error) {
	state := types.CampaignCompletionState{
		ID:        t.newID(),
		Status:    types.CampaignPending,
		CreatedAt: t.now(),
	}
	ownerSession, err := t.create(ctx, state.ID, types.Owner, owner)
	if err != nil {
		return nil, err
	}
	counterpartySession, err := t.create(ctx, state.ID, types.Counterparty, counterparty)
	if err != nil {
		return nil, err
	}
	state.OwnerSessionID = ownerSession.ID
	state.CounterpartySessionID = counterpartySession.ID
	if err := t.repository.Put(ctx, state); err != nil {
		return nil, fmt.Errorf("unable to store campaign: %w", err)
	}
	t.logger(state.ID).Info("Campaign created")
	if ownerSession.Phase == types.Failed || counterpartySession.Phase == types.Failed {
		return t.Status(ctx, state.ID)
	}
	return &state, nil
}

func (t *Tracker) create(ctx context.Context, campaignID string, party types.Party, participant Participant) (*types.SigningSession, error) {
	session, err := t.sessions.Create(ctx, campaignID, participant.Signatory, participant.Documents)
	if session == nil {
		if err == nil {
			err = errors.New("no session")
		}
		return nil, fmt.Errorf("unable to create session for %s: %w", party, err)
	}
	if err != nil {
		t.logger(campaignID).
			WithField(core.LogFieldSessionID, session.ID).
			WithError(err).
			Warnf("Session of %s failed to start", party)
	}
	return session, nil
}

// Status returns the current completion state of the campaign. When both parties completed,
// the reference to the final artifact is requested from the signing authority.
// Changes are persisted and notified.
func (t *Tracker) Status(ctx context.Context, id string) (*types.CampaignCompletionState, error) {
	state, err := t.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := t.sessions.Get(ctx, state.OwnerSessionID)
	if err != nil {
		return nil, err
	}
	counterparty, err := t.sessions.Get(ctx, state.CounterpartySessionID)
	if err != nil {
		return nil, err
	}

	next := *state
	next.Status = Combine(owner, counterparty)
	// signatures that were placed are kept, even when the other party fails
	if owner.Succeeded() && next.OwnerSignedAt == nil {
		next.OwnerSignedAt = owner.CompletedAt
	}
	if counterparty.Succeeded() && next.CounterpartySignedAt == nil {
		next.CounterpartySignedAt = counterparty.CompletedAt
	}
	if next.Status == types.CampaignCompleted && next.ArtifactRef == "" {
		reference, err := t.authority.FinalArtifact(ctx, []string{owner.Operation.ID, counterparty.Operation.ID})
		if err != nil {
			// requested again on the next status request
			t.logger(id).WithError(err).Warn("Unable to retrieve final artifact")
		} else {
			next.ArtifactRef = reference
		}
	}
	if next == *state {
		return state, nil
	}
	if err := t.repository.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("unable to store campaign: %w", err)
	}
	if next.Status != state.Status {
		t.logger(id).Infof("Campaign is %s", next.Status)
		t.notify(ctx, next)
	}
	return &next, nil
}

// ResendChallenge sends a new passcode to the given party, which must not have signed yet.
func (t *Tracker) ResendChallenge(ctx context.Context, id string, party types.Party, channel types.Channel) (*types.ChallengeTicket, error) {
	state, err := t.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := t.sessions.Get(ctx, state.SessionID(party))
	if err != nil {
		return nil, err
	}
	if session.Succeeded() {
		return nil, fmt.Errorf("%w: %s already signed", types.ErrInvalidPhase, party)
	}
	return t.sessions.SendChallenge(ctx, session.ID, channel)
}

// ReplaceParty starts a new session for a party of which the session failed or expired,
// with the same signatory and documents. The session of the other party is not touched.
func (t *Tracker) ReplaceParty(ctx context.Context, id string, party types.Party) (*types.CampaignCompletionState, error) {
	state, err := t.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, err := t.sessions.Get(ctx, state.SessionID(party))
	if err != nil {
		return nil, err
	}
	if previous.Phase != types.Failed && previous.Phase != types.Expired {
		return nil, fmt.Errorf("%w: session of %s is %s", types.ErrInvalidPhase, party, previous.Phase)
	}
	replacement, err := t.create(ctx, id, party, Participant{Signatory: previous.Signatory, Documents: previous.Documents})
	if err != nil {
		return nil, err
	}
	if party == types.Owner {
		state.OwnerSessionID = replacement.ID
		state.OwnerSignedAt = nil
	} else {
		state.CounterpartySessionID = replacement.ID
		state.CounterpartySignedAt = nil
	}
	if err := t.repository.Put(ctx, *state); err != nil {
		return nil, fmt.Errorf("unable to store campaign: %w", err)
	}
	t.logger(id).
		WithField(core.LogFieldSessionID, replacement.ID).
		Infof("Replaced session of %s (previous=%s)", party, previous.ID)
	return t.Status(ctx, id)
}

func (t *Tracker) notify(ctx context.Context, state types.CampaignCompletionState) {
	if t.sink == nil {
		return
	}
	t.sink.Notify(ctx, events.Notification{
		Kind:       events.CampaignUpdated,
		CampaignID: state.ID,
		Message:    fmt.Sprintf("Campaign is %s", state.Status),
		Timestamp:  t.now(),
	})
}

func (t *Tracker) logger(id string) *logrus.Entry {
	return log.Logger().WithField(core.LogFieldCampaignID, id)
}
