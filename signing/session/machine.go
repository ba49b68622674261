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

// Package session sequences certificate issuance, challenge, submission and polling for one signatory's batch of documents.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/certificate"
	"github.com/nuts-foundation/nuts-signing/signing/challenge"
	"github.com/nuts-foundation/nuts-signing/signing/digest"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/poller"
	"github.com/nuts-foundation/nuts-signing/signing/submission"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/sirupsen/logrus"
)

const moduleName = "Signing"

// ErrNoDocuments is returned when a session is created without documents, or with duplicate document IDs.
var ErrNoDocuments = errors.New("session needs at least one document, with unique document IDs")

// errCancelled is returned by an operation when the session was cancelled while it was running.
var errCancelled = fmt.Errorf("%w: session was cancelled", context.Canceled)

// Components are the collaborators shared by all session machines.
type Components struct {
	Issuer     *certificate.Issuer
	Challenges *challenge.Manager
	Submitter  *submission.Submitter
	Poller     *poller.Poller
	Digests    *digest.Service
	Repository Repository
	Sink       events.Sink
	Metrics    *Metrics
}

// Machine runs the signing flow of one session. Only one operation runs at a time,
// concurrent calls fail with types.ErrSessionBusy. Cancel and Snapshot may be called at any time.
// Every transition is persisted before it becomes visible.
type Machine struct {
	components *Components
	busy       atomic.Bool

	mux     sync.RWMutex
	session *types.SigningSession
	// generation is incremented on cancellation, so results of operations that were running are discarded.
	generation    uint64
	cancelRunning context.CancelFunc

	// now returns the current time, replaced in tests.
	now func() time.Time
}

// Validate checks a session can be created for the signatory and documents.
// Every document needs a unique ID.
func Validate(signatory types.Signatory, documents []types.DocumentSignTarget) error {
	if err := identity.Validate(signatory); err != nil {
		return err
	}
	if len(documents) == 0 {
		return ErrNoDocuments
	}
	seen := map[string]bool{}
	for _, document := range documents {
		if document.DocumentID == "" || seen[document.DocumentID] {
			return ErrNoDocuments
		}
		seen[document.DocumentID] = true
	}
	return nil
}

// Create creates and persists a new session in the Idle phase.
func Create(ctx context.Context, components *Components, id string, campaignID string, signatory types.Signatory, documents []types.DocumentSignTarget) (*Machine, error) {
	if err := Validate(signatory, documents); err != nil {
		return nil, err
	}
	machine := newMachine(components, nil)
	now := machine.now()
	session := &types.SigningSession{
		ID:         id,
		CampaignID: campaignID,
		Phase:      types.Idle,
		Signatory:  signatory,
		Documents:  append([]types.DocumentSignTarget{}, documents...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := components.Repository.Put(context.WithoutCancel(ctx), session); err != nil {
		return nil, fmt.Errorf("unable to store session: %w", err)
	}
	machine.session = session
	machine.logger().Info("Signing session created")
	return machine, nil
}

// Resume rebuilds the machine of a persisted session, e.g. after a restart.
// A session that was submitted continues polling its operation, it is never submitted again.
// Other unfinished sessions restart at Idle, relying on certificate issuance being idempotent.
// Terminal sessions are loaded as they are.
func Resume(ctx context.Context, components *Components, stored *types.SigningSession) (*Machine, error) {
	machine := newMachine(components, stored.Copy())
	from := stored.Phase
	next := stored.Copy()
	var to types.Phase
	switch {
	case from.IsTerminal() || from == types.Idle:
		return machine, nil
	case from == types.Polling:
		return machine, nil
	case from == types.Signing && stored.Operation != nil:
		to = types.Polling
	default:
		to = types.Idle
		next.Ticket = nil
		next.Operation = nil
		next.PollAttempts = 0
	}
	if err := machine.apply(ctx, machine.generation, next, to); err != nil {
		return nil, err
	}
	machine.logger().Infof("Signing session resumed (from=%s)", from)
	return machine, nil
}

func newMachine(components *Components, session *types.SigningSession) *Machine {
	return &Machine{
		components: components,
		session:    session,
		now:        time.Now,
	}
}

// Snapshot returns a copy of the current state of the session.
func (m *Machine) Snapshot() *types.SigningSession {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.session.Copy()
}

// Start requests (or reuses) the certificate of the signatory and pins the digests of the documents.
// On success the session awaits a challenge. Certificate failures fail the session and are returned as types.CertificateError.
func (m *Machine) Start(ctx context.Context) error {
	ctx, generation, release, err := m.acquire(ctx, "Start")
	if err != nil {
		return err
	}
	defer release()
	if err := m.requirePhase(types.Idle); err != nil {
		return err
	}
	next := m.Snapshot()
	next.LastError = ""
	if err := m.apply(ctx, generation, next, types.IssuingCertificate); err != nil {
		return err
	}

	record, issueErr := m.components.Issuer.IssueOrReuse(ctx, next.Signatory)
	next = m.Snapshot()
	if issueErr != nil {
		if m.cancelled(generation) {
			return errCancelled
		}
		next.LastError = issueErr.Error()
		if err := m.apply(ctx, generation, next, types.Failed); err != nil {
			return err
		}
		notify(ctx, m.components.Sink, events.CertificateFailed, next, nil)
		return issueErr
	}
	next.Certificate = record
	if err := m.components.Submitter.PinDigests(ctx, next); err != nil {
		// digests that could not be pinned yet are computed on submission
		m.logger().WithError(err).Warn("Unable to compute document digests")
	}
	if err := m.apply(ctx, generation, next, types.AwaitingChallenge); err != nil {
		return err
	}
	notify(ctx, m.components.Sink, events.CertificateIssued, next, nil)
	return nil
}

// SendChallenge sends a passcode over the given channel, superseding the previous unused passcode.
// When sending fails the session keeps waiting for a challenge and the error is returned.
func (m *Machine) SendChallenge(ctx context.Context, channel types.Channel) (*types.ChallengeTicket, error) {
	ctx, generation, release, err := m.acquire(ctx, "SendChallenge")
	if err != nil {
		return nil, err
	}
	defer release()
	if err := m.requirePhase(types.AwaitingChallenge); err != nil {
		return nil, err
	}
	next := m.Snapshot()
	ticket, sendErr := m.components.Challenges.Send(ctx, next, channel)
	if sendErr != nil {
		if m.cancelled(generation) {
			return nil, errCancelled
		}
		next.LastError = sendErr.Error()
		if err := m.apply(ctx, generation, next, types.AwaitingChallenge); err != nil {
			return nil, err
		}
		return nil, sendErr
	}
	next.LastError = ""
	if err := m.apply(ctx, generation, next, types.AwaitingChallenge); err != nil {
		return nil, err
	}
	notify(ctx, m.components.Sink, events.ChallengeSent, next, map[string]interface{}{"channel": channel})
	result := *ticket
	return &result, nil
}

// Authorize verifies the passcode of the given ticket (the active ticket if empty) and submits the documents.
// A wrong or expired passcode leaves the session awaiting a challenge.
// A stale challenge or changed document returns the session to AwaitingChallenge, other submission failures fail the session.
// On success the session is polling the returned operation, see Poll.
func (m *Machine) Authorize(ctx context.Context, ticketID string, code string) (*types.SigningOperation, error) {
	ctx, generation, release, err := m.acquire(ctx, "Authorize")
	if err != nil {
		return nil, err
	}
	defer release()
	if err := m.requirePhase(types.AwaitingChallenge); err != nil {
		return nil, err
	}

	next := m.Snapshot()
	authorization, verifyErr := m.components.Challenges.Verify(ctx, next, ticketID, code)
	if verifyErr != nil {
		if m.cancelled(generation) {
			return nil, errCancelled
		}
		next.LastError = verifyErr.Error()
		if err := m.apply(ctx, generation, next, types.AwaitingChallenge); err != nil {
			return nil, err
		}
		notify(ctx, m.components.Sink, events.ChallengeRejected, next, nil)
		return nil, verifyErr
	}
	next.LastError = ""
	if err := m.apply(ctx, generation, next, types.Signing); err != nil {
		return nil, err
	}

	next = m.Snapshot()
	operation, submitErr := m.components.Submitter.Submit(ctx, next, *authorization)
	if submitErr != nil {
		if m.cancelled(generation) {
			return nil, errCancelled
		}
		next.LastError = submitErr.Error()
		switch {
		case errors.Is(submitErr, types.ErrDigestMismatch):
			// the documents must be reviewed again, their new digests are pinned on the next submission
			next.Digests = nil
			m.components.Digests.Forget(next.ID)
			fallthrough
		case errors.Is(submitErr, types.ErrStaleChallenge):
			if err := m.apply(ctx, generation, next, types.AwaitingChallenge); err != nil {
				return nil, err
			}
		default:
			if err := m.apply(ctx, generation, next, types.Failed); err != nil {
				return nil, err
			}
			audit.Log(ctx, m.logger(), audit.SigningFailedEvent).Infof("Signing failed: %s", submitErr)
			notify(ctx, m.components.Sink, events.SigningFailed, next, nil)
		}
		return nil, submitErr
	}
	next.Operation = operation
	next.PollAttempts = 0
	if err := m.apply(ctx, generation, next, types.Polling); err != nil {
		return nil, err
	}
	notify(ctx, m.components.Sink, events.SigningSubmitted, next, nil)
	return operation.Copy(), nil
}

// Poll queries the status of the submitted operation until it is resolved or the poll budget is exhausted.
// Every attempt is persisted, so polling continues where it left off after a restart.
// It returns the resulting state of the session. Cancelling ctx stops polling and leaves the session polling.
func (m *Machine) Poll(ctx context.Context) (*types.SigningSession, error) {
	ctx, generation, release, err := m.acquire(ctx, "Poll")
	if err != nil {
		return nil, err
	}
	defer release()
	if err := m.requirePhase(types.Polling); err != nil {
		return nil, err
	}
	current := m.Snapshot()
	if current.Operation == nil {
		return nil, fmt.Errorf("%w: session has no operation", types.ErrInvalidPhase)
	}
	startAttempt := current.PollAttempts
	logger := m.logger().WithField(core.LogFieldOperationID, current.Operation.ID)

	result, pollErr := m.components.Poller.Poll(ctx, current.Operation, startAttempt, func(attempt int, operation *types.SigningOperation, err error) {
		next := m.Snapshot()
		next.Operation = operation
		next.PollAttempts = attempt
		next.LastError = ""
		if err != nil {
			next.LastError = err.Error()
		}
		if err := m.apply(ctx, generation, next, types.Polling); err != nil && !m.cancelled(generation) {
			logger.WithError(err).Error("Unable to persist poll attempt")
		}
	})
	m.components.Metrics.observePollRun(result.Attempts - startAttempt)
	if pollErr != nil {
		if m.cancelled(generation) {
			return nil, errCancelled
		}
		logger.WithError(pollErr).Info("Polling stopped")
		return nil, pollErr
	}
	if err := m.finish(ctx, generation, result); err != nil {
		return nil, err
	}
	return m.Snapshot(), nil
}

// CheckStatus queries the status of an expired session's operation once, since the signing authority may
// still have completed it. The session stays expired while documents are pending.
func (m *Machine) CheckStatus(ctx context.Context) (*types.SigningSession, error) {
	ctx, generation, release, err := m.acquire(ctx, "CheckStatus")
	if err != nil {
		return nil, err
	}
	defer release()
	if err := m.requirePhase(types.Expired); err != nil {
		return nil, err
	}
	current := m.Snapshot()
	if current.Operation == nil {
		return nil, fmt.Errorf("%w: session has no operation", types.ErrInvalidPhase)
	}
	result, err := m.components.Poller.QueryOnce(ctx, current.Operation)
	if err != nil {
		return nil, err
	}
	if result.Phase == types.Expired {
		m.logger().Debug("Operation is still pending")
		return current, nil
	}
	if err := m.finish(ctx, generation, result); err != nil {
		return nil, err
	}
	return m.Snapshot(), nil
}

// RefreshDigests drops the pinned document digests and computes them again, after the documents were reviewed again.
// It is only allowed before the documents were submitted.
func (m *Machine) RefreshDigests(ctx context.Context) error {
	ctx, generation, release, err := m.acquire(ctx, "RefreshDigests")
	if err != nil {
		return err
	}
	defer release()
	if err := m.requirePhase(types.AwaitingChallenge); err != nil {
		return err
	}
	next := m.Snapshot()
	next.Digests = nil
	m.components.Digests.Forget(next.ID)
	if err := m.components.Submitter.PinDigests(ctx, next); err != nil {
		return err
	}
	return m.apply(ctx, generation, next, types.AwaitingChallenge)
}

// Cancel stops the running operation, if any, and returns the session to Idle.
// Terminal sessions can't be cancelled.
func (m *Machine) Cancel(ctx context.Context) error {
	ctx = m.auditContext(ctx, "Cancel")
	m.mux.Lock()
	phase := m.session.Phase
	if phase.IsTerminal() || phase == types.Idle {
		m.mux.Unlock()
		return fmt.Errorf("%w: session is %s", types.ErrInvalidPhase, phase)
	}
	m.generation++
	if m.cancelRunning != nil {
		m.cancelRunning()
	}
	generation := m.generation
	next := m.session.Copy()
	m.mux.Unlock()

	next.Ticket = nil
	next.SupersededTickets = nil
	next.Operation = nil
	next.PollAttempts = 0
	next.Digests = nil
	next.LastError = ""
	m.components.Digests.Forget(next.ID)
	if err := m.apply(ctx, generation, next, types.Idle); err != nil {
		return err
	}
	audit.Log(ctx, m.logger(), audit.SessionCancelledEvent).Infof("Signing session cancelled (phase=%s)", phase)
	notify(ctx, m.components.Sink, events.SessionCancelled, next, nil)
	return nil
}

// finish applies the terminal outcome of polling.
func (m *Machine) finish(ctx context.Context, generation uint64, result poller.Result) error {
	next := m.Snapshot()
	next.Operation = result.Operation
	if result.Attempts > 0 {
		next.PollAttempts = result.Attempts
	}
	logger := m.logger().WithField(core.LogFieldOperationID, result.Operation.ID)
	switch result.Phase {
	case types.Completed:
		next.LastError = ""
		if err := m.apply(ctx, generation, next, types.Completed); err != nil {
			return err
		}
		audit.Log(ctx, logger, audit.SigningCompletedEvent).Infof("Signed %d document(s)", len(next.Documents))
		notify(ctx, m.components.Sink, events.SigningCompleted, next, nil)
	case types.Failed:
		next.LastError = types.SigningFailedError{Failures: result.Failures}.Error()
		if err := m.apply(ctx, generation, next, types.Failed); err != nil {
			return err
		}
		audit.Log(ctx, logger, audit.SigningFailedEvent).Info(next.LastError)
		notify(ctx, m.components.Sink, events.SigningFailed, next, nil)
	default:
		next.LastError = fmt.Sprintf("%d document(s) still pending after %d status queries", result.Operation.Pending(), result.Attempts)
		if err := m.apply(ctx, generation, next, types.Expired); err != nil {
			return err
		}
		notify(ctx, m.components.Sink, events.SigningExpired, next, nil)
	}
	return nil
}

// apply makes next the current state of the session in the given phase, after persisting it.
// It fails when the transition is not allowed, or the session was cancelled since the operation started.
func (m *Machine) apply(ctx context.Context, generation uint64, next *types.SigningSession, to types.Phase) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if generation != m.generation {
		return errCancelled
	}
	from := m.session.Phase
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", types.ErrInvalidPhase, from, to)
	}
	now := m.now()
	next.Phase = to
	next.UpdatedAt = now
	if to.IsTerminal() {
		next.CompletedAt = &now
	} else {
		next.CompletedAt = nil
	}
	if err := m.components.Repository.Put(context.WithoutCancel(ctx), next); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldSessionID, next.ID).
			Errorf("Unable to persist session transition (%s -> %s)", from, to)
		return fmt.Errorf("unable to store session: %w", err)
	}
	m.session = next.Copy()
	m.components.Metrics.observeTransition(string(from), string(to))
	log.Logger().
		WithField(core.LogFieldSessionID, next.ID).
		WithField(core.LogFieldPhase, to).
		Debugf("Session transition %s -> %s", from, to)
	return nil
}

// acquire marks the session busy for the duration of an operation. The returned context is cancelled by Cancel.
func (m *Machine) acquire(ctx context.Context, operation string) (context.Context, uint64, func(), error) {
	if !m.busy.CompareAndSwap(false, true) {
		return nil, 0, nil, types.ErrSessionBusy
	}
	runCtx, cancel := context.WithCancel(m.auditContext(ctx, operation))
	m.mux.Lock()
	m.cancelRunning = cancel
	generation := m.generation
	m.mux.Unlock()
	return runCtx, generation, func() {
		m.mux.Lock()
		m.cancelRunning = nil
		m.mux.Unlock()
		cancel()
		m.busy.Store(false)
	}, nil
}

// auditContext attributes the operation to the signatory, unless the caller already provided an actor.
func (m *Machine) auditContext(ctx context.Context, operation string) context.Context {
	if info := audit.InfoFromContext(ctx); info != nil && info.Actor != "" {
		return ctx
	}
	m.mux.RLock()
	actor := m.session.Signatory.ID
	m.mux.RUnlock()
	return audit.Context(ctx, actor, moduleName, operation)
}

func (m *Machine) cancelled(generation uint64) bool {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return generation != m.generation
}

func (m *Machine) requirePhase(phase types.Phase) error {
	m.mux.RLock()
	defer m.mux.RUnlock()
	if m.session.Phase != phase {
		return fmt.Errorf("%w: session is %s", types.ErrInvalidPhase, m.session.Phase)
	}
	return nil
}

func (m *Machine) logger() *logrus.Entry {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return log.Logger().
		WithField(core.LogFieldSessionID, m.session.ID).
		WithField(core.LogFieldSignatoryID, m.session.Signatory.ID)
}
