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

// Package challenge sends and verifies the one-time passcodes that authorize signing.
package challenge

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/sirupsen/logrus"
)

// Manager keeps at most one unconsumed challenge ticket per session.
// Validity of codes is decided by the challenge authority.
type Manager struct {
	authority authority.ChallengeAuthority
	// now returns the current time, replaced in tests.
	now func() time.Time
	// newID generates ticket IDs, replaced in tests.
	newID func() string
}

// NewManager creates a Manager sending codes through the given authority.
func NewManager(challengeAuthority authority.ChallengeAuthority) *Manager {
	return &Manager{
		authority: challengeAuthority,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Send requests a new code over the given channel and makes its ticket the active ticket of the session.
// The previously active ticket, if unconsumed, is superseded. If sending fails the session is left unchanged,
// so the signatory can request another code.
func (m *Manager) Send(ctx context.Context, session *types.SigningSession, channel types.Channel) (*types.ChallengeTicket, error) {
	logger := sessionLogger(session)
	var recipient string
	switch channel {
	case types.SMSChannel:
		recipient = session.Signatory.Phone
	case types.EmailChannel:
		recipient = session.Signatory.Email
	default:
		return nil, fmt.Errorf("unsupported challenge channel: %s", channel)
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: no recipient for channel %s", types.ErrProfileIncomplete, channel)
	}
	ticket := types.ChallengeTicket{
		ID:       m.newID(),
		Channel:  channel,
		IssuedAt: m.now(),
	}
	ack, err := m.authority.SendCode(ctx, authority.CodeRequest{
		SessionID: session.ID,
		TicketID:  ticket.ID,
		Channel:   channel,
		Recipient: recipient,
	})
	if err != nil {
		logger.WithError(err).Warnf("Unable to send challenge over %s", channel)
		return nil, fmt.Errorf("unable to send challenge: %w", err)
	}
	ticket.OperationRef = ack.Reference
	if session.Ticket != nil && !session.Ticket.Consumed {
		session.SupersededTickets = append(session.SupersededTickets, session.Ticket.ID)
	}
	session.Ticket = &ticket
	audit.Log(ctx, logger.WithField(core.LogFieldTicketID, ticket.ID), audit.ChallengeSentEvent).
		Infof("Challenge sent over %s", channel)
	return &ticket, nil
}

// Verify checks the code of the given ticket (or the active ticket, if ticketID is empty).
// A ticket is single use: when the authority checked the code, the ticket is consumed regardless of the outcome.
// Superseded and consumed tickets fail with types.ErrChallengeExpired without contacting the authority.
func (m *Manager) Verify(ctx context.Context, session *types.SigningSession, ticketID string, code string) (*types.SubmissionAuthorization, error) {
	if ticketID == "" && session.Ticket != nil {
		ticketID = session.Ticket.ID
	}
	logger := sessionLogger(session).WithField(core.LogFieldTicketID, ticketID)
	if slices.Contains(session.SupersededTickets, ticketID) {
		return nil, m.reject(ctx, logger, types.ErrChallengeExpired, "Challenge was superseded by a newer challenge")
	}
	if session.Ticket == nil || session.Ticket.ID != ticketID || session.Ticket.Consumed {
		return nil, m.reject(ctx, logger, types.ErrChallengeExpired, "Challenge is unknown or was already used")
	}
	result, err := m.authority.VerifyCode(ctx, authority.VerifyRequest{
		SessionID:    session.ID,
		TicketID:     ticketID,
		OperationRef: session.Ticket.OperationRef,
		Code:         code,
	})
	if err != nil {
		// the code was not checked, so the ticket can still be used
		logger.WithError(err).Warn("Unable to verify challenge")
		return nil, fmt.Errorf("unable to verify challenge: %w", err)
	}
	session.Ticket.Consumed = true
	switch result.Outcome {
	case authority.Authorized:
		audit.Log(ctx, logger, audit.ChallengeVerifiedEvent).Info("Challenge verified")
		return &types.SubmissionAuthorization{
			TicketID:     ticketID,
			Proof:        result.Proof,
			AuthorizedAt: m.now(),
		}, nil
	case authority.Expired:
		return nil, m.reject(ctx, logger, types.ErrChallengeExpired, "Challenge expired")
	default:
		return nil, m.reject(ctx, logger, types.ErrChallengeInvalid, "Challenge code is invalid")
	}
}

func (m *Manager) reject(ctx context.Context, logger *logrus.Entry, err error, message string) error {
	audit.Log(ctx, logger, audit.ChallengeRejectedEvent).Info(message)
	return err
}

func sessionLogger(session *types.SigningSession) *logrus.Entry {
	return log.Logger().
		WithField(core.LogFieldSessionID, session.ID).
		WithField(core.LogFieldSignatoryID, session.Signatory.ID)
}
