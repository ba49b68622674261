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
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/nuts-foundation/nuts-signing/signing/authority"
)

var _ authority.ChallengeAuthority = (*ChallengeAuthority)(nil)

// DefaultCodeValidity is how long a simulated passcode can be verified.
const DefaultCodeValidity = 5 * time.Minute

type challenge struct {
	sessionID  string
	issuedAt   time.Time
	consumed   bool
	superseded bool
}

// ChallengeAuthority derives passcodes from ticket IDs (see CodeFor) instead of delivering them.
// Sending a new code for a session supersedes the previous one.
type ChallengeAuthority struct {
	InStrictMode bool
	Validity     time.Duration
	// Now returns the current time, replaced in tests.
	Now func() time.Time

	mux        sync.Mutex
	challenges map[string]*challenge
	active     map[string]string
	proofs     map[string]bool
}

// NewChallengeAuthority creates a simulated challenge authority.
func NewChallengeAuthority() *ChallengeAuthority {
	return &ChallengeAuthority{
		Validity:   DefaultCodeValidity,
		Now:        time.Now,
		challenges: map[string]*challenge{},
		active:     map[string]string{},
		proofs:     map[string]bool{},
	}
}

// CodeFor returns the 6 digit passcode "sent" for the given ticket.
func CodeFor(ticketID string) string {
	sum := sha256.Sum256([]byte("code:" + ticketID))
	return fmt.Sprintf("%06d", binary.BigEndian.Uint32(sum[:4])%1000000)
}

func (c *ChallengeAuthority) SendCode(_ context.Context, request authority.CodeRequest) (*authority.CodeAck, error) {
	if c.InStrictMode {
		return nil, errNotEnabled
	}
	if request.Recipient == "" {
		return nil, fmt.Errorf("no recipient for channel %s", request.Channel)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if previous, ok := c.active[request.SessionID]; ok {
		c.challenges[previous].superseded = true
	}
	c.challenges[request.TicketID] = &challenge{sessionID: request.SessionID, issuedAt: c.Now()}
	c.active[request.SessionID] = request.TicketID
	return &authority.CodeAck{Reference: "ref-" + request.TicketID}, nil
}

func (c *ChallengeAuthority) VerifyCode(_ context.Context, request authority.VerifyRequest) (*authority.VerifyResult, error) {
	if c.InStrictMode {
		return nil, errNotEnabled
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	current, ok := c.challenges[request.TicketID]
	if !ok || current.consumed || current.superseded || c.Now().After(current.issuedAt.Add(c.Validity)) {
		return &authority.VerifyResult{Outcome: authority.Expired}, nil
	}
	current.consumed = true
	if request.Code != CodeFor(request.TicketID) {
		return &authority.VerifyResult{Outcome: authority.Invalid}, nil
	}
	proof := "proof-" + request.TicketID
	c.proofs[proof] = true
	return &authority.VerifyResult{Outcome: authority.Authorized, Proof: proof}, nil
}

// redeem consumes a proof issued by VerifyCode. It returns false if the proof is unknown or was redeemed before.
func (c *ChallengeAuthority) redeem(proof string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	if !c.proofs[proof] {
		return false
	}
	delete(c.proofs, proof)
	return true
}
