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

// Phase is the phase of a signing session.
type Phase string

const (
	// Idle is the phase of a session that has not started, or was cancelled.
	Idle Phase = "Idle"
	// IssuingCertificate is the phase in which the signatory's certificate is requested.
	IssuingCertificate Phase = "IssuingCertificate"
	// AwaitingChallenge is the phase in which the session waits for the signatory to enter a passcode.
	AwaitingChallenge Phase = "AwaitingChallenge"
	// Signing is the phase in which the documents are submitted to the signing authority.
	Signing Phase = "Signing"
	// Polling is the phase in which the session waits for the signing authority to resolve all documents.
	Polling Phase = "Polling"
	// Completed is the terminal phase of a session in which all documents were signed.
	Completed Phase = "Completed"
	// Failed is the terminal phase of a session that failed.
	Failed Phase = "Failed"
	// Expired is the terminal phase of a session of which the operation did not resolve within the poll budget.
	// The signing authority may still complete the operation.
	Expired Phase = "Expired"
)

var transitions = map[Phase][]Phase{
	Idle:               {IssuingCertificate},
	IssuingCertificate: {AwaitingChallenge, Failed, Idle},
	AwaitingChallenge:  {AwaitingChallenge, Signing, Idle},
	Signing:            {Polling, AwaitingChallenge, Failed, Idle},
	Polling:            {Polling, Completed, Failed, Expired, Idle},
	// checking the status of an expired operation again
	Expired: {Completed, Failed},
}

// IsTerminal returns true if no flow continues from this phase.
func (p Phase) IsTerminal() bool {
	return p == Completed || p == Failed || p == Expired
}

// CanTransition returns true if the session may move from this phase to the given one.
func (p Phase) CanTransition(to Phase) bool {
	for _, candidate := range transitions[p] {
		if candidate == to {
			return true
		}
	}
	return false
}
