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
	"fmt"
	"strings"
	"time"
)

// Channel is the delivery channel of a passcode.
type Channel string

const (
	// SMSChannel delivers the passcode by text message.
	SMSChannel Channel = "SMS"
	// EmailChannel delivers the passcode by email.
	EmailChannel Channel = "EMAIL"
)

// ParseChannel parses a channel name, case-insensitive.
func ParseChannel(input string) (Channel, error) {
	switch Channel(strings.ToUpper(input)) {
	case SMSChannel:
		return SMSChannel, nil
	case EmailChannel:
		return EmailChannel, nil
	}
	return "", fmt.Errorf("unsupported challenge channel: %s", input)
}

// ChallengeTicket represents one outstanding passcode challenge.
type ChallengeTicket struct {
	ID      string  `json:"id"`
	Channel Channel `json:"channel"`
	// OperationRef is the reference the challenge authority returned when sending the code, if any.
	OperationRef string    `json:"operationRef,omitempty"`
	IssuedAt     time.Time `json:"issuedAt"`
	Consumed     bool      `json:"consumed"`
}

// SubmissionAuthorization is the proof of a successfully verified challenge, to be used for exactly one submission.
type SubmissionAuthorization struct {
	TicketID     string    `json:"ticketID"`
	Proof        string    `json:"proof"`
	AuthorizedAt time.Time `json:"authorizedAt"`
}
