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

package cmd

import (
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/spf13/pflag"
)

// ConfEventsURL defines the URL of the NATS server notifications are published on
const ConfEventsURL = "events.nats.url"

// ConfEventsSubject defines the subject notifications are published under
const ConfEventsSubject = "events.nats.subject"

// ConfEventsTimeout defines the timeout for connecting to the NATS server
const ConfEventsTimeout = "events.nats.timeout"

// FlagSet defines the set of flags that sets the events-engine configuration
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("events", pflag.ContinueOnError)

	defs := events.DefaultConfig()
	flags.String(ConfEventsURL, defs.Nats.URL, "URL of the NATS server signing notifications are published on. If not set, notifications are only logged.")
	flags.String(ConfEventsSubject, defs.Nats.Subject, "Base subject signing notifications are published under, the notification kind is appended (e.g. nuts.signing.signing.completed).")
	flags.Duration(ConfEventsTimeout, defs.Nats.Timeout, "Timeout for NATS server operations.")
	return flags
}
