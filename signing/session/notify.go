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

package session

import (
	"context"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/types"
)

var messageTemplates = map[events.Kind]*mustache.Template{
	events.CertificateIssued: mustParse("Certificate of {{{name}}} is ready, request a passcode to continue"),
	events.CertificateFailed: mustParse("No certificate could be issued for {{{name}}}: {{{error}}}"),
	events.ChallengeSent:     mustParse("A passcode was sent to {{{name}}} by {{{channel}}}"),
	events.ChallengeRejected: mustParse("The passcode was not accepted: {{{error}}}"),
	events.SigningSubmitted:  mustParse("{{documents}} document(s) of {{{name}}} submitted for signing"),
	events.SigningCompleted:  mustParse("All {{documents}} document(s) were signed by {{{name}}}"),
	events.SigningFailed:     mustParse("Signing failed for {{{name}}}{{#error}}: {{{error}}}{{/error}}"),
	events.SigningExpired:    mustParse("Signing for {{{name}}} did not complete in time, check the status again later"),
	events.SessionCancelled:  mustParse("Signing session of {{{name}}} was cancelled"),
}

func mustParse(source string) *mustache.Template {
	template, err := mustache.ParseString(source)
	if err != nil {
		panic(err)
	}
	return template
}

// notify sends a notification for the session. Rendering failures are logged, never returned.
func notify(ctx context.Context, sink events.Sink, kind events.Kind, session *types.SigningSession, extra map[string]interface{}) {
	if sink == nil {
		return
	}
	values := map[string]interface{}{
		"name":      session.Signatory.DisplayName,
		"documents": len(session.Documents),
		"error":     session.LastError,
	}
	for key, value := range extra {
		values[key] = value
	}
	message, err := messageTemplates[kind].Render(values)
	if err != nil {
		log.Logger().WithError(err).Warnf("Unable to render %s notification", kind)
		return
	}
	sink.Notify(ctx, events.Notification{
		Kind:        kind,
		SessionID:   session.ID,
		CampaignID:  session.CampaignID,
		SignatoryID: session.Signatory.ID,
		Phase:       string(session.Phase),
		Message:     message,
		Timestamp:   time.Now(),
	})
}
