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

package core

const (
	// LogFieldModule is the log field for the module name.
	LogFieldModule = "module"

	// LogFieldEventType is the log field key for notification kinds from the events module.
	LogFieldEventType = "eventType"
	// LogFieldEventSubject is the log field key for the NATS subject notifications are published on.
	LogFieldEventSubject = "eventSubject"

	// LogFieldStore is the log field key for the name of a store managed by the storage module.
	LogFieldStore = "store"
	// LogFieldStoreShelf is the log field key for the name of a shelf, in a store managed by the storage module.
	LogFieldStoreShelf = "storeShelf"

	// LogFieldSessionID is the log field key for the ID of a signing session.
	LogFieldSessionID = "sessionID"
	// LogFieldSignatoryID is the log field key for the ID of the signatory of a signing session.
	LogFieldSignatoryID = "signatoryID"
	// LogFieldProofKind is the log field key for the identity material the proof of a signatory was derived from.
	LogFieldProofKind = "proofKind"
	// LogFieldPhase is the log field key for the phase of a signing session.
	LogFieldPhase = "phase"
	// LogFieldOperationID is the log field key for the ID the signing authority assigned to a submission.
	LogFieldOperationID = "operationID"
	// LogFieldDocumentID is the log field key for the ID of a document being signed.
	LogFieldDocumentID = "documentID"
	// LogFieldTicketID is the log field key for the ID of a challenge ticket.
	LogFieldTicketID = "ticketID"
	// LogFieldCampaignID is the log field key for the ID of a multi-party signing campaign.
	LogFieldCampaignID = "campaignID"
	// LogFieldAuthority is the log field key for the name of a remote authority.
	LogFieldAuthority = "authority"

	// LogFieldAuditSubject is the log field of the subject (e.g. session, certificate) of an audit event.
	LogFieldAuditSubject = "subject"
)
