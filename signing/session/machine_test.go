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
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/nuts-foundation/go-stoabs/bbolt"
	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/appearance"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/authority/simulated"
	"github.com/nuts-foundation/nuts-signing/signing/certificate"
	"github.com/nuts-foundation/nuts-signing/signing/challenge"
	"github.com/nuts-foundation/nuts-signing/signing/digest"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/poller"
	"github.com/nuts-foundation/nuts-signing/signing/submission"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
	testIO "github.com/nuts-foundation/nuts-signing/test/io"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var signatory = identity.Build(identity.Profile{
	ID:         "signatory-1",
	NationalID: "999999990",
	Name:       "Jane Doe",
	Email:      "jane@example.com",
	Phone:      "+31612345678",
})

var documents = []types.DocumentSignTarget{
	{DocumentID: "a", Locator: "mem://a", Title: "Agreement"},
	{DocumentID: "b", Locator: "mem://b", Title: "Annex"},
}

type capturingSink struct {
	mux           sync.Mutex
	notifications []events.Notification
}

func (c *capturingSink) Notify(_ context.Context, notification events.Notification) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.notifications = append(c.notifications, notification)
}

func (c *capturingSink) kinds() []events.Kind {
	c.mux.Lock()
	defer c.mux.Unlock()
	var result []events.Kind
	for _, notification := range c.notifications {
		result = append(result, notification.Kind)
	}
	return result
}

type testContext struct {
	components *Components
	documents  *digest.MemoryStore
	repository Repository
	sink       *capturingSink
}

func newTestContext(t *testing.T, authorities authority.Authorities) testContext {
	documentStore := digest.NewMemoryStore()
	documentStore.Put("mem://a", []byte("agreement"))
	documentStore.Put("mem://b", []byte("annex"))
	digests, err := digest.NewService(documentStore, 10)
	require.NoError(t, err)
	renderer, err := appearance.NewRenderer(appearance.DefaultConfig())
	require.NoError(t, err)
	kvStore, err := bbolt.CreateBBoltStore(path.Join(testIO.TestDirectory(t), "certificates.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = kvStore.Close(context.Background())
	})
	sessionDatabase := storage.NewInMemorySessionDatabase()
	t.Cleanup(sessionDatabase.Close)
	repository := NewRepository(sessionDatabase.GetStore(time.Hour, "signing", "sessions"))
	sink := &capturingSink{}
	pollConfig := poller.DefaultConfig()
	pollConfig.Interval = time.Millisecond
	return testContext{
		components: &Components{
			Issuer:     certificate.NewIssuer(authorities.Certificate, certificate.NewRecordStore(kvStore), certificate.DefaultTimeout),
			Challenges: challenge.NewManager(authorities.Challenge),
			Submitter:  submission.NewSubmitter(digests, authorities.Signing, renderer),
			Poller:     poller.New(authorities.Signing, pollConfig),
			Digests:    digests,
			Repository: repository,
			Sink:       sink,
			Metrics:    NewMetrics(),
		},
		documents:  documentStore,
		repository: repository,
		sink:       sink,
	}
}

type simulatedAuthorities struct {
	certificates *simulated.CertificateAuthority
	challenges   *simulated.ChallengeAuthority
	signing      *simulated.SigningAuthority
}

func newSimulatedAuthorities() simulatedAuthorities {
	challenges := simulated.NewChallengeAuthority()
	return simulatedAuthorities{
		certificates: simulated.NewCertificateAuthority(),
		challenges:   challenges,
		signing:      simulated.NewSigningAuthority(challenges),
	}
}

func (s simulatedAuthorities) authorities() authority.Authorities {
	return authority.Authorities{Certificate: s.certificates, Challenge: s.challenges, Signing: s.signing}
}

type mockAuthorities struct {
	certificates *authority.MockCertificateAuthority
	challenges   *authority.MockChallengeAuthority
	signing      *authority.MockSigningAuthority
}

func newMockAuthorities(t *testing.T) mockAuthorities {
	ctrl := gomock.NewController(t)
	return mockAuthorities{
		certificates: authority.NewMockCertificateAuthority(ctrl),
		challenges:   authority.NewMockChallengeAuthority(ctrl),
		signing:      authority.NewMockSigningAuthority(ctrl),
	}
}

func (m mockAuthorities) authorities() authority.Authorities {
	return authority.Authorities{Certificate: m.certificates, Challenge: m.challenges, Signing: m.signing}
}

// expectReadyForSubmission sets up the mocks to issue a certificate and authorize code "123456".
func (m mockAuthorities) expectReadyForSubmission() {
	m.certificates.EXPECT().IssueCertificate(gomock.Any(), gomock.Any()).Return(&authority.CertificateResponse{Status: authority.StatusIssued, Alias: "cert-1"}, nil)
	m.challenges.EXPECT().SendCode(gomock.Any(), gomock.Any()).Return(&authority.CodeAck{Reference: "ref-1"}, nil)
	m.challenges.EXPECT().VerifyCode(gomock.Any(), gomock.Any()).Return(&authority.VerifyResult{Outcome: authority.Authorized, Proof: "proof-1"}, nil)
}

func createMachine(t *testing.T, tc testContext) *Machine {
	machine, err := Create(audit.TestContext(), tc.components, "session-1", "", signatory, documents)
	require.NoError(t, err)
	return machine
}

// awaitChallenge starts the machine and sends a challenge over SMS.
func awaitChallenge(t *testing.T, machine *Machine) *types.ChallengeTicket {
	ctx := audit.TestContext()
	require.NoError(t, machine.Start(ctx))
	ticket, err := machine.SendChallenge(ctx, types.SMSChannel)
	require.NoError(t, err)
	return ticket
}

func TestMachine_HappyPath(t *testing.T) {
	ctx := audit.TestContext()
	tc := newTestContext(t, newSimulatedAuthorities().authorities())
	auditLogs := audit.CaptureLogs(t)
	machine := createMachine(t, tc)

	require.NoError(t, machine.Start(ctx))
	snapshot := machine.Snapshot()
	assert.Equal(t, types.AwaitingChallenge, snapshot.Phase)
	require.NotNil(t, snapshot.Certificate)
	assert.Equal(t, types.CertificateIssued, snapshot.Certificate.Outcome)
	assert.Len(t, snapshot.Digests, 2)

	ticket, err := machine.SendChallenge(ctx, types.SMSChannel)
	require.NoError(t, err)
	operation, err := machine.Authorize(ctx, "", simulated.CodeFor(ticket.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, operation.DocumentIDs)
	assert.Equal(t, types.Polling, machine.Snapshot().Phase)

	result, err := machine.Poll(ctx)

	require.NoError(t, err)
	assert.Equal(t, types.Completed, result.Phase)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 3, result.PollAttempts)
	assert.NotNil(t, result.CompletedAt)
	assert.Empty(t, result.LastError)
	assert.Equal(t, []events.Kind{events.CertificateIssued, events.ChallengeSent, events.SigningSubmitted, events.SigningCompleted}, tc.sink.kinds())
	auditLogs.AssertContains(t, "Signing", audit.SigningCompletedEvent, audit.TestActor, "Signed 2 document(s)")
	assert.Equal(t, 1.0, testutil.ToFloat64(tc.components.Metrics.transitions.WithLabelValues("Polling", "Completed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(tc.components.Metrics.transitions.WithLabelValues("Polling", "Polling")))

	t.Run("every transition is persisted", func(t *testing.T) {
		stored, err := tc.repository.Get(ctx, "session-1")

		require.NoError(t, err)
		assert.Equal(t, types.Completed, stored.Phase)
		assert.True(t, stored.Operation.AllSigned())
	})
	t.Run("terminal session can't be cancelled", func(t *testing.T) {
		err := machine.Cancel(ctx)

		assert.ErrorIs(t, err, types.ErrInvalidPhase)
	})
}

func TestMachine_SendChallenge(t *testing.T) {
	ctx := audit.TestContext()

	t.Run("resend supersedes the unused challenge", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)
		smsTicket := awaitChallenge(t, machine)
		emailTicket, err := machine.SendChallenge(ctx, types.EmailChannel)
		require.NoError(t, err)

		_, err = machine.Authorize(ctx, smsTicket.ID, simulated.CodeFor(smsTicket.ID))
		assert.ErrorIs(t, err, types.ErrChallengeExpired)
		assert.Equal(t, types.AwaitingChallenge, machine.Snapshot().Phase)

		_, err = machine.Authorize(ctx, emailTicket.ID, simulated.CodeFor(emailTicket.ID))
		require.NoError(t, err)
		assert.Equal(t, types.Polling, machine.Snapshot().Phase)
	})
	t.Run("error - sending fails, session keeps waiting", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		mocks.certificates.EXPECT().IssueCertificate(gomock.Any(), gomock.Any()).Return(&authority.CertificateResponse{Status: authority.StatusExists, Alias: "cert-1"}, nil)
		mocks.challenges.EXPECT().SendCode(gomock.Any(), gomock.Any()).Return(nil, types.ErrAuthorityUnreachable)
		machine := createMachine(t, tc)
		require.NoError(t, machine.Start(ctx))

		_, err := machine.SendChallenge(ctx, types.SMSChannel)

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.AwaitingChallenge, snapshot.Phase)
		assert.Contains(t, snapshot.LastError, "unable to send challenge")
		assert.Nil(t, snapshot.Ticket)
	})
	t.Run("error - not awaiting a challenge", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)

		_, err := machine.SendChallenge(ctx, types.SMSChannel)

		assert.ErrorIs(t, err, types.ErrInvalidPhase)
	})
}

func TestMachine_Start(t *testing.T) {
	ctx := audit.TestContext()

	t.Run("error - certificate rejected fails the session", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		mocks.certificates.EXPECT().IssueCertificate(gomock.Any(), gomock.Any()).Return(nil, errors.Join(types.ErrAuthorityRejected, errors.New("unknown signatory")))
		machine := createMachine(t, tc)

		err := machine.Start(ctx)

		var certificateError types.CertificateError
		require.ErrorAs(t, err, &certificateError)
		assert.ErrorIs(t, certificateError.Cause, types.ErrAuthorityRejected)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.Failed, snapshot.Phase)
		assert.Contains(t, snapshot.LastError, "certificate issuance failed")
		assert.Equal(t, []events.Kind{events.CertificateFailed}, tc.sink.kinds())
	})
	t.Run("document that can't be fetched yet is digested on submission", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine, err := Create(ctx, tc.components, "session-1", "", signatory, []types.DocumentSignTarget{{DocumentID: "c", Locator: "mem://c"}})
		require.NoError(t, err)

		require.NoError(t, machine.Start(ctx))

		assert.Equal(t, types.AwaitingChallenge, machine.Snapshot().Phase)
		assert.Empty(t, machine.Snapshot().Digests)
	})
	t.Run("error - already started", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)
		require.NoError(t, machine.Start(ctx))

		err := machine.Start(ctx)

		assert.ErrorIs(t, err, types.ErrInvalidPhase)
	})
}

func TestMachine_Authorize(t *testing.T) {
	ctx := audit.TestContext()

	t.Run("wrong code consumes the challenge, a new challenge can be sent", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)
		ticket := awaitChallenge(t, machine)

		_, err := machine.Authorize(ctx, ticket.ID, "000000x")

		assert.ErrorIs(t, err, types.ErrChallengeInvalid)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.AwaitingChallenge, snapshot.Phase)
		assert.Equal(t, types.ErrChallengeInvalid.Error(), snapshot.LastError)
		assert.True(t, snapshot.Ticket.Consumed)
		assert.Equal(t, events.ChallengeRejected, tc.sink.kinds()[len(tc.sink.kinds())-1])

		next, err := machine.SendChallenge(ctx, types.SMSChannel)
		require.NoError(t, err)
		_, err = machine.Authorize(ctx, next.ID, simulated.CodeFor(next.ID))
		require.NoError(t, err)
		assert.Empty(t, machine.Snapshot().LastError)
	})
	t.Run("stale challenge returns to awaiting challenge", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		mocks.expectReadyForSubmission()
		mocks.signing.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", types.ErrStaleChallenge)
		machine := createMachine(t, tc)
		awaitChallenge(t, machine)

		_, err := machine.Authorize(ctx, "", "123456")

		assert.ErrorIs(t, err, types.ErrStaleChallenge)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.AwaitingChallenge, snapshot.Phase)
		assert.Nil(t, snapshot.Operation)
		assert.Len(t, snapshot.Digests, 2)
	})
	t.Run("changed document is rejected before submission", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		mocks.expectReadyForSubmission()
		machine := createMachine(t, tc)
		awaitChallenge(t, machine)
		tc.documents.Put("mem://b", []byte("annex, amended"))

		_, err := machine.Authorize(ctx, "", "123456")

		assert.ErrorIs(t, err, types.ErrDigestMismatch)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.AwaitingChallenge, snapshot.Phase)
		assert.Empty(t, snapshot.Digests)
	})
	t.Run("error - submission failure fails the session", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		auditLogs := audit.CaptureLogs(t)
		mocks.expectReadyForSubmission()
		mocks.signing.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", types.ErrAuthorityUnreachable)
		machine := createMachine(t, tc)
		awaitChallenge(t, machine)

		_, err := machine.Authorize(ctx, "", "123456")

		assert.ErrorIs(t, err, types.ErrAuthorityUnreachable)
		assert.Equal(t, types.Failed, machine.Snapshot().Phase)
		assert.True(t, auditLogs.Contains(t, audit.SigningFailedEvent))
	})
	t.Run("audit actor defaults to the signatory", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		auditLogs := audit.CaptureLogs(t)
		machine := createMachine(t, tc)
		ticket := awaitChallenge(t, machine)

		_, err := machine.Authorize(context.Background(), ticket.ID, simulated.CodeFor(ticket.ID))

		require.NoError(t, err)
		auditLogs.AssertContains(t, "Signing", audit.ChallengeVerifiedEvent, "signatory-1", "Challenge verified")
	})
}

func TestMachine_Poll(t *testing.T) {
	ctx := audit.TestContext()

	t.Run("partial failure names the failed document", func(t *testing.T) {
		authorities := newSimulatedAuthorities()
		authorities.signing.Scripts["b"] = []types.DocumentStatus{types.DocumentPending, types.DocumentFailed}
		tc := newTestContext(t, authorities.authorities())
		machine := createMachine(t, tc)
		ticket := awaitChallenge(t, machine)
		_, err := machine.Authorize(ctx, ticket.ID, simulated.CodeFor(ticket.ID))
		require.NoError(t, err)

		result, err := machine.Poll(ctx)

		require.NoError(t, err)
		assert.Equal(t, types.Failed, result.Phase)
		assert.False(t, result.Succeeded())
		assert.Equal(t, "signing failed: b (simulated failure)", result.LastError)
		assert.Equal(t, types.DocumentSigned, result.Operation.Outcomes["a"].Status)
		assert.Equal(t, events.SigningFailed, tc.sink.kinds()[len(tc.sink.kinds())-1])
	})
	t.Run("budget exhaustion expires the session, checking again completes it", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		mocks.expectReadyForSubmission()
		mocks.signing.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("op-1", nil)
		pending := &authority.StatusReport{Documents: []authority.DocumentReport{{DocumentID: "a", Status: types.DocumentPending}, {DocumentID: "b", Status: types.DocumentPending}}}
		signed := &authority.StatusReport{Done: true, Documents: []authority.DocumentReport{{DocumentID: "a", Status: types.DocumentSigned}, {DocumentID: "b", Status: types.DocumentSigned}}}
		gomock.InOrder(
			mocks.signing.EXPECT().QueryStatus(gomock.Any(), "op-1").Return(pending, nil).Times(21),
			mocks.signing.EXPECT().QueryStatus(gomock.Any(), "op-1").Return(signed, nil),
		)
		machine := createMachine(t, tc)
		awaitChallenge(t, machine)
		_, err := machine.Authorize(ctx, "", "123456")
		require.NoError(t, err)

		result, err := machine.Poll(ctx)

		require.NoError(t, err)
		assert.Equal(t, types.Expired, result.Phase)
		assert.Equal(t, 20, result.PollAttempts)
		assert.Equal(t, "2 document(s) still pending after 20 status queries", result.LastError)
		assert.Equal(t, 1.0, testutil.ToFloat64(tc.components.Metrics.transitions.WithLabelValues("Polling", "Expired")))

		result, err = machine.CheckStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.Expired, result.Phase)

		result, err = machine.CheckStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.Completed, result.Phase)
		assert.True(t, result.Succeeded())
	})
	t.Run("error - not polling", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)

		_, err := machine.Poll(ctx)

		assert.ErrorIs(t, err, types.ErrInvalidPhase)
	})
}

func TestMachine_Cancel(t *testing.T) {
	ctx := audit.TestContext()

	t.Run("cancel during certificate issuance", func(t *testing.T) {
		mocks := newMockAuthorities(t)
		tc := newTestContext(t, mocks.authorities())
		auditLogs := audit.CaptureLogs(t)
		started := make(chan struct{})
		mocks.certificates.EXPECT().IssueCertificate(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ authority.CertificateRequest) (*authority.CertificateResponse, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		machine := createMachine(t, tc)
		startResult := make(chan error, 1)
		go func() {
			startResult <- machine.Start(ctx)
		}()
		<-started

		assert.ErrorIs(t, machine.Start(ctx), types.ErrSessionBusy)
		require.NoError(t, machine.Cancel(ctx))

		assert.ErrorIs(t, <-startResult, context.Canceled)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.Idle, snapshot.Phase)
		assert.Nil(t, snapshot.Certificate)
		auditLogs.AssertContains(t, "Signing", audit.SessionCancelledEvent, audit.TestActor, "Signing session cancelled (phase=IssuingCertificate)")
		assert.Equal(t, events.SessionCancelled, tc.sink.kinds()[len(tc.sink.kinds())-1])
	})
	t.Run("cancelled session can be started again", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)
		awaitChallenge(t, machine)
		require.NoError(t, machine.Cancel(ctx))
		snapshot := machine.Snapshot()
		assert.Nil(t, snapshot.Ticket)
		assert.Empty(t, snapshot.Digests)

		require.NoError(t, machine.Start(ctx))

		assert.Equal(t, types.AwaitingChallenge, machine.Snapshot().Phase)
		assert.Equal(t, types.CertificateExists, machine.Snapshot().Certificate.Outcome)
	})
	t.Run("error - idle session", func(t *testing.T) {
		tc := newTestContext(t, newSimulatedAuthorities().authorities())
		machine := createMachine(t, tc)

		assert.ErrorIs(t, machine.Cancel(ctx), types.ErrInvalidPhase)
	})
}

func TestMachine_RefreshDigests(t *testing.T) {
	ctx := audit.TestContext()
	tc := newTestContext(t, newSimulatedAuthorities().authorities())
	machine := createMachine(t, tc)
	ticket := awaitChallenge(t, machine)
	before := machine.Snapshot().Digests["b"]
	tc.documents.Put("mem://b", []byte("annex, reviewed again"))

	require.NoError(t, machine.RefreshDigests(ctx))

	assert.False(t, before.Equals(machine.Snapshot().Digests["b"]))
	_, err := machine.Authorize(ctx, ticket.ID, simulated.CodeFor(ticket.ID))
	assert.NoError(t, err)
}

func TestCreate(t *testing.T) {
	ctx := audit.TestContext()
	tc := newTestContext(t, newSimulatedAuthorities().authorities())

	t.Run("ok", func(t *testing.T) {
		machine, err := Create(ctx, tc.components, "session-1", "campaign-1", signatory, documents)

		require.NoError(t, err)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.Idle, snapshot.Phase)
		assert.Equal(t, "campaign-1", snapshot.CampaignID)
		stored, err := tc.repository.Get(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, snapshot.Documents, stored.Documents)
	})
	t.Run("error - no documents", func(t *testing.T) {
		_, err := Create(ctx, tc.components, "session-2", "", signatory, nil)

		assert.ErrorIs(t, err, ErrNoDocuments)
	})
	t.Run("error - duplicate documents", func(t *testing.T) {
		_, err := Create(ctx, tc.components, "session-2", "", signatory, []types.DocumentSignTarget{documents[0], documents[0]})

		assert.ErrorIs(t, err, ErrNoDocuments)
	})
	t.Run("error - incomplete profile", func(t *testing.T) {
		_, err := Create(ctx, tc.components, "session-2", "", types.Signatory{ID: "signatory-2"}, documents)

		assert.ErrorIs(t, err, types.ErrProfileIncomplete)
	})
}

func TestResume(t *testing.T) {
	ctx := audit.TestContext()
	tc := newTestContext(t, newSimulatedAuthorities().authorities())
	stored := func(phase types.Phase) *types.SigningSession {
		return &types.SigningSession{
			ID:           "session-" + string(phase),
			Phase:        phase,
			Signatory:    signatory,
			Documents:    documents,
			Ticket:       &types.ChallengeTicket{ID: "ticket-1"},
			Operation:    types.NewSigningOperation("op-1", []string{"a", "b"}, time.Now()),
			PollAttempts: 4,
		}
	}

	t.Run("submitted session continues polling", func(t *testing.T) {
		machine, err := Resume(ctx, tc.components, stored(types.Signing))

		require.NoError(t, err)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.Polling, snapshot.Phase)
		assert.Equal(t, "op-1", snapshot.Operation.ID)
		assert.Equal(t, 4, snapshot.PollAttempts)
	})
	t.Run("polling session continues polling", func(t *testing.T) {
		machine, err := Resume(ctx, tc.components, stored(types.Polling))

		require.NoError(t, err)
		assert.Equal(t, types.Polling, machine.Snapshot().Phase)
	})
	t.Run("session awaiting challenge restarts", func(t *testing.T) {
		machine, err := Resume(ctx, tc.components, stored(types.AwaitingChallenge))

		require.NoError(t, err)
		snapshot := machine.Snapshot()
		assert.Equal(t, types.Idle, snapshot.Phase)
		assert.Nil(t, snapshot.Ticket)
		assert.Nil(t, snapshot.Operation)
		persisted, err := tc.repository.Get(ctx, snapshot.ID)
		require.NoError(t, err)
		assert.Equal(t, types.Idle, persisted.Phase)
	})
	t.Run("terminal session is loaded as is", func(t *testing.T) {
		machine, err := Resume(ctx, tc.components, stored(types.Failed))

		require.NoError(t, err)
		assert.Equal(t, types.Failed, machine.Snapshot().Phase)
		assert.ErrorIs(t, machine.Start(ctx), types.ErrInvalidPhase)
	})
}
