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

package signing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nuts-foundation/nuts-signing/audit"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/authority/simulated"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/session"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
	testIO "github.com/nuts-foundation/nuts-signing/test/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type testEventManager struct {
	mux           sync.Mutex
	notifications []events.Notification
}

func (t *testEventManager) Sink() events.Sink {
	return t
}

func (t *testEventManager) Notify(_ context.Context, notification events.Notification) {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.notifications = append(t.notifications, notification)
}

func (t *testEventManager) kinds() []events.Kind {
	t.mux.Lock()
	defer t.mux.Unlock()
	var result []events.Kind
	for _, notification := range t.notifications {
		result = append(result, notification.Kind)
	}
	return result
}

var jane = identity.Profile{ID: "jane", NationalID: "999999990", Name: "Jane Doe", Email: "jane@example.com", Phone: "+31612345678"}
var john = identity.Profile{ID: "john", Name: "John Smith", Email: "john@example.com"}

// the in-memory session database prunes expired entries in the background
var ignoreCacheJanitor = goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run")

func participant(profile identity.Profile) Participant {
	return Participant{Profile: profile, Documents: []types.DocumentSignTarget{{DocumentID: "contract", Locator: "file://contract.pdf", Title: "Contract"}}}
}

// rejectingCertificateAuthority rejects the signatories in rejected, and delegates the others.
type rejectingCertificateAuthority struct {
	authority.CertificateAuthority
	mux      sync.Mutex
	rejected map[string]bool
}

func (r *rejectingCertificateAuthority) IssueCertificate(ctx context.Context, request authority.CertificateRequest) (*authority.CertificateResponse, error) {
	r.mux.Lock()
	rejected := r.rejected[request.SignatoryID]
	r.mux.Unlock()
	if rejected {
		return &authority.CertificateResponse{Status: authority.StatusRejected}, nil
	}
	return r.CertificateAuthority.IssueCertificate(ctx, request)
}

func (r *rejectingCertificateAuthority) accept(signatoryID string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.rejected, signatoryID)
}

func rejecting(signatoryIDs ...string) (authority.Authorities, *rejectingCertificateAuthority) {
	authorities := simulated.NewAuthorities(false)
	certificateAuthority := &rejectingCertificateAuthority{CertificateAuthority: authorities.Certificate, rejected: map[string]bool{}}
	for _, id := range signatoryIDs {
		certificateAuthority.rejected[id] = true
	}
	authorities.Certificate = certificateAuthority
	return authorities, certificateAuthority
}

// newTestEngine creates a started engine with simulated authorities, storing data in the given directory.
func newTestEngine(t *testing.T, datadir string, authorities authority.Authorities) (*Engine, *testEventManager) {
	storageEngine := storage.New()
	require.NoError(t, storageEngine.Configure(core.ServerConfig{Datadir: datadir}))
	eventManager := &testEventManager{}
	engine := NewEngine(storageEngine, eventManager)
	engine.registerer = prometheus.NewRegistry()
	engine.authorities = authorities
	engine.config.Poll.Interval = time.Millisecond
	engine.config.Documents.Root = datadir
	require.NoError(t, engine.Configure(core.ServerConfig{Datadir: datadir}))
	require.NoError(t, engine.Start())
	t.Cleanup(func() {
		_ = engine.Shutdown()
		_ = storageEngine.Shutdown()
	})
	return engine, eventManager
}

func newDataDir(t *testing.T) string {
	datadir := testIO.TestDirectory(t)
	testIO.WriteTestFile(t, datadir, "contract.pdf", []byte("%PDF-1.7 contract"))
	return datadir
}

// signSession sends a challenge to the session and authorizes it with the simulated passcode.
func signSession(t *testing.T, engine *Engine, sessionID string) *types.SigningSession {
	ctx := audit.TestContext()
	ticket, err := engine.SendChallenge(ctx, sessionID, types.SMSChannel)
	require.NoError(t, err)
	result, err := engine.Authorize(ctx, sessionID, ticket.ID, simulated.CodeFor(ticket.ID))
	require.NoError(t, err)
	return result
}

func awaitPhase(t *testing.T, engine *Engine, sessionID string, phase types.Phase) {
	assert.Eventually(t, func() bool {
		current, err := engine.Session(context.Background(), sessionID)
		return err == nil && current.Phase == phase
	}, 5*time.Second, 5*time.Millisecond)
}

func TestEngine_Name(t *testing.T) {
	assert.Equal(t, "Signing", NewEngine(nil, nil).Name())
}

func TestEngine_Config(t *testing.T) {
	engine := NewEngine(nil, nil)

	assert.Same(t, &engine.config, engine.Config())
}

func TestEngine_Configure(t *testing.T) {
	configure := func(t *testing.T, serverConfig core.ServerConfig, modify func(config *Config)) (*Engine, error) {
		serverConfig.Datadir = testIO.TestDirectory(t)
		storageEngine := storage.New()
		require.NoError(t, storageEngine.Configure(serverConfig))
		t.Cleanup(func() {
			_ = storageEngine.Shutdown()
		})
		engine := NewEngine(storageEngine, &testEventManager{})
		engine.registerer = prometheus.NewRegistry()
		if modify != nil {
			modify(&engine.config)
		}
		return engine, engine.Configure(serverConfig)
	}

	t.Run("ok - simulated authorities when not in strict mode", func(t *testing.T) {
		engine, err := configure(t, core.ServerConfig{}, nil)

		require.NoError(t, err)
		assert.True(t, engine.simulated)
		assert.IsType(t, &simulated.SigningAuthority{}, engine.authorities.Signing)
		assert.Equal(t, "simulated", engine.Diagnostics()[0].String())
	})
	t.Run("ok - remote authorities", func(t *testing.T) {
		engine, err := configure(t, core.ServerConfig{Strictmode: true}, func(config *Config) {
			config.Authority.Certificate.URL = "https://ca.example.com"
			config.Authority.Challenge.URL = "https://otp.example.com"
			config.Authority.Signing.URL = "https://sign.example.com"
		})

		require.NoError(t, err)
		assert.False(t, engine.simulated)
		assert.Equal(t, "remote", engine.Diagnostics()[0].String())
	})
	t.Run("error - no authorities in strict mode", func(t *testing.T) {
		_, err := configure(t, core.ServerConfig{Strictmode: true}, nil)

		assert.ErrorIs(t, err, types.ErrConfiguration)
		assert.ErrorContains(t, err, "authority URLs must be configured in strict mode")
	})
	t.Run("error - partial authority configuration", func(t *testing.T) {
		_, err := configure(t, core.ServerConfig{}, func(config *Config) {
			config.Authority.Certificate.URL = "https://ca.example.com"
		})

		assert.ErrorIs(t, err, types.ErrConfiguration)
	})
	t.Run("error - invalid poll settings", func(t *testing.T) {
		_, err := configure(t, core.ServerConfig{}, func(config *Config) {
			config.Poll.MaxAttempts = 0
		})

		assert.ErrorIs(t, err, types.ErrConfiguration)
		assert.ErrorContains(t, err, "signing.poll.maxattempts")
	})
	t.Run("error - invalid appearance", func(t *testing.T) {
		_, err := configure(t, core.ServerConfig{}, func(config *Config) {
			config.Appearance.Locale = "xx_XX"
		})

		assert.ErrorIs(t, err, types.ErrConfiguration)
		assert.ErrorContains(t, err, "unsupported stamp locale")
	})
}

func TestEngine_Session(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), ignoreCacheJanitor)
	ctx := audit.TestContext()

	t.Run("ok - signed in the background", func(t *testing.T) {
		engine, eventManager := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))

		started, err := engine.StartSession(ctx, participant(jane))
		require.NoError(t, err)
		assert.Equal(t, types.AwaitingChallenge, started.Phase)
		authorized := signSession(t, engine, started.ID)
		assert.Contains(t, []types.Phase{types.Polling, types.Completed}, authorized.Phase)

		awaitPhase(t, engine, started.ID, types.Completed)
		assert.Contains(t, eventManager.kinds(), events.SigningCompleted)
	})
	t.Run("ok - cancel", func(t *testing.T) {
		engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))
		started, err := engine.StartSession(ctx, participant(jane))
		require.NoError(t, err)

		cancelled, err := engine.Cancel(ctx, started.ID)

		require.NoError(t, err)
		assert.Equal(t, types.Idle, cancelled.Phase)
	})
	t.Run("ok - refresh digests", func(t *testing.T) {
		datadir := newDataDir(t)
		engine, _ := newTestEngine(t, datadir, simulated.NewAuthorities(false))
		started, err := engine.StartSession(ctx, participant(jane))
		require.NoError(t, err)
		testIO.WriteTestFile(t, datadir, "contract.pdf", []byte("%PDF-1.7 contract, amended"))

		refreshed, err := engine.RefreshDigests(ctx, started.ID)

		require.NoError(t, err)
		assert.False(t, started.Digests["contract"].Equals(refreshed.Digests["contract"]))
	})
	t.Run("ok - polling continues after restart", func(t *testing.T) {
		datadir := newDataDir(t)
		authorities := simulated.NewAuthorities(false)
		// not started, so no background polling
		storageEngine := storage.New()
		require.NoError(t, storageEngine.Configure(core.ServerConfig{Datadir: datadir}))
		first := NewEngine(storageEngine, &testEventManager{})
		first.registerer = prometheus.NewRegistry()
		first.authorities = authorities
		first.config.Documents.Root = datadir
		require.NoError(t, first.Configure(core.ServerConfig{Datadir: datadir}))
		started, err := first.StartSession(ctx, participant(jane))
		require.NoError(t, err)
		signSession(t, first, started.ID)
		second := NewEngine(storageEngine, &testEventManager{})
		second.registerer = prometheus.NewRegistry()
		second.authorities = authorities
		second.config.Poll.Interval = time.Millisecond
		require.NoError(t, second.Configure(core.ServerConfig{Datadir: datadir}))
		require.NoError(t, second.Start())
		t.Cleanup(func() {
			_ = second.Shutdown()
			_ = storageEngine.Shutdown()
		})

		awaitPhase(t, second, started.ID, types.Completed)
	})
	t.Run("ok - concurrent loads of a stored session yield one machine", func(t *testing.T) {
		engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))
		started, err := engine.StartSession(ctx, participant(jane))
		require.NoError(t, err)
		engine.machinesMux.Lock()
		delete(engine.machines, started.ID)
		engine.machinesMux.Unlock()

		const loaders = 10
		machines := make([]*session.Machine, loaders)
		wg := sync.WaitGroup{}
		for i := 0; i < loaders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				machines[i], _ = engine.machine(ctx, started.ID)
			}(i)
		}
		wg.Wait()

		require.NotNil(t, machines[0])
		for _, machine := range machines {
			assert.Same(t, machines[0], machine)
		}
	})
	t.Run("error - unknown session", func(t *testing.T) {
		engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))

		_, err := engine.Session(ctx, "unknown")

		assert.ErrorIs(t, err, types.ErrSessionNotFound)
	})
	t.Run("error - incomplete profile", func(t *testing.T) {
		engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))

		_, err := engine.StartSession(ctx, participant(identity.Profile{ID: "nobody"}))

		assert.ErrorIs(t, err, types.ErrProfileIncomplete)
	})
	t.Run("error - certificate rejected, failed session is returned", func(t *testing.T) {
		authorities, _ := rejecting("jane")
		engine, eventManager := newTestEngine(t, newDataDir(t), authorities)

		started, err := engine.StartSession(ctx, participant(jane))

		assert.ErrorIs(t, err, types.ErrAuthorityRejected)
		require.NotNil(t, started)
		assert.Equal(t, types.Failed, started.Phase)
		assert.NotEmpty(t, started.LastError)
		stored, err := engine.Session(ctx, started.ID)
		require.NoError(t, err)
		assert.Equal(t, types.Failed, stored.Phase)
		assert.Contains(t, eventManager.kinds(), events.CertificateFailed)
	})
}

func TestEngine_Campaign(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), ignoreCacheJanitor)
	ctx := audit.TestContext()
	engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))

	created, err := engine.CreateCampaign(ctx, participant(jane), participant(john))
	require.NoError(t, err)
	assert.Equal(t, types.CampaignPending, created.Status)

	signSession(t, engine, created.OwnerSessionID)
	awaitPhase(t, engine, created.OwnerSessionID, types.Completed)
	state, err := engine.Campaign(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.CampaignPartiallySigned, state.Status)

	_, err = engine.ResendChallenge(ctx, created.ID, types.Owner, types.SMSChannel)
	assert.ErrorIs(t, err, types.ErrInvalidPhase)
	ticket, err := engine.ResendChallenge(ctx, created.ID, types.Counterparty, types.EmailChannel)
	require.NoError(t, err)
	_, err = engine.Authorize(ctx, created.CounterpartySessionID, ticket.ID, simulated.CodeFor(ticket.ID))
	require.NoError(t, err)
	awaitPhase(t, engine, created.CounterpartySessionID, types.Completed)

	state, err = engine.Campaign(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.CampaignCompleted, state.Status)
	assert.NotEmpty(t, state.ArtifactRef)
	assert.NotNil(t, state.OwnerSignedAt)
	assert.NotNil(t, state.CounterpartySignedAt)
}

func TestEngine_Campaign_CertificateRejected(t *testing.T) {
	ctx := audit.TestContext()
	authorities, certificateAuthority := rejecting("john")
	engine, _ := newTestEngine(t, newDataDir(t), authorities)

	created, err := engine.CreateCampaign(ctx, participant(jane), participant(john))

	require.NoError(t, err)
	assert.Equal(t, types.CampaignFailed, created.Status)
	owner, err := engine.Session(ctx, created.OwnerSessionID)
	require.NoError(t, err)
	assert.Equal(t, types.AwaitingChallenge, owner.Phase)
	counterparty, err := engine.Session(ctx, created.CounterpartySessionID)
	require.NoError(t, err)
	assert.Equal(t, types.Failed, counterparty.Phase)

	t.Run("party can be replaced", func(t *testing.T) {
		certificateAuthority.accept("john")

		replaced, err := engine.ReplaceParty(ctx, created.ID, types.Counterparty)

		require.NoError(t, err)
		assert.Equal(t, types.CampaignPending, replaced.Status)
		assert.Equal(t, created.OwnerSessionID, replaced.OwnerSessionID)
		assert.NotEqual(t, created.CounterpartySessionID, replaced.CounterpartySessionID)
	})
}

func TestEngine_CreateCampaign_InvalidParticipant(t *testing.T) {
	ctx := audit.TestContext()
	engine, _ := newTestEngine(t, newDataDir(t), simulated.NewAuthorities(false))

	_, err := engine.CreateCampaign(ctx, participant(jane), participant(identity.Profile{ID: "nobody"}))

	assert.ErrorIs(t, err, types.ErrProfileIncomplete)
	assert.Empty(t, engine.machines)
}
