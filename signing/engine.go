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
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events"
	"github.com/nuts-foundation/nuts-signing/signing/appearance"
	"github.com/nuts-foundation/nuts-signing/signing/authority"
	"github.com/nuts-foundation/nuts-signing/signing/authority/remote"
	"github.com/nuts-foundation/nuts-signing/signing/authority/simulated"
	"github.com/nuts-foundation/nuts-signing/signing/campaign"
	"github.com/nuts-foundation/nuts-signing/signing/certificate"
	"github.com/nuts-foundation/nuts-signing/signing/challenge"
	"github.com/nuts-foundation/nuts-signing/signing/digest"
	"github.com/nuts-foundation/nuts-signing/signing/identity"
	"github.com/nuts-foundation/nuts-signing/signing/log"
	"github.com/nuts-foundation/nuts-signing/signing/poller"
	"github.com/nuts-foundation/nuts-signing/signing/session"
	"github.com/nuts-foundation/nuts-signing/signing/submission"
	"github.com/nuts-foundation/nuts-signing/signing/types"
	"github.com/nuts-foundation/nuts-signing/storage"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

var _ Service = (*Engine)(nil)
var _ core.Injectable = (*Engine)(nil)
var _ core.Configurable = (*Engine)(nil)
var _ core.Runnable = (*Engine)(nil)
var _ core.Diagnosable = (*Engine)(nil)

// Engine is the signing engine: it configures the authorities and runs the signing sessions of the node.
type Engine struct {
	config       Config
	storage      storage.Engine
	eventManager events.Manager

	simulated   bool
	authorities authority.Authorities
	components  *session.Components
	tracker     *campaign.Tracker
	metrics     *session.Metrics
	registerer  prometheus.Registerer

	// TODO: evict machines of terminal sessions, they are reloaded from the repository when needed
	machines    map[string]*session.Machine
	machinesMux sync.Mutex

	ctx        context.Context
	ctxCancel  context.CancelFunc
	background sync.WaitGroup

	// newID generates session IDs, replaced in tests.
	newID func() string
}

// NewEngine creates a new signing engine.
func NewEngine(storageEngine storage.Engine, eventManager events.Manager) *Engine {
	return &Engine{
		config:       DefaultConfig(),
		storage:      storageEngine,
		eventManager: eventManager,
		registerer:   prometheus.DefaultRegisterer,
		machines:     map[string]*session.Machine{},
		newID:        uuid.NewString,
	}
}

func (e *Engine) Name() string {
	return ModuleName
}

func (e *Engine) Config() interface{} {
	return &e.config
}

// Configure validates the configuration and sets up the authorities and signing components.
// Configuration errors wrap types.ErrConfiguration.
func (e *Engine) Configure(serverConfig core.ServerConfig) error {
	if err := e.validate(); err != nil {
		return err
	}
	e.metrics = session.NewMetrics()
	if err := core.RegisterCollectors(e.registerer, e.metrics.Collectors()...); err != nil {
		return err
	}
	if e.authorities.Signing == nil {
		authorities, err := e.createAuthorities(serverConfig.Strictmode)
		if err != nil {
			return err
		}
		e.authorities = authorities
	}
	renderer, err := appearance.NewRenderer(e.config.Appearance)
	if err != nil {
		return core.WrapError(types.ErrConfiguration, err)
	}
	documentClient := core.NewStrictHTTPClient(serverConfig.Strictmode, core.CreateHTTPClient(core.ClientConfig{Timeout: e.config.Authority.Timeout}, nil))
	httpStore := digest.NewHTTPStore(documentClient)
	digests, err := digest.NewService(digest.SchemeRouter{
		"file":  digest.NewFileStore(e.config.Documents.Root),
		"http":  httpStore,
		"https": httpStore,
	}, digest.DefaultCacheSize)
	if err != nil {
		return err
	}

	certificateStore, err := e.storage.GetKVStore(ModuleName, "certificates")
	if err != nil {
		return err
	}
	campaignStore, err := e.storage.GetKVStore(ModuleName, "campaigns")
	if err != nil {
		return err
	}
	sink := e.eventManager.Sink()
	e.components = &session.Components{
		Issuer:     certificate.NewIssuer(e.authorities.Certificate, certificate.NewRecordStore(certificateStore), e.config.Certificate.Timeout),
		Challenges: challenge.NewManager(e.authorities.Challenge),
		Submitter:  submission.NewSubmitter(digests, e.authorities.Signing, renderer),
		Poller:     poller.New(e.authorities.Signing, e.config.Poll),
		Digests:    digests,
		Repository: session.NewRepository(e.storage.GetSessionDatabase().GetStore(e.config.Session.TTL, ModuleName, "sessions")),
		Sink:       sink,
		Metrics:    e.metrics,
	}
	e.tracker = campaign.NewTracker(sessions{engine: e}, campaign.NewRepository(campaignStore), e.authorities.Signing, sink)
	return nil
}

func (e *Engine) validate() error {
	switch {
	case e.config.Poll.Interval <= 0:
		return fmt.Errorf("%w: signing.poll.interval must be positive", types.ErrConfiguration)
	case e.config.Poll.MaxAttempts <= 0:
		return fmt.Errorf("%w: signing.poll.maxattempts must be positive", types.ErrConfiguration)
	case e.config.Poll.FailureGrace < 0:
		return fmt.Errorf("%w: signing.poll.failuregrace can't be negative", types.ErrConfiguration)
	case e.config.Certificate.Timeout <= 0:
		return fmt.Errorf("%w: signing.certificate.timeout must be positive", types.ErrConfiguration)
	case e.config.Session.TTL <= 0:
		return fmt.Errorf("%w: signing.session.ttl must be positive", types.ErrConfiguration)
	case e.config.Authority.RateLimit <= 0:
		return fmt.Errorf("%w: signing.authority.ratelimit must be positive", types.ErrConfiguration)
	}
	return nil
}

// createAuthorities creates remote authorities when their URLs are configured, and simulated authorities otherwise.
func (e *Engine) createAuthorities(strictMode bool) (authority.Authorities, error) {
	configured := 0
	for _, url := range e.config.Authority.urls() {
		if url != "" {
			configured++
		}
	}
	switch configured {
	case 0:
		if strictMode {
			return authority.Authorities{}, fmt.Errorf("%w: authority URLs must be configured in strict mode", types.ErrConfiguration)
		}
		log.Logger().Warn("No authorities configured, using simulated authorities. Signatures are not legally binding!")
		e.simulated = true
		return simulated.NewAuthorities(false), nil
	case len(e.config.Authority.urls()):
	default:
		return authority.Authorities{}, fmt.Errorf("%w: either all or none of signing.authority.certificate.url, signing.authority.challenge.url and signing.authority.signing.url must be set", types.ErrConfiguration)
	}
	client := core.NewStrictHTTPClient(strictMode, core.CreateHTTPClient(core.ClientConfig{
		Timeout: e.config.Authority.Timeout,
		Token:   e.config.Authority.Token,
	}, nil))
	limiter := func() *rate.Limiter {
		burst := int(e.config.Authority.RateLimit)
		if burst < 1 {
			burst = 1
		}
		return rate.NewLimiter(rate.Limit(e.config.Authority.RateLimit), burst)
	}
	observer := e.metrics.ObserveAuthorityRequest
	return authority.Authorities{
		Certificate: remote.NewCertificateClient(e.config.Authority.Certificate.URL, client, limiter(), observer),
		Challenge:   remote.NewChallengeClient(e.config.Authority.Challenge.URL, client, limiter(), observer),
		Signing:     remote.NewSigningClient(e.config.Authority.Signing.URL, client, limiter(), observer),
	}, nil
}

func (e *Engine) Start() error {
	e.ctx, e.ctxCancel = context.WithCancel(context.Background())
	return nil
}

// Shutdown stops background polling. Sessions that were polling continue when they are loaded again.
func (e *Engine) Shutdown() error {
	if e.ctxCancel != nil {
		e.ctxCancel()
	}
	e.background.Wait()
	return nil
}

// Diagnostics reports the authority mode and the number of loaded sessions.
func (e *Engine) Diagnostics() []core.DiagnosticResult {
	mode := "remote"
	if e.simulated {
		mode = "simulated"
	}
	e.machinesMux.Lock()
	loaded := len(e.machines)
	e.machinesMux.Unlock()
	return []core.DiagnosticResult{
		&core.GenericDiagnosticResult{Title: "authorities", Value: mode},
		&core.GenericDiagnosticResult{Title: "loaded_sessions", Value: loaded},
	}
}

func (e *Engine) StartSession(ctx context.Context, participant Participant) (*types.SigningSession, error) {
	return e.startSession(ctx, "", identity.Build(participant.Profile), participant.Documents)
}

func (e *Engine) startSession(ctx context.Context, campaignID string, signatory types.Signatory, documents []types.DocumentSignTarget) (*types.SigningSession, error) {
	machine, err := session.Create(ctx, e.components, e.newID(), campaignID, signatory, documents)
	if err != nil {
		return nil, err
	}
	snapshot := machine.Snapshot()
	e.machinesMux.Lock()
	e.machines[snapshot.ID] = machine
	e.machinesMux.Unlock()
	if err := machine.Start(ctx); err != nil {
		// the session is stored, also when it failed
		return machine.Snapshot(), err
	}
	return machine.Snapshot(), nil
}

func (e *Engine) Session(ctx context.Context, sessionID string) (*types.SigningSession, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return machine.Snapshot(), nil
}

func (e *Engine) SendChallenge(ctx context.Context, sessionID string, channel types.Channel) (*types.ChallengeTicket, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return machine.SendChallenge(ctx, channel)
}

func (e *Engine) Authorize(ctx context.Context, sessionID string, ticketID string, code string) (*types.SigningSession, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := machine.Authorize(ctx, ticketID, code); err != nil {
		return nil, err
	}
	e.pollInBackground(machine)
	return machine.Snapshot(), nil
}

func (e *Engine) CheckStatus(ctx context.Context, sessionID string) (*types.SigningSession, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return machine.CheckStatus(ctx)
}

func (e *Engine) RefreshDigests(ctx context.Context, sessionID string) (*types.SigningSession, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := machine.RefreshDigests(ctx); err != nil {
		return nil, err
	}
	return machine.Snapshot(), nil
}

func (e *Engine) Cancel(ctx context.Context, sessionID string) (*types.SigningSession, error) {
	machine, err := e.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := machine.Cancel(ctx); err != nil {
		return nil, err
	}
	return machine.Snapshot(), nil
}

func (e *Engine) CreateCampaign(ctx context.Context, owner Participant, counterparty Participant) (*types.CampaignCompletionState, error) {
	ownerParticipant := campaign.Participant{Signatory: identity.Build(owner.Profile), Documents: owner.Documents}
	counterpartyParticipant := campaign.Participant{Signatory: identity.Build(counterparty.Profile), Documents: counterparty.Documents}
	if err := session.Validate(ownerParticipant.Signatory, ownerParticipant.Documents); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", types.Owner, err)
	}
	if err := session.Validate(counterpartyParticipant.Signatory, counterpartyParticipant.Documents); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", types.Counterparty, err)
	}
	return e.tracker.Create(ctx, ownerParticipant, counterpartyParticipant)
}

func (e *Engine) Campaign(ctx context.Context, campaignID string) (*types.CampaignCompletionState, error) {
	return e.tracker.Status(ctx, campaignID)
}

func (e *Engine) ResendChallenge(ctx context.Context, campaignID string, party types.Party, channel types.Channel) (*types.ChallengeTicket, error) {
	return e.tracker.ResendChallenge(ctx, campaignID, party, channel)
}

func (e *Engine) ReplaceParty(ctx context.Context, campaignID string, party types.Party) (*types.CampaignCompletionState, error) {
	return e.tracker.ReplaceParty(ctx, campaignID, party)
}

// machine returns the machine of the session, loading it from the repository if needed.
// A loaded session that was polling continues polling in the background.
func (e *Engine) machine(ctx context.Context, sessionID string) (*session.Machine, error) {
	e.machinesMux.Lock()
	machine, ok := e.machines[sessionID]
	e.machinesMux.Unlock()
	if ok {
		return machine, nil
	}
	stored, err := e.components.Repository.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resumed, err := session.Resume(ctx, e.components, stored)
	if err != nil {
		return nil, err
	}
	e.machinesMux.Lock()
	defer e.machinesMux.Unlock()
	// another request might have loaded the session in the meantime
	if machine, ok := e.machines[sessionID]; ok {
		return machine, nil
	}
	e.machines[sessionID] = resumed
	if resumed.Snapshot().Phase == types.Polling {
		e.pollInBackground(resumed)
	}
	return resumed, nil
}

func (e *Engine) pollInBackground(machine *session.Machine) {
	ctx := e.ctx
	if ctx == nil {
		// not started
		return
	}
	e.background.Add(1)
	go func() {
		defer e.background.Done()
		result, err := machine.Poll(ctx)
		logger := log.Logger().WithField(core.LogFieldSessionID, machine.Snapshot().ID)
		switch {
		case err == nil:
			logger.Infof("Signing session finished (phase=%s)", result.Phase)
		case errors.Is(err, context.Canceled):
			logger.Debug("Polling stopped")
		default:
			logger.WithError(err).Warn("Polling failed")
		}
	}()
}

// sessions gives the campaign tracker access to the sessions of the engine.
type sessions struct {
	engine *Engine
}

func (s sessions) Get(ctx context.Context, sessionID string) (*types.SigningSession, error) {
	return s.engine.Session(ctx, sessionID)
}

func (s sessions) Create(ctx context.Context, campaignID string, signatory types.Signatory, documents []types.DocumentSignTarget) (*types.SigningSession, error) {
	return s.engine.startSession(ctx, campaignID, signatory, documents)
}

func (s sessions) SendChallenge(ctx context.Context, sessionID string, channel types.Channel) (*types.ChallengeTicket, error) {
	return s.engine.SendChallenge(ctx, sessionID, channel)
}
