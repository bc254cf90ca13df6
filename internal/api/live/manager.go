// Package live runs simulations behind the HTTP API: a registry of
// in-flight matches, per-match snapshots, and the websocket fan-out hub.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"matchday/internal/action"
	"matchday/internal/action/local"
	"matchday/internal/action/openai"
	"matchday/internal/config"
	"matchday/internal/flavor"
	"matchday/internal/match"
	"matchday/internal/sim"
	"matchday/internal/store"
)

// archiveTimeout bounds the final save of a finished match.
const archiveTimeout = 10 * time.Second

// Running is one live (or finished) simulation owned by the Manager.
// The simulation goroutine replaces the snapshot after every tick;
// readers take the latest complete state.
type Running struct {
	ID  uuid.UUID
	hub *Hub

	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.RWMutex
	current    *match.Match
	runErr     error
	finishedAt time.Time
}

// Hub returns the websocket fan-out hub for this match.
func (r *Running) Hub() *Hub {
	return r.hub
}

// Snapshot returns the latest complete match state.
func (r *Running) Snapshot() *match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Err returns the terminal simulation error, if any.
func (r *Running) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runErr
}

func (r *Running) setCurrent(m *match.Match) {
	r.mu.Lock()
	r.current = m
	r.mu.Unlock()
}

func (r *Running) finish(m *match.Match, err error) {
	r.mu.Lock()
	r.current = m
	r.runErr = err
	r.finishedAt = time.Now()
	r.mu.Unlock()
}

// StartOptions controls a new simulation. Zero values fall back to the
// built-in squads, a time-derived seed, and the default match rules.
type StartOptions struct {
	HomeTeam   *match.Team
	AwayTeam   *match.Team
	Seed       *uint64
	TieBreaker string
	TickDelay  time.Duration
}

// Manager owns every simulation started through the API.
type Manager struct {
	cfg     *config.Config
	archive *store.Archive // nil when no database is configured
	logger  *slog.Logger

	mu      sync.RWMutex
	matches map[uuid.UUID]*Running
}

// NewManager creates a Manager. archive may be nil.
func NewManager(cfg *config.Config, archive *store.Archive, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		archive: archive,
		logger:  logger,
		matches: make(map[uuid.UUID]*Running),
	}
}

// Get returns the running match with the given ID.
func (mg *Manager) Get(id uuid.UUID) (*Running, bool) {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	r, ok := mg.matches[id]
	return r, ok
}

// List returns all matches the manager knows about, running or finished.
func (mg *Manager) List() []*Running {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	out := make([]*Running, 0, len(mg.matches))
	for _, r := range mg.matches {
		out = append(out, r)
	}
	return out
}

// Start spins up a simulation goroutine and returns immediately.
// Penalties are resolved automatically; clients follow the match through
// the snapshot endpoints or the websocket stream.
func (mg *Manager) Start(opts StartOptions) (*Running, error) {
	seed := uint64(time.Now().UnixNano())
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := match.NewRand(seed)

	home, away := flavor.DefaultTeams()
	if opts.HomeTeam != nil {
		home = *opts.HomeTeam
	}
	if opts.AwayTeam != nil {
		away = *opts.AwayTeam
	}

	stadium, referee, err := flavor.Pick(rng)
	if err != nil {
		return nil, fmt.Errorf("pick flavor: %w", err)
	}

	mcfg := match.DefaultConfig()
	if opts.TieBreaker != "" {
		mcfg.TieBreaker = match.TieBreaker(opts.TieBreaker)
	}

	var gen action.Generator
	if mg.cfg.HasOpenAI() {
		gen = openai.NewClient(mg.cfg.OpenAIBaseURL, mg.cfg.OpenAIAPIKey,
			mg.cfg.OpenAIModel, mg.cfg.OpenAIRPM, mg.logger)
	} else {
		gen = local.NewGenerator(seed)
	}
	provider := action.NewProvider(gen, mg.cfg.AttemptTimeout, mg.logger)
	provider.Start()

	m, err := match.New(home, away, stadium, referee, provider, mcfg, rng)
	if err != nil {
		provider.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &Running{
		ID:      m.ID,
		hub:     NewHub(mg.logger),
		cancel:  cancel,
		done:    make(chan struct{}),
		current: m,
	}

	mg.mu.Lock()
	mg.matches[run.ID] = run
	mg.mu.Unlock()

	go run.hub.Run(ctx)
	go mg.drive(ctx, cancel, run, m, rng, provider, opts.TickDelay)

	mg.logger.Info("simulation started",
		"match_id", run.ID, "home", home.ShortName, "away", away.ShortName,
		"seed", seed, "generator", generatorName(mg.cfg))
	return run, nil
}

func (mg *Manager) drive(ctx context.Context, cancel context.CancelFunc, run *Running,
	m *match.Match, rng match.Rand, provider *action.Provider, tickDelay time.Duration) {

	defer close(run.done)
	defer cancel()
	defer provider.Stop()

	runner := &sim.Runner{
		Taker: sim.AutoTaker(rng),
		Sink: func(ev sim.Event) {
			run.setCurrent(ev.Match)
			run.hub.Broadcast(streamEvent(ev))
			if tickDelay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(tickDelay):
				}
			}
		},
		Logger: mg.logger,
	}

	final, _, err := runner.Run(ctx, m)
	run.finish(final, err)
	if err != nil {
		mg.logger.Error("simulation aborted", "match_id", run.ID, "error", err)
		return
	}

	home, away := final.Score()
	run.hub.Broadcast(StreamEvent{Type: "finished", Minute: final.Time.String(), Score: [2]int{home, away}})

	if mg.archive != nil {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer saveCancel()
		if err := mg.archive.Save(saveCtx, final); err != nil {
			mg.logger.Error("archive match", "match_id", run.ID, "error", err)
		}
	}
}

// Shutdown cancels every simulation and waits for the goroutines to exit.
func (mg *Manager) Shutdown() {
	mg.mu.RLock()
	running := make([]*Running, 0, len(mg.matches))
	for _, r := range mg.matches {
		running = append(running, r)
	}
	mg.mu.RUnlock()

	for _, r := range running {
		r.cancel()
	}
	for _, r := range running {
		<-r.done
	}
}

func streamEvent(ev sim.Event) StreamEvent {
	home, away := ev.Match.Score()
	se := StreamEvent{
		Type:   "minute",
		Minute: ev.Match.Time.String(),
		Score:  [2]int{home, away},
	}
	if ev.Action != nil {
		se.Type = "action"
		se.Narration = ev.Action.Narration()
		se.Payload = ev.Action
	}
	return se
}

func generatorName(cfg *config.Config) string {
	if cfg.HasOpenAI() {
		return "openai"
	}
	return "local"
}
