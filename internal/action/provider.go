package action

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Generator produces one blueprint for one request. Implementations may be
// slow (an LLM call) or failure-prone; the Provider wraps them with retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Blueprint, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (*Blueprint, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Blueprint, error) {
	return f(ctx, req)
}

const (
	// maxAttempts bounds how many times one request is tried before the
	// failure is surfaced to the waiting Get call.
	maxAttempts = 3

	// queueDepth bounds outstanding requests. The match driver keeps a
	// handful of blueprints in flight, far below this.
	queueDepth = 64
)

type result struct {
	blueprint *Blueprint
	err       error
}

// Provider decouples blueprint requests from retrieval so content generation
// overlaps the advancing match clock. Requests are served strictly FIFO: the
// Nth Get returns the blueprint (or fatal error) for the Nth Request.
type Provider struct {
	gen      Generator
	timeout  time.Duration
	logger   *slog.Logger
	requests chan Request
	results  chan result
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewProvider creates a stopped provider around gen. attemptTimeout bounds
// each generator call; pass 0 to disable the per-attempt timeout.
func NewProvider(gen Generator, attemptTimeout time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		gen:      gen,
		timeout:  attemptTimeout,
		logger:   logger,
		requests: make(chan Request, queueDepth),
		results:  make(chan result, queueDepth),
	}
}

// Start launches the background fetch worker. Must be called before Get.
func (p *Provider) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.produce(ctx)
}

// Stop cancels the background worker and waits for it to exit. In-flight
// generator calls are abandoned, not awaited.
func (p *Provider) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

// Request enqueues a content request and returns immediately.
func (p *Provider) Request(req Request) {
	p.requests <- req
}

// Get blocks until the blueprint for the oldest unanswered request is ready.
// A request that exhausted its retries yields the final error here; the
// pipeline does not silently drop failed requests.
func (p *Provider) Get(ctx context.Context) (*Blueprint, error) {
	select {
	case r := <-p.results:
		return r.blueprint, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Provider) produce(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.requests:
			blueprint, err := p.fetch(ctx, req)
			if ctx.Err() != nil {
				return
			}
			select {
			case p.results <- result{blueprint: blueprint, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// fetch runs one request through the generator, validating each response,
// retrying transient failures up to maxAttempts.
func (p *Provider) fetch(ctx context.Context, req Request) (*Blueprint, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		blueprint, err := p.generateOnce(ctx, req)
		if err == nil {
			return blueprint, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		p.logger.Warn("blueprint generation failed",
			"outcome", req.Outcome, "attempt", attempt, "error", err)
	}
	p.logger.Error("blueprint generation exhausted retries",
		"outcome", req.Outcome, "attempts", maxAttempts)
	return nil, fmt.Errorf("generate %s blueprint after %d attempts: %w",
		req.Outcome, maxAttempts, lastErr)
}

func (p *Provider) generateOnce(ctx context.Context, req Request) (*Blueprint, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	blueprint, err := p.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := blueprint.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blueprint: %w", err)
	}
	return blueprint, nil
}
