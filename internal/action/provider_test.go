package action

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func blueprintFor(req Request) *Blueprint {
	bp := &Blueprint{
		Outcome: req.Outcome,
		UseVAR:  req.UseVAR,
		Phrases: []string{"{atk_1} shoots."},
	}
	if req.Outcome == OutcomeGoal {
		scorer := "atk_1"
		bp.Scorer = &scorer
	}
	return bp
}

func TestProviderPairsRequestsAndResultsFIFO(t *testing.T) {
	t.Parallel()

	// The first request is the slowest; pairing must still follow request
	// order, not completion speed.
	delays := map[Outcome]time.Duration{
		OutcomeGoal:    30 * time.Millisecond,
		OutcomeNoGoal:  time.Millisecond,
		OutcomePenalty: 5 * time.Millisecond,
	}
	gen := GeneratorFunc(func(ctx context.Context, req Request) (*Blueprint, error) {
		time.Sleep(delays[req.Outcome])
		return blueprintFor(req), nil
	})

	p := NewProvider(gen, 0, nil)
	p.Start()
	defer p.Stop()

	order := []Request{
		{Outcome: OutcomeGoal},
		{Outcome: OutcomeNoGoal, UseVAR: true},
		{Outcome: OutcomePenalty},
	}
	for _, req := range order {
		p.Request(req)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i, req := range order {
		bp, err := p.Get(ctx)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if bp.Outcome != req.Outcome || bp.UseVAR != req.UseVAR {
			t.Fatalf("get %d: expected %+v, got outcome=%s var=%v", i, req, bp.Outcome, bp.UseVAR)
		}
	}
}

func TestProviderRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, req Request) (*Blueprint, error) {
		if calls.Add(1) < 3 {
			return nil, fmt.Errorf("upstream hiccup")
		}
		return blueprintFor(req), nil
	})

	p := NewProvider(gen, 0, nil)
	p.Start()
	defer p.Stop()

	p.Request(Request{Outcome: OutcomeNoGoal})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bp, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("expected the third attempt to succeed: %v", err)
	}
	if bp.Outcome != OutcomeNoGoal {
		t.Fatalf("expected a no_goal blueprint, got %s", bp.Outcome)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 generator calls, got %d", got)
	}
}

func TestProviderSurfacesExhaustedRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	boom := errors.New("model unavailable")
	gen := GeneratorFunc(func(ctx context.Context, req Request) (*Blueprint, error) {
		calls.Add(1)
		return nil, boom
	})

	p := NewProvider(gen, 0, nil)
	p.Start()
	defer p.Stop()

	p.Request(Request{Outcome: OutcomeGoal})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := p.Get(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the final generator error, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestProviderRejectsAndRetriesInvalidBlueprints(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, req Request) (*Blueprint, error) {
		if calls.Add(1) == 1 {
			// Goal without a scorer fails validation.
			return &Blueprint{Outcome: OutcomeGoal}, nil
		}
		return blueprintFor(req), nil
	})

	p := NewProvider(gen, 0, nil)
	p.Start()
	defer p.Stop()

	p.Request(Request{Outcome: OutcomeGoal})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bp, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("expected the retry to recover: %v", err)
	}
	if bp.Scorer == nil {
		t.Fatal("expected the valid second blueprint")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 generator calls, got %d", got)
	}
}

func TestProviderGetHonorsContext(t *testing.T) {
	t.Parallel()

	gen := GeneratorFunc(func(ctx context.Context, req Request) (*Blueprint, error) {
		return blueprintFor(req), nil
	})
	p := NewProvider(gen, 0, nil)
	p.Start()
	defer p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded with no pending request, got %v", err)
	}
}
