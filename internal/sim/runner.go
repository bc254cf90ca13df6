// Package sim drives a match from kickoff to full time. It owns the
// prefetch warm-up, the penalty-resolution policy, and the event stream
// consumed by the CLI and the API layer.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"matchday/internal/action"
	"matchday/internal/match"
)

// Event is one observed simulation step: the match snapshot after a minute
// (or a penalty resolution) and the action at the current tick, if any.
type Event struct {
	Match  *match.Match
	Action *match.Action
}

// Sink receives simulation events in order. Called from the driver
// goroutine only.
type Sink func(Event)

// PenaltyTaker resolves a pending penalty for the given action.
type PenaltyTaker func(m *match.Match, a *match.Action) (match.Penalty, error)

// AutoTaker returns a taker that picks a random attacking outfield player
// as kicker and draws both directions uniformly.
func AutoTaker(rng match.Rand) PenaltyTaker {
	return func(_ *match.Match, _ *match.Action) (match.Penalty, error) {
		kicker := fmt.Sprintf("atk_%d", rng.IntN(action.FieldRoleCount)+1)
		return match.NewAutoPenalty(rng, kicker, action.RoleDefenseGoalkeeper), nil
	}
}

// prefetchDepth is how many blueprints the runner keeps in flight ahead of
// the clock so narration never stalls on generation.
const prefetchDepth = 3

// Runner advances a match minute by minute until it finishes.
type Runner struct {
	Taker  PenaltyTaker
	Sink   Sink
	Logger *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	HomeScore int
	AwayScore int
	Actions   int
	Duration  time.Duration
}

// Summary renders the result on one line.
func (r Result) Summary() string {
	return fmt.Sprintf("score=%d-%d actions=%d duration=%s",
		r.HomeScore, r.AwayScore, r.Actions, r.Duration.Round(time.Millisecond))
}

// Run plays m to completion and returns the final state. Pending penalties
// are resolved through the Taker; every advanced minute and every penalty
// resolution is reported to the Sink.
func (r *Runner) Run(ctx context.Context, m *match.Match) (*match.Match, Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	m.PrefetchBlueprints(prefetchDepth)

	for !m.Finished {
		next, err := m.Advance(ctx)
		if err != nil {
			return m, r.result(m, start), fmt.Errorf("advance %s: %w", m.Time, err)
		}
		r.emit(next)

		if next.PenaltyPending() {
			a := next.CurrentAction()
			p, err := r.Taker(next, a)
			if err != nil {
				return next, r.result(next, start), fmt.Errorf("resolve penalty at %s: %w", next.Time, err)
			}
			next, err = next.KickPenalty(p)
			if err != nil {
				return next, r.result(next, start), err
			}
			r.emit(next)
		}

		m = next
	}

	res := r.result(m, start)
	logger.Info("match finished",
		"match_id", m.ID, "home", m.Home().ShortName, "away", m.Away().ShortName,
		"summary", res.Summary())
	return m, res, nil
}

func (r *Runner) emit(m *match.Match) {
	if r.Sink != nil {
		r.Sink(Event{Match: m, Action: m.CurrentAction()})
	}
}

func (r *Runner) result(m *match.Match, start time.Time) Result {
	home, away := m.Score()
	return Result{
		HomeScore: home,
		AwayScore: away,
		Actions:   len(m.Actions),
		Duration:  time.Since(start),
	}
}
