package live

import (
	"context"
	"time"
)

// JanitorConfig controls in-memory retention of finished matches.
// Zero durations fall back to the defaults.
type JanitorConfig struct {
	Interval  time.Duration // How often to sweep
	Retention time.Duration // How long finished matches stay in memory
}

// DefaultJanitorConfig returns sensible serving defaults.
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Interval:  time.Minute,
		Retention: 30 * time.Minute,
	}
}

// StartJanitor periodically evicts finished matches from memory once their
// retention window passes. Archived copies survive in the database when one
// is configured. Blocks until ctx is cancelled; intended to be called with
// `go`.
func (mg *Manager) StartJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultJanitorConfig().Interval
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultJanitorConfig().Retention
	}

	mg.logger.Info("Match janitor started",
		"interval", cfg.Interval, "retention", cfg.Retention)

	t := time.NewTicker(cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			mg.logger.Info("Match janitor stopped")
			return
		case <-t.C:
			mg.evict(cfg.Retention)
		}
	}
}

func (mg *Manager) evict(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	mg.mu.Lock()
	defer mg.mu.Unlock()
	for id, run := range mg.matches {
		run.mu.RLock()
		done := !run.finishedAt.IsZero() && run.finishedAt.Before(cutoff)
		run.mu.RUnlock()
		if done {
			delete(mg.matches, id)
			mg.logger.Info("Evicted finished match", "match_id", id)
		}
	}
}
