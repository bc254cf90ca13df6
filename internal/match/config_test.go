package match

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestOutcomeProbabilitiesMustSumToOne(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.NoGoalProbability = 0.62 // total drops to 0.9
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected a sum-to-one violation for total 0.9")
	}

	cfg.NoGoalProbability = 0.72
	if err := cfg.Validate(); err != nil {
		t.Fatalf("total 1.0 rejected: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"probability above one", func(c *Config) { c.StandardActionProbability = 1.2 }},
		{"negative probability", func(c *Config) { c.VARProbability = -0.1 }},
		{"unknown tie breaker", func(c *Config) { c.TieBreaker = "golden_goal" }},
		{"zero shootout count", func(c *Config) { c.PenaltyShootCount = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.json")
	body := `{"tie_breaker": "allow_tie", "penalty_shoot_count": 3}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TieBreaker != AllowTie {
		t.Fatalf("expected allow_tie, got %s", cfg.TieBreaker)
	}
	if cfg.PenaltyShootCount != 3 {
		t.Fatalf("expected 3 kicks, got %d", cfg.PenaltyShootCount)
	}
	// Untouched fields keep their defaults.
	if cfg.GoalProbability != DefaultConfig().GoalProbability {
		t.Fatalf("goal probability drifted to %v", cfg.GoalProbability)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte(`{"goal_probability": 0.5}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected the skewed distribution to be rejected")
	}
}
