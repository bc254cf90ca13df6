package match

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// TieBreaker selects what happens when the score is level at the end of the
// second half.
type TieBreaker string

const (
	AllowTie               TieBreaker = "allow_tie"
	ExtraTimeThenPenalties TieBreaker = "extra_time_then_penalties"
	PenaltiesOnly          TieBreaker = "penalties_only"
)

// probabilityTolerance is how far the four outcome probabilities may drift
// from summing to exactly 1.
const probabilityTolerance = 1e-6

// Config holds the tunable simulation parameters. Values are read-only once
// a match starts.
type Config struct {
	TieBreaker     TieBreaker `json:"tie_breaker"`
	StartFromPhase Phase      `json:"start_from_phase"`

	// Stoppage-time accrual ranges, in (fractional) minutes, drawn
	// uniformly per triggering event during normal time.
	GoalStoppageMin    float64 `json:"goal_stoppage_min"`
	GoalStoppageMax    float64 `json:"goal_stoppage_max"`
	PenaltyStoppageMin float64 `json:"penalty_stoppage_min"`
	PenaltyStoppageMax float64 `json:"penalty_stoppage_max"`
	VARStoppageMin     float64 `json:"var_stoppage_min"`
	VARStoppageMax     float64 `json:"var_stoppage_max"`

	// Per-minute probability that an action occurs.
	StandardActionProbability  float64 `json:"standard_action_probability"`
	ExtraTimeActionProbability float64 `json:"extra_time_action_probability"`
	AddedTimeActionProbability float64 `json:"added_time_action_probability"`

	// Outcome-type probabilities for a triggered action. Must sum to 1.
	NoGoalProbability  float64 `json:"no_goal_probability"`
	GoalProbability    float64 `json:"goal_probability"`
	OwnGoalProbability float64 `json:"own_goal_probability"`
	PenaltyProbability float64 `json:"penalty_probability"`

	// Probability a narrated action includes a VAR check.
	VARProbability float64 `json:"var_probability"`

	// Regulation kicks per side in a shootout before sudden death.
	PenaltyShootCount int `json:"penalty_shoot_count"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		TieBreaker:                 ExtraTimeThenPenalties,
		StartFromPhase:             FirstHalf,
		GoalStoppageMin:            0.5,
		GoalStoppageMax:            1.5,
		PenaltyStoppageMin:         0.75,
		PenaltyStoppageMax:         1.75,
		VARStoppageMin:             1.0,
		VARStoppageMax:             2.0,
		StandardActionProbability:  0.15,
		ExtraTimeActionProbability: 0.30,
		AddedTimeActionProbability: 0.45,
		NoGoalProbability:          0.72,
		GoalProbability:            0.18,
		OwnGoalProbability:         0.02,
		PenaltyProbability:         0.08,
		VARProbability:             0.1,
		PenaltyShootCount:          5,
	}
}

// Validate rejects configurations that would corrupt the simulation: outcome
// probabilities not summing to 1, any probability outside [0, 1], or a
// non-positive shootout count.
func (c Config) Validate() error {
	total := c.NoGoalProbability + c.GoalProbability +
		c.OwnGoalProbability + c.PenaltyProbability
	if math.Abs(total-1.0) > probabilityTolerance {
		return fmt.Errorf("outcome probabilities must sum to 1, got %v", total)
	}

	probs := map[string]float64{
		"standard_action_probability":   c.StandardActionProbability,
		"extra_time_action_probability": c.ExtraTimeActionProbability,
		"added_time_action_probability": c.AddedTimeActionProbability,
		"no_goal_probability":           c.NoGoalProbability,
		"goal_probability":              c.GoalProbability,
		"own_goal_probability":          c.OwnGoalProbability,
		"penalty_probability":           c.PenaltyProbability,
		"var_probability":               c.VARProbability,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, p)
		}
	}

	switch c.TieBreaker {
	case AllowTie, ExtraTimeThenPenalties, PenaltiesOnly:
	default:
		return fmt.Errorf("unknown tie breaker %q", c.TieBreaker)
	}

	if c.PenaltyShootCount < 1 {
		return fmt.Errorf("penalty_shoot_count must be at least 1, got %d", c.PenaltyShootCount)
	}

	return nil
}

// LoadConfig reads a JSON config file. Absent fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
