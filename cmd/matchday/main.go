// Command matchday simulates football matches minute by minute.
//
// Usage:
//
//	matchday play --teams squads.yaml
//	matchday simulate --seed 42 --save final.json
//	matchday serve
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"matchday/internal/action"
	"matchday/internal/action/local"
	"matchday/internal/action/openai"
	"matchday/internal/config"
	"matchday/internal/flavor"
	"matchday/internal/match"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "matchday",
		Short: "Minute-by-minute football match simulator",
	}

	root.AddCommand(playCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// shared setup
// --------------------------------------------------------------------------

// matchFlags are the setup flags shared by play and simulate.
type matchFlags struct {
	teamsPath string
	rulesPath string
	seed      uint64
	savePath  string
}

func (f *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.teamsPath, "teams", "", "YAML file with home/away squads (default: built-in squads)")
	cmd.Flags().StringVar(&f.rulesPath, "rules", "", "JSON file with match rules (default: standard rules)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed (default: time-derived)")
	cmd.Flags().StringVar(&f.savePath, "save", "", "Write the final match state to this JSON file")
}

// setup builds everything a simulation needs from flags and environment.
func (f *matchFlags) setup(cfg *config.Config) (*match.Match, *action.Provider, match.Rand, error) {
	seed := f.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := match.NewRand(seed)

	home, away := flavor.DefaultTeams()
	if f.teamsPath != "" {
		var err error
		home, away, err = flavor.LoadTeams(f.teamsPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load teams: %w", err)
		}
	}

	rules := match.DefaultConfig()
	if f.rulesPath != "" {
		var err error
		rules, err = match.LoadConfig(f.rulesPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load rules: %w", err)
		}
	}

	stadium, referee, err := flavor.Pick(rng)
	if err != nil {
		return nil, nil, nil, err
	}

	var gen action.Generator
	if cfg.HasOpenAI() {
		gen = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIRPM, logger)
		logger.Info("Using OpenAI action generator", "model", cfg.OpenAIModel)
	} else {
		gen = local.NewGenerator(seed)
		logger.Info("Using built-in action generator (set OPENAI_API_KEY for generated narration)")
	}

	provider := action.NewProvider(gen, cfg.AttemptTimeout, logger)
	provider.Start()

	m, err := match.New(home, away, stadium, referee, provider, rules, rng)
	if err != nil {
		provider.Stop()
		return nil, nil, nil, err
	}
	return m, provider, rng, nil
}
