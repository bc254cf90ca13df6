package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"matchday/internal/config"
	"matchday/internal/sim"
	"matchday/internal/store"
)

func simulateCmd() *cobra.Command {
	var flags matchFlags
	var verbose bool
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a match headlessly with automatic penalties",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			m, provider, rng, err := flags.setup(cfg)
			if err != nil {
				return err
			}
			defer provider.Stop()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			out := cmd.OutOrStdout()
			runner := &sim.Runner{
				Taker:  sim.AutoTaker(rng),
				Logger: logger,
			}
			if verbose {
				runner.Sink = func(ev sim.Event) {
					a := ev.Action
					if a == nil {
						return
					}
					// A resolved penalty re-emits the same action; print
					// only the outcome the second time around.
					if a.Penalty != nil {
						printPenaltyResult(out, ev.Match)
						return
					}
					printAction(out, ev.Match, a)
				}
			}

			final, res, err := runner.Run(ctx, m)
			if err != nil {
				return err
			}

			printFullTime(out, final)
			fmt.Fprintf(out, "\n%s\n", res.Summary())

			if flags.savePath != "" {
				if err := store.SaveFile(flags.savePath, final); err != nil {
					return err
				}
				fmt.Fprintf(out, "saved to %s\n", flags.savePath)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print each action's narration while simulating")
	return cmd
}
