package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"matchday/internal/action"
	"matchday/internal/config"
	"matchday/internal/match"
	"matchday/internal/store"
)

// prefetchDepth mirrors the warm-up the headless runner uses.
const prefetchDepth = 3

func playCmd() *cobra.Command {
	var flags matchFlags
	var noPause bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a narrated match interactively (you take the penalties)",
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

			in := bufio.NewReader(os.Stdin)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s vs %s\n", m.Home().FullName, m.Away().FullName)
			fmt.Fprintf(out, "at %s, referee %s\n\n", m.Stadium.FullName(), m.Referee)

			m.PrefetchBlueprints(prefetchDepth)

			for !m.Finished {
				next, err := m.Advance(ctx)
				if err != nil {
					return err
				}
				m = next

				if a := m.CurrentAction(); a != nil {
					printAction(out, m, a)
					if m.PenaltyPending() {
						p, err := promptPenalty(ctx, in, out, rng, a)
						if err != nil {
							return err
						}
						m, err = m.KickPenalty(p)
						if err != nil {
							return err
						}
						printPenaltyResult(out, m)
					}
					if !noPause {
						fmt.Fprint(out, "[enter to continue] ")
						if _, err := in.ReadString('\n'); err != nil {
							return err
						}
					}
				}
			}

			printFullTime(out, m)
			if flags.savePath != "" {
				if err := store.SaveFile(flags.savePath, m); err != nil {
					return err
				}
				fmt.Fprintf(out, "saved to %s\n", flags.savePath)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noPause, "no-pause", false, "Do not wait for enter between actions")
	return cmd
}

func printAction(out io.Writer, m *match.Match, a *match.Action) {
	home, away := m.NoSpoilerScore()
	fmt.Fprintf(out, "--- %s | %s %d - %d %s ---\n",
		m.Time, m.Home().ShortName, home, away, m.Away().ShortName)
	for _, line := range a.Narration() {
		fmt.Fprintf(out, "  %s\n", line)
	}
	if a.IsGoal() {
		h, aw := m.Score()
		fmt.Fprintf(out, "  GOAL! %s %d - %d %s\n", m.Home().ShortName, h, aw, m.Away().ShortName)
	}
}

func printPenaltyResult(out io.Writer, m *match.Match) {
	a := m.CurrentAction()
	if a == nil || a.Penalty == nil {
		return
	}
	p := a.Penalty
	kicker := a.PlayerName(p.Kicker)
	switch {
	case p.IsOut:
		fmt.Fprintf(out, "  %s sends it wide! No goal.\n", kicker)
	case p.IsGoal:
		home, away := m.Score()
		fmt.Fprintf(out, "  %s scores from the spot! %s %d - %d %s\n",
			kicker, m.Home().ShortName, home, away, m.Away().ShortName)
	default:
		fmt.Fprintf(out, "  Saved! %s guessed right.\n", a.PlayerName(p.Goalkeeper))
	}
}

func printFullTime(out io.Writer, m *match.Match) {
	home, away := m.Score()
	fmt.Fprintf(out, "\nFULL TIME: %s %d - %d %s\n", m.Home().FullName, home, away, m.Away().FullName)

	stats := match.ComputeStats(m)
	for _, ts := range []match.TeamStats{stats.Home, stats.Away} {
		fmt.Fprintf(out, "\n%s: %d goals, %d attempts, %.0f%% possession\n",
			ts.Team.FullName, ts.Score, ts.Attempts, ts.PossessionPct)
		for _, g := range ts.Goals {
			assist := ""
			if g.Assist != nil {
				assist = " (assist " + *g.Assist + ")"
			}
			fmt.Fprintf(out, "  %s %s%s\n", g.Time, g.Scorer, assist)
		}
	}
}

// --------------------------------------------------------------------------
// penalty prompts
// --------------------------------------------------------------------------

// promptPenalty asks for kicker, kick direction, and dive direction.
// Empty input or "r" draws the direction at random.
func promptPenalty(ctx context.Context, in *bufio.Reader, out io.Writer,
	rng match.Rand, a *match.Action) (match.Penalty, error) {

	fmt.Fprintf(out, "\nPENALTY for %s!\n", a.Support[action.RoleAttackTeamName])

	roles := append([]string{}, action.PlayerRoles()...)
	kickers := make([]string, 0, len(roles)/2)
	for _, role := range roles {
		if action.IsAttackRole(role) {
			kickers = append(kickers, role)
		}
	}
	for i, role := range kickers {
		fmt.Fprintf(out, "  %d) %s\n", i+1, a.PlayerName(role))
	}

	kickerIdx, err := promptChoice(ctx, in, out, "Kicker", len(kickers))
	if err != nil {
		return match.Penalty{}, err
	}
	kicker := kickers[kickerIdx]

	kick, err := promptDirection(ctx, in, out, "Kick direction", rng)
	if err != nil {
		return match.Penalty{}, err
	}
	dive, err := promptDirection(ctx, in, out, fmt.Sprintf("Dive direction for %s", a.PlayerName(action.RoleDefenseGoalkeeper)), rng)
	if err != nil {
		return match.Penalty{}, err
	}

	return match.NewKickedPenalty(rng, kicker, action.RoleDefenseGoalkeeper, kick, dive), nil
}

func promptChoice(ctx context.Context, in *bufio.Reader, out io.Writer,
	label string, n int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(out, "%s [1-%d]: ", label, n)
		line, err := in.ReadString('\n')
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && v >= 1 && v <= n {
			return v - 1, nil
		}
		fmt.Fprintf(out, "invalid choice\n")
	}
}

func promptDirection(ctx context.Context, in *bufio.Reader, out io.Writer,
	label string, rng match.Rand) (match.PenaltyDirection, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(out, "%s [1-%d, r=random]:\n", label, len(match.AllPenaltyDirections))
		for i, d := range match.AllPenaltyDirections {
			fmt.Fprintf(out, "  %d) %s\n", i+1, d)
		}
		fmt.Fprint(out, "> ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", err
		}
		s := strings.TrimSpace(line)
		if s == "" || strings.EqualFold(s, "r") {
			return match.RandomPenaltyDirection(rng), nil
		}
		if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= len(match.AllPenaltyDirections) {
			return match.AllPenaltyDirections[v-1], nil
		}
		if d, err := match.ParsePenaltyDirection(s); err == nil {
			return d, nil
		}
		fmt.Fprintf(out, "invalid direction\n")
	}
}
