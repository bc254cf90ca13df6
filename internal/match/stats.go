package match

import (
	"matchday/internal/action"
)

// Stats is a read-only aggregation over the action history up to the current
// clock tick. It is recomputed on demand, never stored.
type Stats struct {
	Home TeamStats `json:"home"`
	Away TeamStats `json:"away"`
}

// TeamStats is one side's view of the match so far.
type TeamStats struct {
	UpdatedAt     Time           `json:"updated_at"`
	Team          Team           `json:"team"`
	Score         int            `json:"score"`
	Attempts      int            `json:"attempts"`
	Goals         []GoalRecord   `json:"goals"`
	PossessionPct float64        `json:"possession_pct"`
	Evaluations   map[string]int `json:"evaluations"`
}

// GoalRecord is one scored goal with its placeholders resolved to names.
type GoalRecord struct {
	Scorer string         `json:"scorer"`
	Time   Time           `json:"time"`
	Assist *string        `json:"assist,omitempty"`
	Type   action.Outcome `json:"type"`
}

// ComputeStats folds the action history into per-team statistics.
func ComputeStats(m *Match) Stats {
	return Stats{
		Home: computeTeamStats(m, 0),
		Away: computeTeamStats(m, 1),
	}
}

func computeTeamStats(m *Match, teamID int) TeamStats {
	actions := m.ActionsToNow()
	team := m.Teams[teamID]

	attempts := 0
	var goals []GoalRecord
	for i := range actions {
		a := &actions[i]
		if a.TeamAtk != teamID {
			continue
		}
		if a.Time.Phase != Penalties {
			attempts++
		}
		if rec, ok := goalRecord(a); ok {
			goals = append(goals, rec)
		}
	}

	possession := 0.0
	if len(actions) > 0 {
		possession = float64(attempts) / float64(len(actions)) * 100
	}

	// Every rostered player starts at zero so quiet players still appear.
	evaluations := make(map[string]int, len(team.Players))
	for _, name := range team.Players {
		evaluations[name] = 0
	}
	for i := range actions {
		a := &actions[i]
		prefix := "def"
		if a.TeamAtk == teamID {
			prefix = "atk"
		}
		for role, delta := range a.Evaluations {
			role = action.TrimRole(role)
			if len(role) < 3 || role[:3] != prefix {
				continue
			}
			if name, ok := a.Assignments[role]; ok {
				evaluations[name] += delta
			}
		}
	}

	home, away := m.Score()
	score := home
	if teamID == 1 {
		score = away
	}

	return TeamStats{
		UpdatedAt:     m.Time,
		Team:          team,
		Score:         score,
		Attempts:      attempts,
		Goals:         goals,
		PossessionPct: possession,
		Evaluations:   evaluations,
	}
}

// goalRecord resolves an action into a goal entry, if it produced one.
func goalRecord(a *Action) (GoalRecord, bool) {
	if !a.IsGoal() {
		return GoalRecord{}, false
	}
	rec := GoalRecord{
		Scorer: a.PlayerName(*a.Scorer),
		Time:   a.Time,
		Type:   a.Outcome,
	}
	if a.Assist != nil {
		name := a.PlayerName(*a.Assist)
		rec.Assist = &name
	}
	return rec, true
}
