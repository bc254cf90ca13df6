package match

import (
	"fmt"
	"strings"

	"matchday/internal/action"
)

// Action is one bound goal attempt: a blueprint's template content attached
// to concrete players of a specific attacking/defending pairing at a
// specific clock tick. Values are treated as immutable; completion of a
// pending penalty goes through WithPenalty, which returns a new value.
type Action struct {
	TeamAtk int            `json:"team_atk"`
	Time    Time           `json:"time"`
	Outcome action.Outcome `json:"outcome"`
	UseVAR  bool           `json:"use_var"`

	// Scorer and Assist are role placeholders, resolvable via PlayerName.
	Scorer *string `json:"scorer,omitempty"`
	Assist *string `json:"assist,omitempty"`

	Evaluations map[string]int `json:"evaluations,omitempty"`
	Phrases     []string       `json:"phrases,omitempty"`

	// Assignments maps player roles to real names for this action only;
	// Support maps the non-player placeholders.
	Assignments map[string]string `json:"assignments"`
	Support     map[string]string `json:"support"`

	Penalty *Penalty `json:"penalty,omitempty"`
}

// bindAction draws fresh role assignments from both rosters and attaches the
// blueprint's content to them.
func bindAction(r Rand, bp *action.Blueprint, t Time, teamAtk int, teams [2]Team, referee string, stadium Stadium) (Action, error) {
	atk := teams[teamAtk]
	def := teams[1-teamAtk]

	for _, team := range []Team{atk, def} {
		if err := team.Validate(); err != nil {
			return Action{}, fmt.Errorf("bind action: %w", err)
		}
	}

	atkOrder := atk.RandomOrder(r, false, nil)
	defOrder := def.RandomOrder(r, false, nil)

	assignments := make(map[string]string, 2*(action.FieldRoleCount+1))
	for i := 0; i < action.FieldRoleCount; i++ {
		assignments[fmt.Sprintf("atk_%d", i+1)] = atkOrder[i]
		assignments[fmt.Sprintf("def_%d", i+1)] = defOrder[i]
	}
	assignments[action.RoleAttackGoalkeeper] = atk.Goalkeeper()
	assignments[action.RoleDefenseGoalkeeper] = def.Goalkeeper()

	support := map[string]string{
		action.RoleReferee:         referee,
		action.RoleStadium:         stadium.Name,
		action.RoleAttackTeamName:  atk.ShortName,
		action.RoleDefenseTeamName: def.ShortName,
	}

	a := Action{
		TeamAtk:     teamAtk,
		Time:        t,
		Outcome:     bp.Outcome,
		UseVAR:      bp.UseVAR,
		Scorer:      bp.Scorer,
		Assist:      bp.Assist,
		Evaluations: bp.PlayerEvaluation,
		Phrases:     bp.Phrases,
		Assignments: assignments,
		Support:     support,
	}

	// Penalties resolve scorer/assist only once kicked; own goals carry no
	// assist.
	switch a.Outcome {
	case action.OutcomePenalty:
		a.Scorer = nil
		a.Assist = nil
	case action.OutcomeOwnGoal:
		a.Assist = nil
	}

	return a, nil
}

// IsGoal reports whether the action put the ball in the net for the
// attacking side (own goals included).
func (a *Action) IsGoal() bool {
	return a.Scorer != nil
}

// IsOwnGoal reports whether the goal was scored by a defending player.
func (a *Action) IsOwnGoal() bool {
	return a.Scorer != nil && action.IsDefenseRole(*a.Scorer)
}

// IsPenaltyPending reports whether the action awaits its penalty kick.
func (a *Action) IsPenaltyPending() bool {
	return a.Outcome == action.OutcomePenalty && a.Penalty == nil
}

// WithPenalty returns a copy of the action completed by the resolved kick.
// The kicker becomes the scorer iff the kick went in; penalties never carry
// an assist.
func (a Action) WithPenalty(p Penalty) Action {
	a.Penalty = &p
	a.Assist = nil
	if p.IsGoal {
		kicker := p.Kicker
		a.Scorer = &kicker
	} else {
		a.Scorer = nil
	}
	return a
}

// PlayerName resolves a role placeholder (brace-wrapped or bare) to the
// concrete name bound for this action.
func (a *Action) PlayerName(role string) string {
	role = action.TrimRole(role)
	if name, ok := a.Assignments[role]; ok {
		return name
	}
	return a.Support[role]
}

// Narration returns the phrases with every placeholder substituted with its
// bound value, ready for display.
func (a *Action) Narration() []string {
	pairs := make([]string, 0, 2*(len(a.Assignments)+len(a.Support)))
	for role, name := range a.Assignments {
		pairs = append(pairs, "{"+role+"}", name)
	}
	for role, value := range a.Support {
		pairs = append(pairs, "{"+role+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	out := make([]string, len(a.Phrases))
	for i, phrase := range a.Phrases {
		out[i] = replacer.Replace(phrase)
	}
	return out
}
