// Package action defines the content contract between the match engine and
// narration generators: the request sent out, the blueprint that comes back,
// and the validation that makes untrusted generator output safe to bind.
package action

import (
	"fmt"
)

// Outcome is the result a narrated goal attempt is asked to end with.
type Outcome string

const (
	OutcomeGoal    Outcome = "goal"
	OutcomeNoGoal  Outcome = "no_goal"
	OutcomePenalty Outcome = "penalty"
	OutcomeOwnGoal Outcome = "own_goal"
)

// Outcomes lists every valid outcome, in the order probabilities are drawn.
var Outcomes = []Outcome{OutcomeGoal, OutcomeNoGoal, OutcomePenalty, OutcomeOwnGoal}

// Valid reports whether o is one of the four recognized outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeGoal, OutcomeNoGoal, OutcomePenalty, OutcomeOwnGoal:
		return true
	}
	return false
}

// Request asks a generator for one action's narration content.
type Request struct {
	Outcome Outcome `json:"outcome"`
	UseVAR  bool    `json:"use_var"`
}

// Blueprint is a generator's response: template narration with role
// placeholders, per-role performance deltas, and the scorer/assist roles.
// Scorer, Assist, and PlayerEvaluation keys are bare role names ("atk_1");
// phrases embed them in braces ("{atk_1}").
type Blueprint struct {
	Outcome          Outcome        `json:"outcome"`
	UseVAR           bool           `json:"use_var"`
	Phrases          []string       `json:"phrases"`
	PlayerEvaluation map[string]int `json:"player_evaluation,omitempty"`
	Scorer           *string        `json:"scorer,omitempty"`
	Assist           *string        `json:"assist,omitempty"`
}

// --------------------------------------------------------------------------
// Placeholder roles
// --------------------------------------------------------------------------

const (
	RoleAttackGoalkeeper  = "atk_goalkeeper"
	RoleDefenseGoalkeeper = "def_goalkeeper"

	RoleReferee         = "referee"
	RoleStadium         = "stadium"
	RoleAttackTeamName  = "atk_team_name"
	RoleDefenseTeamName = "def_team_name"

	// FieldRoleCount is the number of outfield roles per side involved in
	// one action.
	FieldRoleCount = 4
)

// PlayerRoles returns the ten recognized player-role placeholders:
// four outfield roles plus the goalkeeper, for each side.
func PlayerRoles() []string {
	roles := make([]string, 0, 2*(FieldRoleCount+1))
	for i := 1; i <= FieldRoleCount; i++ {
		roles = append(roles, fmt.Sprintf("atk_%d", i))
	}
	roles = append(roles, RoleAttackGoalkeeper)
	for i := 1; i <= FieldRoleCount; i++ {
		roles = append(roles, fmt.Sprintf("def_%d", i))
	}
	roles = append(roles, RoleDefenseGoalkeeper)
	return roles
}

// AllRoles returns every recognized placeholder: player roles plus the
// support roles (referee, stadium, team names).
func AllRoles() []string {
	return append(PlayerRoles(),
		RoleReferee, RoleStadium, RoleAttackTeamName, RoleDefenseTeamName)
}

// IsPlayerRole reports whether role names one of the ten player placeholders.
func IsPlayerRole(role string) bool {
	for _, r := range PlayerRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsAttackRole reports whether role belongs to the attacking side.
func IsAttackRole(role string) bool {
	return len(role) >= 4 && role[:4] == "atk_"
}

// IsDefenseRole reports whether role belongs to the defending side.
func IsDefenseRole(role string) bool {
	return len(role) >= 4 && role[:4] == "def_"
}
