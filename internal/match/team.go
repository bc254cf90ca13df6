package match

import (
	"fmt"

	"matchday/internal/action"
)

// MinSquadSize is the smallest roster an action can be bound against:
// four outfield roles plus the goalkeeper.
const MinSquadSize = action.FieldRoleCount + 1

// Team is a static squad. Players[0] is the goalkeeper by convention.
type Team struct {
	FullName  string   `json:"full_name" yaml:"full_name"`
	ShortName string   `json:"short_name" yaml:"short_name"`
	Code      string   `json:"code" yaml:"code"`
	Color     string   `json:"color" yaml:"color"`
	Players   []string `json:"players" yaml:"players"`
}

// Validate checks the roster is large enough to bind actions against.
func (t Team) Validate() error {
	if len(t.Players) < MinSquadSize {
		return fmt.Errorf("team %s has %d players, needs at least %d",
			t.FullName, len(t.Players), MinSquadSize)
	}
	return nil
}

// Goalkeeper returns the first roster entry.
func (t Team) Goalkeeper() string {
	if len(t.Players) == 0 {
		return ""
	}
	return t.Players[0]
}

// RandomOrder returns a fresh uniform permutation of the eligible players.
// Each action binds roles from a new permutation, so positional assignments
// never persist across actions.
func (t Team) RandomOrder(r Rand, includeGoalkeeper bool, exclude []string) []string {
	pool := t.Players
	if !includeGoalkeeper && len(pool) > 0 {
		pool = pool[1:]
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	eligible := make([]string, 0, len(pool))
	for _, name := range pool {
		if !excluded[name] {
			eligible = append(eligible, name)
		}
	}
	return shuffled(r, eligible)
}

// Stadium is the venue flavor record a match is played in.
type Stadium struct {
	Prefix   string `json:"prefix"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// FullName returns the prefixed display name, e.g. "Stadio San Fermo".
func (s Stadium) FullName() string {
	if s.Prefix == "" {
		return s.Name
	}
	return s.Prefix + " " + s.Name
}
