// Package flavor provides the static data a match is dressed with: stadium
// and referee flavor records bundled with the binary, and team rosters from
// YAML files.
package flavor

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"matchday/internal/match"
)

//go:embed flavors.json
var flavorsJSON []byte

type flavorFile struct {
	Stadiums []match.Stadium `json:"stadiums"`
	Referees []string        `json:"referees"`
}

// Load returns the bundled stadium and referee lists.
func Load() ([]match.Stadium, []string, error) {
	var f flavorFile
	if err := json.Unmarshal(flavorsJSON, &f); err != nil {
		return nil, nil, fmt.Errorf("parse embedded flavors: %w", err)
	}
	if len(f.Stadiums) == 0 || len(f.Referees) == 0 {
		return nil, nil, fmt.Errorf("embedded flavors are incomplete")
	}
	return f.Stadiums, f.Referees, nil
}

// Pick draws one stadium and one referee uniformly for a new match.
func Pick(r match.Rand) (match.Stadium, string, error) {
	stadiums, referees, err := Load()
	if err != nil {
		return match.Stadium{}, "", err
	}
	return stadiums[r.IntN(len(stadiums))], referees[r.IntN(len(referees))], nil
}

// teamsFile is the on-disk roster format: exactly two teams, home first.
type teamsFile struct {
	Home match.Team `yaml:"home"`
	Away match.Team `yaml:"away"`
}

// LoadTeams reads a two-team roster YAML file.
func LoadTeams(path string) (home, away match.Team, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return home, away, fmt.Errorf("read teams file: %w", err)
	}
	var f teamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return home, away, fmt.Errorf("parse teams file: %w", err)
	}
	for _, t := range []match.Team{f.Home, f.Away} {
		if err := t.Validate(); err != nil {
			return home, away, err
		}
	}
	return f.Home, f.Away, nil
}

// DefaultTeams returns the built-in squads used when no roster file is given.
func DefaultTeams() (home, away match.Team) {
	home = match.Team{
		FullName:  "A.C. Forgia",
		ShortName: "Forgia",
		Code:      "FOR",
		Color:     "blue",
		Players:   []string{"Kien", "Dani", "Dario", "Dav", "Max"},
	}
	away = match.Team{
		FullName:  "F.C. Pasta Calcistica",
		ShortName: "Pasta",
		Code:      "PAS",
		Color:     "red",
		Players:   []string{"Gio", "Giammy", "Pit", "Stef", "Paso"},
	}
	return home, away
}
