// Package store persists match state: a JSON file codec for save/resume and
// a Postgres archive for finished matches.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"matchday/internal/match"
)

// SaveFile writes the full match state to path. The format round-trips
// losslessly through LoadFile.
func SaveFile(path string, m *match.Match) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write match file: %w", err)
	}
	return nil
}

// LoadFile reads a saved match. The caller must call Resume on the result to
// reattach an action source and random source before advancing it.
func LoadFile(path string) (*match.Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match file: %w", err)
	}
	var m match.Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode match file: %w", err)
	}
	if m.Stoppage == nil {
		m.Stoppage = make(map[match.Phase]float64)
	}
	return &m, nil
}
