// Package match implements the minute-by-minute football match simulation:
// phases and clock, teams, penalty resolution, the action-binding step, and
// the Match state machine itself. Everything here is a pure value type; all
// randomness flows through an injected Rand so a fixed seed replays the same
// match.
package match

import (
	"errors"
	"fmt"
)

// Phase is one segment of a match, ordered by declaration: comparisons use
// the underlying integer value.
type Phase int

const (
	FirstHalf Phase = iota
	SecondHalf
	FirstExtraTime
	SecondExtraTime
	Penalties
)

var phaseNames = [...]string{
	FirstHalf:       "FIRST_HALF",
	SecondHalf:      "SECOND_HALF",
	FirstExtraTime:  "FIRST_EXTRA_TIME",
	SecondExtraTime: "SECOND_EXTRA_TIME",
	Penalties:       "PENALTIES",
}

var phaseDurations = [...]int{
	FirstHalf:       45,
	SecondHalf:      45,
	FirstExtraTime:  15,
	SecondExtraTime: 15,
	Penalties:       0,
}

// ErrNoNextPhase is returned when advancing past the terminal phase.
var ErrNoNextPhase = errors.New("no phase after PENALTIES")

// Duration returns the phase's nominal length in minutes.
func (p Phase) Duration() int {
	return phaseDurations[p]
}

// Next returns the phase that follows p. Penalties is terminal.
func (p Phase) Next() (Phase, error) {
	if p == Penalties {
		return p, ErrNoNextPhase
	}
	return p + 1, nil
}

// IsExtraTime reports whether p is one of the two extra-time phases.
func (p Phase) IsExtraTime() bool {
	return p == FirstExtraTime || p == SecondExtraTime
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase resolves a phase from its serialized name.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown match phase %q", name)
}

// MarshalText serializes the phase by name so saved matches stay readable
// and stable across reorderings. Text marshaling also covers map keys in
// the stoppage-time table.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(data []byte) error {
	parsed, err := ParsePhase(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Time is the match clock: a phase and a minute within it. Minutes advance
// by Add; rolling into the next phase is an explicit transition, never
// automatic.
type Time struct {
	Phase  Phase `json:"phase"`
	Minute int   `json:"minute"`
}

// KickoffTime is the clock at the start of a match.
var KickoffTime = Time{Phase: FirstHalf, Minute: 1}

// Before reports whether t precedes other: phase first, then minute.
func (t Time) Before(other Time) bool {
	return t.Phase < other.Phase ||
		(t.Phase == other.Phase && t.Minute < other.Minute)
}

// Add returns the clock advanced by minutes within the same phase.
func (t Time) Add(minutes int) Time {
	return Time{Phase: t.Phase, Minute: t.Minute + minutes}
}

// NextPhase returns the clock reset to minute 1 of the following phase.
func (t Time) NextPhase() (Time, error) {
	next, err := t.Phase.Next()
	if err != nil {
		return t, err
	}
	return Time{Phase: next, Minute: 1}, nil
}

// Expired reports whether the clock has passed the phase's nominal duration
// plus the given stoppage allowance.
func (t Time) Expired(stoppage float64) bool {
	return float64(t.Minute) > float64(t.Phase.Duration())+stoppage
}

func (t Time) String() string {
	return fmt.Sprintf("%s %d'", t.Phase, t.Minute)
}
