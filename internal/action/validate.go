package action

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Evaluation deltas must stay within this band.
const (
	EvaluationMin = -3
	EvaluationMax = 3
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// InvalidPlaceholderError reports unrecognized placeholders found in a phrase.
type InvalidPlaceholderError struct {
	PhraseIndex  int
	Placeholders []string
}

func (e *InvalidPlaceholderError) Error() string {
	return fmt.Sprintf("phrase %d contains invalid placeholders: %s",
		e.PhraseIndex, strings.Join(e.Placeholders, ", "))
}

// InvalidPlayerReferenceError reports a scorer, assist, or evaluation key
// that is not a recognized player role.
type InvalidPlayerReferenceError struct {
	Field string
	Role  string
}

func (e *InvalidPlayerReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown player role %q", e.Field, e.Role)
}

// EvaluationRangeError reports a performance delta outside [-3, 3].
type EvaluationRangeError struct {
	Role  string
	Value int
}

func (e *EvaluationRangeError) Error() string {
	return fmt.Sprintf("evaluation for %s is %d, must be between %d and %d",
		e.Role, e.Value, EvaluationMin, EvaluationMax)
}

// ErrMissingScorer is returned when a goal blueprint names no scorer.
var ErrMissingScorer = errors.New("action outcome is goal but no scorer specified")

// Validate checks a blueprint received from an untrusted generator.
// It rejects unrecognized placeholders in any phrase, a missing scorer on a
// goal outcome, scorer/assist/evaluation references outside the player roles,
// and evaluation deltas outside [-3, 3]. Callers must validate every
// blueprint before binding it to a match.
func (b *Blueprint) Validate() error {
	if !b.Outcome.Valid() {
		return fmt.Errorf("unknown action outcome %q", b.Outcome)
	}

	if b.Outcome == OutcomeGoal && b.Scorer == nil {
		return ErrMissingScorer
	}

	valid := make(map[string]bool)
	for _, role := range AllRoles() {
		valid[role] = true
	}

	for i, phrase := range b.Phrases {
		if bad := findInvalidPlaceholders(phrase, valid); len(bad) > 0 {
			return &InvalidPlaceholderError{PhraseIndex: i, Placeholders: bad}
		}
	}

	if b.Scorer != nil && !IsPlayerRole(*b.Scorer) {
		return &InvalidPlayerReferenceError{Field: "scorer", Role: *b.Scorer}
	}
	if b.Assist != nil && !IsPlayerRole(*b.Assist) {
		return &InvalidPlayerReferenceError{Field: "assist", Role: *b.Assist}
	}

	for role, delta := range b.PlayerEvaluation {
		if !IsPlayerRole(role) {
			return &InvalidPlayerReferenceError{Field: "player_evaluation", Role: role}
		}
		if delta < EvaluationMin || delta > EvaluationMax {
			return &EvaluationRangeError{Role: role, Value: delta}
		}
	}

	return nil
}

// findInvalidPlaceholders extracts every {token} from phrase and returns the
// tokens missing from valid, in order of appearance.
func findInvalidPlaceholders(phrase string, valid map[string]bool) []string {
	var bad []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(phrase, -1) {
		if !valid[m[1]] {
			bad = append(bad, m[1])
		}
	}
	return bad
}

// TrimRole strips surrounding braces from a placeholder, accepting both
// "{atk_1}" and "atk_1" forms generators produce.
func TrimRole(role string) string {
	return strings.TrimSuffix(strings.TrimPrefix(role, "{"), "}")
}
