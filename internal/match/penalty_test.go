package match

import (
	"testing"
)

func TestDifferingHorizontalAlwaysScores(t *testing.T) {
	t.Parallel()

	for _, kick := range AllPenaltyDirections {
		for _, dive := range AllPenaltyDirections {
			if kick.horizontal() == dive.horizontal() {
				continue
			}
			// 0.5 clears the wild-kick roll.
			p := NewKickedPenalty(&scriptRand{floats: []float64{0.5}}, "atk_1", "def_goalkeeper", kick, dive)
			if !p.IsGoal || p.IsOut {
				t.Fatalf("kick %s vs dive %s: expected a goal, got %+v", kick, dive, p)
			}
		}
	}
}

func TestExactGuessIsSaved(t *testing.T) {
	t.Parallel()

	for _, d := range AllPenaltyDirections {
		p := NewKickedPenalty(&scriptRand{floats: []float64{0.5}}, "atk_1", "def_goalkeeper", d, d)
		if p.IsGoal || p.IsOut {
			t.Fatalf("kick into the dive at %s: expected a save, got %+v", d, p)
		}
	}
}

func TestWildKickGoesOutRegardlessOfDive(t *testing.T) {
	t.Parallel()

	p := NewKickedPenalty(&scriptRand{floats: []float64{0.05}}, "atk_1", "def_goalkeeper", LeftLow, RightTop)
	if !p.IsOut || p.IsGoal {
		t.Fatalf("expected a wild kick out, got %+v", p)
	}
}

func TestSameThirdWrongHeightIsACoinFlip(t *testing.T) {
	t.Parallel()

	goal := NewKickedPenalty(&scriptRand{floats: []float64{0.5, 0.3}}, "atk_1", "def_goalkeeper", LeftTop, LeftLow)
	if !goal.IsGoal {
		t.Fatalf("coin flip 0.3: expected a goal, got %+v", goal)
	}
	saved := NewKickedPenalty(&scriptRand{floats: []float64{0.5, 0.7}}, "atk_1", "def_goalkeeper", LeftTop, LeftLow)
	if saved.IsGoal || saved.IsOut {
		t.Fatalf("coin flip 0.7: expected a save, got %+v", saved)
	}
}

func TestGoalAndOutStayExclusive(t *testing.T) {
	t.Parallel()

	rng := NewRand(7)
	for i := 0; i < 500; i++ {
		p := NewAutoPenalty(rng, "atk_3", "def_goalkeeper")
		if p.IsGoal && p.IsOut {
			t.Fatalf("iteration %d: penalty both scored and out: %+v", i, p)
		}
	}
}

func TestParsePenaltyDirection(t *testing.T) {
	t.Parallel()

	for _, d := range AllPenaltyDirections {
		parsed, err := ParsePenaltyDirection(string(d))
		if err != nil {
			t.Fatalf("parse %s: %v", d, err)
		}
		if parsed != d {
			t.Fatalf("round trip %s: got %s", d, parsed)
		}
	}
	if _, err := ParsePenaltyDirection("top_bins"); err == nil {
		t.Fatal("expected an error for an unknown direction")
	}
}
