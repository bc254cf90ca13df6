package local

import (
	"context"
	"testing"

	"matchday/internal/action"
)

func TestEveryTemplateVariantValidates(t *testing.T) {
	t.Parallel()

	for key, variants := range templates {
		for i, v := range variants {
			bp := &action.Blueprint{
				Outcome:          key.outcome,
				UseVAR:           key.useVAR,
				Phrases:          v.phrases,
				PlayerEvaluation: v.evaluations,
			}
			if v.scorer != "" {
				scorer := v.scorer
				bp.Scorer = &scorer
			}
			if v.assist != "" {
				assist := v.assist
				bp.Assist = &assist
			}
			if err := bp.Validate(); err != nil {
				t.Errorf("template %s/var=%t variant %d: %v", key.outcome, key.useVAR, i, err)
			}
		}
	}
}

func TestBankCoversAllOutcomeCombinations(t *testing.T) {
	t.Parallel()

	for _, outcome := range []action.Outcome{
		action.OutcomeGoal,
		action.OutcomeNoGoal,
		action.OutcomeOwnGoal,
		action.OutcomePenalty,
	} {
		for _, useVAR := range []bool{false, true} {
			if len(templates[templateKey{outcome, useVAR}]) == 0 {
				t.Errorf("no variants for %s/var=%t", outcome, useVAR)
			}
		}
	}
}

func TestGenerateProducesValidBlueprints(t *testing.T) {
	t.Parallel()

	g := NewGenerator(42)
	for _, outcome := range []action.Outcome{
		action.OutcomeGoal,
		action.OutcomeNoGoal,
		action.OutcomeOwnGoal,
		action.OutcomePenalty,
	} {
		for _, useVAR := range []bool{false, true} {
			req := action.Request{Outcome: outcome, UseVAR: useVAR}
			for range 20 {
				bp, err := g.Generate(context.Background(), req)
				if err != nil {
					t.Fatalf("Generate(%s, var=%t): %v", outcome, useVAR, err)
				}
				if bp.Outcome != outcome {
					t.Fatalf("expected outcome %s, got %s", outcome, bp.Outcome)
				}
				if bp.UseVAR != useVAR {
					t.Fatalf("expected use_var %t, got %t", useVAR, bp.UseVAR)
				}
				if err := bp.Validate(); err != nil {
					t.Fatalf("generated blueprint invalid: %v", err)
				}
			}
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	req := action.Request{Outcome: action.OutcomeGoal}
	a, b := NewGenerator(7), NewGenerator(7)
	for i := range 10 {
		ba, err := a.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("generate a: %v", err)
		}
		bb, err := b.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("generate b: %v", err)
		}
		if ba.Phrases[0] != bb.Phrases[0] {
			t.Fatalf("draw %d: same seed diverged: %q vs %q", i, ba.Phrases[0], bb.Phrases[0])
		}
	}
}

func TestGenerateReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	g := NewGenerator(1)
	req := action.Request{Outcome: action.OutcomeGoal}

	bp, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	bp.Phrases[0] = "tampered"
	for role := range bp.PlayerEvaluation {
		bp.PlayerEvaluation[role] = 99
	}

	// The bank must be untouched by mutations of a returned blueprint.
	for range 50 {
		again, err := g.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if again.Phrases[0] == "tampered" {
			t.Fatal("returned phrases alias the template bank")
		}
		for _, delta := range again.PlayerEvaluation {
			if delta == 99 {
				t.Fatal("returned evaluations alias the template bank")
			}
		}
	}
}
