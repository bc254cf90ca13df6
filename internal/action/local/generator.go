// Package local implements an offline narration generator drawing from a
// built-in template bank. It needs no network and always produces valid
// blueprints, which makes it the default for headless simulation and tests.
package local

import (
	"context"
	"fmt"
	randv2 "math/rand/v2"
	"sync"

	"matchday/internal/action"
)

// Generator picks narration variants from the template bank.
type Generator struct {
	mu  sync.Mutex
	rng *randv2.Rand
}

// NewGenerator creates a seeded template generator.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: randv2.New(randv2.NewPCG(seed, seed))}
}

// Generate assembles a blueprint from a random template variant. It never
// fails: the bank covers every outcome/VAR combination.
func (g *Generator) Generate(_ context.Context, req action.Request) (*action.Blueprint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	variants := templates[templateKey{req.Outcome, req.UseVAR}]
	if len(variants) == 0 {
		return nil, fmt.Errorf("no templates for outcome %s", req.Outcome)
	}
	v := variants[g.rng.IntN(len(variants))]

	evaluations := make(map[string]int, len(v.evaluations))
	for role, delta := range v.evaluations {
		evaluations[role] = delta
	}

	bp := &action.Blueprint{
		Outcome:          req.Outcome,
		UseVAR:           req.UseVAR,
		Phrases:          append([]string(nil), v.phrases...),
		PlayerEvaluation: evaluations,
	}
	if v.scorer != "" {
		scorer := v.scorer
		bp.Scorer = &scorer
	}
	if v.assist != "" {
		assist := v.assist
		bp.Assist = &assist
	}
	return bp, nil
}
