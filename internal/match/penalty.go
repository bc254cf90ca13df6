package match

import (
	"fmt"
	"strings"
)

// PenaltyDirection is one of the six goal zones a kick or dive can target:
// three horizontal thirds crossed with two heights.
type PenaltyDirection string

const (
	LeftTop   PenaltyDirection = "left_top"
	LeftLow   PenaltyDirection = "left_low"
	CenterTop PenaltyDirection = "center_top"
	CenterLow PenaltyDirection = "center_low"
	RightTop  PenaltyDirection = "right_top"
	RightLow  PenaltyDirection = "right_low"
)

// AllPenaltyDirections lists the six zones in a stable order.
var AllPenaltyDirections = []PenaltyDirection{
	LeftTop, LeftLow, CenterTop, CenterLow, RightTop, RightLow,
}

// ParsePenaltyDirection resolves a direction from its serialized form.
func ParsePenaltyDirection(s string) (PenaltyDirection, error) {
	for _, d := range AllPenaltyDirections {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown penalty direction %q", s)
}

// RandomPenaltyDirection draws one of the six zones uniformly.
func RandomPenaltyDirection(r Rand) PenaltyDirection {
	return AllPenaltyDirections[r.IntN(len(AllPenaltyDirections))]
}

// horizontal returns the left/center/right third of a direction.
func (d PenaltyDirection) horizontal() string {
	h, _, _ := strings.Cut(string(d), "_")
	return h
}

// kickErrorChance is the probability a kick goes wild regardless of where
// the goalkeeper dives.
const kickErrorChance = 0.10

// Penalty is a fully resolved penalty kick. Kicker and Goalkeeper are role
// placeholders ("atk_2", "def_goalkeeper"), resolved to real names by the
// action they attach to. IsGoal and IsOut are derived at construction and
// never both true.
type Penalty struct {
	Kicker     string           `json:"kicker"`
	Goalkeeper string           `json:"goalkeeper"`
	Kick       PenaltyDirection `json:"kick_direction"`
	Dive       PenaltyDirection `json:"dive_direction"`
	IsGoal     bool             `json:"is_goal"`
	IsOut      bool             `json:"is_out"`
}

// resolveKick decides a kick's outcome from the two chosen zones:
//   - with probability kickErrorChance the kick flies out, keeper irrelevant
//   - exact same zone: saved
//   - different horizontal third: goal
//   - same third, wrong height: coin flip
func resolveKick(r Rand, kick, dive PenaltyDirection) (isGoal, isOut bool) {
	if r.Float64() < kickErrorChance {
		return false, true
	}
	if kick == dive {
		return false, false
	}
	if kick.horizontal() != dive.horizontal() {
		return true, false
	}
	return r.Float64() < 0.5, false
}

// NewKickedPenalty resolves a penalty from the two chosen directions. The
// returned value is final; there is no pending state on the penalty itself.
func NewKickedPenalty(r Rand, kicker, goalkeeper string, kick, dive PenaltyDirection) Penalty {
	isGoal, isOut := resolveKick(r, kick, dive)
	return Penalty{
		Kicker:     kicker,
		Goalkeeper: goalkeeper,
		Kick:       kick,
		Dive:       dive,
		IsGoal:     isGoal,
		IsOut:      isOut,
	}
}

// NewAutoPenalty resolves a penalty with both directions drawn uniformly,
// used when no human picks for either side.
func NewAutoPenalty(r Rand, kicker, goalkeeper string) Penalty {
	kick := RandomPenaltyDirection(r)
	dive := RandomPenaltyDirection(r)
	return NewKickedPenalty(r, kicker, goalkeeper, kick, dive)
}
