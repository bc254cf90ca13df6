package match

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"matchday/internal/action"
)

// Errors callers are expected to branch on.
var (
	// ErrPenaltyPending means Advance was called while the current tick's
	// penalty is unresolved; resolve it with KickPenalty first.
	ErrPenaltyPending = errors.New("penalty pending, resolve it before advancing")

	// ErrNoPendingPenalty means KickPenalty was called with nothing to kick.
	ErrNoPendingPenalty = errors.New("no penalty pending")
)

// ActionSource supplies validated blueprints. Request enqueues without
// blocking; Get blocks until the blueprint matching the oldest request is
// ready, in strict FIFO pairing.
type ActionSource interface {
	Request(req action.Request)
	Get(ctx context.Context) (*action.Blueprint, error)
}

// Match is the simulation aggregate: the two teams, the clock, the ordered
// action history, and per-phase stoppage time. Match values are immutable;
// Advance and KickPenalty return new values and never mutate the receiver,
// so an old snapshot can be read (or replayed) at any point.
type Match struct {
	ID       uuid.UUID         `json:"id"`
	Teams    [2]Team           `json:"teams"`
	Time     Time              `json:"time"`
	Stadium  Stadium           `json:"stadium"`
	Referee  string            `json:"referee"`
	Actions  []Action          `json:"actions"`
	Stoppage map[Phase]float64 `json:"stoppage"`
	Finished bool              `json:"finished"`
	Config   Config            `json:"config"`

	source ActionSource
	rng    Rand
}

// New creates a match at kickoff (or at Config.StartFromPhase, minute 1).
func New(home, away Team, stadium Stadium, referee string, source ActionSource, cfg Config, rng Rand) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("match config: %w", err)
	}
	for _, t := range []Team{home, away} {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return &Match{
		ID:       uuid.New(),
		Teams:    [2]Team{home, away},
		Time:     Time{Phase: cfg.StartFromPhase, Minute: 1},
		Stadium:  stadium,
		Referee:  referee,
		Stoppage: make(map[Phase]float64),
		Config:   cfg,
		source:   source,
		rng:      rng,
	}, nil
}

// Resume reattaches the runtime collaborators to a deserialized match.
func (m *Match) Resume(source ActionSource, rng Rand) {
	m.source = source
	m.rng = rng
}

// clone returns a shallow copy with its own action slice and stoppage map,
// so appending never aliases an older snapshot.
func (m *Match) clone() *Match {
	next := *m
	next.Actions = make([]Action, len(m.Actions), len(m.Actions)+1)
	copy(next.Actions, m.Actions)
	next.Stoppage = make(map[Phase]float64, len(m.Stoppage))
	for phase, v := range m.Stoppage {
		next.Stoppage[phase] = v
	}
	return &next
}

// Home and Away return the two teams.
func (m *Match) Home() Team { return m.Teams[0] }
func (m *Match) Away() Team { return m.Teams[1] }

// Score returns goals scored so far by the home and away sides, counting
// every action in the history including the current tick's.
func (m *Match) Score() (home, away int) {
	for i := range m.Actions {
		a := &m.Actions[i]
		if a.IsGoal() {
			if a.TeamAtk == 0 {
				home++
			} else {
				away++
			}
		}
	}
	return home, away
}

// NoSpoilerScore returns the score excluding the current tick's action, so a
// display layer can show the score mid-narration without giving the outcome
// away.
func (m *Match) NoSpoilerScore() (home, away int) {
	current := m.currentActionIndex()
	for i := range m.Actions {
		if i == current {
			continue
		}
		a := &m.Actions[i]
		if a.IsGoal() {
			if a.TeamAtk == 0 {
				home++
			} else {
				away++
			}
		}
	}
	return home, away
}

func (m *Match) currentActionIndex() int {
	for i := range m.Actions {
		if m.Actions[i].Time == m.Time {
			return i
		}
	}
	return -1
}

// CurrentAction returns the action occurring at the current clock tick, or
// nil if the minute passed quietly.
func (m *Match) CurrentAction() *Action {
	if i := m.currentActionIndex(); i >= 0 {
		return &m.Actions[i]
	}
	return nil
}

// ActionsToNow returns the actions at or before the current clock tick.
func (m *Match) ActionsToNow() []Action {
	var out []Action
	for _, a := range m.Actions {
		if !m.Time.Before(a.Time) {
			out = append(out, a)
		}
	}
	return out
}

// StoppageMinutes returns the accrued stoppage time of a phase, rounded to
// whole minutes as a referee would announce it.
func (m *Match) StoppageMinutes(phase Phase) int {
	return int(math.Round(m.Stoppage[phase]))
}

// PenaltyPending reports whether the current tick's action awaits a kick.
// Advance refuses to run while this is true.
func (m *Match) PenaltyPending() bool {
	a := m.CurrentAction()
	return a != nil && a.IsPenaltyPending()
}

// PrefetchBlueprints enqueues n content requests with freshly drawn outcome
// types and VAR flags, warming the pipeline so narration content is ready
// before it is needed.
func (m *Match) PrefetchBlueprints(n int) {
	for i := 0; i < n; i++ {
		m.source.Request(action.Request{
			Outcome: m.drawOutcome(),
			UseVAR:  m.rng.Float64() < m.Config.VARProbability,
		})
	}
}

// drawOutcome picks an outcome type from the configured distribution.
// Weights follow the order of action.Outcomes.
func (m *Match) drawOutcome() action.Outcome {
	weights := []float64{
		m.Config.GoalProbability,
		m.Config.NoGoalProbability,
		m.Config.PenaltyProbability,
		m.Config.OwnGoalProbability,
	}
	u := m.rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if u < cumulative {
			return action.Outcomes[i]
		}
	}
	return action.Outcomes[len(action.Outcomes)-1]
}

// Advance plays one minute and returns the resulting match. It is the sole
// transition: depending on the new clock it runs a shootout kick, a phase
// transition, or a standard minute. It returns ErrPenaltyPending if the
// current action's penalty has not been kicked, and a fatal error if the
// action source cannot deliver a blueprint.
func (m *Match) Advance(ctx context.Context) (*Match, error) {
	if m.Finished {
		return m, nil
	}
	if m.PenaltyPending() {
		return nil, ErrPenaltyPending
	}

	next := m.clone()
	next.Time = next.Time.Add(1)

	switch {
	case next.Time.Phase == Penalties:
		if err := next.shootoutStep(); err != nil {
			return nil, err
		}
		return next, nil
	case next.Time.Expired(float64(next.StoppageMinutes(next.Time.Phase))):
		next.transitionPhase()
		return next, nil
	default:
		if err := next.standardMinute(ctx); err != nil {
			return nil, err
		}
		return next, nil
	}
}

// KickPenalty completes the current tick's pending penalty and returns the
// resulting match.
func (m *Match) KickPenalty(p Penalty) (*Match, error) {
	if !m.PenaltyPending() {
		return nil, ErrNoPendingPenalty
	}
	next := m.clone()
	i := next.currentActionIndex()
	next.Actions[i] = next.Actions[i].WithPenalty(p)
	return next, nil
}

// --------------------------------------------------------------------------
// Shootout
// --------------------------------------------------------------------------

// shootoutState describes where in the shootout the current kick falls. Each
// shootout "minute" is one kick; side 0 kicks on odd minutes.
type shootoutState struct {
	side        int
	kicksTaken  int // kicks completed by the side about to kick
	suddenDeath bool
}

func (m *Match) shootoutAt(minute int) shootoutState {
	taken := (minute - 1) / 2
	return shootoutState{
		side:        1 - minute%2,
		kicksTaken:  taken,
		suddenDeath: taken >= m.Config.PenaltyShootCount,
	}
}

// shootoutStep plays one shootout kick slot: it either finishes the match
// (mathematical elimination, or a decisive completed sudden-death pair) or
// appends a pending penalty action for the side due to kick.
func (m *Match) shootoutStep() error {
	st := m.shootoutAt(m.Time.Minute)
	home, away := m.Score()

	scoreKicking, scoreOther := home, away
	if st.side == 1 {
		scoreKicking, scoreOther = away, home
	}

	// The transition minute absorbs minute 1, so kicks land on minutes 2+
	// and side 1 opens every pair. Once regulation kicks are exhausted, a
	// completed decisive pair ends the shootout before the next one opens.
	if st.suddenDeath && st.side == 1 && home != away {
		m.Finished = true
		return nil
	}

	// A side that cannot catch up even by converting every remaining kick
	// has already lost.
	remaining := m.Config.PenaltyShootCount - st.kicksTaken
	if remaining < 1 {
		remaining = 1
	}
	if scoreKicking+remaining < scoreOther {
		m.Finished = true
		return nil
	}

	// Shootout kicks carry no narration content: an empty penalty blueprint
	// binds the players and waits for KickPenalty.
	bp := &action.Blueprint{Outcome: action.OutcomePenalty}
	a, err := bindAction(m.rng, bp, m.Time, st.side, m.Teams, m.Referee, m.Stadium)
	if err != nil {
		return err
	}
	m.Actions = append(m.Actions, a)
	return nil
}

// --------------------------------------------------------------------------
// Phase transitions
// --------------------------------------------------------------------------

// transitionPhase handles the end of a phase whose time (including stoppage)
// has expired.
func (m *Match) transitionPhase() {
	home, away := m.Score()
	tied := home == away

	switch m.Time.Phase {
	case FirstHalf:
		m.Time = Time{Phase: SecondHalf, Minute: 1}

	case SecondHalf:
		switch {
		case m.Config.TieBreaker == AllowTie:
			m.Finished = true
		case !tied:
			m.Finished = true
		case m.Config.TieBreaker == PenaltiesOnly:
			m.Time = Time{Phase: Penalties, Minute: 1}
		default:
			m.Time = Time{Phase: FirstExtraTime, Minute: 1}
		}

	case FirstExtraTime:
		m.Time = Time{Phase: SecondExtraTime, Minute: 1}

	case SecondExtraTime:
		if tied {
			m.Time = Time{Phase: Penalties, Minute: 1}
		} else {
			m.Finished = true
		}
	}
}

// --------------------------------------------------------------------------
// Standard minutes
// --------------------------------------------------------------------------

// standardMinute decides whether an action occurs this minute and, if so,
// obtains a blueprint, binds it, and accrues stoppage time.
func (m *Match) standardMinute(ctx context.Context) error {
	phase := m.Time.Phase
	stoppage := m.StoppageMinutes(phase)

	var actionPr float64
	switch {
	case m.Time.Minute >= phase.Duration():
		// Stoppage time plays tighter and busier.
		actionPr = m.Config.AddedTimeActionProbability
	case phase.IsExtraTime():
		actionPr = m.Config.ExtraTimeActionProbability
	default:
		actionPr = m.Config.StandardActionProbability
	}

	occurs := m.rng.Float64() < actionPr
	lastMinute := m.Time.Minute == phase.Duration()+stoppage

	// The final minute of a phase always produces an action: every half
	// ends with one last chance.
	if !occurs && !lastMinute {
		return nil
	}

	m.PrefetchBlueprints(1)
	bp, err := m.source.Get(ctx)
	if err != nil {
		return fmt.Errorf("obtain action blueprint: %w", err)
	}

	home, away := m.Score()
	var teamAtk int
	if lastMinute && home != away {
		// The forced last action goes to the trailing side.
		if away < home {
			teamAtk = 1
		}
	} else {
		if m.rng.Float64() <= 0.5 {
			teamAtk = 1
		}
	}

	// Stoppage accrues only for events strictly within nominal time.
	if m.Time.Minute <= phase.Duration() {
		switch bp.Outcome {
		case action.OutcomeGoal:
			m.Stoppage[phase] += uniformBetween(m.rng, m.Config.GoalStoppageMin, m.Config.GoalStoppageMax)
		case action.OutcomePenalty:
			m.Stoppage[phase] += uniformBetween(m.rng, m.Config.PenaltyStoppageMin, m.Config.PenaltyStoppageMax)
		}
		if bp.UseVAR {
			m.Stoppage[phase] += uniformBetween(m.rng, m.Config.VARStoppageMin, m.Config.VARStoppageMax)
		}
	}

	a, err := bindAction(m.rng, bp, m.Time, teamAtk, m.Teams, m.Referee, m.Stadium)
	if err != nil {
		return err
	}
	m.Actions = append(m.Actions, a)
	return nil
}
