package match

import (
	"context"
	"errors"
	"testing"

	"matchday/internal/action"
)

// scriptRand replays scripted draws, repeating the last scripted value once
// the script runs out. Empty scripts yield 0.99 floats (quiet minutes) and
// zero ints (identity shuffles).
type scriptRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	i := r.fi
	if i >= len(r.floats) {
		i = len(r.floats) - 1
	}
	r.fi++
	return r.floats[i]
}

func (r *scriptRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ii
	if i >= len(r.ints) {
		i = len(r.ints) - 1
	}
	r.ii++
	return r.ints[i] % n
}

// fakeSource hands out queued blueprints in order, falling back to a no-goal
// blueprint when the queue is empty.
type fakeSource struct {
	requests []action.Request
	queue    []*action.Blueprint
	err      error
}

func (s *fakeSource) Request(req action.Request) {
	s.requests = append(s.requests, req)
}

func (s *fakeSource) Get(ctx context.Context) (*action.Blueprint, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.queue) > 0 {
		bp := s.queue[0]
		s.queue = s.queue[1:]
		return bp, nil
	}
	return noGoalBlueprint(), nil
}

func noGoalBlueprint() *action.Blueprint {
	return &action.Blueprint{
		Outcome: action.OutcomeNoGoal,
		Phrases: []string{"{atk_1} fires over the bar at {stadium}."},
	}
}

func goalBlueprint() *action.Blueprint {
	scorer := "atk_1"
	assist := "atk_2"
	return &action.Blueprint{
		Outcome: action.OutcomeGoal,
		Phrases: []string{"{atk_2} threads it through for {atk_1}.", "{atk_1} beats {def_goalkeeper}!"},
		Scorer:  &scorer,
		Assist:  &assist,
	}
}

func penaltyBlueprint() *action.Blueprint {
	return &action.Blueprint{
		Outcome: action.OutcomePenalty,
		Phrases: []string{"{referee} points to the spot!"},
	}
}

func testTeams() (Team, Team) {
	home := Team{
		FullName: "Sporting Alpha", ShortName: "Alpha", Code: "ALP", Color: "red",
		Players: []string{"Keeper A", "A One", "A Two", "A Three", "A Four"},
	}
	away := Team{
		FullName: "Beta United", ShortName: "Beta", Code: "BET", Color: "blue",
		Players: []string{"Keeper B", "B One", "B Two", "B Three", "B Four"},
	}
	return home, away
}

// quietConfig never triggers probabilistic actions and accrues no stoppage,
// leaving only the forced last-minute action of each phase.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.StandardActionProbability = 0
	cfg.ExtraTimeActionProbability = 0
	cfg.AddedTimeActionProbability = 0
	cfg.VARProbability = 0
	cfg.GoalStoppageMin, cfg.GoalStoppageMax = 0, 0
	cfg.PenaltyStoppageMin, cfg.PenaltyStoppageMax = 0, 0
	cfg.VARStoppageMin, cfg.VARStoppageMax = 0, 0
	return cfg
}

func newTestMatch(t *testing.T, cfg Config, src ActionSource, rng Rand) *Match {
	t.Helper()
	home, away := testTeams()
	stadium := Stadium{Prefix: "Stadio", Name: "Collaudo", Capacity: 12000}
	m, err := New(home, away, stadium, "Sig. Arbitri", src, cfg, rng)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

// advance fails the test on error.
func advance(t *testing.T, m *Match) *Match {
	t.Helper()
	next, err := m.Advance(context.Background())
	if err != nil {
		t.Fatalf("advance from %s: %v", m.Time, err)
	}
	return next
}

func TestAllowTieFinishesAtSecondHalfEnd(t *testing.T) {
	t.Parallel()

	cfg := quietConfig()
	cfg.TieBreaker = AllowTie
	m := newTestMatch(t, cfg, &fakeSource{}, &scriptRand{})

	for i := 0; i < 200 && !m.Finished; i++ {
		m = advance(t, m)
	}

	if !m.Finished {
		t.Fatal("expected the match to finish")
	}
	if m.Time.Phase != SecondHalf {
		t.Fatalf("expected finish in %s, got %s", SecondHalf, m.Time.Phase)
	}
	if home, away := m.Score(); home != 0 || away != 0 {
		t.Fatalf("expected 0-0, got %d-%d", home, away)
	}
	// One forced action per half.
	if len(m.Actions) != 2 {
		t.Fatalf("expected 2 forced actions, got %d", len(m.Actions))
	}
}

func TestTiedMatchRunsExtraTimeThenShootout(t *testing.T) {
	t.Parallel()

	m := newTestMatch(t, quietConfig(), &fakeSource{}, &scriptRand{})

	seen := map[Phase]bool{}
	for i := 0; i < 300 && !m.Finished && !m.PenaltyPending(); i++ {
		m = advance(t, m)
		seen[m.Time.Phase] = true
	}

	for _, phase := range []Phase{FirstHalf, SecondHalf, FirstExtraTime, SecondExtraTime, Penalties} {
		if !seen[phase] {
			t.Fatalf("phase %s never reached", phase)
		}
	}
	if !m.PenaltyPending() {
		t.Fatal("expected a pending shootout kick")
	}
	if m.Time.Phase != Penalties {
		t.Fatalf("expected %s, got %s", Penalties, m.Time.Phase)
	}
}

func TestPenaltiesOnlySkipsExtraTime(t *testing.T) {
	t.Parallel()

	cfg := quietConfig()
	cfg.TieBreaker = PenaltiesOnly
	m := newTestMatch(t, cfg, &fakeSource{}, &scriptRand{})

	for i := 0; i < 200 && m.Time.Phase != Penalties; i++ {
		m = advance(t, m)
	}

	if m.Time.Phase != Penalties || m.Time.Minute != 1 {
		t.Fatalf("expected %s 1', got %s", Penalties, m.Time)
	}
	if m.PenaltyPending() {
		t.Fatal("transition minute must not carry a kick")
	}

	// The first kick slot opens on the next minute, taken by the away side.
	m = advance(t, m)
	a := m.CurrentAction()
	if a == nil || !a.IsPenaltyPending() {
		t.Fatal("expected a pending shootout kick")
	}
	if a.TeamAtk != 1 {
		t.Fatalf("expected the away side to open the shootout, got team %d", a.TeamAtk)
	}
}

func TestAdvanceBlocksOnPendingPenalty(t *testing.T) {
	t.Parallel()

	src := &fakeSource{queue: []*action.Blueprint{penaltyBlueprint()}}
	m := newTestMatch(t, quietConfig(), src, &scriptRand{})

	for i := 0; i < 60 && !m.PenaltyPending(); i++ {
		m = advance(t, m)
	}
	if !m.PenaltyPending() {
		t.Fatal("expected a pending penalty")
	}
	before := len(m.Actions)

	if _, err := m.Advance(context.Background()); !errors.Is(err, ErrPenaltyPending) {
		t.Fatalf("expected ErrPenaltyPending, got %v", err)
	}
	if len(m.Actions) != before {
		t.Fatal("failed advance must leave the state unchanged")
	}

	// Differing horizontal thirds with no wild kick always scores.
	p := NewKickedPenalty(&scriptRand{floats: []float64{0.5}}, "atk_2", action.RoleDefenseGoalkeeper, LeftLow, RightTop)
	next, err := m.KickPenalty(p)
	if err != nil {
		t.Fatalf("kick penalty: %v", err)
	}
	if home, away := next.Score(); home != 1 || away != 0 {
		t.Fatalf("expected 1-0 after the converted penalty, got %d-%d", home, away)
	}
	if next.PenaltyPending() {
		t.Fatal("penalty still pending after the kick")
	}
	if _, err := next.KickPenalty(p); !errors.Is(err, ErrNoPendingPenalty) {
		t.Fatalf("expected ErrNoPendingPenalty, got %v", err)
	}

	// The original snapshot is untouched.
	if !m.PenaltyPending() {
		t.Fatal("older snapshot must keep its pending penalty")
	}
}

func TestForcedLastActionGoesToTrailingSide(t *testing.T) {
	t.Parallel()

	// The first half's forced action is a home goal; the second half's
	// forced action must then go to the trailing away side.
	src := &fakeSource{queue: []*action.Blueprint{goalBlueprint()}}
	m := newTestMatch(t, quietConfig(), src, &scriptRand{})

	for i := 0; i < 200 && !m.Finished; i++ {
		m = advance(t, m)
	}

	if len(m.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(m.Actions))
	}
	if m.Actions[0].TeamAtk != 0 || !m.Actions[0].IsGoal() {
		t.Fatalf("expected an opening home goal, got %+v", m.Actions[0])
	}
	if m.Actions[1].TeamAtk != 1 {
		t.Fatalf("expected the trailing away side to get the last action, got team %d", m.Actions[1].TeamAtk)
	}
	// 1-0 is not a tie, so the match ends at the second half.
	if !m.Finished || m.Time.Phase != SecondHalf {
		t.Fatalf("expected a finished second half, got finished=%v at %s", m.Finished, m.Time)
	}
}

func TestStoppageAccrualExtendsPhase(t *testing.T) {
	t.Parallel()

	cfg := quietConfig()
	cfg.GoalStoppageMin, cfg.GoalStoppageMax = 1.0, 1.0
	cfg.VARStoppageMin, cfg.VARStoppageMax = 2.0, 2.0

	goalVAR := goalBlueprint()
	goalVAR.UseVAR = true
	src := &fakeSource{queue: []*action.Blueprint{goalVAR}}
	m := newTestMatch(t, cfg, src, &scriptRand{})

	// The forced minute-45 action is a goal with VAR, worth 3.0 minutes.
	for i := 0; i < 60 && len(m.Actions) == 0; i++ {
		m = advance(t, m)
	}
	if m.Time != (Time{Phase: FirstHalf, Minute: 45}) {
		t.Fatalf("expected the forced action at FIRST_HALF 45', got %s", m.Time)
	}
	if got := m.Stoppage[FirstHalf]; got != 3.0 {
		t.Fatalf("expected 3.0 stoppage minutes, got %v", got)
	}
	if got := m.StoppageMinutes(FirstHalf); got != 3 {
		t.Fatalf("expected 3 announced minutes, got %d", got)
	}

	// The half now runs to 45+3; the forced action repeats at 48 without
	// further accrual, and the transition lands on 49.
	for i := 0; i < 10 && m.Time.Phase == FirstHalf; i++ {
		m = advance(t, m)
	}
	if m.Time.Phase != SecondHalf {
		t.Fatalf("expected the second half, got %s", m.Time)
	}
	last := m.Actions[len(m.Actions)-1]
	if last.Time != (Time{Phase: FirstHalf, Minute: 48}) {
		t.Fatalf("expected the added-time action at FIRST_HALF 48', got %s", last.Time)
	}
	if got := m.Stoppage[FirstHalf]; got != 3.0 {
		t.Fatalf("added-time events must not accrue stoppage, got %v", got)
	}
}

func TestNoSpoilerScoreHidesCurrentAction(t *testing.T) {
	t.Parallel()

	src := &fakeSource{queue: []*action.Blueprint{goalBlueprint()}}
	m := newTestMatch(t, quietConfig(), src, &scriptRand{})

	for i := 0; i < 60 && len(m.Actions) == 0; i++ {
		m = advance(t, m)
	}

	if home, away := m.Score(); home != 1 || away != 0 {
		t.Fatalf("expected 1-0, got %d-%d", home, away)
	}
	if home, away := m.NoSpoilerScore(); home != 0 || away != 0 {
		t.Fatalf("expected the current goal hidden, got %d-%d", home, away)
	}
}

func TestAdvanceDoesNotMutateOlderSnapshots(t *testing.T) {
	t.Parallel()

	src := &fakeSource{queue: []*action.Blueprint{goalBlueprint()}}
	m := newTestMatch(t, quietConfig(), src, &scriptRand{})

	// 43 advances land on the quiet minute 44; the forced minute-45
	// action comes on the next call.
	for i := 0; i < 43; i++ {
		m = advance(t, m)
	}
	snapshot := m
	actionsBefore := len(snapshot.Actions)

	next := advance(t, m)
	if len(next.Actions) != actionsBefore+1 {
		t.Fatalf("expected a new action, got %d", len(next.Actions))
	}
	if len(snapshot.Actions) != actionsBefore {
		t.Fatal("older snapshot gained an action")
	}
	next.Stoppage[FirstHalf] += 10
	if snapshot.Stoppage[FirstHalf] == next.Stoppage[FirstHalf] {
		t.Fatal("stoppage map aliases the older snapshot")
	}
}

func TestPrefetchEnqueuesDrawnRequests(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	m := newTestMatch(t, DefaultConfig(), src, &scriptRand{floats: []float64{
		0.1, 0.99, // goal, no VAR
		0.5, 0.05, // no_goal, VAR
		0.95, 0.99, // penalty, no VAR
	}})

	m.PrefetchBlueprints(3)

	want := []action.Request{
		{Outcome: action.OutcomeGoal},
		{Outcome: action.OutcomeNoGoal, UseVAR: true},
		{Outcome: action.OutcomePenalty},
	}
	if len(src.requests) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(src.requests))
	}
	for i, req := range src.requests {
		if req != want[i] {
			t.Fatalf("request %d: expected %+v, got %+v", i, want[i], req)
		}
	}
}

// --------------------------------------------------------------------------
// Shootout
// --------------------------------------------------------------------------

// kickInShootout resolves the pending kick: a goal kicks into a different
// third than the dive, a miss kicks straight at the keeper.
func kickInShootout(t *testing.T, m *Match, goal bool) *Match {
	t.Helper()
	a := m.CurrentAction()
	if a == nil || !a.IsPenaltyPending() {
		t.Fatalf("no pending kick at %s", m.Time)
	}
	kick, dive := LeftLow, LeftLow
	if goal {
		dive = RightLow
	}
	p := NewKickedPenalty(&scriptRand{floats: []float64{0.5}}, "atk_1", action.RoleDefenseGoalkeeper, kick, dive)
	next, err := m.KickPenalty(p)
	if err != nil {
		t.Fatalf("kick at %s: %v", m.Time, err)
	}
	return next
}

// shootoutMatch drives a quiet penalties_only match to the shootout.
func shootoutMatch(t *testing.T, shootCount int) *Match {
	t.Helper()
	cfg := quietConfig()
	cfg.TieBreaker = PenaltiesOnly
	cfg.PenaltyShootCount = shootCount
	m := newTestMatch(t, cfg, &fakeSource{}, &scriptRand{})
	for i := 0; i < 200 && m.Time.Phase != Penalties; i++ {
		m = advance(t, m)
	}
	if m.Time.Phase != Penalties {
		t.Fatal("never reached the shootout")
	}
	return m
}

func TestShootoutMathematicalElimination(t *testing.T) {
	t.Parallel()

	m := shootoutMatch(t, 3)

	// Away misses twice, home converts twice. On the away side's third
	// slot 0 + max(3-2, 1) < 2 holds, so the match ends without a new kick.
	script := []bool{false, true, false, true}
	for _, goal := range script {
		m = advance(t, m)
		m = kickInShootout(t, m, goal)
	}
	kicksTaken := len(m.Actions)

	m = advance(t, m)
	if !m.Finished {
		t.Fatalf("expected elimination to finish the match at %s", m.Time)
	}
	if len(m.Actions) != kicksTaken {
		t.Fatal("elimination must not append another kick")
	}
	if home, away := m.Score(); home != 2 || away != 0 {
		t.Fatalf("expected 2-0, got %d-%d", home, away)
	}
}

func TestShootoutSuddenDeathEndsOnDecisivePair(t *testing.T) {
	t.Parallel()

	m := shootoutMatch(t, 1)

	// Regulation pair is converted by both sides, so the shootout goes to
	// sudden death. The first sudden-death pair splits goal/miss and the
	// match ends before the next pair opens.
	script := []bool{true, true, true, false}
	for _, goal := range script {
		m = advance(t, m)
		if m.Finished {
			t.Fatalf("match ended early at %s", m.Time)
		}
		m = kickInShootout(t, m, goal)
	}

	m = advance(t, m)
	if !m.Finished {
		t.Fatal("expected the decisive sudden-death pair to finish the match")
	}
	if home, away := m.Score(); home != 1 || away != 2 {
		t.Fatalf("expected 1-2, got %d-%d", home, away)
	}
}

func TestShootoutLevelSuddenDeathPairContinues(t *testing.T) {
	t.Parallel()

	m := shootoutMatch(t, 1)

	// Both sudden-death kicks convert, so another pair must open.
	script := []bool{true, true, true, true}
	for _, goal := range script {
		m = advance(t, m)
		m = kickInShootout(t, m, goal)
	}

	m = advance(t, m)
	if m.Finished {
		t.Fatal("level sudden-death pair must not finish the match")
	}
	if !m.PenaltyPending() {
		t.Fatal("expected the next pair's opening kick")
	}
}
