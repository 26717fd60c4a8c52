package scheduler

import (
	"math/rand"
	"time"
)

// Status is the solver's verdict for one (cohort, variant) attempt.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnknown    Status = "UNKNOWN"
)

// Solution is the outcome of one solve attempt: the status, and — when
// the status is OPTIMAL or FEASIBLE — every variable the solver set
// true, in the model's deterministic order.
type Solution struct {
	Status      Status
	Assignments []VarKey
}

// Accepted reports whether the solution can be written to the
// timetable store.
func (s Solution) Accepted() bool {
	return s.Status == StatusOptimal || s.Status == StatusFeasible
}

// Solver drives a backtracking search over a built Model within a
// wall-clock budget. There is no objective to optimize — a timetable
// either satisfies every hard constraint or it doesn't — so a
// completed search that finds an assignment reports OPTIMAL (the
// search space was fully pruned down to it, same as CP-SAT reports for
// a pure satisfaction model with no objective function); a completed
// search that finds nothing reports INFEASIBLE; a search that runs out
// of budget before either reports UNKNOWN.
type Solver struct {
	TimeBudget time.Duration
}

// NewSolver builds a Solver with the given per-solve wall-clock budget.
func NewSolver(budget time.Duration) *Solver {
	return &Solver{TimeBudget: budget}
}

// Solve runs the backtracking search against m using the given random
// seed and returns the resulting solution. The seed controls the order
// in which free variables are branched on, which is the primary lever
// the generation orchestrator uses to make the two timetable variants
// diverge; see AddDiversificationCut for the second lever, applied
// before Solve is called for the second variant.
func (s *Solver) Solve(m *Model, seed int64) Solution {
	budget := s.TimeBudget
	if budget <= 0 {
		budget = 30 * time.Second
	}
	return newSearch(m, seed, budget).run()
}

// AddDiversificationCut forbids the model from reproducing a previously
// accepted solution verbatim: at least minDifferent of the variables
// that were true in previousTrue must be false in the next solution.
// Called before solving the cohort's second variant so the two
// timetables are not identical whenever a distinct feasible solution
// exists; if none does, the second variant is simply reported
// infeasible rather than silently repeating the first.
func AddDiversificationCut(m *Model, previousTrue []VarKey, minDifferent int) {
	if len(previousTrue) == 0 || minDifferent <= 0 {
		return
	}

	ub := int64(len(previousTrue) - minDifferent)
	if ub < 0 {
		ub = 0
	}
	m.addConstraint(previousTrue, 0, ub)
}

// search is one backtracking attempt over a Model: a partial boolean
// assignment plus, per constraint, the running sum of its true
// variables and the count of its still-unassigned ones, so a candidate
// assignment can be pruned in constant time per touched constraint
// (bounds-consistency / forward-checking, the standard propagation for
// linear boolean constraints).
type search struct {
	m    *Model
	free []int // indices of variables the solver must branch on, in visiting order

	assign    []int8 // -1 unassigned, else 0/1; seeded with m.forced
	sums      []int64
	remaining []int

	deadline time.Time
	nodes    int
	timedOut bool
}

func newSearch(m *Model, seed int64, budget time.Duration) *search {
	n := len(m.Order)
	assign := make([]int8, n)
	free := make([]int, 0, n)
	for i, v := range m.forced {
		if v < 0 {
			assign[i] = -1
			free = append(free, i)
		} else {
			assign[i] = v
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	sums := make([]int64, len(m.constraints))
	remaining := make([]int, len(m.constraints))
	for ci, c := range m.constraints {
		remaining[ci] = len(c.varIdx)
		for _, idx := range c.varIdx {
			if assign[idx] >= 0 {
				remaining[ci]--
				sums[ci] += int64(assign[idx])
			}
		}
	}

	return &search{
		m:         m,
		free:      free,
		assign:    assign,
		sums:      sums,
		remaining: remaining,
		deadline:  time.Now().Add(budget),
	}
}

func (s *search) run() Solution {
	if !s.prefixFeasible() {
		return Solution{Status: StatusInfeasible}
	}
	if s.backtrack(0) {
		return Solution{Status: StatusOptimal, Assignments: s.collect()}
	}
	if s.timedOut {
		return Solution{Status: StatusUnknown}
	}
	return Solution{Status: StatusInfeasible}
}

// prefixFeasible checks the constraints against the forced assignment
// alone, before any branching — catches e.g. a subject whose only
// instructor is unavailable for enough hours to ever reach its
// weekly-hours lower bound.
func (s *search) prefixFeasible() bool {
	for ci, c := range s.m.constraints {
		if s.sums[ci] > c.ub {
			return false
		}
		if s.sums[ci]+int64(s.remaining[ci]) < c.lb {
			return false
		}
	}
	return true
}

const deadlineCheckEvery = 2048

func (s *search) backtrack(pos int) bool {
	s.nodes++
	if s.nodes%deadlineCheckEvery == 0 && time.Now().After(s.deadline) {
		s.timedOut = true
		return false
	}
	if pos == len(s.free) {
		return true
	}

	idx := s.free[pos]
	for _, v := range [2]int8{1, 0} {
		if s.tryAssign(idx, v) {
			if s.backtrack(pos + 1) {
				return true
			}
			s.undoAssign(idx, v)
		}
		if s.timedOut {
			return false
		}
	}
	return false
}

func (s *search) tryAssign(idx int, v int8) bool {
	for _, ci := range s.m.constraintsOf[idx] {
		c := &s.m.constraints[ci]
		newSum := s.sums[ci] + int64(v)
		newRemaining := s.remaining[ci] - 1
		if newSum > c.ub || newSum+int64(newRemaining) < c.lb {
			return false
		}
	}

	s.assign[idx] = v
	for _, ci := range s.m.constraintsOf[idx] {
		s.sums[ci] += int64(v)
		s.remaining[ci]--
	}
	return true
}

func (s *search) undoAssign(idx int, v int8) {
	s.assign[idx] = -1
	for _, ci := range s.m.constraintsOf[idx] {
		s.sums[ci] -= int64(v)
		s.remaining[ci]++
	}
}

func (s *search) collect() []VarKey {
	assignments := make([]VarKey, 0)
	for i, key := range s.m.Order {
		if s.assign[i] == 1 {
			assignments = append(assignments, key)
		}
	}
	return assignments
}
