package agent

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

type Status int

const (
	Running Status = iota
	Reached
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Reached:
		return "reached"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// StepTrace is what happened in one step. EFE is the score of the chosen
// cell and is zero on a stall.
type StepTrace struct {
	From       maze.Position `json:"from"`
	To         maze.Position `json:"to"`
	EFE        float64       `json:"efe"`
	Candidates int           `json:"candidates"`
	Stalled    bool          `json:"stalled"`
}

// Result is the outcome of a run. Path starts at Start; Beliefs, when
// recorded, holds one snapshot per path entry.
type Result struct {
	Start   maze.Position
	Goal    maze.Position
	Path    []maze.Position
	Beliefs []*mat.Dense
	Trace   []StepTrace
	Status  Status
	Steps   int
}

func (r *Result) Reached() bool { return r.Status == Reached }

// Moves is the number of cell changes, stalls excluded.
func (r *Result) Moves() int {
	n := 0
	for i := 1; i < len(r.Path); i++ {
		if r.Path[i] != r.Path[i-1] {
			n++
		}
	}
	return n
}

func (r *Result) Final() maze.Position { return r.Path[len(r.Path)-1] }

// Agent owns one run: its policy engine, visit counts and history. It is not
// safe for concurrent use; parallel runs each build their own.
type Agent struct {
	grid    *maze.Grid
	start   maze.Position
	goal    maze.Position
	current maze.Position

	policy Policy
	visits *VisitCounts
	rng    *rand.Rand
	opts   Options
	logger *zap.Logger

	steps   int
	status  Status
	path    []maze.Position
	beliefs []*mat.Dense
	trace   []StepTrace
}

// NewPolicy builds the engine for opts.Variant. The active engine draws its
// initial weights from rng. Start and goal must be inside grid.
func NewPolicy(grid *maze.Grid, start, goal maze.Position, opts Options, rng *rand.Rand) (Policy, error) {
	switch opts.Variant {
	case Active:
		net, err := NewNetwork(opts.Network, rng)
		if err != nil {
			return nil, err
		}
		return NewActivePolicy(grid, start, goal, net, opts), nil
	case Reveal:
		return NewRevealPolicy(grid, start, goal, opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(opts.Variant))
}

// New validates the run parameters and builds an agent at start.
func New(grid *maze.Grid, start, goal maze.Position, opts Options, rng *rand.Rand) (*Agent, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkEndpoints(grid, start, goal); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(grid, start, goal, opts, rng)
	if err != nil {
		return nil, err
	}
	return NewWithPolicy(grid, start, goal, policy, opts, rng)
}

func checkEndpoints(grid *maze.Grid, start, goal maze.Position) error {
	if err := grid.CheckPosition(start); err != nil {
		return fmt.Errorf("%w: start: %w", ErrOutOfBounds, err)
	}
	if err := grid.CheckPosition(goal); err != nil {
		return fmt.Errorf("%w: goal: %w", ErrOutOfBounds, err)
	}
	return nil
}

// NewWithPolicy is New with a caller-supplied engine.
func NewWithPolicy(grid *maze.Grid, start, goal maze.Position, policy Policy, opts Options, rng *rand.Rand) (*Agent, error) {
	if err := checkEndpoints(grid, start, goal); err != nil {
		return nil, err
	}
	a := &Agent{
		grid:    grid,
		start:   start,
		goal:    goal,
		current: start,
		policy:  policy,
		visits:  NewVisitCounts(grid.Rows(), grid.Cols(), opts.VisitDecay),
		rng:     rng,
		opts:    opts,
		logger:  opts.logger().With(zap.String("policy", policy.Name())),
		path:    []maze.Position{start},
	}
	if opts.RecordBeliefs {
		a.beliefs = append(a.beliefs, policy.Snapshot())
	}
	if start == goal {
		a.status = Reached
	}
	return a, nil
}

func (a *Agent) Status() Status          { return a.status }
func (a *Agent) Position() maze.Position { return a.current }
func (a *Agent) Steps() int              { return a.steps }
func (a *Agent) Policy() Policy          { return a.policy }
func (a *Agent) Visits() *VisitCounts    { return a.visits }

// Step runs one sense, decide, move and learn cycle. It is a no-op once the
// run has terminated.
func (a *Agent) Step() Status {
	if a.status != Running {
		return a.status
	}

	a.policy.Perceive(a.current)
	d := a.policy.Act(a.current, a.visits)

	tr := StepTrace{From: a.current, Candidates: len(d.Candidates), Stalled: d.Stalled()}
	next := a.current
	if d.Stalled() {
		a.logger.Debug("stalled", zap.Stringer("pos", a.current))
	} else {
		next = d.Pdf.Choose(a.rng)
		tr.EFE = d.EFE(next)
	}
	tr.To = next

	a.visits.Record(next)
	a.current = next
	if l, ok := a.policy.(Learner); ok {
		l.Learn(next)
	}
	a.steps++

	a.path = append(a.path, next)
	if a.opts.RecordBeliefs {
		a.beliefs = append(a.beliefs, a.policy.Snapshot())
	}
	a.trace = append(a.trace, tr)
	a.logger.Debug("step",
		zap.Int("step", a.steps),
		zap.Stringer("to", next),
		zap.Float64("efe", tr.EFE),
		zap.Int("candidates", tr.Candidates))

	switch {
	case next == a.goal:
		a.status = Reached
	case a.steps >= a.opts.MaxSteps:
		a.status = Exhausted
	}
	return a.status
}

// Run steps until the goal is reached or the budget is spent.
func (a *Agent) Run() *Result {
	a.logger.Info("run started",
		zap.Stringer("start", a.start),
		zap.Stringer("goal", a.goal),
		zap.Int("budget", a.opts.MaxSteps))
	for a.Step() == Running {
	}
	res := a.Result()
	a.logger.Info("run finished",
		zap.Stringer("status", res.Status),
		zap.Int("steps", res.Steps),
		zap.Int("moves", res.Moves()))
	return res
}

// Result snapshots the history so far.
func (a *Agent) Result() *Result {
	return &Result{
		Start:   a.start,
		Goal:    a.goal,
		Path:    append([]maze.Position(nil), a.path...),
		Beliefs: append([]*mat.Dense(nil), a.beliefs...),
		Trace:   append([]StepTrace(nil), a.trace...),
		Status:  a.status,
		Steps:   a.steps,
	}
}

// Run builds an agent and runs it to termination.
func Run(grid *maze.Grid, start, goal maze.Position, opts Options, rng *rand.Rand) (*Result, error) {
	a, err := New(grid, start, goal, opts, rng)
	if err != nil {
		return nil, err
	}
	return a.Run(), nil
}
