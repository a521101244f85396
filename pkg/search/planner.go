package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"trajplan/pkg/dynamics"
	"trajplan/pkg/logging"
	"trajplan/pkg/tracker"
)

var (
	// ErrNoPath is returned when the frontier runs dry before a goal is reached.
	ErrNoPath = errors.New("no path found")
	// ErrBudgetExhausted is returned when the expansion budget is spent.
	ErrBudgetExhausted = errors.New("expansion budget exhausted")
)

// Oracle supplies step costs, heuristic estimates and feasibility checks.
type Oracle interface {
	Cost(from, to *Node) float64
	Heuristic(n, goal *Node) float64
	Feasible(from, to *Node) bool
}

// Result is the outcome of a planning run.
type Result struct {
	Found     bool
	Goal      *Node
	Path      []*Node
	Cost      float64
	Expanded  int
	Generated int
	Pruned    int
	Revisited int
	Relaxed   int
}

// Options defines parameters for the planner.
type Options struct {
	MaxExpansions int // 0 means unbounded
	Logger        *slog.Logger
	Tracker       *tracker.Tracker
	RunLabel      string
}

// Option modifies Options.
type Option func(*Options)

// WithMaxExpansions bounds the number of node expansions.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithLogger sets the planner logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithTracker records run statistics under label.
func WithTracker(t *tracker.Tracker, label string) Option {
	return func(o *Options) {
		o.Tracker = t
		o.RunLabel = label
	}
}

// Planner runs A* over the tree produced by repeated expansion.
type Planner struct {
	arena   *Arena
	actions dynamics.ActionSet
	oracle  Oracle
	keyer   Keyer
	opts    Options
}

// NewPlanner wires a planner. The arena must be empty; Plan creates the root.
func NewPlanner(arena *Arena, actions dynamics.ActionSet, oracle Oracle, keyer Keyer, opts ...Option) (*Planner, error) {
	if arena == nil || oracle == nil || keyer == nil {
		return nil, fmt.Errorf("%w: arena, oracle and keyer are required", ErrInvalidConfig)
	}
	if err := actions.Validate(); err != nil {
		return nil, fmt.Errorf("new planner: %w", err)
	}

	o := Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxExpansions < 0 {
		return nil, fmt.Errorf("%w: max expansions must not be negative", ErrInvalidConfig)
	}

	return &Planner{
		arena:   arena,
		actions: actions,
		oracle:  oracle,
		keyer:   keyer,
		opts:    o,
	}, nil
}

// Arena returns the arena the planner populates.
func (p *Planner) Arena() *Arena {
	return p.arena
}

// Plan searches for a path from start into the goal neighborhood.
// The returned result carries the counters even when an error is returned.
func (p *Planner) Plan(ctx context.Context, start, goal State) (*Result, error) {
	res := &Result{}

	root, err := p.arena.Root(start)
	if err != nil {
		return res, fmt.Errorf("plan: %w", err)
	}
	goalNode, err := NewNode(NoParent, 0, goal)
	if err != nil {
		return res, fmt.Errorf("plan: goal: %w", err)
	}
	if err := root.SetCost(0, p.oracle.Heuristic(root, goalNode)); err != nil {
		return res, fmt.Errorf("plan: root cost: %w", err)
	}
	rootKey, err := p.keyer.Key(root.State)
	if err != nil {
		return res, fmt.Errorf("plan: %w", err)
	}

	frontier := NewFrontier()
	frontier.Push(root)
	open := map[string]*Node{rootKey: root}
	closed := make(map[string]bool)

	logger := p.opts.Logger
	logger.Debug("Planning started", "start", root, "goal_x", goal.X, "goal_y", goal.Y, "actions", p.actions.Size())

	for frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cur := frontier.Pop()
		key, err := p.keyer.Key(cur.State)
		if err != nil {
			return res, fmt.Errorf("plan: %w", err)
		}
		if open[key] == cur {
			delete(open, key)
		}
		if closed[key] {
			res.Revisited++
			p.track(func(t *tracker.Tracker) { t.TrackRevisited(p.opts.RunLabel, 1) })
			continue
		}

		if cur.IsGoal(goalNode) {
			res.Found = true
			res.Goal = cur
			res.Path = p.arena.Path(cur)
			res.Cost = cur.G
			logger.Debug("Goal reached", "node", cur, "expanded", res.Expanded)
			return res, nil
		}
		closed[key] = true

		if p.opts.MaxExpansions > 0 && res.Expanded >= p.opts.MaxExpansions {
			return res, fmt.Errorf("plan: %w after %d expansions", ErrBudgetExhausted, res.Expanded)
		}

		children, err := p.arena.Expand(cur, p.actions)
		if err != nil {
			return res, fmt.Errorf("plan: %w", err)
		}
		res.Expanded++
		res.Generated += len(children)
		p.track(func(t *tracker.Tracker) {
			t.TrackExpanded(p.opts.RunLabel)
			t.TrackGenerated(p.opts.RunLabel, len(children))
		})
		logging.Trace(logger, "Expanded node", "node", cur, "children", len(children), "open", frontier.Len())

		if len(children) == 0 {
			logger.Debug("Dead end", "node", cur)
			continue
		}

		if err := p.push(cur, children, goalNode, frontier, open, closed, res); err != nil {
			return res, err
		}
	}

	return res, ErrNoPath
}

// push scores the children of cur and queues the feasible ones. A child
// landing in a cell that already has an open node replaces it only when it
// is cheaper.
func (p *Planner) push(cur *Node, children []*Node, goal *Node, frontier *Frontier, open map[string]*Node, closed map[string]bool, res *Result) error {
	for _, c := range children {
		if !p.oracle.Feasible(cur, c) {
			res.Pruned++
			p.track(func(t *tracker.Tracker) { t.TrackPruned(p.opts.RunLabel, 1) })
			continue
		}

		key, err := p.keyer.Key(c.State)
		if err != nil {
			return fmt.Errorf("plan: %w", err)
		}
		if closed[key] {
			res.Revisited++
			p.track(func(t *tracker.Tracker) { t.TrackRevisited(p.opts.RunLabel, 1) })
			continue
		}

		g := cur.G + p.oracle.Cost(cur, c)
		h := p.oracle.Heuristic(c, goal)
		if err := c.SetCost(g, h); err != nil {
			return fmt.Errorf("plan: score node %d: %w", c.Index, err)
		}

		if existing, ok := open[key]; ok {
			if c.G >= existing.G {
				res.Revisited++
				p.track(func(t *tracker.Tracker) { t.TrackRevisited(p.opts.RunLabel, 1) })
				continue
			}
			frontier.Remove(existing)
			res.Relaxed++
			p.track(func(t *tracker.Tracker) { t.TrackRelaxed(p.opts.RunLabel) })
		}

		open[key] = c
		frontier.Push(c)
	}
	return nil
}

func (p *Planner) track(fn func(t *tracker.Tracker)) {
	if p.opts.Tracker != nil {
		fn(p.opts.Tracker)
	}
}
