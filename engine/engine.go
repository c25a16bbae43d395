package engine

import (
	"fmt"
	"math/rand"

	"hashkat/agenttype"
	"hashkat/config"
	"hashkat/graph"
	"hashkat/rng"
)

// Engine owns the fixed action list, the virtual clock, and the shared RNG
// (spec.md §4.4). Actions are constructed and injected by the caller
// (simulation.Simulation) in the fixed order {AddAgent, FollowAction} that
// spec.md §4.4/§4.3 requires.
type Engine struct {
	graph    *graph.Graph
	cfg      *config.Store
	rng      *rand.Rand
	clock    *Clock
	registry *RegistryHolder
	actions  []Action
}

// New constructs an Engine wired to the given graph/config/rng, initializing
// every action in order: Init, subscribe happened/finished to the clock,
// then PostInit (spec.md §4.4).
func New(g *graph.Graph, cfg *config.Store, r *rand.Rand, actions []Action) (*Engine, error) {
	clock := NewClock(cfg.GetBool("hashkat.random_time_increment", false))
	holder := &RegistryHolder{}

	e := &Engine{
		graph:    g,
		cfg:      cfg,
		rng:      r,
		clock:    clock,
		registry: holder,
		actions:  actions,
	}

	deps := Deps{Graph: g, Config: cfg, Rng: r, Registry: holder, Clock: clock}

	for _, a := range e.actions {
		if err := a.Init(deps); err != nil {
			return nil, fmt.Errorf("engine: init %s: %w", a.Name(), err)
		}
		a.OnHappened(clock.IncrEventRate)
		a.OnFinished(func() { clock.AdvanceOnFinished(e.rng) })
	}
	for _, a := range e.actions {
		a.PostInit()
	}

	return e, nil
}

// Clock returns the engine's virtual clock.
func (e *Engine) Clock() *Clock { return e.clock }

// Registry returns the agent-type registry built by the follow action's
// Init, or nil before Engine construction completes.
func (e *Engine) Registry() *agenttype.Registry { return e.registry.Registry }

// Actions returns the engine's action list in fixed order.
func (e *Engine) Actions() []Action { return e.actions }

// ErrNoAction is returned by Step when every action's weight is
// non-positive, so no action could be drawn (spec.md §8 boundary: "Empty
// agent-type list: F's weight is 0; engine must not pick F").
var ErrNoAction = fmt.Errorf("engine: no action has positive weight")

// Step performs one iteration of the event loop (spec.md §4.4): ask every
// action for its current weight, draw one by discrete distribution, and
// invoke it.
func (e *Engine) Step() error {
	weights := make([]float64, len(e.actions))
	for i, a := range e.actions {
		a.UpdateWeight()
		weights[i] = a.Weight()
	}

	idx, ok := rng.SampleDiscrete(e.rng, weights)
	if !ok {
		return ErrNoAction
	}

	e.actions[idx].Invoke()
	return nil
}

// TerminatePredicate reports whether the simulation should stop, given the
// current clock and graph state (spec.md §4.4 "Termination predicate").
type TerminatePredicate func(c *Clock, g *graph.Graph) bool

// Run steps the engine until terminate reports true or no action has a
// positive weight (spec.md §8 boundary: "Empty agent-type list: ... engine
// must not pick F" — with every action's weight at zero there is nothing
// correct to draw, so Run stops rather than spin without ever advancing the
// clock).
func (e *Engine) Run(terminate TerminatePredicate) error {
	for !terminate(e.clock, e.graph) {
		if err := e.Step(); err != nil {
			if err == ErrNoAction {
				return nil
			}
			return err
		}
	}
	return nil
}

// Reset returns every action and the clock to their post-init state, then
// calls PostInit on each action again (spec.md §4.2 "reset()").
func (e *Engine) Reset() error {
	e.clock.Reset()
	for _, a := range e.actions {
		if err := a.Reset(); err != nil {
			return fmt.Errorf("engine: reset %s: %w", a.Name(), err)
		}
	}
	return nil
}
