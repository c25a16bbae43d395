// Package engine implements the event loop (spec.md §2/§4.4, "Engine E"):
// a virtual clock and a fixed ordered list of actions, each chosen by
// weighted random draw at every step. It is grounded directly on the
// original engine_mt/action_base C++ templates in
// _examples/original_source/include/engine_mt.hpp and
// include/hashkat/action_st.hpp: the five action_base operations
// (init/post_init/reset/update_weight/operator()) become the Action
// interface below, and engine_mt's fixed action_depot, weighted draw, and
// happened/finished wiring become Engine.
package engine

import (
	"math/rand"

	"hashkat/agenttype"
	"hashkat/config"
	"hashkat/graph"
)

// Action is the capability set every action in the engine's action list
// must implement (spec.md §9 "Static polymorphism over actions": re-expressed
// here as a Go interface rather than a template parameter pack).
type Action interface {
	// Init resolves configuration and subscribes to any upstream signals.
	Init(deps Deps) error
	// PostInit zeroes rate/weight/counters after Init (and after Reset).
	PostInit()
	// Reset clears accumulated state and calls PostInit.
	Reset() error
	// UpdateWeight recomputes the action's current selection weight.
	UpdateWeight()
	// Invoke performs the action's body (the "do_action"/operator() step).
	Invoke()
	// Weight returns the action's current (cached) selection weight.
	Weight() float64
	// Dump writes the action's report files to folder.
	Dump(folder string) error
	// Name identifies the action for logging/printing.
	Name() string
	// OnHappened/OnFinished register handlers invoked synchronously when the
	// action emits its "happened" (had an observable effect) or "finished"
	// (always, exactly once per Invoke) signal.
	OnHappened(fn func())
	OnFinished(fn func())
}

// RegistryHolder is the indirection by which the agent-type registry, built
// by FollowAction.Init (spec.md §4.3: "Built by F at init"), becomes visible
// to the AddAgent action without either action depending on the other.
// Engine owns the holder (spec.md §3 "R is owned by E and borrowed by F and
// A"); every action's Deps carries the same holder pointer.
type RegistryHolder struct {
	Registry *agenttype.Registry
}

// Deps bundles the collaborators every action's Init needs: the graph, the
// config store, the shared RNG (owned by the engine and passed by
// reference, spec.md §5), the registry holder actions share, and the clock
// they read simulated time from.
type Deps struct {
	Graph    *graph.Graph
	Config   *config.Store
	Rng      *rand.Rand
	Registry *RegistryHolder
	Clock    *Clock
}

// Signals is an embeddable helper implementing OnHappened/OnFinished and
// their emission, shared by every concrete Action.
type Signals struct {
	happened []func()
	finished []func()
}

func (s *Signals) OnHappened(fn func()) { s.happened = append(s.happened, fn) }
func (s *Signals) OnFinished(fn func()) { s.finished = append(s.finished, fn) }

// EmitHappened invokes every happened handler in registration order.
func (s *Signals) EmitHappened() {
	for _, fn := range s.happened {
		fn()
	}
}

// EmitFinished invokes every finished handler in registration order.
func (s *Signals) EmitFinished() {
	for _, fn := range s.finished {
		fn()
	}
}
