// Package addaction implements the add-agent action A (spec.md §4.5): the
// engine.Action that grows the graph by one agent per invocation, chosen by
// add_weight among the declared agent types. It is grounded on the same
// action_base shape as followaction (_examples/original_source/include/
// hashkat/action_st.hpp) but kept deliberately small, matching spec.md's
// "external collaborator, summarized" framing of A.
package addaction

import (
	"math/rand"

	"hashkat/atomicfloat"
	"hashkat/engine"
	"hashkat/graph"
	"hashkat/rng"
)

// AddAgent is the engine.Action that grows the graph (spec.md §4.5).
type AddAgent struct {
	engine.Signals

	graph    *graph.Graph
	clock    *engine.Clock
	registry *engine.RegistryHolder
	rng      *rand.Rand

	rate *atomicfloat.Float64
}

// Init resolves the constant add rate from configuration (spec.md §4 table
// "rates.add.value") and retains its collaborators. Although spec.md §4.3
// says the agent-type registry is "built by F at init", the engine's fixed
// action order is {A, F} (spec.md §4.4) — A's Init in fact runs before F's.
// AddAgent only reads the registry lazily, at Invoke time, by which point
// both actions' Init calls have completed.
func (a *AddAgent) Init(deps engine.Deps) error {
	a.graph = deps.Graph
	a.clock = deps.Clock
	a.registry = deps.Registry
	a.rng = deps.Rng
	a.rate = atomicfloat.New(deps.Config.GetFloat64("rates.add.value", 1.0))
	return nil
}

// PostInit is a no-op: AddAgent carries no rate/weight/counter state beyond
// the constant add rate resolved at Init.
func (a *AddAgent) PostInit() {}

// Reset returns AddAgent to its post-init state.
func (a *AddAgent) Reset() error {
	a.PostInit()
	return nil
}

// UpdateWeight is a no-op: A's weight is the constant configured add rate.
func (a *AddAgent) UpdateWeight() {}

// Weight returns the constant add rate (spec.md §4 table "rates.add.value"),
// or 0 once the registry has no declared agent types to add (spec.md §8
// boundary: "Empty agent-type list: ... engine must not pick F" applies
// symmetrically to A — with nothing to add, A has nothing useful to do
// either, so the engine must not keep redrawing it forever).
func (a *AddAgent) Weight() float64 {
	if a.registry.Registry == nil || a.registry.Registry.Len() == 0 {
		return 0
	}
	return a.rate.Load()
}

// Invoke picks an agent type by add_weight and grows the graph (spec.md
// §4.5 do_action). On a full graph only finished is emitted.
func (a *AddAgent) Invoke() {
	reg := a.registry.Registry
	if reg.Len() == 0 {
		a.EmitFinished()
		return
	}

	t, ok := rng.SampleDiscrete(a.rng, reg.AddWeights())
	if !ok {
		a.EmitFinished()
		return
	}

	if _, grown := a.graph.Grow(a.clock.Time(), t); grown {
		a.EmitHappened()
	}
	a.EmitFinished()
}

// Name identifies the action for logging and reports.
func (a *AddAgent) Name() string { return "add_agent" }

// Dump is a no-op: A has no per-run statistics of its own to write; its
// effect is entirely visible through the graph and through F's reports.
func (a *AddAgent) Dump(folder string) error { return nil }
