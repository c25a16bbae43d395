// Package agenttype implements the agent-type registry (spec.md §3/§4.3,
// "Agent-type Registry R"): an ordered list of type descriptors carrying
// add/follow weight and a monthly follow-weight schedule. It is grounded on
// the teacher's reinforcement.TrainingConfig/HyperParameter shape (a small
// typed slice decoded from YAML via mapstructure) generalized to the
// per-type rate schedule spec.md describes.
package agenttype

import "hashkat/config"

// FollowWeightFunc evaluates a type's monthly_follow_weight[m] schedule
// (spec.md §3: "optionally constant or affine").
type FollowWeightFunc func(month int) float64

// Constant returns a FollowWeightFunc with a fixed value for every month.
func Constant(value float64) FollowWeightFunc {
	return func(int) float64 { return value }
}

// Linear returns a FollowWeightFunc evaluating yIntercept + slope*month.
func Linear(yIntercept, slope float64) FollowWeightFunc {
	return func(month int) float64 { return yIntercept + slope*float64(month) }
}

// Type is one agent-type descriptor (spec.md §3 "AgentType").
type Type struct {
	Name                string
	AddWeight           float64
	FollowWeight        float64
	MonthlyFollowWeight FollowWeightFunc
	CareAboutRegion     bool
	CareAboutIdeology   bool
}

// Registry is the ordered list of declared agent types. Per spec.md §4.3,
// the registry is built by reading the config's "agents" subtree in reverse
// declaration order: index 0 holds the *last* declared type. Downstream
// reporting code must iterate the registry in reverse to recover declaration
// order (spec.md §9's "reverse-iteration dependency").
type Registry struct {
	types []Type
}

// Build constructs a Registry from the config's "agents" subtree, assigning
// indices in reverse declaration order.
func Build(cfg *config.Store) (*Registry, error) {
	agentConfigs, err := cfg.AgentConfigs()
	if err != nil {
		return nil, err
	}

	r := &Registry{types: make([]Type, 0, len(agentConfigs))}
	for i := len(agentConfigs) - 1; i >= 0; i-- {
		ac := agentConfigs[i]

		var weightFn FollowWeightFunc
		switch ac.Rates.Follow.Function {
		case "linear":
			weightFn = Linear(ac.Rates.Follow.YIntercept, ac.Rates.Follow.YSlope)
		default:
			weightFn = Constant(ac.Rates.Follow.Value)
		}

		r.types = append(r.types, Type{
			Name:                ac.Name,
			AddWeight:           ac.Weights.Add,
			FollowWeight:        ac.Weights.Follow,
			MonthlyFollowWeight: weightFn,
			CareAboutRegion:     ac.HashtagFollowOptions.CareAboutRegion,
			CareAboutIdeology:   ac.HashtagFollowOptions.CareAboutIdeology,
		})
	}
	return r, nil
}

// Len returns the number of declared types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}

// At returns the type at registry index i (reverse-declaration order).
func (r *Registry) At(i int) Type {
	return r.types[i]
}

// ForEachDeclared iterates types in original declaration order, i.e. in
// reverse of the registry's internal (reverse) build order. The dashboard's
// Collect uses it; followaction.Dump reaches the same order by walking At
// from Len()-1 down to 0.
func (r *Registry) ForEachDeclared(fn func(index int, t Type)) {
	if r == nil {
		return
	}
	for i := len(r.types) - 1; i >= 0; i-- {
		fn(i, r.types[i])
	}
}

// AddWeights returns the add_weight of every type, indexed by registry
// index (not declaration order) — the shape the add-agent action needs for
// weighted sampling.
func (r *Registry) AddWeights() []float64 {
	if r == nil {
		return nil
	}
	out := make([]float64, len(r.types))
	for i, t := range r.types {
		out[i] = t.AddWeight
	}
	return out
}
