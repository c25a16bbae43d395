// Package dashboard implements the optional live-monitoring viewer
// (SPEC_FULL.md §6a): a periodic snapshot of engine/graph/follow-action
// state, pushed to a browser over websocket using the same
// server/fastview plumbing the teacher uses for its grid-world viewer.
package dashboard

import (
	"hashkat/agenttype"
	"hashkat/engine"
	"hashkat/followaction"
	"hashkat/graph"
	"hashkat/report"
)

// Snapshot is the view-model pushed to every dashboard view: a point-in-time
// read of the simulation's clock, graph size, bin occupancy, and follow
// method attempt counters. It is deliberately flat and json-free of
// internal pointers so it can be read safely from the polling goroutine
// without racing the simulation loop (Collect takes a consistent read under
// no additional locking, same as the teacher's cell_views.Convert, which
// reads channel-delivered snapshots rather than live state).
type Snapshot struct {
	Steps       int
	Time        float64
	EventRate   int
	GraphSize   int
	MaxAgents   int
	Connections int
	Kmax        int
	BinSizes    []int
	MethodNames [7]string
	MethodCount [7]int
	TypeNames   []string
	TypeCounts  []int
}

// Collect reads the current state of the engine, graph, and follow action
// into a Snapshot. It is safe to call between simulation steps only: like
// the rest of this codebase, it assumes a single-threaded driver
// (spec.md §5's "single goroutine drives the engine"; the dashboard polls
// it from the same goroutine or a paused one, never concurrently).
func Collect(e *engine.Engine, g *graph.Graph, f *followaction.FollowAction) Snapshot {
	reg := e.Registry()
	typeNames := make([]string, 0, reg.Len())
	typeCounts := make([]int, 0, reg.Len())
	reg.ForEachDeclared(func(i int, t agenttype.Type) {
		typeNames = append(typeNames, t.Name)
		typeCounts = append(typeCounts, g.Count(i))
	})

	return Snapshot{
		Steps:       e.Clock().Steps(),
		Time:        e.Clock().Time(),
		EventRate:   e.Clock().EventRate(),
		GraphSize:   g.Size(),
		MaxAgents:   g.MaxSize(),
		Connections: f.Connections(),
		Kmax:        f.Kmax(),
		BinSizes:    f.BinSizes(),
		MethodNames: report.MethodNames,
		MethodCount: f.FollowModelCounts(),
		TypeNames:   typeNames,
		TypeCounts:  typeCounts,
	}
}
