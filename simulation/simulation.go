// Package simulation implements the thin driver spec.md §2 calls "Simulation
// S": constructs Graph/Registry/Engine from configuration, runs the event
// loop until the termination predicate holds, and dumps every action's
// reports. It optionally starts the dashboard live-monitoring server
// alongside the run (SPEC_FULL.md §6a).
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"hashkat/addaction"
	"hashkat/config"
	"hashkat/dashboard"
	"hashkat/engine"
	"hashkat/followaction"
	"hashkat/graph"
)

// Simulation owns the graph, engine, and the follow action, wired together
// from a config.Store (spec.md §2 "constructs the above from
// configuration").
type Simulation struct {
	graph  *graph.Graph
	engine *engine.Engine
	follow *followaction.FollowAction
	cfg    *config.Store

	maxTime   float64
	maxSteps  int
	maxAgents int

	outputFolder string
}

// New builds a Simulation from cfg and a shared RNG (spec.md §5: "RNG state
// is owned by the engine and passed by reference; no action may create
// independent RNGs" — the caller owns and seeds it).
func New(cfg *config.Store, r *rand.Rand) (*Simulation, error) {
	maxAgents := cfg.GetInt("hashkat.network.max_agents", 1000)
	g := graph.New(maxAgents)

	add := &addaction.AddAgent{}
	follow := &followaction.FollowAction{}

	e, err := engine.New(g, cfg, r, []engine.Action{add, follow})
	if err != nil {
		return nil, fmt.Errorf("simulation: new: %w", err)
	}

	return &Simulation{
		graph:        g,
		engine:       e,
		follow:       follow,
		cfg:          cfg,
		maxTime:      cfg.GetFloat64("analysis.max_time", 1000),
		maxSteps:     cfg.GetInt("analysis.max_steps", 0),
		maxAgents:    maxAgents,
		outputFolder: cfg.GetString("output.folder", "."),
	}, nil
}

// Engine, Graph, and FollowAction expose the driver's constructed
// collaborators so a caller can inspect the state of a run; Run itself
// passes them to dashboard.NewServer when the dashboard is enabled.
func (s *Simulation) Engine() *engine.Engine                   { return s.engine }
func (s *Simulation) Graph() *graph.Graph                      { return s.graph }
func (s *Simulation) FollowAction() *followaction.FollowAction { return s.follow }

// terminate implements spec.md §4.4's termination predicate: stop when
// time >= max_time, steps >= max_steps (if set: spec.md's config table
// does not list a max_steps key, so 0 — the zero value — means "no step
// bound", relying on max_time/max_agents alone, same as leaving it unset),
// or graph.Size >= max_agents.
func (s *Simulation) terminate(c *engine.Clock, g *graph.Graph) bool {
	if c.Time() >= s.maxTime {
		return true
	}
	if s.maxSteps > 0 && c.Steps() >= s.maxSteps {
		return true
	}
	return g.Size() >= s.maxAgents
}

// Run drives the engine until termination, optionally serving the
// dashboard alongside the run when output.dashboard is truthy
// (SPEC_FULL.md §6a). Dashboard failures are logged, not fatal: the
// dashboard only observes, so losing it must never abort a run.
func (s *Simulation) Run() error {
	if s.cfg.GetBool("output.dashboard", false) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		addr := s.cfg.GetString("output.dashboard_addr", ":8080")
		interval := time.Duration(s.cfg.GetInt("output.dashboard_interval_ms", 200)) * time.Millisecond
		srv := dashboard.NewServer(ctx, addr, s.engine, s.graph, s.follow, interval)
		go func() { _ = srv.Serve() }()
	}

	if err := s.engine.Run(s.terminate); err != nil {
		return fmt.Errorf("simulation: run: %w", err)
	}
	return nil
}

// Dump writes every action's report files to the configured output folder
// (spec.md §2 "then invokes dump() on each action").
func (s *Simulation) Dump() error {
	for _, a := range s.engine.Actions() {
		if err := a.Dump(s.outputFolder); err != nil {
			return fmt.Errorf("simulation: dump %s: %w", a.Name(), err)
		}
	}
	return nil
}
