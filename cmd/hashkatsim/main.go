// hashkatsim is the CLI entry point for the simulation driver (spec.md §2
// "Simulation S", SPEC_FULL.md §6): it parses the -config and -seed flags,
// builds the simulation from that config (output folder and termination
// bounds are config keys, not flags), runs until termination, and calls Dump
// on every action. Kept intentionally thin per spec.md's explicit non-goal of
// specifying a CLI surface.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"hashkat/config"
	"hashkat/simulation"
)

var (
	configPath *string
	seed       *int64
)

func init() {
	configPath = flag.String("config", "./config.yaml", "path to the YAML simulation config")
	seed = flag.Int64("seed", time.Now().UnixNano(), "RNG seed; defaults to the current time")
	flag.Parse()
}

func runApp() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	r := rand.New(rand.NewSource(*seed))

	sim, err := simulation.New(cfg, r)
	if err != nil {
		return err
	}

	if err := sim.Run(); err != nil {
		return err
	}

	return sim.Dump()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
