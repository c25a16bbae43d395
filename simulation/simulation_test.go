package simulation

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/spf13/viper"

	"hashkat/config"

	. "github.com/smartystreets/goconvey/convey"
)

func storeFromYAML(yamlText string) *config.Store {
	vp := viper.New()
	vp.SetConfigType("yaml")
	if err := vp.ReadConfig(bytes.NewBufferString(yamlText)); err != nil {
		panic(err)
	}
	return config.New(vp)
}

const smallYAML = `
hashkat:
  network: {max_agents: 8}
analysis: {max_time: 600000, follow_model: random}
rates: {add: {value: 1}}
agents:
  - name: human
    weights: {add: 1, follow: 1}
    rates: {follow: {function: constant, value: 1}}
`

func TestSimulationRunsToAgentCapacity(t *testing.T) {
	Convey("Given a simulation whose termination bound is graph capacity", t, func() {
		cfg := storeFromYAML(smallYAML)
		sim, err := New(cfg, rand.New(rand.NewSource(1)))
		So(err, ShouldBeNil)

		So(sim.Run(), ShouldBeNil)

		Convey("The graph reaches max_agents", func() {
			So(sim.Graph().Size(), ShouldEqual, 8)
		})

		Convey("Dump succeeds against a temp folder", func() {
			cfg2 := storeFromYAML(smallYAML + "\noutput: {folder: " + t.TempDir() + "}\n")
			sim2, err := New(cfg2, rand.New(rand.NewSource(1)))
			So(err, ShouldBeNil)
			So(sim2.Run(), ShouldBeNil)
			So(sim2.Dump(), ShouldBeNil)
		})
	})
}

func TestSimulationRunStopsAtMaxTime(t *testing.T) {
	Convey("Given a simulation bounded by max_time instead of agent capacity", t, func() {
		cfg := storeFromYAML(`
hashkat:
  network: {max_agents: 100000}
analysis: {max_time: 5, follow_model: random}
rates: {add: {value: 1}}
agents:
  - name: human
    weights: {add: 1, follow: 1}
    rates: {follow: {function: constant, value: 1}}
`)
		sim, err := New(cfg, rand.New(rand.NewSource(2)))
		So(err, ShouldBeNil)
		So(sim.Run(), ShouldBeNil)

		Convey("The clock never exceeds the configured horizon by more than one step's worth", func() {
			So(sim.Engine().Clock().Time(), ShouldBeGreaterThanOrEqualTo, 5.0)
			So(sim.Engine().Clock().Time(), ShouldBeLessThan, 6.0)
			So(sim.Graph().Size(), ShouldBeLessThan, 100000)
		})
	})
}

func TestSimulationRunTerminatesWithNoDeclaredAgentTypes(t *testing.T) {
	Convey("Given no declared agent types and the default (unbounded) max_steps", t, func() {
		cfg := storeFromYAML(`
hashkat:
  network: {max_agents: 5}
analysis: {max_time: 600000, follow_model: random}
rates: {add: {value: 1}}
`)
		sim, err := New(cfg, rand.New(rand.NewSource(4)))
		So(err, ShouldBeNil)

		Convey("Run returns immediately instead of spinning forever", func() {
			So(sim.Run(), ShouldBeNil)
			So(sim.Graph().Size(), ShouldEqual, 0)
			So(sim.Engine().Clock().Steps(), ShouldEqual, 0)
		})
	})
}

func TestSimulationRunStopsAtMaxSteps(t *testing.T) {
	Convey("Given a simulation with an explicit max_steps bound", t, func() {
		cfg := storeFromYAML(`
hashkat:
  network: {max_agents: 100000}
analysis: {max_time: 600000, max_steps: 7, follow_model: random}
rates: {add: {value: 1}}
agents:
  - name: human
    weights: {add: 1, follow: 1}
    rates: {follow: {function: constant, value: 1}}
`)
		sim, err := New(cfg, rand.New(rand.NewSource(3)))
		So(err, ShouldBeNil)
		So(sim.Run(), ShouldBeNil)

		Convey("Exactly max_steps steps were taken", func() {
			So(sim.Engine().Clock().Steps(), ShouldEqual, 7)
		})
	})
}
