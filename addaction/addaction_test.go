package addaction

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/spf13/viper"

	"hashkat/agenttype"
	"hashkat/config"
	"hashkat/engine"
	"hashkat/graph"

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

func TestAddAgentGrowsGraph(t *testing.T) {
	Convey("Given an AddAgent wired to a graph with two agent types", t, func() {
		g := graph.New(10)
		cfg := storeFromYAML(`
rates:
  add:
    value: 2.0
agents:
  - name: bot
    weights: {add: 1, follow: 1}
  - name: human
    weights: {add: 3, follow: 1}
`)
		reg, err := agenttype.Build(cfg)
		So(err, ShouldBeNil)

		r := rand.New(rand.NewSource(7))
		clock := engine.NewClock(false)
		holder := &engine.RegistryHolder{Registry: reg}

		a := &AddAgent{}
		So(a.Init(engine.Deps{Graph: g, Config: cfg, Rng: r, Registry: holder, Clock: clock}), ShouldBeNil)

		Convey("Weight is the constant configured add rate", func() {
			So(a.Weight(), ShouldEqual, 2.0)
		})

		Convey("Invoke grows the graph by exactly one agent and emits happened+finished", func() {
			happened, finished := 0, 0
			a.OnHappened(func() { happened++ })
			a.OnFinished(func() { finished++ })

			a.Invoke()

			So(g.Size(), ShouldEqual, 1)
			So(happened, ShouldEqual, 1)
			So(finished, ShouldEqual, 1)
		})

		Convey("Once the graph is full, only finished fires", func() {
			full := graph.New(0)
			a2 := &AddAgent{}
			So(a2.Init(engine.Deps{Graph: full, Config: cfg, Rng: r, Registry: holder, Clock: clock}), ShouldBeNil)

			happened, finished := 0, 0
			a2.OnHappened(func() { happened++ })
			a2.OnFinished(func() { finished++ })

			a2.Invoke()

			So(happened, ShouldEqual, 0)
			So(finished, ShouldEqual, 1)
		})
	})
}

func TestAddAgentEmptyRegistry(t *testing.T) {
	Convey("Given no declared agent types", t, func() {
		g := graph.New(10)
		cfg := storeFromYAML(`rates: {add: {value: 1}}`)
		r := rand.New(rand.NewSource(1))
		clock := engine.NewClock(false)
		holder := &engine.RegistryHolder{Registry: &agenttype.Registry{}}

		a := &AddAgent{}
		So(a.Init(engine.Deps{Graph: g, Config: cfg, Rng: r, Registry: holder, Clock: clock}), ShouldBeNil)

		Convey("Weight is zero: there is nothing to add", func() {
			So(a.Weight(), ShouldEqual, 0)
		})

		Convey("Invoke emits only finished and does not grow the graph", func() {
			finished := 0
			a.OnFinished(func() { finished++ })
			a.Invoke()
			So(g.Size(), ShouldEqual, 0)
			So(finished, ShouldEqual, 1)
		})
	})
}
