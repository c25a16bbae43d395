package dashboard

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/spf13/viper"

	"hashkat/addaction"
	"hashkat/config"
	"hashkat/engine"
	"hashkat/followaction"
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

const testYAML = `
hashkat:
  network: {max_agents: 8}
analysis: {max_time: 600000, follow_model: random}
rates: {add: {value: 1}}
agents:
  - name: human
    weights: {add: 1, follow: 1}
    rates: {follow: {function: constant, value: 1}}
`

func buildSimulation(seed int64, maxAgents int) (*engine.Engine, *graph.Graph, *followaction.FollowAction) {
	g := graph.New(maxAgents)
	cfg := storeFromYAML(testYAML)
	r := rand.New(rand.NewSource(seed))

	add := &addaction.AddAgent{}
	follow := &followaction.FollowAction{}

	e, err := engine.New(g, cfg, r, []engine.Action{add, follow})
	if err != nil {
		panic(err)
	}
	return e, g, follow
}

func TestCollect(t *testing.T) {
	Convey("Given a simulation run partway to capacity", t, func() {
		e, g, f := buildSimulation(1, 8)
		_ = e.Run(func(c *engine.Clock, gr *graph.Graph) bool {
			return gr.Size() >= 8
		})

		snap := Collect(e, g, f)

		Convey("Scalars mirror the live engine/graph state", func() {
			So(snap.Steps, ShouldEqual, e.Clock().Steps())
			So(snap.Time, ShouldEqual, e.Clock().Time())
			So(snap.GraphSize, ShouldEqual, g.Size())
			So(snap.MaxAgents, ShouldEqual, 8)
			So(snap.Connections, ShouldEqual, f.Connections())
			So(snap.Kmax, ShouldEqual, f.Kmax())
		})

		Convey("BinSizes sums to graph size", func() {
			total := 0
			for _, n := range snap.BinSizes {
				total += n
			}
			So(total, ShouldEqual, g.Size())
		})

		Convey("Type names/counts are parallel and declaration-ordered", func() {
			So(len(snap.TypeNames), ShouldEqual, len(snap.TypeCounts))
			So(snap.TypeNames, ShouldResemble, []string{"human"})
			So(snap.TypeCounts[0], ShouldEqual, g.Size())
		})

		Convey("Method names/counts are the fixed seven-slot arrays", func() {
			So(snap.MethodNames[0], ShouldEqual, "Random")
			total := 0
			for _, c := range snap.MethodCount {
				total += c
			}
			So(total, ShouldBeGreaterThan, 0)
		})
	})
}
