package engine

import (
	"math/rand"
	"testing"

	"hashkat/config"
	"hashkat/graph"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeAction is a minimal Action used to exercise Engine without the real
// add/follow actions, so engine tests don't depend on followaction/addaction
// (which in turn depend on engine) — this breaks what would otherwise be an
// import cycle between the package under test and its tests' fixtures.
type fakeAction struct {
	Signals
	name       string
	weight     float64
	invokeFn   func(*fakeAction)
	invokes    int
	resetCalls int
}

func (f *fakeAction) Init(deps Deps) error { return nil }
func (f *fakeAction) PostInit()             {}
func (f *fakeAction) Reset() error {
	f.resetCalls++
	return nil
}
func (f *fakeAction) UpdateWeight() {}
func (f *fakeAction) Invoke() {
	f.invokes++
	if f.invokeFn != nil {
		f.invokeFn(f)
	} else {
		f.EmitFinished()
	}
}
func (f *fakeAction) Weight() float64         { return f.weight }
func (f *fakeAction) Dump(folder string) error { return nil }
func (f *fakeAction) Name() string             { return f.name }

func TestEngineStepDrawsByWeight(t *testing.T) {
	Convey("Given two actions, one with all the weight", t, func() {
		g := graph.New(10)
		cfg := config.New(nil)
		r := rand.New(rand.NewSource(1))

		zero := &fakeAction{name: "zero", weight: 0}
		all := &fakeAction{name: "all", weight: 1}

		e, err := New(g, cfg, r, []Action{zero, all})
		So(err, ShouldBeNil)

		Convey("Only the positive-weight action is ever invoked", func() {
			for i := 0; i < 50; i++ {
				So(e.Step(), ShouldBeNil)
			}
			So(zero.invokes, ShouldEqual, 0)
			So(all.invokes, ShouldEqual, 50)
		})
	})
}

func TestEngineNoActionWeight(t *testing.T) {
	Convey("Given every action has zero weight", t, func() {
		g := graph.New(10)
		cfg := config.New(nil)
		r := rand.New(rand.NewSource(1))

		a := &fakeAction{name: "a", weight: 0}
		b := &fakeAction{name: "b", weight: 0}
		e, err := New(g, cfg, r, []Action{a, b})
		So(err, ShouldBeNil)

		Convey("Step reports ErrNoAction", func() {
			err := e.Step()
			So(err, ShouldEqual, ErrNoAction)
		})

		Convey("Run terminates instead of spinning forever", func() {
			calls := 0
			err := e.Run(func(c *Clock, g *graph.Graph) bool {
				calls++
				return false
			})
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})
	})
}

func TestClockAdvancesOnFinished(t *testing.T) {
	Convey("Given an action that always succeeds", t, func() {
		g := graph.New(10)
		cfg := config.New(nil)
		r := rand.New(rand.NewSource(1))

		a := &fakeAction{name: "a", weight: 1, invokeFn: func(f *fakeAction) {
			f.EmitHappened()
			f.EmitFinished()
		}}
		e, err := New(g, cfg, r, []Action{a})
		So(err, ShouldBeNil)

		Convey("Deterministic mode advances time by 1/event_rate each step", func() {
			So(e.Step(), ShouldBeNil)
			So(e.Clock().Time(), ShouldEqual, 1.0)
			So(e.Clock().Steps(), ShouldEqual, 1)

			So(e.Step(), ShouldBeNil)
			So(e.Clock().Time(), ShouldEqual, 1.5)
			So(e.Clock().Steps(), ShouldEqual, 2)
		})
	})
}

func TestClockEventRateZeroDoesNotAdvanceTime(t *testing.T) {
	Convey("Given an action that only ever finishes without happening", t, func() {
		g := graph.New(10)
		cfg := config.New(nil)
		r := rand.New(rand.NewSource(1))

		a := &fakeAction{name: "a", weight: 1}
		e, err := New(g, cfg, r, []Action{a})
		So(err, ShouldBeNil)

		Convey("Time never advances, and no division by zero occurs", func() {
			for i := 0; i < 5; i++ {
				So(e.Step(), ShouldBeNil)
			}
			So(e.Clock().Time(), ShouldEqual, 0.0)
			So(e.Clock().Steps(), ShouldEqual, 5)
		})
	})
}

func TestEngineReset(t *testing.T) {
	Convey("Given an engine that has run a few steps", t, func() {
		g := graph.New(10)
		cfg := config.New(nil)
		r := rand.New(rand.NewSource(1))

		a := &fakeAction{name: "a", weight: 1, invokeFn: func(f *fakeAction) {
			f.EmitHappened()
			f.EmitFinished()
		}}
		e, _ := New(g, cfg, r, []Action{a})
		e.Step()
		e.Step()

		Convey("Reset zeroes the clock and calls Reset on every action", func() {
			So(e.Reset(), ShouldBeNil)
			So(e.Clock().Steps(), ShouldEqual, 0)
			So(e.Clock().Time(), ShouldEqual, 0.0)
			So(a.resetCalls, ShouldEqual, 1)
		})
	})
}
