package dashboard

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Steps:       10,
		Time:        5.5,
		EventRate:   3,
		GraphSize:   4,
		MaxAgents:   8,
		Connections: 2,
		Kmax:        1,
		BinSizes:    []int{3, 1},
		MethodNames: [7]string{"Random", "Twitter_Suggest", "Agent", "Preferential_Agent", "Hashtag", "Retweet", "Followbacks"},
		MethodCount: [7]int{2, 0, 0, 0, 0, 0, 0},
		TypeNames:   []string{"human"},
		TypeCounts:  []int{4},
	}
}

func TestStatsViewOnUpdate(t *testing.T) {
	Convey("Given a StatsView fed one snapshot", t, func() {
		done := make(chan struct{})
		defer close(done)
		snapshots := make(chan Snapshot)
		sv := NewStatsView(done, snapshots)

		go func() { snapshots <- testSnapshot() }()
		ops := <-sv.Updates()

		Convey("Every scalar counter is rendered as textContent", func() {
			byID := map[string]string{}
			for _, op := range ops {
				byID[op.EleId] = op.Ops[0].Value
			}
			So(byID["stats-steps"], ShouldEqual, "10")
			So(byID["stats-time"], ShouldEqual, "5.50")
			So(byID["stats-event-rate"], ShouldEqual, "3")
			So(byID["stats-graph-size"], ShouldEqual, "4 / 8")
			So(byID["stats-connections"], ShouldEqual, "2")
			So(byID["stats-kmax"], ShouldEqual, "1")
			So(byID["stats-type-human"], ShouldEqual, "4")
			So(byID["stats-method-Random"], ShouldEqual, "2")
		})
	})
}

func TestStatsViewParse(t *testing.T) {
	Convey("Given a StatsView's template fragment", t, func() {
		sv := NewStatsView(make(chan struct{}), make(chan Snapshot))
		name, err := sv.Parse(newTestTemplate())
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "stats")
	})
}
