package dashboard

import (
	"fmt"
	"html/template"

	"hashkat/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// StatsView renders the engine's scalar counters (steps, time, event rate,
// graph size, connections) as a simple key/value table, updated in place by
// id. Grounded on cell_views.ValueFunction's Updates()/Parse() shape, but
// without the svg projection machinery: these are plain text fields, not a
// 2D surface.
type StatsView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewStatsView builds a StatsView fed by the given Snapshot channel.
func NewStatsView(done <-chan struct{}, snapshots <-chan Snapshot) *StatsView {
	sv := &StatsView{id: "stats"}
	sv.updates = channerics.Convert(done, snapshots, sv.onUpdate)
	return sv
}

// Updates returns the channel of element updates for this view.
func (sv *StatsView) Updates() <-chan []fastview.EleUpdate {
	return sv.updates
}

func (sv *StatsView) onUpdate(s Snapshot) []fastview.EleUpdate {
	set := func(eleID, value string) fastview.EleUpdate {
		return fastview.EleUpdate{EleId: eleID, Ops: []fastview.Op{{Key: "textContent", Value: value}}}
	}

	updates := []fastview.EleUpdate{
		set("stats-steps", fmt.Sprintf("%d", s.Steps)),
		set("stats-time", fmt.Sprintf("%.2f", s.Time)),
		set("stats-event-rate", fmt.Sprintf("%d", s.EventRate)),
		set("stats-graph-size", fmt.Sprintf("%d / %d", s.GraphSize, s.MaxAgents)),
		set("stats-connections", fmt.Sprintf("%d", s.Connections)),
		set("stats-kmax", fmt.Sprintf("%d", s.Kmax)),
	}
	for i, name := range s.TypeNames {
		updates = append(updates, set("stats-type-"+name, fmt.Sprintf("%d", s.TypeCounts[i])))
	}
	for i, name := range s.MethodNames {
		updates = append(updates, set("stats-method-"+name, fmt.Sprintf("%d", s.MethodCount[i])))
	}
	return updates
}

// Parse defines the view's template fragment and returns its name. The
// fragment is executed against an initial Snapshot (the same shared "."
// data every view in the dashboard's ViewBuilder receives), so per-type and
// per-method row ids are generated up front and later found by onUpdate's
// getElementById lookups.
func (sv *StatsView) Parse(t *template.Template) (name string, err error) {
	name = sv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
	<div id="` + sv.id + `" style="font-family:monospace; padding:20px;">
		<table>
			<tr><td>steps</td><td id="stats-steps">0</td></tr>
			<tr><td>time</td><td id="stats-time">0</td></tr>
			<tr><td>event_rate</td><td id="stats-event-rate">0</td></tr>
			<tr><td>agents</td><td id="stats-graph-size">0 / 0</td></tr>
			<tr><td>connections</td><td id="stats-connections">0</td></tr>
			<tr><td>kmax</td><td id="stats-kmax">0</td></tr>
			{{ $root := . }}
			{{ range $i, $n := .TypeNames }}
			<tr><td>{{ $n }}</td><td id="stats-type-{{ $n }}">{{ index $root.TypeCounts $i }}</td></tr>
			{{ end }}
			{{ range $i, $n := .MethodNames }}
			<tr><td>{{ $n }}</td><td id="stats-method-{{ $n }}">{{ index $root.MethodCount $i }}</td></tr>
			{{ end }}
		</table>
	</div>
	{{ end }}`)
	return
}
