package dashboard

import (
	"fmt"
	"html/template"

	"hashkat/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

const (
	barWidth  = 24
	barGap    = 4
	maxHeight = 200.0
)

// BinHistogramView renders the degree-bin occupancy (followaction.BinSizes)
// as a row of svg bars, one per bin, scaled to the largest bin's
// population. Grounded on cell_views.ValueFunction's svg-polygon rendering,
// simplified from an isometric surface to upright bars since a 1D histogram
// needs no projection.
type BinHistogramView struct {
	id      string
	updates <-chan []fastview.EleUpdate
}

// NewBinHistogramView builds a BinHistogramView fed by the given Snapshot channel.
func NewBinHistogramView(done <-chan struct{}, snapshots <-chan Snapshot) *BinHistogramView {
	bv := &BinHistogramView{id: "bin-histogram"}
	bv.updates = channerics.Convert(done, snapshots, bv.onUpdate)
	return bv
}

// Updates returns the channel of element updates for this view.
func (bv *BinHistogramView) Updates() <-chan []fastview.EleUpdate {
	return bv.updates
}

func (bv *BinHistogramView) onUpdate(s Snapshot) (ops []fastview.EleUpdate) {
	maxBin := 0
	for _, n := range s.BinSizes {
		if n > maxBin {
			maxBin = n
		}
	}

	for k, n := range s.BinSizes {
		height := 0.0
		if maxBin > 0 {
			height = maxHeight * float64(n) / float64(maxBin)
		}
		ops = append(ops, fastview.EleUpdate{
			EleId: fmt.Sprintf("bin-bar-%d", k),
			Ops: []fastview.Op{
				{Key: "height", Value: fmt.Sprintf("%.1f", height)},
				{Key: "y", Value: fmt.Sprintf("%.1f", maxHeight-height)},
			},
		})
		ops = append(ops, fastview.EleUpdate{
			EleId: fmt.Sprintf("bin-label-%d", k),
			Ops:   []fastview.Op{{Key: "textContent", Value: fmt.Sprintf("%d", n)}},
		})
	}
	return
}

// Parse defines the view's template fragment and returns its name. One bar
// and one label are emitted per entry in the initial Snapshot's BinSizes
// (spec.md's bin count is fixed for the lifetime of a run, so the initial
// count matches every later onUpdate).
func (bv *BinHistogramView) Parse(t *template.Template) (name string, err error) {
	name = bv.id
	_, err = t.Parse(`{{ define "` + name + `" }}
	<div id="` + bv.id + `" style="padding:20px;">
		<svg width="{{ mult (len .BinSizes) ` + fmt.Sprintf("%d", barWidth+barGap) + `}}px" height="` + fmt.Sprintf("%.0f", maxHeight+20) + `px">
			{{ range $k, $n := .BinSizes }}
			<rect id="bin-bar-{{ $k }}" x="{{ mult $k ` + fmt.Sprintf("%d", barWidth+barGap) + `}}" y="` + fmt.Sprintf("%.0f", maxHeight) + `" width="` + fmt.Sprintf("%d", barWidth) + `" height="0" fill="steelblue" />
			<text id="bin-label-{{ $k }}" x="{{ mult $k ` + fmt.Sprintf("%d", barWidth+barGap) + `}}" y="` + fmt.Sprintf("%.0f", maxHeight+15) + `" font-size="10">{{ $n }}</text>
			{{ end }}
		</svg>
	</div>
	{{ end }}`)
	return
}
