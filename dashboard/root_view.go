package dashboard

import (
	"context"
	"html/template"
	"log"
	"time"

	"hashkat/engine"
	"hashkat/followaction"
	"hashkat/graph"
	"hashkat/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// rootView is the dashboard's single page: the container for every view
// component, fanning their ele-update channels into one websocket feed.
// Grounded on server/root_view.RootView, generalized from the grid-world's
// fixed two-view (ValuesGrid, ValueFunction) wiring to the dashboard's
// Snapshot-driven views.
type rootView struct {
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// newRootView builds the dashboard page and the views it contains, polling
// the simulation at interval via NewFeed.
func newRootView(
	ctx context.Context,
	e *engine.Engine,
	g *graph.Graph,
	f *followaction.FollowAction,
	interval time.Duration,
) *rootView {
	snapshots := NewFeed(ctx, e, g, f, interval)

	views, err := fastview.NewViewBuilder[Snapshot, Snapshot]().
		WithContext(ctx).
		WithModel(snapshots, identity).
		WithView(func(done <-chan struct{}, in <-chan Snapshot) fastview.ViewComponent {
			return NewStatsView(done, in)
		}).
		WithView(func(done <-chan struct{}, in <-chan Snapshot) fastview.ViewComponent {
			return NewBinHistogramView(done, in)
		}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	return &rootView{
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}
}

func identity(s Snapshot) Snapshot { return s }

// Updates returns the main ele-update channel for all the views.
func (rv *rootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Parse builds the main page's template, with websocket bootstrap code, and
// returns its name. Grounded on server/root_view.RootView.Parse.
func (rv *rootView) Parse(parent *template.Template) (name string, err error) {
	rt := parent.Funcs(
		template.FuncMap{
			"add":  func(i, j int) int { return i + j },
			"sub":  func(i, j int) int { return i - j },
			"mult": func(i, j int) int { return i * j },
			"div":  func(i, j int) int { return i / j },
		})

	var viewTemplates []string
	for _, vc := range rv.views {
		tname, parseErr := vc.Parse(rt)
		if parseErr != nil {
			return "", parseErr
		}
		viewTemplates = append(viewTemplates, tname)
	}

	var bodySpec string
	for _, tname := range viewTemplates {
		bodySpec += `{{ template "` + tname + `" . }}`
	}

	name = "dashboard"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<title>hashkat</title>
			<link rel="icon" href="data:,">
			<script>
				const ws = new WebSocket("ws://" + location.host + "/ws");
				ws.onopen = function (event) { console.log("dashboard socket opened") };
				ws.onerror = function (event) { console.log('dashboard socket error: ', event) };
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data)
					for (const update of items) {
						const ele = document.getElementById(update.EleId)
						if (!ele) { continue }
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value)
							}
						}
					}
				}
			</script>
		</head>
		<body>
		` + bodySpec + `
		</body>
	</html>
	{{ end }}
	`
	_, err = rt.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel and
// throttles its output, overwriting redundant per-element updates within the
// batch window. Grounded on server/root_view.go's fanIn/batchify.
func fanIn(done <-chan struct{}, views []fastview.ViewComponent) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(done, channerics.Merge(done, inputs...), 20*time.Millisecond)
}

func batchify(done <-chan struct{}, source <-chan []fastview.EleUpdate, rate time.Duration) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		data := map[string]fastview.EleUpdate{}
		last := time.Now()
		for updates := range channerics.OrDone(done, source) {
			for _, update := range updates {
				data[update.EleId] = update
			}

			if time.Since(last) > rate && len(updates) > 0 {
				select {
				case output <- valuesOf(data):
					data = map[string]fastview.EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

func valuesOf[K comparable, V any](m map[K]V) (vals []V) {
	for _, v := range m {
		vals = append(vals, v)
	}
	return
}
