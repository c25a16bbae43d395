package dashboard

import (
	"context"
	"time"

	"hashkat/engine"
	"hashkat/followaction"
	"hashkat/graph"

	channerics "github.com/niceyeti/channerics/channels"
)

// NewFeed polls the engine/graph/follow action at the given interval and
// sends a Snapshot on the returned channel each tick, closing it when ctx is
// cancelled. Grounded on server.publishEleUpdates's use of
// channerics.NewTicker for its ping loop, generalized here to drive the
// dashboard's model updates instead of websocket pings.
func NewFeed(
	ctx context.Context,
	e *engine.Engine,
	g *graph.Graph,
	f *followaction.FollowAction,
	interval time.Duration,
) <-chan Snapshot {
	out := make(chan Snapshot)
	ticks := channerics.NewTicker(ctx.Done(), interval)

	go func() {
		defer close(out)
		for range channerics.OrDone(ctx.Done(), ticks) {
			select {
			case out <- Collect(e, g, f):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
