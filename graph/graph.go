// Package graph implements the directed follower graph (spec.md §3/§4.1,
// "Graph G"): append-only adjacency sets plus synchronous grown/
// connection_added/connection_removed signals. It is the Go analogue of the
// teacher's nothing-in-particular (the teacher has no graph of its own) and
// is instead grounded directly on the original network_mt/network_st C++
// templates in _examples/original_source/include/network_mt.hpp: dense
// integer ids, per-agent follower/followee sets, and boost::signals2-style
// synchronous signal delivery reexpressed as registered Go closures.
package graph

import "fmt"

// Graph is a directed follower graph with at most MaxSize agents.
type Graph struct {
	maxSize int
	size    int

	followers []map[int]struct{}
	followees []map[int]struct{}

	agentType    []int
	creationTime []float64
	byType       map[int][]int // agent type -> ids in creation order

	onGrown           []func(id, agentType int)
	onConnectionAdded []func(followee, follower int)
	onConnectionRemoved []func(followee, follower int)
}

// New allocates a graph with room for at most maxSize agents.
func New(maxSize int) *Graph {
	return &Graph{
		maxSize: maxSize,
		byType:  make(map[int][]int),
	}
}

// Allocate (re)reserves capacity for maxSize agents. Per spec.md §4.1, it
// fails if called while the graph is non-empty, to avoid silently discarding
// agents already grown.
func (g *Graph) Allocate(maxSize int) error {
	if g.size > 0 {
		return fmt.Errorf("graph: allocate(%d): graph already has %d agents; reset first", maxSize, g.size)
	}
	g.maxSize = maxSize
	g.followers = nil
	g.followees = nil
	g.agentType = nil
	g.creationTime = nil
	g.byType = make(map[int][]int)
	return nil
}

// Reset returns the graph to its post-allocate, empty state without
// discarding the registered signal handlers.
func (g *Graph) Reset() {
	g.size = 0
	g.followers = nil
	g.followees = nil
	g.agentType = nil
	g.creationTime = nil
	g.byType = make(map[int][]int)
}

// OnGrown registers a handler invoked synchronously whenever Grow succeeds.
func (g *Graph) OnGrown(fn func(id, agentType int)) {
	g.onGrown = append(g.onGrown, fn)
}

// OnConnectionAdded registers a handler invoked synchronously whenever
// Connect succeeds.
func (g *Graph) OnConnectionAdded(fn func(followee, follower int)) {
	g.onConnectionAdded = append(g.onConnectionAdded, fn)
}

// OnConnectionRemoved registers a handler invoked synchronously whenever
// Disconnect succeeds.
func (g *Graph) OnConnectionRemoved(fn func(followee, follower int)) {
	g.onConnectionRemoved = append(g.onConnectionRemoved, fn)
}

// Grow appends one new agent of the given type at simulated time now,
// returning its id. ok is false (Full, spec.md §7) if the graph is already
// at MaxSize.
func (g *Graph) Grow(now float64, agentType int) (id int, ok bool) {
	if g.size >= g.maxSize {
		return 0, false
	}
	id = g.size
	g.followers = append(g.followers, make(map[int]struct{}))
	g.followees = append(g.followees, make(map[int]struct{}))
	g.agentType = append(g.agentType, agentType)
	g.creationTime = append(g.creationTime, now)
	g.byType[agentType] = append(g.byType[agentType], id)
	g.size++

	for _, fn := range g.onGrown {
		fn(id, agentType)
	}
	return id, true
}

// Connect inserts the directed edge followee<-follower (follower follows
// followee). Returns false without side effects if the ids are equal,
// already connected, or either id is invalid (the latter also returns an
// error, per spec.md §4.1 "Fails with InvalidId if either id >= n").
func (g *Graph) Connect(followee, follower int) (bool, error) {
	if err := g.validateID(followee); err != nil {
		return false, err
	}
	if err := g.validateID(follower); err != nil {
		return false, err
	}
	if followee == follower {
		return false, nil
	}
	if _, exists := g.followers[followee][follower]; exists {
		return false, nil
	}

	g.followers[followee][follower] = struct{}{}
	g.followees[follower][followee] = struct{}{}

	for _, fn := range g.onConnectionAdded {
		fn(followee, follower)
	}
	return true, nil
}

// Disconnect removes the directed edge followee<-follower, symmetric to
// Connect.
func (g *Graph) Disconnect(followee, follower int) (bool, error) {
	if err := g.validateID(followee); err != nil {
		return false, err
	}
	if err := g.validateID(follower); err != nil {
		return false, err
	}
	if _, exists := g.followers[followee][follower]; !exists {
		return false, nil
	}

	delete(g.followers[followee], follower)
	delete(g.followees[follower], followee)

	for _, fn := range g.onConnectionRemoved {
		fn(followee, follower)
	}
	return true, nil
}

func (g *Graph) validateID(id int) error {
	if id < 0 || id >= g.size {
		return fmt.Errorf("graph: invalid id %d (size %d)", id, g.size)
	}
	return nil
}

// Size returns the current number of agents.
func (g *Graph) Size() int { return g.size }

// MaxSize returns the graph's capacity.
func (g *Graph) MaxSize() int { return g.maxSize }

// HaveConnection reports whether follower follows followee.
func (g *Graph) HaveConnection(followee, follower int) bool {
	if followee < 0 || followee >= g.size {
		return false
	}
	_, ok := g.followers[followee][follower]
	return ok
}

// FollowersSize returns the in-degree of id.
func (g *Graph) FollowersSize(id int) int {
	if id < 0 || id >= g.size {
		return 0
	}
	return len(g.followers[id])
}

// FolloweesSize returns the out-degree of id.
func (g *Graph) FolloweesSize(id int) int {
	if id < 0 || id >= g.size {
		return 0
	}
	return len(g.followees[id])
}

// AgentType returns the declared type index of id.
func (g *Graph) AgentType(id int) int {
	if id < 0 || id >= g.size {
		return -1
	}
	return g.agentType[id]
}

// CreationTime returns the simulated-minutes timestamp id was grown at.
func (g *Graph) CreationTime(id int) float64 {
	if id < 0 || id >= g.size {
		return 0
	}
	return g.creationTime[id]
}

// Count returns the number of agents of the given type.
func (g *Graph) Count(agentType int) int {
	return len(g.byType[agentType])
}

// AgentByType returns the k-th id (in creation order) of the given type.
func (g *Graph) AgentByType(agentType, k int) (int, bool) {
	ids := g.byType[agentType]
	if k < 0 || k >= len(ids) {
		return 0, false
	}
	return ids[k], true
}
