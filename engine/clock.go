package engine

import (
	"math"
	"math/rand"
	"sync"
)

// Clock holds the engine's virtual time state (spec.md §3 "Engine clock"):
// simulated minutes, completed steps, and the event rate that denominates
// the per-step time increment. Each field is guarded by its own mutex,
// matching engine_mt's steps_mutex_/time_mutex_/event_rate_mutex_ — cheap
// locks kept even in today's single-threaded driver so a future
// multithreaded engine variant (spec.md §5) is a drop-in change.
type Clock struct {
	stepsMu sync.Mutex
	steps   int

	timeMu sync.Mutex
	time   float64

	eventRateMu sync.Mutex
	eventRate   int

	// RandomTimeIncrement selects the Poisson (true) vs deterministic
	// (false) clock-advance rule (spec.md §4.4, config
	// hashkat.random_time_increment).
	RandomTimeIncrement bool
}

// NewClock returns a zeroed Clock.
func NewClock(randomTimeIncrement bool) *Clock {
	return &Clock{RandomTimeIncrement: randomTimeIncrement}
}

// Steps returns the number of completed steps.
func (c *Clock) Steps() int {
	c.stepsMu.Lock()
	defer c.stepsMu.Unlock()
	return c.steps
}

// Time returns the current simulated-minutes time.
func (c *Clock) Time() float64 {
	c.timeMu.Lock()
	defer c.timeMu.Unlock()
	return c.time
}

// EventRate returns the current event rate.
func (c *Clock) EventRate() int {
	c.eventRateMu.Lock()
	defer c.eventRateMu.Unlock()
	return c.eventRate
}

// IncrEventRate increments the event rate; called from an action's happened
// handler (spec.md §4.4 "happened: increment event_rate under mutex").
func (c *Clock) IncrEventRate() {
	c.eventRateMu.Lock()
	defer c.eventRateMu.Unlock()
	c.eventRate++
}

// AdvanceOnFinished increments steps and advances time, called from an
// action's finished handler (spec.md §4.4). If the event rate is still zero
// (no happened has ever fired), time does not advance — spec.md §9's
// resolution to the "clock update with event_rate=0" open question, which
// would otherwise divide by zero on the very first finished signal.
func (c *Clock) AdvanceOnFinished(rng *rand.Rand) {
	c.stepsMu.Lock()
	c.steps++
	c.stepsMu.Unlock()

	rate := c.EventRate()
	if rate == 0 {
		return
	}

	var dt float64
	if c.RandomTimeIncrement {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		dt = -math.Log(u) / float64(rate)
	} else {
		dt = 1.0 / float64(rate)
	}

	c.timeMu.Lock()
	c.time += dt
	c.timeMu.Unlock()
}

// Reset returns the clock to its zero state, preserving RandomTimeIncrement.
func (c *Clock) Reset() {
	c.stepsMu.Lock()
	c.steps = 0
	c.stepsMu.Unlock()

	c.timeMu.Lock()
	c.time = 0
	c.timeMu.Unlock()

	c.eventRateMu.Lock()
	c.eventRate = 0
	c.eventRateMu.Unlock()
}
