package simulation

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/contact"
	"curvesandbox/internal/geometry"
	"curvesandbox/internal/shared/types"
)

// Run is one release of the disc over a frozen set of curves.
type Run struct {
	mu        sync.RWMutex
	curves    []geometry.Curve
	disc      Disc
	constants Constants
	viewport  r2.Box

	tick      uint64
	elapsed   float64
	last      []types.Transition
	ended     bool
	endReason string
}

// NewRun starts a run. The curves must not be modified while it is active.
func NewRun(curves []geometry.Curve, disc Disc, k Constants, viewport r2.Box) *Run {
	if disc.Motion == nil {
		disc.Motion = Freefall{}
	}
	return &Run{
		curves:    curves,
		disc:      disc,
		constants: k,
		viewport:  viewport,
	}
}

// Step advances the run by one frame of length dt. It returns the frame and
// whether the run is still active afterwards.
func (r *Run) Step(dt float64) (types.FrameState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return r.frameLocked(), false
	}

	r.tick++
	r.last = r.last[:0]
	r.detectLocked()
	Integrate(&r.disc, r.constants, dt)
	r.elapsed += dt

	if OutOfBounds(r.disc, r.viewport) {
		r.disc.Position = r2.Vec{}
		r.disc.Velocity = r2.Vec{}
		r.disc.Motion = Freefall{}
		r.ended = true
		r.endReason = types.EndNatural
	}
	return r.frameLocked(), !r.ended
}

// detectLocked runs the contact search matching the current motion state
// and applies the result. A bound disc that loses its edge goes to freefall
// without a global search in the same frame.
func (r *Run) detectLocked() {
	if b, ok := r.disc.BoundTo(); ok {
		c, found := contact.Windowed(r.curves, b.Curve, b.Edge, r.disc.Position, r.disc.Radius)
		if !found {
			r.disc.Motion = Freefall{}
			r.last = append(r.last, types.Transition{Kind: types.TransitionContactLost, Curve: b.Curve, Edge: b.Edge})
			return
		}
		if c.Edge != b.Edge {
			r.last = append(r.last, types.Transition{Kind: types.TransitionEdgeChanged, Curve: c.Curve, Edge: c.Edge})
		}
		r.bindLocked(c)
		return
	}

	c, found := contact.Global(r.curves, r.disc.Position, r.disc.Radius)
	if !found {
		return
	}
	r.last = append(r.last, types.Transition{Kind: types.TransitionContactAcquired, Curve: c.Curve, Edge: c.Edge})
	r.bindLocked(c)
}

func (r *Run) bindLocked(c contact.Contact) {
	r.disc.Motion = Bound{
		Curve:   c.Curve,
		Edge:    c.Edge,
		Tangent: c.Tangent,
		OnTop:   c.OnTop,
	}
	r.disc.Position = contact.Resolve(c, r.disc.Position)
}

// Abort ends an active run. Position and velocity are kept as they are.
func (r *Run) Abort() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return false
	}
	r.ended = true
	r.endReason = types.EndAborted
	return true
}

// Done reports whether the run has ended.
func (r *Run) Done() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ended
}

// Snapshot returns a copy of the latest frame for safe replication.
func (r *Run) Snapshot() types.FrameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frameLocked()
}

// Disc returns a copy of the disc.
func (r *Run) Disc() Disc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disc
}

// Result returns the final state. ok is false while the run is active.
func (r *Run) Result() (types.RunResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ended {
		return types.RunResult{}, false
	}
	return types.RunResult{
		Position:   types.FromR2(r.disc.Position),
		Velocity:   types.FromR2(r.disc.Velocity),
		Reason:     r.endReason,
		Ticks:      r.tick,
		SimulatedS: r.elapsed,
	}, true
}

func (r *Run) frameLocked() types.FrameState {
	var transitions []types.Transition
	if len(r.last) > 0 {
		transitions = make([]types.Transition, len(r.last))
		copy(transitions, r.last)
	}
	return types.FrameState{
		Tick:        r.tick,
		Disc:        r.disc.State(),
		Transitions: transitions,
	}
}

// Simulate steps r with a fixed dt until it ends naturally or maxTicks frames
// have run, in which case it is aborted. observe, if set, sees every frame.
func Simulate(r *Run, dt float64, maxTicks int, observe func(types.FrameState)) types.RunResult {
	for i := 0; maxTicks <= 0 || i < maxTicks; i++ {
		frame, active := r.Step(dt)
		if observe != nil {
			observe(frame)
		}
		if !active {
			break
		}
	}
	r.Abort()
	res, _ := r.Result()
	return res
}
