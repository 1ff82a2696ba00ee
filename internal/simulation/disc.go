package simulation

import (
	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/shared/types"
)

// Motion is the disc's constraint state: Freefall or Bound.
type Motion interface {
	isMotion()
}

// Freefall is unconstrained motion under gravity.
type Freefall struct{}

// Bound constrains the disc to slide along one edge of one curve.
type Bound struct {
	Curve   int
	Edge    int
	Tangent r2.Vec // edge vector; normalized by the integrator
	OnTop   bool   // disc center has y >= the edge's line at the contact point
}

func (Freefall) isMotion() {}
func (Bound) isMotion()    {}

// Disc is the ball: a point mass with a radius.
type Disc struct {
	Radius   float64
	Position r2.Vec
	Velocity r2.Vec
	Color    types.Color
	Motion   Motion
}

// NewDisc returns a disc in freefall.
func NewDisc(radius float64, position, velocity r2.Vec, color types.Color) Disc {
	return Disc{
		Radius:   radius,
		Position: position,
		Velocity: velocity,
		Color:    color,
		Motion:   Freefall{},
	}
}

// BoundTo returns the bound state, if any.
func (d Disc) BoundTo() (Bound, bool) {
	b, ok := d.Motion.(Bound)
	return b, ok
}

// State returns the wire form of the disc.
func (d Disc) State() types.DiscState {
	s := types.DiscState{
		Position: types.FromR2(d.Position),
		Velocity: types.FromR2(d.Velocity),
		Radius:   d.Radius,
		Color:    d.Color,
		Curve:    -1,
		Edge:     -1,
	}
	if b, ok := d.BoundTo(); ok {
		s.Bound = true
		s.Curve = b.Curve
		s.Edge = b.Edge
		s.OnTop = b.OnTop
	}
	return s
}

// Constants are the user-tunable physics values for one run.
// Friction and AirDensity are accepted but not applied by the integrator.
type Constants struct {
	Gravity    float64
	Friction   float64
	AirDensity float64
}

// DefaultConstants returns the editor defaults.
func DefaultConstants() Constants {
	return Constants{Gravity: DefaultGravity}
}

// DefaultViewport is the visible area in screen coordinates.
func DefaultViewport() r2.Box {
	return r2.Box{Max: r2.Vec{X: ViewportWidth, Y: ViewportHeight}}
}
