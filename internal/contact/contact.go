package contact

import (
	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/geometry"
)

// Window is how many edges on either side of the bound edge the windowed
// search considers.
const Window = 20

// EdgeHit is the result of testing a disc against one edge.
type EdgeHit struct {
	T        float64 // unclamped projection parameter along the edge
	Perp     r2.Vec  // from the closest point on the edge's line to the disc center
	Distance float64
	Contact  bool
}

// Contact is a detected disc/edge contact.
type Contact struct {
	Curve    int
	Edge     int
	Tangent  r2.Vec // raw edge vector, not normalized
	Perp     r2.Vec
	Distance float64
	T        float64
	Reach    float64 // disc radius + curve half-thickness
	OnTop    bool
}

// TestEdge tests a disc of radius r centered at c against the edge starting
// at p with vector v and half-thickness h. Endpoints are not round caps: a
// center whose projection falls outside the span never touches.
func TestEdge(c r2.Vec, r, h float64, p, v r2.Vec) EdgeHit {
	rel := r2.Sub(c, p)
	t := r2.Dot(rel, v) / r2.Dot(v, v)
	closest := r2.Add(p, r2.Scale(t, v))
	perp := r2.Sub(c, closest)
	dist := r2.Norm(perp)
	return EdgeHit{
		T:        t,
		Perp:     perp,
		Distance: dist,
		Contact:  dist <= r+h && t >= 0 && t <= 1,
	}
}

func newContact(curves []geometry.Curve, ci, ei int, hit EdgeHit, radius float64) Contact {
	c := curves[ci]
	return Contact{
		Curve:    ci,
		Edge:     ei,
		Tangent:  c.Edges[ei],
		Perp:     hit.Perp,
		Distance: hit.Distance,
		T:        hit.T,
		Reach:    radius + c.HalfThickness,
		OnTop:    hit.Perp.Y >= 0,
	}
}
