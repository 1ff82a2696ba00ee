package geometry

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/shared/types"
)

// MinPoints is the smallest cleaned vertex count that forms a collidable
// curve (two edges).
const MinPoints = 3

// ErrDegenerateCurve is returned when a stroke has too few distinct points.
var ErrDegenerateCurve = errors.New("geometry: curve needs at least 3 distinct points")

// Curve is a cleaned polyline ready for contact detection.
type Curve struct {
	Vertices      []r2.Vec
	Edges         []r2.Vec
	HalfThickness float64
	Width         int
	Color         types.Color
}

// Stroke is a raw user-drawn point list with its pen settings.
type Stroke struct {
	Width  int
	Color  types.Color
	Points []r2.Vec
}

// NewCurve collapses consecutive duplicate points and derives the edge vectors.
func NewCurve(raw []r2.Vec, width int, color types.Color) (Curve, error) {
	vertices := Dedupe(raw)
	if len(vertices) < MinPoints {
		return Curve{}, ErrDegenerateCurve
	}
	return Curve{
		Vertices:      vertices,
		Edges:         EdgeVectors(vertices),
		HalfThickness: float64(width) / 2,
		Width:         width,
		Color:         color,
	}, nil
}

// Build converts strokes into curves, dropping degenerate ones. Output order
// follows input order, which fixes the global contact search order.
func Build(strokes []Stroke) []Curve {
	out := make([]Curve, 0, len(strokes))
	for _, s := range strokes {
		c, err := NewCurve(s.Points, s.Width, s.Color)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Dedupe drops every point equal to its successor. The final point is always kept.
func Dedupe(raw []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, 0, len(raw))
	for i, p := range raw {
		if i+1 < len(raw) && raw[i+1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// EdgeVectors returns vertices[i+1]-vertices[i] for each consecutive pair.
func EdgeVectors(vertices []r2.Vec) []r2.Vec {
	if len(vertices) < 2 {
		return nil
	}
	edges := make([]r2.Vec, len(vertices)-1)
	for i := range edges {
		edges[i] = r2.Sub(vertices[i+1], vertices[i])
	}
	return edges
}

// Edge returns the start vertex and vector of edge i.
func (c Curve) Edge(i int) (start, vec r2.Vec) {
	return c.Vertices[i], c.Edges[i]
}

// EdgeCount returns the number of edges.
func (c Curve) EdgeCount() int {
	return len(c.Edges)
}
