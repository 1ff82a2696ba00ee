package contact

import (
	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/geometry"
)

// Windowed scans edges [edge-Window, edge+Window] of one curve and returns
// the passing edge closest in index to edge, preferring the lower index on
// ties. ok is false when nothing in the window touches the disc.
func Windowed(curves []geometry.Curve, curve, edge int, center r2.Vec, radius float64) (c Contact, ok bool) {
	if curve < 0 || curve >= len(curves) {
		return Contact{}, false
	}
	cv := curves[curve]
	lo := max(edge-Window, 0)
	hi := min(edge+Window, cv.EdgeCount()-1)

	best := -1
	bestDiff := 0
	var bestHit EdgeHit
	for i := lo; i <= hi; i++ {
		p, v := cv.Edge(i)
		hit := TestEdge(center, radius, cv.HalfThickness, p, v)
		if !hit.Contact {
			continue
		}
		diff := abs(i - edge)
		// Ascending scan: a strictly smaller diff is needed to replace, so
		// equal distances keep the lower index.
		if best < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
			bestHit = hit
		}
	}
	if best < 0 {
		return Contact{}, false
	}
	return newContact(curves, curve, best, bestHit, radius), true
}

// Global scans every curve in order, and each curve's edges in order, and
// returns the first passing edge. This is first-found, not nearest.
func Global(curves []geometry.Curve, center r2.Vec, radius float64) (c Contact, ok bool) {
	for ci, cv := range curves {
		for ei := 0; ei < cv.EdgeCount(); ei++ {
			p, v := cv.Edge(ei)
			hit := TestEdge(center, radius, cv.HalfThickness, p, v)
			if hit.Contact {
				return newContact(curves, ci, ei, hit, radius), true
			}
		}
	}
	return Contact{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
