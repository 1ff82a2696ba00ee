package geometry

import "gonum.org/v1/gonum/spatial/r2"

// EraserScale converts a tool size into an eraser radius.
const EraserScale = 5

// Erase removes every point within radius of center and returns the
// surviving runs of consecutive points. Runs may be shorter than MinPoints;
// Build drops those later.
func Erase(points []r2.Vec, center r2.Vec, radius float64) [][]r2.Vec {
	var out [][]r2.Vec
	start := -1
	for i, p := range points {
		if r2.Norm(r2.Sub(p, center)) <= radius {
			if start >= 0 {
				out = append(out, clonePoints(points[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, clonePoints(points[start:]))
	}
	return out
}

// EraseStroke applies Erase to a stroke, keeping width and color on every piece.
func EraseStroke(s Stroke, center r2.Vec, radius float64) []Stroke {
	runs := Erase(s.Points, center, radius)
	out := make([]Stroke, 0, len(runs))
	for _, pts := range runs {
		out = append(out, Stroke{Width: s.Width, Color: s.Color, Points: pts})
	}
	return out
}

func clonePoints(pts []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	copy(out, pts)
	return out
}
