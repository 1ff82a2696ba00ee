package contact

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"curvesandbox/internal/geometry"
)

func TestResolveSnapsToReach(t *testing.T) {
	curves := []geometry.Curve{mustCurve(t, 0, 0, 0, 10, 0, 20, 0)}
	center := r2.Vec{X: 5, Y: 3}
	c, ok := Global(curves, center, 5)
	if !ok {
		t.Fatal("expected contact")
	}
	if !c.Penetrating() {
		t.Fatal("expected penetration at distance 3 with reach 5")
	}
	got := Resolve(c, center)
	if got.X != 5 || math.Abs(got.Y-5) > 1e-12 {
		t.Fatalf("expected (5,5), got=%v", got)
	}
}

func TestResolveAlongSlantedNormal(t *testing.T) {
	curves := []geometry.Curve{mustCurve(t, 2, 0, 0, 10, 10, 20, 20)}
	center := r2.Vec{X: 4, Y: 6} // sqrt(2) from the line y=x
	c, ok := Global(curves, center, 5)
	if !ok {
		t.Fatal("expected contact")
	}
	got := Resolve(c, center)
	closest := r2.Vec{X: 5, Y: 5}
	if d := r2.Norm(r2.Sub(got, closest)); math.Abs(d-6) > 1e-9 {
		t.Fatalf("expected distance 6 (radius+half thickness) from the line, got=%f", d)
	}
	dir := r2.Unit(r2.Sub(got, closest))
	if math.Abs(dir.X+math.Sqrt2/2) > 1e-9 || math.Abs(dir.Y-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("expected push along the original normal, got dir=%v", dir)
	}
}

func TestResolveLeavesNonPenetratingDisc(t *testing.T) {
	curves := []geometry.Curve{mustCurve(t, 0, 0, 0, 10, 0, 20, 0)}
	for _, y := range []float64{5, -5} {
		center := r2.Vec{X: 5, Y: y}
		c, ok := Global(curves, center, 5)
		if !ok {
			t.Fatalf("y=%f: expected contact at exactly reach", y)
		}
		if got := Resolve(c, center); got != center {
			t.Fatalf("y=%f: expected position unchanged, got=%v", y, got)
		}
	}
}

func TestResolveCenterOnLine(t *testing.T) {
	curves := []geometry.Curve{mustCurve(t, 0, 0, 0, 10, 0, 20, 0)}
	center := r2.Vec{X: 5}
	c, _ := Global(curves, center, 5)
	if got := Resolve(c, center); got != center {
		t.Fatalf("expected position unchanged without a normal, got=%v", got)
	}
}
