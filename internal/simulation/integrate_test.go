package simulation

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestFreefallUpdatesVelocityBeforePosition(t *testing.T) {
	d := NewDisc(20, r2.Vec{X: 100, Y: 100}, r2.Vec{}, "")
	Integrate(&d, Constants{Gravity: 1000}, 0.1)
	if d.Velocity.Y != 100 {
		t.Fatalf("expected vy=100, got=%f", d.Velocity.Y)
	}
	if math.Abs(d.Position.Y-110) > 1e-9 {
		t.Fatalf("expected y=110 (moved by updated velocity), got=%f", d.Position.Y)
	}
	if d.Velocity.X != 0 || d.Position.X != 100 {
		t.Fatalf("expected no horizontal motion, got pos=%v vel=%v", d.Position, d.Velocity)
	}
}

func TestBoundClampsVelocityToTangent(t *testing.T) {
	d := NewDisc(20, r2.Vec{}, r2.Vec{X: 3, Y: 4}, "")
	d.Motion = Bound{Tangent: r2.Vec{X: 1}}
	Integrate(&d, Constants{Gravity: 1000}, 0.1)
	if d.Velocity != (r2.Vec{X: 3}) {
		t.Fatalf("expected velocity (3,0), got=%v", d.Velocity)
	}
	if math.Abs(d.Position.X-0.3) > 1e-12 || d.Position.Y != 0 {
		t.Fatalf("expected position (0.3,0), got=%v", d.Position)
	}
}

func TestBoundAcceleratesDownSlope(t *testing.T) {
	d := NewDisc(10, r2.Vec{}, r2.Vec{}, "")
	d.Motion = Bound{Tangent: r2.Vec{X: 20, Y: 20}}
	Integrate(&d, Constants{Gravity: 1000}, 0.01)
	want := r2.Vec{X: 5, Y: 5}
	if diff := cmp.Diff(want, d.Velocity, approx); diff != "" {
		t.Fatalf("velocity mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r2.Vec{X: 0.05, Y: 0.05}, d.Position, approx); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
	b, _ := d.BoundTo()
	if math.Abs(r2.Norm(b.Tangent)-1) > 1e-12 {
		t.Fatalf("expected tangent normalized, got=%v", b.Tangent)
	}
}

func TestBoundTangentDirectionDoesNotMatter(t *testing.T) {
	a := NewDisc(10, r2.Vec{}, r2.Vec{X: 2, Y: 1}, "")
	a.Motion = Bound{Tangent: r2.Vec{X: 1, Y: 1}}
	b := a
	b.Motion = Bound{Tangent: r2.Vec{X: -1, Y: -1}}
	Integrate(&a, Constants{Gravity: 500}, 1.0/60)
	Integrate(&b, Constants{Gravity: 500}, 1.0/60)
	if diff := cmp.Diff(a.Velocity, b.Velocity, approx); diff != "" {
		t.Fatalf("expected same velocity for reversed tangent (-a +b):\n%s", diff)
	}
}

func TestFrictionAndAirDensityAreInert(t *testing.T) {
	base := NewDisc(10, r2.Vec{}, r2.Vec{X: 50, Y: -20}, "")
	withDrag := base
	Integrate(&base, Constants{Gravity: 1000}, 0.02)
	Integrate(&withDrag, Constants{Gravity: 1000, Friction: 0.8, AirDensity: 1.2}, 0.02)
	if base.Velocity != withDrag.Velocity || base.Position != withDrag.Position {
		t.Fatalf("expected identical motion, got=%v/%v vs %v/%v", base.Position, base.Velocity, withDrag.Position, withDrag.Velocity)
	}
}

func TestOutOfBounds(t *testing.T) {
	vp := DefaultViewport()
	cases := []struct {
		pos  r2.Vec
		want bool
	}{
		{r2.Vec{X: 500, Y: 400}, false},
		{r2.Vec{X: -20, Y: 400}, true},
		{r2.Vec{X: -19, Y: 400}, false},
		{r2.Vec{X: 1020, Y: 400}, true},
		{r2.Vec{X: 500, Y: -20}, true},
		{r2.Vec{X: 500, Y: 820}, true},
		{r2.Vec{X: 500, Y: 819}, false},
	}
	for _, tc := range cases {
		d := NewDisc(20, tc.pos, r2.Vec{}, "")
		if got := OutOfBounds(d, vp); got != tc.want {
			t.Fatalf("pos=%v: expected %v, got=%v", tc.pos, tc.want, got)
		}
	}
}
