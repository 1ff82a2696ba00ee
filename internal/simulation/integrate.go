package simulation

import "gonum.org/v1/gonum/spatial/r2"

// Integrate advances the disc by dt with semi-implicit Euler: velocity is
// updated first and the new velocity moves the position.
//
// Bound motion keeps only the velocity component along the edge tangent and
// adds the tangential part of gravity. Any normal component is dropped.
func Integrate(d *Disc, k Constants, dt float64) {
	gravity := r2.Vec{Y: k.Gravity}
	if b, ok := d.BoundTo(); ok {
		t := r2.Unit(b.Tangent)
		acc := r2.Scale(r2.Dot(t, gravity), t)
		vel := r2.Scale(r2.Dot(t, d.Velocity), t)
		vel = r2.Add(vel, r2.Scale(dt, acc))
		d.Velocity = vel
		b.Tangent = t
		d.Motion = b
	} else {
		d.Velocity.Y += k.Gravity * dt
	}
	d.Position = r2.Add(d.Position, r2.Scale(dt, d.Velocity))
}

// OutOfBounds reports whether the disc's bounding box lies entirely outside
// the viewport on any side.
func OutOfBounds(d Disc, viewport r2.Box) bool {
	x, y, r := d.Position.X, d.Position.Y, d.Radius
	return x+r <= viewport.Min.X ||
		x-r >= viewport.Max.X ||
		y+r <= viewport.Min.Y ||
		y-r >= viewport.Max.Y
}
