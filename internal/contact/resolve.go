package contact

import "gonum.org/v1/gonum/spatial/r2"

// Resolve pushes a penetrating disc out along the contact normal until its
// center sits exactly Reach from the edge's line. A disc already at or beyond
// Reach is returned unchanged, as is one centered on the line itself, which
// has no outward direction.
func Resolve(c Contact, position r2.Vec) r2.Vec {
	if c.Distance >= c.Reach || c.Distance == 0 {
		return position
	}
	closest := r2.Sub(position, c.Perp)
	return r2.Add(closest, r2.Scale(c.Reach/c.Distance, c.Perp))
}

// Penetrating reports whether the disc overlaps the surface.
func (c Contact) Penetrating() bool {
	return c.Distance < c.Reach
}
