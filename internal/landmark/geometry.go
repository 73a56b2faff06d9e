package landmark

import "math"

// Distance calculates the Euclidean distance between two 3D points.
func Distance(p, q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Angle returns the angle in degrees at vertex subtended by the rays to a
// and b, via the dot-product formula. Returns false when either ray has
// zero length (the angle is undefined).
func Angle(a, vertex, b Point3D) (float64, bool) {
	va := Point3D{X: a.X - vertex.X, Y: a.Y - vertex.Y, Z: a.Z - vertex.Z}
	vb := Point3D{X: b.X - vertex.X, Y: b.Y - vertex.Y, Z: b.Z - vertex.Z}

	na := math.Sqrt(va.X*va.X + va.Y*va.Y + va.Z*va.Z)
	nb := math.Sqrt(vb.X*vb.X + vb.Y*vb.Y + vb.Z*vb.Z)
	if na < 1e-10 || nb < 1e-10 {
		return 0, false
	}

	dot := (va.X*vb.X + va.Y*vb.Y + va.Z*vb.Z) / (na * nb)
	// Clamp against floating point drift before acos
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}

	return math.Acos(dot) * 180 / math.Pi, true
}

// VectorAngle returns the angle in degrees between the vectors p->q and r->s.
// Returns false when either vector has zero length.
func VectorAngle(p, q, r, s Point3D) (float64, bool) {
	return Angle(
		Point3D{X: q.X - p.X, Y: q.Y - p.Y, Z: q.Z - p.Z},
		Point3D{},
		Point3D{X: s.X - r.X, Y: s.Y - r.Y, Z: s.Z - r.Z},
	)
}
