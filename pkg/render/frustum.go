package render

import "github.com/go-gl/mathgl/mgl32"

// Frustum is the six half-spaces of a view-projection matrix, extracted
// by the standard Gribb-Hartmann method: each plane is a row combination
// of the clip matrix, normalized so Test can use a plain dot product.
type Frustum struct {
	planes [6]mgl32.Vec4 // (a, b, c, d): ax+by+cz+d >= 0 is inside
}

// NewFrustum extracts a Frustum from a combined view-projection matrix.
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	m := viewProj // column-major: row i is m[i], m[i+4], m[i+8], m[i+12]
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{m[i], m[i+4], m[i+8], m[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.planes[0] = r3.Add(r0) // left
	f.planes[1] = r3.Sub(r0) // right
	f.planes[2] = r3.Add(r1) // bottom
	f.planes[3] = r3.Sub(r1) // top
	f.planes[4] = r3.Add(r2) // near
	f.planes[5] = r3.Sub(r2) // far

	for i, p := range f.planes {
		n := mgl32.Vec3{p[0], p[1], p[2]}
		length := n.Len()
		if length > 0 {
			f.planes[i] = p.Mul(1 / length)
		}
	}
	return f
}

// Test reports whether the world-space AABB [min,max] intersects the
// frustum, using the standard "most positive corner" rejection per plane:
// if even the corner furthest along the plane normal is outside, the
// whole box is outside.
func (f Frustum) Test(minX, minY, minZ, maxX, maxY, maxZ float32) bool {
	for _, p := range f.planes {
		px := maxX
		if p[0] < 0 {
			px = minX
		}
		py := maxY
		if p[1] < 0 {
			py = minY
		}
		pz := maxZ
		if p[2] < 0 {
			pz = minZ
		}
		if p[0]*px+p[1]*py+p[2]*pz+p[3] < 0 {
			return false
		}
	}
	return true
}
