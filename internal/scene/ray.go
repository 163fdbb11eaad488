package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-7

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// NewRay normalizes dir.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Transform returns the ray in the space of m. The direction is not renormalized,
// so distances along the result stay proportional to the original.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	o := mgl32.TransformCoordinate(r.Origin, m)
	d := mgl32.TransformNormal(r.Dir, m)
	return Ray{Origin: o, Dir: d}
}

// IntersectTriangle runs Möller-Trumbore and returns the ray parameter of the hit.
// Both faces count as hits.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectBox returns the entry parameter of the slab test, or false on a miss.
func (r Ray) IntersectBox(b Box3) (float32, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	for i := range 3 {
		if math32.Abs(r.Dir[i]) < rayEpsilon {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return max(tmin, 0), true
}

// ClosestT returns the parameter of the point on the ray nearest to p, clamped to the ray start.
func (r Ray) ClosestT(p mgl32.Vec3) float32 {
	t := p.Sub(r.Origin).Dot(r.Dir) / r.Dir.Dot(r.Dir)
	return max(t, 0)
}

// DistanceSqToPoint returns the squared distance from p to the ray.
func (r Ray) DistanceSqToPoint(p mgl32.Vec3) float32 {
	q := r.At(r.ClosestT(p))
	d := q.Sub(p)
	return d.Dot(d)
}
