package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// PointsThreshold is the pick radius around each point of a point cloud, in world units.
const PointsThreshold = 1

// Hit is one ray intersection.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	Node     *Node
}

// Raycaster intersects rays with node trees. Camera is needed for sprites, which face it.
type Raycaster struct {
	Ray    Ray
	Camera *Camera
}

// IntersectNodes tests every visible node of roots and their visible descendants and
// returns the hits sorted nearest first.
func (rc *Raycaster) IntersectNodes(roots []*Node) []Hit {
	var hits []Hit
	for _, n := range roots {
		n.Walk(func(c *Node) bool {
			if !c.Visible {
				return false
			}
			hits = append(hits, rc.intersect(c)...)
			return true
		})
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func (rc *Raycaster) intersect(n *Node) []Hit {
	switch n.Kind {
	case MeshNode:
		return rc.intersectMesh(n)
	case PointsNode:
		return rc.intersectPoints(n)
	case SpriteNode:
		return rc.intersectSprite(n)
	}
	return nil
}

func (rc *Raycaster) intersectMesh(n *Node) []Hit {
	g := n.Geometry
	if g == nil || g.VertexCount() == 0 {
		return nil
	}
	world := n.WorldMatrix()
	local := rc.Ray.Transform(world.Inv())
	if _, ok := local.IntersectBox(g.BoundingBox()); !ok {
		return nil
	}
	best := float32(-1)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		t, ok := local.IntersectTriangle(g.Vertex(a), g.Vertex(b), g.Vertex(c))
		if ok && (best < 0 || t < best) {
			best = t
		}
	}
	if best < 0 {
		return nil
	}
	p := mgl32.TransformCoordinate(local.At(best), world)
	return []Hit{{Distance: p.Sub(rc.Ray.Origin).Len(), Point: p, Node: n}}
}

func (rc *Raycaster) intersectPoints(n *Node) []Hit {
	g := n.Geometry
	if g == nil {
		return nil
	}
	world := n.WorldMatrix()
	var hits []Hit
	for i := 0; i < g.VertexCount(); i++ {
		p := mgl32.TransformCoordinate(g.Vertex(i), world)
		if rc.Ray.DistanceSqToPoint(p) > PointsThreshold*PointsThreshold {
			continue
		}
		q := rc.Ray.At(rc.Ray.ClosestT(p))
		hits = append(hits, Hit{Distance: q.Sub(rc.Ray.Origin).Len(), Point: q, Node: n})
	}
	return hits
}

// intersectSprite tests the unit quad centered on the node and facing the camera.
func (rc *Raycaster) intersectSprite(n *Node) []Hit {
	world := n.WorldMatrix()
	center := world.Col(3).Vec3()
	sx := world.Col(0).Vec3().Len()
	sy := world.Col(1).Vec3().Len()

	right, up := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	if rc.Camera != nil {
		right = rc.Camera.Right()
		up = right.Cross(rc.Camera.Forward()).Normalize()
	}
	hr := right.Mul(sx / 2)
	hu := up.Mul(sy / 2)
	a := center.Sub(hr).Sub(hu)
	b := center.Add(hr).Sub(hu)
	c := center.Add(hr).Add(hu)
	d := center.Sub(hr).Add(hu)

	t, ok := rc.Ray.IntersectTriangle(a, b, c)
	if !ok {
		t, ok = rc.Ray.IntersectTriangle(a, c, d)
	}
	if !ok {
		return nil
	}
	p := rc.Ray.At(t)
	return []Hit{{Distance: t, Point: p, Node: n}}
}
