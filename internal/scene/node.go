package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeKind says how a node is drawn and hit-tested.
type NodeKind int

const (
	GroupNode NodeKind = iota
	MeshNode
	PointsNode
	SpriteNode
)

func (k NodeKind) String() string {
	switch k {
	case MeshNode:
		return "mesh"
	case PointsNode:
		return "points"
	case SpriteNode:
		return "sprite"
	}
	return "group"
}

// Node is an element of the retained scene graph. Transform fields are local to the parent;
// Rotation is Euler XYZ in radians. Tag carries the id of the scene object a node represents
// (empty on helper and inner nodes).
type Node struct {
	Name     string
	Kind     NodeKind
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	Visible  bool
	Tag      string
	// TagKind is the object kind string of a tagged node, used by picking.
	TagKind string

	Geometry      *Geometry
	Material      *Material
	CastShadow    bool
	ReceiveShadow bool

	parent   *Node
	children []*Node
}

func newNode(kind NodeKind) *Node {
	return &Node{Kind: kind, Scale: mgl32.Vec3{1, 1, 1}, Visible: true}
}

// NewGroup returns an empty visible group.
func NewGroup() *Node { return newNode(GroupNode) }

// NewMesh returns a mesh node drawing g with m.
func NewMesh(g *Geometry, m *Material) *Node {
	n := newNode(MeshNode)
	n.Geometry, n.Material = g, m
	return n
}

// NewPoints returns a point cloud node; every vertex of g is one point.
func NewPoints(g *Geometry, m *Material) *Node {
	n := newNode(PointsNode)
	n.Geometry, n.Material = g, m
	return n
}

// NewSprite returns a camera-facing unit quad textured by m.
func NewSprite(m *Material) *Node {
	n := newNode(SpriteNode)
	n.Material = m
	return n
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends child to n, detaching it from any previous parent.
// Panics if child is n or one of its ancestors.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			panic("scene: AddChild would create a cycle")
		}
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from n. Does nothing when child is not a direct child.
func (n *Node) RemoveChild(child *Node) {
	i := slices.Index(n.children, child)
	if i < 0 {
		return
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
}

// RemoveFromParent detaches n from its parent.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn skips the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in the subtree whose Tag equals tag.
func (n *Node) Find(tag string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Tag == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

// SetTransform copies position, Euler rotation and scale in one call.
func (n *Node) SetTransform(pos, rot, scale mgl32.Vec3) {
	n.Position, n.Rotation, n.Scale = pos, rot, scale
}

// LocalMatrix returns T * R(xyz) * S.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := EulerMatrix(n.Rotation)
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes local matrices up to the root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldVisible reports whether n and every ancestor are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// BoundingBox returns the world-space box of every geometry in the subtree.
func (n *Node) BoundingBox() Box3 {
	box := EmptyBox()
	n.Walk(func(c *Node) bool {
		if c.Geometry != nil && c.Geometry.VertexCount() > 0 {
			box = box.Union(c.Geometry.BoundingBox().ApplyMatrix(c.WorldMatrix()))
		}
		return true
	})
	return box
}

// Clone copies the subtree. Geometries and materials are shared with the original,
// so clones are for read-only consumers such as exporters.
func (n *Node) Clone() *Node {
	c := *n
	c.parent = nil
	c.children = nil
	for _, ch := range n.children {
		c.AddChild(ch.Clone())
	}
	return &c
}

// Dispose detaches n and releases the geometry, materials and owned textures of the subtree.
func (n *Node) Dispose() {
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	for _, c := range n.children {
		c.parent = nil
		c.dispose()
	}
	n.children = nil
	if n.Geometry != nil {
		n.Geometry.Dispose()
	}
	if n.Material != nil {
		n.Material.Dispose()
	}
}

// EulerMatrix builds a rotation matrix for Euler angles applied in XYZ order,
// matching R = Rx * Ry * Rz.
func EulerMatrix(e mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(e.X()).Mul4(mgl32.HomogRotate3DY(e.Y())).Mul4(mgl32.HomogRotate3DZ(e.Z()))
}
