package assets

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-editor/internal/scene"
)

// ParseGLTF reads a glTF JSON document with embedded buffers or a GLB container. The node
// hierarchy is flattened: every triangle primitive becomes one mesh under the returned
// group with its world transform baked into the vertices.
func ParseGLTF(data []byte, maxTexture int) (*scene.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("assets: gltf: %w", err)
	}
	p := gltfParser{doc: doc, root: scene.NewGroup(), maxTexture: maxTexture, textures: map[uint32]*scene.Texture{}}
	for _, n := range p.roots() {
		if err := p.node(n, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	if len(p.root.Children()) == 0 {
		return nil, fmt.Errorf("%w: gltf has no triangle meshes", ErrUnsupported)
	}
	return p.root, nil
}

type gltfParser struct {
	doc        *gltf.Document
	root       *scene.Node
	maxTexture int
	textures   map[uint32]*scene.Texture
}

func (p *gltfParser) roots() []uint32 {
	if len(p.doc.Scenes) > 0 {
		var i uint32
		if p.doc.Scene != nil && inRange(*p.doc.Scene, len(p.doc.Scenes)) {
			i = *p.doc.Scene
		}
		return p.doc.Scenes[i].Nodes
	}
	child := make(map[uint32]bool)
	for _, n := range p.doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var out []uint32
	for i := range uint32(len(p.doc.Nodes)) {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

// inRange reports whether glTF index i addresses one of n elements.
func inRange(i uint32, n int) bool { return uint64(i) < uint64(n) }

func (p *gltfParser) node(i uint32, parent mgl32.Mat4) error {
	if !inRange(i, len(p.doc.Nodes)) {
		return fmt.Errorf("assets: gltf: node %d out of range", i)
	}
	n := p.doc.Nodes[i]
	world := parent.Mul4(localMatrix(n))
	if n.Mesh != nil {
		if !inRange(*n.Mesh, len(p.doc.Meshes)) {
			return fmt.Errorf("assets: gltf: mesh %d out of range", *n.Mesh)
		}
		for _, prim := range p.doc.Meshes[*n.Mesh].Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, err := p.primitive(prim, world)
			if err != nil {
				return err
			}
			m.Name = n.Name
			p.root.AddChild(m)
		}
	}
	for _, c := range n.Children {
		if err := p.node(c, world); err != nil {
			return err
		}
	}
	return nil
}

func localMatrix(n *gltf.Node) mgl32.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (p *gltfParser) primitive(prim *gltf.Primitive, world mgl32.Mat4) (*scene.Node, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%w: gltf primitive without positions", ErrUnsupported)
	}
	if !inRange(posIdx, len(p.doc.Accessors)) {
		return nil, fmt.Errorf("assets: gltf: accessor %d out of range", posIdx)
	}
	positions, err := modeler.ReadPosition(p.doc, p.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("assets: gltf positions: %w", err)
	}
	part := &scene.Geometry{Positions: make([]float32, 0, 3*len(positions))}
	for _, v := range positions {
		part.Positions = append(part.Positions, v[0], v[1], v[2])
	}
	if i, ok := prim.Attributes[gltf.NORMAL]; ok && inRange(i, len(p.doc.Accessors)) {
		normals, err := modeler.ReadNormal(p.doc, p.doc.Accessors[i], nil)
		if err != nil {
			return nil, fmt.Errorf("assets: gltf normals: %w", err)
		}
		for _, v := range normals {
			part.Normals = append(part.Normals, v[0], v[1], v[2])
		}
	}
	if i, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && inRange(i, len(p.doc.Accessors)) {
		uvs, err := modeler.ReadTextureCoord(p.doc, p.doc.Accessors[i], nil)
		if err != nil {
			return nil, fmt.Errorf("assets: gltf uvs: %w", err)
		}
		for _, v := range uvs {
			part.UVs = append(part.UVs, v[0], v[1])
		}
	}
	if prim.Indices != nil && inRange(*prim.Indices, len(p.doc.Accessors)) {
		part.Indices, err = modeler.ReadIndices(p.doc, p.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("assets: gltf indices: %w", err)
		}
	}
	if len(part.Normals) != len(part.Positions) {
		part.Normals = nil
		part.ComputeVertexNormals()
	}
	geo := &scene.Geometry{}
	geo.Merge(part, world)
	mesh := scene.NewMesh(geo, p.material(prim.Material))
	mesh.CastShadow, mesh.ReceiveShadow = true, true
	return mesh, nil
}

func (p *gltfParser) material(idx *uint32) *scene.Material {
	if idx == nil || !inRange(*idx, len(p.doc.Materials)) {
		return scene.NewStandard(scene.White, 1, 1)
	}
	src := p.doc.Materials[*idx]
	m := scene.NewStandard(scene.White, 1, 1)
	m.DoubleSided = src.DoubleSided
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		c := pbr.BaseColorFactorOrDefault()
		// Factors are linear.
		m.Color = colorful.LinearRgb(c[0], c[1], c[2]).Clamped()
		if c[3] < 1 {
			m.Opacity, m.Transparent = float32(c[3]), true
		}
		m.Metalness = float32(pbr.MetallicFactorOrDefault())
		m.Roughness = float32(pbr.RoughnessFactorOrDefault())
		if pbr.BaseColorTexture != nil {
			m.Map = p.texture(pbr.BaseColorTexture.Index)
		}
	}
	return m
}

// texture decodes an embedded image once per glTF texture index. Failures leave the
// material untextured.
func (p *gltfParser) texture(i uint32) *scene.Texture {
	if t, ok := p.textures[i]; ok {
		return t
	}
	p.textures[i] = nil
	if !inRange(i, len(p.doc.Textures)) || p.doc.Textures[i].Source == nil || !inRange(*p.doc.Textures[i].Source, len(p.doc.Images)) {
		return nil
	}
	img := p.doc.Images[*p.doc.Textures[i].Source]
	var data []byte
	switch {
	case img.BufferView != nil && inRange(*img.BufferView, len(p.doc.BufferViews)):
		bv := p.doc.BufferViews[*img.BufferView]
		if !inRange(bv.Buffer, len(p.doc.Buffers)) {
			return nil
		}
		buf := p.doc.Buffers[bv.Buffer].Data
		end := uint64(bv.ByteOffset) + uint64(bv.ByteLength)
		if end > uint64(len(buf)) {
			return nil
		}
		data = buf[bv.ByteOffset:end]
	case img.IsEmbeddedResource():
		var err error
		if data, err = img.MarshalData(); err != nil {
			return nil
		}
	default:
		return nil
	}
	rgba, _, err := DecodeImage(data, p.maxTexture)
	if err != nil {
		return nil
	}
	t := scene.NewTexture(rgba)
	p.textures[i] = t
	return t
}
