package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-editor/internal/scene"
)

// WriteGLB encodes the tree under root as a binary glTF container. Node transforms
// are kept as local matrices; meshes carry a PBR material and their base color map.
// Nodes without geometry, such as audio billboards, stay as empty transform nodes.
func WriteGLB(w io.Writer, root *scene.Node) error {
	e := &glbWriter{doc: gltf.NewDocument(), materials: map[*scene.Material]uint32{}, textures: map[*scene.Texture]uint32{}}
	idx, err := e.node(root)
	if err != nil {
		return fmt.Errorf("export: glb: %w", err)
	}
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, idx)

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(e.doc); err != nil {
		return fmt.Errorf("export: glb: %w", err)
	}
	return nil
}

type glbWriter struct {
	doc       *gltf.Document
	materials map[*scene.Material]uint32
	textures  map[*scene.Texture]uint32
}

func (e *glbWriter) node(n *scene.Node) (uint32, error) {
	m := n.LocalMatrix()
	var mat [16]float64
	for i, v := range m {
		mat[i] = float64(v)
	}
	gn := &gltf.Node{
		Name:     n.Name,
		Matrix:   mat,
		Rotation: gltf.DefaultRotation,
		Scale:    gltf.DefaultScale,
	}
	if n.Kind == scene.MeshNode && n.Geometry != nil && n.Geometry.TriangleCount() > 0 {
		mesh, err := e.mesh(n)
		if err != nil {
			return 0, err
		}
		gn.Mesh = gltf.Index(mesh)
	}
	idx := uint32(len(e.doc.Nodes))
	e.doc.Nodes = append(e.doc.Nodes, gn)
	for _, c := range n.Children() {
		if !c.Visible {
			continue
		}
		ci, err := e.node(c)
		if err != nil {
			return 0, err
		}
		gn.Children = append(gn.Children, ci)
	}
	return idx, nil
}

func (e *glbWriter) mesh(n *scene.Node) (uint32, error) {
	g := n.Geometry
	count := g.VertexCount()
	pos := make([][3]float32, count)
	for i := range count {
		pos[i] = g.Vertex(i)
	}
	attrs := gltf.Attribute{gltf.POSITION: modeler.WritePosition(e.doc, pos)}
	if len(g.Normals) >= 3*count {
		nrm := make([][3]float32, count)
		for i := range count {
			nrm[i] = [3]float32{g.Normals[3*i], g.Normals[3*i+1], g.Normals[3*i+2]}
		}
		attrs[gltf.NORMAL] = modeler.WriteNormal(e.doc, nrm)
	}
	if len(g.UVs) >= 2*count {
		uv := make([][2]float32, count)
		for i := range count {
			uv[i] = [2]float32{g.UVs[2*i], g.UVs[2*i+1]}
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(e.doc, uv)
	}
	indices := make([]uint32, 0, 3*g.TriangleCount())
	for t := range g.TriangleCount() {
		a, b, c := g.Triangle(t)
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}
	prim := &gltf.Primitive{
		Attributes: attrs,
		Indices:    gltf.Index(modeler.WriteIndices(e.doc, indices)),
	}
	if n.Material != nil {
		mi, err := e.material(n.Material)
		if err != nil {
			return 0, err
		}
		prim.Material = gltf.Index(mi)
	}
	idx := uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{Name: n.Name, Primitives: []*gltf.Primitive{prim}})
	return idx, nil
}

// material converts colors to linear space, as glTF factors are linear.
func (e *glbWriter) material(m *scene.Material) (uint32, error) {
	if i, ok := e.materials[m]; ok {
		return i, nil
	}
	r, g, b := m.Color.LinearRgb()
	alpha := float64(m.Opacity)
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float64{r, g, b, alpha},
		MetallicFactor:  gltf.Float(float64(m.Metalness)),
		RoughnessFactor: gltf.Float(float64(m.Roughness)),
	}
	if m.Kind != scene.StandardMaterial {
		pbr.MetallicFactor = gltf.Float(0)
		pbr.RoughnessFactor = gltf.Float(1)
	}
	gm := &gltf.Material{Name: materialName(m), PBRMetallicRoughness: pbr, DoubleSided: m.DoubleSided}
	if m.Transparent || alpha < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	if m.Map != nil {
		ti, ok, err := e.texture(m.Map)
		if err != nil {
			return 0, err
		}
		if ok {
			pbr.BaseColorTexture = &gltf.TextureInfo{Index: ti}
		}
	}
	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, gm)
	e.materials[m] = idx
	return idx, nil
}

func materialName(m *scene.Material) string {
	switch m.Kind {
	case scene.BasicMaterial:
		return "basic"
	case scene.SpriteMaterial:
		return "sprite"
	}
	return "standard"
}

// texture embeds the current frame of t as PNG. Disposed or empty textures are skipped.
func (e *glbWriter) texture(t *scene.Texture) (uint32, bool, error) {
	if i, ok := e.textures[t]; ok {
		return i, true, nil
	}
	img := t.Current()
	if img == nil || t.Disposed() {
		return 0, false, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, false, err
	}
	ii, err := modeler.WriteImage(e.doc, t.Name, "image/png", &buf)
	if err != nil {
		return 0, false, err
	}
	idx := uint32(len(e.doc.Textures))
	e.doc.Textures = append(e.doc.Textures, &gltf.Texture{Source: gltf.Index(ii)})
	e.textures[t] = idx
	return idx, true, nil
}
