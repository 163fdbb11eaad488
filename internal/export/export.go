// Package export writes the visible scene to binary glTF or Wavefront OBJ.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// Format is an export target.
type Format string

const (
	GLB Format = "glb"
	OBJ Format = "obj"
)

// ErrFormat is returned for an unknown export format.
var ErrFormat = errors.New("export: unknown format")

// ParseFormat accepts "glb", "gltf" (always written binary) and "obj".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glb", "gltf":
		return GLB, nil
	case "obj":
		return OBJ, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// Group clones nodes into a fresh group so exporting never touches the live scene.
func Group(nodes []*scene.Node) *scene.Node {
	g := scene.NewGroup()
	g.Name = "export"
	for _, n := range nodes {
		if n.Visible {
			g.AddChild(n.Clone())
		}
	}
	return g
}

// Write clones nodes and encodes them as f.
func Write(w io.Writer, nodes []*scene.Node, f Format) error {
	g := Group(nodes)
	switch f {
	case GLB:
		return WriteGLB(w, g)
	case OBJ:
		return WriteOBJ(w, g)
	}
	return fmt.Errorf("%w: %q", ErrFormat, string(f))
}

// WriteOBJ writes every visible mesh under root in world space relative to root.
// Vertex indices are global across objects, as OBJ requires.
func WriteOBJ(w io.Writer, root *scene.Node) error {
	bw := bufio.NewWriter(w)
	var nv, nt, nn int
	var err error
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible || err != nil {
			return false
		}
		if n.Kind != scene.MeshNode || n.Geometry == nil || n.Geometry.TriangleCount() == 0 {
			return true
		}
		err = writeOBJMesh(bw, n, &nv, &nt, &nn)
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("export: obj: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: obj: %w", err)
	}
	return nil
}

func writeOBJMesh(w *bufio.Writer, n *scene.Node, nv, nt, nn *int) error {
	g := n.Geometry
	world := n.WorldMatrix()
	normalMat := world.Mat3().Inv().Transpose()
	name := n.Name
	if name == "" {
		name = "mesh"
	}
	fmt.Fprintf(w, "o %s\n", name)
	for i := range g.VertexCount() {
		v := mgl32.TransformCoordinate(g.Vertex(i), world)
		fmt.Fprintf(w, "v %g %g %g\n", v[0], v[1], v[2])
	}
	hasUV := len(g.UVs) >= 2*g.VertexCount()
	if hasUV {
		for i := range g.VertexCount() {
			fmt.Fprintf(w, "vt %g %g\n", g.UVs[2*i], g.UVs[2*i+1])
		}
	}
	hasN := len(g.Normals) >= 3*g.VertexCount()
	if hasN {
		for i := range g.VertexCount() {
			nrm := normalMat.Mul3x1(mgl32.Vec3{g.Normals[3*i], g.Normals[3*i+1], g.Normals[3*i+2]})
			if nrm.Len() > 0 {
				nrm = nrm.Normalize()
			}
			fmt.Fprintf(w, "vn %g %g %g\n", nrm[0], nrm[1], nrm[2])
		}
	}
	for t := range g.TriangleCount() {
		a, b, c := g.Triangle(t)
		w.WriteString("f")
		for _, i := range [3]int{a, b, c} {
			switch {
			case hasUV && hasN:
				fmt.Fprintf(w, " %d/%d/%d", *nv+i+1, *nt+i+1, *nn+i+1)
			case hasN:
				fmt.Fprintf(w, " %d//%d", *nv+i+1, *nn+i+1)
			case hasUV:
				fmt.Fprintf(w, " %d/%d", *nv+i+1, *nt+i+1)
			default:
				fmt.Fprintf(w, " %d", *nv+i+1)
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return err
		}
	}
	*nv += g.VertexCount()
	if hasUV {
		*nt += g.VertexCount()
	}
	if hasN {
		*nn += g.VertexCount()
	}
	return nil
}
