package assets

import (
	"bytes"
	"fmt"

	"github.com/hschendel/stl"

	"scene-editor/internal/scene"
)

// ParseSTL reads binary or ASCII STL into a single mesh with flat normals. Facet normals
// are recomputed when the file leaves them all zero.
func ParseSTL(data []byte) (*scene.Node, error) {
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: stl: %w", err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("%w: stl has no facets", ErrUnsupported)
	}
	n := len(solid.Triangles)
	geo := &scene.Geometry{
		Positions: make([]float32, 0, n*9),
		Normals:   make([]float32, 0, n*9),
	}
	for _, t := range solid.Triangles {
		for _, v := range t.Vertices {
			geo.Positions = append(geo.Positions, v[0], v[1], v[2])
			geo.Normals = append(geo.Normals, t.Normal[0], t.Normal[1], t.Normal[2])
		}
	}
	if zeroNormals(geo.Normals) {
		geo.Normals = nil
		geo.ComputeVertexNormals()
	}
	root := scene.NewGroup()
	root.AddChild(scene.NewMesh(geo, scene.NewStandard(scene.White, 0, 1)))
	return root, nil
}

func zeroNormals(n []float32) bool {
	for _, v := range n {
		if v != 0 {
			return false
		}
	}
	return true
}
