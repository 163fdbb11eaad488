package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"scene-editor/internal/scene"
)

// ParseOBJ reads Wavefront OBJ text into a group with one mesh per "o"/"g" section.
// Faces with more than three corners are fan-triangulated. Materials are ignored; every
// mesh gets a white standard material.
func ParseOBJ(data []byte) (*scene.Node, error) {
	var (
		pos, norm, uv []float32
		root          = scene.NewGroup()
		cur           = &objGroup{}
		groups        []*objGroup
	)
	flush := func(name string) {
		if len(cur.pos) > 0 {
			groups = append(groups, cur)
		}
		cur = &objGroup{name: name}
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			pos, err = appendFloats(pos, fields[1:], 3)
		case "vn":
			norm, err = appendFloats(norm, fields[1:], 3)
		case "vt":
			uv, err = appendFloats(uv, fields[1:], 2)
		case "o", "g":
			flush(strings.Join(fields[1:], " "))
		case "f":
			err = cur.face(fields[1:], pos, norm, uv)
		}
		if err != nil {
			return nil, fmt.Errorf("assets: obj line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("assets: obj: %w", err)
	}
	flush("")
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: obj has no faces", ErrUnsupported)
	}
	for _, g := range groups {
		geo := &scene.Geometry{Positions: g.pos}
		if len(g.norm) == len(g.pos) {
			geo.Normals = g.norm
		} else {
			geo.ComputeVertexNormals()
		}
		if len(g.uv)/2 == len(g.pos)/3 {
			geo.UVs = g.uv
		}
		m := scene.NewMesh(geo, scene.NewStandard(scene.White, 0, 1))
		m.Name = g.name
		root.AddChild(m)
	}
	return root, nil
}

type objGroup struct {
	name          string
	pos, norm, uv []float32
}

// face appends a triangulated face. Indices are 1-based; negative values count back
// from the end of the list.
func (g *objGroup) face(corners []string, pos, norm, uv []float32) error {
	if len(corners) < 3 {
		return fmt.Errorf("face with %d corners", len(corners))
	}
	type ref struct{ v, t, n int }
	refs := make([]ref, len(corners))
	for i, c := range corners {
		parts := strings.Split(c, "/")
		var err error
		if refs[i].v, err = objIndex(parts[0], len(pos)/3); err != nil {
			return err
		}
		refs[i].t, refs[i].n = -1, -1
		if len(parts) > 1 && parts[1] != "" {
			if refs[i].t, err = objIndex(parts[1], len(uv)/2); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if refs[i].n, err = objIndex(parts[2], len(norm)/3); err != nil {
				return err
			}
		}
	}
	add := func(r ref) {
		g.pos = append(g.pos, pos[3*r.v:3*r.v+3]...)
		if r.n >= 0 {
			g.norm = append(g.norm, norm[3*r.n:3*r.n+3]...)
		}
		if r.t >= 0 {
			g.uv = append(g.uv, uv[2*r.t:2*r.t+2]...)
		}
	}
	for i := 1; i+1 < len(refs); i++ {
		add(refs[0])
		add(refs[i])
		add(refs[i+1])
	}
	return nil
}

func objIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i += count
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range", s)
	}
	return i, nil
}

func appendFloats(dst []float32, fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return dst, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	for _, f := range fields[:n] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dst, err
		}
		dst = append(dst, float32(v))
	}
	return dst, nil
}
