package primitives

// PrimitiveDef is the YAML definition for a primitive kind (see primitives.yaml).
// Size holds the kind's shape parameters; what each entry means depends on Type:
// box (width, height, depth), sphere (radius), cylinder (top radius, bottom radius, height),
// cone (radius, height), plane (width, height), text (size, depth).
type PrimitiveDef struct {
	Type      string    `yaml:"type"`
	Shape     string    `yaml:"shape"`
	Size      []float32 `yaml:"size,omitempty"`
	Segments  []int     `yaml:"segments,omitempty"`
	Metalness float32   `yaml:"metalness"`
	Roughness float32   `yaml:"roughness"`
	// CastShadow is false for flat kinds that would only shadow themselves.
	CastShadow bool `yaml:"cast_shadow"`
}

// Dim returns Size[i], or fallback when the definition leaves it out.
func (d PrimitiveDef) Dim(i int, fallback float32) float32 {
	if i < len(d.Size) {
		return d.Size[i]
	}
	return fallback
}

// Segs returns Segments[i], or fallback when absent or not positive.
func (d PrimitiveDef) Segs(i int, fallback int) int {
	if i < len(d.Segments) && d.Segments[i] > 0 {
		return d.Segments[i]
	}
	return fallback
}
