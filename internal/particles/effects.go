package particles

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"

	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
	"scene-editor/internal/textures"
)

const (
	FireCount  = 500
	RainCount  = 5000
	SnowCount  = 10000
	SteamCount = 300
	FogCount   = 200
	MagicCount = 1000

	precipitationTop = 15
	magicRadiusSq    = 100
	fireHue          = 0.1
)

type fire struct {
	rng        *rand.Rand
	n          *scene.Node
	lifespans  []float32
	velocities []float32
}

func newFire(rng *rand.Rand) *fire {
	g := &scene.Geometry{
		Positions: make([]float32, 3*FireCount),
		Colors:    make([]float32, 3*FireCount),
	}
	f := &fire{
		rng:        rng,
		lifespans:  make([]float32, FireCount),
		velocities: make([]float32, 3*FireCount),
	}
	for i := range FireCount {
		f.lifespans[i] = f.lifespan()
		f.spawn(g.Positions[3*i:])
		f.velocities[3*i] = spread(rng, 0.1)
		f.velocities[3*i+1] = rng.Float32()*1.5 + 0.5
		f.velocities[3*i+2] = spread(rng, 0.1)
	}
	m := pointsMaterial(0.8)
	m.Map = textures.Spark()
	m.Blending = scene.AdditiveBlending
	m.VertexColors = true
	f.n = scene.NewPoints(g, m)
	return f
}

func (f *fire) lifespan() float32 { return f.rng.Float32()*2 + 1 }

func (f *fire) spawn(p []float32) {
	p[0] = spread(f.rng, 2)
	p[1] = f.rng.Float32()
	p[2] = spread(f.rng, 2)
}

func (f *fire) node() *scene.Node { return f.n }
func (f *fire) count() int        { return FireCount }

// update ages every particle by one tick and colors it by an orange HSL ramp.
// The life ratio divides by a freshly drawn lifespan each tick rather than the particle's
// own, which makes the flame flicker; keep it that way.
func (f *fire) update(float32) {
	g := f.n.Geometry
	pos, col := g.Positions, g.Colors
	for i := range FireCount {
		i3 := 3 * i
		f.lifespans[i] -= tick
		if f.lifespans[i] <= 0 {
			f.lifespans[i] = f.lifespan()
			f.spawn(pos[i3:])
		}
		pos[i3+1] += f.velocities[i3+1] * tick

		ratio := f.lifespans[i] / f.lifespan()
		c := fireColor(ratio)
		col[i3], col[i3+1], col[i3+2] = float32(c.R), float32(c.G), float32(c.B)
	}
	g.MarkDirty()
	f.n.Material.SetOpacity(f.rng.Float32()*0.5 + 0.5)
}

func fireColor(ratio float32) colorful.Color {
	l := math32.Min(math32.Max(ratio*0.6+0.1, 0), 1)
	return colorful.Hsl(fireHue*360, 1, float64(l))
}

type precipitation struct {
	n          *scene.Node
	velocities []float32
	total      int
}

func newPrecipitation(rng *rand.Rand, snow bool) *precipitation {
	total := RainCount
	if snow {
		total = SnowCount
	}
	g := &scene.Geometry{Positions: make([]float32, 3*total)}
	p := &precipitation{velocities: make([]float32, 3*total), total: total}
	for i := range total {
		i3 := 3 * i
		g.Positions[i3] = spread(rng, 20)
		g.Positions[i3+1] = rng.Float32() * precipitationTop
		g.Positions[i3+2] = spread(rng, 20)
		if snow {
			p.velocities[i3] = spread(rng, 0.02)
			p.velocities[i3+1] = -rng.Float32()*0.05 - 0.05
			p.velocities[i3+2] = spread(rng, 0.02)
		} else {
			p.velocities[i3+1] = -rng.Float32()*0.2 - 0.1
		}
	}
	m := pointsMaterial(0.05)
	m.Map = textures.Dot()
	m.Opacity = 0.7
	m.Color = scene.HexColor("#4A90E2")
	if snow {
		m.Size = 0.08
		m.Opacity = 1
		m.Color = scene.White
	}
	p.n = scene.NewPoints(g, m)
	return p
}

func (p *precipitation) node() *scene.Node { return p.n }
func (p *precipitation) count() int        { return p.total }

// update moves every drop by its velocity and wraps drops below the ground back to the top.
func (p *precipitation) update(float32) {
	g := p.n.Geometry
	pos := g.Positions
	for i := 0; i < len(pos); i += 3 {
		pos[i] += p.velocities[i]
		pos[i+1] += p.velocities[i+1]
		pos[i+2] += p.velocities[i+2]
		if pos[i+1] < 0 {
			pos[i+1] = precipitationTop
		}
	}
	g.MarkDirty()
}

type steam struct {
	rng       *rand.Rand
	n         *scene.Node
	lifespans []float32
}

func newSteam(rng *rand.Rand) *steam {
	g := &scene.Geometry{
		Positions: make([]float32, 3*SteamCount),
		Colors:    make([]float32, 3*SteamCount),
	}
	s := &steam{rng: rng, lifespans: make([]float32, SteamCount)}
	for i := range SteamCount {
		s.lifespans[i] = s.lifespan()
		s.spawn(g.Positions[3*i:])
		g.Colors[3*i], g.Colors[3*i+1], g.Colors[3*i+2] = 0.6, 0.6, 0.6
	}
	m := pointsMaterial(0.8)
	m.Map = textures.Smoke()
	m.VertexColors = true
	m.Opacity = 0.5
	s.n = scene.NewPoints(g, m)
	return s
}

func (s *steam) lifespan() float32 { return s.rng.Float32()*4 + 1 }

func (s *steam) spawn(p []float32) {
	p[0] = spread(s.rng, 1)
	p[1] = s.rng.Float32()
	p[2] = spread(s.rng, 1)
}

func (s *steam) node() *scene.Node { return s.n }
func (s *steam) count() int        { return SteamCount }
func (s *steam) yaws() bool        { return true }

func (s *steam) update(elapsed float32) {
	g := s.n.Geometry
	pos, col := g.Positions, g.Colors
	for i := range SteamCount {
		i3 := 3 * i
		s.lifespans[i] -= tick
		if s.lifespans[i] <= 0 {
			s.lifespans[i] = s.lifespan()
			s.spawn(pos[i3:])
		}
		pos[i3+1] += 0.05
		grey := s.lifespans[i] / 4 * 0.6
		col[i3], col[i3+1], col[i3+2] = grey, grey, grey
	}
	s.n.Rotation[1] = elapsed * 0.1
	g.MarkDirty()
}

type fog struct{ n *scene.Node }

func newFog(rng *rand.Rand) *fog {
	g := &scene.Geometry{Positions: make([]float32, 3*FogCount)}
	for i := 0; i < len(g.Positions); i += 3 {
		g.Positions[i] = spread(rng, 40)
		g.Positions[i+1] = spread(rng, 10)
		g.Positions[i+2] = spread(rng, 40)
	}
	m := pointsMaterial(20)
	m.Map = textures.Smoke()
	m.Color = scene.HexColor("#aaaaaa")
	m.Opacity = 0.15
	return &fog{n: scene.NewPoints(g, m)}
}

func (f *fog) node() *scene.Node { return f.n }
func (f *fog) count() int        { return FogCount }
func (f *fog) yaws() bool        { return true }

// update only turns the bank; the particles themselves are static.
func (f *fog) update(elapsed float32) {
	f.n.Rotation[1] = elapsed * 0.02
}

type magic struct {
	n          *scene.Node
	velocities []float32
}

func newMagic(rng *rand.Rand) *magic {
	g := &scene.Geometry{Positions: make([]float32, 3*MagicCount)}
	m := &magic{velocities: make([]float32, 3*MagicCount)}
	for i := 0; i < len(m.velocities); i += 3 {
		theta := rng.Float32() * math32.Pi * 2
		phi := math32.Acos(2*rng.Float32() - 1)
		m.velocities[i] = math32.Sin(phi) * math32.Cos(theta) * (rng.Float32()*2 + 1)
		m.velocities[i+1] = math32.Sin(phi) * math32.Sin(theta) * (rng.Float32()*2 + 1)
		m.velocities[i+2] = math32.Cos(phi) * (rng.Float32()*2 + 1)
	}
	mat := pointsMaterial(0.3)
	mat.Map = textures.Spark()
	mat.Blending = scene.AdditiveBlending
	m.n = scene.NewPoints(g, mat)
	return m
}

func (m *magic) node() *scene.Node { return m.n }
func (m *magic) count() int        { return MagicCount }

// update drifts every spark outward and recycles those past radius 10 to the origin.
func (m *magic) update(float32) {
	g := m.n.Geometry
	pos := g.Positions
	for i := 0; i < len(pos); i += 3 {
		pos[i] += m.velocities[i] * 0.01
		pos[i+1] += m.velocities[i+1] * 0.01
		pos[i+2] += m.velocities[i+2] * 0.01
		if pos[i]*pos[i]+pos[i+1]*pos[i+1]+pos[i+2]*pos[i+2] > magicRadiusSq {
			pos[i], pos[i+1], pos[i+2] = 0, 0, 0
		}
	}
	g.MarkDirty()
}

// water is a group holding the wave mesh tilted to lie in the XZ plane, so the object's
// own transform applies on top of the tilt.
type water struct {
	root *scene.Node
	mesh *scene.Node
	rest []float32
}

func newWater() *water {
	g := primitives.Plane(100, 100, 50, 50)
	m := scene.NewStandard(scene.HexColor("#006994"), 0.4, 0.2)
	m.Transparent = true
	m.Opacity = 0.85
	mesh := scene.NewMesh(g, m)
	mesh.Rotation[0] = -math32.Pi / 2
	mesh.ReceiveShadow = true
	root := scene.NewGroup()
	root.AddChild(mesh)
	rest := make([]float32, len(g.Positions))
	copy(rest, g.Positions)
	return &water{root: root, mesh: mesh, rest: rest}
}

func (w *water) node() *scene.Node { return w.root }
func (w *water) count() int        { return w.mesh.Geometry.VertexCount() }

// update displaces each vertex along the plane normal by three summed waves evaluated
// at its rest position, then recomputes normals.
func (w *water) update(elapsed float32) {
	g := w.mesh.Geometry
	pos := g.Positions
	for i := 0; i < len(pos); i += 3 {
		pos[i+2] = waveHeight(w.rest[i], w.rest[i+1], elapsed)
	}
	g.ComputeVertexNormals()
}

func waveHeight(x, y, t float32) float32 {
	z1 := math32.Sin(x*0.1+t*0.5) * 0.4
	z2 := math32.Cos(y*0.05+t*0.8) * 0.3
	z3 := math32.Sin((x+y)*0.02+t*0.3) * 0.5
	return z1 + z2 + z3
}
