package particles

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
	"scene-editor/internal/textures"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

// geometry returns the first geometry under the system's node.
func geometry(s *System) *scene.Geometry {
	var g *scene.Geometry
	s.Node.Walk(func(n *scene.Node) bool {
		if g == nil && n.Geometry != nil {
			g = n.Geometry
		}
		return g == nil
	})
	return g
}

func TestBufferSizes(t *testing.T) {
	cases := map[sceneobj.ParticleType]int{
		sceneobj.Fire:  FireCount,
		sceneobj.Rain:  RainCount,
		sceneobj.Snow:  SnowCount,
		sceneobj.Steam: SteamCount,
		sceneobj.Fog:   FogCount,
		sceneobj.Magic: MagicCount,
		sceneobj.Water: 51 * 51,
	}
	for pt, n := range cases {
		t.Run(string(pt), func(t *testing.T) {
			s := New(pt, seeded())
			assert.Equal(t, n, s.Count())
			g := geometry(s)
			assert.Len(t, g.Positions, 3*n)
			s.Update(1)
			assert.Len(t, g.Positions, 3*n, "buffers are never reallocated")
		})
	}
}

func TestUnknownTypeIsEmpty(t *testing.T) {
	s := New("Lava", seeded())
	assert.Equal(t, scene.PointsNode, s.Node.Kind)
	assert.Zero(t, s.Count())
	assert.NotPanics(t, func() { s.Update(3) })
}

func TestRainWrapsToTop(t *testing.T) {
	s := New(sceneobj.Rain, seeded())
	for range 400 {
		s.Update(0)
	}
	pos := s.Node.Geometry.Positions
	for i := 1; i < len(pos); i += 3 {
		require.GreaterOrEqual(t, pos[i], float32(0))
		require.LessOrEqual(t, pos[i], float32(precipitationTop))
	}
}

func TestRainMaterial(t *testing.T) {
	m := New(sceneobj.Rain, seeded()).Node.Material
	assert.Equal(t, float32(0.05), m.Size)
	assert.Equal(t, float32(0.7), m.Opacity)
	assert.Same(t, textures.Dot(), m.Map)
	r, g, b := m.Color.RGB255()
	assert.Equal(t, [3]uint8{0x4a, 0x90, 0xe2}, [3]uint8{r, g, b})

	snow := New(sceneobj.Snow, seeded()).Node.Material
	assert.Equal(t, float32(0.08), snow.Size)
	assert.Equal(t, scene.White, snow.Color)
}

func TestMagicStaysInsideRadius(t *testing.T) {
	s := New(sceneobj.Magic, seeded())
	for range 2000 {
		s.Update(0)
	}
	pos := s.Node.Geometry.Positions
	for i := 0; i < len(pos); i += 3 {
		d := pos[i]*pos[i] + pos[i+1]*pos[i+1] + pos[i+2]*pos[i+2]
		require.LessOrEqual(t, d, float32(magicRadiusSq))
	}
	assert.Equal(t, scene.AdditiveBlending, s.Node.Material.Blending)
}

func TestFireFlicker(t *testing.T) {
	s := New(sceneobj.Fire, seeded())
	v := s.Node.Geometry.Version
	s.Update(0)
	m := s.Node.Material
	assert.Greater(t, s.Node.Geometry.Version, v)
	assert.GreaterOrEqual(t, m.Opacity, float32(0.5))
	assert.LessOrEqual(t, m.Opacity, float32(1))
	assert.True(t, m.VertexColors)
	assert.False(t, m.DepthWrite)

	col := s.Node.Geometry.Colors
	for i := 0; i < len(col); i += 3 {
		require.LessOrEqual(t, col[i+1], col[i], "orange: red leads")
		require.LessOrEqual(t, col[i+2], col[i+1])
	}
}

func TestFireColorRamp(t *testing.T) {
	hot := fireColor(3)
	assert.InDelta(t, 1, hot.R, 1e-6)
	assert.InDelta(t, 1, hot.B, 1e-6)
	dim := fireColor(0)
	assert.InDelta(t, 0.2, dim.R, 1e-6)
	assert.InDelta(t, 0.0, dim.B, 1e-6)
}

func TestSteamTurnsAndFades(t *testing.T) {
	s := New(sceneobj.Steam, seeded())
	s.Update(10)
	assert.InDelta(t, 1, s.Node.Rotation[1], 1e-6)
	col := s.Node.Geometry.Colors
	for i := 0; i < len(col); i += 3 {
		require.LessOrEqual(t, col[i], float32(0.75))
	}
}

func TestFogRotates(t *testing.T) {
	s := New(sceneobj.Fog, seeded())
	before := append([]float32(nil), s.Node.Geometry.Positions...)
	s.Update(50)
	assert.InDelta(t, 1, s.Node.Rotation[1], 1e-6)
	assert.Equal(t, before, s.Node.Geometry.Positions)
	assert.Equal(t, float32(20), s.Node.Material.Size)
}

func TestWaterWaves(t *testing.T) {
	s := New(sceneobj.Water, seeded())
	require.Equal(t, scene.GroupNode, s.Node.Kind)
	assert.Equal(t, mgl32.Vec3{}, s.Node.Rotation, "the root carries the object transform")
	require.Len(t, s.Node.Children(), 1)
	mesh := s.Node.Children()[0]
	require.Equal(t, scene.MeshNode, mesh.Kind)
	assert.True(t, mesh.ReceiveShadow)
	assert.InDelta(t, -1.5707963, mesh.Rotation[0], 1e-6)

	g := mesh.Geometry
	v := g.Version
	s.Update(2)
	assert.Greater(t, g.Version, v)
	x, y := g.Positions[0], g.Positions[1]
	assert.InDelta(t, waveHeight(x, y, 2), g.Positions[2], 1e-6)

	s.Update(4)
	assert.Equal(t, x, g.Positions[0], "rest positions drive the waves")
	assert.InDelta(t, waveHeight(x, y, 4), g.Positions[2], 1e-6)

	s.Dispose()
	assert.True(t, g.Disposed())
}

func TestOwnsYaw(t *testing.T) {
	for _, pt := range []sceneobj.ParticleType{sceneobj.Steam, sceneobj.Fog} {
		assert.True(t, New(pt, seeded()).OwnsYaw(), pt)
	}
	for _, pt := range []sceneobj.ParticleType{sceneobj.Fire, sceneobj.Rain, sceneobj.Snow, sceneobj.Magic, sceneobj.Water} {
		assert.False(t, New(pt, seeded()).OwnsYaw(), pt)
	}
}

func TestDisposeKeepsSharedTextures(t *testing.T) {
	s := New(sceneobj.Fire, seeded())
	s.Dispose()
	assert.True(t, s.Node.Geometry.Disposed())
	assert.False(t, textures.Spark().Disposed())
}

func TestDeterministicWithSeed(t *testing.T) {
	a := New(sceneobj.Snow, seeded())
	b := New(sceneobj.Snow, seeded())
	assert.Equal(t, a.Node.Geometry.Positions, b.Node.Geometry.Positions)
}
