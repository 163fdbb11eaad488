package graphics

import (
	"runtime"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"scene-editor/internal/manip"
	"scene-editor/internal/scene"
)

const (
	// panoramaScale is the edge of the cube the panorama is drawn on, centred on the camera.
	panoramaScale = 1000
	// ambientScale and sunScale map scene light intensities onto the shader's range.
	ambientScale     = 0.3
	sunScale         = 0.65
	specularStrength = 0.35

	// Grid line opacity as multiples of scene.Grid.Opacity.
	gridMinorAlpha = 2
	gridMajorAlpha = 4
	axisLineAlpha  = 220
)

var (
	colorGray  = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	axisColors = map[manip.Axis]rl.Color{
		manip.AxisX:   rl.NewColor(230, 70, 70, 255),
		manip.AxisY:   rl.NewColor(70, 210, 70, 255),
		manip.AxisZ:   rl.NewColor(70, 110, 240, 255),
		manip.AxisAll: rl.NewColor(220, 220, 220, 255),
	}
	activeHandleColor = rl.NewColor(255, 220, 40, 255)
)

type gpuMesh struct {
	mesh    rl.Mesh
	version uint64
	seen    uint64
}

type gpuTexture struct {
	tex    rl.Texture2D
	rev    uint64
	w, h   int
	seen   uint64
	loaded bool
}

// FrameStats counts what the last Draw submitted.
type FrameStats struct {
	Meshes, Points, Sprites int
	GPUMeshes, GPUTextures  int
}

// Renderer draws a scene.Scene with raylib. It uploads geometry and textures on first
// use, re-uploads them when their Version changes and frees them once they leave the
// scene. It must be created and used on the thread that owns the window.
type Renderer struct {
	shader   rl.Shader
	material rl.Material
	white    rl.Texture2D
	locs     struct {
		viewPos, lightDir, ambient, lightColor, lightIntensity, specular, unlit int32
	}

	sky struct {
		mesh     rl.Mesh
		material rl.Material
		camPos   int32
	}

	camera   rl.Camera3D
	meshes   map[*scene.Geometry]*gpuMesh
	textures map[*scene.Texture]*gpuTexture
	frame    uint64
	stats    FrameStats

	transparent []*scene.Node
}

// NewRenderer compiles the shaders. Call after the window exists.
func NewRenderer() *Renderer {
	r := &Renderer{
		meshes:   make(map[*scene.Geometry]*gpuMesh),
		textures: make(map[*scene.Texture]*gpuTexture),
	}
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	r.material = rl.LoadMaterialDefault()
	r.white = r.material.GetMap(rl.MapAlbedo).Texture
	if rl.IsShaderValid(r.shader) {
		r.material.Shader = r.shader
		r.locs.viewPos = rl.GetShaderLocation(r.shader, "viewPos")
		r.locs.lightDir = rl.GetShaderLocation(r.shader, "lightDir")
		r.locs.ambient = rl.GetShaderLocation(r.shader, "ambient")
		r.locs.lightColor = rl.GetShaderLocation(r.shader, "lightColor")
		r.locs.lightIntensity = rl.GetShaderLocation(r.shader, "lightIntensity")
		r.locs.specular = rl.GetShaderLocation(r.shader, "specularStrength")
		r.locs.unlit = rl.GetShaderLocation(r.shader, "unlit")
	}

	r.sky.mesh = rl.GenMeshCube(1, 1, 1)
	r.sky.material = rl.LoadMaterialDefault()
	if sh := rl.LoadShaderFromMemory(equirectVS, equirectFS); rl.IsShaderValid(sh) {
		r.sky.material.Shader = sh
		r.sky.camPos = rl.GetShaderLocation(sh, "cameraPosition")
	}
	return r
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// Camera returns the raylib camera of the last frame.
func (r *Renderer) Camera() rl.Camera3D { return r.camera }

// Draw renders s from cam, then the handles of m when it is attached. Call between
// BeginDrawing and EndDrawing.
func (r *Renderer) Draw(s *scene.Scene, cam *scene.Camera, m *manip.Manipulator) {
	r.frame++
	r.stats = FrameStats{}
	r.camera = rl.Camera3D{
		Position:   vec3(cam.Position),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up),
		Fovy:       cam.Fov,
		Projection: rl.CameraPerspective,
	}

	rl.ClearBackground(rgba(s.Background, 1))
	rl.BeginMode3D(r.camera)
	if s.Panorama != nil {
		r.drawPanorama(s.Panorama, cam.Position)
	}
	if s.Grid.Visible {
		drawGrid(s.Grid)
	}
	r.setLights(s, cam.Position)

	r.transparent = r.transparent[:0]
	s.Root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		switch n.Kind {
		case scene.MeshNode:
			if n.Material != nil && (n.Material.Transparent || n.Material.Opacity < 1) {
				r.transparent = append(r.transparent, n)
			} else {
				r.drawMesh(n)
			}
		case scene.PointsNode:
			r.transparent = append(r.transparent, n)
		case scene.SpriteNode:
			r.transparent = append(r.transparent, n)
		}
		return true
	})
	// Back to front so blended surfaces composite over what is behind them.
	slices.SortFunc(r.transparent, func(a, b *scene.Node) int {
		da := a.WorldPosition().Sub(cam.Position).LenSqr()
		db := b.WorldPosition().Sub(cam.Position).LenSqr()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	for _, n := range r.transparent {
		switch n.Kind {
		case scene.MeshNode:
			r.drawMesh(n)
		case scene.PointsNode:
			r.drawPoints(n)
		case scene.SpriteNode:
			r.drawSprite(n)
		}
	}
	if m != nil {
		drawHandles(m)
	}
	rl.EndMode3D()
	r.sweep()
	r.stats.GPUMeshes, r.stats.GPUTextures = len(r.meshes), len(r.textures)
}

func (r *Renderer) setLights(s *scene.Scene, eye mgl32.Vec3) {
	if !rl.IsShaderValid(r.shader) {
		return
	}
	dir := s.Sun.Direction()
	amb := s.Ambient.Color
	a := s.Ambient.Intensity * ambientScale
	sun := s.Sun.Color
	rl.SetShaderValueV(r.shader, r.locs.viewPos, []float32{eye[0], eye[1], eye[2]}, rl.ShaderUniformVec3, 1)
	rl.SetShaderValueV(r.shader, r.locs.lightDir, []float32{dir[0], dir[1], dir[2]}, rl.ShaderUniformVec3, 1)
	rl.SetShaderValueV(r.shader, r.locs.ambient, []float32{float32(amb.R) * a, float32(amb.G) * a, float32(amb.B) * a, 1}, rl.ShaderUniformVec4, 1)
	rl.SetShaderValueV(r.shader, r.locs.lightColor, []float32{float32(sun.R), float32(sun.G), float32(sun.B)}, rl.ShaderUniformVec3, 1)
	rl.SetShaderValue(r.shader, r.locs.lightIntensity, []float32{s.Sun.Intensity * sunScale}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.locs.specular, []float32{specularStrength}, rl.ShaderUniformFloat)
}

func (r *Renderer) drawPanorama(t *scene.Texture, eye mgl32.Vec3) {
	tex, ok := r.texture(t)
	if !ok {
		return
	}
	rl.SetMaterialTexture(&r.sky.material, rl.MapAlbedo, tex)
	if r.sky.camPos >= 0 {
		rl.SetShaderValueV(r.sky.material.Shader, r.sky.camPos, []float32{eye[0], eye[1], eye[2]}, rl.ShaderUniformVec3, 1)
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	transform := rl.MatrixMultiply(rl.MatrixScale(panoramaScale, panoramaScale, panoramaScale), rl.MatrixTranslate(eye[0], eye[1], eye[2]))
	rl.DrawMesh(r.sky.mesh, r.sky.material, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

func drawGrid(g scene.Grid) {
	minor := rgba(colorGray, g.Opacity*gridMinorAlpha)
	major := rgba(colorGray, g.Opacity*gridMajorAlpha)
	for _, l := range gridLines(g) {
		c := minor
		if l.major {
			c = major
		}
		rl.DrawLine3D(vec3(l.from), vec3(l.to), c)
	}
	half := g.Size / 2
	rl.DrawLine3D(rl.NewVector3(-half, 0, 0), rl.NewVector3(half, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, -half), rl.NewVector3(0, 0, half), rl.NewColor(80, 80, 220, axisLineAlpha))
}

func (r *Renderer) drawMesh(n *scene.Node) {
	mat := n.Material
	if n.Geometry == nil || mat == nil || mat.Kind == scene.ShadowMaterial {
		return
	}
	gm := r.mesh(n.Geometry)
	if gm == nil {
		return
	}
	albedo := r.material.GetMap(rl.MapAlbedo)
	albedo.Color = rgba(mat.Color, mat.Opacity)
	albedo.Texture = r.white
	if tex, ok := r.texture(mat.Map); ok {
		albedo.Texture = tex
	}
	unlit := float32(0)
	if mat.Kind != scene.StandardMaterial {
		unlit = 1
	}
	if rl.IsShaderValid(r.shader) {
		rl.SetShaderValue(r.shader, r.locs.unlit, []float32{unlit}, rl.ShaderUniformFloat)
	}
	if mat.Blending == scene.AdditiveBlending {
		rl.BeginBlendMode(rl.BlendAdditive)
		defer rl.EndBlendMode()
	}
	if mat.DoubleSided {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	if !mat.DepthWrite {
		rl.DisableDepthMask()
		defer rl.EnableDepthMask()
	}
	rl.DrawMesh(gm.mesh, r.material, toMatrix(n.WorldMatrix()))
	r.stats.Meshes++
}

// drawPoints draws one camera-facing square per vertex, tinted by the vertex colour.
func (r *Renderer) drawPoints(n *scene.Node) {
	g, mat := n.Geometry, n.Material
	if g == nil || mat == nil || g.VertexCount() == 0 {
		return
	}
	tex, ok := r.texture(mat.Map)
	if !ok {
		tex = r.white
	}
	world := n.WorldMatrix()
	scale := world.Col(0).Vec3().Len()
	size := mat.Size * scale
	colored := mat.VertexColors && len(g.Colors) == len(g.Positions)

	rl.DrawRenderBatchActive()
	if mat.Blending == scene.AdditiveBlending {
		rl.BeginBlendMode(rl.BlendAdditive)
	} else {
		rl.BeginBlendMode(rl.BlendAlpha)
	}
	if !mat.DepthWrite {
		rl.DisableDepthMask()
	}
	base := rgba(mat.Color, mat.Opacity)
	for i := range g.VertexCount() {
		tint := base
		if colored {
			c := g.Colors[3*i : 3*i+3]
			tint.R = uint8(float32(tint.R) * clamp01(c[0]))
			tint.G = uint8(float32(tint.G) * clamp01(c[1]))
			tint.B = uint8(float32(tint.B) * clamp01(c[2]))
		}
		p := mgl32.TransformCoordinate(g.Vertex(i), world)
		rl.DrawBillboard(r.camera, tex, vec3(p), size, tint)
	}
	rl.DrawRenderBatchActive()
	rl.EnableDepthMask()
	rl.EndBlendMode()
	r.stats.Points += g.VertexCount()
}

func (r *Renderer) drawSprite(n *scene.Node) {
	mat := n.Material
	if mat == nil {
		return
	}
	tex, ok := r.texture(mat.Map)
	if !ok {
		tex = r.white
	}
	world := n.WorldMatrix()
	size := rl.NewVector2(world.Col(0).Vec3().Len(), world.Col(1).Vec3().Len())
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	rl.DrawBillboardRec(r.camera, tex, src, vec3(n.WorldPosition()), size, rgba(mat.Color, mat.Opacity))
	r.stats.Sprites++
}

// drawHandles draws the manipulator on top of the scene: axis lines with cones, rings
// or boxes depending on the mode, and the centre handle.
func drawHandles(m *manip.Manipulator) {
	handles := m.Handles()
	if len(handles) == 0 {
		return
	}
	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()
	length := m.HandleLength()
	tip := length * 0.15
	center := handles[0].From
	for _, h := range handles {
		c := axisColors[h.Axis]
		if m.Dragging() && m.Axis() == h.Axis {
			c = activeHandleColor
		}
		switch m.Mode() {
		case manip.Rotate:
			axis, angle := ringRotation(h.Axis)
			rl.DrawCircle3D(vec3(center), length, axis, angle, c)
		case manip.Scale:
			rl.DrawLine3D(vec3(h.From), vec3(h.To), c)
			rl.DrawCube(vec3(h.To), tip, tip, tip, c)
		default:
			dir := h.To.Sub(h.From).Normalize()
			rl.DrawLine3D(vec3(h.From), vec3(h.To), c)
			rl.DrawCylinderEx(vec3(h.To), vec3(h.To.Add(dir.Mul(tip*1.5))), tip*0.4, 0, 10, c)
		}
	}
	if m.Mode() != manip.Rotate {
		c := axisColors[manip.AxisAll]
		if m.Dragging() && m.Axis() == manip.AxisAll {
			c = activeHandleColor
		}
		rl.DrawCubeWires(vec3(center), tip, tip, tip, c)
	}
	rl.DrawRenderBatchActive()
	rl.EnableDepthTest()
}

// ringRotation turns raylib's XY-plane circle so its normal is axis a.
func ringRotation(a manip.Axis) (rl.Vector3, float32) {
	switch a {
	case manip.AxisX:
		return rl.NewVector3(0, 1, 0), 90
	case manip.AxisY:
		return rl.NewVector3(1, 0, 0), 90
	}
	return rl.NewVector3(0, 0, 1), 0
}

func (r *Renderer) mesh(g *scene.Geometry) *gpuMesh {
	if g.Disposed() || g.TriangleCount() == 0 {
		return nil
	}
	gm := r.meshes[g]
	if gm != nil && gm.version != g.Version {
		rl.UnloadMesh(&gm.mesh)
		delete(r.meshes, g)
		gm = nil
	}
	if gm == nil {
		gm = &gpuMesh{mesh: upload(flatten(g)), version: g.Version}
		r.meshes[g] = gm
	}
	gm.seen = r.frame
	return gm
}

// upload copies f to the GPU. The CPU pointers are cleared afterwards so that
// UnloadMesh only frees what raylib allocated.
func upload(f *flatMesh) rl.Mesh {
	var pin runtime.Pinner
	defer pin.Unpin()
	m := rl.Mesh{
		VertexCount:   int32(f.vertexCount()),
		TriangleCount: int32(f.vertexCount() / 3),
		Vertices:      &f.positions[0],
		Normals:       &f.normals[0],
		Texcoords:     &f.uvs[0],
	}
	pin.Pin(m.Vertices)
	pin.Pin(m.Normals)
	pin.Pin(m.Texcoords)
	if len(f.colors) > 0 {
		m.Colors = &f.colors[0]
		pin.Pin(m.Colors)
	}
	rl.UploadMesh(&m, false)
	m.Vertices, m.Normals, m.Texcoords, m.Colors = nil, nil, nil, nil
	return m
}

func (r *Renderer) texture(t *scene.Texture) (rl.Texture2D, bool) {
	if t == nil || t.Disposed() {
		return rl.Texture2D{}, false
	}
	img := t.Current()
	if img == nil {
		return rl.Texture2D{}, false
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return rl.Texture2D{}, false
	}
	gt := r.textures[t]
	if gt != nil && (gt.w != w || gt.h != h) {
		rl.UnloadTexture(gt.tex)
		delete(r.textures, t)
		gt = nil
	}
	if gt == nil {
		blank := rl.GenImageColor(w, h, rl.Blank)
		gt = &gpuTexture{tex: rl.LoadTextureFromImage(blank), w: w, h: h}
		rl.UnloadImage(blank)
		rl.SetTextureFilter(gt.tex, rl.FilterBilinear)
		r.textures[t] = gt
	}
	if rev := t.Revision(); !gt.loaded || gt.rev != rev {
		rl.UpdateTexture(gt.tex, pixels(img))
		gt.rev, gt.loaded = rev, true
	}
	gt.seen = r.frame
	return gt.tex, true
}

// sweep frees GPU copies that were not drawn this frame.
func (r *Renderer) sweep() {
	for g, gm := range r.meshes {
		if gm.seen != r.frame {
			rl.UnloadMesh(&gm.mesh)
			delete(r.meshes, g)
		}
	}
	for t, gt := range r.textures {
		if gt.seen != r.frame {
			rl.UnloadTexture(gt.tex)
			delete(r.textures, t)
		}
	}
}

// Close frees everything the renderer uploaded.
func (r *Renderer) Close() {
	r.frame++
	r.sweep()
	rl.UnloadMesh(&r.sky.mesh)
	if rl.IsShaderValid(r.sky.material.Shader) {
		rl.UnloadShader(r.sky.material.Shader)
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
}

func clamp01(v float32) float32 { return min(max(v, 0), 1) }
