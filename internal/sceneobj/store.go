package sceneobj

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// DefaultSkyTime is the time of day (hours) a new editor session starts at.
const DefaultSkyTime = 12

// State is a consistent snapshot of the editor's declarative state.
type State struct {
	Objects  []Object
	Selected string
	Tool     Tool
	SkyTime  float32
	// Revision increases on every mutation; readers compare it to skip redundant work.
	Revision uint64
}

// SelectedObject returns the selected object, if any.
func (s State) SelectedObject() (Object, bool) {
	if s.Selected == "" {
		return Object{}, false
	}
	if i := Find(s.Objects, s.Selected); i >= 0 {
		return s.Objects[i], true
	}
	return Object{}, false
}

// AddOptions carries the optional inputs of Store.Add.
type AddOptions struct {
	// Name overrides the kind-derived base name. For Model and Audio the extension is dropped.
	Name string
	// FromFile marks media picked from disk; clashing names get a "(n)" suffix.
	FromFile bool
	Text     string
	Src      Source
	Format   string
}

// Store is the mutex-guarded owner of the declarative scene. All mutations go through it,
// and readers take snapshots so one reconciliation never sees a half-applied edit.
type Store struct {
	mu    sync.RWMutex
	st    State
	rng   *rand.Rand
	newID func() string
}

// NewStore returns an empty store with the default time of day and the Move tool.
func NewStore() *Store {
	return NewStoreWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewStoreWithRand is NewStore with an explicit random source for colors and placement.
func NewStoreWithRand(rng *rand.Rand) *Store {
	return &Store{
		st:    State{Tool: ToolMove, SkyTime: DefaultSkyTime},
		rng:   rng,
		newID: func() string { return "object-" + uuid.NewString() },
	}
}

// Snapshot returns a copy of the current state. Binary sources are shared, not copied.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.st
	out.Objects = make([]Object, len(s.st.Objects))
	for i, o := range s.st.Objects {
		out.Objects[i] = o.Clone()
	}
	return out
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Revision
}

// Object returns a copy of the object with id.
func (s *Store) Object(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := Find(s.st.Objects, id); i >= 0 {
		return s.st.Objects[i].Clone(), true
	}
	return Object{}, false
}

func (s *Store) bump() { s.st.Revision++ }

// Add appends a new object of kind and selects it. It returns false without changing
// anything when the object cannot be added: a second Skybox, a Text3D with blank text,
// or an unknown kind.
func (s *Store) Add(kind Kind, opts AddOptions) (Object, bool) {
	if !kind.Valid() || kind == ParticleSystem {
		return Object{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	objs := s.st.Objects

	if kind == Skybox && HasSkybox(objs) {
		return Object{}, false
	}
	if kind == Text3D && strings.TrimSpace(opts.Text) == "" {
		return Object{}, false
	}

	base := opts.Name
	if base == "" {
		base = displayBase(kind)
	} else if kind == Model || kind == Audio {
		base = stripExt(base)
	}
	name := base
	switch {
	case kind == Skybox:
		name = "Skybox"
	case opts.FromFile:
		name = importName(objs, base)
	case opts.Name == "" || kind != Model:
		name = uniqueName(objs, base)
	}

	o := Object{
		ID:       s.newID(),
		Name:     name,
		Kind:     kind,
		Scale:    defaultScale(kind),
		Color:    s.randomColor(),
		Src:      opts.Src,
		Format:   opts.Format,
		Position: s.randomPosition(),
	}
	switch kind {
	case Text3D:
		o.Text = opts.Text
		o.Color = "#FFFFFF"
	case Image, Video, Audio:
		o.Color = "#FFFFFF"
	case Model, Skybox:
		o.Color = "#FFFFFF"
		o.Position = mgl32.Vec3{}
	}

	s.st.Objects = append(s.st.Objects, o)
	s.st.Selected = o.ID
	s.bump()
	return o.Clone(), true
}

// AddParticle appends a particle system named "<Type> N" at the default emitter height.
// Unlike Add, the selection is left alone.
func (s *Store) AddParticle(pt ParticleType) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := Object{
		ID:           s.newID(),
		Name:         particleName(s.st.Objects, string(pt)),
		Kind:         ParticleSystem,
		ParticleType: pt,
		Position:     mgl32.Vec3{0, 1.5, 0},
		Scale:        mgl32.Vec3{1, 1, 1},
		Color:        "#FFFFFF",
	}
	s.st.Objects = append(s.st.Objects, o)
	s.bump()
	return o
}

// Duplicate copies the object with id under a new id and a "(Copy n)" name,
// offset by half a unit on X and Z, and selects the copy.
func (s *Store) Duplicate(id string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := Find(s.st.Objects, id)
	if i < 0 {
		return Object{}, false
	}
	orig := s.st.Objects[i]
	if orig.Kind == Skybox {
		return Object{}, false
	}
	var dup Object
	if err := copier.Copy(&dup, &orig); err != nil {
		dup = orig.Clone()
	}
	dup.ID = s.newID()
	dup.Name = copyName(s.st.Objects, orig)
	dup.Position = orig.Position.Add(mgl32.Vec3{0.5, 0, 0.5})
	s.st.Objects = append(s.st.Objects, dup)
	s.st.Selected = dup.ID
	s.bump()
	return dup.Clone(), true
}

// Delete removes the object with id and clears the selection.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := Find(s.st.Objects, id)
	if i < 0 {
		return false
	}
	s.st.Objects = append(s.st.Objects[:i:i], s.st.Objects[i+1:]...)
	s.st.Selected = ""
	s.bump()
	return true
}

// ToggleVisibility flips the visibility of the object with id.
func (s *Store) ToggleVisibility(id string) bool {
	return s.Patch(id, func(o *Object) { o.Hidden = !o.Hidden })
}

// SetVisible sets the visibility of the object with id.
func (s *Store) SetVisible(id string, visible bool) bool {
	return s.Patch(id, func(o *Object) { o.Hidden = !visible })
}

// Patch applies fn to the object with id. Fields fn leaves alone are unchanged.
// ID and Kind are restored after fn runs. Returns false for an unknown id.
func (s *Store) Patch(id string, fn func(*Object)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := Find(s.st.Objects, id)
	if i < 0 {
		return false
	}
	o := &s.st.Objects[i]
	kind := o.Kind
	fn(o)
	o.ID, o.Kind = id, kind
	s.bump()
	return true
}

// SetTransform writes position, rotation and scale of the object with id.
func (s *Store) SetTransform(id string, pos, rot, scale mgl32.Vec3) bool {
	return s.Patch(id, func(o *Object) {
		o.Position, o.Rotation, o.Scale = pos, rot, scale
	})
}

// Select sets the selection. An empty id clears it; an unknown id is ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && Find(s.st.Objects, id) < 0 {
		return
	}
	if s.st.Selected == id {
		return
	}
	s.st.Selected = id
	s.bump()
}

// SetTool sets the active manipulation tool.
func (s *Store) SetTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Tool = t
	s.bump()
}

// SetSkyTime sets the time of day in hours, clamped to [0, 24].
func (s *Store) SetSkyTime(hours float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.SkyTime = mgl32.Clamp(hours, 0, 24)
	s.bump()
}

// Replace swaps the whole object list, as done by an import, and clears the selection.
func (s *Store) Replace(objs []Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Objects = make([]Object, len(objs))
	for i, o := range objs {
		s.st.Objects[i] = o.Clone()
	}
	s.st.Selected = ""
	s.bump()
}

// Load resets the store to state, keeping the revision counter monotonic.
func (s *Store) Load(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rev := s.st.Revision
	s.st = st
	s.st.Objects = make([]Object, len(st.Objects))
	for i, o := range st.Objects {
		s.st.Objects[i] = o.Clone()
	}
	s.st.Revision = rev + 1
}

func (s *Store) randomColor() string {
	return fmt.Sprintf("#%06x", s.rng.IntN(0xFFFFFF))
}

func (s *Store) randomPosition() mgl32.Vec3 {
	return mgl32.Vec3{
		s.rng.Float32()*4 - 2,
		2.5 + s.rng.Float32(),
		s.rng.Float32()*4 - 2,
	}
}

func defaultScale(k Kind) mgl32.Vec3 {
	switch k {
	case Plane:
		return mgl32.Vec3{2, 2, 1}
	case Image, Video:
		return mgl32.Vec3{5, 5, 1}
	}
	return mgl32.Vec3{1, 1, 1}
}
