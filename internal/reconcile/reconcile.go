// Package reconcile keeps the live scene graph in step with the declarative object list.
// A Reconciler owns one entity bundle per object id (render node plus media handles) and
// a parallel map of particle systems; each pass creates, syncs, rebuilds or destroys them
// so the live set matches the snapshot it is given.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	"scene-editor/internal/assets"
	"scene-editor/internal/environment"
	"scene-editor/internal/fonts"
	"scene-editor/internal/logger"
	"scene-editor/internal/particles"
	"scene-editor/internal/scene"
	"scene-editor/internal/sceneobj"
)

// Store is the part of the object store the reconciler writes to.
type Store interface {
	Patch(id string, fn func(*sceneobj.Object)) bool
	Select(id string)
}

// Entity is the live counterpart of one declarative object. Node, Audio and Video are
// owned exclusively by the entity and released together when it is destroyed.
type Entity struct {
	ID   string
	Kind sceneobj.Kind
	assets.Built

	text        string
	fontGen     uint64
	fingerprint string
}

// Report lists the ids a pass touched, each sorted.
type Report struct {
	Created   []string
	Updated   []string
	Rebuilt   []string
	Destroyed []string
	Failed    []string
}

// Empty reports whether the pass changed nothing.
func (r Report) Empty() bool {
	return len(r.Created)+len(r.Updated)+len(r.Rebuilt)+len(r.Destroyed)+len(r.Failed) == 0
}

// Stats is a summary for the stats overlay.
type Stats struct {
	Entities  int
	Particles int
	Failed    int
	Pending   int
}

// Options holds the optional collaborators of a Reconciler.
type Options struct {
	// Environment receives skybox presence and the time of day. May be nil.
	Environment *environment.Environment
	Log         *slog.Logger
	// Seed makes particle systems reproducible. Zero picks a random seed.
	Seed uint64
	// OnDestroy runs before an entity's resources are released, so a manipulator bound
	// to it can let go first.
	OnDestroy func(id string)
}

// Reconciler is not safe for concurrent use; every method must be called from the loop
// thread. Build jobs run on their own goroutines and hand results back through post.
type Reconciler struct {
	scene     *scene.Scene
	factory   *assets.Factory
	store     Store
	post      func(func())
	env       *environment.Environment
	log       *slog.Logger
	rng       *rand.Rand
	onDestroy func(string)

	font    *fonts.Font
	fontGen uint64
	stale   bool

	entities  map[string]*Entity
	particles map[string]*particles.System
	// failed remembers the fingerprint of objects whose build failed, so an unchanged
	// object is not rebuilt on every pass.
	failed map[string]string
	prints map[string]printMemo
	hashed int

	ctx     context.Context
	cancel  context.CancelFunc
	jobs    sync.WaitGroup
	pending int
}

// New returns a reconciler adding nodes to s. post must run its argument on the loop
// thread, later; it is called from job goroutines.
func New(s *scene.Scene, f *assets.Factory, st Store, post func(func()), opts Options) *Reconciler {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		scene:     s,
		factory:   f,
		store:     st,
		post:      post,
		env:       opts.Environment,
		log:       logger.OrDiscard(opts.Log),
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		onDestroy: opts.OnDestroy,
		entities:  make(map[string]*Entity),
		particles: make(map[string]*particles.System),
		failed:    make(map[string]string),
		prints:    make(map[string]printMemo),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetFont installs the font Text3D objects are built with. Existing text entities are
// rebuilt on the next pass.
func (r *Reconciler) SetFont(f *fonts.Font) {
	r.font = f
	r.fontGen++
	r.stale = true
}

// Stale reports whether a pass is needed even though the store has not changed.
func (r *Reconciler) Stale() bool { return r.stale }

// Reconcile brings the live scene in line with st.
func (r *Reconciler) Reconcile(st sceneobj.State) Report {
	r.stale = false
	var rep Report
	present := make(map[string]sceneobj.Object, len(st.Objects))
	for _, o := range st.Objects {
		present[o.ID] = o
	}

	for _, id := range slices.Sorted(maps.Keys(r.entities)) {
		if o, ok := present[id]; !ok || o.Kind == sceneobj.Skybox || o.Kind == sceneobj.ParticleSystem {
			r.destroy(id)
			rep.Destroyed = append(rep.Destroyed, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(r.particles)) {
		if o, ok := present[id]; !ok || o.Kind != sceneobj.ParticleSystem {
			r.destroyParticles(id)
			rep.Destroyed = append(rep.Destroyed, id)
		}
	}
	for id := range r.failed {
		if _, ok := present[id]; !ok {
			delete(r.failed, id)
		}
	}
	for id := range r.prints {
		if _, ok := present[id]; !ok {
			delete(r.prints, id)
		}
	}

	skybox := false
	for _, o := range st.Objects {
		switch o.Kind {
		case sceneobj.Skybox:
			skybox = true
		case sceneobj.ParticleSystem:
			r.syncParticles(o, &rep)
		default:
			r.syncEntity(o, &rep)
		}
	}
	if r.env != nil {
		r.env.SetSkybox(skybox)
		r.env.SetTime(st.SkyTime)
	}
	if sel, ok := st.SelectedObject(); ok && !sel.Visible() {
		r.store.Select("")
	}
	for _, ids := range [][]string{rep.Created, rep.Updated, rep.Rebuilt, rep.Destroyed, rep.Failed} {
		slices.Sort(ids)
	}
	return rep
}

func (r *Reconciler) syncEntity(o sceneobj.Object, rep *Report) {
	e, ok := r.entities[o.ID]
	rebuilt := false
	if ok && r.decisiveChange(e, o) {
		// Removal strictly before insertion, so the id is never in the scene twice.
		r.destroy(o.ID)
		ok, rebuilt = false, true
	}
	if ok {
		if syncNode(e, o) {
			rep.Updated = append(rep.Updated, o.ID)
		}
		return
	}
	fp := r.fingerprint(o)
	if prev, failed := r.failed[o.ID]; failed && prev == fp {
		return
	}
	delete(r.failed, o.ID)
	switch err := r.create(o, fp); {
	case err == nil && rebuilt:
		rep.Rebuilt = append(rep.Rebuilt, o.ID)
	case err == nil:
		rep.Created = append(rep.Created, o.ID)
	default:
		if rebuilt {
			rep.Destroyed = append(rep.Destroyed, o.ID)
		}
		if !errors.Is(err, assets.ErrNoFont) {
			rep.Failed = append(rep.Failed, o.ID)
		}
	}
}

// decisiveChange reports whether e was built from inputs that no longer hold. Text is
// rebuilt when its content or the font changes; media and models when their source does.
func (r *Reconciler) decisiveChange(e *Entity, o sceneobj.Object) bool {
	switch {
	case e.Kind != o.Kind:
		return true
	case o.Kind == sceneobj.Text3D:
		return e.text != o.Text || e.fontGen != r.fontGen
	case o.Kind.IsMedia():
		return e.fingerprint != r.fingerprint(o)
	}
	return false
}

func (r *Reconciler) create(o sceneobj.Object, fp string) error {
	b, job, err := r.factory.Build(o, r.font)
	if err != nil {
		if errors.Is(err, assets.ErrNoFont) {
			r.log.Debug("text waits for a font", "id", o.ID)
			return err
		}
		r.log.Warn("build failed", "id", o.ID, "kind", string(o.Kind), "err", err)
		r.failed[o.ID] = fp
		return err
	}
	e := &Entity{ID: o.ID, Kind: o.Kind, Built: *b, text: o.Text, fontGen: r.fontGen, fingerprint: fp}
	r.scene.Add(e.Node)
	r.entities[o.ID] = e
	if job != nil {
		r.start(e, job)
	}
	return nil
}

func (r *Reconciler) start(e *Entity, job assets.Job) {
	r.pending++
	r.jobs.Add(1)
	go func() {
		defer r.jobs.Done()
		c := job(r.ctx)
		r.post(func() { r.complete(e, c) })
	}()
}

// complete applies a finished job if its entity is still the live one for the id.
func (r *Reconciler) complete(e *Entity, c assets.Completion) {
	r.pending--
	if cur, ok := r.entities[e.ID]; !ok || cur != e {
		c.Discard()
		return
	}
	patch, err := c.Apply(&e.Built)
	if err != nil {
		r.log.Warn("load failed", "id", e.ID, "kind", string(e.Kind), "err", err)
		r.destroy(e.ID)
		r.failed[e.ID] = e.fingerprint
		return
	}
	if patch != nil {
		r.store.Patch(e.ID, patch)
	}
}

// syncNode copies the mutable fields of o onto e without rebuilding. It reports whether
// anything changed.
func syncNode(e *Entity, o sceneobj.Object) bool {
	n := e.Node
	changed := false
	if n.Position != o.Position || n.Rotation != o.Rotation || n.Scale != o.Scale {
		n.SetTransform(o.Position, o.Rotation, o.Scale)
		changed = true
	}
	if n.Visible != o.Visible() {
		n.Visible = o.Visible()
		changed = true
	}
	if n.Name != o.Name {
		n.Name = o.Name
		changed = true
	}
	if n.Kind == scene.MeshNode && n.Material != nil && n.Material.Kind == scene.StandardMaterial {
		if c := scene.HexColor(o.Color); c != n.Material.Color {
			n.Material.SetColor(c)
			changed = true
		}
	}
	return changed
}

func (r *Reconciler) destroy(id string) {
	e, ok := r.entities[id]
	if !ok {
		return
	}
	if r.onDestroy != nil {
		r.onDestroy(id)
	}
	delete(r.entities, id)
	e.Node.Dispose()
	if e.Audio != nil {
		e.Audio.Pause()
		if err := e.Audio.Close(); err != nil {
			r.log.Warn("close audio", "id", id, "err", err)
		}
	}
	if e.Video != nil {
		if err := e.Video.Close(); err != nil {
			r.log.Warn("close video", "id", id, "err", err)
		}
	}
}

func (r *Reconciler) syncParticles(o sceneobj.Object, rep *Report) {
	p, ok := r.particles[o.ID]
	rebuilt := false
	if ok && p.Type != o.ParticleType {
		r.destroyParticles(o.ID)
		ok, rebuilt = false, true
	}
	if !ok {
		p = particles.New(o.ParticleType, rand.New(rand.NewPCG(r.rng.Uint64(), r.rng.Uint64())))
		p.Node.Name = o.Name
		p.Node.SetTransform(o.Position, o.Rotation, o.Scale)
		p.Node.Visible = o.Visible()
		r.scene.Add(p.Node)
		r.particles[o.ID] = p
		if rebuilt {
			rep.Rebuilt = append(rep.Rebuilt, o.ID)
		} else {
			rep.Created = append(rep.Created, o.ID)
		}
		return
	}
	n := p.Node
	if n.Position != o.Position || n.Scale != o.Scale || n.Visible != o.Visible() {
		n.Position, n.Scale, n.Visible = o.Position, o.Scale, o.Visible()
		rep.Updated = append(rep.Updated, o.ID)
	}
	rot := o.Rotation
	if p.OwnsYaw() {
		rot[1] = n.Rotation[1]
	}
	if n.Rotation != rot {
		n.Rotation = rot
		rep.Updated = append(rep.Updated, o.ID)
	}
}

func (r *Reconciler) destroyParticles(id string) {
	if p, ok := r.particles[id]; ok {
		p.Dispose()
		delete(r.particles, id)
	}
}

// Update steps every particle system to elapsed seconds since the loop started.
func (r *Reconciler) Update(elapsed float32) {
	for _, p := range r.particles {
		p.Update(elapsed)
	}
}

// Entity returns the live entity for id.
func (r *Reconciler) Entity(id string) (*Entity, bool) {
	e, ok := r.entities[id]
	return e, ok
}

// Entities returns every live entity ordered by id.
func (r *Reconciler) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, id := range slices.Sorted(maps.Keys(r.entities)) {
		out = append(out, r.entities[id])
	}
	return out
}

// Nodes returns the root node of every visible entity, ordered by id.
func (r *Reconciler) Nodes() []*scene.Node {
	var out []*scene.Node
	for _, e := range r.Entities() {
		if e.Node.Visible {
			out = append(out, e.Node)
		}
	}
	return out
}

// Particles returns the particle system for id.
func (r *Reconciler) Particles(id string) (*particles.System, bool) {
	p, ok := r.particles[id]
	return p, ok
}

// Stats summarizes what the reconciler holds.
func (r *Reconciler) Stats() Stats {
	return Stats{Entities: len(r.entities), Particles: len(r.particles), Failed: len(r.failed), Pending: r.pending}
}

// Wait blocks until every started job has posted its completion. The completions still
// have to be drained on the loop thread.
func (r *Reconciler) Wait() { r.jobs.Wait() }

// Close cancels running jobs and releases every entity and particle system.
func (r *Reconciler) Close() {
	r.cancel()
	r.jobs.Wait()
	for _, id := range slices.Sorted(maps.Keys(r.entities)) {
		r.destroy(id)
	}
	for id := range r.particles {
		r.destroyParticles(id)
	}
}
