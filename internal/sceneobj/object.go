// Package sceneobj holds the declarative description of a scene: a flat list of
// plain objects plus the editor state around it (selection, active tool, time of day).
// Nothing here touches rendering; the reconciler turns these values into live entities.
package sceneobj

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind names what an object is. The string values are the wire values used in .cyb files.
type Kind string

const (
	Cube           Kind = "Cube"
	Sphere         Kind = "Sphere"
	Plane          Kind = "Plane"
	Pyramid        Kind = "Pyramid"
	Cylinder       Kind = "Cylinder"
	Text3D         Kind = "3DText"
	Image          Kind = "Image"
	Video          Kind = "Video"
	Model          Kind = "Model"
	Audio          Kind = "Audio"
	Skybox         Kind = "Skybox"
	ParticleSystem Kind = "ParticleSystem"
)

// Kinds lists every known kind in menu order.
var Kinds = []Kind{Cube, Sphere, Plane, Pyramid, Cylinder, Text3D, Image, Video, Model, Audio, Skybox, ParticleSystem}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// IsPrimitive reports whether k is built from a generated geometry with a solid color material.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Cube, Sphere, Plane, Pyramid, Cylinder:
		return true
	}
	return false
}

// IsMedia reports whether k is built from imported content.
func (k Kind) IsMedia() bool {
	switch k {
	case Image, Video, Model, Audio:
		return true
	}
	return false
}

// ParticleType selects the procedural effect of a ParticleSystem object.
type ParticleType string

const (
	Fire  ParticleType = "Fire"
	Rain  ParticleType = "Rain"
	Snow  ParticleType = "Snow"
	Steam ParticleType = "Steam"
	Magic ParticleType = "Magic"
	Water ParticleType = "Water"
	Fog   ParticleType = "Fog"
)

// ParticleTypes lists the effects offered by the editor.
var ParticleTypes = []ParticleType{Fire, Rain, Snow, Steam, Magic, Water, Fog}

// Tool is the active manipulation tool. The zero value means no tool.
type Tool string

const (
	ToolNone   Tool = ""
	ToolMove   Tool = "Move"
	ToolRotate Tool = "Rotate"
	ToolScale  Tool = "Scale"
)

// Source is an object's content reference: a text value (URI, data URI or inline text
// for text formats like OBJ) or a raw binary buffer. At most one of the two is set.
// Binary is never modified once set; copies of an object share it.
type Source struct {
	Text   string
	Binary []byte
}

// TextSource returns a Source holding s.
func TextSource(s string) Source { return Source{Text: s} }

// BinarySource returns a Source holding b.
func BinarySource(b []byte) Source { return Source{Binary: b} }

// IsZero reports whether no content is referenced.
func (s Source) IsZero() bool { return s.Text == "" && len(s.Binary) == 0 }

// IsBinary reports whether the source is a raw buffer.
func (s Source) IsBinary() bool { return s.Binary != nil }

// Object is one entry of the declarative scene list.
// Rotation is Euler XYZ in radians. Hidden is the inverse of the wire field "visible",
// so the zero value is a visible object.
type Object struct {
	ID           string
	Name         string
	Kind         Kind
	Position     mgl32.Vec3
	Rotation     mgl32.Vec3
	Scale        mgl32.Vec3
	Color        string
	Text         string
	Src          Source
	Format       string
	ParticleType ParticleType
	Hidden       bool
}

// Visible reports whether the object should be drawn and be pickable.
func (o Object) Visible() bool { return !o.Hidden }

// Clone returns a copy of o. The copy shares Src.Binary, which is read-only.
func (o Object) Clone() Object {
	return o
}

// Find returns the index of the object with id, or -1.
func Find(objs []Object, id string) int {
	return slices.IndexFunc(objs, func(o Object) bool { return o.ID == id })
}

// HasSkybox reports whether objs contains a Skybox.
func HasSkybox(objs []Object) bool {
	return slices.ContainsFunc(objs, func(o Object) bool { return o.Kind == Skybox })
}
