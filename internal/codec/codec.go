// Package codec reads and writes .cyb scene files: a JSON array with one record per
// scene object. Binary sources are carried as base64 data URIs flagged with
// isArrayBuffer.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"scene-editor/internal/sceneobj"
)

// BinaryPrefix starts the src of every record flagged isArrayBuffer.
const BinaryPrefix = "data:application/octet-stream;base64,"

// Extension is the file extension of scene files.
const Extension = ".cyb"

// ErrNotArray is returned for a payload whose root is valid JSON but not an array.
var ErrNotArray = errors.New("codec: root should be an array")

type record struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Type          sceneobj.Kind         `json:"type"`
	Position      [3]float32            `json:"position"`
	Rotation      [3]float32            `json:"rotation"`
	Scale         [3]float32            `json:"scale"`
	Color         string                `json:"color"`
	Text          string                `json:"text,omitempty"`
	Visible       *bool                 `json:"visible,omitempty"`
	Src           *string               `json:"src,omitempty"`
	Format        string                `json:"format,omitempty"`
	ParticleType  sceneobj.ParticleType `json:"particleType,omitempty"`
	IsArrayBuffer bool                  `json:"isArrayBuffer,omitempty"`
}

func toRecord(o sceneobj.Object) record {
	visible := o.Visible()
	r := record{
		ID:           o.ID,
		Name:         o.Name,
		Type:         o.Kind,
		Position:     o.Position,
		Rotation:     o.Rotation,
		Scale:        o.Scale,
		Color:        o.Color,
		Text:         o.Text,
		Visible:      &visible,
		Format:       o.Format,
		ParticleType: o.ParticleType,
	}
	switch {
	case o.Src.IsBinary():
		s := BinaryPrefix + base64.StdEncoding.EncodeToString(o.Src.Binary)
		r.Src, r.IsArrayBuffer = &s, true
	case o.Src.Text != "":
		s := o.Src.Text
		r.Src = &s
	}
	return r
}

func (r record) object() (sceneobj.Object, error) {
	o := sceneobj.Object{
		ID:           r.ID,
		Name:         r.Name,
		Kind:         r.Type,
		Position:     r.Position,
		Rotation:     r.Rotation,
		Scale:        r.Scale,
		Color:        r.Color,
		Text:         r.Text,
		Hidden:       r.Visible != nil && !*r.Visible,
		Format:       r.Format,
		ParticleType: r.ParticleType,
	}
	if r.Src == nil {
		return o, nil
	}
	if r.IsArrayBuffer && strings.HasPrefix(*r.Src, BinaryPrefix) {
		b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(*r.Src, BinaryPrefix))
		if err != nil {
			return o, fmt.Errorf("codec: object %q: %w", r.ID, err)
		}
		o.Src = sceneobj.BinarySource(b)
		return o, nil
	}
	o.Src = sceneobj.TextSource(*r.Src)
	return o, nil
}

// Encode renders objs as an indented JSON array.
func Encode(objs []sceneobj.Object) ([]byte, error) {
	recs := make([]record, len(objs))
	for i, o := range objs {
		recs[i] = toRecord(o)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return data, nil
}

// Decode parses a payload produced by Encode. Binary sources come back as raw buffers
// and the isArrayBuffer flag is dropped. A record that fails fails the whole payload.
func Decode(data []byte) ([]sceneobj.Object, error) {
	var root json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if root = bytes.TrimSpace(root); len(root) == 0 || root[0] != '[' {
		return nil, ErrNotArray
	}
	var recs []record
	if err := json.Unmarshal(root, &recs); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	objs := make([]sceneobj.Object, 0, len(recs))
	for _, r := range recs {
		o, err := r.object()
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, nil
}

// Import decodes data and replaces the store's object list, clearing the selection.
// On error the store is left untouched.
func Import(s *sceneobj.Store, data []byte) error {
	objs, err := Decode(data)
	if err != nil {
		return err
	}
	s.Replace(objs)
	return nil
}

// Export encodes the store's current object list.
func Export(s *sceneobj.Store) ([]byte, error) {
	return Encode(s.Snapshot().Objects)
}

// ReadFile imports the scene file at path into s.
func ReadFile(s *sceneobj.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	return Import(s, data)
}

// WriteFile exports s to path.
func WriteFile(s *sceneobj.Store, path string) error {
	data, err := Export(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	return nil
}
