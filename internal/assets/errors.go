package assets

import (
	"errors"
	"fmt"

	"scene-editor/internal/sceneobj"
)

var (
	// ErrNoFont means a Text3D object cannot be built until a font is loaded.
	ErrNoFont = errors.New("assets: no font loaded")
	// ErrEmpty means the object has nothing to draw, such as blank text.
	ErrEmpty = errors.New("assets: nothing to build")
	// ErrUnsupported is returned for kinds, formats or content the factory cannot build.
	ErrUnsupported = errors.New("assets: unsupported content")
)

// Error reports a failure to build one object.
type Error struct {
	ID   string
	Kind sceneobj.Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("assets: %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(obj sceneobj.Object, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{ID: obj.ID, Kind: obj.Kind, Err: err}
}
