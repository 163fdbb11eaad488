package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"scene-editor/internal/fonts"
	"scene-editor/internal/googlefonts"
)

// fontCacheDir is where families downloaded from google/fonts are kept for later runs.
var fontCacheDir = filepath.Join(fonts.Dirs[0], "downloaded")

// LoadFont finds the font called name: first among the local font directories, then in
// the google/fonts repository, whose file is cached under the font directory.
func LoadFont(ctx context.Context, name string) (*fonts.Font, error) {
	f, err := fonts.Load(name)
	if err == nil {
		return f, nil
	}
	file, data, gerr := googlefonts.New().Family(ctx, name)
	if gerr != nil {
		return nil, errors.Join(err, gerr)
	}
	f, err = fonts.Parse(file, data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(fontCacheDir, 0o755); err == nil {
		_ = os.WriteFile(filepath.Join(fontCacheDir, file), data, 0o644)
	}
	return f, nil
}

func (e *Editor) font(ctx context.Context) *fonts.Font {
	f, err := e.fontLoader(ctx, e.Prefs.Font)
	if err != nil {
		e.log.Warn("font unavailable, using the built-in font", "font", e.Prefs.Font, "err", err)
		return fonts.Default()
	}
	e.log.Info("font loaded", "font", f.Name)
	return f
}

// LoadFontAsync resolves the configured font in the background and installs it on the
// loop thread. Text objects stay unbuilt until then.
func (e *Editor) LoadFontAsync() {
	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		f := e.font(e.ctx)
		e.Queue.Post(func() { e.Reconciler.SetFont(f) })
	}()
}

// LoadFontNow resolves and installs the configured font before returning.
func (e *Editor) LoadFontNow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("editor: font: %w", err)
	}
	e.Reconciler.SetFont(e.font(ctx))
	return nil
}
