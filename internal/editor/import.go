package editor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"scene-editor/internal/archive"
	"scene-editor/internal/assets"
	"scene-editor/internal/download"
	"scene-editor/internal/sceneobj"
)

// ImportDir receives media downloaded by the import command.
const ImportDir = "assets/imports"

// ErrUnknownMedia is returned when an import is neither a recognized model file nor
// image, video or audio content.
var ErrUnknownMedia = errors.New("editor: unrecognized media")

// Classify tells the kind of an imported file from its name and content. Models are
// recognized by extension, or by the binary glTF magic; the other kinds by content.
func Classify(name string, data []byte) (sceneobj.Kind, string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case assets.FormatGLB, assets.FormatGLTF, assets.FormatOBJ, assets.FormatSTL:
		return sceneobj.Model, ext, nil
	}
	switch {
	case bytes.HasPrefix(data, []byte("glTF")):
		return sceneobj.Model, assets.FormatGLB, nil
	case filetype.IsImage(data):
		return sceneobj.Image, "", nil
	case filetype.IsVideo(data):
		return sceneobj.Video, "", nil
	case filetype.IsAudio(data):
		return sceneobj.Audio, "", nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnknownMedia, filepath.Base(name))
}

// ImportData adds a media object built from data. An empty kind is classified. Images are
// stored as data URIs, OBJ models as text and everything else as a binary buffer.
func (e *Editor) ImportData(name string, data []byte, kind sceneobj.Kind) (sceneobj.Object, error) {
	guessed, format, err := Classify(name, data)
	switch {
	case kind == "" && err != nil:
		return sceneobj.Object{}, err
	case kind == "":
		kind = guessed
	case kind == sceneobj.Model && guessed != sceneobj.Model:
		return sceneobj.Object{}, fmt.Errorf("editor: %s: unknown model format", filepath.Base(name))
	case kind != sceneobj.Model:
		format = ""
	}

	src := sceneobj.BinarySource(data)
	switch {
	case kind == sceneobj.Image:
		mime := "application/octet-stream"
		if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
			mime = t.MIME.Value
		}
		src = sceneobj.TextSource("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
	case format == assets.FormatOBJ:
		src = sceneobj.TextSource(string(data))
	}
	o, ok := e.store.Add(kind, sceneobj.AddOptions{
		Name:     filepath.Base(name),
		FromFile: true,
		Src:      src,
		Format:   format,
	})
	if !ok {
		return sceneobj.Object{}, fmt.Errorf("editor: cannot add %s", kind)
	}
	e.log.Info("imported", "name", o.Name, "kind", string(kind), "bytes", len(data))
	return o, nil
}

// ImportBundle adds one media object per recognized file of a zip bundle. Entries that
// are not media are skipped; it fails only when the zip is unreadable or holds no media.
func (e *Editor) ImportBundle(name string, data []byte) ([]sceneobj.Object, error) {
	entries, err := archive.Entries(data)
	if err != nil {
		return nil, err
	}
	var added []sceneobj.Object
	for _, en := range entries {
		if _, _, err := Classify(en.Name, en.Data); err != nil {
			e.log.Debug("bundle entry skipped", "bundle", filepath.Base(name), "entry", en.Name)
			continue
		}
		o, err := e.ImportData(en.Name, en.Data, "")
		if err != nil {
			return added, err
		}
		added = append(added, o)
	}
	if len(added) == 0 {
		return nil, fmt.Errorf("%w: no media in %s", ErrUnknownMedia, filepath.Base(name))
	}
	return added, nil
}

// Import reads a file, or downloads a URL into ImportDir, in the background and adds it
// as a media object on the loop thread. A zip bundle adds each media file it holds.
// Errors found later are logged.
func (e *Editor) Import(src string, kind sceneobj.Kind) error {
	remote := assets.IsRemote(sceneobj.TextSource(src))
	if !remote {
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("editor: import: %w", err)
		}
	}
	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		path := src
		if remote {
			saved, err := download.Download(e.ctx, src, ImportDir)
			if err != nil {
				e.log.Warn("import failed", "src", src, "err", err)
				return
			}
			path = saved
		}
		data, err := os.ReadFile(path)
		if err != nil {
			e.log.Warn("import failed", "src", src, "err", err)
			return
		}
		e.Queue.Post(func() {
			if archive.IsZip(data) && kind == "" {
				if _, err := e.ImportBundle(path, data); err != nil {
					e.log.Warn("import failed", "src", src, "err", err)
				}
				return
			}
			if _, err := e.ImportData(path, data, kind); err != nil {
				e.log.Warn("import failed", "src", src, "err", err)
			}
		})
	}()
	return nil
}

// Wait blocks until background imports, font loads and build jobs have posted their
// results. The results still need a Drain on the loop thread.
func (e *Editor) Wait() {
	e.jobs.Wait()
	e.Reconciler.Wait()
}
