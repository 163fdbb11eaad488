package download

import (
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestDownloadSniffsExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_ = png.Encode(w, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/textures/sky?size=2", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sky.png"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDownloadKeepsDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="robot arm.glb"`)
		_, _ = w.Write([]byte("glTF"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/get?id=7", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "robot_arm.glb"), path)
}

func TestFilenameHelpers(t *testing.T) {
	assert.Equal(t, "model.glb", dispositionName(`attachment; filename="model.glb"`))
	assert.Equal(t, "clip.mp4", dispositionName(`attachment; filename*=UTF-8''clip.mp4`))
	assert.Equal(t, "x.png", dispositionName(`attachment; filename="../../x.png"`))
	assert.Equal(t, "", dispositionName(""))
	assert.Equal(t, "robot.GLB", urlName("https://x/a/robot.GLB?raw=1"))
	assert.Equal(t, "audio/mpeg", mediaType("audio/mpeg; charset=binary"))
	assert.Equal(t, "my_file", safeName("my file"))
	assert.Equal(t, "download", safeName(".."))
	assert.Equal(t, ".bin", sniffExt([]byte{1, 2, 3}))
}

func TestFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, "http://127.0.0.1:1/none")
	assert.Error(t, err)
}
