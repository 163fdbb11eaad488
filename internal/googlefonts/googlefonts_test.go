package googlefonts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/download"
)

func TestNormalizeFamily(t *testing.T) {
	assert.Equal(t, []string{"inter"}, NormalizeFamily(" Inter "))
	assert.Equal(t, []string{"opensans", "open-sans"}, NormalizeFamily("Open Sans"))
	assert.Nil(t, NormalizeFamily("  "))
}

func newServer(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := srv.URL + "/raw/"
		switch r.URL.Path {
		case "/ofl/opensans":
			http.NotFound(w, r)
		case "/ofl/open-sans":
			_ = json.NewEncoder(w).Encode([]githubFile{
				{Name: "OFL.txt", Type: "file", DownloadURL: raw + "ofl/open-sans/OFL.txt"},
				{Name: "OpenSans-Italic.ttf", Type: "file", DownloadURL: raw + "ofl/open-sans/OpenSans-Italic.ttf"},
				{Name: "Evil.ttf", Type: "file", DownloadURL: "https://elsewhere.example/Evil.ttf"},
				{Name: "static", Type: "dir"},
				{Name: "OpenSans.ttf", Type: "file", DownloadURL: raw + "ofl/open-sans/OpenSans.ttf"},
			})
		case "/ofl/slanted":
			_ = json.NewEncoder(w).Encode([]githubFile{
				{Name: "Slanted-Italic.otf", Type: "file", DownloadURL: raw + "ofl/slanted/Slanted-Italic.otf"},
			})
		case "/ofl/empty":
			_, _ = w.Write([]byte("[]"))
		case "/raw/ofl/open-sans/OpenSans.ttf":
			_, _ = w.Write([]byte("ttf-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return &Client{API: srv.URL + "/ofl", RawPrefix: srv.URL + "/raw/", Fetch: download.Fetch}, srv
}

func TestDownloadURLPrefersUpright(t *testing.T) {
	c, srv := newServer(t)
	u, err := c.DownloadURL(context.Background(), "open-sans")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/raw/ofl/open-sans/OpenSans.ttf", u)

	u, err = c.DownloadURL(context.Background(), "slanted")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/raw/ofl/slanted/Slanted-Italic.otf", u)

	_, err = c.DownloadURL(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFamilyTriesCandidates(t *testing.T) {
	c, _ := newServer(t)
	name, data, err := c.Family(context.Background(), "Open Sans")
	require.NoError(t, err)
	assert.Equal(t, "OpenSans.ttf", name)
	assert.Equal(t, []byte("ttf-bytes"), data)

	_, _, err = c.Family(context.Background(), "Nope")
	assert.ErrorContains(t, err, "HTTP 404")

	_, _, err = c.Family(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}
