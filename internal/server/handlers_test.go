package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/ytmap/internal/lastfm"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
	th "github.com/desertthunder/ytmap/internal/testing"
	"github.com/desertthunder/ytmap/internal/ytauth"
)

func writeMusicData(t *testing.T, path string) {
	t.Helper()
	data := models.NewMusicData(models.SourceTakeout)
	data.LikedSongs = []models.LibrarySong{
		{ID: "1", Title: "Shelter", Artists: []models.ArtistRef{{Name: "Porter Robinson"}, {Name: "Madeon"}}},
		{ID: "2", Title: "Icarus", Artists: []models.ArtistRef{{Name: "Madeon"}}},
	}
	data.LibraryArtists = []models.ArtistRef{{Name: "Porter Robinson"}, {Name: "Madeon"}}
	require.NoError(t, data.Save(path))
}

func TestStatus(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		env := newTestEnv(t, nil)
		got := decode[statusResponse](t, env.get(t, "/api/status"))
		assert.Equal(t, statusResponse{Message: "Not authenticated", Mode: "none"}, got)
	})

	t.Run("browser auth", func(t *testing.T) {
		env := newTestEnv(t, nil)
		h, err := ytauth.FromHeaders("SAPISID=abc", "", "")
		require.NoError(t, err)
		require.NoError(t, ytauth.Write(env.config.Paths.AuthFile, h))

		got := decode[statusResponse](t, env.get(t, "/api/status"))
		assert.True(t, got.Authenticated)
		assert.Equal(t, "api", got.Mode)
	})

	t.Run("broken browser auth", func(t *testing.T) {
		env := newTestEnv(t, nil)
		require.NoError(t, os.WriteFile(env.config.Paths.AuthFile, []byte(`{"accept":"*/*"}`), 0600))

		got := decode[statusResponse](t, env.get(t, "/api/status"))
		assert.False(t, got.Authenticated)
		assert.Contains(t, got.Message, "Not authenticated:")
	})

	t.Run("imported data", func(t *testing.T) {
		env := newTestEnv(t, nil)
		writeMusicData(t, env.config.Paths.MusicData)

		got := decode[statusResponse](t, env.get(t, "/api/status"))
		assert.Equal(t, statusResponse{
			Authenticated: true,
			Message:       "Using imported data: 2 songs, 2 artists",
			Mode:          "imported",
		}, got)
	})
}

func TestAuthSetup(t *testing.T) {
	t.Run("no headers", func(t *testing.T) {
		env := newTestEnv(t, nil)
		for _, body := range []string{"", "{}", "not json"} {
			rec := env.postJSON(t, "/api/auth/setup", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, "No headers provided", errorMessage(t, rec))
		}
	})

	t.Run("no cookie", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.postJSON(t, "/api/auth/setup", `{"Authorization":"SAPISIDHASH x"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication failed", errorMessage(t, rec))
		assert.False(t, ytauth.Exists(env.config.Paths.AuthFile))
	})

	t.Run("saves browser.json", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.postJSON(t, "/api/auth/setup", `{"Cookie":"SAPISID=abc","X-Goog-AuthUser":"1"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[messageResponse](t, rec)
		assert.Equal(t, messageResponse{Success: true, Message: "Authentication successful"}, got)

		h, err := ytauth.Load(env.config.Paths.AuthFile)
		require.NoError(t, err)
		assert.Equal(t, "SAPISID=abc", h["cookie"])
		assert.Equal(t, "1", h["x-goog-authuser"])
		assert.Equal(t, ytauth.Origin, h["x-origin"])
	})
}

func TestGraphRoutes(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.get(t, "/api/graph")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "No music data available")
	})

	t.Run("saved graph", func(t *testing.T) {
		env := newTestEnv(t, nil)
		g := &models.Graph{Nodes: []*models.Node{{ID: "a", Name: "a"}}, Links: []models.Link{}}
		require.NoError(t, g.Save(env.config.Paths.GraphData))

		got := decode[models.Graph](t, env.get(t, "/api/graph"))
		require.Len(t, got.Nodes, 1)
		assert.Equal(t, "a", got.Nodes[0].Name)
	})

	t.Run("built from music data", func(t *testing.T) {
		env := newTestEnv(t, nil)
		writeMusicData(t, env.config.Paths.MusicData)

		rec := env.get(t, "/api/graph")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[models.Graph](t, rec)
		assert.Len(t, got.Nodes, 2)
		assert.Len(t, got.Links, 1)
		th.AssertFileExists(t, env.config.Paths.GraphData)
	})

	t.Run("demo", func(t *testing.T) {
		env := newTestEnv(t, nil)
		got := decode[models.Graph](t, env.get(t, "/api/demo/graph"))
		assert.NotEmpty(t, got.Nodes)
		assert.NotEmpty(t, got.Links)
	})
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	csv := []byte("Song Title,Artist Name 1,Artist Name 2\nShelter,Porter Robinson,Madeon\nIcarus,Madeon,\nLanguage,Porter Robinson,\n")

	t.Run("csv", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, multipartRequest(t, "file", "library.csv", csv))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[graphResponse](t, rec)
		assert.True(t, got.Success)
		assert.Equal(t, 3, got.SongCount)
		assert.Equal(t, 2, got.ArtistCount)
		require.NotNil(t, got.GraphData)
		for _, n := range got.GraphData.Nodes {
			assert.Equal(t, models.GenreOther, n.Genre)
		}
	})

	t.Run("no file", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, multipartRequest(t, "", "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No file provided", errorMessage(t, rec))
	})

	t.Run("unsupported type", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, multipartRequest(t, "file", "notes.txt", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unsupported file type. Use ZIP, CSV, or JSON.", errorMessage(t, rec))
	})

	t.Run("no songs", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, multipartRequest(t, "file", "empty.json", []byte(`[]`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No songs found in file. Check the format.", errorMessage(t, rec))
	})
}

func TestUploadPaste(t *testing.T) {
	t.Run("missing text", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.postJSON(t, "/api/upload/paste", `{"text":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No playlist text provided", errorMessage(t, rec))
	})

	t.Run("no songs", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.postJSON(t, "/api/upload/paste", `{"playlist_text":"3:45\nShuffle\n"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No songs found. Try copying the playlist differently.", errorMessage(t, rec))
	})

	t.Run("songs", func(t *testing.T) {
		env := newTestEnv(t, nil)
		body, err := json.Marshal(map[string]string{"playlist_text": "Shelter - Porter Robinson\n3:37\nIcarus\nMadeon\n"})
		require.NoError(t, err)

		rec := env.postJSON(t, "/api/upload/paste", string(body))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[graphResponse](t, rec)
		assert.Equal(t, 2, got.SongCount)
		assert.Equal(t, 2, got.ArtistCount)
	})
}

func fakeLastFM(t *testing.T, handler http.HandlerFunc) *lastfm.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return lastfm.NewClient(shared.LastFMConfig{APIKey: "key"},
		lastfm.WithBaseURL(srv.URL+"/"),
		lastfm.WithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}))
}

func TestSimilar(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.get(t, "/api/similar/Madeon")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Last.fm API key not configured. Set LASTFM_API_KEY environment variable.", errorMessage(t, rec))
	})

	t.Run("similar artists", func(t *testing.T) {
		var gotArtist string
		client := fakeLastFM(t, func(w http.ResponseWriter, r *http.Request) {
			gotArtist = r.URL.Query().Get("artist")
			_, _ = w.Write([]byte(`{"similarartists":{"artist":[
				{"name":"Porter Robinson","match":"0.9","url":"https://last.fm/p","image":[{"#text":"m.png","size":"medium"}]}
			]}}`))
		})
		env := newTestEnv(t, func(o *Options) { o.LastFM = client })

		rec := env.get(t, "/api/similar/"+url.PathEscape("AC/DC"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[similarResponse](t, rec)
		assert.Equal(t, "AC/DC", gotArtist)
		assert.Equal(t, "AC/DC", got.Artist)
		require.Len(t, got.Similar, 1)
		assert.Equal(t, lastfm.SimilarArtist{Name: "Porter Robinson", Match: 0.9, URL: "https://last.fm/p", Image: "m.png"}, got.Similar[0])
	})

	t.Run("artist not found", func(t *testing.T) {
		client := fakeLastFM(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":6,"message":"The artist you supplied could not be found"}`))
		})
		env := newTestEnv(t, func(o *Options) { o.LastFM = client })

		rec := env.get(t, "/api/similar/nobody")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "The artist you supplied could not be found", errorMessage(t, rec))
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		client := fakeLastFM(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		})
		t.Cleanup(func() { close(block) })
		env := newTestEnv(t, func(o *Options) { o.LastFM = client })

		rec := env.get(t, "/api/similar/slow")
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, "Last.fm API timeout", errorMessage(t, rec))
	})
}

func TestLastFMStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	got := decode[configuredResponse](t, env.get(t, "/api/lastfm/status"))
	assert.Equal(t, configuredResponse{Message: "Set LASTFM_API_KEY to enable similar artists"}, got)

	env = newTestEnv(t, func(o *Options) {
		o.LastFM = lastfm.NewClient(shared.LastFMConfig{APIKey: "key"})
	})
	got = decode[configuredResponse](t, env.get(t, "/api/lastfm/status"))
	assert.Equal(t, configuredResponse{Configured: true, Message: "Last.fm API ready"}, got)
}

func TestUnknownAPIRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec := env.do(t, httptest.NewRequest(method, "/api/nope", nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.Equal(t, "Not found", errorMessage(t, rec))
		})
	}

	rec := env.get(t, "/api/status")
	assert.Equal(t, http.StatusOK, rec.Code, "known routes are unaffected")
}

func TestStaticFrontend(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(env.config.Server.StaticDir, "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(env.config.Server.StaticDir, "index.html"), []byte("<h1>mapper</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.config.Server.StaticDir, "js", "app.js"), []byte("init()"), 0644))

	rec := env.get(t, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mapper")

	rec = env.get(t, "/js/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "init()", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, env.get(t, "/missing.css").Code)
}
