package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytmap/internal/graph"
	"github.com/desertthunder/ytmap/internal/launcher"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
	tu "github.com/desertthunder/ytmap/internal/testing"
	"github.com/desertthunder/ytmap/internal/ytauth"
)

// actionCommand is a test command that hands the loaded config to fn.
func actionCommand(r *Runner, name string, fn func(*shared.Config)) *cli.Command {
	return &cli.Command{
		Name: name,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := r.loadConfig(cmd)
			if err != nil {
				return err
			}
			fn(config)
			return nil
		},
	}
}

type cliEnv struct {
	dir    string
	config *shared.Config
	out    *bytes.Buffer
	runner *Runner
}

// newCLIEnv builds a runner whose data files and database live in a temp dir.
func newCLIEnv(t *testing.T, mutate func(*RunnerOpts)) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Paths.MusicData = filepath.Join(dir, "music_data.json")
	config.Paths.GraphData = filepath.Join(dir, "frontend", "graph_data.json")
	config.Paths.GenreMap = filepath.Join(dir, "genre_map.json")
	config.Paths.AuthFile = filepath.Join(dir, "browser.json")
	config.Database.Path = filepath.Join(dir, "ytmap.db")
	config.Server.StaticDir = filepath.Join(dir, "frontend")

	env := &cliEnv{dir: dir, config: config, out: &bytes.Buffer{}}
	opts := RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: env.out,
		Getenv: func(string) string { return "" },
		OpenBrowser: func(context.Context, string) error {
			return errors.New("no browser in tests")
		},
	}
	if mutate != nil {
		mutate(&opts)
	}
	env.runner = NewRunner(opts)
	return env
}

func (e *cliEnv) run(ctx context.Context, args ...string) error {
	return newApp(e.runner).Run(ctx, append([]string{"ytmap"}, args...))
}

func (e *cliEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func sampleMusic() *models.MusicData {
	data := models.NewMusicData(models.SourceTakeout)
	data.LikedSongs = []models.LibrarySong{
		{ID: "1", Title: "One More Time", Artists: []models.ArtistRef{{Name: "Daft Punk", ID: "dp"}}},
		{ID: "2", Title: "Get Lucky", Artists: []models.ArtistRef{{Name: "Daft Punk", ID: "dp"}, {Name: "Pharrell Williams", ID: "pw"}}},
		{ID: "3", Title: "Happy", Artists: []models.ArtistRef{{Name: "Pharrell Williams", ID: "pw"}}},
	}
	return data
}

func TestStart(t *testing.T) {
	python := launcher.WithLookPath(func(string) (string, error) { return "/usr/bin/python3", nil })

	newBackend := func(t *testing.T) string {
		t.Helper()
		backend := filepath.Join(t.TempDir(), "backend")
		writeFile(t, filepath.Join(backend, "requirements.txt"), "flask\n")
		return backend
	}

	t.Run("dry run prints the plan without running it", func(t *testing.T) {
		backend := newBackend(t)
		env := newCLIEnv(t, func(o *RunnerOpts) { o.LauncherOpts = []launcher.Option{python} })

		require.NoError(t, env.run(t.Context(), "start", "--backend", backend, "--dry-run"))

		out := env.out.String()
		assert.Contains(t, out, "create venv")
		assert.Contains(t, out, "setup auth")
		assert.Contains(t, out, "http://localhost:5000")
		assert.NoDirExists(t, filepath.Join(backend, "venv"))
	})

	t.Run("missing interpreter exits 1", func(t *testing.T) {
		backend := newBackend(t)
		env := newCLIEnv(t, func(o *RunnerOpts) {
			o.LauncherOpts = []launcher.Option{
				launcher.WithLookPath(func(string) (string, error) { return "", errors.New("not found") }),
			}
		})

		err := env.run(t.Context(), "start", "--backend", backend)
		assert.ErrorIs(t, err, launcher.ErrInterpreterNotFound)
		assert.Equal(t, 1, launcher.ExitCode(err))
		assert.NoDirExists(t, filepath.Join(backend, "venv"))
		assert.NoFileExists(t, filepath.Join(backend, "browser.json"))
	})

	t.Run("server exit status is returned", func(t *testing.T) {
		backend := newBackend(t)
		var ran [][]string
		exec := launcher.ExecFunc(func(_ context.Context, c launcher.Command) error {
			ran = append(ran, c.Args)
			if len(c.Args) == 1 && c.Args[0] == "server.py" {
				return &launcher.ExitError{Code: 3, Err: errors.New("server crashed")}
			}
			return nil
		})
		env := newCLIEnv(t, func(o *RunnerOpts) {
			o.LauncherOpts = []launcher.Option{python, launcher.WithExecutor(exec)}
		})

		err := env.run(t.Context(), "start", "--backend", backend)
		assert.Equal(t, 3, launcher.ExitCode(err))
		require.Len(t, ran, 4)
		assert.Equal(t, []string{"setup_auth.py"}, ran[2])
		assert.Equal(t, []string{"server.py"}, ran[3])
	})
}

func TestSetupAuth(t *testing.T) {
	t.Run("cookie flags", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		require.NoError(t, env.run(t.Context(), "setup", "auth", "--cookie", "SID=abc", "--authorization", "SAPISIDHASH 1_x"))

		headers, err := ytauth.Load(env.config.Paths.AuthFile)
		require.NoError(t, err)
		assert.Equal(t, "SID=abc", headers["cookie"])
		assert.Equal(t, "SAPISIDHASH 1_x", headers["authorization"])
		assert.Equal(t, "0", headers["x-goog-authuser"])
		assert.Contains(t, env.out.String(), "configured successfully")
	})

	t.Run("curl file to custom output", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		curl := env.path("request.sh")
		writeFile(t, curl, "curl 'https://music.youtube.com/youtubei/v1/browse' \\\n  -H 'x-goog-authuser: 2' \\\n  -b 'SID=xyz'\n")
		output := env.path("auth/browser.json")

		require.NoError(t, env.run(t.Context(), "setup", "auth", "--curl-file", curl, "--output", output))

		headers, err := ytauth.Load(output)
		require.NoError(t, err)
		assert.Equal(t, "SID=xyz", headers["cookie"])
		assert.Equal(t, "2", headers["x-goog-authuser"])
		assert.NoFileExists(t, env.config.Paths.AuthFile)
	})

	t.Run("requires a source", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "setup", "auth")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		assert.NoFileExists(t, env.config.Paths.AuthFile)
	})

	t.Run("sources are exclusive", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "setup", "auth", "--cookie", "SID=1", "--curl", "curl -H 'cookie: x'")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestSetupDatabase(t *testing.T) {
	env := newCLIEnv(t, nil)
	require.NoError(t, env.run(t.Context(), "setup", "database"))
	tu.AssertFileExists(t, env.config.Database.Path)
}

func TestImportTakeout(t *testing.T) {
	t.Run("writes music data", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		base := env.path("Takeout")
		writeFile(t, filepath.Join(base, "playlists", "Liked music.csv"), "Video Id,Title\nid1,Song One\nid2,Song Two\n")

		require.NoError(t, env.run(t.Context(), "import", "takeout", base))

		data, err := models.LoadMusicData(env.config.Paths.MusicData)
		require.NoError(t, err)
		assert.Len(t, data.LikedSongs, 2)
		assert.Equal(t, models.SourceTakeout, data.Source)
		assert.Contains(t, env.out.String(), "Liked songs: 2")
	})

	t.Run("requires a directory", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		assert.ErrorIs(t, env.run(t.Context(), "import", "takeout"), shared.ErrMissingArgument)
	})

	t.Run("no takeout data", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "import", "takeout", t.TempDir())
		assert.ErrorIs(t, err, shared.ErrTakeoutNotFound)
	})
}

func TestGraphCommands(t *testing.T) {
	t.Run("build rebuild export", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		require.NoError(t, sampleMusic().Save(env.config.Paths.MusicData))

		require.NoError(t, env.run(t.Context(), "graph", "build"))

		g, err := models.LoadGraph(env.config.Paths.GraphData)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 2)
		assert.Contains(t, env.out.String(), "Artists: 2")

		require.NoError(t, env.run(t.Context(), "graph", "rebuild"))
		assert.Contains(t, env.out.String(), "Updated song lists for")

		output := env.path("exports/artists.md")
		require.NoError(t, env.run(t.Context(), "graph", "export", "--format", "md", "--output", output, "--genres"))
		content := tu.MustReadFile(t, output)
		assert.Contains(t, content, "Daft Punk")
		assert.Contains(t, env.out.String(), "Exported 2 artists")
		assert.Contains(t, env.out.String(), "Genre")
	})

	t.Run("rebuild lifts the song cap of a built graph", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		music := models.NewMusicData(models.SourceTakeout)
		for i := range graph.MaxSongsPerNode + 5 {
			music.LikedSongs = append(music.LikedSongs, models.LibrarySong{
				Title:   fmt.Sprintf("Track %d", i),
				Artists: []models.ArtistRef{{Name: "Daft Punk", ID: "dp"}},
			})
		}
		require.NoError(t, music.Save(env.config.Paths.MusicData))

		require.NoError(t, env.run(t.Context(), "graph", "build"))
		require.NoError(t, env.run(t.Context(), "graph", "rebuild"))
		assert.Contains(t, env.out.String(), "Updated song lists for 1 artists")

		g, err := models.LoadGraph(env.config.Paths.GraphData)
		require.NoError(t, err)
		require.Len(t, g.Nodes, 1)
		assert.Len(t, g.Nodes[0].Songs, graph.MaxSongsPerNode+5)
	})

	t.Run("build without music data", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		assert.ErrorIs(t, env.run(t.Context(), "graph", "build"), shared.ErrNoMusicData)
	})

	t.Run("build uses the genre map", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		require.NoError(t, sampleMusic().Save(env.config.Paths.MusicData))
		writeFile(t, env.config.Paths.GenreMap, `{"Daft Punk": "House"}`)

		require.NoError(t, env.run(t.Context(), "graph", "build", "--enrich=false"))

		g, err := models.LoadGraph(env.config.Paths.GraphData)
		require.NoError(t, err)
		genres := map[string]string{}
		for _, n := range g.Nodes {
			genres[n.Name] = n.Genre
		}
		assert.Equal(t, "House", genres["Daft Punk"])
		assert.Equal(t, models.GenreOther, genres["Pharrell Williams"])
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		assert.ErrorIs(t, env.run(t.Context(), "graph", "export", "--format", "pdf"), shared.ErrInvalidFlag)
	})

	t.Run("genres assign saves graph and map", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		g := &models.Graph{Nodes: []*models.Node{
			{ID: "dp", Name: "Daft Punk", Genre: models.GenreOther},
			{ID: "x", Name: "Some Unknown Band", Genre: models.GenreOther},
		}}
		require.NoError(t, g.Save(env.config.Paths.GraphData))

		require.NoError(t, env.run(t.Context(), "genres", "assign", "--save-map"))

		out := env.out.String()
		assert.Contains(t, out, "Genre assignment")
		assert.Contains(t, out, "Inference pass 3")
		tu.AssertFileExists(t, env.config.Paths.GenreMap)
	})
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServe(t *testing.T) {
	opened := make(chan string, 1)
	env := newCLIEnv(t, func(o *RunnerOpts) {
		o.OpenBrowser = func(_ context.Context, u string) error {
			opened <- u
			return nil
		}
	})
	env.config.Server.Host = "127.0.0.1"
	env.config.Server.Port = 0

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- env.run(ctx, "serve", "--open") }()

	var base string
	select {
	case base = <-opened:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(base + "/api/spotify/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSpotifyLibrary(t *testing.T) {
	// authorize follows the auth URL's state back to the local callback, standing in for the browser.
	authorize := func(redirect string) func(context.Context, string) error {
		return func(_ context.Context, authURL string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			go func() {
				resp, err := http.Get(redirect + "?code=abc&state=" + url.QueryEscape(u.Query().Get("state")))
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		}
	}

	t.Run("builds graph from saved tracks", func(t *testing.T) {
		redirect := fmt.Sprintf("http://%s/callback/spotify", freeAddr(t))
		spotify := &tu.MockOAuthService{Songs: []models.Song{
			{Title: "Get Lucky", Artist: "Daft Punk", AllArtists: []string{"Daft Punk", "Pharrell Williams"}, Popularity: 80},
			{Title: "Around the World", Artist: "Daft Punk", AllArtists: []string{"Daft Punk"}, Popularity: 70},
		}}
		env := newCLIEnv(t, func(o *RunnerOpts) {
			o.Spotify = spotify
			o.OpenBrowser = authorize(redirect)
		})
		env.config.Credentials.Spotify.RedirectURI = redirect

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
		defer cancel()
		require.NoError(t, env.run(ctx, "spotify", "library", "--max-tracks", "1"))

		assert.Equal(t, []string{"abc"}, spotify.Exchanged())
		g, err := models.LoadGraph(env.config.Paths.GraphData)
		require.NoError(t, err)
		require.NotEmpty(t, g.Nodes)
		assert.Equal(t, "Daft Punk", g.Nodes[0].Name)
		assert.Contains(t, env.out.String(), "Songs: 1")
	})

	t.Run("empty library", func(t *testing.T) {
		redirect := fmt.Sprintf("http://%s/callback/spotify", freeAddr(t))
		env := newCLIEnv(t, func(o *RunnerOpts) {
			o.Spotify = &tu.MockOAuthService{}
			o.OpenBrowser = authorize(redirect)
		})
		env.config.Credentials.Spotify.RedirectURI = redirect

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
		defer cancel()
		assert.ErrorIs(t, env.run(ctx, "spotify", "library"), shared.ErrNoSongs)
		assert.NoFileExists(t, env.config.Paths.GraphData)
	})

	t.Run("not configured", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		assert.ErrorIs(t, env.run(t.Context(), "spotify", "library"), shared.ErrNotConfigured)
	})
}

func TestBrowserURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"127.0.0.1:5050", "http://127.0.0.1:5050"},
		{"0.0.0.0:5050", "http://localhost:5050"},
		{"[::]:8080", "http://localhost:8080"},
		{":5050", "http://localhost:5050"},
		{"example.com", "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, browserURL(tt.addr))
		})
	}
}

func TestAPICommands(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/status":
			w.Write([]byte(`{"authenticated": false, "message": "Not authenticated", "mode": "none"}`))
		case r.URL.Path == "/api/auth/setup" && r.Method == http.MethodPost:
			w.Write([]byte(`{"success": true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	t.Run("status", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		require.NoError(t, env.run(t.Context(), "api", "status", "--url", backend.URL))

		out := env.out.String()
		assert.Contains(t, out, "Mode: none")
		assert.Contains(t, out, "Authenticated: false")
	})

	t.Run("get prints JSON", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		require.NoError(t, env.run(t.Context(), "api", "get", "--url", backend.URL, "--compact", "/api/status"))
		assert.Contains(t, env.out.String(), `"mode":"none"`)
	})

	t.Run("get reports error status", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "api", "get", "--url", backend.URL, "/api/nope")
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
	})

	t.Run("post validates JSON", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "api", "post", "--url", backend.URL, "--data", "{bad", "/api/auth/setup")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		require.NoError(t, env.run(t.Context(), "api", "post", "--url", backend.URL, "--data", `{"cookie":"SID=1"}`, "/api/auth/setup"))
		assert.Contains(t, env.out.String(), `"success": true`)
	})

	t.Run("backend down", func(t *testing.T) {
		env := newCLIEnv(t, nil)
		err := env.run(t.Context(), "api", "status", "--url", "http://"+freeAddr(t))
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})
}
