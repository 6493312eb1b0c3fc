package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/ytmap/internal/shared"
	"golang.org/x/oauth2"
)

var testCredentials = shared.SpotifyConfig{
	ClientID:     "test_client_id",
	ClientSecret: "test_client_secret",
}

// fakeSpotify serves the token endpoint and a saved-tracks library of size total.
type fakeSpotify struct {
	total      int
	failOffset int

	mu        sync.Mutex
	requests  []string
	refreshed bool
}

func (f *fakeSpotify) pages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeSpotify) didRefresh() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshed
}

func (f *fakeSpotify) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad token form: %v", err)
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "test_client_id" {
			t.Errorf("expected basic auth with client id, got %q", user)
		}
		access := "access-" + r.Form.Get("code")
		if r.Form.Get("grant_type") == "refresh_token" {
			f.mu.Lock()
			f.refreshed = true
			f.mu.Unlock()
			access = "refreshed"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"token_type":    "Bearer",
			"refresh_token": "refresh",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/v1/me/tracks", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.RawQuery)
		f.mu.Unlock()
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"status":401,"message":"No token provided"}}`))
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if f.failOffset > 0 && offset == f.failOffset {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"status":500,"message":"boom"}}`))
			return
		}

		page := SpotifyPaginatedTracks{Limit: limit, Offset: offset, Total: f.total}
		for i := offset; i < min(offset+limit, f.total); i++ {
			page.Items = append(page.Items, SpotifySavedTrack{Track: &SpotifyTrack{
				ID:         fmt.Sprintf("t%d", i),
				Name:       fmt.Sprintf("Song %d", i),
				Artists:    []SpotifyArtist{{Name: "Artist"}, {Name: "Guest"}},
				Album:      SpotifyAlbum{Name: "Album"},
				Popularity: 40,
			}})
		}
		if offset+limit < f.total {
			next := "more"
			page.Next = &next
		}
		_ = json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/v1/me/top/artists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("time_range") != "medium_term" {
			t.Errorf("unexpected time_range %q", r.URL.Query().Get("time_range"))
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"a1","name":"Madeon","genres":["electro house"]}]}`))
	})
	mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"user1","display_name":"Listener"}`))
	})
	return mux
}

func newTestService(t *testing.T, f *fakeSpotify) *SpotifyService {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	s, err := NewSpotifyService(testCredentials,
		WithAPIURL(srv.URL+"/v1"),
		WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInHeader}),
		WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return s
}

func validToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "valid", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if !srv.Configured() {
				t.Error("expected service to be configured")
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientSecret: "secret"})
			if !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "id"})
			if !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.config.RedirectURL != shared.DefaultSpotifyRedirectURI {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		u, err := url.Parse(srv.AuthURL("test_state"))
		if err != nil {
			t.Fatalf("invalid auth URL: %v", err)
		}
		q := u.Query()

		if u.Host != "accounts.spotify.com" {
			t.Errorf("auth URL should use Spotify domain, got %s", u.Host)
		}
		if q.Get("client_id") != "test_client_id" || q.Get("state") != "test_state" {
			t.Errorf("unexpected query: %s", u.RawQuery)
		}
		if q.Get("scope") != "user-library-read user-top-read playlist-read-private" {
			t.Errorf("unexpected scope %q", q.Get("scope"))
		}
		if q.Get("show_dialog") != "true" || q.Get("response_type") != "code" {
			t.Errorf("expected show_dialog and code response, got %s", u.RawQuery)
		}
	})

	t.Run("Exchange", func(t *testing.T) {
		s := newTestService(t, &fakeSpotify{})

		token, err := s.Exchange(context.Background(), "abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken != "access-abc" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", token)
		}

		if _, err := s.Exchange(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("AllSavedTracks", func(t *testing.T) {
		t.Run("pages until next is empty", func(t *testing.T) {
			f := &fakeSpotify{total: 120}
			s := newTestService(t, f)

			tracks, err := s.AllSavedTracks(context.Background(), validToken(), 1000)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != 120 {
				t.Errorf("expected 120 tracks, got %d", len(tracks))
			}
			pages := f.pages()
			if len(pages) != 3 {
				t.Fatalf("expected 3 page requests, got %v", pages)
			}
			if pages[0] != "limit=50&offset=0" {
				t.Errorf("unexpected first page query %q", pages[0])
			}
		})

		t.Run("stops at max", func(t *testing.T) {
			f := &fakeSpotify{total: 500}
			s := newTestService(t, f)

			tracks, err := s.AllSavedTracks(context.Background(), validToken(), 100)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tracks) != 100 || len(f.pages()) != 2 {
				t.Errorf("expected 100 tracks in 2 pages, got %d in %d", len(tracks), len(f.pages()))
			}
		})

		t.Run("empty library", func(t *testing.T) {
			s := newTestService(t, &fakeSpotify{})

			tracks, err := s.AllSavedTracks(context.Background(), validToken(), 1000)
			if err != nil || len(tracks) != 0 {
				t.Errorf("expected no tracks and no error, got %d, %v", len(tracks), err)
			}
		})

		t.Run("failing page keeps earlier tracks", func(t *testing.T) {
			s := newTestService(t, &fakeSpotify{total: 200, failOffset: 100})

			tracks, err := s.AllSavedTracks(context.Background(), validToken(), 1000)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Fatalf("expected ErrServiceUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), "boom") {
				t.Errorf("expected API message in error, got %v", err)
			}
			if len(tracks) != 100 {
				t.Errorf("expected 100 tracks before failure, got %d", len(tracks))
			}
		})

		t.Run("missing token", func(t *testing.T) {
			s := newTestService(t, &fakeSpotify{})
			if _, err := s.AllSavedTracks(context.Background(), nil, 10); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("LibrarySongs refreshes expired token", func(t *testing.T) {
		f := &fakeSpotify{total: 3}
		s := newTestService(t, f)

		var refreshedVia string
		s.SetTokenRefreshCallback(func(token *oauth2.Token) { refreshedVia = token.AccessToken })

		expired := &oauth2.Token{AccessToken: "old", RefreshToken: "refresh", Expiry: time.Now().Add(-time.Hour)}
		songs, latest, err := s.LibrarySongs(context.Background(), expired, 1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.didRefresh() {
			t.Error("expected refresh grant to be used")
		}
		if latest.AccessToken != "refreshed" || refreshedVia != "refreshed" {
			t.Errorf("expected refreshed token to be reported, got %q / %q", latest.AccessToken, refreshedVia)
		}
		if len(songs) != 3 || songs[0].Artist != "Artist" || len(songs[0].AllArtists) != 2 {
			t.Errorf("unexpected songs: %+v", songs)
		}
	})

	t.Run("TopArtists and UserProfile", func(t *testing.T) {
		s := newTestService(t, &fakeSpotify{})

		artists, err := s.TopArtists(context.Background(), validToken(), "", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(artists) != 1 || artists[0].Name != "Madeon" || artists[0].Genres[0] != "electro house" {
			t.Errorf("unexpected artists: %+v", artists)
		}

		user, err := s.UserProfile(context.Background(), validToken())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.DisplayName != "Listener" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("Service Interface", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		var _ OAuthService = srv
	})

	t.Run("SetTokenRefreshCallback", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("sets callback successfully", func(t *testing.T) {
			srv.SetTokenRefreshCallback(func(token *oauth2.Token) {})
			if srv.onTokenRefresh == nil {
				t.Error("expected callback to be set")
			}
		})

		t.Run("can set nil callback", func(t *testing.T) {
			srv.SetTokenRefreshCallback(nil)
			if srv.onTokenRefresh != nil {
				t.Error("expected callback to be nil")
			}
		})
	})

	t.Run("refreshableTokenSource", func(t *testing.T) {
		t.Run("calls callback on first token fetch", func(t *testing.T) {
			var capturedToken *oauth2.Token

			source := &refreshableTokenSource{
				source:   &mockTokenSource{token: &oauth2.Token{AccessToken: "test_token"}},
				callback: func(token *oauth2.Token) { capturedToken = token },
			}

			token, err := source.Token()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if capturedToken == nil || capturedToken.AccessToken != "test_token" {
				t.Errorf("expected captured token to be 'test_token', got %v", capturedToken)
			}
			if token.AccessToken != "test_token" {
				t.Errorf("expected returned token to be 'test_token', got %s", token.AccessToken)
			}
		})

		t.Run("calls callback when token changes", func(t *testing.T) {
			callCount := 0
			mockSource := &mockTokenSource{token: &oauth2.Token{AccessToken: "token1"}}
			source := &refreshableTokenSource{
				source:   mockSource,
				callback: func(token *oauth2.Token) { callCount++ },
			}

			_, _ = source.Token()
			mockSource.token = &oauth2.Token{AccessToken: "token2"}
			token2, _ := source.Token()

			if callCount != 2 {
				t.Errorf("expected callback called twice, got %d", callCount)
			}
			if token2.AccessToken != "token2" {
				t.Errorf("expected new token, got %s", token2.AccessToken)
			}
		})

		t.Run("doesn't call callback when token unchanged", func(t *testing.T) {
			callCount := 0
			source := &refreshableTokenSource{
				source:   &mockTokenSource{token: &oauth2.Token{AccessToken: "same_token"}},
				callback: func(token *oauth2.Token) { callCount++ },
			}

			_, _ = source.Token()
			_, _ = source.Token()
			_, _ = source.Token()

			if callCount != 1 {
				t.Errorf("expected callback called once, got %d", callCount)
			}
		})

		t.Run("handles nil callback gracefully", func(t *testing.T) {
			source := &refreshableTokenSource{
				source: &mockTokenSource{token: &oauth2.Token{AccessToken: "test_token"}},
			}

			token, err := source.Token()
			if err != nil {
				t.Fatalf("expected no error with nil callback, got %v", err)
			}
			if token.AccessToken != "test_token" {
				t.Error("expected token to be returned despite nil callback")
			}
		})

		t.Run("propagates source errors", func(t *testing.T) {
			source := &refreshableTokenSource{
				source: &mockTokenSource{err: errors.New("token source error")},
				callback: func(token *oauth2.Token) {
					t.Error("callback should not be called on error")
				},
			}

			token, err := source.Token()
			if err == nil || !strings.Contains(err.Error(), "token source error") {
				t.Fatalf("expected source error, got %v", err)
			}
			if token != nil {
				t.Error("expected nil token on error")
			}
		})
	})

	t.Run("SongsFromTracks", func(t *testing.T) {
		tracks := []SpotifySavedTrack{
			{Track: nil},
			{Track: &SpotifyTrack{Name: "", Album: SpotifyAlbum{Name: "LP"}, Popularity: 10}},
			{Track: &SpotifyTrack{Name: "Shelter", Artists: []SpotifyArtist{{Name: "Porter Robinson"}, {Name: "Madeon"}}}},
		}

		songs := SongsFromTracks(tracks)
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Title != "Unknown" || songs[0].Artist != "Unknown Artist" || songs[0].Album != "LP" || songs[0].Popularity != 10 {
			t.Errorf("unexpected defaults: %+v", songs[0])
		}
		if songs[1].Artist != "Porter Robinson" || strings.Join(songs[1].AllArtists, ",") != "Porter Robinson,Madeon" {
			t.Errorf("unexpected song: %+v", songs[1])
		}
	})
}

// mockTokenSource implements [oauth2.TokenSource] for testing
type mockTokenSource struct {
	token *oauth2.Token
	err   error
}

func (m *mockTokenSource) Token() (*oauth2.Token, error) {
	return m.token, m.err
}
