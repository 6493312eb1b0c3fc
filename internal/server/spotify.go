package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
	"golang.org/x/oauth2"
)

type spotifyStatusResponse struct {
	Configured    bool `json:"configured"`
	Authenticated bool `json:"authenticated"`
}

type spotifyAuthResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

func (s *Server) spotifyConfigured() bool {
	return s.spotify != nil && s.spotify.Configured()
}

// session returns the Spotify session named by the request's cookie.
func (s *Server) session(r *http.Request) (*models.SpotifySession, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("%w: spotify", shared.ErrNotConfigured)
	}
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: no session cookie", shared.ErrNotAuthenticated)
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) handleSpotifyStatus(w http.ResponseWriter, r *http.Request) {
	_, err := s.session(r)
	writeJSON(w, http.StatusOK, spotifyStatusResponse{
		Configured:    s.spotifyConfigured(),
		Authenticated: err == nil,
	})
}

// handleSpotifyAuth issues a state and returns the authorization URL for the frontend to open.
func (s *Server) handleSpotifyAuth(w http.ResponseWriter, r *http.Request) {
	if !s.spotifyConfigured() {
		writeError(w, http.StatusBadRequest, "Spotify not configured. Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET.")
		return
	}

	state, err := s.states.Issue()
	if err != nil {
		s.logger.Error("failed to issue oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start Spotify authorization")
		return
	}
	writeJSON(w, http.StatusOK, spotifyAuthResponse{AuthURL: s.spotify.AuthURL(state), State: state})
}

// spotifyCallback completes the browser OAuth flow and binds the token to a session cookie.
type spotifyCallback struct {
	server *Server
}

func (h *spotifyCallback) Routes() []string {
	return []string{"/callback/spotify"}
}

func (h *spotifyCallback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.server
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		writePage(w, http.StatusOK, authFailedPage(errParam))
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "No authorization code received", http.StatusBadRequest)
		return
	}
	if !s.spotifyConfigured() {
		writePage(w, http.StatusBadRequest, authFailedPage("Spotify is not configured"))
		return
	}
	if err := s.states.Consume(q.Get("state")); err != nil {
		s.logger.Warn("rejected spotify callback", "error", err)
		writePage(w, http.StatusBadRequest, authFailedPage("invalid or expired state"))
		return
	}

	token, err := s.spotify.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Warn("spotify token exchange failed", "error", err)
		writePage(w, http.StatusOK, exchangeFailedPage(err.Error()))
		return
	}

	session := models.NewSpotifySession("", token)
	if err := s.sessions.Create(session); err != nil {
		s.logger.Error("failed to store spotify session", "error", err)
		writePage(w, http.StatusInternalServerError, exchangeFailedPage("could not store session"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.SessionID,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("spotify connected", "session", session.SessionID)
	writePage(w, http.StatusOK, connectedPage())
}

// handleSpotifyLibrary builds a graph from the session's saved tracks.
func (s *Server) handleSpotifyLibrary(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil || !s.spotifyConfigured() {
		writeError(w, http.StatusUnauthorized, "Not authenticated with Spotify")
		return
	}
	if session.AccessToken == "" {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	songs, token, err := s.spotify.LibrarySongs(r.Context(), session.Token(), s.maxTracks())
	s.saveRefreshedToken(session, token)

	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			s.clearSession(w, session.SessionID)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if len(songs) == 0 {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching Spotify library: %v", err))
			return
		}
		s.logger.Warn("spotify library incomplete", "tracks", len(songs), "error", err)
	}
	if len(songs) == 0 {
		writeError(w, http.StatusNotFound, "No tracks found in your Spotify library")
		return
	}

	result, err := s.builder.FromSpotify(r.Context(), songs, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching Spotify library: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, newGraphResponse(result))
}

// saveRefreshedToken persists token when the client refreshed it.
func (s *Server) saveRefreshedToken(session *models.SpotifySession, token *oauth2.Token) {
	if token == nil || token.AccessToken == "" || token.AccessToken == session.AccessToken {
		return
	}
	session.SetToken(token)
	if err := s.sessions.Update(session); err != nil {
		s.logger.Warn("failed to store refreshed spotify token", "session", session.SessionID, "error", err)
	}
}

func (s *Server) handleSpotifyDisconnect(w http.ResponseWriter, r *http.Request) {
	var id string
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}
	s.clearSession(w, id)
	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

// clearSession deletes the stored session id and expires the session cookie.
func (s *Server) clearSession(w http.ResponseWriter, id string) {
	if id != "" && s.sessions != nil {
		if err := s.sessions.Delete(id); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			s.logger.Warn("failed to delete spotify session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
}
