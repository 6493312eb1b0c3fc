package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/ytmap/internal/graph"
	"github.com/desertthunder/ytmap/internal/lastfm"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/tasks"
	"github.com/desertthunder/ytmap/internal/upload"
	"github.com/desertthunder/ytmap/internal/ytauth"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
	Mode          string `json:"mode"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// graphResponse is returned by the upload and Spotify library routes.
type graphResponse struct {
	Success     bool          `json:"success"`
	SongCount   int           `json:"song_count"`
	ArtistCount int           `json:"artist_count"`
	GraphData   *models.Graph `json:"graph_data"`
}

type similarResponse struct {
	Artist  string                 `json:"artist"`
	Similar []lastfm.SimilarArtist `json:"similar"`
}

type configuredResponse struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message,omitempty"`
}

type pasteRequest struct {
	PlaylistText *string `json:"playlist_text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// apiNotFound answers unknown /api/ paths with a JSON error instead of the static file server's 404.
type apiNotFound struct{}

func (apiNotFound) Routes() []string { return []string{"/api/"} }

func (apiNotFound) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func newGraphResponse(result *tasks.BuildResult) graphResponse {
	return graphResponse{
		Success:     true,
		SongCount:   result.Songs,
		ArtistCount: len(result.Graph.Nodes),
		GraphData:   result.Graph,
	}
}

// handleStatus reports which data source the frontend will see.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	paths := s.config.Paths

	if shared.FileExists(paths.MusicData) {
		data, err := models.LoadMusicData(paths.MusicData)
		if err == nil {
			stats := data.Stats()
			writeJSON(w, http.StatusOK, statusResponse{
				Authenticated: true,
				Message:       fmt.Sprintf("Using imported data: %d songs, %d artists", stats.LikedSongs, stats.Artists),
				Mode:          "imported",
			})
			return
		}
		s.logger.Warn("unreadable music data", "path", paths.MusicData, "error", err)
	}

	if _, err := ytauth.Load(paths.AuthFile); err == nil {
		writeJSON(w, http.StatusOK, statusResponse{Authenticated: true, Message: "Browser authentication configured", Mode: "api"})
		return
	} else if ytauth.Exists(paths.AuthFile) {
		writeJSON(w, http.StatusOK, statusResponse{Message: fmt.Sprintf("Not authenticated: %v", err), Mode: "none"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Message: "Not authenticated", Mode: "none"})
}

// handleAuthSetup stores browser headers posted by the frontend as browser.json.
func (s *Server) handleAuthSetup(w http.ResponseWriter, r *http.Request) {
	var raw map[string]string
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&raw); err != nil || len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "No headers provided")
		return
	}

	headers, err := ytauth.Normalize(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if err := ytauth.Write(s.config.Paths.AuthFile, headers); err != nil {
		s.logger.Error("failed to write auth file", "path", s.config.Paths.AuthFile, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save authentication")
		return
	}

	s.logger.Info("saved browser authentication", "path", s.config.Paths.AuthFile)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Authentication successful"})
}

// handleGraph serves the saved graph, building and saving it from music data when missing.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	paths := s.config.Paths

	if g, err := models.LoadGraph(paths.GraphData); err == nil {
		writeJSON(w, http.StatusOK, g)
		return
	} else if !errors.Is(err, shared.ErrNoMusicData) {
		s.logger.Warn("unreadable graph data, rebuilding", "path", paths.GraphData, "error", err)
	}

	data, err := models.LoadMusicData(paths.MusicData)
	if err != nil {
		writeError(w, http.StatusNotFound, "No music data available. Import a Google Takeout export first")
		return
	}

	result, err := s.builder.FromSongs(r.Context(), data.Songs(), nil)
	if err != nil {
		if errors.Is(err, shared.ErrNoSongs) {
			writeError(w, http.StatusNotFound, "No music data available. Import a Google Takeout export first")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error building graph: %v", err))
		return
	}

	if err := result.Graph.Save(paths.GraphData); err != nil {
		s.logger.Warn("failed to save graph", "path", paths.GraphData, "error", err)
	}
	writeJSON(w, http.StatusOK, result.Graph)
}

func (s *Server) handleDemoGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graph.Demo())
}

// handleUpload builds a graph from an uploaded ZIP, CSV, or JSON export.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	songs, err := upload.Parse(header.Filename, content)
	if errors.Is(err, shared.ErrUnsupportedFile) {
		writeError(w, http.StatusBadRequest, "Unsupported file type. Use ZIP, CSV, or JSON.")
		return
	}
	if errors.Is(err, shared.ErrFileTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}
	if len(songs) == 0 {
		writeError(w, http.StatusBadRequest, "No songs found in file. Check the format.")
		return
	}

	s.logger.Info("parsed upload", "file", header.Filename, "songs", len(songs))
	result, err := s.builder.FromSongs(r.Context(), songs, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, newGraphResponse(result))
}

// handleUploadPaste builds a graph from playlist text copied out of YouTube Music.
func (s *Server) handleUploadPaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadSize)).Decode(&req); err != nil || req.PlaylistText == nil {
		writeError(w, http.StatusBadRequest, "No playlist text provided")
		return
	}

	songs := upload.ParsePaste(*req.PlaylistText)
	if len(songs) == 0 {
		writeError(w, http.StatusBadRequest, "No songs found. Try copying the playlist differently.")
		return
	}

	result, err := s.builder.FromSongs(r.Context(), songs, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing playlist: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, newGraphResponse(result))
}

// handleSimilar proxies Last.fm's artist.getsimilar.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if !s.lastfm.Configured() {
		writeError(w, http.StatusInternalServerError, "Last.fm API key not configured. Set LASTFM_API_KEY environment variable.")
		return
	}

	artist := r.PathValue("artist")
	similar, err := s.lastfm.Similar(r.Context(), artist)
	if err != nil {
		var apiErr *lastfm.APIError
		switch {
		case errors.As(err, &apiErr):
			writeError(w, http.StatusNotFound, apiErr.Message)
		case errors.Is(err, shared.ErrTimeout):
			writeError(w, http.StatusGatewayTimeout, "Last.fm API timeout")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if similar == nil {
		similar = []lastfm.SimilarArtist{}
	}
	writeJSON(w, http.StatusOK, similarResponse{Artist: artist, Similar: similar})
}

func (s *Server) handleLastFMStatus(w http.ResponseWriter, r *http.Request) {
	if s.lastfm.Configured() {
		writeJSON(w, http.StatusOK, configuredResponse{Configured: true, Message: "Last.fm API ready"})
		return
	}
	writeJSON(w, http.StatusOK, configuredResponse{Message: "Set LASTFM_API_KEY to enable similar artists"})
}
