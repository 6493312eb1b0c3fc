// Spotify API implementation of [OAuthService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// SpotifyPageSize is the largest page the saved tracks endpoint returns.
	SpotifyPageSize = 50

	unknownTitle  = "Unknown"
	unknownArtist = "Unknown Artist"
)

// SpotifyScopes are the read-only scopes requested at authorization.
var SpotifyScopes = []string{"user-library-read", "user-top-read", "playlist-read-private"}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	PreviewURL string          `json:"preview_url"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity int            `json:"popularity"`
	Images     []SpotifyImage `json:"images"`
	URI        string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items    []SpotifySavedTrack `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

// SpotifySavedTrack represents a track saved in the user's library. Track is nil for removed tracks.
type SpotifySavedTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService reads a user's Spotify library. Tokens are supplied per call so one
// service can serve many sessions; [oauth2] refreshes them as they expire.
type SpotifyService struct {
	config         *oauth2.Config
	apiURL         string
	httpClient     *http.Client
	onTokenRefresh func(*oauth2.Token)
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithAPIURL points the service at a different Web API root.
func WithAPIURL(u string) SpotifyOption {
	return func(s *SpotifyService) { s.apiURL = u }
}

// WithEndpoint replaces the OAuth2 authorize and token endpoints.
func WithEndpoint(e oauth2.Endpoint) SpotifyOption {
	return func(s *SpotifyService) { s.config.Endpoint = e }
}

// WithHTTPClient sets the client used for token and API requests.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = c }
}

// NewSpotifyService creates a new Spotify service from the [spotify] credentials section.
func NewSpotifyService(cfg shared.SpotifyConfig, opts ...SpotifyOption) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrNotConfigured)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrNotConfigured)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = shared.DefaultSpotifyRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       SpotifyScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   spotifyAuthURL,
				TokenURL:  spotifyTokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiURL:     spotifyBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Configured reports whether the service holds client credentials.
func (s *SpotifyService) Configured() bool {
	return s != nil && s.config.ClientID != "" && s.config.ClientSecret != ""
}

// SetTokenRefreshCallback registers a function called whenever a token is issued or refreshed.
func (s *SpotifyService) SetTokenRefreshCallback(callback func(*oauth2.Token)) {
	s.onTokenRefresh = callback
}

// AuthURL returns the OAuth2 authorization URL for user login. The consent dialog is always shown.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}
	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// refreshableTokenSource reports every token that differs from the last one it handed out.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}

// client returns an HTTP client authorized with token. Each token it observes is passed to
// observe and to the service callback.
func (s *SpotifyService) client(ctx context.Context, token *oauth2.Token, observe func(*oauth2.Token)) *http.Client {
	source := &refreshableTokenSource{
		source: s.config.TokenSource(s.oauthContext(ctx), token),
		last:   token.AccessToken,
		callback: func(t *oauth2.Token) {
			if observe != nil {
				observe(t)
			}
			if s.onTokenRefresh != nil {
				s.onTokenRefresh(t)
			}
		},
	}
	return oauth2.NewClient(s.oauthContext(ctx), source)
}

// get performs an authenticated GET against the Web API.
func (s *SpotifyService) get(ctx context.Context, client *http.Client, endpoint string, params url.Values, result any) error {
	apiURL := s.apiURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr spotifyError
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, msg)
		}
		return fmt.Errorf("%w: spotify API error: %s", shared.ErrServiceUnavailable, msg)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (s *SpotifyService) checkToken(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: missing spotify token", shared.ErrNotAuthenticated)
	}
	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context, token *oauth2.Token) (*SpotifyUser, error) {
	if err := s.checkToken(token); err != nil {
		return nil, err
	}
	var user SpotifyUser
	if err := s.get(ctx, s.client(ctx, token, nil), "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, token *oauth2.Token, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if err := s.checkToken(token); err != nil {
		return nil, err
	}
	return s.savedTracks(ctx, s.client(ctx, token, nil), limit, offset)
}

func (s *SpotifyService) savedTracks(ctx context.Context, client *http.Client, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > SpotifyPageSize {
		limit = SpotifyPageSize
	}

	params := url.Values{"limit": {strconv.Itoa(limit)}, "offset": {strconv.Itoa(offset)}}
	var response SpotifyPaginatedTracks
	if err := s.get(ctx, client, "/me/tracks", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AllSavedTracks pages through saved tracks until maxTracks is reached, a page is empty, or there is
// no next page. A failing page stops the walk: the tracks read so far are returned with the error.
func (s *SpotifyService) AllSavedTracks(ctx context.Context, token *oauth2.Token, maxTracks int) ([]SpotifySavedTrack, error) {
	if err := s.checkToken(token); err != nil {
		return nil, err
	}
	tracks, _, err := s.allSavedTracks(ctx, token, maxTracks)
	return tracks, err
}

func (s *SpotifyService) allSavedTracks(ctx context.Context, token *oauth2.Token, maxTracks int) ([]SpotifySavedTrack, *oauth2.Token, error) {
	latest := token
	client := s.client(ctx, token, func(t *oauth2.Token) { latest = t })

	var all []SpotifySavedTrack
	for offset := 0; offset < maxTracks; offset += SpotifyPageSize {
		page, err := s.savedTracks(ctx, client, SpotifyPageSize, offset)
		if err != nil {
			return all, latest, err
		}
		if len(page.Items) == 0 {
			break
		}
		all = append(all, page.Items...)
		if page.Next == nil || *page.Next == "" {
			break
		}
	}
	return all, latest, nil
}

// TopArtists retrieves the user's top artists for timeRange (short_term, medium_term, long_term).
func (s *SpotifyService) TopArtists(ctx context.Context, token *oauth2.Token, timeRange string, limit int) ([]SpotifyArtist, error) {
	if err := s.checkToken(token); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "medium_term"
	}
	if limit <= 0 || limit > SpotifyPageSize {
		limit = SpotifyPageSize
	}

	params := url.Values{"time_range": {timeRange}, "limit": {strconv.Itoa(limit)}}
	var response struct {
		Items []SpotifyArtist `json:"items"`
	}
	if err := s.get(ctx, s.client(ctx, token, nil), "/me/top/artists", params, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// LibrarySongs reads up to maxTracks saved tracks as songs.
func (s *SpotifyService) LibrarySongs(ctx context.Context, token *oauth2.Token, maxTracks int) ([]models.Song, *oauth2.Token, error) {
	if err := s.checkToken(token); err != nil {
		return nil, token, err
	}
	tracks, latest, err := s.allSavedTracks(ctx, token, maxTracks)
	return SongsFromTracks(tracks), latest, err
}

// SongsFromTracks converts saved tracks to songs, skipping removed tracks.
func SongsFromTracks(tracks []SpotifySavedTrack) []models.Song {
	songs := make([]models.Song, 0, len(tracks))
	for _, item := range tracks {
		if item.Track == nil {
			continue
		}
		t := item.Track

		song := models.Song{
			Title:      t.Name,
			Artist:     unknownArtist,
			Album:      t.Album.Name,
			Popularity: t.Popularity,
		}
		if song.Title == "" {
			song.Title = unknownTitle
		}
		for i, a := range t.Artists {
			if i == 0 {
				song.Artist = a.Name
			}
			song.AllArtists = append(song.AllArtists, a.Name)
		}
		songs = append(songs, song)
	}
	return songs
}
