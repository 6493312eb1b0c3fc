// package lastfm is a small client for the Last.fm artist endpoints used by the mapper.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmap/internal/genres"
	"github.com/desertthunder/ytmap/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://ws.audioscrobbler.com/2.0/"
	SimilarLimit   = 20
	imageSize      = "medium"
)

// SimilarArtist is one entry of an artist.getsimilar response.
type SimilarArtist struct {
	Name  string  `json:"name"`
	Match float64 `json:"match"`
	URL   string  `json:"url"`
	Image string  `json:"image"`
}

// Client calls the Last.fm REST API. A zero API key leaves it unconfigured.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client from the Last.fm credentials section.
func NewClient(cfg shared.LastFMConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// APIError is an error document returned by Last.fm. It matches [shared.ErrArtistNotFound].
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s (code %d)", shared.ErrArtistNotFound, e.Message, e.Code)
}

func (e *APIError) Unwrap() error { return shared.ErrArtistNotFound }

type image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type similarResponse struct {
	apiError
	SimilarArtists struct {
		Artist []struct {
			Name  string      `json:"name"`
			Match json.Number `json:"match"`
			URL   string      `json:"url"`
			Image []image     `json:"image"`
		} `json:"artist"`
	} `json:"similarartists"`
}

type infoResponse struct {
	apiError
	Artist struct {
		Tags struct {
			Tag []struct {
				Name string `json:"name"`
			} `json:"tag"`
		} `json:"tags"`
	} `json:"artist"`
}

// Similar returns up to [SimilarLimit] artists similar to artist.
func (c *Client) Similar(ctx context.Context, artist string) ([]SimilarArtist, error) {
	var resp similarResponse
	params := url.Values{"limit": {strconv.Itoa(SimilarLimit)}}
	if err := c.call(ctx, "artist.getsimilar", artist, params, &resp); err != nil {
		return nil, err
	}

	similar := make([]SimilarArtist, 0, len(resp.SimilarArtists.Artist))
	for _, a := range resp.SimilarArtists.Artist {
		match, _ := a.Match.Float64()
		s := SimilarArtist{Name: a.Name, Match: match, URL: a.URL}
		for _, img := range a.Image {
			if img.Size == imageSize {
				s.Image = img.URL
				break
			}
		}
		similar = append(similar, s)
	}
	return similar, nil
}

// Genre maps the artist's Last.fm tags to a genre.
func (c *Client) Genre(ctx context.Context, artist string) (string, error) {
	var resp infoResponse
	if err := c.call(ctx, "artist.getinfo", artist, nil, &resp); err != nil {
		return "", err
	}

	tags := make([]string, 0, len(resp.Artist.Tags.Tag))
	for _, t := range resp.Artist.Tags.Tag {
		tags = append(tags, t.Name)
	}
	genre, ok := genres.TagGenre(tags)
	if !ok {
		return "", fmt.Errorf("%w: no tags for %s", shared.ErrArtistNotFound, artist)
	}
	return genre, nil
}

// ResolveGenre implements graph.GenreResolver. Lookup failures resolve to nothing.
func (c *Client) ResolveGenre(ctx context.Context, artist string) (string, bool) {
	if !c.Configured() {
		return "", false
	}
	genre, err := c.Genre(ctx, artist)
	if err != nil {
		c.logger.Debug("last.fm genre lookup failed", "artist", artist, "error", err)
		return "", false
	}
	return genre, true
}

func (c *Client) call(ctx context.Context, method, artist string, params url.Values, out any) error {
	if !c.Configured() {
		return fmt.Errorf("%w: last.fm API key", shared.ErrNotConfigured)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("method", method)
	q.Set("artist", artist)
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: last.fm %s", shared.ErrTimeout, method)
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: last.fm %s", shared.ErrTimeout, method)
		}
		return fmt.Errorf("failed to read response: %w", err)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		msg := apiErr.Message
		if msg == "" {
			msg = "Artist not found"
		}
		return &APIError{Code: apiErr.Error, Message: msg}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: last.fm returned %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
