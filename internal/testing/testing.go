// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ytmap/internal/models"
	"golang.org/x/oauth2"
)

// MockOAuthService is a test double for [services.OAuthService]
type MockOAuthService struct {
	Unconfigured bool
	Songs        []models.Song
	Token        *oauth2.Token // returned by Exchange
	Refreshed    *oauth2.Token // returned by LibrarySongs when set
	ExchangeErr  error
	LibraryErr   error

	mu        sync.Mutex
	exchanged []string
}

func (m *MockOAuthService) Name() string     { return "mock" }
func (m *MockOAuthService) Configured() bool { return !m.Unconfigured }

func (m *MockOAuthService) AuthURL(state string) string {
	return "https://auth.example.com/authorize?state=" + url.QueryEscape(state)
}

func (m *MockOAuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	m.mu.Lock()
	m.exchanged = append(m.exchanged, code)
	m.mu.Unlock()
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	if m.Token != nil {
		return m.Token, nil
	}
	return &oauth2.Token{AccessToken: "token-" + code, RefreshToken: "refresh"}, nil
}

func (m *MockOAuthService) LibrarySongs(ctx context.Context, token *oauth2.Token, maxTracks int) ([]models.Song, *oauth2.Token, error) {
	if m.Refreshed != nil {
		token = m.Refreshed
	}
	songs := m.Songs
	if len(songs) > maxTracks {
		songs = songs[:maxTracks]
	}
	return songs, token, m.LibraryErr
}

// Exchanged returns the authorization codes passed to Exchange.
func (m *MockOAuthService) Exchanged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.exchanged...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
