// Raw HTTP access to a running mapper backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/ytmap/internal/shared"
)

// DefaultBackendURL is where `ytmap start` serves the Python backend.
const DefaultBackendURL = "http://localhost:5000"

// APIService makes requests against a mapper backend, either the Python server or `ytmap serve`.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a client for baseURL, defaulting to [DefaultBackendURL].
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the backend root the client talks to.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse is a raw response; JSON bodies are also decoded into JSONData.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BackendStatus is the body of GET /api/status.
type BackendStatus struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
	Mode          string `json:"mode"`
}

// Get performs a GET request to path.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post sends data as a JSON body to path.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// Status reads /api/status, which reports whether the backend has imported data or browser auth.
func (a *APIService) Status(ctx context.Context) (*BackendStatus, error) {
	resp, err := a.Get(ctx, "/api/status")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var status BackendStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return nil, fmt.Errorf("%w: invalid status response: %v", shared.ErrAPIRequest, err)
	}
	return &status, nil
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: raw}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = decoded
	}
	return apiResp, nil
}
