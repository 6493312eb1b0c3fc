package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/desertthunder/ytmap/internal/shared"
	"golang.org/x/oauth2"
)

// Exchanger trades an authorization code for a token.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler receives a single OAuth2 callback for a terminal login.
//
// It serves one request, checks the state, exchanges the code and delivers the token on [OAuthHandler.Result].
type OAuthHandler struct {
	exchanger   Exchanger
	state       string
	path        string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a handler for the callback path with the expected state.
func NewOAuthHandler(exchanger Exchanger, path, state string) *OAuthHandler {
	return &OAuthHandler{
		exchanger:  exchanger,
		state:      state,
		path:       path,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the OAuth callback request.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.Send(OAuthResult{err: shared.ErrInvalidState})
		writePage(w, http.StatusBadRequest, authFailedPage("invalid state parameter"))
		return
	}

	code := q.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))
		h.Send(OAuthResult{err: err})
		writePage(w, http.StatusBadRequest, authFailedPage(q.Get("error")))
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		writePage(w, http.StatusInternalServerError, exchangeFailedPage(err.Error()))
		return
	}

	h.Send(OAuthResult{Token: token})
	writePage(w, http.StatusOK, closeWindowPage())
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// AuthURLer builds the provider's authorization URL.
type AuthURLer interface {
	Exchanger
	AuthURL(state string) string
}

// TerminalLogin runs the authorization code flow from a terminal.
//
// It serves the redirect URI's path on its host, hands the authorization URL to open, and waits for
// the callback or ctx.
func TerminalLogin(ctx context.Context, svc AuthURLer, redirectURI string, open func(authURL string) error) (*oauth2.Token, error) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: redirect uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	state := shared.GenerateID()
	handler := NewOAuthHandler(svc, u.Path, state)
	router := NewBasicRouter()
	router.Handler(handler)

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := open(svc.AuthURL(state)); err != nil {
		return nil, err
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
