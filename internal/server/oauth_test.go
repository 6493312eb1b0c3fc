package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/ytmap/internal/shared"
	th "github.com/desertthunder/ytmap/internal/testing"
)

func TestOAuthHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &th.MockOAuthService{}
		h := NewOAuthHandler(svc, "/callback", "state-1")
		assert.Equal(t, []string{"/callback"}, h.Routes())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=abc", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization Successful")

		result := <-h.Result()
		require.NoError(t, result.Error())
		assert.Equal(t, "token-abc", result.Token.AccessToken)

		_, open := <-h.Result()
		assert.False(t, open, "result channel should be closed")
	})

	t.Run("state mismatch", func(t *testing.T) {
		h := NewOAuthHandler(&th.MockOAuthService{}, "/callback", "state-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=other&code=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		result := <-h.Result()
		assert.ErrorIs(t, result.Error(), shared.ErrInvalidState)
	})

	t.Run("denied", func(t *testing.T) {
		h := NewOAuthHandler(&th.MockOAuthService{}, "/callback", "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		result := <-h.Result()
		assert.ErrorIs(t, result.Error(), shared.ErrAuthFailed)
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewOAuthHandler(&th.MockOAuthService{ExchangeErr: errors.New("invalid_grant")}, "/callback", "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		result := <-h.Result()
		assert.ErrorContains(t, result.Error(), "invalid_grant")
	})

	t.Run("only once", func(t *testing.T) {
		h := NewOAuthHandler(&th.MockOAuthService{}, "/callback", "s")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
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

func TestTerminalLogin(t *testing.T) {
	t.Run("completes flow", func(t *testing.T) {
		redirect := fmt.Sprintf("http://%s/callback/spotify", freeAddr(t))
		svc := &th.MockOAuthService{}

		open := func(authURL string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			go func() {
				resp, err := http.Get(redirect + "?code=xyz&state=" + url.QueryEscape(u.Query().Get("state")))
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token, err := TerminalLogin(ctx, svc, redirect, open)
		require.NoError(t, err)
		assert.Equal(t, "token-xyz", token.AccessToken)
		assert.Equal(t, []string{"xyz"}, svc.Exchanged())
	})

	t.Run("cancelled", func(t *testing.T) {
		redirect := fmt.Sprintf("http://%s/callback", freeAddr(t))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := TerminalLogin(ctx, &th.MockOAuthService{}, redirect, func(string) error { return nil })
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("open failure", func(t *testing.T) {
		redirect := fmt.Sprintf("http://%s/callback", freeAddr(t))
		_, err := TerminalLogin(context.Background(), &th.MockOAuthService{}, redirect, func(string) error {
			return errors.New("no browser")
		})
		assert.ErrorContains(t, err, "no browser")
	})

	t.Run("bad redirect", func(t *testing.T) {
		_, err := TerminalLogin(context.Background(), &th.MockOAuthService{}, "not a url", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidConfig)
	})
}
