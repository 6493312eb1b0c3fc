package services

import (
	"context"

	"github.com/desertthunder/ytmap/internal/models"
	"golang.org/x/oauth2"
)

// Service is a music provider.
type Service interface {
	// Name returns the name of the service (e.g., "Spotify")
	Name() string

	// Configured reports whether client credentials are present.
	Configured() bool
}

// OAuthService is a [Service] whose library is read on behalf of a user through OAuth2.
type OAuthService interface {
	Service

	// AuthURL returns the authorization URL carrying state.
	AuthURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// LibrarySongs reads up to maxTracks saved songs.
	// The returned token differs from the given one when it was refreshed along the way.
	LibrarySongs(ctx context.Context, token *oauth2.Token, maxTracks int) ([]models.Song, *oauth2.Token, error)
}
