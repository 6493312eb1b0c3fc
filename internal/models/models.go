// package models defines the data model for the music mapper
package models

import (
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error     // Create inserts a new model into the database
	Get(id string) (T, error) // Get retrieves a model by its ID
	Update(model T) error     // Update modifies an existing model in the database
	Delete(id string) error   // Delete removes a model from the database by its ID
}

// SpotifySession is a Spotify OAuth token bound to a browser session cookie.
type SpotifySession struct {
	SessionID    string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	Created      time.Time
	Updated      time.Time
}

func (s *SpotifySession) ID() string           { return s.SessionID }
func (s *SpotifySession) CreatedAt() time.Time { return s.Created }
func (s *SpotifySession) UpdatedAt() time.Time { return s.Updated }

func (s *SpotifySession) Validate() error {
	if s.SessionID == "" {
		return errors.New("session id is required")
	}
	if s.AccessToken == "" {
		return errors.New("access token is required")
	}
	return nil
}

// Expired reports whether the access token expired before now. A zero expiry never expires.
func (s *SpotifySession) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && now.After(s.Expiry)
}

// NewSpotifySession binds token to the session id.
func NewSpotifySession(id string, token *oauth2.Token) *SpotifySession {
	s := &SpotifySession{SessionID: id}
	s.SetToken(token)
	return s
}

// SetToken copies the token fields onto the session.
func (s *SpotifySession) SetToken(token *oauth2.Token) {
	if token == nil {
		return
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenType = token.TokenType
	s.Expiry = token.Expiry
}

// Token returns the session's OAuth2 token.
func (s *SpotifySession) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}
