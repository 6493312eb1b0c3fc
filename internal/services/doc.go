// Package services implements clients for the remote services a music library is read from.
//
// # Spotify
//
// [SpotifyService] implements [OAuthService] with the authorization code flow. Saved tracks are
// read page by page up to a track limit, and the [oauth2.TokenSource] refreshes expired tokens on
// the way; the possibly refreshed token is returned so callers can store it.
//
// # Mapper Backend
//
// [APIService] makes raw requests against a running mapper backend, either the Python server
// started by `ytmap start` or `ytmap serve`.
//
// # Error Handling
//
// Services wrap the sentinel errors from the shared package:
//   - [shared.ErrNotConfigured] : client credentials are missing
//   - [shared.ErrNotAuthenticated] : the token was rejected
//   - [shared.ErrAPIRequest] : a request returned a non-2xx status
//   - [shared.ErrServiceUnavailable] : the backend could not be reached
package services
