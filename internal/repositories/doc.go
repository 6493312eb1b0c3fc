// Package repositories implements SQLite persistence for the server's state.
//
// Key Implementations:
//   - [SessionRepository] : Spotify token sessions keyed by the session cookie
//   - [StateRepository] : single-use OAuth state values with a [StateTTL]
//   - [GenreCache] : per-artist genre lookups shared across graph builds
//
// Tables are created by the embedded migrations in the shared package.
package repositories
