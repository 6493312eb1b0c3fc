// Package server serves the mapper's JSON API, the Spotify OAuth callback, and the static frontend.
//
// # Routes
//
//	GET  /api/status              data source the frontend will read
//	POST /api/auth/setup          save browser headers as browser.json
//	GET  /api/graph               saved graph, built from music_data.json when missing
//	GET  /api/demo/graph          sample graph
//	POST /api/upload              graph from a ZIP, CSV or JSON upload (multipart "file")
//	POST /api/upload/paste        graph from pasted playlist text
//	GET  /api/similar/{artist}    Last.fm similar artists
//	GET  /api/lastfm/status       whether a Last.fm key is set
//	GET  /api/spotify/status      configured / authenticated
//	GET  /api/spotify/auth        authorization URL and state
//	GET  /callback/spotify        OAuth redirect target
//	GET  /api/spotify/library     graph from saved tracks
//	GET  /api/spotify/disconnect  drop the session
//	GET  /                        static frontend
//
// Errors are JSON objects of the form {"error": "..."}.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with a method check and a [Middleware] stack. Middleware is
// applied in reverse order (last added executes first); [Server] installs [Recover], [Logging] and [CORS].
//
// # Spotify sessions
//
// The callback stores the token in sqlite under a random session id and sets the spotify_session cookie
// for an hour. OAuth states are single use. Refreshed tokens are written back to the session.
//
// # Terminal login
//
// [TerminalLogin] and [OAuthHandler] serve a single callback on the redirect URI so CLI commands can
// authorize without the API server.
package server
