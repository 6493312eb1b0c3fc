// Package tasks implements the long-running graph operations behind the server and CLI.
//
// # Graph Building
//
// [GraphBuilder] turns songs into a genre-colored artist graph:
//
//  1. [GraphBuilder.FromSongs] : uploaded or imported songs, linked by shared credits and title mentions
//  2. [GraphBuilder.FromSpotify] : saved Spotify tracks, with average popularity per artist
//
// Genres resolve from the genre map first, then the optional [GenreStore], then the
// [GenreEnricher]. Anything still unresolved becomes [models.GenreOther].
//
// # Enrichment
//
// [GenreEnricher] looks up missing genres with a pool of workers sharing one rate limiter.
// Hits are written back to the store so later builds skip the network. Cancelling the context
// stops the pool and returns the partial [EnrichResult].
//
// # Progress Reporting
//
// All operations report through a send-only [ProgressUpdate] channel. Sends never block;
// updates are dropped when the consumer falls behind, and a nil channel disables reporting.
package tasks
