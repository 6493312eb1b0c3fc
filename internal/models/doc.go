// Package models defines the data shared by the mapper's importers, graph builders, and HTTP API.
//
// The package contains two categories of types:
//
// 1. Documents: JSON files read and written by the CLI and the frontend
//   - [MusicData] : music_data.json, the imported library (liked songs, history, artists)
//   - [Graph] : graph_data.json, artist nodes and collaboration links for visualization
//   - [Song] : a song parsed from an upload or library export
//
// 2. Persistent Entities: Database-backed models
//   - [SpotifySession] : an OAuth token issued to a browser session
//
// Persistent entities implement the [Model] interface and are stored through a [Repository].
package models
