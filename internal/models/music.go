package models

import (
	"fmt"
	"os"

	"github.com/desertthunder/ytmap/internal/shared"
)

const SourceTakeout = "google_takeout"

// ArtistRef names an artist, with the streaming-service id when known.
type ArtistRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// LibrarySong is a liked or library song in music_data.json.
type LibrarySong struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Artists  []ArtistRef `json:"artists"`
	Album    string      `json:"album"`
	Duration string      `json:"duration"`
}

// HistoryEntry is one play from the watch history.
type HistoryEntry struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Artists []ArtistRef `json:"artists"`
	Played  string      `json:"played"`
}

// MusicData is the music_data.json document.
type MusicData struct {
	LibraryArtists []ArtistRef    `json:"library_artists"`
	LikedSongs     []LibrarySong  `json:"liked_songs"`
	History        []HistoryEntry `json:"history"`
	Source         string         `json:"source,omitempty"`
}

// MusicStats summarizes a [MusicData] document.
type MusicStats struct {
	Artists    int `json:"artists"`
	LikedSongs int `json:"liked_songs"`
	History    int `json:"history"`
}

// NewMusicData returns an empty document with non-nil slices so it encodes as [] rather than null.
func NewMusicData(source string) *MusicData {
	return &MusicData{
		LibraryArtists: []ArtistRef{},
		LikedSongs:     []LibrarySong{},
		History:        []HistoryEntry{},
		Source:         source,
	}
}

// Stats counts artists, liked songs, and history entries.
func (m *MusicData) Stats() MusicStats {
	return MusicStats{Artists: len(m.LibraryArtists), LikedSongs: len(m.LikedSongs), History: len(m.History)}
}

// LoadMusicData reads music_data.json from path.
func LoadMusicData(path string) (*MusicData, error) {
	if !shared.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoMusicData, path)
	}

	data := NewMusicData("")
	if err := shared.ReadJSONFile(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes the document as indented JSON.
func (m *MusicData) Save(path string) error {
	return shared.WriteJSONFile(path, m, os.FileMode(0644))
}

// Song is a song parsed from an upload, before it becomes part of a [Graph].
type Song struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	AllArtists []string `json:"all_artists,omitempty"`
	Album      string   `json:"album,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
}

// Songs flattens the liked songs into graph input. Songs without artists are credited to
// "Unknown Artist".
func (m *MusicData) Songs() []Song {
	songs := make([]Song, 0, len(m.LikedSongs))
	for _, ls := range m.LikedSongs {
		s := Song{Title: ls.Title, Artist: "Unknown Artist", Album: ls.Album}
		for _, a := range ls.Artists {
			if a.Name == "" {
				continue
			}
			s.AllArtists = append(s.AllArtists, a.Name)
		}
		if len(s.AllArtists) > 0 {
			s.Artist = s.AllArtists[0]
		}
		songs = append(songs, s)
	}
	return songs
}
