// package takeout imports a Google Takeout "YouTube and YouTube Music" export into music_data.json.
//
// Expected layout:
//
//	Takeout/
//	└── YouTube and YouTube Music/
//	    ├── playlists/
//	    │   ├── Liked music.csv
//	    │   └── ...
//	    ├── history/
//	    │   └── watch-history.json
//	    └── music-library-songs.csv (optional)
package takeout

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

const (
	youtubeDir  = "YouTube and YouTube Music"
	unknownName = "Unknown"
)

var videoIDRegex = regexp.MustCompile(`[?&]v=([^&]+)`)

// PlaylistEntry is a row of a playlist CSV.
type PlaylistEntry struct {
	ID            string
	Title         string
	PlaylistTitle string
	Channel       string
}

// WatchEntry is a music or video play from watch-history.json.
type WatchEntry struct {
	ID      string
	Title   string
	Time    string
	Channel string
}

// LibraryEntry is a row of music-library-songs.csv.
type LibraryEntry struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration string
}

// Result reports what an import produced.
type Result struct {
	Root     string
	Data     *models.MusicData
	Warnings []error
}

// VideoID extracts the v= query parameter from a YouTube URL.
func VideoID(url string) string {
	if m := videoIDRegex.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// FindRoot locates the "YouTube and YouTube Music" folder under base.
func FindRoot(base string) (string, error) {
	if shared.DirExists(filepath.Join(base, "playlists")) || shared.DirExists(filepath.Join(base, "history")) {
		return base, nil
	}

	candidates := []string{
		filepath.Join(base, youtubeDir),
		filepath.Join(base, "Takeout", youtubeDir),
	}
	for _, c := range candidates {
		if shared.DirExists(c) {
			return c, nil
		}
	}

	var found string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == "playlists" {
			found = filepath.Dir(path)
			return fs.SkipAll
		}
		return nil
	})
	if err == nil && found != "" {
		return found, nil
	}

	return "", fmt.Errorf("%w: %s (expected Takeout/%s/)", shared.ErrTakeoutNotFound, base, youtubeDir)
}

// field returns the first non-empty value among keys.
func field(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

func readRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read csv row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParsePlaylistCSV parses a playlist export, skipping the metadata rows that precede the track header.
func ParsePlaylistCSV(r io.Reader) ([]PlaylistEntry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(string(content), "\r\n", "\n")), "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, "Video Id") || strings.Contains(line, "Video ID") {
			start = i
			break
		}
	}
	if start < 0 {
		for i, line := range lines {
			if strings.Contains(line, ",") && !strings.HasPrefix(line, "#") {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return nil, nil
	}

	rows, err := readRows(strings.NewReader(strings.Join(lines[start:], "\n")))
	var entries []PlaylistEntry
	for _, row := range rows {
		id := field(row, "Video Id", "Video ID", "video_id")
		if id == "" {
			id = VideoID(row["URL"])
		}
		if id == "" || id == "Video Id" {
			continue
		}
		entries = append(entries, PlaylistEntry{
			ID:            id,
			Title:         field(row, "Title", "title"),
			PlaylistTitle: row["Playlist Title"],
			Channel:       field(row, "Channel Title", "Channel"),
		})
	}
	return entries, err
}

type watchItem struct {
	Title     string `json:"title"`
	TitleURL  string `json:"titleUrl"`
	Time      string `json:"time"`
	Subtitles []struct {
		Name string `json:"name"`
	} `json:"subtitles"`
}

// ParseWatchHistory parses watch-history.json, keeping YouTube Music and YouTube video plays.
func ParseWatchHistory(r io.Reader) ([]WatchEntry, error) {
	var items []watchItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse watch history: %w", err)
	}

	var entries []WatchEntry
	for _, item := range items {
		if !strings.Contains(item.TitleURL, "music.youtube.com") && !strings.Contains(item.TitleURL, "youtube.com/watch") {
			continue
		}
		id := VideoID(item.TitleURL)
		if id == "" {
			continue
		}

		entry := WatchEntry{ID: id, Title: strings.ReplaceAll(item.Title, "Watched ", ""), Time: item.Time}
		if len(item.Subtitles) > 0 {
			entry.Channel = item.Subtitles[0].Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseLibraryCSV parses music-library-songs.csv.
func ParseLibraryCSV(r io.Reader) ([]LibraryEntry, error) {
	rows, err := readRows(r)
	entries := make([]LibraryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LibraryEntry{
			ID:       VideoID(field(row, "URL", "url")),
			Title:    field(row, "Title", "Song", "title"),
			Artist:   field(row, "Artist", "artist"),
			Album:    field(row, "Album", "album"),
			Duration: field(row, "Duration", "duration"),
		})
	}
	return entries, err
}

func orUnknown(s string) string {
	if s == "" {
		return unknownName
	}
	return s
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// Importer builds a [models.MusicData] document from a Takeout folder.
type Importer struct {
	logger *log.Logger
}

// NewImporter creates an [Importer]. A nil logger logs to stderr.
func NewImporter(logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{logger: logger}
}

// Import reads liked-song playlists, watch history, and the music library CSV found under base.
//
// Files that fail to parse are reported in [Result.Warnings] and skipped.
func (im *Importer) Import(base string) (*Result, error) {
	root, err := FindRoot(base)
	if err != nil {
		return nil, err
	}
	im.logger.Info("found YouTube Music data", "path", root)

	result := &Result{Root: root, Data: models.NewMusicData(models.SourceTakeout)}
	data := result.Data
	warn := func(path string, err error) {
		im.logger.Warn("failed to parse file", "path", path, "error", err)
		result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", filepath.Base(path), err))
	}

	playlists, _ := filepath.Glob(filepath.Join(root, "playlists", "*.csv"))
	sort.Strings(playlists)
	for _, path := range playlists {
		if !strings.Contains(strings.ToLower(filepath.Base(path)), "like") {
			continue
		}

		entries, err := parseFile(path, ParsePlaylistCSV)
		if err != nil {
			warn(path, err)
		}
		for _, e := range entries {
			data.LikedSongs = append(data.LikedSongs, models.LibrarySong{
				ID:      e.ID,
				Title:   orUnknown(e.Title),
				Artists: []models.ArtistRef{{Name: orUnknown(e.Channel)}},
			})
		}
		im.logger.Info("added liked songs", "file", filepath.Base(path), "count", len(entries))
	}

	historyPath := filepath.Join(root, "history", "watch-history.json")
	if shared.FileExists(historyPath) {
		entries, err := parseFile(historyPath, ParseWatchHistory)
		if err != nil {
			warn(historyPath, err)
		}
		for _, e := range entries {
			data.History = append(data.History, models.HistoryEntry{
				ID:      e.ID,
				Title:   e.Title,
				Artists: []models.ArtistRef{{Name: e.Channel}},
				Played:  e.Time,
			})
		}
		im.logger.Info("added history entries", "count", len(entries))
	}

	libraryPath := filepath.Join(root, "music-library-songs.csv")
	if shared.FileExists(libraryPath) {
		entries, err := parseFile(libraryPath, ParseLibraryCSV)
		if err != nil {
			warn(libraryPath, err)
		}

		liked := make(map[string]bool, len(data.LikedSongs))
		for _, s := range data.LikedSongs {
			liked[s.ID] = true
		}
		for _, e := range entries {
			if e.ID == "" || liked[e.ID] {
				continue
			}
			data.LikedSongs = append(data.LikedSongs, models.LibrarySong{
				ID:       e.ID,
				Title:    orUnknown(e.Title),
				Artists:  []models.ArtistRef{{Name: orUnknown(e.Artist)}},
				Album:    e.Album,
				Duration: e.Duration,
			})
		}
		im.logger.Info("parsed music library", "count", len(entries))
	}

	data.LibraryArtists = LibraryArtists(data.LikedSongs)
	return result, nil
}

// LibraryArtists returns the unique, sorted artist names of songs, excluding empty and unknown names.
func LibraryArtists(songs []models.LibrarySong) []models.ArtistRef {
	seen := make(map[string]bool)
	for _, s := range songs {
		for _, a := range s.Artists {
			if a.Name != "" && a.Name != unknownName {
				seen[a.Name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	artists := make([]models.ArtistRef, 0, len(names))
	for _, name := range names {
		artists = append(artists, models.ArtistRef{Name: name})
	}
	return artists
}
