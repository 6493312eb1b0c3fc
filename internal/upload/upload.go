// package upload parses playlists uploaded to or pasted into the web UI into [models.Song] lists.
//
// Supported inputs are Google Takeout ZIP archives, CSV exports, JSON song lists, and text copied
// from a YouTube Music playlist page.
package upload

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

const UnknownArtist = "Unknown Artist"

// MaxExtractedSize bounds the decompressed bytes read from all entries of one archive.
const MaxExtractedSize = 64 << 20

var (
	timestampRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

	uiLines = map[string]bool{
		"liked music":    true,
		"shuffle":        true,
		"radio":          true,
		"add to library": true,
		"share":          true,
		"download":       true,
	}
)

func skippable(line string) bool {
	return line == "" || timestampRegex.MatchString(line) || uiLines[strings.ToLower(line)]
}

// ParsePaste parses text copied from a playlist page.
//
// Lines of the form "Title - Artist" are one song; otherwise a title line is followed by an artist line.
// Durations and player controls are skipped.
func ParsePaste(text string) []models.Song {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var songs []models.Song
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if skippable(line) {
			continue
		}

		if title, artist, ok := strings.Cut(line, " - "); ok {
			songs = append(songs, models.Song{Title: strings.TrimSpace(title), Artist: strings.TrimSpace(artist)})
			continue
		}

		song := models.Song{Title: line, Artist: UnknownArtist}
		if i+1 < len(lines) {
			if next := strings.TrimSpace(lines[i+1]); !skippable(next) {
				song.Artist = next
				i++
			}
		}
		songs = append(songs, song)
	}
	return songs
}

// decodeText returns content as UTF-8, treating invalid UTF-8 as Latin-1.
func decodeText(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode csv: %w", err)
	}
	return string(decoded), nil
}

func lookup(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v
		}
	}
	return ""
}

// ParseCSV parses a Takeout or generic CSV export with title and artist columns.
//
// Extra "Artist Name 2" to "Artist Name 5" columns become collaborators.
func ParseCSV(content []byte) ([]models.Song, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var songs []models.Song
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return songs, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}

		title := lookup(row, "Song Title", "Title", "title", "Song")
		artist := lookup(row, "Artist Name 1", "Artist", "artist", "Artists")
		if title == "" || artist == "" {
			continue
		}

		all := []string{artist}
		for i := 2; i <= 5; i++ {
			if extra := strings.TrimSpace(row[fmt.Sprintf("Artist Name %d", i)]); extra != "" {
				all = append(all, extra)
			}
		}

		songs = append(songs, models.Song{
			Title:      title,
			Artist:     artist,
			AllArtists: all,
			Album:      lookup(row, "Album Title", "Album"),
		})
	}
	return songs, nil
}

// artistValue flattens an artist field that may be a string or a list of strings.
func artistValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

type jsonSong struct {
	Title   string          `json:"title"`
	Name    string          `json:"name"`
	Artist  json.RawMessage `json:"artist"`
	Artists json.RawMessage `json:"artists"`
}

func (j jsonSong) artist() string {
	if a := artistValue(j.Artist); a != "" {
		return a
	}
	return artistValue(j.Artists)
}

// ParseJSON parses a JSON list of songs, a {"liked_songs": [...]} document, or a {"items": [...]} export.
//
// Invalid JSON yields no songs.
func ParseJSON(content []byte) []models.Song {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil
	}

	var songs []models.Song
	switch v := raw.(type) {
	case []any:
		var items []json.RawMessage
		_ = json.Unmarshal(content, &items)
		for _, item := range items {
			var s jsonSong
			if json.Unmarshal(item, &s) != nil {
				continue
			}
			title := s.Title
			if title == "" {
				title = s.Name
			}
			if title == "" {
				continue
			}
			artist := s.artist()
			if artist == "" {
				artist = UnknownArtist
			}
			songs = append(songs, models.Song{Title: title, Artist: artist})
		}

	case map[string]any:
		var doc struct {
			LikedSongs []jsonSong `json:"liked_songs"`
			Items      []jsonSong `json:"items"`
		}
		_ = json.Unmarshal(content, &doc)

		if _, ok := v["liked_songs"]; ok {
			for _, s := range doc.LikedSongs {
				artist := artistValue(s.Artist)
				if artist == "" {
					artist = UnknownArtist
				}
				songs = append(songs, models.Song{Title: s.Title, Artist: artist})
			}
		} else if _, ok := v["items"]; ok {
			for _, s := range doc.Items {
				if s.Title == "" {
					continue
				}
				artist := s.artist()
				if artist == "" {
					artist = UnknownArtist
				}
				songs = append(songs, models.Song{Title: s.Title, Artist: artist})
			}
		}
	}
	return songs
}

// ParseZip parses the music files of a Takeout archive: music-library-songs and liked CSVs, and music JSON files.
func ParseZip(content []byte) ([]models.Song, error) {
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var songs []models.Song
	budget := int64(MaxExtractedSize)
	for _, f := range r.File {
		name := strings.ToLower(f.Name)
		isCSV := strings.HasSuffix(name, ".csv")

		var parse func([]byte) ([]models.Song, error)
		switch {
		case isCSV && strings.Contains(name, "music-library-songs"):
			parse = ParseCSV
		case isCSV && strings.Contains(name, "liked"):
			parse = ParseCSV
		case strings.HasSuffix(name, ".json") && strings.Contains(name, "music"):
			parse = func(b []byte) ([]models.Song, error) { return ParseJSON(b), nil }
		default:
			continue
		}

		data, err := readZipFile(f, budget)
		if err != nil {
			return nil, err
		}
		budget -= int64(len(data))
		parsed, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(f.Name), err)
		}
		songs = append(songs, parsed...)
	}
	return songs, nil
}

// readZipFile reads at most limit decompressed bytes of f.
func readZipFile(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: archive expands past %d bytes", shared.ErrFileTooLarge, MaxExtractedSize)
	}
	return data, nil
}

// Parse dispatches on the file extension of filename.
func Parse(filename string, content []byte) ([]models.Song, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".zip":
		return ParseZip(content)
	case ".csv":
		return ParseCSV(content)
	case ".json":
		return ParseJSON(content), nil
	default:
		return nil, fmt.Errorf("%w: use ZIP, CSV, or JSON", shared.ErrUnsupportedFile)
	}
}
