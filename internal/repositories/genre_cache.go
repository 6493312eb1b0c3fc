package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// GenreCache persists genre lookups per artist so repeated builds skip the network.
//
// Artist keys are stored as given; lookups are exact.
type GenreCache struct {
	db     *sql.DB
	logger *log.Logger
}

// NewGenreCache creates a new [GenreCache] with the given database connection
func NewGenreCache(db *sql.DB, logger *log.Logger) *GenreCache {
	if logger == nil {
		logger = log.Default()
	}
	return &GenreCache{db: db, logger: logger}
}

// Get returns the cached genre for artist.
func (c *GenreCache) Get(artist string) (string, bool, error) {
	var genre string
	err := c.db.QueryRow(`SELECT genre FROM genre_cache WHERE artist = ?`, artist).Scan(&genre)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query genre cache: %w", err)
	}
	return genre, true, nil
}

// Put stores or replaces the genre for artist.
func (c *GenreCache) Put(artist, genre string) error {
	query := `
		INSERT INTO genre_cache (artist, genre, created_at) VALUES (?, ?, ?)
		ON CONFLICT(artist) DO UPDATE SET genre = excluded.genre, created_at = excluded.created_at
	`
	if _, err := c.db.Exec(query, artist, genre, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to cache genre: %w", err)
	}
	return nil
}

// Len returns the number of cached artists.
func (c *GenreCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM genre_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count genre cache: %w", err)
	}
	return n, nil
}

// ResolveGenre implements graph.GenreResolver. Query errors are logged and treated as misses.
func (c *GenreCache) ResolveGenre(_ context.Context, artist string) (string, bool) {
	genre, ok, err := c.Get(artist)
	if err != nil {
		c.logger.Warn("genre cache lookup failed", "artist", artist, "error", err)
		return "", false
	}
	return genre, ok
}
