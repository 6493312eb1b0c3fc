package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

// SessionRepository implements [models.Repository] for [models.SpotifySession] persistence.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a session, generating its ID when empty
func (r *SessionRepository) Create(session *models.SpotifySession) error {
	if session.SessionID == "" {
		session.SessionID = shared.GenerateID()
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := r.now()
	session.Created = now
	session.Updated = now

	query := `
		INSERT INTO spotify_sessions (id, access_token, refresh_token, token_type, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, session.SessionID, session.AccessToken, session.RefreshToken, session.TokenType,
		nullTime(session.Expiry), session.Created, session.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*models.SpotifySession, error) {
	query := `
		SELECT id, access_token, refresh_token, token_type, expiry, created_at, updated_at
		FROM spotify_sessions
		WHERE id = ?
	`

	var (
		session models.SpotifySession
		expiry  sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&session.SessionID, &session.AccessToken, &session.RefreshToken,
		&session.TokenType, &expiry, &session.Created, &session.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	if expiry.Valid {
		session.Expiry = expiry.Time
	}

	return &session, nil
}

// Update stores the session's current token
func (r *SessionRepository) Update(session *models.SpotifySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	session.Updated = r.now()

	query := `
		UPDATE spotify_sessions
		SET access_token = ?, refresh_token = ?, token_type = ?, expiry = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, session.AccessToken, session.RefreshToken, session.TokenType,
		nullTime(session.Expiry), session.Updated, session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return expectOne(result, shared.ErrSessionNotFound, session.SessionID)
}

// Delete removes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM spotify_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return expectOne(result, shared.ErrSessionNotFound, id)
}

// DeleteStale removes sessions not updated since before and returns how many were removed.
func (r *SessionRepository) DeleteStale(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM spotify_sessions WHERE updated_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	return result.RowsAffected()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

var _ models.Repository[*models.SpotifySession] = (*SessionRepository)(nil)
