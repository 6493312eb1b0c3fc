package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytmap/internal/shared"
)

// StateTTL bounds how long an issued OAuth state stays redeemable.
const StateTTL = 10 * time.Minute

// StateRepository tracks OAuth state values between the authorize redirect and the callback.
type StateRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewStateRepository creates a new [StateRepository] with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Issue records a freshly generated state and returns it.
func (r *StateRepository) Issue() (string, error) {
	state := shared.GenerateID()
	if _, err := r.db.Exec(`INSERT INTO oauth_states (state, created_at) VALUES (?, ?)`, state, r.now()); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// Consume redeems state once. Unknown, reused, or expired states return [shared.ErrInvalidState].
func (r *StateRepository) Consume(state string) error {
	if state == "" {
		return fmt.Errorf("%w: empty", shared.ErrInvalidState)
	}

	result, err := r.db.Exec(`DELETE FROM oauth_states WHERE state = ? AND created_at >= ?`, state, r.now().Add(-StateTTL))
	if err != nil {
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return expectOne(result, shared.ErrInvalidState, state)
}

// Purge removes expired states.
func (r *StateRepository) Purge() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM oauth_states WHERE created_at < ?`, r.now().Add(-StateTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to purge oauth states: %w", err)
	}
	return result.RowsAffected()
}
