package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfaust/spotify-playlist-importer/internal/services"
	"github.com/dfaust/spotify-playlist-importer/internal/shared"
)

// SessionRepository persists the single Spotify session between runs so
// the implicit grant flow is only needed once per token lifetime.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a session repository backed by db.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load returns the persisted session, or [shared.ErrNotAuthenticated]
// when none exists.
func (r *SessionRepository) Load() (*services.Session, error) {
	row := r.db.QueryRow("SELECT user_id, access_token, expires_at FROM sessions WHERE id = 1")

	var session services.Session
	var expiresAt int64
	if err := row.Scan(&session.UserID, &session.AccessToken, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session.ExpiresAt = time.Unix(expiresAt, 0)
	return &session, nil
}

// Save stores the session, replacing any previous one.
func (r *SessionRepository) Save(session *services.Session) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, user_id, access_token, expires_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			expires_at = excluded.expires_at`,
		session.UserID, session.AccessToken, session.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
