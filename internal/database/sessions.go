package database

import (
	"context"
	"time"

	"blog-serwer/internal/models"

	"github.com/google/uuid"
)

type CreateSessionParams struct {
	ID           uuid.UUID
	UserID       int64
	RefreshToken string
	UserAgent    string
	ClientIP     string
	ExpiresAt    time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.RefreshToken, arg.UserAgent, arg.ClientIP, arg.ExpiresAt)
	return err
}

// GetUserByRefreshToken returns the owner of a non-expired session, or nil.
func (q *Queries) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.refresh_token = $1 AND s.expires_at > NOW()
	`
	return scanUser(q.db.QueryRow(ctx, query, refreshToken))
}

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_id, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.UserAgent,
			&session.ClientIP,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) (bool, error) {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	res, err := q.db.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	query := `DELETE FROM sessions WHERE refresh_token = $1`
	res, err := q.db.Exec(ctx, query, refreshToken)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
