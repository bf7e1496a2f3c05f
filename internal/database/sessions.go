package database

import (
	"context"
	"errors"
	"katalog-miejsc/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    int64
	ClientIP  string
	Browser   string
	OS        string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, client_ip, browser, os, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.ClientIP, arg.Browser, arg.OS, arg.ExpiresAt)
	return err
}

// GetSessionByID treats an expired session as absent even before the reaper
// physically removes the row.
func (q *Queries) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, user_id, client_ip, browser, os, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`
	var session models.Session
	err := q.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ClientIP,
		&session.Browser,
		&session.OS,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetUserBySessionID resolves the owner of a live session. Used on the
// refresh path, where the session row is the root of trust.
func (q *Queries) GetUserBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.picture, u.role, u.verified, u.verification_code, u.created_at
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > NOW()
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, sessionID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Picture,
		&user.Role,
		&user.Verified,
		&user.VerificationCode,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_id, client_ip, browser, os, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.ClientIP,
			&session.Browser,
			&session.OS,
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

	if sessions == nil {
		return []models.Session{}, nil
	}

	return sessions, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, sessionID, userID)
	return err
}

// ClaimSessionForRotation deletes the session being rotated and reports
// whether this caller actually claimed the row. Under concurrent refreshes of
// the same token only one transaction sees a row to delete; a false return
// means the session was already rotated or revoked.
func (q *Queries) ClaimSessionForRotation(ctx context.Context, sessionID uuid.UUID, userID int64) (bool, error) {
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

// DeleteExpiredSessions is the reaper's bulk sweep. It is safe to run next
// to concurrent logins and verifications: expired rows never verify anyway.
func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < NOW()`
	res, err := q.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
