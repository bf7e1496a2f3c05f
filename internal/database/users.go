package database

import (
	"context"
	"errors"
	"katalog-miejsc/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrEmailTaken = errors.New("a user with this email already exists")

type CreateUserParams struct {
	Email            string
	PasswordHash     string
	DisplayName      *string
	Picture          *string
	Role             string
	Verified         bool
	VerificationCode *string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, picture, role, verified, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, password_hash, display_name, picture, role, verified, verification_code, created_at
	`
	row := q.db.QueryRow(ctx, query,
		arg.Email,
		arg.PasswordHash,
		arg.DisplayName,
		arg.Picture,
		arg.Role,
		arg.Verified,
		arg.VerificationCode,
	)

	var user models.User
	err := row.Scan(
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
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, picture, role, verified, verification_code, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, email).Scan(
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

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, picture, role, verified, verification_code, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, id).Scan(
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

// UpdateUserFromProvider refreshes profile fields from the identity
// provider's claims on a returning federated login. Claims the provider
// omitted arrive as empty strings and must not blank out the stored profile.
func (q *Queries) UpdateUserFromProvider(ctx context.Context, id int64, displayName, picture string) error {
	query := `
		UPDATE users
		SET display_name = COALESCE(NULLIF($1, ''), display_name),
		    picture = COALESCE(NULLIF($2, ''), picture)
		WHERE id = $3
	`
	_, err := q.db.Exec(ctx, query, displayName, picture, id)
	return err
}

// VerifyUserByCode consumes a signup verification code. Returns false when
// no user holds that code.
func (q *Queries) VerifyUserByCode(ctx context.Context, code string) (bool, error) {
	query := `
		UPDATE users
		SET verified = TRUE, verification_code = NULL
		WHERE verification_code = $1
	`
	res, err := q.db.Exec(ctx, query, code)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) ListUsers(ctx context.Context, limit int, offset int) ([]models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, picture, role, verified, verification_code, created_at
		FROM users
		ORDER BY id LIMIT $1 OFFSET $2
	`
	rows, err := q.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
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
			return nil, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []models.User{}, nil
	}

	return users, nil
}
