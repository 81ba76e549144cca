package database

import (
	"context"
	"errors"
	"strings"

	"blog-serwer/internal/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

const userColumns = `id, username, email, password_hash, created_at`

type InsertUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
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

func (q *Queries) InsertUser(ctx context.Context, arg InsertUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query, arg.Username, strings.ToLower(arg.Email), arg.PasswordHash))
	if err != nil {
		if constraint, ok := uniqueViolationOn(err); ok {
			if constraint == "users_email_key" {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(q.db.QueryRow(ctx, query, username))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

// FindUser looks a user up by email when login contains an "@", otherwise by
// username.
func (q *Queries) FindUser(ctx context.Context, login string) (*models.User, error) {
	if strings.Contains(login, "@") {
		return q.GetUserByEmail(ctx, login)
	}
	return q.GetUserByUsername(ctx, login)
}

func (q *Queries) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return usernames, nil
}
