package database

import (
	"context"
	"errors"
	"iter"

	"blog-serwer/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrDuplicatePost = errors.New("a post with the same name already exists for this user")

// OwnedPost is a post together with its owner's username.
type OwnedPost struct {
	models.Post
	Username string
}

func (q *Queries) InsertPost(ctx context.Context, userID int64, filename string) (*models.Post, error) {
	query := `
		INSERT INTO posts (user_id, filename)
		VALUES ($1, $2)
		RETURNING id, user_id, filename, created_at
	`
	var post models.Post
	err := q.db.QueryRow(ctx, query, userID, filename).Scan(
		&post.ID,
		&post.UserID,
		&post.Filename,
		&post.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolationOn(err); ok {
			return nil, ErrDuplicatePost
		}
		return nil, err
	}

	return &post, nil
}

func (q *Queries) GetPost(ctx context.Context, userID int64, filename string) (*models.Post, error) {
	query := `
		SELECT id, user_id, filename, created_at
		FROM posts
		WHERE user_id = $1 AND filename = $2
	`
	var post models.Post
	err := q.db.QueryRow(ctx, query, userID, filename).Scan(
		&post.ID,
		&post.UserID,
		&post.Filename,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

// ListPosts streams the posts of userID ordered by id. Every range over the
// returned sequence runs a fresh query.
func (q *Queries) ListPosts(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return func(yield func(models.Post, error) bool) {
		query := `
			SELECT id, user_id, filename, created_at
			FROM posts
			WHERE user_id = $1
			ORDER BY id
		`
		rows, err := q.db.Query(ctx, query, userID)
		if err != nil {
			yield(models.Post{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var post models.Post
			if err := rows.Scan(&post.ID, &post.UserID, &post.Filename, &post.CreatedAt); err != nil {
				yield(models.Post{}, err)
				return
			}
			if !yield(post, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.Post{}, err)
		}
	}
}

func (q *Queries) ListAllPosts(ctx context.Context) iter.Seq2[OwnedPost, error] {
	return func(yield func(OwnedPost, error) bool) {
		query := `
			SELECT p.id, p.user_id, p.filename, p.created_at, u.username
			FROM posts p
			JOIN users u ON u.id = p.user_id
			ORDER BY p.id
		`
		rows, err := q.db.Query(ctx, query)
		if err != nil {
			yield(OwnedPost{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var post OwnedPost
			err := rows.Scan(&post.ID, &post.UserID, &post.Filename, &post.CreatedAt, &post.Username)
			if err != nil {
				yield(OwnedPost{}, err)
				return
			}
			if !yield(post, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(OwnedPost{}, err)
		}
	}
}

// DeletePostByID removes exactly the row with id. A row that was deleted
// and claimed again under the same name has a new id and is left alone.
func (q *Queries) DeletePostByID(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
