package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/dbx"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository stores posts in "posts" and the embedded collections
// in the child tables "comments" and "likes". The likes primary key
// (post_id, username) keeps at most one like per user.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// pgForeignKeyViolation is raised when a child row references a post that
// is gone.
const pgForeignKeyViolation = "23503"

func isMissingParent(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) error {
	query :=
		`INSERT INTO posts (id, body, username, created_at)
		 VALUES ($1, $2, $3, $4)
		`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Body, post.UserName, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, body, username, created_at FROM posts WHERE id = $1`, id).
		Scan(&post.ID, &post.Body, &post.UserName, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	byID := map[string]*models.Post{post.ID: post}

	if err := r.loadComments(ctx, byID, `WHERE post_id = $1`, id); err != nil {
		return nil, err
	}
	if err := r.loadLikes(ctx, byID, `WHERE post_id = $1`, id); err != nil {
		return nil, err
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body, username, created_at FROM posts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	byID := map[string]*models.Post{}
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(&item.ID, &item.Body, &item.UserName, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
		byID[item.ID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return result, nil
	}

	if err := r.loadComments(ctx, byID, ""); err != nil {
		return nil, err
	}
	if err := r.loadLikes(ctx, byID, ""); err != nil {
		return nil, err
	}

	return result, nil
}

// loadComments appends comments to the posts in byID, newest first. Rows
// for posts not in byID are skipped.
func (r *PostgresRepository) loadComments(ctx context.Context, byID map[string]*models.Post, where string, args ...any) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, body, username, created_at FROM comments `+where+` ORDER BY seq DESC`, args...)
	if err != nil {
		return fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		var postID string
		if err := rows.Scan(&c.ID, &postID, &c.Body, &c.UserName, &c.CreatedAt); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return rows.Err()
}

// loadLikes appends likes to the posts in byID in the order they were given.
func (r *PostgresRepository) loadLikes(ctx context.Context, byID map[string]*models.Post, where string, args ...any) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, username, created_at FROM likes `+where+` ORDER BY seq`, args...)
	if err != nil {
		return fmt.Errorf("failed to select likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.Like
		var postID string
		if err := rows.Scan(&l.ID, &postID, &l.UserName, &l.CreatedAt); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Likes = append(p.Likes, l)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserName(ctx context.Context, userName string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE username = $1`, userName)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// toggleLikeQuery deletes the user's like and, only when nothing was
// deleted, inserts the new one. It runs as one statement.
const toggleLikeQuery = `
	WITH removed AS (
		DELETE FROM likes WHERE post_id = $1 AND username = $3
		RETURNING 1
	)
	INSERT INTO likes (id, post_id, username, created_at)
	SELECT $2, $1, $3, $4
	WHERE NOT EXISTS (SELECT 1 FROM removed)
	ON CONFLICT (post_id, username) DO NOTHING
	`

func (r *PostgresRepository) ToggleLike(ctx context.Context, postID string, like models.Like) (*models.Post, error) {
	_, err := r.db.ExecContext(ctx, toggleLikeQuery, postID, like.ID, like.UserName, like.CreatedAt)
	if err != nil {
		if isMissingParent(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, postID)
}

func (r *PostgresRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	query :=
		`INSERT INTO comments (id, post_id, body, username, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		`
	_, err := r.db.ExecContext(ctx, query, comment.ID, postID, comment.Body, comment.UserName, comment.CreatedAt)
	if err != nil {
		if isMissingParent(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, postID)
}

func (r *PostgresRepository) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND post_id = $2`, commentID, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return r.Get(ctx, postID)
}
