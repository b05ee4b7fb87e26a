package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"riffs-backend/internal/domains/comment/model"
)

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, clip_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		comment.ID, comment.ClipID, comment.UserID, comment.Content,
	).Scan(&comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrClipNotFound()
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByClip returns a clip's comments oldest first, joined with the
// author's public profile.
func (r *postgresCommentRepository) ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.CommentResponse, error) {
	query := `
		SELECT c.id, c.clip_id, c.user_id, c.content, c.created_at,
		       u.display_name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.clip_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, clipID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.CommentResponse, 0)
	for rows.Next() {
		var c model.CommentResponse
		err := rows.Scan(
			&c.ID, &c.ClipID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.AuthorName, &c.AuthorAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *postgresCommentRepository) CountByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE user_id = $1 AND clip_id = $2`,
		userID, clipID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

func (r *postgresCommentRepository) CountByClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(clipIDs))
	if len(clipIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT clip_id, count(*) FROM comments WHERE clip_id = ANY($1) GROUP BY clip_id`,
		clipIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("count comments by clips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var clipID uuid.UUID
		var count int
		if err := rows.Scan(&clipID, &count); err != nil {
			return nil, fmt.Errorf("scan comment count: %w", err)
		}
		counts[clipID] = count
	}
	return counts, rows.Err()
}

// DeleteOrphaned removes comments whose clip row is gone. The cascade
// delete makes these unreachable in normal operation; the nightly
// sweep calls this as a safety net.
func (r *postgresCommentRepository) DeleteOrphaned(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM comments WHERE NOT EXISTS (SELECT 1 FROM clips WHERE clips.id = comments.clip_id)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned comments: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresCommentRepository) ExistsByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM comments WHERE user_id = $1 AND clip_id = $2)`,
		userID, clipID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check comment exists: %w", err)
	}
	return exists, nil
}
