package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"riffs-backend/internal/domains/clip/model"
	"riffs-backend/pkg/database"
)

type postgresClipRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresClipRepository(pool *pgxpool.Pool) ClipRepository {
	return &postgresClipRepository{pool: pool}
}

func (r *postgresClipRepository) Create(ctx context.Context, clip *model.Clip) error {
	query := `
		INSERT INTO clips (
			id, user_id, title, description,
			storage_key, file_url, file_size, content_type, duration
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		clip.ID, clip.UserID, clip.Title, clip.Description,
		clip.StorageKey, clip.FileURL, clip.FileSize, clip.ContentType, clip.Duration,
	).Scan(&clip.CreatedAt, &clip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	return nil
}

const feedItemColumns = `
	c.id, c.user_id, c.title, c.description,
	c.storage_key, c.file_url, c.file_size, c.content_type, c.duration,
	c.created_at, c.updated_at,
	u.display_name, u.avatar_url`

func scanFeedItem(row pgx.Row) (*model.FeedItem, error) {
	var item model.FeedItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.Title, &item.Description,
		&item.StorageKey, &item.FileURL, &item.FileSize, &item.ContentType, &item.Duration,
		&item.CreatedAt, &item.UpdatedAt,
		&item.AuthorName, &item.AuthorAvatar,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresClipRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.FeedItem, error) {
	query := `
		SELECT ` + feedItemColumns + `
		FROM clips c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	item, err := scanFeedItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrClipNotFound()
		}
		return nil, fmt.Errorf("get clip: %w", err)
	}
	return item, nil
}

// ListPage returns one feed page ordered newest first, plus the total
// clip count for pagination.
func (r *postgresClipRepository) ListPage(ctx context.Context, page, pageSize int) ([]model.FeedItem, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	query := `
		SELECT ` + feedItemColumns + `
		FROM clips c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	items := make([]model.FeedItem, 0, pageSize)
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan clip: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM clips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clips: %w", err)
	}
	return items, total, nil
}

func (r *postgresClipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FeedItem, error) {
	query := `
		SELECT ` + feedItemColumns + `
		FROM clips c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user clips: %w", err)
	}
	defer rows.Close()

	items := make([]model.FeedItem, 0)
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// DeleteCascade removes a clip and everything hanging off it in one
// transaction, so a failure partway can never leave comments or
// reviews pointing at a missing clip. It returns the deleted row's
// storage key for the blob cleanup task.
func (r *postgresClipRepository) DeleteCascade(ctx context.Context, clipID uuid.UUID) (string, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (string, error) {
		if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE clip_id = $1`, clipID); err != nil {
			return "", fmt.Errorf("delete clip reviews: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE clip_id = $1`, clipID); err != nil {
			return "", fmt.Errorf("delete clip comments: %w", err)
		}

		var storageKey string
		err := tx.QueryRow(ctx,
			`DELETE FROM clips WHERE id = $1 RETURNING storage_key`, clipID,
		).Scan(&storageKey)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", model.ErrClipNotFound()
			}
			return "", fmt.Errorf("delete clip: %w", err)
		}
		return storageKey, nil
	})
}

// ListStorageKeys returns every storage key referenced by a clip row.
// The orphan sweep diffs this against the bucket contents.
func (r *postgresClipRepository) ListStorageKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT storage_key FROM clips`)
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan storage key: %w", err)
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}
