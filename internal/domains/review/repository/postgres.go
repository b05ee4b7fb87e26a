package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"riffs-backend/internal/domains/review/model"
)

// ErrDuplicateReview surfaces the unique (clip_id, user_id) violation
// so the service can retry the submission as an update.
var ErrDuplicateReview = errors.New("review already exists for this clip and user")

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, clip_id, user_id,
			technique_rating, creativity_rating, tone_rating, overall_rating,
			review_text
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		review.ID, review.ClipID, review.UserID,
		review.TechniqueRating, review.CreativityRating, review.ToneRating, review.OverallRating,
		review.ReviewText,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateReview
			case "23503":
				return model.ErrClipNotFound()
			}
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews SET
			technique_rating = $3,
			creativity_rating = $4,
			tone_rating = $5,
			overall_rating = $6,
			review_text = $7,
			updated_at = now()
		WHERE clip_id = $1 AND user_id = $2
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		review.ClipID, review.UserID,
		review.TechniqueRating, review.CreativityRating, review.ToneRating, review.OverallRating,
		review.ReviewText,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound()
		}
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) GetByUserAndClip(ctx context.Context, userID, clipID uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, clip_id, user_id,
		       technique_rating, creativity_rating, tone_rating, overall_rating,
		       review_text, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND clip_id = $2`

	var rv model.Review
	err := r.pool.QueryRow(ctx, query, userID, clipID).Scan(
		&rv.ID, &rv.ClipID, &rv.UserID,
		&rv.TechniqueRating, &rv.CreativityRating, &rv.ToneRating, &rv.OverallRating,
		&rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound()
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

// ListByClip returns a clip's reviews newest first, joined with the
// author's public profile.
func (r *postgresReviewRepository) ListByClip(ctx context.Context, clipID uuid.UUID) ([]model.ReviewResponse, error) {
	query := `
		SELECT rv.id, rv.clip_id, rv.user_id,
		       rv.technique_rating, rv.creativity_rating, rv.tone_rating, rv.overall_rating,
		       rv.review_text, rv.created_at, rv.updated_at,
		       u.display_name, u.avatar_url
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.clip_id = $1
		ORDER BY rv.created_at DESC`

	rows, err := r.pool.Query(ctx, query, clipID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.ReviewResponse, 0)
	for rows.Next() {
		var rv model.ReviewResponse
		err := rows.Scan(
			&rv.ID, &rv.ClipID, &rv.UserID,
			&rv.TechniqueRating, &rv.CreativityRating, &rv.ToneRating, &rv.OverallRating,
			&rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt,
			&rv.AuthorName, &rv.AuthorAvatar,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// DeleteOrphaned removes reviews whose clip row is gone. The cascade
// delete makes these unreachable in normal operation; the nightly
// sweep calls this as a safety net.
func (r *postgresReviewRepository) DeleteOrphaned(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reviews WHERE NOT EXISTS (SELECT 1 FROM clips WHERE clips.id = reviews.clip_id)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned reviews: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListRatingsByClips fetches every review for the given clips in one
// query, grouped by clip. Used to build feed rating stats.
func (r *postgresReviewRepository) ListRatingsByClips(ctx context.Context, clipIDs []uuid.UUID) (map[uuid.UUID][]model.Review, error) {
	if len(clipIDs) == 0 {
		return map[uuid.UUID][]model.Review{}, nil
	}

	query := `
		SELECT id, clip_id, user_id,
		       technique_rating, creativity_rating, tone_rating, overall_rating,
		       review_text, created_at, updated_at
		FROM reviews
		WHERE clip_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, clipIDs)
	if err != nil {
		return nil, fmt.Errorf("list ratings by clips: %w", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]model.Review, len(clipIDs))
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(
			&rv.ID, &rv.ClipID, &rv.UserID,
			&rv.TechniqueRating, &rv.CreativityRating, &rv.ToneRating, &rv.OverallRating,
			&rv.ReviewText, &rv.CreatedAt, &rv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		grouped[rv.ClipID] = append(grouped[rv.ClipID], rv)
	}
	return grouped, rows.Err()
}
