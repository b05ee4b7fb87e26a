package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"riffs-backend/internal/domains/user/model"
)

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresUserRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, display_name, avatar_url,
	email_verified, verification_token, verification_expires_at,
	password_reset_token, password_reset_expires_at,
	created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL,
		&u.EmailVerified, &u.VerificationToken, &u.VerificationExpires,
		&u.PasswordResetToken, &u.PasswordResetExpires,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, display_name, avatar_url,
			email_verified, verification_token, verification_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL,
		user.EmailVerified, user.VerificationToken, user.VerificationExpires,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return model.ErrEmailTaken()
			case "users_display_name_key":
				return model.ErrDisplayNameTaken()
			}
			return model.ErrEmailTaken()
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound()
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound()
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvalidToken()
		}
		return nil, fmt.Errorf("get user by verification token: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInvalidToken()
		}
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]model.Profile, error) {
	query := `
		SELECT id, display_name, avatar_url, created_at
		FROM users
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0, len(ids))
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *postgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			email = $2,
			password_hash = $3,
			display_name = $4,
			avatar_url = $5,
			email_verified = $6,
			verification_token = $7,
			verification_expires_at = $8,
			password_reset_token = $9,
			password_reset_expires_at = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL,
		user.EmailVerified, user.VerificationToken, user.VerificationExpires,
		user.PasswordResetToken, user.PasswordResetExpires,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrUserNotFound()
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_display_name_key" {
				return model.ErrDisplayNameTaken()
			}
			return model.ErrEmailTaken()
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *postgresUserRepository) ExistsByDisplayName(ctx context.Context, displayName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(display_name) = lower($1))`, displayName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check display name exists: %w", err)
	}
	return exists, nil
}

// CleanupExpiredTokens clears verification and reset tokens past their
// expiry. Run nightly by the worker.
func (r *postgresUserRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users SET
			verification_token = CASE WHEN verification_expires_at < now() THEN NULL ELSE verification_token END,
			verification_expires_at = CASE WHEN verification_expires_at < now() THEN NULL ELSE verification_expires_at END,
			password_reset_token = CASE WHEN password_reset_expires_at < now() THEN NULL ELSE password_reset_token END,
			password_reset_expires_at = CASE WHEN password_reset_expires_at < now() THEN NULL ELSE password_reset_expires_at END
		WHERE (verification_token IS NOT NULL AND verification_expires_at < now())
		   OR (password_reset_token IS NOT NULL AND password_reset_expires_at < now())`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
