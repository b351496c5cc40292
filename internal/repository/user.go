package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

const userColumns = `id, username, email, password, name, bio, avatar, banner,
		       social_links, custom_theme, is_public, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Pool() *pgxpool.Pool {
	return r.db
}

func scanUser(row pgx.Row, user *model.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Name,
		&user.Bio,
		&user.Avatar,
		&user.Banner,
		&user.SocialLinks,
		&user.CustomTheme,
		&user.IsPublic,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *UserRepository) InsertUser(ctx context.Context, ext RepoExtension, user *model.User) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.users (id, username, email, password, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING bio, avatar, banner, social_links, custom_theme, is_public, created_at, updated_at;
	`

	err := ext.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.Name,
	).Scan(
		&user.Bio,
		&user.Avatar,
		&user.Banner,
		&user.SocialLinks,
		&user.CustomTheme,
		&user.IsPublic,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, apperrors.ErrUsernameAlreadyExists
			}

			return nil, apperrors.ErrUserAlreadyExists
		}

		return nil, err
	}

	return user, nil
}

func (r *UserRepository) SelectUserByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT ` + userColumns + ` FROM cms.users WHERE id = $1;`

	var user model.User

	if err := scanUser(ext.QueryRow(ctx, query, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserDoesNotExist
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) SelectUserByEmail(ctx context.Context, ext RepoExtension, email string) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT ` + userColumns + ` FROM cms.users WHERE email = $1;`

	var user model.User

	if err := scanUser(ext.QueryRow(ctx, query, email), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserDoesNotExist
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) SelectUserByUsername(ctx context.Context, ext RepoExtension, username string) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT ` + userColumns + ` FROM cms.users WHERE username = $1;`

	var user model.User

	if err := scanUser(ext.QueryRow(ctx, query, username), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserDoesNotExist
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, ext RepoExtension, id uuid.UUID, upd *model.ProfileUpdateRequest) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.users
		SET name         = COALESCE($2, name),
		    bio          = COALESCE($3, bio),
		    avatar       = COALESCE($4, avatar),
		    banner       = COALESCE($5, banner),
		    social_links = COALESCE($6, social_links),
		    custom_theme = COALESCE($7, custom_theme),
		    is_public    = COALESCE($8, is_public),
		    updated_at   = NOW()
		WHERE id = $1
		RETURNING ` + userColumns + `;
	`

	var user model.User

	if err := scanUser(ext.QueryRow(ctx, query,
		id,
		upd.Name,
		upd.Bio,
		upd.Avatar,
		upd.Banner,
		upd.SocialLinks,
		upd.CustomTheme,
		upd.IsPublic,
	), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserDoesNotExist
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateUserPassword(ctx context.Context, ext RepoExtension, userID uuid.UUID, hashedPassword []byte) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.users
		SET password = $1, updated_at = NOW()
		WHERE id = $2;
	`

	_, err := ext.Exec(ctx, query, hashedPassword, userID)
	return err
}

func (r *UserRepository) InsertPasswordResetToken(ctx context.Context, ext RepoExtension, userID uuid.UUID, token []byte, expiresAt time.Time) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.password_reset_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3);
	`

	_, err := ext.Exec(ctx, query, userID, token, expiresAt)
	return err
}

func (r *UserRepository) SelectUserByResetToken(ctx context.Context, ext RepoExtension, token []byte) (*model.User, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT u.id, u.username, u.email, u.password, u.name, u.bio, u.avatar, u.banner,
		       u.social_links, u.custom_theme, u.is_public, u.created_at, u.updated_at
		FROM cms.password_reset_tokens t
		JOIN cms.users u ON t.user_id = u.id
		WHERE t.token = $1 AND t.expires_at > NOW();
	`

	var user model.User

	if err := scanUser(ext.QueryRow(ctx, query, token), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResetTokenInvalid
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) DeletePasswordResetToken(ctx context.Context, ext RepoExtension, token []byte) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM cms.password_reset_tokens WHERE token = $1;`

	_, err := ext.Exec(ctx, query, token)
	return err
}
