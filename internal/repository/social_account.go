package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type SocialAccountRepository struct {
	db *pgxpool.Pool
}

func NewSocialAccountRepository(db *pgxpool.Pool) *SocialAccountRepository {
	return &SocialAccountRepository{db: db}
}

// UpsertAccount replaces the stored token material on reconnect, one row per
// (user, platform).
func (r *SocialAccountRepository) UpsertAccount(ctx context.Context, ext RepoExtension, a *model.SocialAccount) (*model.SocialAccount, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO social.accounts (id, user_id, platform, platform_user_id, username, access_token, refresh_token, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (user_id, platform) DO UPDATE
		SET platform_user_id = EXCLUDED.platform_user_id,
		    username         = EXCLUDED.username,
		    access_token     = EXCLUDED.access_token,
		    refresh_token    = EXCLUDED.refresh_token,
		    is_active        = TRUE,
		    updated_at       = NOW()
		RETURNING id, is_active, created_at, updated_at;
	`

	err := ext.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.Platform,
		a.PlatformUserID,
		a.Username,
		a.AccessToken,
		a.RefreshToken,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func scanSocialAccount(row pgx.Row, a *model.SocialAccount) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Platform,
		&a.PlatformUserID,
		&a.Username,
		&a.AccessToken,
		&a.RefreshToken,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

const socialAccountColumns = `id, user_id, platform, platform_user_id, username,
		access_token, refresh_token, is_active, created_at, updated_at`

func (r *SocialAccountRepository) SelectAccountByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.SocialAccount, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT ` + socialAccountColumns + ` FROM social.accounts WHERE id = $1;`

	var a model.SocialAccount

	if err := scanSocialAccount(ext.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountDoesNotExist
		}

		return nil, err
	}

	return &a, nil
}

// SelectActiveAccount is the lookup the publish flow uses: only a connected,
// active account can be posted through.
func (r *SocialAccountRepository) SelectActiveAccount(ctx context.Context, ext RepoExtension, userID uuid.UUID, platform model.Platform) (*model.SocialAccount, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + socialAccountColumns + `
		FROM social.accounts
		WHERE user_id = $1 AND platform = $2 AND is_active;
	`

	var a model.SocialAccount

	if err := scanSocialAccount(ext.QueryRow(ctx, query, userID, platform), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotConnected
		}

		return nil, err
	}

	return &a, nil
}

func (r *SocialAccountRepository) SelectAccountsByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) ([]model.SocialAccount, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + socialAccountColumns + `
		FROM social.accounts
		WHERE user_id = $1
		ORDER BY created_at ASC;
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]model.SocialAccount, 0)

	for rows.Next() {
		var a model.SocialAccount

		if err := scanSocialAccount(rows, &a); err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (r *SocialAccountRepository) SetAccountActive(ctx context.Context, ext RepoExtension, id, userID uuid.UUID, active bool) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE social.accounts
		SET is_active = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2;
	`

	tag, err := ext.Exec(ctx, query, id, userID, active)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountDoesNotExist
	}

	return nil
}

func (r *SocialAccountRepository) DeleteAccount(ctx context.Context, ext RepoExtension, id, userID uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM social.accounts WHERE id = $1 AND user_id = $2;`

	tag, err := ext.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountDoesNotExist
	}

	return nil
}
