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

type CrisisRepository struct {
	db *pgxpool.Pool
}

func NewCrisisRepository(db *pgxpool.Pool) *CrisisRepository {
	return &CrisisRepository{db: db}
}

// UpsertTemplate stores the banner text without touching the active flag.
func (r *CrisisRepository) UpsertTemplate(ctx context.Context, ext RepoExtension, userID uuid.UUID, title, message string) (*model.CrisisMode, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.crisis_modes (id, user_id, title, message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET title = EXCLUDED.title, message = EXCLUDED.message, updated_at = NOW()
		RETURNING id, user_id, title, message, is_active, activated_at, updated_at;
	`

	var cm model.CrisisMode

	err := ext.QueryRow(ctx, query, uuid.New(), userID, title, message).Scan(
		&cm.ID,
		&cm.UserID,
		&cm.Title,
		&cm.Message,
		&cm.IsActive,
		&cm.ActivatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &cm, nil
}

func (r *CrisisRepository) SetActive(ctx context.Context, ext RepoExtension, userID uuid.UUID, active bool) (*model.CrisisMode, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.crisis_modes
		SET is_active    = $2,
		    activated_at = CASE WHEN $2 THEN NOW() ELSE activated_at END,
		    updated_at   = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, title, message, is_active, activated_at, updated_at;
	`

	var cm model.CrisisMode

	err := ext.QueryRow(ctx, query, userID, active).Scan(
		&cm.ID,
		&cm.UserID,
		&cm.Title,
		&cm.Message,
		&cm.IsActive,
		&cm.ActivatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCrisisModeDoesNotExist
		}

		return nil, err
	}

	return &cm, nil
}

func (r *CrisisRepository) SelectByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) (*model.CrisisMode, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, title, message, is_active, activated_at, updated_at
		FROM cms.crisis_modes
		WHERE user_id = $1;
	`

	var cm model.CrisisMode

	err := ext.QueryRow(ctx, query, userID).Scan(
		&cm.ID,
		&cm.UserID,
		&cm.Title,
		&cm.Message,
		&cm.IsActive,
		&cm.ActivatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCrisisModeDoesNotExist
		}

		return nil, err
	}

	return &cm, nil
}
