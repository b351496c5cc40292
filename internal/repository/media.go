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

type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) InsertMedia(ctx context.Context, ext RepoExtension, m *model.Media) (*model.Media, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.media (id, user_id, filename, mime_type, size, url, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at;
	`

	err := ext.QueryRow(ctx, query,
		m.ID,
		m.UserID,
		m.Filename,
		m.MimeType,
		m.Size,
		m.URL,
		m.Thumbnail,
	).Scan(&m.CreatedAt)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *MediaRepository) SelectMediaByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Media, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, filename, mime_type, size, url, thumbnail, created_at
		FROM cms.media
		WHERE id = $1;
	`

	var m model.Media

	err := ext.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.UserID,
		&m.Filename,
		&m.MimeType,
		&m.Size,
		&m.URL,
		&m.Thumbnail,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMediaDoesNotExist
		}

		return nil, err
	}

	return &m, nil
}

func (r *MediaRepository) SelectMediaByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) ([]model.Media, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, filename, mime_type, size, url, thumbnail, created_at
		FROM cms.media
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Media, 0)

	for rows.Next() {
		var m model.Media

		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Filename,
			&m.MimeType,
			&m.Size,
			&m.URL,
			&m.Thumbnail,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}

		items = append(items, m)
	}

	return items, rows.Err()
}

func (r *MediaRepository) DeleteMedia(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM cms.media WHERE id = $1;`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrMediaDoesNotExist
	}

	return nil
}
