package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

const contentColumns = `id, user_id, type, title, slug, body, excerpt, status,
		published_at, created_at, updated_at`

type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Pool() *pgxpool.Pool {
	return r.db
}

func scanContent(row pgx.Row, c *model.Content) error {
	return row.Scan(
		&c.ID,
		&c.UserID,
		&c.Type,
		&c.Title,
		&c.Slug,
		&c.Body,
		&c.Excerpt,
		&c.Status,
		&c.PublishedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *ContentRepository) InsertContent(ctx context.Context, ext RepoExtension, c *model.Content) (*model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.content (id, user_id, type, title, slug, body, excerpt, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at;
	`

	err := ext.QueryRow(ctx, query,
		c.ID,
		c.UserID,
		c.Type,
		c.Title,
		c.Slug,
		c.Body,
		c.Excerpt,
		c.Status,
		c.PublishedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrSlugAlreadyExists
		}

		return nil, err
	}

	return c, nil
}

func (r *ContentRepository) SelectContentByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT ` + contentColumns + ` FROM cms.content WHERE id = $1;`

	var c model.Content

	if err := scanContent(ext.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

// SelectPublishedBySlug serves the public reading view, drafts stay invisible.
func (r *ContentRepository) SelectPublishedBySlug(ctx context.Context, ext RepoExtension, username, slug string) (*model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT c.id, c.user_id, c.type, c.title, c.slug, c.body, c.excerpt, c.status,
		       c.published_at, c.created_at, c.updated_at
		FROM cms.content c
		JOIN cms.users u ON u.id = c.user_id
		WHERE u.username = $1 AND c.slug = $2 AND c.status = 'PUBLISHED';
	`

	var c model.Content

	if err := scanContent(ext.QueryRow(ctx, query, username, slug), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

func (r *ContentRepository) SelectContentByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID, status string) ([]model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + contentColumns + `
		FROM cms.content
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Content, 0)

	for rows.Next() {
		var c model.Content

		if err := scanContent(rows, &c); err != nil {
			return nil, err
		}

		items = append(items, c)
	}

	return items, rows.Err()
}

func (r *ContentRepository) SelectPublishedByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) ([]model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT ` + contentColumns + `
		FROM cms.content
		WHERE user_id = $1 AND status = 'PUBLISHED'
		ORDER BY published_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Content, 0)

	for rows.Next() {
		var c model.Content

		if err := scanContent(rows, &c); err != nil {
			return nil, err
		}

		items = append(items, c)
	}

	return items, rows.Err()
}

func (r *ContentRepository) UpdateContent(ctx context.Context, ext RepoExtension, id uuid.UUID, upd *model.ContentUpdateRequest) (*model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.content
		SET title      = COALESCE($2, title),
		    body       = COALESCE($3, body),
		    excerpt    = COALESCE($4, excerpt),
		    status     = COALESCE($5, status),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contentColumns + `;
	`

	var c model.Content

	if err := scanContent(ext.QueryRow(ctx, query,
		id,
		upd.Title,
		upd.Body,
		upd.Excerpt,
		upd.Status,
	), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

func (r *ContentRepository) MarkPublished(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Content, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.content
		SET status = 'PUBLISHED', published_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contentColumns + `;
	`

	var c model.Content

	if err := scanContent(ext.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

func (r *ContentRepository) DeleteContent(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM cms.content WHERE id = $1;`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrContentDoesNotExist
	}

	return nil
}

// SlugExists backs unique slug generation, the caller appends a suffix on true.
func (r *ContentRepository) SlugExists(ctx context.Context, ext RepoExtension, userID uuid.UUID, slug string) (bool, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `SELECT EXISTS (SELECT 1 FROM cms.content WHERE user_id = $1 AND slug = $2);`

	var exists bool

	if err := ext.QueryRow(ctx, query, userID, slug).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
