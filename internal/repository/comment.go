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

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Pool() *pgxpool.Pool {
	return r.db
}

func (r *CommentRepository) InsertComment(ctx context.Context, ext RepoExtension, c *model.Comment) (*model.Comment, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.comments (id, content_id, parent_id, author, email, text, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at;
	`

	err := ext.QueryRow(ctx, query,
		c.ID,
		c.ContentID,
		c.ParentID,
		c.Author,
		c.Email,
		c.Text,
		c.Status,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *CommentRepository) SelectCommentByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.Comment, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, content_id, parent_id, author, email, text, status, created_at
		FROM cms.comments
		WHERE id = $1;
	`

	var c model.Comment

	err := ext.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ContentID,
		&c.ParentID,
		&c.Author,
		&c.Email,
		&c.Text,
		&c.Status,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

// SelectApprovedByContent returns the public thread, oldest first so the
// service can assemble reply trees in one pass.
func (r *CommentRepository) SelectApprovedByContent(ctx context.Context, ext RepoExtension, contentID uuid.UUID) ([]model.Comment, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, content_id, parent_id, author, email, text, status, created_at
		FROM cms.comments
		WHERE content_id = $1 AND status = 'APPROVED'
		ORDER BY created_at ASC;
	`

	rows, err := ext.Query(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)

	for rows.Next() {
		var c model.Comment

		if err := rows.Scan(
			&c.ID,
			&c.ContentID,
			&c.ParentID,
			&c.Author,
			&c.Email,
			&c.Text,
			&c.Status,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}

		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// SelectCommentsForModeration lists every comment on the creator's content,
// joined with the content title for the dashboard.
func (r *CommentRepository) SelectCommentsForModeration(ctx context.Context, ext RepoExtension, ownerID uuid.UUID, status string) ([]model.Comment, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT cm.id, cm.content_id, cm.parent_id, cm.author, cm.email, cm.text, cm.status, cm.created_at,
		       c.title, c.slug
		FROM cms.comments cm
		JOIN cms.content c ON c.id = cm.content_id
		WHERE c.user_id = $1 AND ($2 = '' OR cm.status = $2)
		ORDER BY cm.created_at DESC;
	`

	rows, err := ext.Query(ctx, query, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)

	for rows.Next() {
		var (
			c   model.Comment
			ref model.ContentRef
		)

		if err := rows.Scan(
			&c.ID,
			&c.ContentID,
			&c.ParentID,
			&c.Author,
			&c.Email,
			&c.Text,
			&c.Status,
			&c.CreatedAt,
			&ref.Title,
			&ref.Slug,
		); err != nil {
			return nil, err
		}

		c.Content = &ref

		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// SelectCommentOwner resolves who owns the content a comment belongs to.
func (r *CommentRepository) SelectCommentOwner(ctx context.Context, ext RepoExtension, commentID uuid.UUID) (uuid.UUID, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT c.user_id
		FROM cms.comments cm
		JOIN cms.content c ON c.id = cm.content_id
		WHERE cm.id = $1;
	`

	var ownerID uuid.UUID

	if err := ext.QueryRow(ctx, query, commentID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.ErrCommentDoesNotExist
		}

		return uuid.Nil, err
	}

	return ownerID, nil
}

func (r *CommentRepository) UpdateCommentStatus(ctx context.Context, ext RepoExtension, id uuid.UUID, status string) (*model.Comment, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.comments
		SET status = $2
		WHERE id = $1
		RETURNING id, content_id, parent_id, author, email, text, status, created_at;
	`

	var c model.Comment

	err := ext.QueryRow(ctx, query, id, status).Scan(
		&c.ID,
		&c.ContentID,
		&c.ParentID,
		&c.Author,
		&c.Email,
		&c.Text,
		&c.Status,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentDoesNotExist
		}

		return nil, err
	}

	return &c, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, ext RepoExtension, id uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM cms.comments WHERE id = $1;`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentDoesNotExist
	}

	return nil
}

func (r *CommentRepository) SelectCommentStats(ctx context.Context, ext RepoExtension, ownerID uuid.UUID) (*model.CommentStats, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE cm.status = 'PENDING'),
		       COUNT(*) FILTER (WHERE cm.status = 'APPROVED'),
		       COUNT(*) FILTER (WHERE cm.status = 'REJECTED'),
		       COUNT(*) FILTER (WHERE cm.status = 'SPAM')
		FROM cms.comments cm
		JOIN cms.content c ON c.id = cm.content_id
		WHERE c.user_id = $1;
	`

	var stats model.CommentStats

	err := ext.QueryRow(ctx, query, ownerID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Approved,
		&stats.Rejected,
		&stats.Spam,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
