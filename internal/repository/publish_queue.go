package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type PublishQueueRepository struct {
	db *pgxpool.Pool
}

func NewPublishQueueRepository(db *pgxpool.Pool) *PublishQueueRepository {
	return &PublishQueueRepository{db: db}
}

func (r *PublishQueueRepository) Pool() *pgxpool.Pool {
	return r.db
}

func platformsToStrings(platforms []model.Platform) []string {
	out := make([]string, len(platforms))
	for i, p := range platforms {
		out[i] = string(p)
	}
	return out
}

func stringsToPlatforms(raw []string) []model.Platform {
	out := make([]model.Platform, len(raw))
	for i, s := range raw {
		out[i] = model.Platform(s)
	}
	return out
}

func (r *PublishQueueRepository) InsertItem(ctx context.Context, ext RepoExtension, item *model.QueueItem) (*model.QueueItem, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO social.publish_queue (id, user_id, content_id, platforms, status, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at;
	`

	err := ext.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.ContentID,
		platformsToStrings(item.Platforms),
		item.Status,
		item.ScheduledFor,
	).Scan(&item.CreatedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *PublishQueueRepository) SelectItemByID(ctx context.Context, ext RepoExtension, id uuid.UUID) (*model.QueueItem, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, content_id, platforms, status, scheduled_for, error, processed_at, created_at
		FROM social.publish_queue
		WHERE id = $1;
	`

	var (
		item model.QueueItem
		raw  []string
	)

	err := ext.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.ContentID,
		&raw,
		&item.Status,
		&item.ScheduledFor,
		&item.Error,
		&item.ProcessedAt,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQueueItemDoesNotExist
		}

		return nil, err
	}

	item.Platforms = stringsToPlatforms(raw)

	return &item, nil
}

// SelectQueueByUser lists the user's queue newest first, each item joined
// with its content title for the dashboard.
func (r *PublishQueueRepository) SelectQueueByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) ([]model.QueueItem, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT q.id, q.user_id, q.content_id, q.platforms, q.status, q.scheduled_for,
		       q.error, q.processed_at, q.created_at,
		       c.title, c.slug
		FROM social.publish_queue q
		JOIN cms.content c ON c.id = q.content_id
		WHERE q.user_id = $1
		ORDER BY q.created_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.QueueItem, 0)

	for rows.Next() {
		var (
			item model.QueueItem
			raw  []string
			ref  model.ContentRef
		)

		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ContentID,
			&raw,
			&item.Status,
			&item.ScheduledFor,
			&item.Error,
			&item.ProcessedAt,
			&item.CreatedAt,
			&ref.Title,
			&ref.Slug,
		); err != nil {
			return nil, err
		}

		item.Platforms = stringsToPlatforms(raw)
		item.Content = &ref

		items = append(items, item)
	}

	return items, rows.Err()
}

// ClaimPending is the concurrency guard of the whole publish flow: the
// conditional UPDATE flips PENDING to PROCESSING atomically, so of any number
// of concurrent processors exactly one sees claimed == true.
func (r *PublishQueueRepository) ClaimPending(ctx context.Context, ext RepoExtension, id uuid.UUID) (bool, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE social.publish_queue
		SET status = 'PROCESSING'
		WHERE id = $1 AND status = 'PENDING';
	`

	tag, err := ext.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateOutcome records the terminal state of a processed item.
func (r *PublishQueueRepository) UpdateOutcome(ctx context.Context, ext RepoExtension, id uuid.UUID, status, errMsg string, processedAt time.Time) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE social.publish_queue
		SET status = $2, error = $3, processed_at = $4
		WHERE id = $1;
	`

	_, err := ext.Exec(ctx, query, id, status, errMsg, processedAt)
	return err
}

// DeleteIfPending removes the item only while it is still PENDING and owned
// by the caller; the returned flags let the service tell "not yours" from
// "already running".
func (r *PublishQueueRepository) DeleteIfPending(ctx context.Context, ext RepoExtension, id, userID uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		DELETE FROM social.publish_queue
		WHERE id = $1 AND user_id = $2 AND status = 'PENDING';
	`

	tag, err := ext.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	item, err := r.SelectItemByID(ctx, ext, id)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		return apperrors.ErrQueueItemNotOwned
	}

	return apperrors.ErrQueueItemNotPending
}

// SelectDuePending returns scheduled items whose time has come, oldest first.
func (r *PublishQueueRepository) SelectDuePending(ctx context.Context, ext RepoExtension, now time.Time, limit int) ([]model.QueueItem, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, content_id, platforms, status, scheduled_for, error, processed_at, created_at
		FROM social.publish_queue
		WHERE status = 'PENDING' AND scheduled_for IS NOT NULL AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2;
	`

	rows, err := ext.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.QueueItem, 0)

	for rows.Next() {
		var (
			item model.QueueItem
			raw  []string
		)

		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ContentID,
			&raw,
			&item.Status,
			&item.ScheduledFor,
			&item.Error,
			&item.ProcessedAt,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}

		item.Platforms = stringsToPlatforms(raw)

		items = append(items, item)
	}

	return items, rows.Err()
}
