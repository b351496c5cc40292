package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type NewsletterRepository struct {
	db *pgxpool.Pool
}

func NewNewsletterRepository(db *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

func (r *NewsletterRepository) Pool() *pgxpool.Pool {
	return r.db
}

// UpsertSubscriber re-activates a previously unsubscribed address instead of
// failing on the (user_id, email) unique constraint.
func (r *NewsletterRepository) UpsertSubscriber(ctx context.Context, ext RepoExtension, s *model.Subscriber) (*model.Subscriber, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.newsletter_subscribers (id, user_id, email, name, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, email) DO UPDATE
		SET is_active = TRUE, name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, is_active, created_at, updated_at;
	`

	err := ext.QueryRow(ctx, query,
		s.ID,
		s.UserID,
		s.Email,
		s.Name,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (r *NewsletterRepository) DeactivateSubscriber(ctx context.Context, ext RepoExtension, userID uuid.UUID, email string) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE cms.newsletter_subscribers
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND email = $2;
	`

	tag, err := ext.Exec(ctx, query, userID, email)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubscriberDoesNotExist
	}

	return nil
}

func (r *NewsletterRepository) SelectSubscribersByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID, activeOnly bool) ([]model.Subscriber, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, email, name, is_active, created_at, updated_at
		FROM cms.newsletter_subscribers
		WHERE user_id = $1 AND (NOT $2 OR is_active)
		ORDER BY created_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]model.Subscriber, 0)

	for rows.Next() {
		var s model.Subscriber

		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Email,
			&s.Name,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}

		subs = append(subs, s)
	}

	return subs, rows.Err()
}

func (r *NewsletterRepository) DeleteSubscriber(ctx context.Context, ext RepoExtension, userID, subscriberID uuid.UUID) error {
	if ext == nil {
		ext = r.db
	}

	const query = `DELETE FROM cms.newsletter_subscribers WHERE id = $1 AND user_id = $2;`

	tag, err := ext.Exec(ctx, query, subscriberID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubscriberDoesNotExist
	}

	return nil
}

func (r *NewsletterRepository) SelectNewsletterStats(ctx context.Context, ext RepoExtension, userID uuid.UUID) (*model.NewsletterStats, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE NOT is_active)
		FROM cms.newsletter_subscribers
		WHERE user_id = $1;
	`

	var stats model.NewsletterStats

	if err := ext.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Active, &stats.Inactive); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *NewsletterRepository) CountActiveSubscribers(ctx context.Context, ext RepoExtension, userID uuid.UUID) (int, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*)
		FROM cms.newsletter_subscribers
		WHERE user_id = $1 AND is_active;
	`

	var count int

	if err := ext.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
