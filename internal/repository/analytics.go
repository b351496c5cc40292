package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/model"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) InsertPageView(ctx context.Context, ext RepoExtension, v *model.PageView) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO cms.page_views (id, page, content_id, user_id, visitor_id, referrer, user_agent, country, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := ext.Exec(ctx, query,
		v.ID,
		v.Page,
		v.ContentID,
		v.UserID,
		v.VisitorID,
		v.Referrer,
		v.UserAgent,
		v.Country,
		v.Duration,
	)
	return err
}

func (r *AnalyticsRepository) SelectUserTotals(ctx context.Context, ext RepoExtension, userID uuid.UUID, since time.Time) (total, unique, avgDuration int, err error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*),
		       COUNT(DISTINCT visitor_id),
		       COALESCE(AVG(duration), 0)::int
		FROM cms.page_views
		WHERE user_id = $1 AND created_at >= $2;
	`

	err = ext.QueryRow(ctx, query, userID, since).Scan(&total, &unique, &avgDuration)
	return total, unique, avgDuration, err
}

func (r *AnalyticsRepository) SelectContentTotals(ctx context.Context, ext RepoExtension, contentID uuid.UUID, since time.Time) (total, unique, avgDuration int, err error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT COUNT(*),
		       COUNT(DISTINCT visitor_id),
		       COALESCE(AVG(duration), 0)::int
		FROM cms.page_views
		WHERE content_id = $1 AND created_at >= $2;
	`

	err = ext.QueryRow(ctx, query, contentID, since).Scan(&total, &unique, &avgDuration)
	return total, unique, avgDuration, err
}

func (r *AnalyticsRepository) SelectViewsByDay(ctx context.Context, ext RepoExtension, userID uuid.UUID, contentID *uuid.UUID, since time.Time) (map[string]int, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT to_char(created_at, 'YYYY-MM-DD'), COUNT(*)
		FROM cms.page_views
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::uuid IS NULL OR content_id = $2)
		  AND created_at >= $3
		GROUP BY 1
		ORDER BY 1;
	`

	var uid *uuid.UUID
	if userID != uuid.Nil {
		uid = &userID
	}

	rows, err := ext.Query(ctx, query, uid, contentID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]int)

	for rows.Next() {
		var (
			day   string
			count int
		)

		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}

		byDay[day] = count
	}

	return byDay, rows.Err()
}

func (r *AnalyticsRepository) SelectViewsByCountry(ctx context.Context, ext RepoExtension, userID uuid.UUID, since time.Time) (map[string]int, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT country, COUNT(*)
		FROM cms.page_views
		WHERE user_id = $1 AND created_at >= $2 AND country <> ''
		GROUP BY country
		ORDER BY COUNT(*) DESC;
	`

	rows, err := ext.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCountry := make(map[string]int)

	for rows.Next() {
		var (
			country string
			count   int
		)

		if err := rows.Scan(&country, &count); err != nil {
			return nil, err
		}

		byCountry[country] = count
	}

	return byCountry, rows.Err()
}

func (r *AnalyticsRepository) SelectTopContent(ctx context.Context, ext RepoExtension, userID uuid.UUID, since time.Time, limit int) ([]model.TopContentEntry, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT c.id, c.title, c.slug, COUNT(v.id)
		FROM cms.page_views v
		JOIN cms.content c ON c.id = v.content_id
		WHERE v.user_id = $1 AND v.created_at >= $2
		GROUP BY c.id, c.title, c.slug
		ORDER BY COUNT(v.id) DESC
		LIMIT $3;
	`

	rows, err := ext.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.TopContentEntry, 0)

	for rows.Next() {
		var e model.TopContentEntry

		if err := rows.Scan(&e.ID, &e.Title, &e.Slug, &e.Views); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// SelectTopReferrers groups raw referrers by host in SQL so the service
// never post-processes URL strings.
func (r *AnalyticsRepository) SelectTopReferrers(ctx context.Context, ext RepoExtension, userID uuid.UUID, since time.Time, limit int) ([]model.ReferrerEntry, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT split_part(split_part(referrer, '://', 2), '/', 1) AS domain, COUNT(*)
		FROM cms.page_views
		WHERE user_id = $1 AND created_at >= $2 AND referrer <> ''
		GROUP BY 1
		HAVING split_part(split_part(referrer, '://', 2), '/', 1) <> ''
		ORDER BY COUNT(*) DESC
		LIMIT $3;
	`

	rows, err := ext.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.ReferrerEntry, 0)

	for rows.Next() {
		var e model.ReferrerEntry

		if err := rows.Scan(&e.Domain, &e.Count); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// SelectPageViews streams the raw rows of the export window, newest first.
func (r *AnalyticsRepository) SelectPageViews(ctx context.Context, ext RepoExtension, userID uuid.UUID, since time.Time) ([]model.PageView, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, page, content_id, user_id, visitor_id, referrer, user_agent, country, duration, created_at
		FROM cms.page_views
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]model.PageView, 0)

	for rows.Next() {
		var v model.PageView

		if err := rows.Scan(
			&v.ID,
			&v.Page,
			&v.ContentID,
			&v.UserID,
			&v.VisitorID,
			&v.Referrer,
			&v.UserAgent,
			&v.Country,
			&v.Duration,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}

		views = append(views, v)
	}

	return views, rows.Err()
}
