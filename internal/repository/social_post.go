package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/model"
)

type SocialPostRepository struct {
	db *pgxpool.Pool
}

func NewSocialPostRepository(db *pgxpool.Pool) *SocialPostRepository {
	return &SocialPostRepository{db: db}
}

func (r *SocialPostRepository) InsertPost(ctx context.Context, ext RepoExtension, p *model.SocialPost) (*model.SocialPost, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO social.posts (id, user_id, content_id, platform, platform_post_id, text, url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := ext.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.ContentID,
		p.Platform,
		p.PlatformPostID,
		p.Text,
		p.URL,
		p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *SocialPostRepository) SelectPostsByUser(ctx context.Context, ext RepoExtension, userID uuid.UUID) ([]model.SocialPost, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT id, user_id, content_id, platform, platform_post_id, text, url,
		       likes, shares, comments, published_at
		FROM social.posts
		WHERE user_id = $1
		ORDER BY published_at DESC;
	`

	rows, err := ext.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.SocialPost, 0)

	for rows.Next() {
		var p model.SocialPost

		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ContentID,
			&p.Platform,
			&p.PlatformPostID,
			&p.Text,
			&p.URL,
			&p.Likes,
			&p.Shares,
			&p.Comments,
			&p.PublishedAt,
		); err != nil {
			return nil, err
		}

		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// UpdateEngagement refreshes the cached counters after a sync pass.
func (r *SocialPostRepository) UpdateEngagement(ctx context.Context, ext RepoExtension, userID uuid.UUID, platform model.Platform, platformPostID string, likes, shares, comments int) (bool, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		UPDATE social.posts
		SET likes = $4, shares = $5, comments = $6
		WHERE user_id = $1 AND platform = $2 AND platform_post_id = $3;
	`

	tag, err := ext.Exec(ctx, query, userID, platform, platformPostID, likes, shares, comments)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
