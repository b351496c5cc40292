package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
	"starconnect-back/pkg/twitter"
	"starconnect-back/pkg/vault"
)

const engagementSyncBatch = 50

type SocialAccountRepository interface {
	UpsertAccount(ctx context.Context, ext repository.RepoExtension, a *model.SocialAccount) (*model.SocialAccount, error)
	SelectAccountByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.SocialAccount, error)
	SelectActiveAccount(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, platform model.Platform) (*model.SocialAccount, error)
	SelectAccountsByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) ([]model.SocialAccount, error)
	SetAccountActive(ctx context.Context, ext repository.RepoExtension, id, userID uuid.UUID, active bool) error
	DeleteAccount(ctx context.Context, ext repository.RepoExtension, id, userID uuid.UUID) error
}

type SocialPostRepository interface {
	SelectPostsByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) ([]model.SocialPost, error)
	UpdateEngagement(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, platform model.Platform, platformPostID string, likes, shares, comments int) (bool, error)
}

type SocialContentRepository interface {
	SelectPublishedByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) ([]model.Content, error)
}

type SocialService struct {
	log         *zap.Logger
	accountRepo SocialAccountRepository
	postRepo    SocialPostRepository
	contentRepo SocialContentRepository
	vlt         vault.Vault
	twitterAPI  twitter.Client
	siteBaseURL string
}

func NewSocialService(
	log *zap.Logger,
	accountRepo SocialAccountRepository,
	postRepo SocialPostRepository,
	contentRepo SocialContentRepository,
	vlt vault.Vault,
	twitterAPI twitter.Client,
	siteBaseURL string,
) *SocialService {
	return &SocialService{
		log:         log,
		accountRepo: accountRepo,
		postRepo:    postRepo,
		contentRepo: contentRepo,
		vlt:         vlt,
		twitterAPI:  twitterAPI,
		siteBaseURL: siteBaseURL,
	}
}

// ConnectTwitter stores the token pair handed over after the external OAuth
// dance. The OAuth 1.0a access secret lives in the refresh token column,
// both encrypted at rest.
func (s *SocialService) ConnectTwitter(ctx context.Context, userID uuid.UUID, req *model.ConnectTwitterRequest) (*model.SocialAccount, error) {
	encToken, err := s.vlt.Encrypt(req.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	encSecret, err := s.vlt.Encrypt(req.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access secret: %w", err)
	}

	account := &model.SocialAccount{
		ID:             uuid.New(),
		UserID:         userID,
		Platform:       model.PlatformTwitter,
		PlatformUserID: req.TwitterUserID,
		Username:       req.Username,
		AccessToken:    encToken,
		RefreshToken:   encSecret,
	}

	account, err = s.accountRepo.UpsertAccount(ctx, nil, account)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return account, nil
}

func (s *SocialService) TwitterAuthorizeURL(callbackURL string) string {
	return s.twitterAPI.AuthorizeURL(callbackURL)
}

func (s *SocialService) GetAccounts(ctx context.Context, userID uuid.UUID) ([]model.SocialAccount, error) {
	accounts, err := s.accountRepo.SelectAccountsByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}

	return accounts, nil
}

func (s *SocialService) SetAccountActive(ctx context.Context, userID, accountID uuid.UUID, active bool) error {
	return s.accountRepo.SetAccountActive(ctx, nil, accountID, userID, active)
}

func (s *SocialService) DisconnectAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	return s.accountRepo.DeleteAccount(ctx, nil, accountID, userID)
}

// GetFeed merges published content and cross-posted social posts into one
// reverse-chronological stream.
func (s *SocialService) GetFeed(ctx context.Context, userID uuid.UUID) ([]model.FeedEntry, error) {
	posts, err := s.postRepo.SelectPostsByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}

	contents, err := s.contentRepo.SelectPublishedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	feed := make([]model.FeedEntry, 0, len(posts)+len(contents))

	for _, p := range posts {
		publishedAt := p.PublishedAt

		feed = append(feed, model.FeedEntry{
			Type:        "social",
			Platform:    p.Platform,
			Text:        p.Text,
			URL:         p.URL,
			PublishedAt: &publishedAt,
			Engagement: &model.Engagement{
				Likes:    p.Likes,
				Shares:   p.Shares,
				Comments: p.Comments,
			},
		})
	}

	for _, c := range contents {
		feed = append(feed, model.FeedEntry{
			Type:        "starconnect",
			Text:        c.Title,
			Excerpt:     c.Excerpt,
			URL:         fmt.Sprintf("%s/p/%s", s.siteBaseURL, c.Slug),
			PublishedAt: c.PublishedAt,
		})
	}

	sortFeed(feed)

	return feed, nil
}

func sortFeed(feed []model.FeedEntry) {
	ts := func(e model.FeedEntry) time.Time {
		if e.PublishedAt == nil {
			return time.Time{}
		}
		return *e.PublishedAt
	}

	// Insertion sort, feeds are small and mostly ordered already.
	for i := 1; i < len(feed); i++ {
		for j := i; j > 0 && ts(feed[j]).After(ts(feed[j-1])); j-- {
			feed[j], feed[j-1] = feed[j-1], feed[j]
		}
	}
}

func (s *SocialService) GetEngagementStats(ctx context.Context, userID uuid.UUID) (*model.EngagementStats, error) {
	posts, err := s.postRepo.SelectPostsByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}

	stats := &model.EngagementStats{
		ByPlatform: make(map[model.Platform]model.PlatformEngagement),
	}

	for _, p := range posts {
		stats.TotalPosts++
		stats.TotalLikes += p.Likes
		stats.TotalShares += p.Shares
		stats.TotalComments += p.Comments

		pe := stats.ByPlatform[p.Platform]
		pe.Posts++
		pe.Likes += p.Likes
		pe.Shares += p.Shares
		pe.Comments += p.Comments
		stats.ByPlatform[p.Platform] = pe
	}

	return stats, nil
}

// SyncEngagement refreshes cached counters from the platform APIs. Failures
// are collected, a dead platform never blocks the others.
func (s *SocialService) SyncEngagement(ctx context.Context, userID uuid.UUID) (*model.SyncResult, error) {
	result := &model.SyncResult{Errors: make([]string, 0)}

	account, err := s.accountRepo.SelectActiveAccount(ctx, nil, userID, model.PlatformTwitter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("TWITTER: %s", err.Error()))
		return result, nil
	}

	accessToken, err := s.vlt.Decrypt(account.AccessToken)
	if err != nil {
		result.Errors = append(result.Errors, "TWITTER: failed to decrypt token")
		return result, nil
	}

	accessSecret, err := s.vlt.Decrypt(account.RefreshToken)
	if err != nil {
		result.Errors = append(result.Errors, "TWITTER: failed to decrypt token")
		return result, nil
	}

	creds := twitter.Credentials{AccessToken: accessToken, AccessSecret: accessSecret}

	tweets, err := s.twitterAPI.UserTweets(ctx, creds, account.PlatformUserID, engagementSyncBatch)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("TWITTER: %s", err.Error()))
		return result, nil
	}

	for _, t := range tweets {
		updated, err := s.postRepo.UpdateEngagement(ctx, nil, userID, model.PlatformTwitter, t.ID, t.Likes, t.Retweets, t.Replies)
		if err != nil {
			s.log.Error("failed to update engagement",
				zap.String("tweet_id", t.ID),
				zap.Error(err),
			)

			continue
		}

		if updated {
			result.Twitter++
		}
	}

	return result, nil
}
