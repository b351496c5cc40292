package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
	"starconnect-back/pkg/vault"
)

// PlatformPost is what a platform adapter returns on success.
type PlatformPost struct {
	ID  string
	URL string
}

// PlatformPublisher posts one piece of text through an already connected
// account. The account passed in carries decrypted token material.
type PlatformPublisher interface {
	Publish(ctx context.Context, account *model.SocialAccount, text string) (*PlatformPost, error)
}

type PublishQueueRepository interface {
	Pool() *pgxpool.Pool

	InsertItem(ctx context.Context, ext repository.RepoExtension, item *model.QueueItem) (*model.QueueItem, error)
	SelectItemByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.QueueItem, error)
	SelectQueueByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) ([]model.QueueItem, error)
	ClaimPending(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (bool, error)
	UpdateOutcome(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, status, errMsg string, processedAt time.Time) error
	DeleteIfPending(ctx context.Context, ext repository.RepoExtension, id, userID uuid.UUID) error
	SelectDuePending(ctx context.Context, ext repository.RepoExtension, now time.Time, limit int) ([]model.QueueItem, error)
}

type PublishAccountRepository interface {
	SelectActiveAccount(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, platform model.Platform) (*model.SocialAccount, error)
}

type PublishPostRepository interface {
	InsertPost(ctx context.Context, ext repository.RepoExtension, p *model.SocialPost) (*model.SocialPost, error)
}

type PublishContentRepository interface {
	SelectContentByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Content, error)
}

type PublishService struct {
	log         *zap.Logger
	queueRepo   PublishQueueRepository
	accountRepo PublishAccountRepository
	postRepo    PublishPostRepository
	contentRepo PublishContentRepository
	vlt         vault.Vault
	publishers  map[model.Platform]PlatformPublisher
	callTimeout time.Duration
}

func NewPublishService(
	log *zap.Logger,
	queueRepo PublishQueueRepository,
	accountRepo PublishAccountRepository,
	postRepo PublishPostRepository,
	contentRepo PublishContentRepository,
	vlt vault.Vault,
	publishers map[model.Platform]PlatformPublisher,
	callTimeout time.Duration,
) *PublishService {
	return &PublishService{
		log:         log,
		queueRepo:   queueRepo,
		accountRepo: accountRepo,
		postRepo:    postRepo,
		contentRepo: contentRepo,
		vlt:         vlt,
		publishers:  publishers,
		callTimeout: callTimeout,
	}
}

// Enqueue creates a queue item. Without a schedule it is processed right
// away and the response carries both the pre-processing snapshot and the
// per-platform outcome; with one it just waits for the scheduler.
func (s *PublishService) Enqueue(ctx context.Context, userID uuid.UUID, req *model.PublishRequest) (*model.PublishResponse, error) {
	if len(req.Platforms) == 0 {
		return nil, apperrors.ErrNoPlatforms
	}

	for _, p := range req.Platforms {
		if !model.KnownPlatform(p) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedPlatform, p)
		}
	}

	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content id: %w", err)
	}

	content, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	if content.UserID != userID {
		return nil, apperrors.ErrContentAccessDenied
	}

	item := &model.QueueItem{
		ID:           uuid.New(),
		UserID:       userID,
		ContentID:    contentID,
		Platforms:    req.Platforms,
		Status:       model.QueueStatusPending,
		ScheduledFor: req.ScheduledFor,
	}

	item, err = s.queueRepo.InsertItem(ctx, nil, item)
	if err != nil {
		return nil, fmt.Errorf("failed to insert queue item: %w", err)
	}

	if item.ScheduledFor != nil {
		return &model.PublishResponse{Item: item}, nil
	}

	snapshot := *item

	result, err := s.process(ctx, item)
	if err != nil {
		return nil, err
	}

	return &model.PublishResponse{Item: &snapshot, Result: result}, nil
}

func (s *PublishService) GetQueue(ctx context.Context, userID uuid.UUID) ([]model.QueueItem, error) {
	items, err := s.queueRepo.SelectQueueByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue: %w", err)
	}

	return items, nil
}

// Cancel removes a still pending item owned by the caller.
func (s *PublishService) Cancel(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.queueRepo.DeleteIfPending(ctx, nil, itemID, userID)
}

// ProcessItem drives one queue item through its platforms. Items no longer
// PENDING are skipped without an error, whoever claimed them first owns the
// outcome.
func (s *PublishService) ProcessItem(ctx context.Context, itemID uuid.UUID) (*model.PublishResult, error) {
	item, err := s.queueRepo.SelectItemByID(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue item: %w", err)
	}

	return s.process(ctx, item)
}

// ProcessDue claims and processes every scheduled item whose time has come.
func (s *PublishService) ProcessDue(ctx context.Context, limit int) (int, error) {
	items, err := s.queueRepo.SelectDuePending(ctx, nil, time.Now().UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to select due items: %w", err)
	}

	processed := 0

	for i := range items {
		result, err := s.process(ctx, &items[i])
		if err != nil {
			s.log.Error("failed to process scheduled item",
				zap.String("item_id", items[i].ID.String()),
				zap.Error(err),
			)

			continue
		}

		if result != nil {
			processed++
		}
	}

	return processed, nil
}

func (s *PublishService) process(ctx context.Context, item *model.QueueItem) (*model.PublishResult, error) {
	claimed, err := s.queueRepo.ClaimPending(ctx, nil, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim queue item: %w", err)
	}

	// Lost the race or the item was already handled.
	if !claimed {
		return nil, nil
	}

	result := &model.PublishResult{
		Successes: make([]string, 0, len(item.Platforms)),
		Errors:    make([]string, 0),
	}

	content, err := s.contentRepo.SelectContentByID(ctx, nil, item.ContentID)
	if err != nil {
		// Content vanished between enqueue and processing, fail every platform.
		for _, p := range item.Platforms {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: content not found", p))
		}
	} else {
		text := buildPostText(content)

		for _, p := range item.Platforms {
			post, postErr := s.publishToPlatform(ctx, item, p, text)
			if postErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", p, postErr.Error()))
				continue
			}

			result.Successes = append(result.Successes, fmt.Sprintf("%s: %s", p, post.URL))
		}
	}

	status := model.QueueStatusCompleted
	if len(result.Successes) == 0 && len(result.Errors) > 0 {
		status = model.QueueStatusFailed
	}

	errMsg := strings.Join(result.Errors, "; ")

	if err := s.queueRepo.UpdateOutcome(ctx, nil, item.ID, status, errMsg, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update queue item: %w", err)
	}

	s.log.Info("queue item processed",
		zap.String("item_id", item.ID.String()),
		zap.String("status", status),
		zap.Int("successes", len(result.Successes)),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

func (s *PublishService) publishToPlatform(ctx context.Context, item *model.QueueItem, platform model.Platform, text string) (*PlatformPost, error) {
	publisher, ok := s.publishers[platform]
	if !ok {
		return nil, apperrors.ErrUnsupportedPlatform
	}

	account, err := s.accountRepo.SelectActiveAccount(ctx, nil, item.UserID, platform)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotConnected) {
			return nil, apperrors.ErrAccountNotConnected
		}

		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	decrypted := *account

	decrypted.AccessToken, err = s.vlt.Decrypt(account.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	if account.RefreshToken != "" {
		decrypted.RefreshToken, err = s.vlt.Decrypt(account.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	post, err := publisher.Publish(callCtx, &decrypted, text)
	if err != nil {
		return nil, err
	}

	_, err = s.postRepo.InsertPost(ctx, nil, &model.SocialPost{
		ID:             uuid.New(),
		UserID:         item.UserID,
		ContentID:      item.ContentID,
		Platform:       platform,
		PlatformPostID: post.ID,
		Text:           text,
		URL:            post.URL,
		PublishedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record post: %w", err)
	}

	return post, nil
}

func buildPostText(content *model.Content) string {
	if content.Excerpt == "" {
		return content.Title
	}

	return content.Title + "\n\n" + content.Excerpt
}
