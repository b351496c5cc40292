package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type NewsletterRepository interface {
	Pool() *pgxpool.Pool

	UpsertSubscriber(ctx context.Context, ext repository.RepoExtension, s *model.Subscriber) (*model.Subscriber, error)
	DeactivateSubscriber(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, email string) error
	SelectSubscribersByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, activeOnly bool) ([]model.Subscriber, error)
	DeleteSubscriber(ctx context.Context, ext repository.RepoExtension, userID, subscriberID uuid.UUID) error
	SelectNewsletterStats(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) (*model.NewsletterStats, error)
	CountActiveSubscribers(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID) (int, error)
}

type NewsletterUserRepository interface {
	SelectUserByUsername(ctx context.Context, ext repository.RepoExtension, username string) (*model.User, error)
}

type NewsletterOutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, topic string, event any) error
}

type NewsletterService struct {
	newsletterRepo NewsletterRepository
	userRepo       NewsletterUserRepository
	outboxRepo     NewsletterOutboxRepository
}

func NewNewsletterService(
	newsletterRepo NewsletterRepository,
	userRepo NewsletterUserRepository,
	outboxRepo NewsletterOutboxRepository,
) *NewsletterService {
	return &NewsletterService{
		newsletterRepo: newsletterRepo,
		userRepo:       userRepo,
		outboxRepo:     outboxRepo,
	}
}

// Subscribe is a public endpoint keyed by the creator's username. A repeat
// subscription just re-activates the existing row.
func (s *NewsletterService) Subscribe(ctx context.Context, req *model.SubscribeRequest) (*model.Subscriber, error) {
	creator, err := s.userRepo.SelectUserByUsername(ctx, nil, req.Creator)
	if err != nil {
		return nil, fmt.Errorf("failed to select creator: %w", err)
	}

	sub := &model.Subscriber{
		ID:     uuid.New(),
		UserID: creator.ID,
		Email:  req.Email,
		Name:   req.Name,
	}

	sub, err = s.newsletterRepo.UpsertSubscriber(ctx, nil, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert subscriber: %w", err)
	}

	return sub, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, req *model.UnsubscribeRequest) error {
	creator, err := s.userRepo.SelectUserByUsername(ctx, nil, req.Creator)
	if err != nil {
		return fmt.Errorf("failed to select creator: %w", err)
	}

	if err := s.newsletterRepo.DeactivateSubscriber(ctx, nil, creator.ID, req.Email); err != nil {
		return fmt.Errorf("failed to deactivate subscriber: %w", err)
	}

	return nil
}

func (s *NewsletterService) ListSubscribers(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Subscriber, error) {
	subs, err := s.newsletterRepo.SelectSubscribersByUser(ctx, nil, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to select subscribers: %w", err)
	}

	return subs, nil
}

func (s *NewsletterService) RemoveSubscriber(ctx context.Context, userID, subscriberID uuid.UUID) error {
	if err := s.newsletterRepo.DeleteSubscriber(ctx, nil, userID, subscriberID); err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	return nil
}

func (s *NewsletterService) GetStats(ctx context.Context, userID uuid.UUID) (*model.NewsletterStats, error) {
	stats, err := s.newsletterRepo.SelectNewsletterStats(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select stats: %w", err)
	}

	return stats, nil
}

// Send queues one newsletter issue. Delivery is handled by a downstream
// consumer of the newsletter-queued topic, this service only counts the
// audience and emits the event.
func (s *NewsletterService) Send(ctx context.Context, userID uuid.UUID, req *model.NewsletterSendRequest) (*model.NewsletterSendResult, error) {
	count, err := s.newsletterRepo.CountActiveSubscribers(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	queuedAt := time.Now().UTC()

	event := model.NewsletterQueuedEvent{
		UserID:      userID,
		Subject:     req.Subject,
		Subscribers: count,
		QueuedAt:    queuedAt,
	}

	if err := s.outboxRepo.InsertMessage(ctx, nil, model.TopicNewsletterQueued, event); err != nil {
		return nil, fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return &model.NewsletterSendResult{
		Queued:    count,
		Subject:   req.Subject,
		Timestamp: queuedAt,
	}, nil
}
