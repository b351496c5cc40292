package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type newsletterRepoStub struct {
	subscribers map[string]*model.Subscriber
	deactivated []string
	deleted     []uuid.UUID
	active      int
}

func newNewsletterRepoStub() *newsletterRepoStub {
	return &newsletterRepoStub{subscribers: map[string]*model.Subscriber{}}
}

func (s *newsletterRepoStub) Pool() *pgxpool.Pool { return nil }

func (s *newsletterRepoStub) UpsertSubscriber(_ context.Context, _ repository.RepoExtension, sub *model.Subscriber) (*model.Subscriber, error) {
	if existing, ok := s.subscribers[sub.Email]; ok {
		existing.IsActive = true
		return existing, nil
	}

	sub.IsActive = true
	s.subscribers[sub.Email] = sub
	return sub, nil
}

func (s *newsletterRepoStub) DeactivateSubscriber(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, email string) error {
	sub, ok := s.subscribers[email]
	if !ok {
		return apperrors.ErrSubscriberDoesNotExist
	}

	sub.IsActive = false
	s.deactivated = append(s.deactivated, email)
	return nil
}

func (s *newsletterRepoStub) SelectSubscribersByUser(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ bool) ([]model.Subscriber, error) {
	return nil, nil
}

func (s *newsletterRepoStub) DeleteSubscriber(_ context.Context, _ repository.RepoExtension, _, subscriberID uuid.UUID) error {
	s.deleted = append(s.deleted, subscriberID)
	return nil
}

func (s *newsletterRepoStub) SelectNewsletterStats(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (*model.NewsletterStats, error) {
	return &model.NewsletterStats{}, nil
}

func (s *newsletterRepoStub) CountActiveSubscribers(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (int, error) {
	return s.active, nil
}

type newsletterFixture struct {
	svc     *NewsletterService
	repo    *newsletterRepoStub
	outbox  *outboxRepoStub
	creator *model.User
}

func newNewsletterFixture() *newsletterFixture {
	creator := &model.User{ID: uuid.New(), Username: "stella"}
	repo := newNewsletterRepoStub()
	outbox := &outboxRepoStub{}

	return &newsletterFixture{
		svc:     NewNewsletterService(repo, &analyticsUserRepoStub{user: creator}, outbox),
		repo:    repo,
		outbox:  outbox,
		creator: creator,
	}
}

func TestSubscribeReactivatesExistingRow(t *testing.T) {
	f := newNewsletterFixture()

	first, err := f.svc.Subscribe(context.Background(), &model.SubscribeRequest{
		Creator: "stella",
		Email:   "fan@example.com",
	})
	require.NoError(t, err)
	require.True(t, first.IsActive)
	require.Equal(t, f.creator.ID, first.UserID)

	require.NoError(t, f.svc.Unsubscribe(context.Background(), &model.UnsubscribeRequest{
		Creator: "stella",
		Email:   "fan@example.com",
	}))
	require.False(t, f.repo.subscribers["fan@example.com"].IsActive)

	again, err := f.svc.Subscribe(context.Background(), &model.SubscribeRequest{
		Creator: "stella",
		Email:   "fan@example.com",
	})
	require.NoError(t, err)
	require.True(t, again.IsActive)
	require.Equal(t, first.ID, again.ID)
	require.Len(t, f.repo.subscribers, 1)
}

func TestSubscribeRejectsUnknownCreator(t *testing.T) {
	repo := newNewsletterRepoStub()
	svc := NewNewsletterService(repo, &analyticsUserRepoStub{}, &outboxRepoStub{})

	_, err := svc.Subscribe(context.Background(), &model.SubscribeRequest{
		Creator: "nobody",
		Email:   "fan@example.com",
	})

	require.ErrorIs(t, err, apperrors.ErrUserDoesNotExist)
	require.Empty(t, repo.subscribers)
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	f := newNewsletterFixture()

	err := f.svc.Unsubscribe(context.Background(), &model.UnsubscribeRequest{
		Creator: "stella",
		Email:   "stranger@example.com",
	})

	require.ErrorIs(t, err, apperrors.ErrSubscriberDoesNotExist)
}

func TestSendCountsAudienceAndEmitsEvent(t *testing.T) {
	f := newNewsletterFixture()
	f.repo.active = 7

	result, err := f.svc.Send(context.Background(), f.creator.ID, &model.NewsletterSendRequest{
		Subject: "August update",
		Content: "hello everyone",
	})

	require.NoError(t, err)
	require.Equal(t, 7, result.Queued)
	require.Equal(t, "August update", result.Subject)
	require.Equal(t, []string{model.TopicNewsletterQueued}, f.outbox.topics)
}
