package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type queueRepoStub struct {
	claim         bool
	claimCalls    int
	inserted      *model.QueueItem
	byID          map[uuid.UUID]*model.QueueItem
	due           []model.QueueItem
	deleteErr     error
	outcomeCalled bool
	outcomeStatus string
	outcomeErrMsg string
}

func (s *queueRepoStub) Pool() *pgxpool.Pool { return nil }

func (s *queueRepoStub) InsertItem(_ context.Context, _ repository.RepoExtension, item *model.QueueItem) (*model.QueueItem, error) {
	item.CreatedAt = time.Now().UTC()
	s.inserted = item
	return item, nil
}

func (s *queueRepoStub) SelectItemByID(_ context.Context, _ repository.RepoExtension, id uuid.UUID) (*model.QueueItem, error) {
	item, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrQueueItemDoesNotExist
	}
	return item, nil
}

func (s *queueRepoStub) SelectQueueByUser(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) ([]model.QueueItem, error) {
	return nil, nil
}

func (s *queueRepoStub) ClaimPending(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (bool, error) {
	s.claimCalls++
	return s.claim, nil
}

func (s *queueRepoStub) UpdateOutcome(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, status, errMsg string, _ time.Time) error {
	s.outcomeCalled = true
	s.outcomeStatus = status
	s.outcomeErrMsg = errMsg
	return nil
}

func (s *queueRepoStub) DeleteIfPending(_ context.Context, _ repository.RepoExtension, _, _ uuid.UUID) error {
	return s.deleteErr
}

func (s *queueRepoStub) SelectDuePending(_ context.Context, _ repository.RepoExtension, _ time.Time, _ int) ([]model.QueueItem, error) {
	return s.due, nil
}

type accountRepoStub struct {
	account *model.SocialAccount
	err     error
}

func (s *accountRepoStub) SelectActiveAccount(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ model.Platform) (*model.SocialAccount, error) {
	return s.account, s.err
}

type postRepoStub struct {
	posts []*model.SocialPost
	err   error
}

func (s *postRepoStub) InsertPost(_ context.Context, _ repository.RepoExtension, p *model.SocialPost) (*model.SocialPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.posts = append(s.posts, p)
	return p, nil
}

type contentRepoStub struct {
	content *model.Content
	err     error
}

func (s *contentRepoStub) SelectContentByID(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (*model.Content, error) {
	return s.content, s.err
}

// plainVault keeps token material as-is, enough for flow tests.
type plainVault struct{}

func (plainVault) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (plainVault) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

type publisherStub struct {
	post     *PlatformPost
	err      error
	failOnce error
	gotText  string
	calls    int
}

func (s *publisherStub) Publish(_ context.Context, _ *model.SocialAccount, text string) (*PlatformPost, error) {
	s.calls++
	s.gotText = text
	if s.failOnce != nil && s.calls == 1 {
		return nil, s.failOnce
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

type publishFixture struct {
	svc       *PublishService
	queue     *queueRepoStub
	accounts  *accountRepoStub
	posts     *postRepoStub
	contents  *contentRepoStub
	publisher *publisherStub
	userID    uuid.UUID
	content   *model.Content
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()

	userID := uuid.New()
	content := &model.Content{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   "Launch day",
		Excerpt: "It is finally here",
	}

	queue := &queueRepoStub{claim: true, byID: map[uuid.UUID]*model.QueueItem{}}
	accounts := &accountRepoStub{account: &model.SocialAccount{
		ID:          uuid.New(),
		UserID:      userID,
		Platform:    model.PlatformTwitter,
		Username:    "stella",
		AccessToken: "token",
		IsActive:    true,
	}}
	posts := &postRepoStub{}
	contents := &contentRepoStub{content: content}
	publisher := &publisherStub{post: &PlatformPost{ID: "42", URL: "https://twitter.com/stella/status/42"}}

	svc := NewPublishService(
		zap.NewNop(),
		queue,
		accounts,
		posts,
		contents,
		plainVault{},
		map[model.Platform]PlatformPublisher{model.PlatformTwitter: publisher},
		time.Second,
	)

	return &publishFixture{
		svc:       svc,
		queue:     queue,
		accounts:  accounts,
		posts:     posts,
		contents:  contents,
		publisher: publisher,
		userID:    userID,
		content:   content,
	}
}

func TestEnqueueRejectsUnknownPlatform(t *testing.T) {
	f := newPublishFixture(t)

	_, err := f.svc.Enqueue(context.Background(), f.userID, &model.PublishRequest{
		ContentID: f.content.ID.String(),
		Platforms: []model.Platform{"MYSPACE"},
	})

	require.ErrorIs(t, err, apperrors.ErrUnsupportedPlatform)
	require.Nil(t, f.queue.inserted)
}

func TestEnqueueRejectsEmptyPlatforms(t *testing.T) {
	f := newPublishFixture(t)

	_, err := f.svc.Enqueue(context.Background(), f.userID, &model.PublishRequest{
		ContentID: f.content.ID.String(),
	})

	require.ErrorIs(t, err, apperrors.ErrNoPlatforms)
}

func TestEnqueueDeniesForeignContent(t *testing.T) {
	f := newPublishFixture(t)

	_, err := f.svc.Enqueue(context.Background(), uuid.New(), &model.PublishRequest{
		ContentID: f.content.ID.String(),
		Platforms: []model.Platform{model.PlatformTwitter},
	})

	require.ErrorIs(t, err, apperrors.ErrContentAccessDenied)
}

func TestEnqueueImmediatePublishesAndReturnsSnapshot(t *testing.T) {
	f := newPublishFixture(t)

	resp, err := f.svc.Enqueue(context.Background(), f.userID, &model.PublishRequest{
		ContentID: f.content.ID.String(),
		Platforms: []model.Platform{model.PlatformTwitter},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	require.Equal(t, []string{"TWITTER: https://twitter.com/stella/status/42"}, resp.Result.Successes)
	require.Empty(t, resp.Result.Errors)

	// The returned item is the pre-processing snapshot.
	require.Equal(t, model.QueueStatusPending, resp.Item.Status)

	require.Equal(t, "Launch day\n\nIt is finally here", f.publisher.gotText)
	require.Len(t, f.posts.posts, 1)
	require.Equal(t, model.QueueStatusCompleted, f.queue.outcomeStatus)
	require.Empty(t, f.queue.outcomeErrMsg)
}

func TestEnqueueScheduledWaitsForScheduler(t *testing.T) {
	f := newPublishFixture(t)

	at := time.Now().Add(time.Hour).UTC()
	resp, err := f.svc.Enqueue(context.Background(), f.userID, &model.PublishRequest{
		ContentID:    f.content.ID.String(),
		Platforms:    []model.Platform{model.PlatformTwitter},
		ScheduledFor: &at,
	})

	require.NoError(t, err)
	require.Nil(t, resp.Result)
	require.Zero(t, f.queue.claimCalls)
	require.Zero(t, f.publisher.calls)
}

func TestProcessSkipsAlreadyClaimedItem(t *testing.T) {
	f := newPublishFixture(t)
	f.queue.claim = false

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: f.content.ID,
		Platforms: []model.Platform{model.PlatformTwitter},
		Status:    model.QueueStatusProcessing,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Nil(t, result)
	require.False(t, f.queue.outcomeCalled)
	require.Zero(t, f.publisher.calls)
}

func TestProcessFailsWhenEveryPlatformFails(t *testing.T) {
	f := newPublishFixture(t)
	f.publisher.err = errors.New("rate limited")

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: f.content.ID,
		Platforms: []model.Platform{model.PlatformTwitter},
		Status:    model.QueueStatusPending,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Empty(t, result.Successes)
	require.Equal(t, []string{"TWITTER: rate limited"}, result.Errors)
	require.Equal(t, model.QueueStatusFailed, f.queue.outcomeStatus)
	require.Equal(t, "TWITTER: rate limited", f.queue.outcomeErrMsg)
}

func TestProcessMixedOutcomeCompletes(t *testing.T) {
	f := newPublishFixture(t)
	f.publisher.failOnce = errors.New("rate limited")

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: f.content.ID,
		Platforms: []model.Platform{model.PlatformTwitter, model.PlatformTwitter},
		Status:    model.QueueStatusPending,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Equal(t, []string{"TWITTER: rate limited"}, result.Errors)
	require.Equal(t, []string{"TWITTER: https://twitter.com/stella/status/42"}, result.Successes)

	// One success is enough for the item to complete; the failure stays
	// recorded in the error column.
	require.Equal(t, model.QueueStatusCompleted, f.queue.outcomeStatus)
	require.Equal(t, "TWITTER: rate limited", f.queue.outcomeErrMsg)
}

func TestProcessReportsDisconnectedAccount(t *testing.T) {
	f := newPublishFixture(t)
	f.accounts.account = nil
	f.accounts.err = apperrors.ErrAccountNotConnected

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: f.content.ID,
		Platforms: []model.Platform{model.PlatformTwitter},
		Status:    model.QueueStatusPending,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Equal(t, []string{"TWITTER: account not connected"}, result.Errors)
	require.Equal(t, model.QueueStatusFailed, f.queue.outcomeStatus)
}

func TestProcessCountsInsertFailureAsPlatformFailure(t *testing.T) {
	f := newPublishFixture(t)
	f.posts.err = errors.New("connection reset")

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: f.content.ID,
		Platforms: []model.Platform{model.PlatformTwitter},
		Status:    model.QueueStatusPending,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Empty(t, result.Successes)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "TWITTER: failed to record post")
}

func TestProcessFailsAllPlatformsWhenContentVanished(t *testing.T) {
	f := newPublishFixture(t)
	f.contents.content = nil
	f.contents.err = apperrors.ErrContentDoesNotExist

	itemID := uuid.New()
	f.queue.byID[itemID] = &model.QueueItem{
		ID:        itemID,
		UserID:    f.userID,
		ContentID: uuid.New(),
		Platforms: []model.Platform{model.PlatformTwitter},
		Status:    model.QueueStatusPending,
	}

	result, err := f.svc.ProcessItem(context.Background(), itemID)

	require.NoError(t, err)
	require.Equal(t, []string{"TWITTER: content not found"}, result.Errors)
	require.Equal(t, model.QueueStatusFailed, f.queue.outcomeStatus)
	require.Zero(t, f.publisher.calls)
}

func TestProcessDueCountsOnlyProcessedItems(t *testing.T) {
	f := newPublishFixture(t)

	at := time.Now().Add(-time.Minute).UTC()
	f.queue.due = []model.QueueItem{
		{ID: uuid.New(), UserID: f.userID, ContentID: f.content.ID, Platforms: []model.Platform{model.PlatformTwitter}, ScheduledFor: &at},
		{ID: uuid.New(), UserID: f.userID, ContentID: f.content.ID, Platforms: []model.Platform{model.PlatformTwitter}, ScheduledFor: &at},
	}

	processed, err := f.svc.ProcessDue(context.Background(), 10)

	require.NoError(t, err)
	require.Equal(t, 2, processed)
	require.Equal(t, 2, f.publisher.calls)
}

func TestCancelPropagatesRepositoryError(t *testing.T) {
	f := newPublishFixture(t)
	f.queue.deleteErr = apperrors.ErrQueueItemNotPending

	err := f.svc.Cancel(context.Background(), f.userID, uuid.New())

	require.ErrorIs(t, err, apperrors.ErrQueueItemNotPending)
}

func TestBuildPostText(t *testing.T) {
	withExcerpt := &model.Content{Title: "Hello", Excerpt: "World"}
	require.Equal(t, "Hello\n\nWorld", buildPostText(withExcerpt))

	titleOnly := &model.Content{Title: "Hello"}
	require.Equal(t, "Hello", buildPostText(titleOnly))
}
