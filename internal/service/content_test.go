package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type contentStoreStub struct {
	byID       map[uuid.UUID]*model.Content
	takenSlugs map[string]bool
	inserted   *model.Content
	published  []uuid.UUID
	deleted    []uuid.UUID
}

func newContentStoreStub() *contentStoreStub {
	return &contentStoreStub{
		byID:       map[uuid.UUID]*model.Content{},
		takenSlugs: map[string]bool{},
	}
}

func (s *contentStoreStub) Pool() *pgxpool.Pool { return nil }

func (s *contentStoreStub) InsertContent(_ context.Context, _ repository.RepoExtension, c *model.Content) (*model.Content, error) {
	s.inserted = c
	s.byID[c.ID] = c
	return c, nil
}

func (s *contentStoreStub) SelectContentByID(_ context.Context, _ repository.RepoExtension, id uuid.UUID) (*model.Content, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrContentDoesNotExist
	}
	return c, nil
}

func (s *contentStoreStub) SelectPublishedBySlug(_ context.Context, _ repository.RepoExtension, _, _ string) (*model.Content, error) {
	return nil, apperrors.ErrContentDoesNotExist
}

func (s *contentStoreStub) SelectContentByUser(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ string) ([]model.Content, error) {
	return nil, nil
}

func (s *contentStoreStub) UpdateContent(_ context.Context, _ repository.RepoExtension, id uuid.UUID, upd *model.ContentUpdateRequest) (*model.Content, error) {
	c := *s.byID[id]
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	s.byID[id] = &c
	return &c, nil
}

func (s *contentStoreStub) MarkPublished(_ context.Context, _ repository.RepoExtension, id uuid.UUID) (*model.Content, error) {
	c := *s.byID[id]
	c.Status = model.ContentStatusPublished
	s.byID[id] = &c
	s.published = append(s.published, id)
	return &c, nil
}

func (s *contentStoreStub) DeleteContent(_ context.Context, _ repository.RepoExtension, id uuid.UUID) error {
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *contentStoreStub) SlugExists(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, slug string) (bool, error) {
	return s.takenSlugs[slug], nil
}

type searchRepoStub struct {
	indexed []string
	removed []string
}

func (s *searchRepoStub) IndexContent(_ context.Context, doc *model.ContentDocument) error {
	s.indexed = append(s.indexed, doc.ID)
	return nil
}

func (s *searchRepoStub) RemoveContent(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *searchRepoStub) Search(_ context.Context, _, _ string, _ int) ([]model.ContentSearchHit, error) {
	return nil, nil
}

type outboxRepoStub struct {
	topics []string
}

func (s *outboxRepoStub) InsertMessage(_ context.Context, _ repository.RepoExtension, topic string, _ any) error {
	s.topics = append(s.topics, topic)
	return nil
}

type contentFixture struct {
	svc    *ContentService
	store  *contentStoreStub
	search *searchRepoStub
	outbox *outboxRepoStub
}

func newContentFixture() *contentFixture {
	store := newContentStoreStub()
	search := &searchRepoStub{}
	outbox := &outboxRepoStub{}

	return &contentFixture{
		svc:    NewContentService(zap.NewNop(), store, search, outbox),
		store:  store,
		search: search,
		outbox: outbox,
	}
}

func TestCreateDefaultsToDraft(t *testing.T) {
	f := newContentFixture()

	content, err := f.svc.Create(context.Background(), uuid.New(), &model.ContentCreateRequest{
		Type:  "POST",
		Title: "Hello World",
		Body:  json.RawMessage(`{}`),
	})

	require.NoError(t, err)
	require.Equal(t, model.ContentStatusDraft, content.Status)
	require.Equal(t, "hello-world", content.Slug)
	require.Nil(t, content.PublishedAt)
	require.Empty(t, f.search.indexed)
	require.Empty(t, f.outbox.topics)
}

func TestCreatePublishedIndexesAndEmitsEvent(t *testing.T) {
	f := newContentFixture()

	content, err := f.svc.Create(context.Background(), uuid.New(), &model.ContentCreateRequest{
		Type:   "POST",
		Title:  "Hello World",
		Body:   json.RawMessage(`{}`),
		Status: model.ContentStatusPublished,
	})

	require.NoError(t, err)
	require.NotNil(t, content.PublishedAt)
	require.Equal(t, []string{content.ID.String()}, f.search.indexed)
	require.Equal(t, []string{model.TopicContentPublished}, f.outbox.topics)
}

func TestCreateResolvesSlugCollisions(t *testing.T) {
	f := newContentFixture()
	f.store.takenSlugs["hello-world"] = true
	f.store.takenSlugs["hello-world-2"] = true

	content, err := f.svc.Create(context.Background(), uuid.New(), &model.ContentCreateRequest{
		Type:  "POST",
		Title: "Hello World",
		Body:  json.RawMessage(`{}`),
	})

	require.NoError(t, err)
	require.Equal(t, "hello-world-3", content.Slug)
}

func TestCreateFallsBackToRandomSlugSuffix(t *testing.T) {
	f := newContentFixture()
	f.store.takenSlugs["hello-world"] = true
	for i := 2; i <= maxSlugAttempts; i++ {
		f.store.takenSlugs[fmt.Sprintf("hello-world-%d", i)] = true
	}

	content, err := f.svc.Create(context.Background(), uuid.New(), &model.ContentCreateRequest{
		Type:  "POST",
		Title: "Hello World",
		Body:  json.RawMessage(`{}`),
	})

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(content.Slug, "hello-world-"))
	require.Len(t, content.Slug, len("hello-world-")+8)
}

func TestPublishTransitionsDraft(t *testing.T) {
	f := newContentFixture()

	userID := uuid.New()
	draft := &model.Content{ID: uuid.New(), UserID: userID, Title: "Draft", Slug: "draft", Status: model.ContentStatusDraft}
	f.store.byID[draft.ID] = draft

	published, err := f.svc.Publish(context.Background(), userID, draft.ID)

	require.NoError(t, err)
	require.Equal(t, model.ContentStatusPublished, published.Status)
	require.Equal(t, []string{draft.ID.String()}, f.search.indexed)
	require.Equal(t, []string{model.TopicContentPublished}, f.outbox.topics)
}

func TestPublishDeniesForeignContent(t *testing.T) {
	f := newContentFixture()

	draft := &model.Content{ID: uuid.New(), UserID: uuid.New(), Status: model.ContentStatusDraft}
	f.store.byID[draft.ID] = draft

	_, err := f.svc.Publish(context.Background(), uuid.New(), draft.ID)

	require.ErrorIs(t, err, apperrors.ErrContentAccessDenied)
	require.Empty(t, f.store.published)
}

func TestUpdateUnpublishRemovesFromIndex(t *testing.T) {
	f := newContentFixture()

	userID := uuid.New()
	content := &model.Content{ID: uuid.New(), UserID: userID, Status: model.ContentStatusPublished}
	f.store.byID[content.ID] = content

	draft := model.ContentStatusDraft
	updated, err := f.svc.Update(context.Background(), userID, content.ID, &model.ContentUpdateRequest{Status: &draft})

	require.NoError(t, err)
	require.Equal(t, model.ContentStatusDraft, updated.Status)
	require.Equal(t, []string{content.ID.String()}, f.search.removed)
}

func TestDeleteRemovesFromIndex(t *testing.T) {
	f := newContentFixture()

	userID := uuid.New()
	content := &model.Content{ID: uuid.New(), UserID: userID, Status: model.ContentStatusPublished}
	f.store.byID[content.ID] = content

	require.NoError(t, f.svc.Delete(context.Background(), userID, content.ID))
	require.Equal(t, []uuid.UUID{content.ID}, f.store.deleted)
	require.Equal(t, []string{content.ID.String()}, f.search.removed)
}
