package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

const maxSlugAttempts = 20

type ContentRepository interface {
	Pool() *pgxpool.Pool

	InsertContent(ctx context.Context, ext repository.RepoExtension, c *model.Content) (*model.Content, error)
	SelectContentByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Content, error)
	SelectPublishedBySlug(ctx context.Context, ext repository.RepoExtension, username, slug string) (*model.Content, error)
	SelectContentByUser(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, status string) ([]model.Content, error)
	UpdateContent(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, upd *model.ContentUpdateRequest) (*model.Content, error)
	MarkPublished(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Content, error)
	DeleteContent(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
	SlugExists(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, slug string) (bool, error)
}

type ContentSearchRepository interface {
	IndexContent(ctx context.Context, doc *model.ContentDocument) error
	RemoveContent(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, size int) ([]model.ContentSearchHit, error)
}

type ContentOutboxRepository interface {
	InsertMessage(ctx context.Context, ext repository.RepoExtension, topic string, event any) error
}

type ContentService struct {
	log         *zap.Logger
	contentRepo ContentRepository
	searchRepo  ContentSearchRepository
	outboxRepo  ContentOutboxRepository
}

func NewContentService(
	log *zap.Logger,
	contentRepo ContentRepository,
	searchRepo ContentSearchRepository,
	outboxRepo ContentOutboxRepository,
) *ContentService {
	return &ContentService{
		log:         log,
		contentRepo: contentRepo,
		searchRepo:  searchRepo,
		outboxRepo:  outboxRepo,
	}
}

func (s *ContentService) Create(ctx context.Context, userID uuid.UUID, req *model.ContentCreateRequest) (*model.Content, error) {
	status := req.Status
	if status == "" {
		status = model.ContentStatusDraft
	}

	uniqueSlug, err := s.generateSlug(ctx, userID, req.Title)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    req.Type,
		Title:   req.Title,
		Slug:    uniqueSlug,
		Body:    req.Body,
		Excerpt: req.Excerpt,
		Status:  status,
	}

	if status == model.ContentStatusPublished {
		now := time.Now().UTC()
		content.PublishedAt = &now
	}

	content, err = s.contentRepo.InsertContent(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	if content.Status == model.ContentStatusPublished {
		s.afterPublish(ctx, content)
	}

	return content, nil
}

func (s *ContentService) Get(ctx context.Context, userID, contentID uuid.UUID) (*model.Content, error) {
	content, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	if content.UserID != userID {
		return nil, apperrors.ErrContentAccessDenied
	}

	return content, nil
}

func (s *ContentService) GetPublic(ctx context.Context, username, contentSlug string) (*model.Content, error) {
	content, err := s.contentRepo.SelectPublishedBySlug(ctx, nil, username, contentSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	return content, nil
}

func (s *ContentService) List(ctx context.Context, userID uuid.UUID, status string) ([]model.Content, error) {
	items, err := s.contentRepo.SelectContentByUser(ctx, nil, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	return items, nil
}

func (s *ContentService) Update(ctx context.Context, userID, contentID uuid.UUID, upd *model.ContentUpdateRequest) (*model.Content, error) {
	current, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	if current.UserID != userID {
		return nil, apperrors.ErrContentAccessDenied
	}

	content, err := s.contentRepo.UpdateContent(ctx, nil, contentID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	switch {
	case current.Status != model.ContentStatusPublished && content.Status == model.ContentStatusPublished:
		content, err = s.contentRepo.MarkPublished(ctx, nil, contentID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark published: %w", err)
		}

		s.afterPublish(ctx, content)
	case current.Status == model.ContentStatusPublished && content.Status != model.ContentStatusPublished:
		s.removeFromIndex(ctx, content.ID)
	case content.Status == model.ContentStatusPublished:
		// Still published, keep the index fresh.
		s.indexContent(ctx, content)
	}

	return content, nil
}

// Publish is the explicit draft-to-published transition.
func (s *ContentService) Publish(ctx context.Context, userID, contentID uuid.UUID) (*model.Content, error) {
	current, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	if current.UserID != userID {
		return nil, apperrors.ErrContentAccessDenied
	}

	content, err := s.contentRepo.MarkPublished(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark published: %w", err)
	}

	if current.Status != model.ContentStatusPublished {
		s.afterPublish(ctx, content)
	}

	return content, nil
}

func (s *ContentService) Delete(ctx context.Context, userID, contentID uuid.UUID) error {
	current, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return fmt.Errorf("failed to select content: %w", err)
	}

	if current.UserID != userID {
		return apperrors.ErrContentAccessDenied
	}

	if err := s.contentRepo.DeleteContent(ctx, nil, contentID); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	s.removeFromIndex(ctx, contentID)

	return nil
}

func (s *ContentService) Search(ctx context.Context, userID uuid.UUID, query string, size int) ([]model.ContentSearchHit, error) {
	hits, err := s.searchRepo.Search(ctx, userID.String(), query, size)
	if err != nil {
		return nil, fmt.Errorf("failed to search content: %w", err)
	}

	return hits, nil
}

// afterPublish mirrors the item into the search index and drops a
// content-published event into the outbox. Both are best effort, the
// relational row already carries the new status.
func (s *ContentService) afterPublish(ctx context.Context, content *model.Content) {
	s.indexContent(ctx, content)

	publishedAt := time.Now().UTC()
	if content.PublishedAt != nil {
		publishedAt = *content.PublishedAt
	}

	event := model.ContentPublishedEvent{
		ContentID:   content.ID,
		UserID:      content.UserID,
		Title:       content.Title,
		Slug:        content.Slug,
		PublishedAt: publishedAt,
	}

	if err := s.outboxRepo.InsertMessage(ctx, nil, model.TopicContentPublished, event); err != nil {
		s.log.Error("failed to insert outbox message",
			zap.String("content_id", content.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ContentService) indexContent(ctx context.Context, content *model.Content) {
	doc := &model.ContentDocument{
		ID:          content.ID.String(),
		UserID:      content.UserID.String(),
		Title:       content.Title,
		Slug:        content.Slug,
		Excerpt:     content.Excerpt,
		Body:        string(content.Body),
		PublishedAt: content.PublishedAt,
	}

	if err := s.searchRepo.IndexContent(ctx, doc); err != nil {
		s.log.Error("failed to index content",
			zap.String("content_id", content.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ContentService) removeFromIndex(ctx context.Context, contentID uuid.UUID) {
	if err := s.searchRepo.RemoveContent(ctx, contentID.String()); err != nil {
		s.log.Error("failed to remove content from index",
			zap.String("content_id", contentID.String()),
			zap.Error(err),
		)
	}
}

func (s *ContentService) generateSlug(ctx context.Context, userID uuid.UUID, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = uuid.New().String()[:8]
	}

	candidate := base

	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.contentRepo.SlugExists(ctx, nil, userID, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}

		if !exists {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8]), nil
}
