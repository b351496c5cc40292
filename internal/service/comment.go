package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

// spamMarkers is a tiny heuristic; anything more serious belongs in a
// dedicated moderation pipeline.
var spamMarkers = []string{"http://", "https://", "viagra", "casino", "crypto giveaway"}

type CommentRepository interface {
	InsertComment(ctx context.Context, ext repository.RepoExtension, c *model.Comment) (*model.Comment, error)
	SelectCommentByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Comment, error)
	SelectApprovedByContent(ctx context.Context, ext repository.RepoExtension, contentID uuid.UUID) ([]model.Comment, error)
	SelectCommentsForModeration(ctx context.Context, ext repository.RepoExtension, ownerID uuid.UUID, status string) ([]model.Comment, error)
	SelectCommentOwner(ctx context.Context, ext repository.RepoExtension, commentID uuid.UUID) (uuid.UUID, error)
	UpdateCommentStatus(ctx context.Context, ext repository.RepoExtension, id uuid.UUID, status string) (*model.Comment, error)
	DeleteComment(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) error
	SelectCommentStats(ctx context.Context, ext repository.RepoExtension, ownerID uuid.UUID) (*model.CommentStats, error)
}

type CommentContentRepository interface {
	SelectContentByID(ctx context.Context, ext repository.RepoExtension, id uuid.UUID) (*model.Content, error)
}

type CommentService struct {
	commentRepo CommentRepository
	contentRepo CommentContentRepository
}

func NewCommentService(commentRepo CommentRepository, contentRepo CommentContentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
	}
}

// Submit accepts a public comment on published content. Everything lands in
// PENDING except obvious spam, which is flagged straight away.
func (s *CommentService) Submit(ctx context.Context, req *model.CommentCreateRequest) (*model.Comment, error) {
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content id: %w", err)
	}

	content, err := s.contentRepo.SelectContentByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}

	if content.Status != model.ContentStatusPublished {
		return nil, apperrors.ErrContentNotPublished
	}

	var parentID *uuid.UUID

	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent id: %w", err)
		}

		parent, err := s.commentRepo.SelectCommentByID(ctx, nil, pid)
		if err != nil {
			return nil, fmt.Errorf("failed to select parent comment: %w", err)
		}

		if parent.ContentID != contentID {
			return nil, apperrors.ErrCommentDoesNotExist
		}

		parentID = &pid
	}

	status := model.CommentStatusPending
	if looksLikeSpam(req.Text) {
		status = model.CommentStatusSpam
	}

	comment := &model.Comment{
		ID:        uuid.New(),
		ContentID: contentID,
		ParentID:  parentID,
		Author:    req.Author,
		Email:     req.Email,
		Text:      req.Text,
		Status:    status,
	}

	comment, err = s.commentRepo.InsertComment(ctx, nil, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return comment, nil
}

// GetThread returns approved comments as a nested reply tree.
func (s *CommentService) GetThread(ctx context.Context, contentID uuid.UUID) ([]model.Comment, error) {
	flat, err := s.commentRepo.SelectApprovedByContent(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}

	return buildThread(flat), nil
}

func (s *CommentService) ListForModeration(ctx context.Context, ownerID uuid.UUID, status string) ([]model.Comment, error) {
	comments, err := s.commentRepo.SelectCommentsForModeration(ctx, nil, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}

	return comments, nil
}

func (s *CommentService) Moderate(ctx context.Context, ownerID, commentID uuid.UUID, status string) (*model.Comment, error) {
	if err := s.authorize(ctx, ownerID, commentID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.UpdateCommentStatus(ctx, nil, commentID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, ownerID, commentID uuid.UUID) error {
	if err := s.authorize(ctx, ownerID, commentID); err != nil {
		return err
	}

	if err := s.commentRepo.DeleteComment(ctx, nil, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) GetStats(ctx context.Context, ownerID uuid.UUID) (*model.CommentStats, error) {
	stats, err := s.commentRepo.SelectCommentStats(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select stats: %w", err)
	}

	return stats, nil
}

func (s *CommentService) authorize(ctx context.Context, ownerID, commentID uuid.UUID) error {
	contentOwner, err := s.commentRepo.SelectCommentOwner(ctx, nil, commentID)
	if err != nil {
		return fmt.Errorf("failed to select comment owner: %w", err)
	}

	if contentOwner != ownerID {
		return apperrors.ErrCommentAccessDenied
	}

	return nil
}

func buildThread(flat []model.Comment) []model.Comment {
	children := make(map[uuid.UUID][]model.Comment)

	for _, c := range flat {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var attach func(c model.Comment) model.Comment

	attach = func(c model.Comment) model.Comment {
		for _, child := range children[c.ID] {
			c.Replies = append(c.Replies, attach(child))
		}

		return c
	}

	roots := make([]model.Comment, 0)

	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, attach(c))
		}
	}

	return roots
}

func looksLikeSpam(text string) bool {
	lower := strings.ToLower(text)

	for _, marker := range spamMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
