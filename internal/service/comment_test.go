package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type commentRepoStub struct {
	inserted *model.Comment
	byID     map[uuid.UUID]*model.Comment
	approved []model.Comment
	owner    uuid.UUID
	deleted  []uuid.UUID
}

func (s *commentRepoStub) InsertComment(_ context.Context, _ repository.RepoExtension, c *model.Comment) (*model.Comment, error) {
	s.inserted = c
	return c, nil
}

func (s *commentRepoStub) SelectCommentByID(_ context.Context, _ repository.RepoExtension, id uuid.UUID) (*model.Comment, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrCommentDoesNotExist
	}
	return c, nil
}

func (s *commentRepoStub) SelectApprovedByContent(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) ([]model.Comment, error) {
	return s.approved, nil
}

func (s *commentRepoStub) SelectCommentsForModeration(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ string) ([]model.Comment, error) {
	return nil, nil
}

func (s *commentRepoStub) SelectCommentOwner(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (uuid.UUID, error) {
	return s.owner, nil
}

func (s *commentRepoStub) UpdateCommentStatus(_ context.Context, _ repository.RepoExtension, id uuid.UUID, status string) (*model.Comment, error) {
	return &model.Comment{ID: id, Status: status}, nil
}

func (s *commentRepoStub) DeleteComment(_ context.Context, _ repository.RepoExtension, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *commentRepoStub) SelectCommentStats(_ context.Context, _ repository.RepoExtension, _ uuid.UUID) (*model.CommentStats, error) {
	return &model.CommentStats{}, nil
}

func newCommentService(content *model.Content) (*CommentService, *commentRepoStub) {
	comments := &commentRepoStub{byID: map[uuid.UUID]*model.Comment{}}
	contents := &contentRepoStub{content: content}

	return NewCommentService(comments, contents), comments
}

func TestSubmitStoresPendingComment(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, repo := newCommentService(content)

	comment, err := svc.Submit(context.Background(), &model.CommentCreateRequest{
		ContentID: content.ID.String(),
		Author:    "anonymous fan",
		Text:      "great read",
	})

	require.NoError(t, err)
	require.Equal(t, model.CommentStatusPending, comment.Status)
	require.Nil(t, comment.ParentID)
	require.Equal(t, repo.inserted, comment)
}

func TestSubmitRejectsUnpublishedContent(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusDraft}
	svc, _ := newCommentService(content)

	_, err := svc.Submit(context.Background(), &model.CommentCreateRequest{
		ContentID: content.ID.String(),
		Author:    "anonymous fan",
		Text:      "first",
	})

	require.ErrorIs(t, err, apperrors.ErrContentNotPublished)
}

func TestSubmitFlagsSpam(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, _ := newCommentService(content)

	for _, text := range []string{
		"check out https://spam.example",
		"CRYPTO GIVEAWAY inside",
	} {
		comment, err := svc.Submit(context.Background(), &model.CommentCreateRequest{
			ContentID: content.ID.String(),
			Author:    "bot",
			Text:      text,
		})

		require.NoError(t, err)
		require.Equal(t, model.CommentStatusSpam, comment.Status)
	}
}

func TestSubmitRejectsReplyAcrossContent(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, repo := newCommentService(content)

	parent := &model.Comment{ID: uuid.New(), ContentID: uuid.New()}
	repo.byID[parent.ID] = parent

	_, err := svc.Submit(context.Background(), &model.CommentCreateRequest{
		ContentID: content.ID.String(),
		ParentID:  parent.ID.String(),
		Author:    "anonymous fan",
		Text:      "reply",
	})

	require.ErrorIs(t, err, apperrors.ErrCommentDoesNotExist)
}

func TestGetThreadNestsReplies(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, repo := newCommentService(content)

	rootID := uuid.New()
	childID := uuid.New()
	otherRootID := uuid.New()

	repo.approved = []model.Comment{
		{ID: rootID, ContentID: content.ID, Text: "root"},
		{ID: childID, ContentID: content.ID, ParentID: &rootID, Text: "child"},
		{ID: uuid.New(), ContentID: content.ID, ParentID: &childID, Text: "grandchild"},
		{ID: otherRootID, ContentID: content.ID, Text: "another root"},
	}

	thread, err := svc.GetThread(context.Background(), content.ID)

	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, "root", thread[0].Text)
	require.Len(t, thread[0].Replies, 1)
	require.Equal(t, "child", thread[0].Replies[0].Text)
	require.Len(t, thread[0].Replies[0].Replies, 1)
	require.Equal(t, "grandchild", thread[0].Replies[0].Replies[0].Text)
	require.Empty(t, thread[1].Replies)
}

func TestModerateRequiresContentOwnership(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, repo := newCommentService(content)
	repo.owner = uuid.New()

	_, err := svc.Moderate(context.Background(), uuid.New(), uuid.New(), model.CommentStatusApproved)

	require.ErrorIs(t, err, apperrors.ErrCommentAccessDenied)
	require.Empty(t, repo.deleted)
}

func TestDeleteByOwner(t *testing.T) {
	content := &model.Content{ID: uuid.New(), Status: model.ContentStatusPublished}
	svc, repo := newCommentService(content)

	ownerID := uuid.New()
	commentID := uuid.New()
	repo.owner = ownerID

	require.NoError(t, svc.Delete(context.Background(), ownerID, commentID))
	require.Equal(t, []uuid.UUID{commentID}, repo.deleted)
}

func TestLooksLikeSpam(t *testing.T) {
	require.True(t, looksLikeSpam("visit http://x.y now"))
	require.True(t, looksLikeSpam("Best CASINO in town"))
	require.False(t, looksLikeSpam("loved the article, thanks"))
}
