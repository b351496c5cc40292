package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type CommentService interface {
	Submit(ctx context.Context, req *model.CommentCreateRequest) (*model.Comment, error)
	GetThread(ctx context.Context, contentID uuid.UUID) ([]model.Comment, error)
	ListForModeration(ctx context.Context, ownerID uuid.UUID, status string) ([]model.Comment, error)
	Moderate(ctx context.Context, ownerID, commentID uuid.UUID, status string) (*model.Comment, error)
	Delete(ctx context.Context, ownerID, commentID uuid.UUID) error
	GetStats(ctx context.Context, ownerID uuid.UUID) (*model.CommentStats, error)
}

type CommentHandler struct {
	BaseHandler

	svc CommentService
}

func NewCommentHandler(svc CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Submit
// @Summary Submit a comment.
// @Description Public endpoint, the comment waits for moderation.
// @Tags Comments
// @Accept json
// @Produce json
// @Param comment body model.CommentCreateRequest true "Comment payload"
// @Success 201 {object} ResponseWithData{data=model.Comment} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Failure 409 {object} ResponseWithMessage "Content is not published"
// @Router /comments [post]
func (h *CommentHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	comment, err := h.svc.Submit(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrContentDoesNotExist), errors.Is(err, apperrors.ErrCommentDoesNotExist):
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		case errors.Is(err, apperrors.ErrContentNotPublished):
			c.JSON(http.StatusConflict, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		}

		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   comment,
	})
}

// Thread
// @Summary Approved comments of one content item.
// @Description Public endpoint returning the nested reply tree.
// @Tags Comments
// @Produce json
// @Param content_id path string true "Content ID"
// @Success 200 {object} ResponseWithData{data=[]model.Comment} "Success"
// @Router /comments/thread/{content_id} [get]
func (h *CommentHandler) Thread(c *gin.Context) {
	ctx := c.Request.Context()

	var params model.ContentIDPathParam
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	contentID, err := uuid.Parse(params.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	thread, err := h.svc.GetThread(ctx, contentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   thread,
	})
}

// ListForModeration
// @Summary Comments on the caller's content.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} ResponseWithData{data=[]model.Comment} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /comments [get]
func (h *CommentHandler) ListForModeration(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	comments, err := h.svc.ListForModeration(ctx, userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   comments,
	})
}

type moderateRequest struct {
	Status string `binding:"required,oneof=APPROVED REJECTED SPAM PENDING" json:"status"`
} // @Name ModerateRequest

// Moderate
// @Summary Change a comment's moderation status.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "Comment ID"
// @Param body body moderateRequest true "New status"
// @Success 200 {object} ResponseWithData{data=model.Comment} "Success"
// @Failure 403 {object} ResponseWithMessage "Comment on another user's content"
// @Failure 404 {object} ResponseWithMessage "Comment does not exist"
// @Router /comments/{comment_id} [patch]
func (h *CommentHandler) Moderate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	commentID, ok := h.commentIDParam(c)
	if !ok {
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	comment, err := h.svc.Moderate(ctx, userID, commentID, req.Status)
	if err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   comment,
	})
}

// Delete
// @Summary Delete a comment on own content.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "Comment ID"
// @Success 200 {object} ResponseWithMessage "Deleted"
// @Failure 403 {object} ResponseWithMessage "Comment on another user's content"
// @Failure 404 {object} ResponseWithMessage "Comment does not exist"
// @Router /comments/{comment_id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	commentID, ok := h.commentIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, userID, commentID); err != nil {
		h.writeCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Comment deleted",
	})
}

// Stats
// @Summary Moderation counters.
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.CommentStats} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /comments/stats [get]
func (h *CommentHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	stats, err := h.svc.GetStats(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   stats,
	})
}

func (h *CommentHandler) commentIDParam(c *gin.Context) (uuid.UUID, bool) {
	var params model.CommentIDPathParam
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return uuid.Nil, false
	}

	id, err := uuid.Parse(params.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return uuid.Nil, false
	}

	return id, true
}

func (h *CommentHandler) writeCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCommentDoesNotExist):
		c.JSON(http.StatusNotFound, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
	case errors.Is(err, apperrors.ErrCommentAccessDenied):
		c.JSON(http.StatusForbidden, ResponseWithMessage{
			Status:  StatusForbidden,
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
	}
}
