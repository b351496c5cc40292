package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

const defaultSearchSize = 20

type ContentService interface {
	Create(ctx context.Context, userID uuid.UUID, req *model.ContentCreateRequest) (*model.Content, error)
	Get(ctx context.Context, userID, contentID uuid.UUID) (*model.Content, error)
	GetPublic(ctx context.Context, username, contentSlug string) (*model.Content, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]model.Content, error)
	Update(ctx context.Context, userID, contentID uuid.UUID, upd *model.ContentUpdateRequest) (*model.Content, error)
	Publish(ctx context.Context, userID, contentID uuid.UUID) (*model.Content, error)
	Delete(ctx context.Context, userID, contentID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query string, size int) ([]model.ContentSearchHit, error)
}

type ContentHandler struct {
	BaseHandler

	svc ContentService
}

func NewContentHandler(svc ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Create
// @Summary Create a content item.
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param content body model.ContentCreateRequest true "Content payload"
// @Success 201 {object} ResponseWithData{data=model.Content} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.ContentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	content, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   content,
	})
}

// List
// @Summary List own content.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (DRAFT or PUBLISHED)"
// @Success 200 {object} ResponseWithData{data=[]model.Content} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /content [get]
func (h *ContentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	items, err := h.svc.List(ctx, userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   items,
	})
}

// Get
// @Summary Fetch one of the caller's content items.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param content_id path string true "Content ID"
// @Success 200 {object} ResponseWithData{data=model.Content} "Success"
// @Failure 403 {object} ResponseWithMessage "Belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /content/{content_id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	contentID, ok := h.contentIDParam(c)
	if !ok {
		return
	}

	content, err := h.svc.Get(ctx, userID, contentID)
	if err != nil {
		h.writeContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   content,
	})
}

// Update
// @Summary Update a content item.
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param content_id path string true "Content ID"
// @Param content body model.ContentUpdateRequest true "Fields to change"
// @Success 200 {object} ResponseWithData{data=model.Content} "Success"
// @Failure 403 {object} ResponseWithMessage "Belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /content/{content_id} [patch]
func (h *ContentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	contentID, ok := h.contentIDParam(c)
	if !ok {
		return
	}

	var req model.ContentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	content, err := h.svc.Update(ctx, userID, contentID, &req)
	if err != nil {
		h.writeContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   content,
	})
}

// Publish
// @Summary Publish a draft.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param content_id path string true "Content ID"
// @Success 200 {object} ResponseWithData{data=model.Content} "Success"
// @Failure 403 {object} ResponseWithMessage "Belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /content/{content_id}/publish [post]
func (h *ContentHandler) Publish(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	contentID, ok := h.contentIDParam(c)
	if !ok {
		return
	}

	content, err := h.svc.Publish(ctx, userID, contentID)
	if err != nil {
		h.writeContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   content,
	})
}

// Delete
// @Summary Delete a content item.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param content_id path string true "Content ID"
// @Success 200 {object} ResponseWithMessage "Deleted"
// @Failure 403 {object} ResponseWithMessage "Belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /content/{content_id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	contentID, ok := h.contentIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, userID, contentID); err != nil {
		h.writeContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Content deleted",
	})
}

// Search
// @Summary Full-text search over own content.
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param size query int false "Max results (default 20)"
// @Success 200 {object} ResponseWithData{data=[]model.ContentSearchHit} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /content/search [get]
func (h *ContentHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "query parameter q is required",
		})

		return
	}

	size := defaultSearchSize
	if raw := c.Query("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}

	hits, err := h.svc.Search(ctx, userID, query, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   hits,
	})
}

// GetPublic
// @Summary Public reading view.
// @Description Fetch a published item by creator username and slug, no auth needed.
// @Tags Content
// @Produce json
// @Param username path string true "Creator username"
// @Param slug path string true "Content slug"
// @Success 200 {object} ResponseWithData{data=model.Content} "Success"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /public/{username}/content/{slug} [get]
func (h *ContentHandler) GetPublic(c *gin.Context) {
	ctx := c.Request.Context()

	username := c.Param("username")
	contentSlug := c.Param("slug")

	content, err := h.svc.GetPublic(ctx, username, contentSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrContentDoesNotExist) {
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})

			return
		}

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   content,
	})
}

func (h *ContentHandler) contentIDParam(c *gin.Context) (uuid.UUID, bool) {
	var params model.ContentIDPathParam
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

func (h *ContentHandler) writeContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrContentDoesNotExist):
		c.JSON(http.StatusNotFound, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
	case errors.Is(err, apperrors.ErrContentAccessDenied):
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
