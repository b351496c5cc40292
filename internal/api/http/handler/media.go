package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type MediaService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename, mimeType string, data []byte) (*model.Media, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Media, error)
	Delete(ctx context.Context, userID, mediaID uuid.UUID) error
}

type MediaHandler struct {
	BaseHandler

	svc MediaService
}

func NewMediaHandler(svc MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Upload
// @Summary Upload a file.
// @Description Multipart upload; images get a thumbnail rendered automatically.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 201 {object} ResponseWithData{data=model.Media} "Success"
// @Failure 400 {object} ResponseWithMessage "Missing or unreadable file"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "file field is required",
		})

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	media, err := h.svc.Upload(ctx, userID, fileHeader.Filename, mimeType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   media,
	})
}

// List
// @Summary List own uploads.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=[]model.Media} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	items, err := h.svc.List(ctx, userID)
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

// Delete
// @Summary Delete an upload.
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param media_id path string true "Media ID"
// @Success 200 {object} ResponseWithMessage "Deleted"
// @Failure 403 {object} ResponseWithMessage "Belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Media does not exist"
// @Router /media/{media_id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var params model.MediaIDPathParam
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	mediaID, err := uuid.Parse(params.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.svc.Delete(ctx, userID, mediaID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMediaDoesNotExist):
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		case errors.Is(err, apperrors.ErrMediaAccessDenied):
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

		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Media deleted",
	})
}
