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

type CrisisService interface {
	SaveTemplate(ctx context.Context, userID uuid.UUID, req *model.CrisisTemplateRequest) (*model.CrisisMode, error)
	Activate(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error)
	Deactivate(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.CrisisMode, error)
}

type CrisisHandler struct {
	BaseHandler

	svc CrisisService
}

func NewCrisisHandler(svc CrisisService) *CrisisHandler {
	return &CrisisHandler{svc: svc}
}

// SaveTemplate
// @Summary Save the crisis banner template.
// @Description Saving never changes the active flag, a drafted banner stays off until activated.
// @Tags Crisis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CrisisTemplateRequest true "Banner message and optional redirect"
// @Success 200 {object} ResponseWithData{data=model.CrisisMode} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /crisis [put]
func (h *CrisisHandler) SaveTemplate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.CrisisTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	mode, err := h.svc.SaveTemplate(ctx, userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   mode,
	})
}

// Activate
// @Summary Turn the crisis banner on.
// @Tags Crisis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.CrisisMode} "Success"
// @Failure 404 {object} ResponseWithMessage "No template saved yet"
// @Router /crisis/activate [post]
func (h *CrisisHandler) Activate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	mode, err := h.svc.Activate(ctx, userID)
	if err != nil {
		h.writeCrisisError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   mode,
	})
}

// Deactivate
// @Summary Turn the crisis banner off.
// @Tags Crisis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.CrisisMode} "Success"
// @Failure 404 {object} ResponseWithMessage "No template saved yet"
// @Router /crisis/deactivate [post]
func (h *CrisisHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	mode, err := h.svc.Deactivate(ctx, userID)
	if err != nil {
		h.writeCrisisError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   mode,
	})
}

// Get
// @Summary Current crisis banner state.
// @Tags Crisis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.CrisisMode} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /crisis [get]
func (h *CrisisHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	mode, err := h.svc.Get(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   mode,
	})
}

func (h *CrisisHandler) writeCrisisError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrCrisisModeDoesNotExist) {
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
}
