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

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd *model.ProfileUpdateRequest) (*model.User, error)
	GetPublicProfile(ctx context.Context, username string) (*model.PublicProfile, *model.CrisisStatus, error)
}

type ProfileHandler struct {
	BaseHandler

	svc UserService
}

func NewProfileHandler(svc UserService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetMe
// @Summary Current user's full profile.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.User} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Failure 404 {object} ResponseWithMessage "User does not exist"
// @Router /profile/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserDoesNotExist) {
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
		Data:   user,
	})
}

// UpdateProfile
// @Summary Update the current user's profile.
// @Description Partial update, absent fields keep their current values.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body model.ProfileUpdateRequest true "Fields to change"
// @Success 200 {object} ResponseWithData{data=model.User} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /profile/me [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	user, err := h.svc.UpdateProfile(ctx, userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   user,
	})
}

// publicProfileResponse
// @Description Public profile plus the creator's crisis banner state.
type publicProfileResponse struct {
	Profile *model.PublicProfile `json:"profile"`
	Crisis  *model.CrisisStatus  `json:"crisis"`
} // @Name PublicProfileResponse

// GetPublicProfile
// @Summary Public creator page.
// @Description Anonymous view of a creator. Private profiles return 403.
// @Tags Profile
// @Produce json
// @Param username path string true "Creator username"
// @Success 200 {object} ResponseWithData{data=publicProfileResponse} "Success"
// @Failure 403 {object} ResponseWithMessage "Profile is private"
// @Failure 404 {object} ResponseWithMessage "User does not exist"
// @Router /public/{username} [get]
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var params model.UsernamePathParam
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	profile, crisis, err := h.svc.GetPublicProfile(ctx, params.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserDoesNotExist) {
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})

			return
		}

		if errors.Is(err, apperrors.ErrProfileIsPrivate) {
			c.JSON(http.StatusForbidden, ResponseWithMessage{
				Status:  StatusForbidden,
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
		Data: publicProfileResponse{
			Profile: profile,
			Crisis:  crisis,
		},
	})
}
