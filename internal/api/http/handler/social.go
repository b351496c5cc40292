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

type SocialService interface {
	ConnectTwitter(ctx context.Context, userID uuid.UUID, req *model.ConnectTwitterRequest) (*model.SocialAccount, error)
	TwitterAuthorizeURL(callbackURL string) string
	GetAccounts(ctx context.Context, userID uuid.UUID) ([]model.SocialAccount, error)
	SetAccountActive(ctx context.Context, userID, accountID uuid.UUID, active bool) error
	DisconnectAccount(ctx context.Context, userID, accountID uuid.UUID) error
	GetFeed(ctx context.Context, userID uuid.UUID) ([]model.FeedEntry, error)
	GetEngagementStats(ctx context.Context, userID uuid.UUID) (*model.EngagementStats, error)
	SyncEngagement(ctx context.Context, userID uuid.UUID) (*model.SyncResult, error)
}

type PublishService interface {
	Enqueue(ctx context.Context, userID uuid.UUID, req *model.PublishRequest) (*model.PublishResponse, error)
	GetQueue(ctx context.Context, userID uuid.UUID) ([]model.QueueItem, error)
	Cancel(ctx context.Context, userID, itemID uuid.UUID) error
}

type SocialHandler struct {
	BaseHandler

	svc     SocialService
	publish PublishService
}

func NewSocialHandler(svc SocialService, publish PublishService) *SocialHandler {
	return &SocialHandler{svc: svc, publish: publish}
}

// authorizeURLResponse
// @Description Where to send the user to approve the Twitter app.
type authorizeURLResponse struct {
	URL string `json:"url"`
} // @Name AuthorizeURLResponse

// TwitterAuthorizeURL
// @Summary Start the Twitter connect flow.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param callback query string true "Where Twitter should redirect back to"
// @Success 200 {object} ResponseWithData{data=authorizeURLResponse} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/twitter/authorize [get]
func (h *SocialHandler) TwitterAuthorizeURL(c *gin.Context) {
	if _, err := h.GetUserID(c); err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	callback := c.Query("callback")
	if callback == "" {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "query parameter callback is required",
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   authorizeURLResponse{URL: h.svc.TwitterAuthorizeURL(callback)},
	})
}

// ConnectTwitter
// @Summary Attach a Twitter account.
// @Description Stores the OAuth tokens encrypted. Reconnecting replaces the stored tokens.
// @Tags Social
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ConnectTwitterRequest true "OAuth token material"
// @Success 201 {object} ResponseWithData{data=model.SocialAccount} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/twitter/connect [post]
func (h *SocialHandler) ConnectTwitter(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.ConnectTwitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	account, err := h.svc.ConnectTwitter(ctx, userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   account,
	})
}

// GetAccounts
// @Summary Linked social accounts.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=[]model.SocialAccount} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/accounts [get]
func (h *SocialHandler) GetAccounts(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	accounts, err := h.svc.GetAccounts(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   accounts,
	})
}

// SetAccountActive
// @Summary Enable or disable a linked account.
// @Description Disabled accounts stay linked but the publish flow skips them.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param account_id path string true "Account ID"
// @Param active query bool true "Desired state"
// @Success 200 {object} ResponseWithMessage "Updated"
// @Failure 404 {object} ResponseWithMessage "Account does not exist"
// @Router /social/accounts/{account_id}/active [patch]
func (h *SocialHandler) SetAccountActive(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	accountID, ok := h.accountIDParam(c)
	if !ok {
		return
	}

	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "query parameter active must be true or false",
		})

		return
	}

	if err := h.svc.SetAccountActive(ctx, userID, accountID, active); err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Account updated",
	})
}

// DisconnectAccount
// @Summary Unlink a social account.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param account_id path string true "Account ID"
// @Success 200 {object} ResponseWithMessage "Disconnected"
// @Failure 404 {object} ResponseWithMessage "Account does not exist"
// @Router /social/accounts/{account_id} [delete]
func (h *SocialHandler) DisconnectAccount(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	accountID, ok := h.accountIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.DisconnectAccount(ctx, userID, accountID); err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Account disconnected",
	})
}

// Publish
// @Summary Cross-post a content item.
// @Description Without scheduledFor the item is published in-request and the per-platform outcome is returned. With scheduledFor it waits in the queue.
// @Tags Social
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.PublishRequest true "Content, platforms and optional schedule"
// @Success 201 {object} ResponseWithData{data=model.PublishResponse} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid body or unsupported platform"
// @Failure 403 {object} ResponseWithMessage "Content belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Content does not exist"
// @Router /social/publish [post]
func (h *SocialHandler) Publish(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	resp, err := h.publish.Enqueue(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnsupportedPlatform), errors.Is(err, apperrors.ErrNoPlatforms):
			c.JSON(http.StatusBadRequest, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
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

		return
	}

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   resp,
	})
}

// GetQueue
// @Summary The caller's publish queue.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=[]model.QueueItem} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/queue [get]
func (h *SocialHandler) GetQueue(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	items, err := h.publish.GetQueue(ctx, userID)
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

// CancelQueued
// @Summary Cancel a pending queue item.
// @Description Only items still in PENDING can be cancelled.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Param item_id path string true "Queue item ID"
// @Success 200 {object} ResponseWithMessage "Cancelled"
// @Failure 403 {object} ResponseWithMessage "Item belongs to another user"
// @Failure 404 {object} ResponseWithMessage "Item does not exist"
// @Failure 409 {object} ResponseWithMessage "Item already left PENDING"
// @Router /social/queue/{item_id} [delete]
func (h *SocialHandler) CancelQueued(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var params model.QueueItemIDPathParam
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	itemID, err := uuid.Parse(params.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.publish.Cancel(ctx, userID, itemID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrQueueItemDoesNotExist):
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		case errors.Is(err, apperrors.ErrQueueItemNotOwned):
			c.JSON(http.StatusForbidden, ResponseWithMessage{
				Status:  StatusForbidden,
				Message: err.Error(),
			})
		case errors.Is(err, apperrors.ErrQueueItemNotPending):
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

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Queue item cancelled",
	})
}

// Feed
// @Summary Unified feed of social posts and published content.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=[]model.FeedEntry} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/feed [get]
func (h *SocialHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	feed, err := h.svc.GetFeed(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   feed,
	})
}

// EngagementStats
// @Summary Engagement totals across synced posts.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.EngagementStats} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/engagement [get]
func (h *SocialHandler) EngagementStats(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	stats, err := h.svc.GetEngagementStats(ctx, userID)
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

// SyncEngagement
// @Summary Refresh engagement counters from the platforms.
// @Description Best effort, per-account failures are reported in the result instead of failing the call.
// @Tags Social
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.SyncResult} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /social/engagement/sync [post]
func (h *SocialHandler) SyncEngagement(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	result, err := h.svc.SyncEngagement(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   result,
	})
}

func (h *SocialHandler) accountIDParam(c *gin.Context) (uuid.UUID, bool) {
	var params model.AccountIDPathParam
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

func (h *SocialHandler) writeAccountError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrAccountDoesNotExist) {
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
