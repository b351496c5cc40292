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

type NewsletterService interface {
	Subscribe(ctx context.Context, req *model.SubscribeRequest) (*model.Subscriber, error)
	Unsubscribe(ctx context.Context, req *model.UnsubscribeRequest) error
	ListSubscribers(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]model.Subscriber, error)
	RemoveSubscriber(ctx context.Context, userID, subscriberID uuid.UUID) error
	GetStats(ctx context.Context, userID uuid.UUID) (*model.NewsletterStats, error)
	Send(ctx context.Context, userID uuid.UUID, req *model.NewsletterSendRequest) (*model.NewsletterSendResult, error)
}

type NewsletterHandler struct {
	BaseHandler

	svc NewsletterService
}

func NewNewsletterHandler(svc NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{svc: svc}
}

// Subscribe
// @Summary Subscribe to a creator's newsletter.
// @Description Public endpoint. Subscribing again just re-activates the subscription.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param body body model.SubscribeRequest true "Creator username and email"
// @Success 201 {object} ResponseWithData{data=model.Subscriber} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 404 {object} ResponseWithMessage "Creator does not exist"
// @Router /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	sub, err := h.svc.Subscribe(ctx, &req)
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

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   sub,
	})
}

// Unsubscribe
// @Summary Unsubscribe from a creator's newsletter.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param body body model.UnsubscribeRequest true "Creator username and email"
// @Success 200 {object} ResponseWithMessage "Unsubscribed"
// @Failure 404 {object} ResponseWithMessage "Subscription does not exist"
// @Router /newsletter/unsubscribe [post]
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.svc.Unsubscribe(ctx, &req); err != nil {
		if errors.Is(err, apperrors.ErrUserDoesNotExist) || errors.Is(err, apperrors.ErrSubscriberDoesNotExist) {
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

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Unsubscribed",
	})
}

// ListSubscribers
// @Summary List own subscribers.
// @Tags Newsletter
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active subscriptions"
// @Success 200 {object} ResponseWithData{data=[]model.Subscriber} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	subs, err := h.svc.ListSubscribers(ctx, userID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   subs,
	})
}

// RemoveSubscriber
// @Summary Remove one subscriber.
// @Tags Newsletter
// @Produce json
// @Security BearerAuth
// @Param subscriber_id path string true "Subscriber ID"
// @Success 200 {object} ResponseWithMessage "Removed"
// @Failure 404 {object} ResponseWithMessage "Subscriber does not exist"
// @Router /newsletter/subscribers/{subscriber_id} [delete]
func (h *NewsletterHandler) RemoveSubscriber(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	subscriberID, err := uuid.Parse(c.Param("subscriber_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.svc.RemoveSubscriber(ctx, userID, subscriberID); err != nil {
		if errors.Is(err, apperrors.ErrSubscriberDoesNotExist) {
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

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Subscriber removed",
	})
}

// Stats
// @Summary Subscriber counters.
// @Tags Newsletter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResponseWithData{data=model.NewsletterStats} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /newsletter/stats [get]
func (h *NewsletterHandler) Stats(c *gin.Context) {
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

// Send
// @Summary Queue a newsletter issue.
// @Description Counts the active audience and emits a newsletter-queued event, delivery happens downstream.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.NewsletterSendRequest true "Subject and content"
// @Success 200 {object} ResponseWithData{data=model.NewsletterSendResult} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /newsletter/send [post]
func (h *NewsletterHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	var req model.NewsletterSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	result, err := h.svc.Send(ctx, userID, &req)
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
