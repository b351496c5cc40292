package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starconnect-back/internal/model"
)

type AnalyticsService interface {
	Track(ctx context.Context, req *model.TrackRequest, visitorID, country, userAgent string) error
	GetUserStats(ctx context.Context, userID uuid.UUID, period string) (*model.UserStats, error)
	GetContentStats(ctx context.Context, contentID uuid.UUID, period string) (*model.ContentStats, error)
	GetReport(ctx context.Context, userID uuid.UUID, period string) (*model.AnalyticsReport, error)
	ExportCSV(ctx context.Context, userID uuid.UUID, period string) ([]byte, error)
}

type AnalyticsHandler struct {
	BaseHandler

	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Track
// @Summary Record a page view.
// @Description Public endpoint. The visitor is identified by a hash derived server-side, no identifier comes from the body.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param body body model.TrackRequest true "Page view payload"
// @Success 202 {object} ResponseWithMessage "Accepted"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Router /analytics/track [post]
func (h *AnalyticsHandler) Track(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	visitorID := c.GetString(model.VisitorHashKey)
	country := c.GetString(model.ClientCountryKey)
	userAgent := c.GetHeader(UserAgentHeader)

	if err := h.svc.Track(ctx, &req, visitorID, country, userAgent); err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusAccepted, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Recorded",
	})
}

// UserStats
// @Summary Traffic stats for the caller's pages.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "7d, 30d or 90d (default 30d)"
// @Success 200 {object} ResponseWithData{data=model.UserStats} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /analytics/stats [get]
func (h *AnalyticsHandler) UserStats(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	stats, err := h.svc.GetUserStats(ctx, userID, c.Query("period"))
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

// ContentStats
// @Summary Traffic stats for one content item.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param content_id path string true "Content ID"
// @Param period query string false "7d, 30d or 90d (default 30d)"
// @Success 200 {object} ResponseWithData{data=model.ContentStats} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /analytics/content/{content_id} [get]
func (h *AnalyticsHandler) ContentStats(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := h.GetUserID(c); err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

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

	stats, err := h.svc.GetContentStats(ctx, contentID, c.Query("period"))
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

// Report
// @Summary Summary report over a period.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "7d, 30d or 90d (default 30d)"
// @Success 200 {object} ResponseWithData{data=model.AnalyticsReport} "Success"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /analytics/report [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	report, err := h.svc.GetReport(ctx, userID, c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   report,
	})
}

// ExportCSV
// @Summary Raw page views as CSV.
// @Tags Analytics
// @Produce text/csv
// @Security BearerAuth
// @Param period query string false "7d, 30d or 90d (default 30d)"
// @Success 200 {string} string "CSV body"
// @Failure 401 {object} ResponseWithMessage "Unauthorized"
// @Router /analytics/export [get]
func (h *AnalyticsHandler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := h.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: err.Error(),
		})

		return
	}

	data, err := h.svc.ExportCSV(ctx, userID, c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	filename := "analytics-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
