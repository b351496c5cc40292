package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthService interface {
	IsOK(ctx context.Context) (bool, error)
}

type HealthHandler struct {
	svc HealthService
}

func NewHealthHandler(svc HealthService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Health
// @Summary Liveness and database check.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "OK"
// @Failure 503 {object} ResponseWithMessage "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ok, err := h.svc.IsOK(c.Request.Context())
	if err != nil || !ok {
		c.JSON(http.StatusServiceUnavailable, ResponseWithMessage{
			Status:  StatusErr,
			Message: "database unreachable",
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusOK,
		Message: "healthy",
	})
}
