package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

const (
	StatusErr          = "error"
	StatusSuccess      = "success"
	StatusNotAvailable = "not available"
	StatusNotPermitted = "not permitted"
	StatusForbidden    = "forbidden"
	StatusOK           = "ok"
)

const (
	UserAgentHeader = "User-Agent"
)

type BaseHandler struct{}

func (h *BaseHandler) GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDValue, exists := c.Get(model.UserUIDKey)
	if !exists {
		return [16]byte{}, apperrors.ErrContextValueDoesNotExist
	}

	userID, ok := userIDValue.(string)
	if !ok {
		return [16]byte{}, apperrors.ErrContextValueInvalidType
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return [16]byte{}, apperrors.ErrContextValueInvalidType
	}

	return uid, nil
}

// ResponseWithData
// @Description Generic success/error envelope carrying an arbitrary payload.
type ResponseWithData struct {
	Status string `json:"status"` // Request outcome
	Data   any    `json:"data"`   // Payload object
} // @Name _ResponseWithData

// ResponseWithMessage
// @Description Generic envelope carrying only a human readable message.
type ResponseWithMessage struct {
	Status  string `json:"status"`  // Request outcome
	Message string `json:"message"` // Human readable message
} // @Name _ResponseWithMessage

func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "method not allowed on this endpoint",
	})
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "page not found",
	})
}
