package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenStr, newPassword string) error
	TestLogin(ctx context.Context) (*model.AuthResponse, error)
}

type AuthHandler struct {
	log             *zap.Logger
	svc             AuthService
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthHandler(log *zap.Logger, svc AuthService, accessTokenTTL, refreshTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		log:             log,
		svc:             svc,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Register
// @Summary Create a creator account.
// @Description Registers a new creator and returns the user plus a token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body model.RegisterRequest true "Registration payload"
// @Success 201 {object} ResponseWithData{data=model.AuthResponse} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 409 {object} ResponseWithMessage "Email or username already taken"
// @Failure 500 {object} ResponseWithMessage "Failed to register user"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	resp, err := h.svc.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) || errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			c.JSON(http.StatusConflict, ResponseWithMessage{
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

	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)

	c.JSON(http.StatusCreated, ResponseWithData{
		Status: StatusSuccess,
		Data:   resp,
	})
}

// Login
// @Summary Log in with email and password.
// @Description Sets access and refresh tokens as cookies and returns them in the body.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body model.LoginRequest true "Credentials"
// @Success 200 {object} ResponseWithData{data=model.AuthResponse} "Success"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Invalid credentials"
// @Failure 500 {object} ResponseWithMessage "Failed to login"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	resp, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ResponseWithMessage{
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

	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   resp,
	})
}

// Logout
// @Summary Log out.
// @Description Revokes the refresh token and clears auth cookies. Non-web clients pass the token in the body.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body model.RefreshRequest false "Refresh token (only without cookies)"
// @Success 200 {object} ResponseWithMessage "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	refreshToken := h.refreshTokenFrom(c)

	if refreshToken != "" {
		if err := h.svc.Logout(ctx, refreshToken); err != nil {
			h.log.Error("failed to revoke refresh token", zap.Error(err))
		}
	}

	h.clearCookies(c)

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "Logged out",
	})
}

// Refresh
// @Summary Rotate the token pair.
// @Description Takes the refresh token from the cookie or body and issues a fresh pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body model.RefreshRequest false "Refresh token (only without cookies)"
// @Success 200 {object} ResponseWithData{data=model.TokenResponse} "Success"
// @Failure 401 {object} ResponseWithMessage "Refresh token expired"
// @Failure 500 {object} ResponseWithMessage "Failed to refresh"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ResponseWithMessage{
			Status:  StatusNotPermitted,
			Message: "Missing refresh token",
		})

		return
	}

	tokens, err := h.svc.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, ResponseWithMessage{
				Status:  StatusNotPermitted,
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

	h.setTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   tokens,
	})
}

// ForgotPassword
// @Summary Start a password reset.
// @Description Sends a reset link by email. Responds 200 whether or not the address is registered.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.ForgotPasswordRequest true "Email"
// @Success 200 {object} ResponseWithMessage "Reset email queued"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.svc.RequestPasswordReset(ctx, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "If the address is registered, a reset email is on its way",
	})
}

// ResetPassword
// @Summary Finish a password reset.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body model.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} ResponseWithMessage "Password changed"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 401 {object} ResponseWithMessage "Token invalid or expired"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if err := h.svc.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, apperrors.ErrResetTokenInvalid) {
			c.JSON(http.StatusUnauthorized, ResponseWithMessage{
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
		Message: "Password changed",
	})
}

// TestLogin
// @Summary One-shot demo login.
// @Description Creates an account with random data and logs it in, meant for demos only.
// @Tags Auth
// @Produce json
// @Success 200 {object} ResponseWithData{data=model.AuthResponse} "Success"
// @Failure 500 {object} ResponseWithMessage "Failed to login"
// @Router /auth/test-login [post]
func (h *AuthHandler) TestLogin(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.svc.TestLogin(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	h.setTokenCookies(c, resp.AccessToken, resp.RefreshToken)

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   resp,
	})
}

func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie("refresh"); err == nil && cookie != "" {
		return cookie
	}

	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}

	return ""
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie("access", accessToken, int(h.accessTokenTTL.Seconds()), "/", "", true, true)
	c.SetCookie("refresh", refreshToken, int(h.refreshTokenTTL.Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetCookie("access", "", -1, "/", "", true, true)
	c.SetCookie("refresh", "", -1, "/", "", true, true)
}
