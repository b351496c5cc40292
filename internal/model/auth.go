package model

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest
// @Description Payload for creating a creator account.
type RegisterRequest struct {
	Email    string `binding:"required,email" example:"stella@starconnect.local" format:"email"    json:"email"`
	Username string `binding:"required"       example:"stella"                                     json:"username"`
	Password string `binding:"required,min=8" example:"12345678"                 format:"password" json:"password"`
	Name     string `example:"Stella Nova"    json:"name"`
} // @Name RegisterRequest

// LoginRequest
// @Description Credentials for logging in.
type LoginRequest struct {
	Email    string `binding:"required,email" example:"stella@starconnect.local" format:"email"    json:"email"`
	Password string `binding:"required"       example:"12345678"                 format:"password" json:"password"`
} // @Name LoginRequest

// TokenResponse
// @Description Access and refresh token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
} // @Name TokenResponse

// AuthResponse
// @Description User plus token pair returned by register/login.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
} // @Name AuthResponse

// RefreshRequest
// @Description Refresh token handed back for rotation.
type RefreshRequest struct {
	RefreshToken string `binding:"required" json:"refreshToken"`
} // @Name RefreshRequest

// ForgotPasswordRequest
// @Description Request to start a password reset.
type ForgotPasswordRequest struct {
	Email string `binding:"required,email" json:"email"`
} // @Name ForgotPasswordRequest

// ResetPasswordRequest
// @Description Reset token from the email plus the new password.
type ResetPasswordRequest struct {
	Token       string `binding:"required"       json:"token"`
	NewPassword string `binding:"required,min=8" json:"newPassword"`
} // @Name ResetPasswordRequest

type PasswordResetToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Token     []byte    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
