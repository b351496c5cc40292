package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	UserUIDKey      = "uid"
	UserEmailKey    = "email"
	UserNameKey     = "username"
	VisitorHashKey  = "visitor_hash"
	ClientCountryKey = "client_country"
)

// User
// @Description Creator account. The password hash never leaves the backend.
type User struct {
	ID             uuid.UUID       `db:"id"           example:"b4b03119-1290-44bc-b599-6a5e91d6611f" json:"id"`
	Username       string          `db:"username"     example:"stella"                               json:"username"`
	Email          string          `db:"email"        example:"stella@starconnect.local"             json:"email"`
	HashedPassword []byte          `db:"password"     json:"-"                                       swaggerignore:"true"`
	Name           string          `db:"name"         example:"Stella Nova"                          json:"name"`
	Bio            string          `db:"bio"          json:"bio"`
	Avatar         string          `db:"avatar"       json:"avatar"`
	Banner         string          `db:"banner"       json:"banner"`
	SocialLinks    json.RawMessage `db:"social_links" json:"socialLinks" swaggertype:"object"`
	CustomTheme    json.RawMessage `db:"custom_theme" json:"customTheme" swaggertype:"object"`
	IsPublic       bool            `db:"is_public"    example:"true"     json:"isPublic"`
	CreatedAt      time.Time       `db:"created_at"   format:"date-time" json:"createdAt" swaggertype:"string"`
	UpdatedAt      time.Time       `db:"updated_at"   format:"date-time" json:"updatedAt" swaggertype:"string"`
} // @Name User

// PublicProfile
// @Description Profile fields safe to show to anonymous visitors.
type PublicProfile struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Name        string          `json:"name"`
	Bio         string          `json:"bio"`
	Avatar      string          `json:"avatar"`
	Banner      string          `json:"banner"`
	SocialLinks json.RawMessage `json:"socialLinks" swaggertype:"object"`
	IsPublic    bool            `json:"isPublic"`
	CreatedAt   time.Time       `json:"createdAt" swaggertype:"string"`
} // @Name PublicProfile

func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Bio:         u.Bio,
		Avatar:      u.Avatar,
		Banner:      u.Banner,
		SocialLinks: u.SocialLinks,
		IsPublic:    u.IsPublic,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileUpdateRequest
// @Description Partial profile update, nil fields keep their current value.
type ProfileUpdateRequest struct {
	Name        *string         `json:"name"`
	Bio         *string         `json:"bio"`
	Avatar      *string         `json:"avatar"`
	Banner      *string         `json:"banner"`
	SocialLinks json.RawMessage `json:"socialLinks" swaggertype:"object"`
	CustomTheme json.RawMessage `json:"customTheme" swaggertype:"object"`
	IsPublic    *bool           `json:"isPublic"`
} // @Name ProfileUpdateRequest

type UsernamePathParam struct {
	Username string `uri:"username" binding:"required"`
}
