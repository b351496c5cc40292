package model

import (
	"time"

	"github.com/google/uuid"
)

// CrisisMode
// @Description Per-creator emergency banner configuration.
type CrisisMode struct {
	ID          uuid.UUID  `db:"id"           json:"id"`
	UserID      uuid.UUID  `db:"user_id"      json:"userId"`
	Title       string     `db:"title"        json:"title"`
	Message     string     `db:"message"      json:"message"`
	IsActive    bool       `db:"is_active"    json:"isActive"`
	ActivatedAt *time.Time `db:"activated_at" format:"date-time" json:"activatedAt" swaggertype:"string"`
	UpdatedAt   time.Time  `db:"updated_at"   format:"date-time" json:"updatedAt"   swaggertype:"string"`
} // @Name CrisisMode

// CrisisTemplateRequest
// @Description Banner title and message shown while crisis mode is active.
type CrisisTemplateRequest struct {
	Title   string `binding:"required" json:"title"`
	Message string `binding:"required" json:"message"`
} // @Name CrisisTemplateRequest

// CrisisStatus
// @Description Public crisis state of a creator.
type CrisisStatus struct {
	IsActive bool   `json:"isActive"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message,omitempty"`
} // @Name CrisisStatus
