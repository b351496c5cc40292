package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber
// @Description One newsletter subscription for a creator.
type Subscriber struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	UserID    uuid.UUID  `db:"user_id"    json:"userId"`
	Email     string     `db:"email"      example:"fan@example.com" json:"email"`
	Name      string     `db:"name"       json:"name,omitempty"`
	IsActive  bool       `db:"is_active"  json:"isActive"`
	CreatedAt time.Time  `db:"created_at" format:"date-time" json:"createdAt" swaggertype:"string"`
	UpdatedAt time.Time  `db:"updated_at" format:"date-time" json:"updatedAt" swaggertype:"string"`
}

// SubscribeRequest
// @Description Public payload for subscribing to a creator's newsletter.
type SubscribeRequest struct {
	Creator string `binding:"required" example:"stella" json:"creator"`
	Email   string `binding:"required,email" json:"email"`
	Name    string `json:"name"`
} // @Name SubscribeRequest

// UnsubscribeRequest
// @Description Public payload for unsubscribing.
type UnsubscribeRequest struct {
	Creator string `binding:"required" json:"creator"`
	Email   string `binding:"required,email" json:"email"`
} // @Name UnsubscribeRequest

// NewsletterStats
// @Description Subscriber counters for one creator.
type NewsletterStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
} // @Name NewsletterStats

// NewsletterSendRequest
// @Description Issue subject and body; delivery itself is handled downstream.
type NewsletterSendRequest struct {
	Subject string `binding:"required" json:"subject"`
	Content string `binding:"required" json:"content"`
} // @Name NewsletterSendRequest

// NewsletterSendResult
// @Description Outcome of queueing one newsletter issue.
type NewsletterSendResult struct {
	Queued    int       `json:"queued"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
} // @Name NewsletterSendResult
