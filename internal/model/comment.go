package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CommentStatusPending  = "PENDING"
	CommentStatusApproved = "APPROVED"
	CommentStatusRejected = "REJECTED"
	CommentStatusSpam     = "SPAM"
)

// Comment
// @Description A visitor comment on a published content item.
type Comment struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	ContentID uuid.UUID  `db:"content_id" json:"contentId"`
	ParentID  *uuid.UUID `db:"parent_id"  json:"parentId"`
	Author    string     `db:"author"     example:"anonymous fan" json:"author"`
	Email     string     `db:"email"      json:"email,omitempty"`
	Text      string     `db:"text"       json:"text"`
	Status    string     `db:"status"     example:"PENDING" json:"status"`
	CreatedAt time.Time  `db:"created_at" format:"date-time" json:"createdAt" swaggertype:"string"`

	// Replies is populated on the public thread listing only.
	Replies []Comment `db:"-" json:"replies,omitempty"`
	// Content is populated on the moderation listing only.
	Content *ContentRef `db:"-" json:"content,omitempty"`
} // @Name Comment

// CommentCreateRequest
// @Description Public payload for submitting a comment; it lands in PENDING.
type CommentCreateRequest struct {
	ContentID string `binding:"required,uuid" json:"contentId"`
	ParentID  string `binding:"omitempty,uuid" json:"parentId"`
	Author    string `binding:"required" json:"author"`
	Email     string `binding:"omitempty,email" json:"email"`
	Text      string `binding:"required" json:"text"`
} // @Name CommentCreateRequest

// CommentStats
// @Description Moderation counters for one creator.
type CommentStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Spam     int `json:"spam"`
} // @Name CommentStats

type CommentIDPathParam struct {
	ID string `uri:"comment_id" binding:"required,uuid"`
}
