package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ContentStatusDraft     = "DRAFT"
	ContentStatusPublished = "PUBLISHED"
)

const (
	ContentTypePost    = "POST"
	ContentTypeArticle = "ARTICLE"
	ContentTypePage    = "PAGE"
)

// Content
// @Description A publishable content item (post, article or page).
type Content struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	UserID      uuid.UUID       `db:"user_id"      json:"userId"`
	Type        string          `db:"type"         example:"POST"      json:"type"`
	Title       string          `db:"title"        example:"Hello World" json:"title"`
	Slug        string          `db:"slug"         example:"hello-world" json:"slug"`
	Body        json.RawMessage `db:"body"         json:"body" swaggertype:"object"`
	Excerpt     string          `db:"excerpt"      json:"excerpt"`
	Status      string          `db:"status"       example:"DRAFT"     json:"status"`
	PublishedAt *time.Time      `db:"published_at" format:"date-time"  json:"publishedAt" swaggertype:"string"`
	CreatedAt   time.Time       `db:"created_at"   format:"date-time"  json:"createdAt"   swaggertype:"string"`
	UpdatedAt   time.Time       `db:"updated_at"   format:"date-time"  json:"updatedAt"   swaggertype:"string"`
} // @Name Content

// ContentRef is the minimal content projection other features embed
// (queue items, comment moderation lists).
type ContentRef struct {
	Title string `db:"title" json:"title"`
	Slug  string `db:"slug"  json:"slug"`
}

// ContentCreateRequest
// @Description Payload for creating content.
type ContentCreateRequest struct {
	Type    string          `binding:"required,oneof=POST ARTICLE PAGE" example:"POST" json:"type"`
	Title   string          `binding:"required" example:"Hello World" json:"title"`
	Body    json.RawMessage `binding:"required" json:"body" swaggertype:"object"`
	Excerpt string          `json:"excerpt"`
	Status  string          `binding:"omitempty,oneof=DRAFT PUBLISHED" json:"status"`
} // @Name ContentCreateRequest

// ContentUpdateRequest
// @Description Partial content update, nil fields keep their current value.
type ContentUpdateRequest struct {
	Title   *string         `json:"title"`
	Body    json.RawMessage `json:"body" swaggertype:"object"`
	Excerpt *string         `json:"excerpt"`
	Status  *string         `binding:"omitempty,oneof=DRAFT PUBLISHED" json:"status"`
} // @Name ContentUpdateRequest

// ContentSearchHit
// @Description One full-text search result.
type ContentSearchHit struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
} // @Name ContentSearchHit

// ContentDocument is the shape indexed into Elasticsearch on publish.
type ContentDocument struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at"`
}

type ContentIDPathParam struct {
	ID string `uri:"content_id" binding:"required,uuid"`
}
