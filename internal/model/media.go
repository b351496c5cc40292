package model

import (
	"time"

	"github.com/google/uuid"
)

// Media
// @Description Metadata of one uploaded file.
type Media struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"userId"`
	Filename  string    `db:"filename"   example:"banner.png" json:"filename"`
	MimeType  string    `db:"mime_type"  example:"image/png"  json:"mimeType"`
	Size      int64     `db:"size"       json:"size"`
	URL       string    `db:"url"        json:"url"`
	Thumbnail string    `db:"thumbnail"  json:"thumbnail,omitempty"`
	CreatedAt time.Time `db:"created_at" format:"date-time" json:"createdAt" swaggertype:"string"`
} // @Name Media

type MediaIDPathParam struct {
	ID string `uri:"media_id" binding:"required,uuid"`
}
