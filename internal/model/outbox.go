package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicContentPublished = "content-published"
	TopicNewsletterQueued = "newsletter-queued"
)

type OutboxMessage struct {
	ID        uuid.UUID  `db:"id"`
	Topic     string     `db:"topic"`
	Payload   []byte     `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
	Sent      bool       `db:"sent"`
	SentAt    *time.Time `db:"sent_at"`
}

// ContentPublishedEvent is emitted when a content item transitions to PUBLISHED.
type ContentPublishedEvent struct {
	ContentID   uuid.UUID `json:"contentId"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	PublishedAt time.Time `json:"publishedAt"`
}

// NewsletterQueuedEvent is emitted when a creator queues a newsletter issue.
type NewsletterQueuedEvent struct {
	UserID      uuid.UUID `json:"userId"`
	Subject     string    `json:"subject"`
	Subscribers int       `json:"subscribers"`
	QueuedAt    time.Time `json:"queuedAt"`
}
