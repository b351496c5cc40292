package model

import (
	"time"

	"github.com/google/uuid"
)

// Platform is the closed set of publish targets. Only Twitter has a wired
// adapter today; adding a platform means adding a constant here and a client
// in the app wiring, the queue rejects anything else at enqueue time.
type Platform string

const (
	PlatformTwitter Platform = "TWITTER"
)

// KnownPlatform reports whether p belongs to the closed set.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformTwitter:
		return true
	default:
		return false
	}
}

const (
	QueueStatusPending    = "PENDING"
	QueueStatusProcessing = "PROCESSING"
	QueueStatusCompleted  = "COMPLETED"
	QueueStatusFailed     = "FAILED"
)

// QueueItem
// @Description One request to cross-post a content item to a set of platforms.
type QueueItem struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	UserID       uuid.UUID  `db:"user_id"       json:"userId"`
	ContentID    uuid.UUID  `db:"content_id"    json:"contentId"`
	Platforms    []Platform `db:"platforms"     json:"platforms"`
	Status       string     `db:"status"        example:"PENDING" json:"status"`
	ScheduledFor *time.Time `db:"scheduled_for" format:"date-time" json:"scheduledFor" swaggertype:"string"`
	Error        string     `db:"error"         json:"error,omitempty"`
	ProcessedAt  *time.Time `db:"processed_at"  format:"date-time" json:"processedAt" swaggertype:"string"`
	CreatedAt    time.Time  `db:"created_at"    format:"date-time" json:"createdAt"   swaggertype:"string"`

	// Content is populated on queue listings only.
	Content *ContentRef `db:"-" json:"content,omitempty"`
} // @Name QueueItem

// SocialAccount is a linked external account, one row per (user, platform).
// Token material is stored encrypted, the publish flow decrypts on use and
// never writes back.
type SocialAccount struct {
	ID             uuid.UUID `db:"id"               json:"id"`
	UserID         uuid.UUID `db:"user_id"          json:"userId"`
	Platform       Platform  `db:"platform"         json:"platform"`
	PlatformUserID string    `db:"platform_user_id" json:"platformUserId"`
	Username       string    `db:"username"         json:"username"`
	AccessToken    string    `db:"access_token"     json:"-" swaggerignore:"true"`
	RefreshToken   string    `db:"refresh_token"    json:"-" swaggerignore:"true"`
	IsActive       bool      `db:"is_active"        json:"isActive"`
	CreatedAt      time.Time `db:"created_at"       format:"date-time" json:"createdAt" swaggertype:"string"`
	UpdatedAt      time.Time `db:"updated_at"       format:"date-time" json:"updatedAt" swaggertype:"string"`
} // @Name SocialAccount

// SocialPost is the append-only log of successful per-platform publishes.
type SocialPost struct {
	ID             uuid.UUID `db:"id"               json:"id"`
	UserID         uuid.UUID `db:"user_id"          json:"userId"`
	ContentID      uuid.UUID `db:"content_id"       json:"contentId"`
	Platform       Platform  `db:"platform"         json:"platform"`
	PlatformPostID string    `db:"platform_post_id" json:"platformPostId"`
	Text           string    `db:"text"             json:"text"`
	URL            string    `db:"url"              json:"url"`
	Likes          int       `db:"likes"            json:"likes"`
	Shares         int       `db:"shares"           json:"shares"`
	Comments       int       `db:"comments"         json:"comments"`
	PublishedAt    time.Time `db:"published_at"     format:"date-time" json:"publishedAt" swaggertype:"string"`
} // @Name SocialPost

// PublishRequest
// @Description Publish a content item now, or at scheduledFor if set.
type PublishRequest struct {
	ContentID    string     `binding:"required,uuid" json:"contentId"`
	Platforms    []Platform `binding:"required,min=1" json:"platforms"`
	ScheduledFor *time.Time `json:"scheduledFor" swaggertype:"string" format:"date-time"`
} // @Name PublishRequest

// PublishResult is the per-platform breakdown returned by immediate publishes.
type PublishResult struct {
	Successes []string `json:"successes"`
	Errors    []string `json:"errors"`
} // @Name PublishResult

// PublishResponse
// @Description Created queue item plus, for immediate publishes, the outcome.
type PublishResponse struct {
	Item   *QueueItem     `json:"item"`
	Result *PublishResult `json:"result,omitempty"`
} // @Name PublishResponse

// ConnectTwitterRequest
// @Description Token material handed over after the external OAuth dance.
type ConnectTwitterRequest struct {
	AccessToken   string `binding:"required" json:"accessToken"`
	AccessSecret  string `binding:"required" json:"accessSecret"`
	TwitterUserID string `binding:"required" json:"twitterUserId"`
	Username      string `binding:"required" json:"username"`
} // @Name ConnectTwitterRequest

// FeedEntry
// @Description One item of the unified public feed.
type FeedEntry struct {
	Type        string      `json:"type"` // "social" or "starconnect"
	Platform    Platform    `json:"platform"`
	Text        string      `json:"text"`
	Excerpt     string      `json:"excerpt,omitempty"`
	URL         string      `json:"url"`
	PublishedAt *time.Time  `json:"publishedAt"`
	Engagement  *Engagement `json:"engagement,omitempty"`
} // @Name FeedEntry

// Engagement
// @Description Like/share/comment counters of a social post.
type Engagement struct {
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
} // @Name Engagement

// EngagementStats
// @Description Totals across all synced social posts, broken down per platform.
type EngagementStats struct {
	TotalPosts    int                             `json:"totalPosts"`
	TotalLikes    int                             `json:"totalLikes"`
	TotalShares   int                             `json:"totalShares"`
	TotalComments int                             `json:"totalComments"`
	ByPlatform    map[Platform]PlatformEngagement `json:"byPlatform"`
} // @Name EngagementStats

// PlatformEngagement
// @Description Per-platform engagement counters.
type PlatformEngagement struct {
	Posts    int `json:"posts"`
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
} // @Name PlatformEngagement

// SyncResult
// @Description Outcome of a best-effort social sync.
type SyncResult struct {
	Twitter int      `json:"twitter"`
	Errors  []string `json:"errors"`
} // @Name SyncResult

type QueueItemIDPathParam struct {
	ID string `uri:"item_id" binding:"required,uuid"`
}

type AccountIDPathParam struct {
	ID string `uri:"account_id" binding:"required,uuid"`
}
