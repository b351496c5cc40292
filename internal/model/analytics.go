package model

import (
	"time"

	"github.com/google/uuid"
)

// PageView is one tracked visit. VisitorID is a salted-free sha256 of
// ip+user-agent, no raw PII is stored.
type PageView struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	Page      string     `db:"page"       json:"page"`
	ContentID *uuid.UUID `db:"content_id" json:"contentId"`
	UserID    *uuid.UUID `db:"user_id"    json:"userId"`
	VisitorID string     `db:"visitor_id" json:"visitorId"`
	Referrer  string     `db:"referrer"   json:"referrer,omitempty"`
	UserAgent string     `db:"user_agent" json:"userAgent,omitempty"`
	Country   string     `db:"country"    json:"country,omitempty"`
	Duration  *int       `db:"duration"   json:"duration,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// TrackRequest
// @Description Public payload for recording a page view.
type TrackRequest struct {
	Page      string `binding:"required" example:"/p/hello-world" json:"page"`
	ContentID string `binding:"omitempty,uuid" json:"contentId"`
	Creator   string `json:"creator"`
	Referrer  string `json:"referrer"`
	Duration  *int   `json:"duration"`
} // @Name TrackRequest

// TopContentEntry
// @Description Content item with its view count over the window.
type TopContentEntry struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Views int       `json:"views"`
} // @Name TopContentEntry

// ReferrerEntry
// @Description Referring domain with its hit count.
type ReferrerEntry struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
} // @Name ReferrerEntry

// UserStats
// @Description Aggregated traffic stats for one creator.
type UserStats struct {
	TotalViews     int               `json:"totalViews"`
	UniqueVisitors int               `json:"uniqueVisitors"`
	AvgDuration    int               `json:"avgDuration"`
	ViewsByDay     map[string]int    `json:"viewsByDay"`
	ViewsByCountry map[string]int    `json:"viewsByCountry"`
	TopContent     []TopContentEntry `json:"topContent"`
	TopReferrers   []ReferrerEntry   `json:"topReferrers"`
} // @Name UserStats

// ContentStats
// @Description Aggregated traffic stats for one content item.
type ContentStats struct {
	TotalViews     int            `json:"totalViews"`
	UniqueVisitors int            `json:"uniqueVisitors"`
	AvgDuration    int            `json:"avgDuration"`
	ViewsByDay     map[string]int `json:"viewsByDay"`
} // @Name ContentStats

// AnalyticsReport
// @Description Exportable summary report.
type AnalyticsReport struct {
	Period      string            `json:"period"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Summary     ReportSummary     `json:"summary"`
	TopContent  []TopContentEntry `json:"topContent"`
	TopReferrers []ReferrerEntry  `json:"topReferrers"`
	DailyViews  map[string]int    `json:"dailyViews"`
} // @Name AnalyticsReport

// ReportSummary
// @Description Headline numbers of a report.
type ReportSummary struct {
	TotalViews     int    `json:"totalViews"`
	UniqueVisitors int    `json:"uniqueVisitors"`
	AvgDuration    string `json:"avgDuration"`
} // @Name ReportSummary
