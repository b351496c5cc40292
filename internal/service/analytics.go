package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

const (
	defaultStatsWindow = 30 * 24 * time.Hour
	topEntriesLimit    = 10
)

type AnalyticsRepository interface {
	InsertPageView(ctx context.Context, ext repository.RepoExtension, v *model.PageView) error
	SelectUserTotals(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, since time.Time) (total, unique, avgDuration int, err error)
	SelectContentTotals(ctx context.Context, ext repository.RepoExtension, contentID uuid.UUID, since time.Time) (total, unique, avgDuration int, err error)
	SelectViewsByDay(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, contentID *uuid.UUID, since time.Time) (map[string]int, error)
	SelectViewsByCountry(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, since time.Time) (map[string]int, error)
	SelectTopContent(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, since time.Time, limit int) ([]model.TopContentEntry, error)
	SelectTopReferrers(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, since time.Time, limit int) ([]model.ReferrerEntry, error)
	SelectPageViews(ctx context.Context, ext repository.RepoExtension, userID uuid.UUID, since time.Time) ([]model.PageView, error)
}

type AnalyticsUserRepository interface {
	SelectUserByUsername(ctx context.Context, ext repository.RepoExtension, username string) (*model.User, error)
}

type AnalyticsService struct {
	analyticsRepo AnalyticsRepository
	userRepo      AnalyticsUserRepository
}

func NewAnalyticsService(analyticsRepo AnalyticsRepository, userRepo AnalyticsUserRepository) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
	}
}

// Track records one page view. visitorID and country are derived by the HTTP
// layer (hashed fingerprint, GeoIP lookup), raw addresses never reach here.
func (s *AnalyticsService) Track(ctx context.Context, req *model.TrackRequest, visitorID, country, userAgent string) error {
	view := &model.PageView{
		ID:        uuid.New(),
		Page:      req.Page,
		VisitorID: visitorID,
		Referrer:  req.Referrer,
		UserAgent: userAgent,
		Country:   country,
		Duration:  req.Duration,
	}

	if req.ContentID != "" {
		cid, err := uuid.Parse(req.ContentID)
		if err != nil {
			return fmt.Errorf("failed to parse content id: %w", err)
		}

		view.ContentID = &cid
	}

	if req.Creator != "" {
		creator, err := s.userRepo.SelectUserByUsername(ctx, nil, req.Creator)
		if err == nil {
			view.UserID = &creator.ID
		}
	}

	if err := s.analyticsRepo.InsertPageView(ctx, nil, view); err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}

	return nil
}

func (s *AnalyticsService) GetUserStats(ctx context.Context, userID uuid.UUID, period string) (*model.UserStats, error) {
	since := sinceFromPeriod(period)

	total, unique, avgDuration, err := s.analyticsRepo.SelectUserTotals(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select totals: %w", err)
	}

	byDay, err := s.analyticsRepo.SelectViewsByDay(ctx, nil, userID, nil, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select views by day: %w", err)
	}

	byCountry, err := s.analyticsRepo.SelectViewsByCountry(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select views by country: %w", err)
	}

	topContent, err := s.analyticsRepo.SelectTopContent(ctx, nil, userID, since, topEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to select top content: %w", err)
	}

	topReferrers, err := s.analyticsRepo.SelectTopReferrers(ctx, nil, userID, since, topEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to select top referrers: %w", err)
	}

	return &model.UserStats{
		TotalViews:     total,
		UniqueVisitors: unique,
		AvgDuration:    avgDuration,
		ViewsByDay:     byDay,
		ViewsByCountry: byCountry,
		TopContent:     topContent,
		TopReferrers:   topReferrers,
	}, nil
}

func (s *AnalyticsService) GetContentStats(ctx context.Context, contentID uuid.UUID, period string) (*model.ContentStats, error) {
	since := sinceFromPeriod(period)

	total, unique, avgDuration, err := s.analyticsRepo.SelectContentTotals(ctx, nil, contentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select totals: %w", err)
	}

	byDay, err := s.analyticsRepo.SelectViewsByDay(ctx, nil, uuid.Nil, &contentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select views by day: %w", err)
	}

	return &model.ContentStats{
		TotalViews:     total,
		UniqueVisitors: unique,
		AvgDuration:    avgDuration,
		ViewsByDay:     byDay,
	}, nil
}

func (s *AnalyticsService) GetReport(ctx context.Context, userID uuid.UUID, period string) (*model.AnalyticsReport, error) {
	stats, err := s.GetUserStats(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	return &model.AnalyticsReport{
		Period:      normalizePeriod(period),
		GeneratedAt: time.Now().UTC(),
		Summary: model.ReportSummary{
			TotalViews:     stats.TotalViews,
			UniqueVisitors: stats.UniqueVisitors,
			AvgDuration:    fmt.Sprintf("%ds", stats.AvgDuration),
		},
		TopContent:   stats.TopContent,
		TopReferrers: stats.TopReferrers,
		DailyViews:   stats.ViewsByDay,
	}, nil
}

// ExportCSV renders the raw page views of the window as a CSV document.
func (s *AnalyticsService) ExportCSV(ctx context.Context, userID uuid.UUID, period string) ([]byte, error) {
	views, err := s.analyticsRepo.SelectPageViews(ctx, nil, userID, sinceFromPeriod(period))
	if err != nil {
		return nil, fmt.Errorf("failed to select page views: %w", err)
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"date", "page", "content_id", "visitor_id", "referrer", "country", "duration"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for _, v := range views {
		contentID := ""
		if v.ContentID != nil {
			contentID = v.ContentID.String()
		}

		duration := ""
		if v.Duration != nil {
			duration = strconv.Itoa(*v.Duration)
		}

		record := []string{
			v.CreatedAt.UTC().Format(time.RFC3339),
			v.Page,
			contentID,
			v.VisitorID,
			v.Referrer,
			v.Country,
			duration,
		}

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

func sinceFromPeriod(period string) time.Time {
	now := time.Now().UTC()

	switch period {
	case "7d":
		return now.Add(-7 * 24 * time.Hour)
	case "90d":
		return now.Add(-90 * 24 * time.Hour)
	case "30d", "":
		return now.Add(-defaultStatsWindow)
	default:
		return now.Add(-defaultStatsWindow)
	}
}

func normalizePeriod(period string) string {
	switch period {
	case "7d", "30d", "90d":
		return period
	default:
		return "30d"
	}
}
