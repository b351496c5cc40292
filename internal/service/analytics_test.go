package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"starconnect-back/internal/apperrors"
	"starconnect-back/internal/model"
	"starconnect-back/internal/repository"
)

type analyticsRepoStub struct {
	views    []*model.PageView
	stored   []model.PageView
	total    int
	unique   int
	duration int
}

func (s *analyticsRepoStub) InsertPageView(_ context.Context, _ repository.RepoExtension, v *model.PageView) error {
	s.views = append(s.views, v)
	return nil
}

func (s *analyticsRepoStub) SelectUserTotals(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time) (int, int, int, error) {
	return s.total, s.unique, s.duration, nil
}

func (s *analyticsRepoStub) SelectContentTotals(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time) (int, int, int, error) {
	return s.total, s.unique, s.duration, nil
}

func (s *analyticsRepoStub) SelectViewsByDay(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ *uuid.UUID, _ time.Time) (map[string]int, error) {
	return map[string]int{"2026-08-01": 3}, nil
}

func (s *analyticsRepoStub) SelectViewsByCountry(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time) (map[string]int, error) {
	return map[string]int{"DE": 2, "US": 1}, nil
}

func (s *analyticsRepoStub) SelectTopContent(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time, _ int) ([]model.TopContentEntry, error) {
	return nil, nil
}

func (s *analyticsRepoStub) SelectTopReferrers(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time, _ int) ([]model.ReferrerEntry, error) {
	return nil, nil
}

func (s *analyticsRepoStub) SelectPageViews(_ context.Context, _ repository.RepoExtension, _ uuid.UUID, _ time.Time) ([]model.PageView, error) {
	return s.stored, nil
}

type analyticsUserRepoStub struct {
	user *model.User
}

func (s *analyticsUserRepoStub) SelectUserByUsername(_ context.Context, _ repository.RepoExtension, _ string) (*model.User, error) {
	if s.user == nil {
		return nil, apperrors.ErrUserDoesNotExist
	}
	return s.user, nil
}

func TestTrackResolvesCreatorAndContent(t *testing.T) {
	creator := &model.User{ID: uuid.New(), Username: "stella"}
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, &analyticsUserRepoStub{user: creator})

	contentID := uuid.New()
	err := svc.Track(context.Background(), &model.TrackRequest{
		Page:      "/p/hello-world",
		ContentID: contentID.String(),
		Creator:   "stella",
		Referrer:  "https://news.example",
	}, "visitor-hash", "DE", "Mozilla/5.0")

	require.NoError(t, err)
	require.Len(t, repo.views, 1)

	view := repo.views[0]
	require.Equal(t, "visitor-hash", view.VisitorID)
	require.Equal(t, "DE", view.Country)
	require.Equal(t, &contentID, view.ContentID)
	require.Equal(t, &creator.ID, view.UserID)
}

func TestTrackToleratesUnknownCreator(t *testing.T) {
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, &analyticsUserRepoStub{})

	err := svc.Track(context.Background(), &model.TrackRequest{
		Page:    "/p/hello-world",
		Creator: "nobody",
	}, "visitor-hash", "", "")

	require.NoError(t, err)
	require.Len(t, repo.views, 1)
	require.Nil(t, repo.views[0].UserID)
}

func TestGetUserStatsAssemblesWindow(t *testing.T) {
	repo := &analyticsRepoStub{total: 10, unique: 4, duration: 55}
	svc := NewAnalyticsService(repo, &analyticsUserRepoStub{})

	stats, err := svc.GetUserStats(context.Background(), uuid.New(), "7d")

	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalViews)
	require.Equal(t, 4, stats.UniqueVisitors)
	require.Equal(t, 55, stats.AvgDuration)
	require.Equal(t, map[string]int{"2026-08-01": 3}, stats.ViewsByDay)
	require.Equal(t, map[string]int{"DE": 2, "US": 1}, stats.ViewsByCountry)
}

func TestGetReportNormalizesPeriod(t *testing.T) {
	repo := &analyticsRepoStub{}
	svc := NewAnalyticsService(repo, &analyticsUserRepoStub{})

	for period, want := range map[string]string{
		"7d":      "7d",
		"90d":     "90d",
		"":        "30d",
		"bogus":   "30d",
		"30 days": "30d",
	} {
		report, err := svc.GetReport(context.Background(), uuid.New(), period)
		require.NoError(t, err)
		require.Equal(t, want, report.Period)
	}
}

func TestSinceFromPeriod(t *testing.T) {
	now := time.Now().UTC()

	require.InDelta(t, 7*24*time.Hour, now.Sub(sinceFromPeriod("7d")), float64(time.Minute))
	require.InDelta(t, 30*24*time.Hour, now.Sub(sinceFromPeriod("30d")), float64(time.Minute))
	require.InDelta(t, 90*24*time.Hour, now.Sub(sinceFromPeriod("90d")), float64(time.Minute))
	require.InDelta(t, 30*24*time.Hour, now.Sub(sinceFromPeriod("anything")), float64(time.Minute))
}

func TestExportCSV(t *testing.T) {
	contentID := uuid.New()
	duration := 42
	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	repo := &analyticsRepoStub{stored: []model.PageView{
		{
			Page:      "/p/hello-world",
			ContentID: &contentID,
			VisitorID: "visitor-hash",
			Referrer:  "https://news.example",
			Country:   "DE",
			Duration:  &duration,
			CreatedAt: createdAt,
		},
		{
			Page:      "/about",
			VisitorID: "other-hash",
			CreatedAt: createdAt,
		},
	}}
	svc := NewAnalyticsService(repo, &analyticsUserRepoStub{})

	data, err := svc.ExportCSV(context.Background(), uuid.New(), "30d")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, []string{"date", "page", "content_id", "visitor_id", "referrer", "country", "duration"}, records[0])
	require.Equal(t, []string{
		"2026-08-01T12:00:00Z",
		"/p/hello-world",
		contentID.String(),
		"visitor-hash",
		"https://news.example",
		"DE",
		"42",
	}, records[1])

	// Optional columns stay empty, not "nil".
	require.Equal(t, "", records[2][2])
	require.Equal(t, "", records[2][6])
}
