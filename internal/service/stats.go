package service

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	"github.com/clockworkapp/clockwork-server/internal/store"
)

// StatsService computes reporting statistics over a user's completed
// records. Reports are a pure fold over the queried records and are
// recomputed on every request.
type StatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// GetStatistics aggregates the user's records within the inclusive date
// bounds. Empty bounds mean all history. The running record, if any, is
// not part of the input.
func (s *StatsService) GetStatistics(ctx context.Context, userID, startDate, endDate string) (*domain.Statistics, error) {
	records, err := s.store.QueryRecords(ctx, userID, store.QueryOptions{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, storeFailure("load records for statistics", err)
	}

	stats := Aggregate(records)
	stats.StartDate = startDate
	stats.EndDate = endDate

	s.logger.Debug("statistics computed",
		"user_id", userID,
		"records", stats.TotalRecords,
		"total_min", stats.TotalDuration,
	)
	return stats, nil
}

// Aggregate folds a set of completed records into a Statistics report.
func Aggregate(records []*domain.TimeRecord) *domain.Statistics {
	stats := &domain.Statistics{
		ProjectBreakdown: []domain.ProjectTotal{},
		TagBreakdown:     []domain.TagTotal{},
		DailyTotals:      []domain.DayTotal{},
	}

	projectTotals := make(map[string]int)
	tagTotals := make(map[string]int)
	dayTotals := make(map[string]int)

	for _, r := range records {
		stats.TotalRecords++
		stats.TotalDuration += r.Duration
		projectTotals[r.ProjectName] += r.Duration
		dayTotals[r.Date] += r.Duration
		// A record contributes its full duration to each of its tags; tags
		// are not mutually exclusive.
		for _, tag := range r.Tags {
			tagTotals[tag] += r.Duration
		}
	}

	for name, duration := range projectTotals {
		stats.ProjectBreakdown = append(stats.ProjectBreakdown, domain.ProjectTotal{
			ProjectName: name,
			Duration:    duration,
			Percentage:  percentage(duration, stats.TotalDuration),
		})
	}
	slices.SortFunc(stats.ProjectBreakdown, func(a, b domain.ProjectTotal) int {
		if a.Duration != b.Duration {
			return b.Duration - a.Duration
		}
		return strings.Compare(a.ProjectName, b.ProjectName)
	})

	for tag, duration := range tagTotals {
		stats.TagBreakdown = append(stats.TagBreakdown, domain.TagTotal{
			Tag:        tag,
			Duration:   duration,
			Percentage: percentage(duration, stats.TotalDuration),
		})
	}
	slices.SortFunc(stats.TagBreakdown, func(a, b domain.TagTotal) int {
		if a.Duration != b.Duration {
			return b.Duration - a.Duration
		}
		return strings.Compare(a.Tag, b.Tag)
	})

	for date, duration := range dayTotals {
		stats.DailyTotals = append(stats.DailyTotals, domain.DayTotal{
			Date:     date,
			Duration: duration,
		})
	}
	slices.SortFunc(stats.DailyTotals, func(a, b domain.DayTotal) int {
		return strings.Compare(a.Date, b.Date)
	})

	stats.TotalDays = len(stats.DailyTotals)
	if stats.TotalDays > 0 {
		stats.AverageDailyTime = int(math.Round(float64(stats.TotalDuration) / float64(stats.TotalDays)))
	}
	if stats.TotalRecords > 0 {
		stats.AverageSessionDuration = int(math.Round(float64(stats.TotalDuration) / float64(stats.TotalRecords)))
	}

	return stats
}

// percentage returns duration as a share of total, 0 when total is 0.
func percentage(duration, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(duration) / float64(total)
}
