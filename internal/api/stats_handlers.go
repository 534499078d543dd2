package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clockworkapp/clockwork-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get statistics",
		Description: "Aggregates completed records within the date range into totals and breakdowns",
		Tags:        []string{"Statistics"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStatistics)
}

// GetStatisticsInput contains parameters for the statistics report.
type GetStatisticsInput struct {
	Authorization string `header:"Authorization"`
	StartDate     string `query:"start_date" doc:"Inclusive lower date bound (YYYY-MM-DD)"`
	EndDate       string `query:"end_date" doc:"Inclusive upper date bound (YYYY-MM-DD)"`
}

// StatisticsOutput wraps the statistics report for Huma.
type StatisticsOutput struct {
	Body domain.Statistics
}

func (s *Server) handleGetStatistics(ctx context.Context, input *GetStatisticsInput) (*StatisticsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetStatistics(ctx, userID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	return &StatisticsOutput{Body: *stats}, nil
}
