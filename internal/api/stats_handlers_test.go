package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/domain"
)

func TestGetStatistics_Aggregates(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	ts.createTestRecord(t, token, map[string]any{
		"project_name": "Alpha",
		"tags":         []string{"deep-work"},
		"date":         "2024-03-10",
		"start_time":   "2024-03-10T09:00:00Z",
		"end_time":     "2024-03-10T10:00:00Z",
	})
	ts.createTestRecord(t, token, map[string]any{
		"project_name": "Alpha",
		"date":         "2024-03-10",
		"start_time":   "2024-03-10T11:00:00Z",
		"end_time":     "2024-03-10T11:30:00Z",
	})
	ts.createTestRecord(t, token, map[string]any{
		"project_name": "Beta",
		"tags":         []string{"deep-work"},
		"date":         "2024-03-12",
		"start_time":   "2024-03-12T09:00:00Z",
		"end_time":     "2024-03-12T10:30:00Z",
	})

	resp := ts.api.Get("/api/v1/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[domain.Statistics]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	stats := envelope.Data
	assert.Equal(t, 180, stats.TotalDuration)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, 90, stats.AverageDailyTime)
	assert.Equal(t, 60, stats.AverageSessionDuration)

	require.Len(t, stats.ProjectBreakdown, 2)
	assert.Equal(t, 90, stats.ProjectBreakdown[0].Duration)
	assert.Equal(t, 90, stats.ProjectBreakdown[1].Duration)
	assert.InDelta(t, 50.0, stats.ProjectBreakdown[0].Percentage, 0.01)

	require.Len(t, stats.TagBreakdown, 1)
	assert.Equal(t, "deep-work", stats.TagBreakdown[0].Tag)
	assert.Equal(t, 150, stats.TagBreakdown[0].Duration)

	require.Len(t, stats.DailyTotals, 2)
	assert.Equal(t, "2024-03-10", stats.DailyTotals[0].Date)
	assert.Equal(t, 90, stats.DailyTotals[0].Duration)
	assert.Equal(t, "2024-03-12", stats.DailyTotals[1].Date)
	assert.Equal(t, 90, stats.DailyTotals[1].Duration)
}

func TestGetStatistics_DateBounds(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	ts.createTestRecord(t, token, recordBody("Alpha", "2024-03-10", "2024-03-10T09:00:00Z", "2024-03-10T10:00:00Z"))
	ts.createTestRecord(t, token, recordBody("Beta", "2024-03-20", "2024-03-20T09:00:00Z", "2024-03-20T10:00:00Z"))

	resp := ts.api.Get("/api/v1/stats?start_date=2024-03-15&end_date=2024-03-31",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[domain.Statistics]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, 1, envelope.Data.TotalRecords)
	assert.Equal(t, 60, envelope.Data.TotalDuration)
	require.Len(t, envelope.Data.ProjectBreakdown, 1)
	assert.Equal(t, "Beta", envelope.Data.ProjectBreakdown[0].ProjectName)
}

func TestGetStatistics_EmptyWindow(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	resp := ts.api.Get("/api/v1/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[domain.Statistics]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Zero(t, envelope.Data.TotalDuration)
	assert.Zero(t, envelope.Data.TotalRecords)
	assert.Empty(t, envelope.Data.ProjectBreakdown)
}

func TestGetStatistics_ExcludesActiveTimer(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	ts.createTestRecord(t, token, recordBody("Alpha", "2024-03-10", "2024-03-10T09:00:00Z", "2024-03-10T10:00:00Z"))

	resp := ts.api.Post("/api/v1/timer/start", map[string]any{},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[domain.Statistics]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.TotalRecords)
}
