package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_StartStopFlow(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	// Start.
	resp := ts.api.Post("/api/v1/timer/start", map[string]any{},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var started testEnvelope[RecordResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &started)
	require.NoError(t, err)
	assert.True(t, started.Data.IsActive)
	assert.NotEmpty(t, started.Data.ID)
	assert.Zero(t, started.Data.Duration)

	// The running record is visible on the active endpoint.
	resp = ts.api.Get("/api/v1/timer/active", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var active testEnvelope[RecordResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &active)
	require.NoError(t, err)
	assert.Equal(t, started.Data.ID, active.Data.ID)

	// Active records never show up in the completed list.
	resp = ts.api.Get("/api/v1/records", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[ListRecordsResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &list)
	require.NoError(t, err)
	assert.Empty(t, list.Data.Records)

	// Stop.
	resp = ts.api.Post("/api/v1/timer/stop", map[string]any{
		"id":           started.Data.ID,
		"project_name": "Website Redesign",
		"description":  "wireframes",
		"tags":         []string{"design", "design", "ux"},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var stopped testEnvelope[RecordResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &stopped)
	require.NoError(t, err)
	assert.Equal(t, started.Data.ID, stopped.Data.ID)
	assert.False(t, stopped.Data.IsActive)
	assert.Equal(t, "Website Redesign", stopped.Data.ProjectName)
	assert.Equal(t, []string{"design", "ux"}, stopped.Data.Tags)

	// Idle again.
	resp = ts.api.Get("/api/v1/timer/active", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The completed record now shows up in the list.
	resp = ts.api.Get("/api/v1/records", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	err = json.Unmarshal(resp.Body.Bytes(), &list)
	require.NoError(t, err)
	require.Len(t, list.Data.Records, 1)
	assert.Equal(t, started.Data.ID, list.Data.Records[0].ID)
}

func TestTimer_SecondStartConflicts(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/timer/start", map[string]any{},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/timer/start", map[string]any{},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE_RECORD_EXISTS", envelope.Code)
}

func TestTimer_StopRequiresProject(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/timer/start", map[string]any{},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var started testEnvelope[RecordResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &started))

	resp = ts.api.Post("/api/v1/timer/stop", map[string]any{
		"id": started.Data.ID,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)

	// The timer is still running.
	resp = ts.api.Get("/api/v1/timer/active", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestTimer_StopWhenIdle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/timer/stop", map[string]any{
		"id":           "rec-nonexistent",
		"project_name": "Anything",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTimer_ActiveWhenIdle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t)

	resp := ts.api.Get("/api/v1/timer/active", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}
