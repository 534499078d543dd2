package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clockworkapp/clockwork-server/internal/domain"
)

func (s *Server) registerTimerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startTimer",
		Method:      http.MethodPost,
		Path:        "/api/v1/timer/start",
		Summary:     "Start timer",
		Description: "Begins a new active record. Fails with 409 if a timer is already running.",
		Tags:        []string{"Timer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartTimer)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActiveTimer",
		Method:      http.MethodGet,
		Path:        "/api/v1/timer/active",
		Summary:     "Get active timer",
		Description: "Returns the currently running record, or 404 when idle",
		Tags:        []string{"Timer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetActiveTimer)

	huma.Register(s.api, huma.Operation{
		OperationID: "stopTimer",
		Method:      http.MethodPost,
		Path:        "/api/v1/timer/stop",
		Summary:     "Stop timer",
		Description: "Completes the running record, assigning it a project and computing its duration",
		Tags:        []string{"Timer"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStopTimer)
}

// === DTOs ===

// StartTimerInput contains parameters for starting a timer.
type StartTimerInput struct {
	Authorization string `header:"Authorization"`
}

// GetActiveTimerInput contains parameters for reading the active timer.
type GetActiveTimerInput struct {
	Authorization string `header:"Authorization"`
}

// StopTimerRequest is the request body for stopping the active timer.
type StopTimerRequest struct {
	ID          string   `json:"id,omitempty" doc:"ID of the running record"`
	ProjectName string   `json:"project_name,omitempty" doc:"Project the time was spent on"`
	Project     string   `json:"project,omitempty" doc:"Deprecated alias for project_name"`
	Description string   `json:"description,omitempty" doc:"Free-form notes"`
	Comment     string   `json:"comment,omitempty" doc:"Deprecated alias for description"`
	Tags        []string `json:"tags,omitempty" doc:"Labels attached to the record"`
}

// StopTimerInput wraps the stop timer request for Huma.
type StopTimerInput struct {
	Authorization string `header:"Authorization"`
	Body          StopTimerRequest
}

// === Handlers ===

func (s *Server) handleStartTimer(ctx context.Context, input *StartTimerInput) (*RecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Timer.Start(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: mapRecord(record)}, nil
}

func (s *Server) handleGetActiveTimer(ctx context.Context, input *GetActiveTimerInput) (*RecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Timer.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: mapRecord(record)}, nil
}

func (s *Server) handleStopTimer(ctx context.Context, input *StopTimerInput) (*RecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Timer.Stop(ctx, userID, input.Body.ID, &domain.StopPayload{
		ProjectName: input.Body.ProjectName,
		Project:     input.Body.Project,
		Description: input.Body.Description,
		Comment:     input.Body.Comment,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: mapRecord(record)}, nil
}
