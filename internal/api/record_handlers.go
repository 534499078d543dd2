package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	"github.com/clockworkapp/clockwork-server/internal/service"
)

func (s *Server) registerRecordRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createRecord",
		Method:      http.MethodPost,
		Path:        "/api/v1/records",
		Summary:     "Create record",
		Description: "Creates a completed time record with all fields known upfront",
		Tags:        []string{"Records"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List records",
		Description: "Returns completed records, newest first, optionally bounded by date range and project",
		Tags:        []string{"Records"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecord",
		Method:      http.MethodPatch,
		Path:        "/api/v1/records/{id}",
		Summary:     "Update record",
		Description: "Overwrites a record's fields, relocating it when the date changes",
		Tags:        []string{"Records"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecord",
		Method:      http.MethodDelete,
		Path:        "/api/v1/records/{id}",
		Summary:     "Delete record",
		Description: "Deletes a record permanently",
		Tags:        []string{"Records"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecord)
}

// === DTOs ===

// RecordPayload is the request body for creating or updating a record.
// Legacy clients may send project/comment instead of project_name/description.
type RecordPayload struct {
	ProjectName string   `json:"project_name,omitempty" doc:"Project the time was spent on"`
	Project     string   `json:"project,omitempty" doc:"Deprecated alias for project_name"`
	Description string   `json:"description,omitempty" doc:"Free-form notes"`
	Comment     string   `json:"comment,omitempty" doc:"Deprecated alias for description"`
	Tags        []string `json:"tags,omitempty" doc:"Labels attached to the record"`
	StartTime   string   `json:"start_time,omitempty" doc:"RFC 3339 start timestamp"`
	EndTime     string   `json:"end_time,omitempty" doc:"RFC 3339 end timestamp"`
	Date        string   `json:"date,omitempty" doc:"Calendar day (YYYY-MM-DD) the record belongs to"`
}

func (p RecordPayload) toDomain() *domain.RecordPayload {
	return &domain.RecordPayload{
		ProjectName: p.ProjectName,
		Project:     p.Project,
		Description: p.Description,
		Comment:     p.Comment,
		Tags:        p.Tags,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Date:        p.Date,
	}
}

// CreateRecordInput wraps the create record request for Huma.
type CreateRecordInput struct {
	Authorization string `header:"Authorization"`
	Body          RecordPayload
}

// RecordResponse contains record data in API responses.
type RecordResponse struct {
	ID          string    `json:"id" doc:"Record ID"`
	ProjectName string    `json:"project_name" doc:"Project the time was spent on"`
	Description string    `json:"description,omitempty" doc:"Free-form notes"`
	Tags        []string  `json:"tags,omitempty" doc:"Labels attached to the record"`
	StartTime   time.Time `json:"start_time" doc:"Start timestamp"`
	EndTime     time.Time `json:"end_time,omitzero" doc:"End timestamp, absent while active"`
	Date        string    `json:"date" doc:"Calendar day (YYYY-MM-DD)"`
	Duration    int       `json:"duration" doc:"Whole minutes between start and end"`
	IsActive    bool      `json:"is_active" doc:"Whether the record is currently being timed"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// RecordOutput wraps a single record response for Huma.
type RecordOutput struct {
	Body RecordResponse
}

// ListRecordsInput contains parameters for listing records.
type ListRecordsInput struct {
	Authorization string `header:"Authorization"`
	StartDate     string `query:"start_date" doc:"Inclusive lower date bound (YYYY-MM-DD)"`
	EndDate       string `query:"end_date" doc:"Inclusive upper date bound (YYYY-MM-DD)"`
	Project       string `query:"project" doc:"Exact project name filter"`
	Limit         int    `query:"limit" doc:"Maximum records to return (default 50, capped at 500)"`
}

// ListRecordsResponse contains a list of records.
type ListRecordsResponse struct {
	Records []RecordResponse `json:"records" doc:"Matching records, newest first"`
}

// ListRecordsOutput wraps the list records response for Huma.
type ListRecordsOutput struct {
	Body ListRecordsResponse
}

// UpdateRecordInput wraps the update record request for Huma.
type UpdateRecordInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Record ID"`
	Body          RecordPayload
}

// DeleteRecordInput contains parameters for deleting a record.
type DeleteRecordInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Record ID"`
}

// DeleteRecordOutput is the empty response for a successful delete.
type DeleteRecordOutput struct {
	Status int
}

// === Handlers ===

func (s *Server) handleCreateRecord(ctx context.Context, input *CreateRecordInput) (*RecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Records.Create(ctx, userID, input.Body.toDomain())
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: mapRecord(record)}, nil
}

func (s *Server) handleListRecords(ctx context.Context, input *ListRecordsInput) (*ListRecordsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	records, err := s.services.Records.List(ctx, userID, service.ListQuery{
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ProjectName: input.Project,
		Limit:       input.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := ListRecordsResponse{Records: make([]RecordResponse, 0, len(records))}
	for _, r := range records {
		out.Records = append(out.Records, mapRecord(r))
	}
	return &ListRecordsOutput{Body: out}, nil
}

func (s *Server) handleUpdateRecord(ctx context.Context, input *UpdateRecordInput) (*RecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	record, err := s.services.Records.Update(ctx, userID, input.ID, input.Body.toDomain())
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: mapRecord(record)}, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, input *DeleteRecordInput) (*DeleteRecordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Records.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &DeleteRecordOutput{Status: http.StatusNoContent}, nil
}

func mapRecord(r *domain.TimeRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		ProjectName: r.ProjectName,
		Description: r.Description,
		Tags:        r.Tags,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Date:        r.Date,
		Duration:    r.Duration,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
