package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	domainerrors "github.com/clockworkapp/clockwork-server/internal/errors"
	"github.com/clockworkapp/clockwork-server/internal/id"
	"github.com/clockworkapp/clockwork-server/internal/store"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

const (
	// defaultListLimit caps listings when the client does not ask for one.
	defaultListLimit = 50
	// maxListLimit is the hard ceiling regardless of what the client asks.
	maxListLimit = 500
)

// RecordService manages completed records: create, list, update, delete.
// Active records never pass through here; they belong to TimerService.
type RecordService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecordService creates a new record service.
func NewRecordService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *RecordService {
	return &RecordService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// ListQuery narrows a listing. Dates are inclusive YYYY-MM-DD bounds.
type ListQuery struct {
	StartDate   string
	EndDate     string
	ProjectName string
	Limit       int
}

// Create validates the payload and writes a completed record. Duration is
// derived from the supplied start/end pair.
//
// Like Start, Create is not idempotent: a retry after an unknown outcome
// can produce a duplicate record under a fresh ID.
func (s *RecordService) Create(ctx context.Context, userID string, payload *domain.RecordPayload) (*domain.TimeRecord, error) {
	payload.Normalize()
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	recordID, err := id.Generate("rec")
	if err != nil {
		return nil, fmt.Errorf("generate record ID: %w", err)
	}

	record := domain.NewTimeRecord(recordID, userID, payload, time.Now())
	if err := s.store.PutRecord(ctx, record); err != nil {
		return nil, storeFailure("create record", err)
	}

	s.logger.Info("record created",
		"user_id", userID,
		"record_id", record.ID,
		"project", record.ProjectName,
		"date", record.Date,
	)
	return record, nil
}

// List returns completed records matching the query, newest first. The
// running record, if any, is never included.
func (s *RecordService) List(ctx context.Context, userID string, q ListQuery) ([]*domain.TimeRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	opts := store.QueryOptions{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Descending: true,
	}
	// A project filter drops records after the scan, so the store-level cap
	// can only be applied when there is no filter.
	if q.ProjectName == "" {
		opts.Limit = limit
	}

	records, err := s.store.QueryRecords(ctx, userID, opts)
	if err != nil {
		return nil, storeFailure("list records", err)
	}

	if q.ProjectName != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.ProjectName == q.ProjectName {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Update validates the payload and overwrites the record's mutable fields.
// When the date changed, the record is relocated to its new address in one
// atomic step; identity (ID, CreatedAt) is preserved either way.
func (s *RecordService) Update(ctx context.Context, userID, recordID string, payload *domain.RecordPayload) (*domain.TimeRecord, error) {
	payload.Normalize()
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	record, err := s.store.FindRecordByID(ctx, userID, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("record not found")
		}
		return nil, storeFailure("update record", err)
	}
	if record.IsActive {
		return nil, domainerrors.NotFound("record not found")
	}

	oldDate := record.Date
	record.ApplyUpdate(payload, time.Now())

	if record.Date == oldDate {
		if err := s.store.PutRecord(ctx, record); err != nil {
			return nil, storeFailure("update record", err)
		}
	} else {
		if err := s.store.RelocateRecord(ctx, record, oldDate); err != nil {
			return nil, storeFailure("update record", err)
		}
		s.logger.Info("record relocated",
			"user_id", userID,
			"record_id", record.ID,
			"from_date", oldDate,
			"to_date", record.Date,
		)
	}

	return record, nil
}

// Delete removes a record. A second delete of the same record reports
// NotFound rather than succeeding silently.
func (s *RecordService) Delete(ctx context.Context, userID, recordID string) error {
	record, err := s.store.FindRecordByID(ctx, userID, recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domainerrors.NotFound("record not found")
		}
		return storeFailure("delete record", err)
	}
	if record.IsActive {
		return domainerrors.NotFound("record not found")
	}

	if err := s.store.DeleteRecord(ctx, userID, record.Date, record.ID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domainerrors.NotFound("record not found")
		}
		return storeFailure("delete record", err)
	}

	s.logger.Info("record deleted", "user_id", userID, "record_id", recordID)
	return nil
}
