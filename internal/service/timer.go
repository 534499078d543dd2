// Package service implements the application's business logic on top of the
// store: the timer state machine, record management, statistics, and
// authentication.
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

// TimerService drives the per-user timer state machine: a user is either
// idle or running exactly one active record. The invariant is enforced by
// the store's transactional start, not by any in-process state, so it
// survives restarts and holds across concurrent requests.
type TimerService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTimerService creates a new timer service.
func NewTimerService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *TimerService {
	return &TimerService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Start begins a new timer for the user. Fails with ActiveRecordExists if a
// timer is already running; nothing is written in that case.
//
// Start is not idempotent: each call mints a fresh record ID, so a client
// retrying after a timeout can be told ActiveRecordExists by its own
// earlier attempt.
func (s *TimerService) Start(ctx context.Context, userID string) (*domain.TimeRecord, error) {
	recordID, err := id.Generate("rec")
	if err != nil {
		return nil, fmt.Errorf("generate record ID: %w", err)
	}

	record := domain.NewActiveRecord(recordID, userID, time.Now())

	if err := s.store.StartActive(ctx, record); err != nil {
		if errors.Is(err, store.ErrActiveExists) {
			return nil, domainerrors.ActiveRecordExists("a timer is already running")
		}
		return nil, storeFailure("start timer", err)
	}

	s.logger.Info("timer started", "user_id", userID, "record_id", record.ID)
	return record, nil
}

// GetActive returns the user's running record, or NotFound when idle.
func (s *TimerService) GetActive(ctx context.Context, userID string) (*domain.TimeRecord, error) {
	record, err := s.store.GetActiveRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveRecord) {
			return nil, domainerrors.NotFound("no active timer")
		}
		return nil, storeFailure("get active timer", err)
	}
	return record, nil
}

// Stop completes the running record identified by recordID. The project
// name becomes mandatory here; description and tags are optional
// refinements of the running record. This is the only path that derives a
// duration from the live clock.
func (s *TimerService) Stop(ctx context.Context, userID, recordID string, payload *domain.StopPayload) (*domain.TimeRecord, error) {
	payload.Normalize()
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	record, err := s.store.GetActiveRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveRecord) {
			return nil, domainerrors.NotFound("no active timer")
		}
		return nil, storeFailure("stop timer", err)
	}
	if record.ID != recordID {
		return nil, domainerrors.NotFound("active timer does not match the given record")
	}

	record.Stop(payload.ProjectName, payload.Description, payload.Tags, time.Now())

	if err := s.store.CompleteActive(ctx, record); err != nil {
		if errors.Is(err, store.ErrNoActiveRecord) {
			return nil, domainerrors.NotFound("no active timer")
		}
		return nil, storeFailure("stop timer", err)
	}

	s.logger.Info("timer stopped",
		"user_id", userID,
		"record_id", record.ID,
		"project", record.ProjectName,
		"duration_min", record.Duration,
	)
	return record, nil
}

// storeFailure wraps unexpected store errors as StoreUnavailable. A failed
// or timed-out store call is an unknown outcome for non-idempotent writes,
// which is exactly what the 503 semantics communicate to a retrying client.
func storeFailure(op string, err error) error {
	return domainerrors.Wrap(err, domainerrors.CodeUnavailable, op+" failed")
}
