package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	"github.com/clockworkapp/clockwork-server/internal/store"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "record-store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func completedRecord(id, userID, date string) *domain.TimeRecord {
	start, _ := time.Parse(time.RFC3339, date+"T09:00:00Z")
	end := start.Add(time.Hour)
	now := time.Now()
	return &domain.TimeRecord{
		ID:          id,
		UserID:      userID,
		ProjectName: "website",
		StartTime:   start,
		EndTime:     end,
		Date:        date,
		Duration:    60,
		IsActive:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPutAndGetRecord(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := completedRecord("rec-1", "usr-1", "2026-03-14")

	require.NoError(t, s.PutRecord(ctx, rec))

	got, err := s.GetRecord(ctx, "usr-1", "2026-03-14", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.ProjectName, got.ProjectName)
	assert.Equal(t, 60, got.Duration)
}

func TestGetRecordNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetRecord(context.Background(), "usr-1", "2026-03-14", "rec-missing")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestFindRecordByID(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.PutRecord(ctx, completedRecord("rec-a", "usr-1", "2026-03-10")))
	require.NoError(t, s.PutRecord(ctx, completedRecord("rec-b", "usr-1", "2026-03-12")))

	got, err := s.FindRecordByID(ctx, "usr-1", "rec-b")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-12", got.Date)

	_, err = s.FindRecordByID(ctx, "usr-1", "rec-c")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	// Records belong to their partition only.
	_, err = s.FindRecordByID(ctx, "usr-2", "rec-a")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestQueryRecordsOrderingAndBounds(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	dates := []string{"2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13"}
	for i, date := range dates {
		rec := completedRecord(fmt.Sprintf("rec-%d", i), "usr-1", date)
		require.NoError(t, s.PutRecord(ctx, rec))
	}
	// Another user's records must not leak into the scan.
	require.NoError(t, s.PutRecord(ctx, completedRecord("rec-x", "usr-2", "2026-03-11")))

	t.Run("ascending unbounded", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "2026-03-10", got[0].Date)
		assert.Equal(t, "2026-03-13", got[3].Date)
	})

	t.Run("descending unbounded", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{Descending: true})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "2026-03-13", got[0].Date)
		assert.Equal(t, "2026-03-10", got[3].Date)
	})

	t.Run("inclusive date bounds", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{
			StartDate: "2026-03-11",
			EndDate:   "2026-03-12",
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2026-03-11", got[0].Date)
		assert.Equal(t, "2026-03-12", got[1].Date)
	})

	t.Run("descending with bounds", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{
			StartDate:  "2026-03-11",
			EndDate:    "2026-03-12",
			Descending: true,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2026-03-12", got[0].Date)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{Descending: true, Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2026-03-13", got[0].Date)
		assert.Equal(t, "2026-03-12", got[1].Date)
	})

	t.Run("empty range", func(t *testing.T) {
		got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{
			StartDate: "2027-01-01",
			EndDate:   "2027-12-31",
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestQueryRecordsExcludesActive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.PutRecord(ctx, completedRecord("rec-1", "usr-1", "2026-03-14")))

	active := domain.NewActiveRecord("rec-2", "usr-1", time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.StartActive(ctx, active))

	got, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-1", got[0].ID)
}

func TestDeleteRecord(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.PutRecord(ctx, completedRecord("rec-1", "usr-1", "2026-03-14")))

	require.NoError(t, s.DeleteRecord(ctx, "usr-1", "2026-03-14", "rec-1"))

	_, err := s.GetRecord(ctx, "usr-1", "2026-03-14", "rec-1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	// Deleting again reports not found rather than succeeding silently.
	err = s.DeleteRecord(ctx, "usr-1", "2026-03-14", "rec-1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestRelocateRecord(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := completedRecord("rec-1", "usr-1", "2026-03-14")
	require.NoError(t, s.PutRecord(ctx, rec))

	rec.Date = "2026-03-20"
	require.NoError(t, s.RelocateRecord(ctx, rec, "2026-03-14"))

	got, err := s.GetRecord(ctx, "usr-1", "2026-03-20", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", got.ID)

	_, err = s.GetRecord(ctx, "usr-1", "2026-03-14", "rec-1")
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestStartActiveAndGetActive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := s.GetActiveRecord(ctx, "usr-1")
	assert.ErrorIs(t, err, store.ErrNoActiveRecord)

	active := domain.NewActiveRecord("rec-1", "usr-1", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, s.StartActive(ctx, active))

	got, err := s.GetActiveRecord(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "rec-1", got.ID)
	assert.True(t, got.IsActive)

	// A second start for the same user is rejected outright.
	second := domain.NewActiveRecord("rec-2", "usr-1", time.Now())
	err = s.StartActive(ctx, second)
	assert.ErrorIs(t, err, store.ErrActiveExists)

	// Other users are unaffected.
	other := domain.NewActiveRecord("rec-3", "usr-2", time.Now())
	require.NoError(t, s.StartActive(ctx, other))
}

func TestStartActiveConcurrent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := domain.NewActiveRecord(fmt.Sprintf("rec-%d", i), "usr-1", time.Now())
			errs[i] = s.StartActive(ctx, rec)
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, store.ErrActiveExists)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent start must win")

	_, err := s.GetActiveRecord(ctx, "usr-1")
	assert.NoError(t, err)
}

func TestCompleteActive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	active := domain.NewActiveRecord("rec-1", "usr-1", start)
	require.NoError(t, s.StartActive(ctx, active))

	active.Stop("website", "done", []string{"ops"}, start.Add(30*time.Minute))
	require.NoError(t, s.CompleteActive(ctx, active))

	_, err := s.GetActiveRecord(ctx, "usr-1")
	assert.ErrorIs(t, err, store.ErrNoActiveRecord)

	got, err := s.GetRecord(ctx, "usr-1", "2026-03-14", "rec-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 30, got.Duration)

	// The stopped record now shows up in range queries.
	listed, err := s.QueryRecords(ctx, "usr-1", store.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// And the user can start a fresh timer.
	require.NoError(t, s.StartActive(ctx, domain.NewActiveRecord("rec-2", "usr-1", time.Now())))
}
