package service_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/store"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(tmpDir)
	})
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testValidator() *validation.Validator {
	return validation.New()
}
