package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/domain"
	domainerrors "github.com/clockworkapp/clockwork-server/internal/errors"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

func validPayload() domain.RecordPayload {
	return domain.RecordPayload{
		ProjectName: "website",
		StartTime:   "2026-03-14T09:00:00Z",
		EndTime:     "2026-03-14T10:00:00Z",
		Date:        "2026-03-14",
	}
}

func violations(t *testing.T, err error) []string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
	details, ok := domainErr.Details.([]string)
	require.True(t, ok, "details should be the violation list")
	return details
}

func TestValidator_ValidRecordPayload(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validPayload()))
}

func TestValidator_CollectsAllViolationsInOrder(t *testing.T) {
	v := validation.New()

	p := domain.RecordPayload{
		StartTime: "not-a-timestamp",
		EndTime:   "also-not",
		Date:      "03/14/2026",
	}

	got := violations(t, v.Validate(p))
	assert.Equal(t, []string{
		"project_name is required",
		"start_time must be a valid RFC 3339 timestamp",
		"end_time must be a valid RFC 3339 timestamp",
		"date must be a valid date in YYYY-MM-DD form",
	}, got)
}

func TestValidator_EndMustFollowStart(t *testing.T) {
	v := validation.New()

	p := validPayload()
	p.StartTime, p.EndTime = p.EndTime, p.StartTime

	got := violations(t, v.Validate(p))
	assert.Equal(t, []string{"end_time must be after start_time"}, got)
}

func TestValidator_OrderingSkippedWhenTimestampMalformed(t *testing.T) {
	v := validation.New()

	p := validPayload()
	p.EndTime = "garbage"

	got := violations(t, v.Validate(p))
	assert.Equal(t, []string{"end_time must be a valid RFC 3339 timestamp"}, got)
}

func TestValidator_AliasFieldsIgnored(t *testing.T) {
	v := validation.New()

	// Aliases are folded by Normalize before validation; the validator
	// itself only judges the canonical fields.
	p := validPayload()
	p.ProjectName = ""
	p.Project = "website"
	p.Normalize()

	assert.NoError(t, v.Validate(p))
}

func TestValidator_StopPayload(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(domain.StopPayload{ProjectName: "website"}))

	got := violations(t, v.Validate(domain.StopPayload{}))
	assert.Equal(t, []string{"project_name is required"}, got)
}
