package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "workSummary", Message: "workSummary is required"},
		{Field: "clockOut", Message: "clockOut must not be before clockIn"},
	}

	m := errs.ToMap()
	assert.Equal(t, "workSummary is required", m["workSummary"])
	assert.Equal(t, "clockOut must not be before clockIn", m["clockOut"])
	assert.Contains(t, errs.Error(), "workSummary: workSummary is required")
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   \t"))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidUUID(t *testing.T) {
	id, err := uuid.NewV7()
	require.NoError(t, err)
	assert.True(t, IsValidUUID(id.String()))

	// v4 is rejected, only v7 ids are issued here.
	assert.False(t, IsValidUUID(uuid.New().String()))
	assert.False(t, IsValidUUID("not-a-uuid"))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2026-02-10")
	assert.True(t, ok)

	_, ok = IsValidDate("10/02/2026")
	assert.False(t, ok)
}

func TestIsValidDateTime(t *testing.T) {
	parsed, ok := IsValidDateTime("2026-02-10T09:00:00Z")
	require.True(t, ok)
	assert.Equal(t, 9, parsed.UTC().Hour())

	_, ok = IsValidDateTime("2026-02-10T09:00:00+07:00")
	assert.True(t, ok)

	_, ok = IsValidDateTime("2026-02-10 09:00:00")
	assert.False(t, ok)
}
