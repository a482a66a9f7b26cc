package nlpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdits_PlainArray(t *testing.T) {
	raw := `[
		{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "skilled"},
		{"type": "adjust", "employee_name": "Sato", "job_type": "data", "action": "increase", "amount": 2}
	]`

	pins, adjusts, err := ParseEdits(raw)
	require.NoError(t, err)
	require.Len(t, pins, 1)
	require.Len(t, adjusts, 1)

	assert.Equal(t, "Tanaka", pins[0].EmployeeName)
	assert.Equal(t, "2026-03-05", pins[0].Date)
	assert.Equal(t, "skilled", pins[0].NewJobType)

	assert.Equal(t, "Sato", adjusts[0].EmployeeName)
	assert.Equal(t, "data", adjusts[0].JobCategory)
	require.NotNil(t, adjusts[0].Amount)
	assert.Equal(t, 2, *adjusts[0].Amount)
}

func TestParseEdits_FencedWithProse(t *testing.T) {
	raw := "Here is the requested edit list:\n```json\n[\n  {\"type\": \"pin\", \"employee_name\": \"Tanaka\", \"date\": \"2026-03-05\", \"new_job_type\": \"休み\"}\n]\n```\nLet me know if you need anything else."

	pins, adjusts, err := ParseEdits(raw)
	require.NoError(t, err)
	assert.Empty(t, adjusts)
	require.Len(t, pins, 1)
	assert.Equal(t, OffMarker, pins[0].NewJobType)
}

func TestParseEdits_TrailingComma(t *testing.T) {
	raw := `[
		{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "skilled",},
	]`

	pins, _, err := ParseEdits(raw)
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "Tanaka", pins[0].EmployeeName)
}

func TestParseEdits_Malformed(t *testing.T) {
	_, _, err := ParseEdits("not json at all")
	assert.Error(t, err)
}
