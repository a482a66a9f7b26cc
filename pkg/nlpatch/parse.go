package nlpatch

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/apperr"
)

// OffMarker is the oracle's sentinel for "no job, not working" in a pin
// edit's new_job_type field (spec §4.5).
const OffMarker = "休み"

// PinEdit names a single (employee, date) cell and its target category or
// OffMarker.
type PinEdit struct {
	EmployeeName string
	Date         string // YYYY-MM-DD
	NewJobType   string
}

// AdjustEdit changes an aggregate (employee, category) count over the month.
type AdjustEdit struct {
	EmployeeName string
	JobCategory  string
	Action       store.AdjustAction
	Amount       *int
}

type rawEdit struct {
	Type         string `json:"type"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	NewJobType   string `json:"new_job_type"`
	JobType      string `json:"job_type"`
	Action       string `json:"action"`
	Amount       *int   `json:"amount"`
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// ParseEdits tolerantly extracts the pin/adjust array from an oracle's raw
// response: it strips markdown fences and surrounding prose, repairs
// trailing commas, then unmarshals (spec §4.5, §6).
func ParseEdits(raw string) (pins []PinEdit, adjusts []AdjustEdit, err error) {
	cleaned := stripCodeFence(raw)
	cleaned = extractArray(cleaned)
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")

	var entries []rawEdit
	if jsonErr := json.Unmarshal([]byte(cleaned), &entries); jsonErr != nil {
		return nil, nil, apperr.OracleFailure(jsonErr)
	}

	for _, e := range entries {
		switch e.Type {
		case "pin":
			pins = append(pins, PinEdit{
				EmployeeName: e.EmployeeName,
				Date:         e.Date,
				NewJobType:   e.NewJobType,
			})
		case "adjust":
			adjusts = append(adjusts, AdjustEdit{
				EmployeeName: e.EmployeeName,
				JobCategory:  e.JobType,
				Action:       store.AdjustAction(e.Action),
				Amount:       e.Amount,
			})
		}
	}
	return pins, adjusts, nil
}

func stripCodeFence(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	var out []string
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```") && !inBlock:
			inBlock = true
		case strings.HasPrefix(trimmed, "```") && inBlock:
			inBlock = false
		case inBlock:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func extractArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
