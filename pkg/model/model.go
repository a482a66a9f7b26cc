// Package model defines the core data model of the shift scheduler.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Doubled returns the integer-scaled (×2) representation of a 0.5-step
// quantity, matching the constraint model's integer scaling (spec §4.1).
func Doubled(d decimal.Decimal) int64 {
	return d.Mul(two).IntPart()
}

// FromDoubled converts an integer-scaled (×2) quantity back to its
// 0.5-step decimal representation.
func FromDoubled(scaled int64) decimal.Decimal {
	return decimal.NewFromInt(scaled).Div(two)
}

// EmploymentType classifies how an employee is engaged.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full_time"
	EmploymentDependent EmploymentType = "dependent"
)

// Canonical job category ids. Lower id means higher priority; categories
// 1 and 2 additionally carry the "exactly one person per working day" rule.
const (
	CategorySkilled    = 1
	CategorySubSkilled = 2
	CategoryData       = 3
	CategoryOther      = 4
)

// IsOnePerDay reports whether the given job category must have exactly one
// assignment per working date (HC-06).
func IsOnePerDay(jobCategoryID int) bool {
	return jobCategoryID == CategorySkilled || jobCategoryID == CategorySubSkilled
}

// JobCategory is one of the canonical job kinds.
type JobCategory struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Color    string `json:"color,omitempty" db:"color"`
}

// Employee is a roster member.
type Employee struct {
	ID             int64          `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	EmploymentType EmploymentType `json:"employment_type" db:"employment_type"`
	SortOrder      int            `json:"sort_order" db:"sort_order"`
	Qualifications []int          `json:"qualifications" db:"-"`
}

// HasQualification reports whether the employee may be assigned to jobCategoryID.
func (e *Employee) HasQualification(jobCategoryID int) bool {
	for _, q := range e.Qualifications {
		if q == jobCategoryID {
			return true
		}
	}
	return false
}

// Period is the portion of a day a day-off request covers.
type Period string

const (
	PeriodAM     Period = "am"
	PeriodPM     Period = "pm"
	PeriodAllDay Period = "all_day"
)

// DayOffRequest is one row of an employee's requested time off. Multiple
// rows for the same (employee, date) are unioned by the caller.
type DayOffRequest struct {
	EmployeeID int64     `json:"employee_id" db:"employee_id"`
	Date       time.Time `json:"date" db:"date"`
	Period     Period    `json:"period" db:"period"`
	Note       string    `json:"note,omitempty" db:"note"`
}

// WorkDaysTarget is a per-employee monthly work-days preference: "1".."23",
// "max", or empty for "no personal target".
type WorkDaysTarget string

// IsMax reports whether the target asks the optimizer to maximize work days.
func (t WorkDaysTarget) IsMax() bool {
	return string(t) == "max"
}

// IsAbsent reports whether no personal target was requested.
func (t WorkDaysTarget) IsAbsent() bool {
	return string(t) == ""
}

// Numeric returns the target as an integer day count and true, or
// (0, false) when the target is "max" or absent.
func (t WorkDaysTarget) Numeric() (int, bool) {
	if t.IsMax() || t.IsAbsent() {
		return 0, false
	}
	n := 0
	for _, r := range string(t) {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > 23 {
		return 0, false
	}
	return n, true
}

// DailyRequirement is the staffing need for one (date, job category).
// RequiredCount steps in halves (e.g. 0.5, 1.0, 1.5, ...).
type DailyRequirement struct {
	Date          time.Time       `json:"date" db:"date"`
	JobCategoryID int             `json:"job_category_id" db:"job_category_id"`
	RequiredCount decimal.Decimal `json:"required_count" db:"required_count"`
}

// ISODate formats t as "YYYY-MM-DD".
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseISODate parses a "YYYY-MM-DD" string as UTC midnight.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
