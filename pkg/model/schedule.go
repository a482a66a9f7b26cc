package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleStatus is the lifecycle state of a Schedule.
type ScheduleStatus string

const (
	StatusDraft     ScheduleStatus = "draft"
	StatusPreview   ScheduleStatus = "preview"
	StatusConfirmed ScheduleStatus = "confirmed"
	StatusPublished ScheduleStatus = "published"
)

// validTransitions enumerates the status graph: forward promotion plus the
// universal "back to draft" revision transition (spec §4, State machines).
var validTransitions = map[ScheduleStatus]map[ScheduleStatus]bool{
	StatusDraft:     {StatusPreview: true},
	StatusPreview:   {StatusConfirmed: true, StatusDraft: true},
	StatusConfirmed: {StatusPublished: true, StatusDraft: true},
	StatusPublished: {StatusDraft: true},
}

// Schedule is one generated or patched month-long roster.
type Schedule struct {
	ID          int64          `json:"id" db:"id"`
	TargetMonth string         `json:"target_month" db:"target_month"` // "YYYY-MM"
	Status      ScheduleStatus `json:"status" db:"status"`
	GeneratedAt time.Time      `json:"generated_at" db:"generated_at"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty" db:"confirmed_at"`
}

// Transition moves the schedule to newStatus if the transition is legal,
// setting ConfirmedAt exactly when moving preview -> confirmed.
func (s *Schedule) Transition(newStatus ScheduleStatus) error {
	allowed, ok := validTransitions[s.Status]
	if !ok || !allowed[newStatus] {
		return fmt.Errorf("illegal status transition %s -> %s", s.Status, newStatus)
	}
	if s.Status == StatusPreview && newStatus == StatusConfirmed {
		now := time.Now()
		s.ConfirmedAt = &now
	}
	s.Status = newStatus
	return nil
}

// WorkType classifies what an Assignment represents for one (employee, date).
type WorkType string

const (
	WorkFull          WorkType = "full"
	WorkMorningHalf   WorkType = "morning_half"
	WorkAfternoonHalf WorkType = "afternoon_half"
	WorkOff           WorkType = "off"
)

// Assignment is exactly one cell of a schedule: what an employee does (or
// doesn't) on a given date.
type Assignment struct {
	ScheduleID     int64           `json:"schedule_id" db:"schedule_id"`
	EmployeeID     int64           `json:"employee_id" db:"employee_id"`
	Date           time.Time       `json:"date" db:"date"`
	JobCategoryID  *int            `json:"job_category_id" db:"job_category_id"`
	WorkType       WorkType        `json:"work_type" db:"work_type"`
	HeadcountValue decimal.Decimal `json:"headcount_value" db:"headcount_value"`
}

// IsOff reports whether this cell represents a non-working assignment.
func (a *Assignment) IsOff() bool {
	return a.WorkType == WorkOff
}

// Key identifies an assignment's (employee, date) cell, used to diff two
// schedules against each other.
type AssignmentKey struct {
	EmployeeID int64
	Date       string
}

// Key returns the (employee, date) key for this assignment.
func (a *Assignment) Key() AssignmentKey {
	return AssignmentKey{EmployeeID: a.EmployeeID, Date: ISODate(a.Date)}
}

// Off builds the canonical "not working" assignment for a cell.
func Off(scheduleID, employeeID int64, date time.Time) *Assignment {
	return &Assignment{
		ScheduleID:     scheduleID,
		EmployeeID:     employeeID,
		Date:           date,
		JobCategoryID:  nil,
		WorkType:       WorkOff,
		HeadcountValue: decimal.Zero,
	}
}

// PatchStatus is the lifecycle state of a PatchLog entry.
type PatchStatus string

const (
	PatchPending  PatchStatus = "pending"
	PatchApproved PatchStatus = "approved"
	PatchRejected PatchStatus = "rejected"
)

// PatchLog records one NL-patch attempt against a schedule (spec §4.5,
// recovered from original_source's NlpModificationLog table).
type PatchLog struct {
	ID              int64       `json:"id" db:"id"`
	ScheduleID      int64       `json:"schedule_id" db:"schedule_id"`
	NewScheduleID   *int64      `json:"new_schedule_id,omitempty" db:"new_schedule_id"`
	InputText       string      `json:"input_text" db:"input_text"`
	ParsedEditsJSON string      `json:"parsed_edits_json" db:"parsed_edits_json"`
	Status          PatchStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}
