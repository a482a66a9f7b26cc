// Package store defines the schedule store contract and its
// implementations (in-memory and postgres).
package store

import (
	"context"
	"time"

	"github.com/shiftplan/shiftplan/pkg/model"
)

// HolidayOracle reports whether date is a non-working day (weekend or
// holiday). It is an external collaborator; this module only consumes it.
type HolidayOracle interface {
	IsNonWorkingDay(date time.Time) bool
}

// ProblemInstance is everything the constraint-model builder consumes for
// one target month.
type ProblemInstance struct {
	TargetMonth       string
	Employees         []*model.Employee
	DayOffRequests    []*model.DayOffRequest
	WorkDaysTargets   map[int64]model.WorkDaysTarget
	DailyRequirements []*model.DailyRequirement
	WorkingDates      []time.Time
}

// AdjustAction is the kind of aggregate count change an adjust hint asks for.
type AdjustAction string

const (
	AdjustIncrease AdjustAction = "increase"
	AdjustDecrease AdjustAction = "decrease"
	AdjustSet      AdjustAction = "set"
)

// AdjustHint is one aggregate (employee, category) adjustment fed back into
// the builder by the NL patch engine.
type AdjustHint struct {
	EmployeeName string
	JobCategory  string
	Action       AdjustAction
	Amount       *int
}

// OptimizerResult is the output of one builder→solver→projector run.
type OptimizerResult struct {
	ScheduleID  int64
	Assignments []*model.Assignment
	Violations  []string
}

// Store is the schedule store adapter: the only component that talks to
// persistence. All writes within one method are atomic.
type Store interface {
	LoadProblemInstance(ctx context.Context, month string) (*ProblemInstance, error)

	PersistSchedule(ctx context.Context, schedule *model.Schedule, assignments []*model.Assignment) (int64, error)
	CloneSchedule(ctx context.Context, oldID int64) (int64, error)
	DeleteSchedule(ctx context.Context, id int64) error

	GetSchedule(ctx context.Context, id int64) (*model.Schedule, error)
	GetCurrentSchedule(ctx context.Context, month string) (*model.Schedule, error)
	UpdateScheduleStatus(ctx context.Context, id int64, newStatus model.ScheduleStatus) error

	GetAssignments(ctx context.Context, scheduleID int64) ([]*model.Assignment, error)
	SetAssignment(ctx context.Context, assignment *model.Assignment) error

	CreatePatchLog(ctx context.Context, log *model.PatchLog) (int64, error)
	GetPatchLog(ctx context.Context, id int64) (*model.PatchLog, error)
	UpdatePatchLog(ctx context.Context, log *model.PatchLog) error

	EmployeeByName(ctx context.Context, name string) (*model.Employee, error)
	JobCategoryByName(ctx context.Context, name string) (*model.JobCategory, error)
	JobCategories(ctx context.Context) ([]*model.JobCategory, error)
}
