package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shiftplan/shiftplan/pkg/apperr"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// MemoryStore is an in-process, map-backed Store. It is used by tests and
// by any caller that does not need durability across process restarts.
type MemoryStore struct {
	mu sync.RWMutex

	holidays HolidayOracle

	employees         map[int64]*model.Employee
	jobCategories     map[int]*model.JobCategory
	dayOffRequests    []*model.DayOffRequest
	workDaysTargets   map[int64]model.WorkDaysTarget
	dailyRequirements []*model.DailyRequirement

	schedules    map[int64]*model.Schedule
	assignments  map[int64]map[model.AssignmentKey]*model.Assignment
	patchLogs    map[int64]*model.PatchLog
	nextSchedule int64
	nextPatch    int64
}

// NewMemoryStore builds an empty MemoryStore bound to a holiday oracle;
// callers populate the roster, categories, requirements and requests via
// the Seed* helpers before the first LoadProblemInstance call.
func NewMemoryStore(holidays HolidayOracle) *MemoryStore {
	return &MemoryStore{
		holidays:        holidays,
		employees:       make(map[int64]*model.Employee),
		jobCategories:   make(map[int]*model.JobCategory),
		workDaysTargets: make(map[int64]model.WorkDaysTarget),
		schedules:       make(map[int64]*model.Schedule),
		assignments:     make(map[int64]map[model.AssignmentKey]*model.Assignment),
		patchLogs:       make(map[int64]*model.PatchLog),
	}
}

// SeedEmployee registers an employee and its qualifications.
func (s *MemoryStore) SeedEmployee(e *model.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// SeedJobCategory registers a job category.
func (s *MemoryStore) SeedJobCategory(c *model.JobCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobCategories[c.ID] = c
}

// SeedDayOffRequest appends one day-off request row.
func (s *MemoryStore) SeedDayOffRequest(r *model.DayOffRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayOffRequests = append(s.dayOffRequests, r)
}

// SeedWorkDaysTarget sets an employee's monthly work-days target.
func (s *MemoryStore) SeedWorkDaysTarget(employeeID int64, target model.WorkDaysTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workDaysTargets[employeeID] = target
}

// SeedDailyRequirement appends one (date, category) staffing requirement.
func (s *MemoryStore) SeedDailyRequirement(r *model.DailyRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyRequirements = append(s.dailyRequirements, r)
}

func (s *MemoryStore) LoadProblemInstance(ctx context.Context, month string) (*ProblemInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, err := model.ParseISODate(month + "-01")
	if err != nil {
		return nil, apperr.New(apperr.CodeInvalidInput, "invalid target month "+month)
	}

	instance := &ProblemInstance{
		TargetMonth:     month,
		WorkDaysTargets: make(map[int64]model.WorkDaysTarget, len(s.workDaysTargets)),
	}

	for id, e := range s.employees {
		cp := *e
		instance.Employees = append(instance.Employees, &cp)
		if t, ok := s.workDaysTargets[id]; ok {
			instance.WorkDaysTargets[id] = t
		}
	}
	sort.Slice(instance.Employees, func(i, j int) bool {
		return instance.Employees[i].SortOrder < instance.Employees[j].SortOrder
	})

	for _, r := range s.dayOffRequests {
		if model.ISODate(r.Date)[:7] == month {
			cp := *r
			instance.DayOffRequests = append(instance.DayOffRequests, &cp)
		}
	}
	for _, r := range s.dailyRequirements {
		if model.ISODate(r.Date)[:7] == month {
			cp := *r
			instance.DailyRequirements = append(instance.DailyRequirements, &cp)
		}
	}

	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		if !s.holidays.IsNonWorkingDay(d) {
			instance.WorkingDates = append(instance.WorkingDates, d)
		}
	}

	return instance, nil
}

func (s *MemoryStore) PersistSchedule(ctx context.Context, schedule *model.Schedule, assignments []*model.Assignment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSchedule++
	schedule.ID = s.nextSchedule
	if schedule.GeneratedAt.IsZero() {
		schedule.GeneratedAt = time.Now()
	}
	s.schedules[schedule.ID] = schedule

	cells := make(map[model.AssignmentKey]*model.Assignment, len(assignments))
	for _, a := range assignments {
		a.ScheduleID = schedule.ID
		cp := *a
		cells[a.Key()] = &cp
	}
	s.assignments[schedule.ID] = cells

	return schedule.ID, nil
}

func (s *MemoryStore) CloneSchedule(ctx context.Context, oldID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.schedules[oldID]
	if !ok {
		return 0, apperr.UnknownSchedule(oldID)
	}

	s.nextSchedule++
	newID := s.nextSchedule
	cp := *old
	cp.ID = newID
	cp.Status = model.StatusPreview
	cp.GeneratedAt = time.Now()
	cp.ConfirmedAt = nil
	s.schedules[newID] = &cp

	cells := make(map[model.AssignmentKey]*model.Assignment, len(s.assignments[oldID]))
	for k, a := range s.assignments[oldID] {
		acp := *a
		acp.ScheduleID = newID
		cells[k] = &acp
	}
	s.assignments[newID] = cells

	return newID, nil
}

func (s *MemoryStore) DeleteSchedule(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[id]; !ok {
		return apperr.UnknownSchedule(id)
	}
	delete(s.schedules, id)
	delete(s.assignments, id)
	return nil
}

func (s *MemoryStore) GetSchedule(ctx context.Context, id int64) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.schedules[id]
	if !ok {
		return nil, apperr.UnknownSchedule(id)
	}
	cp := *sched
	return &cp, nil
}

func (s *MemoryStore) GetCurrentSchedule(ctx context.Context, month string) (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *model.Schedule
	for _, sched := range s.schedules {
		if sched.TargetMonth != month {
			continue
		}
		if newest == nil || sched.ID > newest.ID {
			newest = sched
		}
	}
	if newest == nil {
		return nil, apperr.New(apperr.CodeUnknownSchedule, "no schedule for month "+month)
	}
	cp := *newest
	return &cp, nil
}

func (s *MemoryStore) UpdateScheduleStatus(ctx context.Context, id int64, newStatus model.ScheduleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[id]
	if !ok {
		return apperr.UnknownSchedule(id)
	}
	return sched.Transition(newStatus)
}

func (s *MemoryStore) GetAssignments(ctx context.Context, scheduleID int64) ([]*model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cells, ok := s.assignments[scheduleID]
	if !ok {
		return nil, apperr.UnknownSchedule(scheduleID)
	}
	out := make([]*model.Assignment, 0, len(cells))
	for _, a := range cells {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *MemoryStore) SetAssignment(ctx context.Context, assignment *model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells, ok := s.assignments[assignment.ScheduleID]
	if !ok {
		return apperr.UnknownSchedule(assignment.ScheduleID)
	}
	cp := *assignment
	cells[assignment.Key()] = &cp
	return nil
}

func (s *MemoryStore) CreatePatchLog(ctx context.Context, log *model.PatchLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPatch++
	log.ID = s.nextPatch
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	cp := *log
	s.patchLogs[log.ID] = &cp
	return log.ID, nil
}

func (s *MemoryStore) GetPatchLog(ctx context.Context, id int64) (*model.PatchLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.patchLogs[id]
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidInput, "unknown patch log id")
	}
	cp := *log
	return &cp, nil
}

func (s *MemoryStore) UpdatePatchLog(ctx context.Context, log *model.PatchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patchLogs[log.ID]; !ok {
		return apperr.New(apperr.CodeInvalidInput, "unknown patch log id")
	}
	cp := *log
	s.patchLogs[log.ID] = &cp
	return nil
}

func (s *MemoryStore) EmployeeByName(ctx context.Context, name string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.employees {
		if e.Name == name {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.CodeInvalidInput, "unknown employee "+name)
}

func (s *MemoryStore) JobCategoryByName(ctx context.Context, name string) (*model.JobCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.jobCategories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.CodeInvalidInput, "unknown job category "+name)
}

// JobCategories returns every seeded job category, sorted by id.
func (s *MemoryStore) JobCategories(ctx context.Context) ([]*model.JobCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.JobCategory, 0, len(s.jobCategories))
	for _, c := range s.jobCategories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
