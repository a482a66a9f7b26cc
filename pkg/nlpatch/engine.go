package nlpatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/sched/optimizer"
)

// Engine dispatches a parsed edit list against a schedule (spec §4.5): a
// pin-only edit list clones the current schedule and overwrites the named
// cells directly; an edit list containing any adjust rewrites the whole
// month through the optimizer with the adjust hints applied, then layers
// any pins on top of the rebuilt result. Pins are never turned into hard
// solver constraints, since the clone-and-overwrite path never calls the
// solver at all.
type Engine struct {
	Store          store.Store
	OptimizerParms optimizer.Params
	JobCategories  []*model.JobCategory
}

// NewEngine builds an Engine bound to st.
func NewEngine(st store.Store, params optimizer.Params, categories []*model.JobCategory) *Engine {
	return &Engine{Store: st, OptimizerParms: params, JobCategories: categories}
}

// Diff describes one (employee, date) cell whose assignment changed.
type Diff struct {
	EmployeeName string
	Date         string
	Before       string
	After        string
}

// Dispatch parses rawResponse, applies its edits against the current
// schedule for month, and records a PatchLog. It returns the new schedule
// id, the created patch log id (needed by Approve/Reject), and a
// human-readable diff of every changed cell.
func (e *Engine) Dispatch(ctx context.Context, month, instructionText, rawResponse string) (int64, int64, []Diff, error) {
	log := logger.NewPatchLogger()
	requestID := uuid.New().String()

	current, err := e.Store.GetCurrentSchedule(ctx, month)
	if err != nil {
		return 0, 0, nil, err
	}

	pins, adjusts, err := ParseEdits(rawResponse)
	if err != nil {
		return 0, 0, nil, err
	}
	log.Dispatch(requestID, current.ID, len(pins), len(adjusts))

	before, err := e.Store.GetAssignments(ctx, current.ID)
	if err != nil {
		return 0, 0, nil, err
	}

	// spec §4.5 step 2: clone-and-overwrite only applies when there is at
	// least one pin and no adjusts at all. Every other case, including
	// both empty, rebuilds through the optimizer (step 3, "otherwise").
	var newScheduleID int64
	if len(pins) > 0 && len(adjusts) == 0 {
		newScheduleID, err = e.applyPinsOnly(ctx, current.ID, pins, log)
	} else {
		newScheduleID, err = e.rebuildWithAdjusts(ctx, month, adjusts, pins, log)
	}
	if err != nil {
		return 0, 0, nil, err
	}

	after, err := e.Store.GetAssignments(ctx, newScheduleID)
	if err != nil {
		return 0, 0, nil, err
	}
	instance, err := e.Store.LoadProblemInstance(ctx, month)
	if err != nil {
		return 0, 0, nil, err
	}
	diffs := diffAssignments(before, after, employeeNames(instance.Employees), e.categoryNames())

	edits := struct {
		Pins    []PinEdit    `json:"pins"`
		Adjusts []AdjustEdit `json:"adjusts"`
	}{Pins: pins, Adjusts: adjusts}
	editsJSON, _ := json.Marshal(edits)

	patchLog := &model.PatchLog{
		ScheduleID:      current.ID,
		NewScheduleID:   &newScheduleID,
		InputText:       instructionText,
		ParsedEditsJSON: string(editsJSON),
		Status:          model.PatchPending,
	}
	patchLogID, err := e.Store.CreatePatchLog(ctx, patchLog)
	if err != nil {
		return 0, 0, nil, err
	}
	log.Created(patchLogID, newScheduleID)

	return newScheduleID, patchLogID, diffs, nil
}

// applyPinsOnly clones scheduleID and overwrites each pinned cell directly,
// without invoking the solver.
func (e *Engine) applyPinsOnly(ctx context.Context, scheduleID int64, pins []PinEdit, log *logger.PatchLogger) (int64, error) {
	newID, err := e.Store.CloneSchedule(ctx, scheduleID)
	if err != nil {
		return 0, err
	}
	if err := e.overwritePins(ctx, newID, pins, log); err != nil {
		return 0, err
	}
	return newID, nil
}

// rebuildWithAdjusts reruns the optimizer for month with adjusts turned
// into solver hints, then layers any pins on top of the rebuilt schedule.
func (e *Engine) rebuildWithAdjusts(ctx context.Context, month string, adjusts []AdjustEdit, pins []PinEdit, log *logger.PatchLogger) (int64, error) {
	hints := make([]store.AdjustHint, 0, len(adjusts))
	for _, a := range adjusts {
		hints = append(hints, store.AdjustHint{
			EmployeeName: a.EmployeeName,
			JobCategory:  a.JobCategory,
			Action:       a.Action,
			Amount:       a.Amount,
		})
	}

	result, err := optimizer.Generate(ctx, e.Store, month, e.JobCategories, e.OptimizerParms, hints)
	if err != nil {
		return 0, err
	}
	if err := e.overwritePins(ctx, result.ScheduleID, pins, log); err != nil {
		return 0, err
	}
	return result.ScheduleID, nil
}

// overwritePins resolves and writes each pin as a direct cell overwrite,
// dropping any pin naming an unknown employee or job category.
func (e *Engine) overwritePins(ctx context.Context, scheduleID int64, pins []PinEdit, log *logger.PatchLogger) error {
	for _, p := range pins {
		emp, err := e.Store.EmployeeByName(ctx, p.EmployeeName)
		if err != nil {
			log.SkippedEdit(fmt.Sprintf("unknown employee %q", p.EmployeeName))
			continue
		}
		date, err := model.ParseISODate(p.Date)
		if err != nil {
			log.SkippedEdit(fmt.Sprintf("invalid date %q for %s", p.Date, p.EmployeeName))
			continue
		}

		if p.NewJobType == OffMarker {
			if err := e.Store.SetAssignment(ctx, model.Off(scheduleID, emp.ID, date)); err != nil {
				return err
			}
			continue
		}

		cat, err := e.Store.JobCategoryByName(ctx, p.NewJobType)
		if err != nil {
			log.SkippedEdit(fmt.Sprintf("unknown job category %q for %s", p.NewJobType, p.EmployeeName))
			continue
		}
		assignment := &model.Assignment{
			ScheduleID:     scheduleID,
			EmployeeID:     emp.ID,
			Date:           date,
			JobCategoryID:  &cat.ID,
			WorkType:       model.WorkFull,
			HeadcountValue: model.FromDoubled(2),
		}
		if err := e.Store.SetAssignment(ctx, assignment); err != nil {
			return err
		}
	}
	return nil
}

// Approve marks a pending patch as approved, keeping its rebuilt schedule.
func (e *Engine) Approve(ctx context.Context, patchLogID int64) error {
	pl, err := e.Store.GetPatchLog(ctx, patchLogID)
	if err != nil {
		return err
	}
	pl.Status = model.PatchApproved
	return e.Store.UpdatePatchLog(ctx, pl)
}

// Reject marks a pending patch as rejected and discards its rebuilt
// schedule, leaving the original schedule untouched.
func (e *Engine) Reject(ctx context.Context, patchLogID int64) error {
	pl, err := e.Store.GetPatchLog(ctx, patchLogID)
	if err != nil {
		return err
	}
	if pl.NewScheduleID != nil {
		if err := e.Store.DeleteSchedule(ctx, *pl.NewScheduleID); err != nil {
			return err
		}
	}
	pl.Status = model.PatchRejected
	return e.Store.UpdatePatchLog(ctx, pl)
}

func diffAssignments(before, after []*model.Assignment, names map[int64]string, categories map[int]string) []Diff {
	beforeByKey := make(map[model.AssignmentKey]*model.Assignment, len(before))
	for _, a := range before {
		beforeByKey[a.Key()] = a
	}

	var diffs []Diff
	for _, a := range after {
		b, ok := beforeByKey[a.Key()]
		if ok && assignmentLabel(b, categories) == assignmentLabel(a, categories) {
			continue
		}
		beforeLabel := OffMarker
		if ok {
			beforeLabel = assignmentLabel(b, categories)
		}
		diffs = append(diffs, Diff{
			EmployeeName: employeeName(names, a.EmployeeID),
			Date:         model.ISODate(a.Date),
			Before:       beforeLabel,
			After:        assignmentLabel(a, categories),
		})
	}
	return diffs
}

func assignmentLabel(a *model.Assignment, categories map[int]string) string {
	if a.IsOff() || a.JobCategoryID == nil {
		return OffMarker
	}
	if name, ok := categories[*a.JobCategoryID]; ok {
		return name
	}
	return fmt.Sprintf("category:%d", *a.JobCategoryID)
}

func employeeNames(employees []*model.Employee) map[int64]string {
	names := make(map[int64]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names
}

func employeeName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("employee:%d", id)
}

func (e *Engine) categoryNames() map[int]string {
	names := make(map[int]string, len(e.JobCategories))
	for _, c := range e.JobCategories {
		names[c.ID] = c.Name
	}
	return names
}
