// Package builder translates a problem instance into a CP-SAT model: the
// decision variables, hard constraints, soft-requirement slack, and the
// weighted objective (spec §4.1).
package builder

import (
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// CellKey identifies one (employee, date, category) assignment variable.
type CellKey struct {
	EmployeeID int64
	Date       string
	CategoryID int
}

// DayKey identifies one (employee, date) work-indicator variable.
type DayKey struct {
	EmployeeID int64
	Date       string
}

// RequirementKey identifies one (date, category) soft-requirement slack.
type RequirementKey struct {
	Date       string
	CategoryID int
}

// HalfOff records a strict half-day-off period for one (employee, date).
type HalfOff struct {
	EmployeeID int64
	Date       string
	Period     model.Period // am or pm
}

// Built is a fully constructed CP-SAT model plus the metadata the solver
// driver and projector need to read it back.
type Built struct {
	Model *cpmodel.CpModelBuilder

	X    map[CellKey]cpmodel.BoolVar
	Work map[DayKey]cpmodel.BoolVar

	Employees    []*model.Employee
	Categories   []int
	WorkingDates []time.Time
	HalfOffs     map[DayKey]model.Period
	FullOffs     map[DayKey]bool

	// Requirements indexes the instance's non-one-per-day daily
	// requirements by key. The violation reporter does not read it; it
	// works from the instance's requirements and the projected assignments.
	Requirements map[RequirementKey]int64 // doubled required count
}

// hcFactorFull is the doubled headcount contribution of a full-availability
// working day; hcFactorHalf is a half-day worker's contribution.
const (
	hcFactorFull = 2
	hcFactorHalf = 1
)

// Build constructs the CP-SAT model for instance. categories lists every
// canonical job category id known to the caller, in priority order.
func Build(instance *store.ProblemInstance, categories []*model.JobCategory, hints []store.AdjustHint) (*Built, error) {
	if len(instance.Employees) == 0 {
		return nil, errNoEmployees()
	}
	if !anyQualified(instance.Employees) {
		return nil, errNoQualifications()
	}

	b := cpmodel.NewCpModelBuilder()

	built := &Built{
		Model:        b,
		X:            make(map[CellKey]cpmodel.BoolVar),
		Work:         make(map[DayKey]cpmodel.BoolVar),
		Employees:    instance.Employees,
		WorkingDates: instance.WorkingDates,
		HalfOffs:     make(map[DayKey]model.Period),
		FullOffs:     make(map[DayKey]bool),
		Requirements: make(map[RequirementKey]int64),
	}
	for _, c := range categories {
		built.Categories = append(built.Categories, c.ID)
	}

	derivePreprocessing(instance, built)

	// Decision variables: x[e,d,j] and work[e,d].
	for _, e := range instance.Employees {
		for _, d := range instance.WorkingDates {
			dateStr := model.ISODate(d)
			dayKey := DayKey{EmployeeID: e.ID, Date: dateStr}

			_, isHalfOff := built.HalfOffs[dayKey]

			var dayTerms []cpmodel.BoolVar
			for _, categoryID := range built.Categories {
				if !e.HasQualification(categoryID) {
					continue
				}
				if built.FullOffs[dayKey] {
					continue
				}
				// HC-06: half-day workers excluded from one-per-day categories.
				if isHalfOff && model.IsOnePerDay(categoryID) {
					continue
				}
				cellKey := CellKey{EmployeeID: e.ID, Date: dateStr, CategoryID: categoryID}
				built.X[cellKey] = b.NewBoolVar()
				dayTerms = append(dayTerms, built.X[cellKey])
			}

			work := b.NewBoolVar()
			built.Work[dayKey] = work

			workSum := cpmodel.NewLinearExpr()
			for _, v := range dayTerms {
				workSum.Add(v)
			}
			b.AddEquality(work, workSum)

			// HC-02: at most one category per employee per day.
			atMost := cpmodel.NewLinearExpr()
			for _, v := range dayTerms {
				atMost.Add(v)
			}
			b.AddLessOrEqual(atMost, cpmodel.NewConstant(1))

			// HC-01: full-day off forces work=0.
			if built.FullOffs[dayKey] {
				b.AddEquality(work, cpmodel.NewConstant(0))
			}
		}
	}

	// HC-06: exactly one worker per working date for one-per-day categories.
	for _, d := range instance.WorkingDates {
		dateStr := model.ISODate(d)
		for _, categoryID := range built.Categories {
			if !model.IsOnePerDay(categoryID) {
				continue
			}
			var vars []cpmodel.BoolVar
			for _, e := range instance.Employees {
				if cell, ok := built.X[CellKey{EmployeeID: e.ID, Date: dateStr, CategoryID: categoryID}]; ok {
					vars = append(vars, cell)
				}
			}
			if len(vars) > 0 {
				b.AddExactlyOne(vars...)
			}
		}
	}

	shortVars := buildSoftRequirements(b, instance, built)

	applyAdjustHints(b, built, instance.Employees, categories, hints)

	objective := buildObjective(b, instance, built, shortVars)
	b.Minimize(objective)

	return built, nil
}

// derivePreprocessing computes full_off/half_off sets from the unioned
// day-off request periods (spec §4.1 Preprocessing).
func derivePreprocessing(instance *store.ProblemInstance, built *Built) {
	periods := make(map[DayKey]map[model.Period]bool)
	for _, r := range instance.DayOffRequests {
		key := DayKey{EmployeeID: r.EmployeeID, Date: model.ISODate(r.Date)}
		if periods[key] == nil {
			periods[key] = make(map[model.Period]bool)
		}
		if r.Period == model.PeriodAllDay {
			periods[key][model.PeriodAM] = true
			periods[key][model.PeriodPM] = true
		} else {
			periods[key][r.Period] = true
		}
	}
	for key, set := range periods {
		switch {
		case set[model.PeriodAM] && set[model.PeriodPM]:
			built.FullOffs[key] = true
		case set[model.PeriodAM]:
			built.HalfOffs[key] = model.PeriodAM
		case set[model.PeriodPM]:
			built.HalfOffs[key] = model.PeriodPM
		}
	}
}

// buildSoftRequirements adds the slack-backed soft requirement constraints
// for every non-one-per-day (date, category) pair and returns the slack
// variables keyed the same way for the objective's shortage term.
func buildSoftRequirements(b *cpmodel.CpModelBuilder, instance *store.ProblemInstance, built *Built) map[RequirementKey]cpmodel.IntVar {
	shortVars := make(map[RequirementKey]cpmodel.IntVar)

	for _, req := range instance.DailyRequirements {
		if model.IsOnePerDay(req.JobCategoryID) {
			continue
		}
		dateStr := model.ISODate(req.Date)
		key := RequirementKey{Date: dateStr, CategoryID: req.JobCategoryID}
		doubled := model.Doubled(req.RequiredCount)
		built.Requirements[key] = doubled

		sum := cpmodel.NewLinearExpr()
		for _, e := range instance.Employees {
			dayKey := DayKey{EmployeeID: e.ID, Date: dateStr}
			cell, ok := built.X[CellKey{EmployeeID: e.ID, Date: dateStr, CategoryID: req.JobCategoryID}]
			if !ok {
				continue
			}
			factor := int64(hcFactorFull)
			if _, half := built.HalfOffs[dayKey]; half {
				factor = hcFactorHalf
			}
			sum.AddTerm(cell, factor)
		}

		short := b.NewIntVar(0, doubled).WithName("short")
		sum.Add(short)
		b.AddGreaterOrEqual(sum, cpmodel.NewConstant(doubled))
		shortVars[key] = short
	}

	return shortVars
}

// applyAdjustHints wires the NL Patch Engine's extra adjustment constraints
// (spec §4.1, "Extra adjustment constraints").
func applyAdjustHints(b *cpmodel.CpModelBuilder, built *Built, employees []*model.Employee, categories []*model.JobCategory, hints []store.AdjustHint) {
	for _, hint := range hints {
		if hint.Amount == nil {
			continue
		}
		employee := findEmployeeByName(employees, hint.EmployeeName)
		category := findCategoryByName(categories, hint.JobCategory)
		if employee == nil || category == nil {
			continue
		}

		count := cpmodel.NewLinearExpr()
		for _, d := range built.WorkingDates {
			if cell, ok := built.X[CellKey{EmployeeID: employee.ID, Date: model.ISODate(d), CategoryID: category.ID}]; ok {
				count.Add(cell)
			}
		}

		amount := int64(*hint.Amount)
		switch hint.Action {
		case store.AdjustSet:
			b.AddEquality(count, cpmodel.NewConstant(amount))
		case store.AdjustIncrease:
			b.AddGreaterOrEqual(count, cpmodel.NewConstant(amount))
		case store.AdjustDecrease:
			if amount < 0 {
				amount = 0
			}
			b.AddLessOrEqual(count, cpmodel.NewConstant(amount))
		}
	}
}

func findEmployeeByName(employees []*model.Employee, name string) *model.Employee {
	for _, e := range employees {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func findCategoryByName(categories []*model.JobCategory, name string) *model.JobCategory {
	for _, c := range categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func anyQualified(employees []*model.Employee) bool {
	for _, e := range employees {
		if len(e.Qualifications) > 0 {
			return true
		}
	}
	return false
}
