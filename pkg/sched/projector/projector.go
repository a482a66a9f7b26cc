// Package projector converts a solved CP-SAT model into concrete
// per-employee per-date assignments (spec §4.3).
package projector

import (
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/sched/builder"
)

// Project emits exactly one Assignment per (employee, date) in the target
// month: |employees| * |days_in_month| rows.
func Project(instance *store.ProblemInstance, built *builder.Built, response *cpmodel.CpSolverResponse, scheduleID int64) ([]*model.Assignment, error) {
	monthStart, err := model.ParseISODate(instance.TargetMonth + "-01")
	if err != nil {
		return nil, err
	}

	working := make(map[string]bool, len(built.WorkingDates))
	for _, d := range built.WorkingDates {
		working[model.ISODate(d)] = true
	}

	var out []*model.Assignment
	for _, e := range instance.Employees {
		for d := monthStart; d.Month() == monthStart.Month(); d = d.AddDate(0, 0, 1) {
			dateStr := model.ISODate(d)
			if !working[dateStr] {
				out = append(out, model.Off(scheduleID, e.ID, d))
				continue
			}

			dayKey := builder.DayKey{EmployeeID: e.ID, Date: dateStr}
			assignment := projectWorkingDay(scheduleID, e.ID, d, built, response, dayKey)
			out = append(out, assignment)
		}
	}
	return out, nil
}

func projectWorkingDay(scheduleID, employeeID int64, date time.Time, built *builder.Built, response *cpmodel.CpSolverResponse, dayKey builder.DayKey) *model.Assignment {
	for _, categoryID := range built.Categories {
		cell, ok := built.X[builder.CellKey{EmployeeID: employeeID, Date: model.ISODate(date), CategoryID: categoryID}]
		if !ok {
			continue
		}
		if !cpmodel.SolutionBooleanValue(response, cell) {
			continue
		}

		workType := model.WorkFull
		headcount := decimalOne
		if period, half := built.HalfOffs[dayKey]; half {
			switch period {
			case model.PeriodAM:
				workType = model.WorkAfternoonHalf
			case model.PeriodPM:
				workType = model.WorkMorningHalf
			}
			headcount = decimalHalf
		}

		id := categoryID
		return &model.Assignment{
			ScheduleID:     scheduleID,
			EmployeeID:     employeeID,
			Date:           date,
			JobCategoryID:  &id,
			WorkType:       workType,
			HeadcountValue: headcount,
		}
	}
	return model.Off(scheduleID, employeeID, date)
}
