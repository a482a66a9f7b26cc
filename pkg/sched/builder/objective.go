package builder

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

const (
	weightWorkDaysDeviation = 10
	weightFairness          = 5
	weightCategoryBalance   = 1
	weightCategoryPriority  = 2
	weightShortage          = 100
)

// buildObjective assembles the five weighted objective terms (spec §4.1).
// Every term is folded into one LinearExpr via AddTerm(arg, weight), since
// cpmodel.LinearArgument is implemented by BoolVar, IntVar, and *LinearExpr
// alike.
func buildObjective(b *cpmodel.CpModelBuilder, instance *store.ProblemInstance, built *Built, shortVars map[RequirementKey]cpmodel.IntVar) *cpmodel.LinearExpr {
	doubledWorkingDays := int64(len(built.WorkingDates)) * hcFactorFull

	tw := make(map[int64]*cpmodel.LinearExpr, len(instance.Employees))
	for _, e := range instance.Employees {
		sum := cpmodel.NewLinearExpr()
		for _, d := range built.WorkingDates {
			dayKey := DayKey{EmployeeID: e.ID, Date: model.ISODate(d)}
			work, ok := built.Work[dayKey]
			if !ok {
				continue
			}
			factor := int64(hcFactorFull)
			if _, half := built.HalfOffs[dayKey]; half {
				factor = hcFactorHalf
			}
			sum.AddTerm(work, factor)
		}
		tw[e.ID] = sum
	}

	objective := cpmodel.NewLinearExpr()

	// Term 1: per-employee deviation from the work-days target.
	for _, e := range instance.Employees {
		target, ok := instance.WorkDaysTargets[e.ID]
		if !ok || target.IsAbsent() {
			continue
		}
		deviation := b.NewIntVar(0, doubledWorkingDays).WithName("dev")

		if target.IsMax() {
			// deviation >= 2*|working_dates| - tw[e]
			goal := cpmodel.NewLinearExpr()
			goal.Add(cpmodel.NewConstant(doubledWorkingDays))
			goal.AddTerm(tw[e.ID], -1)
			b.AddGreaterOrEqual(deviation, goal)
		} else {
			numeric, _ := target.Numeric()
			goalDoubled := int64(numeric) * 2

			// deviation >= tw[e] - goalDoubled
			above := cpmodel.NewLinearExpr()
			above.Add(tw[e.ID])
			above.AddTerm(cpmodel.NewConstant(goalDoubled), -1)
			b.AddGreaterOrEqual(deviation, above)

			// deviation >= goalDoubled - tw[e]
			below := cpmodel.NewLinearExpr()
			below.Add(cpmodel.NewConstant(goalDoubled))
			below.AddTerm(tw[e.ID], -1)
			b.AddGreaterOrEqual(deviation, below)
		}
		objective.AddTerm(deviation, weightWorkDaysDeviation)
	}

	// Term 2: fairness — spread of total workload across employees.
	if len(instance.Employees) >= 2 {
		var allTw []cpmodel.LinearArgument
		for _, e := range instance.Employees {
			allTw = append(allTw, tw[e.ID])
		}
		maxTw := b.NewIntVar(0, doubledWorkingDays).WithName("max_tw")
		minTw := b.NewIntVar(0, doubledWorkingDays).WithName("min_tw")
		b.AddMaxEquality(maxTw, allTw)
		b.AddMinEquality(minTw, allTw)

		spread := cpmodel.NewLinearExpr()
		spread.AddTerm(maxTw, 1)
		spread.AddTerm(minTw, -1)
		objective.AddTerm(spread, weightFairness)
	}

	// Term 3: per-employee category balance over qualified categories.
	for _, e := range instance.Employees {
		if len(e.Qualifications) < 2 {
			continue
		}
		var counts []cpmodel.LinearArgument
		for _, categoryID := range e.Qualifications {
			count := cpmodel.NewLinearExpr()
			for _, d := range built.WorkingDates {
				if cell, ok := built.X[CellKey{EmployeeID: e.ID, Date: model.ISODate(d), CategoryID: categoryID}]; ok {
					count.Add(cell)
				}
			}
			counts = append(counts, count)
		}
		maxCount := b.NewIntVar(0, int64(len(built.WorkingDates))).WithName("max_count")
		minCount := b.NewIntVar(0, int64(len(built.WorkingDates))).WithName("min_count")
		b.AddMaxEquality(maxCount, counts)
		b.AddMinEquality(minCount, counts)

		balance := cpmodel.NewLinearExpr()
		balance.AddTerm(maxCount, 1)
		balance.AddTerm(minCount, -1)
		objective.AddTerm(balance, weightCategoryBalance)
	}

	// Term 4: category-id priority — cheaper to assign lower-id categories.
	priority := cpmodel.NewLinearExpr()
	for key, cell := range built.X {
		priority.AddTerm(cell, int64(key.CategoryID))
	}
	objective.AddTerm(priority, weightCategoryPriority)

	// Term 5: shortage penalty.
	shortage := cpmodel.NewLinearExpr()
	for _, short := range shortVars {
		shortage.Add(short)
	}
	objective.AddTerm(shortage, weightShortage)

	return objective
}
