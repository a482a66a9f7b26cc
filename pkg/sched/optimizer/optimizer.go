// Package optimizer orchestrates store -> builder -> solver -> projector ->
// violations -> store, the full schedule-generation pipeline (spec §2).
package optimizer

import (
	"context"
	"time"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/sched/builder"
	"github.com/shiftplan/shiftplan/pkg/sched/projector"
	"github.com/shiftplan/shiftplan/pkg/sched/solver"
	"github.com/shiftplan/shiftplan/pkg/sched/violations"
)

// Params controls the solve driver's bounds.
type Params struct {
	SolveTimeout time.Duration
	RandomSeed   int64
}

// Generate runs the full pipeline for one target month and persists the
// resulting schedule in status "preview".
func Generate(ctx context.Context, st store.Store, month string, categories []*model.JobCategory, params Params, hints []store.AdjustHint) (*store.OptimizerResult, error) {
	return run(ctx, st, month, categories, params, hints, model.StatusPreview)
}

func run(ctx context.Context, st store.Store, month string, categories []*model.JobCategory, params Params, hints []store.AdjustHint, status model.ScheduleStatus) (*store.OptimizerResult, error) {
	log := logger.NewSchedulerLogger()

	instance, err := st.LoadProblemInstance(ctx, month)
	if err != nil {
		return nil, err
	}
	log.StartGeneration(month, len(instance.Employees), len(instance.WorkingDates))

	built, err := builder.Build(instance, categories, hints)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := solver.Solve(built, params.SolveTimeout, params.RandomSeed)
	if err != nil {
		log.SolveComplete(month, "failed", time.Since(start))
		return nil, err
	}
	log.SolveComplete(month, result.Status, time.Since(start))

	assignments, err := projector.Project(instance, built, result.Response, 0)
	if err != nil {
		return nil, err
	}

	shortages := violations.Report(instance, assignments)
	for _, v := range shortages {
		log.Shortage(month, v)
	}

	schedule := &model.Schedule{TargetMonth: month, Status: status}
	id, err := st.PersistSchedule(ctx, schedule, assignments)
	if err != nil {
		return nil, err
	}

	return &store.OptimizerResult{ScheduleID: id, Assignments: assignments, Violations: shortages}, nil
}
