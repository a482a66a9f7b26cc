package main

import (
	"context"

	"github.com/shiftplan/shiftplan/internal/config"
	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/sched/optimizer"
)

// setup opens the configured store and loads its job categories, the
// pieces of state every subcommand needs before it can do anything.
func setup(ctx context.Context) (store.Store, func() error, []*model.JobCategory, optimizer.Params, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, optimizer.Params{}, nil, fail("loading configuration: %w", err)
	}
	st, closeFn, err := buildStore(cfg)
	if err != nil {
		return nil, nil, nil, optimizer.Params{}, nil, err
	}
	categories, err := st.JobCategories(ctx)
	if err != nil {
		closeFn()
		return nil, nil, nil, optimizer.Params{}, nil, fail("loading job categories: %w", err)
	}
	params := optimizer.Params{SolveTimeout: cfg.Scheduler.SolveTimeout, RandomSeed: cfg.Scheduler.RandomSeed}
	return st, closeFn, categories, params, cfg, nil
}
