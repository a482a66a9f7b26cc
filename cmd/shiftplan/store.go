package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/shiftplan/shiftplan/internal/calendar"
	"github.com/shiftplan/shiftplan/internal/config"
	"github.com/shiftplan/shiftplan/internal/database"
	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// roster is the on-disk shape loaded via --data into a MemoryStore. It
// exists purely for offline/demo use; production deployments pass
// --postgres and configure DB_HOST et al. via the environment instead.
type roster struct {
	Employees         []*model.Employee        `json:"employees"`
	JobCategories     []*model.JobCategory      `json:"job_categories"`
	DayOffRequests    []*model.DayOffRequest    `json:"day_off_requests"`
	WorkDaysTargets   map[string]string         `json:"work_days_targets"` // employee id -> target
	DailyRequirements []*model.DailyRequirement `json:"daily_requirements"`
}

func buildStore(cfg *config.Config) (store.Store, func() error, error) {
	if usePostgres {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, nil, fail("connecting to postgres: %w", err)
		}
		return store.NewPostgresStore(db, calendar.Weekdays{}), db.Close, nil
	}

	if dataFile == "" {
		return nil, nil, fail("either --data or --postgres is required")
	}
	st, err := loadMemoryStore(dataFile)
	if err != nil {
		return nil, nil, err
	}
	return st, func() error { return nil }, nil
}

func loadMemoryStore(path string) (*store.MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fail("reading roster file %s: %w", path, err)
	}
	var r roster
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fail("parsing roster file %s: %w", path, err)
	}

	st := store.NewMemoryStore(calendar.Weekdays{})
	for _, e := range r.Employees {
		st.SeedEmployee(e)
	}
	for _, c := range r.JobCategories {
		st.SeedJobCategory(c)
	}
	for _, d := range r.DayOffRequests {
		st.SeedDayOffRequest(d)
	}
	for _, req := range r.DailyRequirements {
		st.SeedDailyRequirement(req)
	}
	for idStr, target := range r.WorkDaysTargets {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fail("invalid employee id %q in work_days_targets: %w", idStr, err)
		}
		st.SeedWorkDaysTarget(id, model.WorkDaysTarget(target))
	}
	return st, nil
}
