package nlpatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/logger"
	"github.com/shiftplan/shiftplan/pkg/model"
	"github.com/shiftplan/shiftplan/pkg/sched/optimizer"
)

type weekendsOnly struct{}

func (weekendsOnly) IsNonWorkingDay(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}

func newSeededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore(weekendsOnly{})
	st.SeedJobCategory(&model.JobCategory{ID: model.CategorySkilled, Name: "skilled"})
	st.SeedJobCategory(&model.JobCategory{ID: model.CategoryData, Name: "data"})
	st.SeedEmployee(&model.Employee{ID: 1, Name: "Tanaka", Qualifications: []int{model.CategorySkilled, model.CategoryData}})
	st.SeedEmployee(&model.Employee{ID: 2, Name: "Sato", Qualifications: []int{model.CategorySkilled, model.CategoryData}})
	return st
}

func TestEngine_PinOnlyDispatch_ClonesAndOverwrites(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, err := model.ParseISODate("2026-03-05")
	require.NoError(t, err)

	original := &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}
	catID := model.CategorySkilled
	scheduleID, err := st.PersistSchedule(ctx, original, []*model.Assignment{
		{EmployeeID: 1, Date: date, JobCategoryID: &catID, WorkType: model.WorkFull, HeadcountValue: model.FromDoubled(2)},
		{EmployeeID: 2, Date: date, JobCategoryID: nil, WorkType: model.WorkOff},
	})
	require.NoError(t, err)
	require.NotZero(t, scheduleID)

	engine := NewEngine(st, optimizer.Params{SolveTimeout: time.Second, RandomSeed: 1}, []*model.JobCategory{
		{ID: model.CategorySkilled, Name: "skilled"},
		{ID: model.CategoryData, Name: "data"},
	})

	raw := `[{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "休み"}]`
	newID, patchLogID, diffs, err := engine.Dispatch(ctx, "2026-03", "give Tanaka the day off on the 5th", raw)
	require.NoError(t, err)
	assert.NotZero(t, patchLogID)
	assert.NotEqual(t, scheduleID, newID)
	require.Len(t, diffs, 1)
	assert.Equal(t, "Tanaka", diffs[0].EmployeeName)
	assert.Equal(t, OffMarker, diffs[0].After)

	after, err := st.GetAssignments(ctx, newID)
	require.NoError(t, err)
	var tanaka *model.Assignment
	for _, a := range after {
		if a.EmployeeID == 1 {
			tanaka = a
		}
	}
	require.NotNil(t, tanaka)
	assert.True(t, tanaka.IsOff())

	original2, err := st.GetAssignments(ctx, scheduleID)
	require.NoError(t, err)
	for _, a := range original2 {
		if a.EmployeeID == 1 {
			assert.False(t, a.IsOff(), "original schedule must be untouched by a pin dispatch")
		}
	}
}

func TestEngine_PinOnly_UnknownEmployeeIsSkippedNotFatal(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, _ := model.ParseISODate("2026-03-05")
	scheduleID, err := st.PersistSchedule(ctx, &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}, []*model.Assignment{
		{EmployeeID: 1, Date: date, WorkType: model.WorkOff},
	})
	require.NoError(t, err)
	_ = scheduleID

	engine := NewEngine(st, optimizer.Params{}, []*model.JobCategory{{ID: model.CategorySkilled, Name: "skilled"}})

	raw := `[{"type": "pin", "employee_name": "Nobody", "date": "2026-03-05", "new_job_type": "skilled"}]`
	newID, _, diffs, err := engine.Dispatch(ctx, "2026-03", "pin an unknown employee", raw)
	require.NoError(t, err)
	assert.NotZero(t, newID)
	assert.Empty(t, diffs)
}

func TestEngine_RejectDeletesRebuiltSchedule(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, _ := model.ParseISODate("2026-03-05")
	scheduleID, err := st.PersistSchedule(ctx, &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}, []*model.Assignment{
		{EmployeeID: 1, Date: date, WorkType: model.WorkOff},
	})
	require.NoError(t, err)

	engine := NewEngine(st, optimizer.Params{}, []*model.JobCategory{{ID: model.CategorySkilled, Name: "skilled"}})
	raw := `[{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "skilled"}]`
	newID, patchLogID, _, err := engine.Dispatch(ctx, "2026-03", "pin Tanaka", raw)
	require.NoError(t, err)

	require.NoError(t, engine.Reject(ctx, patchLogID))

	_, err = st.GetSchedule(ctx, newID)
	assert.Error(t, err, "rejected schedule should be deleted")

	_, err = st.GetSchedule(ctx, scheduleID)
	assert.NoError(t, err, "original schedule should remain")
}

func TestEngine_EmptyEditListRebuildsInsteadOfCloning(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, _ := model.ParseISODate("2026-03-05")
	scheduleID, err := st.PersistSchedule(ctx, &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}, []*model.Assignment{
		{EmployeeID: 1, Date: date, WorkType: model.WorkOff},
		{EmployeeID: 2, Date: date, WorkType: model.WorkOff},
	})
	require.NoError(t, err)

	engine := NewEngine(st, optimizer.Params{SolveTimeout: 10 * time.Second, RandomSeed: 1}, []*model.JobCategory{
		{ID: model.CategorySkilled, Name: "skilled"},
		{ID: model.CategoryData, Name: "data"},
	})

	newID, _, _, err := engine.Dispatch(ctx, "2026-03", "no-op instruction", "[]")
	require.NoError(t, err)
	assert.NotEqual(t, scheduleID, newID, "empty edit list must rebuild through the optimizer, not clone the current schedule")
}

// TestEngine_ApplyPinsOnly_EmptyPinListIsIdentity exercises the clone path
// directly (spec §8's "clone + empty pin list" property): with no pins to
// overwrite, applyPinsOnly must hand back an exact copy of the source
// schedule's assignments.
func TestEngine_ApplyPinsOnly_EmptyPinListIsIdentity(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, _ := model.ParseISODate("2026-03-05")
	catID := model.CategorySkilled
	scheduleID, err := st.PersistSchedule(ctx, &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}, []*model.Assignment{
		{EmployeeID: 1, Date: date, JobCategoryID: &catID, WorkType: model.WorkFull, HeadcountValue: model.FromDoubled(2)},
		{EmployeeID: 2, Date: date, WorkType: model.WorkOff},
	})
	require.NoError(t, err)

	engine := NewEngine(st, optimizer.Params{}, nil)
	log := logger.NewPatchLogger()

	newID, err := engine.applyPinsOnly(ctx, scheduleID, nil, log)
	require.NoError(t, err)

	before, err := st.GetAssignments(ctx, scheduleID)
	require.NoError(t, err)
	after, err := st.GetAssignments(ctx, newID)
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].EmployeeID, after[i].EmployeeID)
		assert.Equal(t, before[i].Date, after[i].Date)
		assert.Equal(t, before[i].JobCategoryID, after[i].JobCategoryID)
		assert.Equal(t, before[i].WorkType, after[i].WorkType)
	}
}

// TestEngine_PinThenInversePin_RestoresOriginalAssignments exercises the
// other spec §8 round-trip property: pinning a cell and then pinning it
// straight back must leave the final assignments identical to the ones
// before either pin was applied.
func TestEngine_PinThenInversePin_RestoresOriginalAssignments(t *testing.T) {
	st := newSeededStore(t)
	ctx := context.Background()

	date, err := model.ParseISODate("2026-03-05")
	require.NoError(t, err)

	catID := model.CategorySkilled
	scheduleID, err := st.PersistSchedule(ctx, &model.Schedule{TargetMonth: "2026-03", Status: model.StatusPreview}, []*model.Assignment{
		{EmployeeID: 1, Date: date, JobCategoryID: &catID, WorkType: model.WorkFull, HeadcountValue: model.FromDoubled(2)},
		{EmployeeID: 2, Date: date, WorkType: model.WorkOff},
	})
	require.NoError(t, err)
	original, err := st.GetAssignments(ctx, scheduleID)
	require.NoError(t, err)

	engine := NewEngine(st, optimizer.Params{SolveTimeout: 10 * time.Second, RandomSeed: 1}, []*model.JobCategory{
		{ID: model.CategorySkilled, Name: "skilled"},
		{ID: model.CategoryData, Name: "data"},
	})

	pinOff := `[{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "休み"}]`
	_, _, _, err = engine.Dispatch(ctx, "2026-03", "give Tanaka the day off", pinOff)
	require.NoError(t, err)

	pinBack := `[{"type": "pin", "employee_name": "Tanaka", "date": "2026-03-05", "new_job_type": "skilled"}]`
	finalID, _, _, err := engine.Dispatch(ctx, "2026-03", "put Tanaka back on skilled", pinBack)
	require.NoError(t, err)

	final, err := st.GetAssignments(ctx, finalID)
	require.NoError(t, err)

	require.Len(t, final, len(original))
	for i := range original {
		assert.Equal(t, original[i].EmployeeID, final[i].EmployeeID)
		assert.Equal(t, original[i].Date, final[i].Date)
		assert.Equal(t, original[i].JobCategoryID, final[i].JobCategoryID)
		assert.Equal(t, original[i].WorkType, final[i].WorkType)
	}
}
