package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

type noWeekends struct{}

func (noWeekends) IsNonWorkingDay(date time.Time) bool { return false }

var allCategories = []*model.JobCategory{
	{ID: model.CategorySkilled, Name: "skilled"},
	{ID: model.CategorySubSkilled, Name: "sub_skilled"},
	{ID: model.CategoryData, Name: "data"},
	{ID: model.CategoryOther, Name: "other"},
}

func testParams() Params {
	return Params{SolveTimeout: 10 * time.Second, RandomSeed: 42}
}

// Scenario 1: all-qualified, no requests.
func TestGenerate_AllQualifiedNoRequests(t *testing.T) {
	st := store.NewMemoryStore(noWeekends{})
	for _, c := range allCategories {
		st.SeedJobCategory(c)
	}
	day, _ := model.ParseISODate("2026-03-02")
	names := []string{"empA", "empB", "empC"}
	for i, name := range names {
		st.SeedEmployee(&model.Employee{ID: int64(i + 1), Name: name, Qualifications: []int{1, 2, 3, 4}})
	}
	for cat := 1; cat <= 3; cat++ {
		st.SeedDailyRequirement(&model.DailyRequirement{Date: day, JobCategoryID: cat, RequiredCount: decimal.NewFromInt(1)})
	}

	ctx := context.Background()
	result, err := Generate(ctx, st, "2026-03", allCategories, testParams(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Violations)
}

// Scenario 2: full-day off wins over need.
func TestGenerate_FullDayOffWinsOverNeed(t *testing.T) {
	st := store.NewMemoryStore(noWeekends{})
	for _, c := range allCategories {
		st.SeedJobCategory(c)
	}
	day, _ := model.ParseISODate("2026-03-02")
	st.SeedEmployee(&model.Employee{ID: 1, Name: "empA", Qualifications: []int{model.CategorySkilled}})
	st.SeedEmployee(&model.Employee{ID: 2, Name: "empB", Qualifications: []int{model.CategorySkilled}})
	st.SeedDayOffRequest(&model.DayOffRequest{EmployeeID: 1, Date: day, Period: model.PeriodAllDay})
	st.SeedDailyRequirement(&model.DailyRequirement{Date: day, JobCategoryID: model.CategorySkilled, RequiredCount: decimal.NewFromInt(1)})

	ctx := context.Background()
	result, err := Generate(ctx, st, "2026-03", allCategories, testParams(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Violations)

	var empAWorked, empBWorked bool
	for _, a := range result.Assignments {
		if model.ISODate(a.Date) != "2026-03-02" {
			continue
		}
		if a.EmployeeID == 1 && !a.IsOff() {
			empAWorked = true
		}
		if a.EmployeeID == 2 && !a.IsOff() {
			empBWorked = true
		}
	}
	assert.False(t, empAWorked, "employee A requested the day off and must not be assigned")
	assert.True(t, empBWorked, "employee B must cover the one-per-day requirement")
}

// Scenario 3: half-day off.
func TestGenerate_HalfDayOff(t *testing.T) {
	st := store.NewMemoryStore(noWeekends{})
	for _, c := range allCategories {
		st.SeedJobCategory(c)
	}
	day, _ := model.ParseISODate("2026-03-02")
	st.SeedEmployee(&model.Employee{ID: 1, Name: "empA", Qualifications: []int{model.CategoryData}})
	st.SeedDayOffRequest(&model.DayOffRequest{EmployeeID: 1, Date: day, Period: model.PeriodAM})
	st.SeedDailyRequirement(&model.DailyRequirement{Date: day, JobCategoryID: model.CategoryData, RequiredCount: decimal.NewFromFloat(0.5)})

	ctx := context.Background()
	result, err := Generate(ctx, st, "2026-03", allCategories, testParams(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Violations)

	var found *model.Assignment
	for _, a := range result.Assignments {
		if a.EmployeeID == 1 && model.ISODate(a.Date) == "2026-03-02" {
			found = a
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, model.WorkAfternoonHalf, found.WorkType)
	assert.True(t, found.HeadcountValue.Equal(decimal.NewFromFloat(0.5)))
}

// Scenario 4: unmet non-one-per-day requirement.
func TestGenerate_UnmetRequirementReportsViolation(t *testing.T) {
	st := store.NewMemoryStore(noWeekends{})
	for _, c := range allCategories {
		st.SeedJobCategory(c)
	}
	day, _ := model.ParseISODate("2026-03-02")
	st.SeedEmployee(&model.Employee{ID: 1, Name: "empA", Qualifications: []int{model.CategoryData}})
	st.SeedDailyRequirement(&model.DailyRequirement{Date: day, JobCategoryID: model.CategoryData, RequiredCount: decimal.NewFromInt(2)})

	ctx := context.Background()
	result, err := Generate(ctx, st, "2026-03", allCategories, testParams(), nil)
	require.NoError(t, err, "solver must still succeed despite an unmet soft requirement")
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "2026-03-02")
	assert.Contains(t, result.Violations[0], "needed 2")
	assert.Contains(t, result.Violations[0], "got 1")
}

// Scenario 5: work-days "max" target pushes an employee to work every
// working date available.
func TestGenerate_MaxWorkDaysTarget(t *testing.T) {
	st := store.NewMemoryStore(noWeekends{})
	for _, c := range allCategories {
		st.SeedJobCategory(c)
	}
	st.SeedEmployee(&model.Employee{ID: 1, Name: "empA", Qualifications: []int{model.CategoryOther}})
	st.SeedWorkDaysTarget(1, model.WorkDaysTarget("max"))
	for _, dateStr := range []string{"2026-03-02", "2026-03-03", "2026-03-04"} {
		d, _ := model.ParseISODate(dateStr)
		st.SeedDailyRequirement(&model.DailyRequirement{Date: d, JobCategoryID: model.CategoryOther, RequiredCount: decimal.NewFromInt(1)})
	}

	ctx := context.Background()
	result, err := Generate(ctx, st, "2026-03", allCategories, testParams(), nil)
	require.NoError(t, err)

	workedDays := 0
	for _, a := range result.Assignments {
		if a.EmployeeID == 1 && !a.IsOff() {
			workedDays++
		}
	}
	// noWeekends makes all 31 days of March 2026 working dates, not just the
	// three that carry a requirement.
	assert.Equal(t, 31, workedDays, "a \"max\" target with no competing demand should work every offered working date")
}
