package violations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

func TestReport_NoShortageWhenMet(t *testing.T) {
	day, _ := model.ParseISODate("2026-03-02")
	catID := model.CategoryData
	instance := &store.ProblemInstance{
		DailyRequirements: []*model.DailyRequirement{
			{Date: day, JobCategoryID: model.CategoryData, RequiredCount: decimal.NewFromInt(1)},
		},
	}
	assignments := []*model.Assignment{
		{EmployeeID: 1, Date: day, JobCategoryID: &catID, WorkType: model.WorkFull, HeadcountValue: decimal.NewFromInt(1)},
	}

	assert.Empty(t, Report(instance, assignments))
}

func TestReport_ShortageSortedAndFormatted(t *testing.T) {
	day1, _ := model.ParseISODate("2026-03-02")
	day2, _ := model.ParseISODate("2026-03-01")
	catID := model.CategoryData
	instance := &store.ProblemInstance{
		DailyRequirements: []*model.DailyRequirement{
			{Date: day1, JobCategoryID: model.CategoryData, RequiredCount: decimal.NewFromInt(2)},
			{Date: day2, JobCategoryID: model.CategoryData, RequiredCount: decimal.NewFromFloat(1.5)},
		},
	}
	assignments := []*model.Assignment{
		{EmployeeID: 1, Date: day1, JobCategoryID: &catID, WorkType: model.WorkFull, HeadcountValue: decimal.NewFromInt(1)},
		{EmployeeID: 1, Date: day2, JobCategoryID: &catID, WorkType: model.WorkMorningHalf, HeadcountValue: decimal.NewFromFloat(0.5)},
	}

	out := Report(instance, assignments)
	require.Len(t, out, 2)
	assert.Contains(t, out[0], "2026-03-01")
	assert.Contains(t, out[0], "needed 1.5")
	assert.Contains(t, out[0], "got 0.5")
	assert.Contains(t, out[1], "2026-03-02")
	assert.Contains(t, out[1], "needed 2")
	assert.Contains(t, out[1], "got 1")
}
