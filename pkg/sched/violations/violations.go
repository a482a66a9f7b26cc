// Package violations compares produced assignments against the original
// staffing requirements and reports remaining shortages (spec §4.4). A
// violation is informational only; it never blocks persistence.
package violations

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shiftplan/shiftplan/internal/store"
	"github.com/shiftplan/shiftplan/pkg/model"
)

// Report computes "<date> - job_type <j>: needed <R>, got <A>" for every
// (date, category) requirement whose supplied headcount falls short.
func Report(instance *store.ProblemInstance, assignments []*model.Assignment) []string {
	supplied := make(map[string]decimal.Decimal)
	for _, a := range assignments {
		if a.JobCategoryID == nil {
			continue
		}
		key := requirementKey(model.ISODate(a.Date), *a.JobCategoryID)
		supplied[key] = supplied[key].Add(a.HeadcountValue)
	}

	type shortage struct {
		date     string
		category int
		required decimal.Decimal
		got      decimal.Decimal
	}
	var shortages []shortage

	for _, req := range instance.DailyRequirements {
		key := requirementKey(model.ISODate(req.Date), req.JobCategoryID)
		got := supplied[key]
		if got.LessThan(req.RequiredCount) {
			shortages = append(shortages, shortage{
				date:     model.ISODate(req.Date),
				category: req.JobCategoryID,
				required: req.RequiredCount,
				got:      got,
			})
		}
	}

	sort.Slice(shortages, func(i, j int) bool {
		if shortages[i].date != shortages[j].date {
			return shortages[i].date < shortages[j].date
		}
		return shortages[i].category < shortages[j].category
	})

	out := make([]string, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, fmt.Sprintf("%s - job_type %d: needed %s, got %s", s.date, s.category, s.required.String(), s.got.String()))
	}
	return out
}

func requirementKey(date string, categoryID int) string {
	return fmt.Sprintf("%s|%d", date, categoryID)
}
