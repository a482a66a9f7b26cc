// Package calendar provides the default holiday oracle the CLI wires into
// the store. Real public-holiday data is an external collaborator (spec
// §1 Non-goals); this package only ever knows about weekends.
package calendar

import "time"

// Weekdays treats Saturday and Sunday as non-working and every other day
// as working. Callers needing real holiday coverage should supply their
// own internal/store.HolidayOracle implementation instead.
type Weekdays struct{}

// IsNonWorkingDay implements internal/store.HolidayOracle.
func (Weekdays) IsNonWorkingDay(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}
