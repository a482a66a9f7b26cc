package builder

import "github.com/shiftplan/shiftplan/pkg/apperr"

func errNoEmployees() error {
	return apperr.NoEmployees()
}

func errNoQualifications() error {
	return apperr.NoQualifications()
}
