// Package solver wraps the CP-SAT solver call: a bounded, deterministic
// invocation that inspects the terminal status before anything is
// persisted (spec §4.2).
package solver

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/google/or-tools/ortools/sat/sat_parameters_go_proto"

	"github.com/shiftplan/shiftplan/pkg/apperr"
	"github.com/shiftplan/shiftplan/pkg/sched/builder"
)

// Result is a solved model's response plus the status it terminated with.
type Result struct {
	Response *cpmodel.CpSolverResponse
	Status   string
}

// Solve runs built.Model with a wall-clock cap and a fixed random seed so
// that two runs of the same instance with the same seed produce the same
// assignments (spec §4.2, §5).
func Solve(built *builder.Built, timeout time.Duration, randomSeed int64) (*Result, error) {
	m, err := built.Model.Model()
	if err != nil {
		return nil, fmt.Errorf("instantiating CP model: %w", err)
	}

	params := &sat_parameters_go_proto.SatParameters{
		MaxTimeInSeconds: proto64(timeout.Seconds()),
		RandomSeed:       proto32(int32(randomSeed)),
	}

	response, err := cpmodel.SolveCpModelWithParameters(m, params)
	if err != nil {
		return nil, fmt.Errorf("solving CP model: %w", err)
	}

	status := response.GetStatus().String()
	switch status {
	case "OPTIMAL", "FEASIBLE":
		return &Result{Response: response, Status: status}, nil
	default:
		return nil, apperr.Infeasible(fmt.Sprintf("solver terminated with status %s", status))
	}
}

func proto64(v float64) *float64 { return &v }
func proto32(v int32) *int32     { return &v }
