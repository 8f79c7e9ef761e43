package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid run status transition")
	ErrRunNotFound       = errors.New("run not found")
)

type SolverKind string

const (
	SolverClassical SolverKind = "classical"
	SolverQuantum   SolverKind = "quantum"
)

func (k SolverKind) Valid() bool {
	return k == SolverClassical || k == SolverQuantum
}

type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunInFlight  RunStatus = "in_flight"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed
}

// One request/response cycle against an external solver.
// A Run moves idle -> in_flight -> succeeded | failed and never leaves a
// terminal state. Stdout is kept verbatim so routes can be re-derived later.
type Run struct {
	ID          string
	Kind        SolverKind
	Status      RunStatus
	ProblemName string
	Problem     Problem
	Stdout      string
	Stderr      string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewRun(id string, kind SolverKind, problem Problem, now time.Time) *Run {
	return &Run{
		ID:          id,
		Kind:        kind,
		Status:      RunIdle,
		ProblemName: problem.Name(),
		Problem:     problem,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the run to the next status.
func (r *Run) Transition(to RunStatus, at time.Time) error {
	ok := false
	switch r.Status {
	case RunIdle:
		ok = to == RunInFlight
	case RunInFlight:
		ok = to == RunSucceeded || to == RunFailed
	}
	if !ok {
		return fmt.Errorf("run %s: %w: %s -> %s", r.ID, ErrInvalidTransition, r.Status, to)
	}

	r.Status = to
	r.UpdatedAt = at
	return nil
}

// Succeed records solver output and marks the run succeeded.
func (r *Run) Succeed(stdout, stderr, message string, at time.Time) error {
	if err := r.Transition(RunSucceeded, at); err != nil {
		return err
	}
	r.Stdout = stdout
	r.Stderr = stderr
	r.Message = message
	return nil
}

// Fail marks the run failed with a user-facing message.
func (r *Run) Fail(stderr, message string, at time.Time) error {
	if err := r.Transition(RunFailed, at); err != nil {
		return err
	}
	r.Stderr = stderr
	r.Message = message
	return nil
}
