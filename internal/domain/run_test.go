package domain

import (
	"errors"
	"testing"
	"time"
)

func TestRunLifecycle(t *testing.T) {
	// build test data
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	problem := Problem{Depots: 22, Capacity: 6000, Fleet: 4}

	run := NewRun("run-1", SolverClassical, problem, created)
	if run.Status != RunIdle {
		t.Fatalf("status = %q, want %q", run.Status, RunIdle)
	}
	if run.ProblemName != "E-n22-k4" {
		t.Fatalf("problem name = %q, want E-n22-k4", run.ProblemName)
	}

	// call the methods under test
	started := created.Add(time.Second)
	if err := run.Transition(RunInFlight, started); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	finished := created.Add(2 * time.Second)
	if err := run.Succeed("Route 1: [0, 2] - Distance: 1.00", "", "ok", finished); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	if run.Status != RunSucceeded {
		t.Errorf("status = %q, want %q", run.Status, RunSucceeded)
	}
	if !run.UpdatedAt.Equal(finished) {
		t.Errorf("UpdatedAt = %v, want %v", run.UpdatedAt, finished)
	}
	if run.Stdout == "" {
		t.Errorf("stdout should be recorded")
	}
	if !run.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v", run.CreatedAt)
	}
}

func TestRunRejectsInvalidTransitions(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from RunStatus
		to   RunStatus
	}{
		{"idle to succeeded", RunIdle, RunSucceeded},
		{"idle to failed", RunIdle, RunFailed},
		{"in flight to idle", RunInFlight, RunIdle},
		{"in flight to in flight", RunInFlight, RunInFlight},
		{"succeeded to failed", RunSucceeded, RunFailed},
		{"failed to in flight", RunFailed, RunInFlight},
		{"failed to succeeded", RunFailed, RunSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "r", Status: tt.from}
			err := run.Transition(tt.to, now)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
			if run.Status != tt.from {
				t.Fatalf("status changed to %q on rejected transition", run.Status)
			}
		})
	}
}

func TestRunFail(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	run := NewRun("r", SolverQuantum, Problem{Depots: 3, Capacity: 1, Fleet: 1}, now)

	if err := run.Fail("boom", "Solver crashed.", now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("failing an idle run: err = %v, want ErrInvalidTransition", err)
	}

	if err := run.Transition(RunInFlight, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := run.Fail("boom", "Solver crashed.", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != RunFailed || run.Stderr != "boom" || run.Message != "Solver crashed." {
		t.Fatalf("unexpected run after Fail: %+v", run)
	}
}
