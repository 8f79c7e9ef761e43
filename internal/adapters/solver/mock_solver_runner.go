package solver

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/ports"
)

// MockSolverRunner returns canned output per solver kind.
type MockSolverRunner struct {
	outputs map[domain.SolverKind]ports.SolverOutput
	err     error
	calls   atomic.Int64
}

func NewMockSolverRunner(outputs map[domain.SolverKind]ports.SolverOutput) *MockSolverRunner {
	return &MockSolverRunner{outputs: outputs}
}

// NewFailingSolverRunner returns a runner whose every call fails with err.
func NewFailingSolverRunner(err error) *MockSolverRunner {
	return &MockSolverRunner{err: err}
}

func (m *MockSolverRunner) Run(ctx context.Context, kind domain.SolverKind, problemPath string) (ports.SolverOutput, error) {
	m.calls.Inc()

	if m.err != nil {
		return ports.SolverOutput{}, m.err
	}

	out, ok := m.outputs[kind]
	if !ok {
		return ports.SolverOutput{}, fmt.Errorf("%w: no canned output for %q", ports.ErrSolverNotFound, kind)
	}
	return out, nil
}

// Calls reports how many times Run was invoked.
func (m *MockSolverRunner) Calls() int64 { return m.calls.Load() }
