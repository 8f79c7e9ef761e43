package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

// ExecRunner runs a solver as a local subprocess: argv prefix + problem path.
//
// Each call is bounded by the runner timeout on top of the caller's context.
// The runner is safe for concurrent use once configured.
type ExecRunner struct {
	commands  map[domain.SolverKind][]string
	solutions map[domain.SolverKind]string
	timeout   time.Duration

	// Held for the whole run of a kind with a solution file.
	solutionMu sync.Mutex
}

func NewExecRunner(commands map[domain.SolverKind][]string, timeout time.Duration) (*ExecRunner, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("exec runner: timeout must be positive (got %s)", timeout)
	}

	cmds := make(map[domain.SolverKind][]string, len(commands))
	for kind, argv := range commands {
		if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
			continue
		}
		cmds[kind] = append([]string(nil), argv...)
	}

	return &ExecRunner{
		commands:  cmds,
		solutions: make(map[domain.SolverKind]string),
		timeout:   timeout,
	}, nil
}

// WithSolutionFile makes successful runs of kind append the file at path to
// their stdout, for solvers that write their routes to a fixed file. The file
// is removed before each run so a previous solution is never reported.
// Call it before the runner is shared.
func (r *ExecRunner) WithSolutionFile(kind domain.SolverKind, path string) *ExecRunner {
	if path = strings.TrimSpace(path); path != "" {
		r.solutions[kind] = path
	}
	return r
}

// ParseCommand splits a configured command line on whitespace.
func ParseCommand(line string) []string {
	return strings.Fields(line)
}

func (r *ExecRunner) Run(
	ctx context.Context,
	kind domain.SolverKind,
	problemPath string,
) (_ ports.SolverOutput, err error) {
	defer obs.Time(ctx, "solver.exec.Run")(&err)

	argv, ok := r.commands[kind]
	if !ok {
		return ports.SolverOutput{}, fmt.Errorf("exec solver %q: %w: no command configured", kind, ports.ErrSolverNotFound)
	}

	solutionPath := r.solutions[kind]
	if solutionPath != "" {
		r.solutionMu.Lock()
		defer r.solutionMu.Unlock()

		if err := os.Remove(solutionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ports.SolverOutput{}, fmt.Errorf("exec solver %q: clear solution file: %w", kind, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string(nil), argv[1:]...), problemPath)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.WaitDelay = 2 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ports.SolverOutput{}, fmt.Errorf("exec solver %q: stdout pipe: %w", kind, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return ports.SolverOutput{}, fmt.Errorf("exec solver %q: stderr pipe: %w", kind, err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return ports.SolverOutput{}, fmt.Errorf("exec solver %q: %w: %v", kind, ports.ErrSolverNotFound, err)
		}
		return ports.SolverOutput{}, fmt.Errorf("exec solver %q: start: %w", kind, err)
	}

	// Both pipes must be drained before Wait.
	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	copyErr := g.Wait()
	waitErr := cmd.Wait()

	out := ports.SolverOutput{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("exec solver %q: %w after %s", kind, ports.ErrSolverTimeout, r.timeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("exec solver %q: %w", kind, ctxErr)
	}
	if waitErr != nil {
		return out, fmt.Errorf("exec solver %q: %w: %s", kind, waitErr, strings.TrimSpace(out.Stderr))
	}
	if copyErr != nil {
		return out, fmt.Errorf("exec solver %q: read output: %w", kind, copyErr)
	}

	if solutionPath != "" {
		solution, err := os.ReadFile(solutionPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("req_id=%s solver=%s solution file missing path=%s", obs.RequestID(ctx), kind, solutionPath)
		case err != nil:
			return out, fmt.Errorf("exec solver %q: read solution file: %w", kind, err)
		default:
			out.Stdout = appendSolution(out.Stdout, string(solution))
		}
	}

	return out, nil
}

func appendSolution(stdout, solution string) string {
	if stdout != "" && !strings.HasSuffix(stdout, "\n") {
		stdout += "\n"
	}
	return stdout + solution
}
