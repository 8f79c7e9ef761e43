package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

type solveRequest struct {
	Kind        domain.SolverKind `json:"kind"`
	ProblemName string            `json:"problemName"`
	Problem     string            `json:"problem"`
}

type solveResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// HTTPRunner hands problem files to a remote solver service.
//
// The problem file text is POSTed as JSON and the service answers with the
// solver's captured console output. Transient failures (connection errors,
// 429, 500, 502 and 503 responses) are retried with exponential backoff;
// timeouts are not.
// The runner is safe for concurrent use.
type HTTPRunner struct {
	session *http.Client
	baseURL string
	backoff time.Duration
}

func NewHTTPRunner(baseURL string, timeout time.Duration) (*HTTPRunner, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("http runner: base url is empty")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("http runner: timeout must be positive (got %s)", timeout)
	}

	return &HTTPRunner{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		backoff: 200 * time.Millisecond,
	}, nil
}

func (h *HTTPRunner) Run(
	ctx context.Context,
	kind domain.SolverKind,
	problemPath string,
) (_ ports.SolverOutput, err error) {
	defer obs.Time(ctx, "solver.http.Run")(&err)

	problem, err := os.ReadFile(problemPath)
	if err != nil {
		return ports.SolverOutput{}, fmt.Errorf("http solver %q: read problem %q: %w", kind, problemPath, err)
	}

	payload, err := json.Marshal(solveRequest{
		Kind:        kind,
		ProblemName: strings.TrimSuffix(filepath.Base(problemPath), filepath.Ext(problemPath)),
		Problem:     string(problem),
	})
	if err != nil {
		return ports.SolverOutput{}, fmt.Errorf("http solver %q: marshal request: %w", kind, err)
	}

	endpoint := h.baseURL + "/solve/" + string(kind)
	resp, err := h.doWithRetry(ctx, func() (*http.Request, error) {
		return h.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return ports.SolverOutput{}, fmt.Errorf("http solver %q: %w: %v", kind, ports.ErrSolverNotFound, err)
		}
		if errors.As(err, &he) && he.Code == http.StatusGatewayTimeout {
			return ports.SolverOutput{}, fmt.Errorf("http solver %q: %w: %v", kind, ports.ErrSolverTimeout, err)
		}
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return ports.SolverOutput{}, fmt.Errorf("http solver %q: %w: %v", kind, ports.ErrSolverTimeout, err)
		}
		return ports.SolverOutput{}, fmt.Errorf("http solver %q: %w", kind, err)
	}
	defer resp.Body.Close()

	var decoded solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.SolverOutput{}, fmt.Errorf("http solver %q: decode response: %w", kind, err)
	}

	return ports.SolverOutput{Stdout: decoded.Stdout, Stderr: decoded.Stderr}, nil
}

func (h *HTTPRunner) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := obs.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	return req, nil
}

func (h *HTTPRunner) do(req *http.Request) (*http.Response, error) {
	resp, err := h.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures using exponential backoff while
// respecting context cancellation. See retryable.
func (h *HTTPRunner) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := h.backoff

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := h.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// retryable reports whether a failed solve may be re-posted. Timeouts (a
// client deadline or a 504 from the solver) are final: the solver already
// spent the whole budget and a retry would start the same work again.
func retryable(err error) bool {
	if isTimeout(err) {
		return false
	}

	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
