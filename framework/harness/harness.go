package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework"
)

const statusPollInterval = time.Millisecond * 100

// TestHarness manages communication with the service under test. It knows the service's base
// URL, and can create sessions and build requests against it.
type TestHarness struct {
	baseURL string
	client  *http.Client
	logger  framework.Logger
}

// NewTestHarness creates a TestHarness for the service at baseURL. It does not make any
// requests; call AwaitService to verify that the service is reachable.
func NewTestHarness(baseURL string, debugLogger framework.Logger) *TestHarness {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	return &TestHarness{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
		logger:  debugLogger,
	}
}

func (h *TestHarness) BaseURL() string {
	return h.baseURL
}

// AwaitService polls the service's status resource until it responds with a success status,
// or until the timeout elapses.
func (h *TestHarness) AwaitService(ctx context.Context, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service at %s", h.baseURL)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		fmt.Fprintf(output, ".")
		resp, err := h.NewRequest(http.MethodGet, apidef.PathHeartbeat, h.logger).Do(ctx)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				fmt.Fprintln(output)
				return nil
			}
			err = fmt.Errorf("service returned status code %d", resp.StatusCode)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		case <-time.After(statusPollInterval):
		}
	}
}

// NewRequest starts building a request that is not associated with any session.
func (h *TestHarness) NewRequest(method, path string, logger framework.Logger) *Request {
	if logger == nil {
		logger = h.logger
	}
	return &Request{
		harness: h,
		method:  method,
		path:    path,
		header:  make(http.Header),
		logger:  logger,
	}
}
