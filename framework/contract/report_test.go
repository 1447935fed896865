package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() Results {
	failure := TestResult{
		TestID:   id("POST create", "POST /todos (400) doneStatus"),
		Errors:   []error{errors.New("expected 400, got 201")},
		Attempts: 2,
		Duration: 120 * time.Millisecond,
	}
	return Results{
		Tests: []TestResult{
			{TestID: id("GET", "GET /todos (200)"), Attempts: 1, Duration: 30 * time.Millisecond},
			failure,
			{TestID: id("bulk", "POST /todos (201) all"), Skipped: true, SkipReason: "excluded by filter parameters"},
		},
		Failures: []TestResult{failure},
	}
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	info := ReportInfo{Target: "http://localhost:4567", Session: "abc", StartedAt: start, EndedAt: start.Add(time.Second)}

	require.NoError(t, sampleResults().WriteReport(dir, info))

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	var summary reportSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "http://localhost:4567", summary.Target)
	assert.Equal(t, int64(1000), summary.DurationMS)
	assert.Equal(t, map[string]int{"total": 3, "passed": 1, "failed": 1, "skipped": 1}, summary.Stats)
	require.Len(t, summary.Tests, 3)
	assert.Equal(t, "GET/GET /todos (200)", summary.Tests[0].ID)
	assert.Equal(t, "FAIL", summary.Tests[1].Status)
	assert.Equal(t, []string{"expected 400, got 201"}, summary.Tests[1].Errors)
	assert.Equal(t, "SKIP", summary.Tests[2].Status)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "- Passed/Failed/Skipped: `1/1/1`")
	assert.Contains(t, string(md), "- `POST create/POST /todos (400) doneStatus`\n  - expected 400, got 201")
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: id("a")}}})
	assert.Equal(t, "All tests passed (1 passed, 0 skipped)\n", buf.String())

	buf.Reset()
	PrintResults(&buf, sampleResults())
	assert.Contains(t, buf.String(), "FAILED TESTS (1 failed, 1 passed, 1 skipped):")
	assert.Contains(t, buf.String(), "* POST create/POST /todos (400) doneStatus\n    expected 400, got 201\n")
}

func TestResultsErrAggregatesFailures(t *testing.T) {
	assert.NoError(t, Results{}.Err())

	err := sampleResults().Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[POST create/POST /todos (400) doneStatus]: expected 400, got 201")
}
