package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportInfo describes the run that produced a set of results.
type ReportInfo struct {
	Target    string
	Session   string
	StartedAt time.Time
	EndedAt   time.Time
}

type reportSummary struct {
	Target     string         `json:"target"`
	Session    string         `json:"session,omitempty"`
	StartedAt  string         `json:"started_at"`
	EndedAt    string         `json:"ended_at"`
	DurationMS int64          `json:"duration_ms"`
	Stats      map[string]int `json:"stats"`
	Tests      []reportTest   `json:"tests"`
}

type reportTest struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	Attempts   int      `json:"attempts,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	Errors     []string `json:"errors,omitempty"`
	SkipReason string   `json:"skip_reason,omitempty"`
}

// WriteReport writes summary.json and summary.md describing the results into dir, creating
// the directory if necessary.
func (r Results) WriteReport(dir string, info ReportInfo) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create report directory: %w", err)
	}
	summary := r.summary(info)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.json"), append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "summary.md"), []byte(summaryMarkdown(summary)), 0o644)
}

func (r Results) summary(info ReportInfo) reportSummary {
	passed, failed, skipped := r.Counts()
	s := reportSummary{
		Target:     info.Target,
		Session:    info.Session,
		StartedAt:  info.StartedAt.Format(time.RFC3339Nano),
		EndedAt:    info.EndedAt.Format(time.RFC3339Nano),
		DurationMS: info.EndedAt.Sub(info.StartedAt).Milliseconds(),
		Stats: map[string]int{
			"total":   len(r.Tests),
			"passed":  passed,
			"failed":  failed,
			"skipped": skipped,
		},
	}
	for _, t := range r.Tests {
		rt := reportTest{
			ID:         t.TestID.String(),
			Status:     "PASS",
			Attempts:   t.Attempts,
			DurationMS: t.Duration.Milliseconds(),
			SkipReason: t.SkipReason,
		}
		switch {
		case t.Skipped:
			rt.Status = "SKIP"
		case t.Failed():
			rt.Status = "FAIL"
		}
		for _, e := range t.Errors {
			rt.Errors = append(rt.Errors, e.Error())
		}
		s.Tests = append(s.Tests, rt)
	}
	sort.Slice(s.Tests, func(i, j int) bool { return s.Tests[i].ID < s.Tests[j].ID })
	return s
}

func summaryMarkdown(s reportSummary) string {
	var b strings.Builder
	b.WriteString("# API Challenges Contract Test Summary\n\n")
	fmt.Fprintf(&b, "- Target: `%s`\n", s.Target)
	if s.Session != "" {
		fmt.Fprintf(&b, "- Session: `%s`\n", s.Session)
	}
	fmt.Fprintf(&b, "- Started: `%s`\n", s.StartedAt)
	fmt.Fprintf(&b, "- Duration: `%d ms`\n", s.DurationMS)
	fmt.Fprintf(&b, "- Passed/Failed/Skipped: `%d/%d/%d`\n\n", s.Stats["passed"], s.Stats["failed"], s.Stats["skipped"])

	b.WriteString("## Failed Tests\n\n")
	hasFailed := false
	for _, t := range s.Tests {
		if t.Status != "FAIL" {
			continue
		}
		hasFailed = true
		fmt.Fprintf(&b, "- `%s`\n", t.ID)
		for _, e := range t.Errors {
			fmt.Fprintf(&b, "  - %s\n", strings.ReplaceAll(e, "\n", " "))
		}
	}
	if !hasFailed {
		b.WriteString("- none\n")
	}

	b.WriteString("\n## Test Table\n\n")
	b.WriteString("| test | status | attempts | duration_ms |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, t := range s.Tests {
		fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", strings.ReplaceAll(t.ID, "|", `\|`), t.Status, t.Attempts, t.DurationMS)
	}
	return b.String()
}
