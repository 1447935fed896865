package challengetests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/hashicorp/go-multierror"
)

// Progress is the set of challenges that the service reports as completed, combined across
// one or more sessions.
type Progress struct {
	Total     int
	Completed map[string]string
	Sessions  []string
}

type challengeStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// FetchProgress asks the service for the challenge status of each session. A challenge counts
// as completed if it was completed in any of them. If some sessions could not be queried, the
// progress of the others is still returned along with the error.
func FetchProgress(ctx context.Context, h *harness.TestHarness, guids []string) (Progress, error) {
	p := Progress{Completed: make(map[string]string)}
	var result error
	for _, guid := range guids {
		session, err := h.ResumeSession(guid, nil)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		resp, err := session.NewRequest(http.MethodGet, apidef.PathChallenges).Do(ctx)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("session %s: %w", guid, err))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			result = multierror.Append(result, fmt.Errorf("session %s: unexpected response status %d", guid, resp.StatusCode))
			continue
		}
		var body struct {
			Challenges []challengeStatus `json:"challenges"`
		}
		if err := resp.DecodeJSON(&body); err != nil {
			result = multierror.Append(result, fmt.Errorf("session %s: %w", guid, err))
			continue
		}
		if len(body.Challenges) > p.Total {
			p.Total = len(body.Challenges)
		}
		for _, c := range body.Challenges {
			if c.Status {
				p.Completed[c.ID] = c.Name
			}
		}
		p.Sessions = append(p.Sessions, guid)
	}
	return p, result
}

// Print writes a summary of the progress, listing completed challenges in ID order.
func (p Progress) Print(out io.Writer, verbose bool) {
	fmt.Fprintf(out, "Challenges completed: %d/%d (sessions: %d)\n", len(p.Completed), p.Total, len(p.Sessions))
	if !verbose {
		return
	}
	ids := make([]string, 0, len(p.Completed))
	for id := range p.Completed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return challengeIDLess(ids[i], ids[j]) })
	for _, id := range ids {
		fmt.Fprintf(out, "  %s %s\n", id, p.Completed[id])
	}
}

// challengeIDLess orders numeric IDs by value, before any IDs that are not numbers.
func challengeIDLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil || errB == nil:
		return errA == nil
	default:
		return a < b
	}
}
