package challengetests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"
	"github.com/apichallenges/todo-contract-tests/internal/fakeapi"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leafTestCount = 59

func withFakeService(t *testing.T, isolate bool, action func(ChallengeTestContext)) {
	httphelpers.WithServer(fakeapi.NewServer(nil).Handler(), func(server *httptest.Server) {
		h := harness.NewTestHarness(server.URL, nil)
		session, err := h.NewSession(context.Background(), nil)
		require.NoError(t, err)
		action(NewChallengeTestContext(h, session, isolate))
	})
}

func requireAllPassed(t *testing.T, results contract.Results) {
	require.True(t, results.OK(), "%s", results.Err())
	passed, failed, skipped := results.Counts()
	assert.Equal(t, leafTestCount, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, skipped)
}

func TestSuitePassesWithIsolatedGroups(t *testing.T) {
	withFakeService(t, true, func(c ChallengeTestContext) {
		results := RunTestSuite(c, contract.Config{Parallelism: 4, Timeout: 10 * time.Second})
		requireAllPassed(t, results)

		// one session per group, plus the bootstrap session and the one created by PUT
		assert.Len(t, c.SessionGUIDs(), 14)

		p, err := FetchProgress(context.Background(), c.Harness, c.SessionGUIDs())
		require.NoError(t, err)
		assert.Equal(t, apidef.ChallengeCount, p.Total)
		assert.Len(t, p.Completed, apidef.ChallengeCount)
	})
}

func TestSuitePassesInSharedSession(t *testing.T) {
	withFakeService(t, false, func(c ChallengeTestContext) {
		results := RunTestSuite(c, contract.Config{Parallelism: 4, Timeout: 10 * time.Second})
		requireAllPassed(t, results)

		p, err := FetchProgress(context.Background(), c.Harness, []string{c.Session.GUID()})
		require.NoError(t, err)
		assert.Len(t, p.Completed, apidef.ChallengeCount-1, "all but PUT /challenger/guid CREATE")
	})
}

func TestFilterSelectsSingleChallenge(t *testing.T) {
	withFakeService(t, true, func(c ChallengeTestContext) {
		var filters contract.RegexFilters
		require.NoError(t, filters.MustMatch.Set(`^GET/GET /todos \(200\)$`))
		results := RunTestSuite(c, contract.Config{Filter: filters.AsFilter, Parallelism: 2})

		require.True(t, results.OK(), "%s", results.Err())
		passed, _, skipped := results.Counts()
		assert.Equal(t, 1, passed)
		assert.Equal(t, leafTestCount-1, skipped)
	})
}

func TestFailuresAreReported(t *testing.T) {
	// A service that accepts the bootstrap but returns 500 for everything else.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == apidef.PathChallenger {
			w.Header().Set(apidef.HeaderChallenger, "5f6c1a0e-52d5-4b8a-9b1e-1e7a1c0b2d3e")
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h := harness.NewTestHarness(server.URL, nil)
		session, err := h.NewSession(context.Background(), nil)
		require.NoError(t, err)

		var filters contract.RegexFilters
		require.NoError(t, filters.MustMatch.Set(`^heartbeat/`))
		c := NewChallengeTestContext(h, session, false)
		results := RunTestSuite(c, contract.Config{Filter: filters.AsFilter})

		assert.False(t, results.OK())
		require.Len(t, results.Failures, len(heartbeatCases)-2)
		for _, f := range results.Failures {
			assert.True(t, strings.HasPrefix(f.TestID.String(), "heartbeat/"), f.TestID.String())
		}
	})
}

func TestTestsFailWhenIsolatedSessionCannotBeCreated(t *testing.T) {
	var sessions int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == apidef.PathChallenger && atomic.AddInt32(&sessions, 1) == 1 {
			w.Header().Set(apidef.HeaderChallenger, "5f6c1a0e-52d5-4b8a-9b1e-1e7a1c0b2d3e")
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h := harness.NewTestHarness(server.URL, nil)
		session, err := h.NewSession(context.Background(), nil)
		require.NoError(t, err)

		var filters contract.RegexFilters
		require.NoError(t, filters.MustMatch.Set(`^bulk/`))
		c := NewChallengeTestContext(h, session, true)
		results := RunTestSuite(c, contract.Config{Filter: filters.AsFilter, Parallelism: 1})

		require.Len(t, results.Failures, 2)
		for _, f := range results.Failures {
			assert.True(t, strings.HasPrefix(f.TestID.String(), "bulk/"), f.TestID.String())
			require.NotEmpty(t, f.Errors)
			assert.Contains(t, f.Errors[0].Error(), "could not create a challenger session")
		}
		assert.Equal(t, []string{session.GUID()}, c.SessionGUIDs())
	})
}
