package contract

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/apichallenges/todo-contract-tests/framework"
)

// Config controls how a test run is executed.
type Config struct {
	// Filter, if non-nil, decides which tests are run. Groups are never filtered themselves;
	// only the tests inside them are.
	Filter Filter

	// TestLogger receives progress notifications. If nil, nothing is reported.
	TestLogger TestLogger

	// Parallelism is the maximum number of groups or parallel tests that can be running at
	// once. If it is less than 2, groups run one at a time in the order they were declared.
	Parallelism int

	// Retries is the number of additional attempts that are made for a failed test that has
	// no subtests. Only the outcome of the last attempt is recorded.
	Retries int

	// Timeout is the time limit for each test. Zero means no limit.
	Timeout time.Duration

	// Context is the parent of every test's context; cancelling it aborts the run.
	Context context.Context

	// TestContext is an arbitrary value that tests can retrieve with T.TestContext.
	TestContext interface{}
}

type environment struct {
	config  Config
	results Results
	workers chan struct{}
	lock    sync.Mutex
}

// T represents a test or subtest.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features that are convenient for testing
// a remote service: captured debug output, a per-test deadline, retries of failed tests, and
// groups of tests that run concurrently.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if
// it were a *testing.T.
type T struct {
	env           *environment
	id            TestID
	ctx           context.Context
	cancel        context.CancelFunc
	testContext   interface{}
	debugLogger   framework.CapturingLogger
	failed        bool
	skipped       bool
	skipReason    string
	errors        []error
	cleanups      []func()
	subtests      int
	children      sync.WaitGroup
	releaseWorker func()
}

// Run executes a test run whose root scope is action, and returns the results of every test
// that was started inside it.
func Run(config Config, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	env := &environment{
		config:  config,
		workers: make(chan struct{}, config.Parallelism),
	}
	start := time.Now()
	t := env.newT(TestID{}, config.TestContext, nil)
	t.run(action)
	if t.failed {
		result := t.result(1, time.Since(start))
		env.record(result)
		config.TestLogger.TestFinished(result, t.debugLogger.Output())
	}
	return env.results
}

func (e *environment) newT(id TestID, testContext interface{}, releaseWorker func()) *T {
	var ctx context.Context
	var cancel context.CancelFunc
	if e.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(e.config.Context, e.config.Timeout)
	} else {
		ctx, cancel = context.WithCancel(e.config.Context)
	}
	return &T{
		env:           e,
		id:            id,
		ctx:           ctx,
		cancel:        cancel,
		testContext:   testContext,
		releaseWorker: releaseWorker,
	}
}

func (e *environment) selected(id TestID) bool {
	return e.config.Filter == nil || e.config.Filter(id)
}

func (e *environment) record(result TestResult) {
	e.lock.Lock()
	e.results.Tests = append(e.results.Tests, result)
	if result.Failed() {
		e.results.Failures = append(e.results.Failures, result)
	}
	e.lock.Unlock()
}

func (e *environment) acquireWorker() func() {
	e.workers <- struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() { <-e.workers })
	}
}

func (e *environment) runTest(id TestID, testContext interface{}, action func(*T), releaseWorker func()) {
	e.config.TestLogger.TestStarted(id)
	start := time.Now()
	var t *T
	var previousErrors []error
	attempts := 0
	for {
		attempts++
		t = e.newT(id, testContext, releaseWorker)
		for _, err := range previousErrors {
			t.Debug("attempt %d failed: %s", attempts-1, err)
		}
		t.run(action)
		if !t.failed || t.skipped || t.subtests > 0 || attempts > e.config.Retries || e.config.Context.Err() != nil {
			break
		}
		previousErrors = t.errors
	}
	result := t.result(attempts, time.Since(start))

	if t.subtests > 0 && !t.failed {
		// A group that passed has nothing to report beyond the results of its own tests.
		return
	}
	e.record(result)
	if t.skipped {
		e.config.TestLogger.TestSkipped(id, t.skipReason)
	} else {
		e.config.TestLogger.TestFinished(result, t.debugLogger.Output())
	}
}

func (e *environment) skip(id TestID, reason string) {
	e.record(TestResult{TestID: id, Skipped: true, SkipReason: reason})
	e.config.TestLogger.TestSkipped(id, reason)
}

func (t *T) run(action func(*T)) {
	defer t.finish()
	defer func() {
		if r := recover(); r != nil {
			if t.skipped {
				return
			}
			t.failed = true
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					t.errors = append(t.errors, errors.New("test failed with no failure message"))
				}
			} else {
				t.errors = append(t.errors, fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
			}
		}
	}()

	action(t)
}

func (t *T) finish() {
	if t.subtests > 0 && t.releaseWorker != nil {
		// Parallel children may need the worker slot that this test is holding.
		t.releaseWorker()
	}
	t.children.Wait()
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		t.runCleanup(t.cleanups[i])
	}
	t.cleanups = nil
	if t.subtests == 0 && !t.skipped && errors.Is(t.ctx.Err(), context.DeadlineExceeded) {
		t.failed = true
		t.errors = append(t.errors, fmt.Errorf("test timed out after %s", t.env.config.Timeout))
	}
	t.cancel()
}

func (t *T) runCleanup(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*T); ok {
				return
			}
			t.failed = true
			t.errors = append(t.errors, fmt.Errorf("unexpected panic in cleanup: %+v", r))
		}
	}()
	fn()
}

func (t *T) result(attempts int, duration time.Duration) TestResult {
	return TestResult{
		TestID:     t.id,
		Errors:     t.errors,
		Skipped:    t.skipped,
		SkipReason: t.skipReason,
		Attempts:   attempts,
		Duration:   duration,
	}
}

func (t *T) ID() TestID {
	return t.id
}

// Context returns a context that is cancelled when the test's time limit expires or the
// whole run is aborted. Every request made on behalf of the test should use it.
func (t *T) Context() context.Context {
	return t.ctx
}

// TestContext returns the value that was provided in Config.TestContext, or the value most
// recently passed to SetTestContext in this test or one of its ancestors.
func (t *T) TestContext() interface{} {
	return t.testContext
}

// SetTestContext replaces the test context for this test and for any subtests that it
// starts afterward.
func (t *T) SetTestContext(value interface{}) {
	t.testContext = value
}

// Run runs a subtest synchronously. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	t.subtests++
	if !t.env.selected(id) {
		t.env.skip(id, "excluded by filter parameters")
		return
	}
	t.env.runTest(id, t.testContext, action, nil)
}

// RunParallel starts a subtest that will run concurrently with other parallel tests, subject
// to Config.Parallelism. The parent test does not finish until all of its parallel subtests
// have finished.
func (t *T) RunParallel(name string, action func(*T)) {
	id := t.id.Plus(name)
	t.subtests++
	if !t.env.selected(id) {
		t.env.skip(id, "excluded by filter parameters")
		return
	}
	t.runInBackground(id, action)
}

// RunGroup runs a group of related tests. The filter is not applied to the group itself. When
// Config.Parallelism is greater than 1 the group runs concurrently with other groups;
// otherwise it runs synchronously, so groups execute in the order they are declared.
func (t *T) RunGroup(name string, action func(*T)) {
	id := t.id.Plus(name)
	t.subtests++
	if t.env.config.Parallelism > 1 {
		t.runInBackground(id, action)
		return
	}
	t.env.runTest(id, t.testContext, action, nil)
}

func (t *T) runInBackground(id TestID, action func(*T)) {
	testContext := t.testContext
	t.children.Add(1)
	go func() {
		defer t.children.Done()
		release := t.env.acquireWorker()
		defer release()
		t.env.runTest(id, testContext, action, release)
	}()
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	t.Debug("error: %s", err)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

func (t *T) Failed() bool {
	return t.failed
}

// Helper exists so that testify recognizes T as a helper-aware TestingT. It has no effect.
func (t *T) Helper() {}

func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Defer schedules a function to run after the test and all of its subtests have finished.
// Deferred functions run in last-in-first-out order.
func (t *T) Defer(fn func()) {
	t.cleanups = append(t.cleanups, fn)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}
