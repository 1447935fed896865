package challengetests

import (
	"sync"

	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/stretchr/testify/require"
)

// ChallengeTestContext is the configuration that every test receives through
// contract.Config.TestContext.
type ChallengeTestContext struct {
	Harness *harness.TestHarness

	// Session is the challenger session that tests send their requests in, unless
	// IsolateGroups is set.
	Session *harness.Session

	// IsolateGroups makes each group of tests run in a new session, so that groups that change
	// the todo store cannot interfere with each other. If it is false, every group uses the
	// same session and the groups run one at a time.
	IsolateGroups bool

	sessions     *sessionRegistry
	groupSession *groupSession
}

type sessionRegistry struct {
	lock  sync.Mutex
	guids []string
}

func (r *sessionRegistry) add(guid string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, g := range r.guids {
		if g == guid {
			return
		}
	}
	r.guids = append(r.guids, guid)
}

func (r *sessionRegistry) all() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.guids...)
}

// groupSession is created by the first test in a group that needs it, so that a group whose
// tests are all filtered out does not create a session. If creating it fails, the next test
// tries again.
type groupSession struct {
	lock    sync.Mutex
	session *harness.Session
}

func NewChallengeTestContext(h *harness.TestHarness, session *harness.Session, isolateGroups bool) ChallengeTestContext {
	c := ChallengeTestContext{
		Harness:       h,
		Session:       session,
		IsolateGroups: isolateGroups,
		sessions:      &sessionRegistry{},
	}
	c.sessions.add(session.GUID())
	return c
}

// SessionGUIDs returns the GUID of every session that tests have made progress in, starting
// with the session that the context was created with.
func (c ChallengeTestContext) SessionGUIDs() []string {
	return c.sessions.all()
}

// NewIsolatedSession creates a new challenger session and records it so that its progress is
// included in SessionGUIDs.
func (c ChallengeTestContext) NewIsolatedSession(t *contract.T) *harness.Session {
	session, err := c.Harness.NewSession(t.Context(), t.DebugLogger())
	require.NoError(t, err, "could not create a challenger session")
	c.sessions.add(session.GUID())
	return session
}

// CurrentSession returns the session that the calling test should use.
func (c ChallengeTestContext) CurrentSession(t *contract.T) *harness.Session {
	if c.groupSession == nil {
		return c.Session
	}
	c.groupSession.lock.Lock()
	defer c.groupSession.lock.Unlock()
	if c.groupSession.session == nil {
		c.groupSession.session = c.NewIsolatedSession(t)
		t.Debug("created session %s for group", c.groupSession.session.GUID())
	}
	return c.groupSession.session
}

func requireContext(t *contract.T) ChallengeTestContext {
	if c, ok := t.TestContext().(ChallengeTestContext); ok {
		return c
	}
	panic("ChallengeTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// group wraps the tests of one group so that they share a session of their own when the
// context asks for isolation.
func group(action func(*contract.T)) func(*contract.T) {
	return func(t *contract.T) {
		c := requireContext(t)
		if c.IsolateGroups {
			c.groupSession = &groupSession{}
			t.SetTestContext(c)
		}
		action(t)
	}
}
