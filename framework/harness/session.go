package harness

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework"

	"github.com/google/uuid"
)

// Session is a challenger session on the service. The service keeps a separate todo store and
// challenge progress for each session; every request made through a Session carries the
// session's GUID in the X-CHALLENGER header so that the service can correlate it.
type Session struct {
	harness *TestHarness
	guid    string
	logger  framework.Logger
}

// NewSession asks the service to create a new challenger session.
//
// This is the bootstrap step for a test run: without a session, none of the other requests
// can be correlated, so callers should treat an error as fatal.
func (h *TestHarness) NewSession(ctx context.Context, logger framework.Logger) (*Session, error) {
	if logger == nil {
		logger = h.logger
	}
	resp, err := h.NewRequest(http.MethodPost, apidef.PathChallenger, logger).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create challenger session: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var message string
		if len(resp.Body) != 0 {
			message = ": " + string(resp.Body)
		}
		return nil, fmt.Errorf("unexpected response status %d when creating challenger session%s", resp.StatusCode, message)
	}
	guid := resp.Header.Get(apidef.HeaderChallenger)
	if guid == "" {
		return nil, errors.New("service did not return an X-CHALLENGER header with a session ID")
	}
	session, err := h.ResumeSession(guid, logger)
	if err != nil {
		return nil, err
	}
	logger.Printf("Created challenger session %s", guid)
	return session, nil
}

// ResumeSession returns a Session for a GUID that was created earlier, without contacting the
// service.
func (h *TestHarness) ResumeSession(guid string, logger framework.Logger) (*Session, error) {
	if _, err := uuid.Parse(guid); err != nil {
		return nil, fmt.Errorf("session ID %q is not a valid GUID: %w", guid, err)
	}
	if logger == nil {
		logger = h.logger
	}
	return &Session{harness: h, guid: guid, logger: logger}, nil
}

func (s *Session) GUID() string {
	return s.guid
}

// WithLogger returns a copy of the Session that writes debug output to logger. Tests use this
// so that request logs end up in their own captured output.
func (s *Session) WithLogger(logger framework.Logger) *Session {
	ret := *s
	ret.logger = logger
	return &ret
}

// NewRequest starts building a request that carries this session's X-CHALLENGER header.
func (s *Session) NewRequest(method, path string) *Request {
	return s.harness.NewRequest(method, path, s.logger).Header(apidef.HeaderChallenger, s.guid)
}
