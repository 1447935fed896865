package challengetests

import (
	"fmt"
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// API sends requests on behalf of one test, in that test's session. Request and response
// logs go to the test's debug output.
type API struct {
	t       *contract.T
	Session *harness.Session
}

func NewAPI(t *contract.T) *API {
	c := requireContext(t)
	return &API{t: t, Session: c.CurrentSession(t).WithLogger(t.DebugLogger())}
}

func (a *API) Request(method, path string) *harness.Request {
	return a.Session.NewRequest(method, path)
}

// Send sends a request with the test's deadline, and fails the test immediately if no
// response was received.
func (a *API) Send(req *harness.Request) *harness.Response {
	resp, err := req.Do(a.t.Context())
	require.NoError(a.t, err)
	return resp
}

// Do sends a request that has no body and no extra headers.
func (a *API) Do(method, path string) *harness.Response {
	return a.Send(a.Request(method, path))
}

func (a *API) ListTodos() []apidef.Todo {
	resp := a.Do(http.MethodGet, apidef.PathTodos)
	RequireStatus(a.t, resp, http.StatusOK)
	var list apidef.TodoList
	require.NoError(a.t, resp.DecodeJSON(&list))
	return list.Todos
}

// FirstTodo returns whichever todo the service lists first. Tests use it instead of assuming
// that any particular ID exists.
func (a *API) FirstTodo() apidef.Todo {
	todos := a.ListTodos()
	require.NotEmpty(a.t, todos, "expected the service to have at least one todo")
	return todos[0]
}

func (a *API) CreateTodo(payload apidef.TodoPayload) apidef.Todo {
	resp := a.Send(a.Request(http.MethodPost, apidef.PathTodos).JSONBody(payload))
	RequireStatus(a.t, resp, http.StatusCreated)
	var todo apidef.Todo
	require.NoError(a.t, resp.DecodeJSON(&todo))
	require.NotZero(a.t, todo.ID, "created todo has no ID")
	return todo
}

// CreateTemporaryTodo creates a todo that is deleted again when the test finishes.
func (a *API) CreateTemporaryTodo(payload apidef.TodoPayload) apidef.Todo {
	todo := a.CreateTodo(payload)
	a.DeleteLater(todo.ID)
	return todo
}

// DeleteLater deletes a todo after the test has finished. Failures are only logged, since the
// test's outcome has already been decided.
func (a *API) DeleteLater(id int) {
	a.t.Defer(func() {
		resp, err := a.Request(http.MethodDelete, apidef.TodoPath(id)).Do(a.t.Context())
		if err != nil {
			a.t.Debug("could not delete todo %d: %s", id, err)
		} else if resp.StatusCode != http.StatusOK {
			a.t.Debug("could not delete todo %d: status %d", id, resp.StatusCode)
		}
	})
}

// AuthToken authenticates as the admin user and returns the token for the secret note.
func (a *API) AuthToken() string {
	resp := a.Send(a.Request(http.MethodPost, apidef.PathSecretToken).EncodedBasicAuth(apidef.AdminCredentials))
	RequireStatus(a.t, resp, http.StatusCreated)
	token := resp.Header.Get(apidef.HeaderAuthToken)
	require.NotEmpty(a.t, token, "service did not return an %s header", apidef.HeaderAuthToken)
	return token
}

func RequireStatus(t *contract.T, resp *harness.Response, status int) {
	require.Equal(t, status, resp.StatusCode, "unexpected response: %s", resp)
}

// ErrorMessages returns the errorMessages array of a JSON error response.
func ErrorMessages(t *contract.T, resp *harness.Response) []string {
	value, err := resp.Path("$.errorMessages")
	require.NoError(t, err)
	items, ok := value.([]interface{})
	require.True(t, ok, "errorMessages is not an array: %v", value)
	ret := make([]string, 0, len(items))
	for _, item := range items {
		ret = append(ret, fmt.Sprint(item))
	}
	return ret
}

func AssertFirstErrorMessage(t *contract.T, resp *harness.Response, expected string) {
	messages := ErrorMessages(t, resp)
	if assert.NotEmpty(t, messages, "response has no error messages") {
		assert.Equal(t, expected, messages[0])
	}
}

// RequireError checks both the status and the first error message of an error response.
func RequireError(t *contract.T, resp *harness.Response, status int, message string) {
	RequireStatus(t, resp, status)
	AssertFirstErrorMessage(t, resp, message)
}
