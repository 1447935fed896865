package fakeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func withSession(t *testing.T, action func(*Server, *harness.Session)) {
	server := NewServer(nil)
	httphelpers.WithServer(server.Handler(), func(ts *httptest.Server) {
		session, err := harness.NewTestHarness(ts.URL, nil).NewSession(context.Background(), nil)
		require.NoError(t, err)
		action(server, session)
	})
}

func send(t *testing.T, req *harness.Request) *harness.Response {
	resp, err := req.Do(context.Background())
	require.NoError(t, err)
	return resp
}

func firstError(t *testing.T, resp *harness.Response) string {
	var body apidef.ErrorBody
	require.NoError(t, resp.DecodeJSON(&body))
	require.NotEmpty(t, body.ErrorMessages)
	return body.ErrorMessages[0]
}

func completed(t *testing.T, session *harness.Session) map[string]bool {
	resp := send(t, session.NewRequest(http.MethodGet, apidef.PathChallenges))
	require.Equal(t, 200, resp.StatusCode)
	var list challengeList
	require.NoError(t, resp.DecodeJSON(&list))
	ret := make(map[string]bool)
	for _, c := range list.Challenges {
		if c.Status {
			ret[c.Name] = true
		}
	}
	return ret
}

func TestNewSessionIsRegistered(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		assert.True(t, server.Session(session.GUID()))
		assert.True(t, completed(t, session)[chCreateChallenger.name()])
	})
}

func TestChallengeListHasEveryChallenge(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodGet, apidef.PathChallenges))
		var list challengeList
		require.NoError(t, resp.DecodeJSON(&list))
		assert.Len(t, list.Challenges, apidef.ChallengeCount)
		for _, c := range list.Challenges {
			assert.NotEmpty(t, c.Name, c.ID)
		}
	})
}

func TestSessionsHaveSeparateStores(t *testing.T) {
	server := NewServer(nil)
	httphelpers.WithServer(server.Handler(), func(ts *httptest.Server) {
		h := harness.NewTestHarness(ts.URL, nil)
		s1, err := h.NewSession(context.Background(), nil)
		require.NoError(t, err)
		s2, err := h.NewSession(context.Background(), nil)
		require.NoError(t, err)
		assert.NotEqual(t, s1.GUID(), s2.GUID())

		resp := send(t, s1.NewRequest(http.MethodDelete, apidef.TodoPath(1)))
		assert.Equal(t, 200, resp.StatusCode)

		var list apidef.TodoList
		require.NoError(t, send(t, s1.NewRequest(http.MethodGet, apidef.PathTodos)).DecodeJSON(&list))
		assert.Len(t, list.Todos, apidef.InitialTodoCount-1)
		require.NoError(t, send(t, s2.NewRequest(http.MethodGet, apidef.PathTodos)).DecodeJSON(&list))
		assert.Len(t, list.Todos, apidef.InitialTodoCount)
	})
}

func TestCreateTodoValidation(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		post := func(p apidef.TodoPayload) *harness.Response {
			return send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).JSONBody(p))
		}

		resp := post(apidef.DefaultTodo().With(apidef.FieldDoneStatus, ldvalue.String("bob")))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.WrongFieldType(apidef.FieldDoneStatus, "BOOLEAN", "STRING"), firstError(t, resp))

		resp = post(apidef.DefaultTodo().WithTitle(apidef.LongTitle))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.TooLongTitle, firstError(t, resp))

		resp = post(apidef.DefaultTodo().WithDescription(apidef.LongDescription))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.TooLongDescription, firstError(t, resp))

		resp = post(apidef.DefaultTodo().With("priority", ldvalue.String("extra")))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.UnknownField("priority"), firstError(t, resp))

		resp = post(apidef.DefaultTodo().Without(apidef.FieldTitle))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.MandatoryTitle, firstError(t, resp))

		resp = post(apidef.DefaultTodo().WithID(3))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.CreateWithID, firstError(t, resp))

		resp = post(apidef.DefaultTodo().WithDescription(apidef.ExtraLongString))
		assert.Equal(t, 413, resp.StatusCode)
		assert.Equal(t, apidef.RequestTooLarge, firstError(t, resp))

		resp = post(apidef.DefaultTodo().WithTitle(apidef.MaxLengthTitle).WithDescription(apidef.MaxLengthDescription))
		assert.Equal(t, 201, resp.StatusCode)
		var todo apidef.Todo
		require.NoError(t, resp.DecodeJSON(&todo))
		assert.Equal(t, apidef.TodoPath(todo.ID), resp.Header.Get("Location"))

		done := completed(t, session)
		for _, c := range []challengeID{chCreateTodoDoneStatusInvalid, chCreateTodoTitleTooLong,
			chCreateTodoDescriptionTooLong, chCreateTodoExtraField, chCreateTodoContentTooLong,
			chCreateTodo, chCreateTodoMaxContent} {
			assert.True(t, done[c.name()], c.name())
		}
	})
}

func TestTodoLimit(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		for i := apidef.InitialTodoCount; i < apidef.MaxTodos; i++ {
			resp := send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).JSONBody(apidef.DefaultTodo()))
			require.Equal(t, 201, resp.StatusCode)
		}
		resp := send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).JSONBody(apidef.DefaultTodo()))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.TodoLimitReached, firstError(t, resp))
		assert.True(t, completed(t, session)[chCreateAllTodos.name()])
	})
}

func TestContentNegotiation(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		get := func(accept string) *harness.Response {
			return send(t, session.NewRequest(http.MethodGet, apidef.PathTodos).Accept(accept))
		}
		assert.Equal(t, apidef.MediaTypeJSON, get("").MediaType())
		assert.Equal(t, apidef.MediaTypeJSON, get(apidef.MediaTypeJSON).MediaType())
		assert.Equal(t, apidef.MediaTypeJSON, get(apidef.MediaTypeAny).MediaType())
		assert.Equal(t, apidef.MediaTypeXML, get(apidef.MediaTypeXML).MediaType())
		assert.Equal(t, apidef.MediaTypeXML, get("application/xml, application/json").MediaType())
		assert.Equal(t, apidef.MediaTypeJSON, get("application/xml;q=0.5, application/json").MediaType())

		resp := get(apidef.UnrecognisedAcceptType)
		assert.Equal(t, 406, resp.StatusCode)
		assert.Equal(t, apidef.UnrecognisedAccept, firstError(t, resp))

		var list apidef.TodoList
		require.NoError(t, get(apidef.MediaTypeXML).DecodeXML(&list))
		assert.Len(t, list.Todos, apidef.InitialTodoCount)
	})
}

func TestCreateTodoFromXML(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).
			Accept(apidef.MediaTypeXML).XMLBody(apidef.XMLTodo))
		require.Equal(t, 201, resp.StatusCode)
		var todo apidef.Todo
		require.NoError(t, resp.DecodeXML(&todo))
		assert.Equal(t, apidef.XMLTodoTitle, todo.Title)
		assert.True(t, todo.DoneStatus)

		resp = send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).
			ContentType(apidef.UnsupportedMediaType).RawBody(`{"title":"x"}`))
		assert.Equal(t, 415, resp.StatusCode)
		assert.Equal(t, apidef.UnsupportedContentType(apidef.UnsupportedMediaType), firstError(t, resp))
	})
}

func TestAmendAndReplaceTodo(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodPost, apidef.TodoPath(1)).
			JSONBody(apidef.NewTodoPayload().WithDescription("amended")))
		require.Equal(t, 200, resp.StatusCode)
		var todo apidef.Todo
		require.NoError(t, resp.DecodeJSON(&todo))
		assert.Equal(t, "scan paperwork", todo.Title)
		assert.Equal(t, "amended", todo.Description)

		resp = send(t, session.NewRequest(http.MethodPost, apidef.TodoPath(apidef.MissingTodoID)).
			JSONBody(apidef.DefaultTodo()))
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, apidef.WrongTodoID(apidef.MissingTodoID), firstError(t, resp))

		resp = send(t, session.NewRequest(http.MethodPut, apidef.TodoPath(1)).
			JSONBody(apidef.NewTodoPayload().WithTitle("replaced")))
		require.Equal(t, 200, resp.StatusCode)
		require.NoError(t, resp.DecodeJSON(&todo))
		assert.Equal(t, apidef.Todo{ID: 1, Title: "replaced"}, todo)

		resp = send(t, session.NewRequest(http.MethodPut, apidef.TodoPath(1)).
			JSONBody(apidef.DefaultTodo().WithID(2)))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.AmendID(1, 2), firstError(t, resp))

		resp = send(t, session.NewRequest(http.MethodPut, apidef.TodoPath(1)).
			JSONBody(apidef.DefaultTodo().Without(apidef.FieldTitle)))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.MandatoryTitle, firstError(t, resp))

		resp = send(t, session.NewRequest(http.MethodPut, apidef.TodoPath(apidef.MissingTodoID)).
			JSONBody(apidef.DefaultTodo()))
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, apidef.CreateWithPut, firstError(t, resp))
	})
}

func TestGetAndDeleteTodo(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodGet, apidef.TodoPath(2)))
		require.Equal(t, 200, resp.StatusCode)
		title, err := resp.Path("$.todos[0].title")
		require.NoError(t, err)
		assert.Equal(t, "file paperwork", title)

		assert.Equal(t, 200, send(t, session.NewRequest(http.MethodDelete, apidef.TodoPath(2))).StatusCode)

		resp = send(t, session.NewRequest(http.MethodGet, apidef.TodoPath(2)))
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, apidef.TodoNotFound("2"), firstError(t, resp))

		assert.Equal(t, 404, send(t, session.NewRequest(http.MethodGet, apidef.PathTodo)).StatusCode)
	})
}

func TestFilterTodos(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		send(t, session.NewRequest(http.MethodPost, apidef.PathTodos).JSONBody(apidef.DefaultTodo()))

		var list apidef.TodoList
		resp := send(t, session.NewRequest(http.MethodGet, apidef.PathTodos).Query(apidef.FieldDoneStatus, "true"))
		require.NoError(t, resp.DecodeJSON(&list))
		require.Len(t, list.Todos, 1)
		assert.Equal(t, apidef.DefaultTodoTitle, list.Todos[0].Title)
	})
}

func TestHeartbeat(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		status := func(method, override string) int {
			return send(t, session.NewRequest(method, apidef.PathHeartbeat).MethodOverride(override)).StatusCode
		}
		assert.Equal(t, 204, status(http.MethodGet, ""))
		assert.Equal(t, 405, status(http.MethodDelete, ""))
		assert.Equal(t, 500, status(http.MethodPatch, ""))
		assert.Equal(t, 501, status(http.MethodTrace, ""))
		assert.Equal(t, 405, status(http.MethodPost, ""))
		assert.Equal(t, 405, status(http.MethodPost, http.MethodDelete))
		assert.Equal(t, 500, status(http.MethodPost, http.MethodPatch))
		assert.Equal(t, 501, status(http.MethodPost, http.MethodTrace))
	})
}

func TestSecretNote(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodPost, apidef.PathSecretToken).
			EncodedBasicAuth(apidef.InvalidCredentials))
		assert.Equal(t, 401, resp.StatusCode)

		resp = send(t, session.NewRequest(http.MethodPost, apidef.PathSecretToken).
			EncodedBasicAuth(apidef.AdminCredentials))
		require.Equal(t, 201, resp.StatusCode)
		token := resp.Header.Get(apidef.HeaderAuthToken)
		require.NotEmpty(t, token)

		assert.Equal(t, 401, send(t, session.NewRequest(http.MethodGet, apidef.PathSecretNote)).StatusCode)
		assert.Equal(t, 403, send(t, session.NewRequest(http.MethodGet, apidef.PathSecretNote).AuthToken("bob")).StatusCode)

		resp = send(t, session.NewRequest(http.MethodPost, apidef.PathSecretNote).BearerToken(token).
			JSONBody(map[string]string{"note": apidef.SecretNote}))
		require.Equal(t, 200, resp.StatusCode)

		resp = send(t, session.NewRequest(http.MethodGet, apidef.PathSecretNote).AuthToken(token))
		require.Equal(t, 200, resp.StatusCode)
		note, err := resp.Path("$.note")
		require.NoError(t, err)
		assert.Equal(t, apidef.SecretNote, note)
	})
}

func TestProgressRestoreAndCreate(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodGet, apidef.ChallengerPath(session.GUID())))
		require.Equal(t, 200, resp.StatusCode)
		var p progress
		require.NoError(t, resp.DecodeJSON(&p))
		assert.Equal(t, session.GUID(), p.XChallenger)

		resp = send(t, session.NewRequest(http.MethodPut, apidef.ChallengerPath(session.GUID())).JSONBody(p))
		assert.Equal(t, 200, resp.StatusCode)

		other := "6c4b6a6e-2f4c-4d83-9c2e-6a8d2e1b1f00"
		p.XChallenger = other
		resp = send(t, session.NewRequest(http.MethodPut, apidef.ChallengerPath(other)).JSONBody(p))
		assert.Equal(t, 201, resp.StatusCode)
		assert.True(t, server.Session(other))

		resp = send(t, session.NewRequest(http.MethodPut, apidef.ChallengerPath(other)).JSONBody(progress{XChallenger: "x"}))
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestDatabaseRoundTrip(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodGet, apidef.DatabasePath(session.GUID())))
		require.Equal(t, 200, resp.StatusCode)
		var list apidef.TodoList
		require.NoError(t, resp.DecodeJSON(&list))
		require.Len(t, list.Todos, apidef.InitialTodoCount)

		list.Todos = list.Todos[:3]
		resp = send(t, session.NewRequest(http.MethodPut, apidef.DatabasePath(session.GUID())).JSONBody(list))
		assert.Equal(t, 204, resp.StatusCode)

		resp = send(t, session.NewRequest(http.MethodGet, apidef.PathTodos))
		require.NoError(t, resp.DecodeJSON(&list))
		assert.Len(t, list.Todos, 3)

		resp = send(t, session.NewRequest(http.MethodGet, apidef.DatabasePath("00000000-0000-0000-0000-000000000000")))
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestExistingChallengerHeaderReturnsOK(t *testing.T) {
	withSession(t, func(server *Server, session *harness.Session) {
		resp := send(t, session.NewRequest(http.MethodPost, apidef.PathChallenger))
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, session.GUID(), resp.Header.Get(apidef.HeaderChallenger))
	})
}

func TestRequestsAreLoggedWithPrefix(t *testing.T) {
	var logger framework.CapturingLogger
	httphelpers.WithServer(NewServer(&logger).Handler(), func(ts *httptest.Server) {
		resp := send(t, harness.NewTestHarness(ts.URL, nil).NewRequest(http.MethodGet, apidef.PathHeartbeat, nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
	output := logger.Output()
	require.Len(t, output, 1)
	assert.Contains(t, output[0].Message, "[fakeapi] GET /heartbeat -> 204")
}
