package challengetests

import (
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireTodoListJSON(t *contract.T, resp *harness.Response) {
	RequireStatus(t, resp, http.StatusOK)
	require.Equal(t, apidef.MediaTypeJSON, resp.MediaType())
	var list apidef.TodoList
	require.NoError(t, resp.DecodeJSON(&list))
	assert.NotEmpty(t, list.Todos)
}

func requireTodoListXML(t *contract.T, resp *harness.Response) {
	RequireStatus(t, resp, http.StatusOK)
	require.Equal(t, apidef.MediaTypeXML, resp.MediaType())
	assert.Contains(t, string(resp.Body), "<todos>")
	var list apidef.TodoList
	require.NoError(t, resp.DecodeXML(&list))
	assert.NotEmpty(t, list.Todos)
}

// createdTodo checks a successful creation response in the expected format and schedules the
// new todo for deletion.
func createdTodo(t *contract.T, api *API, resp *harness.Response, mediaType string) apidef.Todo {
	RequireStatus(t, resp, http.StatusCreated)
	require.Equal(t, mediaType, resp.MediaType())
	var todo apidef.Todo
	if mediaType == apidef.MediaTypeXML {
		require.NoError(t, resp.DecodeXML(&todo))
	} else {
		require.NoError(t, resp.DecodeJSON(&todo))
	}
	require.NotZero(t, todo.ID, "created todo has no ID")
	api.DeleteLater(todo.ID)
	return todo
}

func DoContentNegotiationTests(t *contract.T) {
	listWithAccept := func(t *contract.T, accept string) *harness.Response {
		api := NewAPI(t)
		return api.Send(api.Request(http.MethodGet, apidef.PathTodos).Accept(accept))
	}

	t.Run("GET /todos (200) XML", func(t *contract.T) {
		requireTodoListXML(t, listWithAccept(t, apidef.MediaTypeXML))
	})

	t.Run("GET /todos (200) JSON", func(t *contract.T) {
		requireTodoListJSON(t, listWithAccept(t, apidef.MediaTypeJSON))
	})

	t.Run("GET /todos (200) ANY", func(t *contract.T) {
		requireTodoListJSON(t, listWithAccept(t, apidef.MediaTypeAny))
	})

	t.Run("GET /todos (200) XML pref", func(t *contract.T) {
		requireTodoListXML(t, listWithAccept(t, apidef.MediaTypeXML+", "+apidef.MediaTypeJSON))
	})

	t.Run("GET /todos (200) no accept", func(t *contract.T) {
		requireTodoListJSON(t, listWithAccept(t, ""))
	})

	t.Run("GET /todos (406)", func(t *contract.T) {
		resp := listWithAccept(t, apidef.UnrecognisedAcceptType)
		RequireError(t, resp, http.StatusNotAcceptable, apidef.UnrecognisedAccept)
	})

	t.Run("POST /todos XML", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			Accept(apidef.MediaTypeXML).
			XMLBody(apidef.XMLTodo))
		todo := createdTodo(t, api, resp, apidef.MediaTypeXML)
		assert.Equal(t, apidef.XMLTodoTitle, todo.Title)
		assert.True(t, todo.DoneStatus)
	})

	t.Run("POST /todos JSON", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			Accept(apidef.MediaTypeJSON).
			JSONBody(apidef.DefaultTodo()))
		todo := createdTodo(t, api, resp, apidef.MediaTypeJSON)
		assert.Equal(t, apidef.DefaultTodoTitle, todo.Title)
	})

	t.Run("POST /todos (415)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			ContentType(apidef.UnsupportedMediaType).
			RawBody(apidef.DefaultTodo().String()))
		RequireError(t, resp, http.StatusUnsupportedMediaType,
			apidef.UnsupportedContentType(apidef.UnsupportedMediaType))
	})

	t.Run("POST /todos XML to JSON", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			Accept(apidef.MediaTypeJSON).
			XMLBody(apidef.XMLTodo))
		todo := createdTodo(t, api, resp, apidef.MediaTypeJSON)
		assert.Equal(t, apidef.XMLTodoTitle, todo.Title)
	})

	t.Run("POST /todos JSON to XML", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			Accept(apidef.MediaTypeXML).
			JSONBody(apidef.DefaultTodo()))
		todo := createdTodo(t, api, resp, apidef.MediaTypeXML)
		assert.Equal(t, apidef.DefaultTodoTitle, todo.Title)
	})
}
