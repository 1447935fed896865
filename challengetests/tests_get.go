package challengetests

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoGetTests(t *contract.T) {
	t.Run("GET /todos (200)", func(t *contract.T) {
		todos := NewAPI(t).ListTodos()
		assert.Len(t, todos, apidef.InitialTodoCount)
	})

	t.Run("GET /todo (404)", func(t *contract.T) {
		resp := NewAPI(t).Do(http.MethodGet, apidef.PathTodo)
		RequireStatus(t, resp, http.StatusNotFound)
	})

	t.Run("GET /todos/{id} (200)", func(t *contract.T) {
		api := NewAPI(t)
		expected := api.FirstTodo()

		resp := api.Do(http.MethodGet, apidef.TodoPath(expected.ID))
		RequireStatus(t, resp, http.StatusOK)
		var list apidef.TodoList
		require.NoError(t, resp.DecodeJSON(&list))
		require.Len(t, list.Todos, 1)
		assert.Equal(t, expected, list.Todos[0])
	})

	t.Run("GET /todos/{id} (404)", func(t *contract.T) {
		resp := NewAPI(t).Do(http.MethodGet, apidef.TodoPath(apidef.MissingTodoID))
		RequireError(t, resp, http.StatusNotFound, apidef.TodoNotFound(strconv.Itoa(apidef.MissingTodoID)))
	})

	t.Run("GET /todos?filter (200)", func(t *contract.T) {
		api := NewAPI(t)
		done := api.CreateTemporaryTodo(apidef.DefaultTodo().WithDoneStatus(true))
		api.CreateTemporaryTodo(apidef.DefaultTodo().WithDoneStatus(false))

		resp := api.Send(api.Request(http.MethodGet, apidef.PathTodos).Query(apidef.FieldDoneStatus, "true"))
		RequireStatus(t, resp, http.StatusOK)
		var list apidef.TodoList
		require.NoError(t, resp.DecodeJSON(&list))

		var ids []int
		for _, todo := range list.Todos {
			assert.True(t, todo.DoneStatus, "todo %d should not have matched the filter", todo.ID)
			ids = append(ids, todo.ID)
		}
		assert.Contains(t, ids, done.ID)
	})
}

func DoHeadAndOptionsTests(t *contract.T) {
	t.Run("HEAD /todos (200)", func(t *contract.T) {
		resp := NewAPI(t).Do(http.MethodHead, apidef.PathTodos)
		RequireStatus(t, resp, http.StatusOK)
		assert.Empty(t, resp.Body)
		assert.Equal(t, apidef.MediaTypeJSON, resp.MediaType())
	})

	t.Run("OPTIONS /todos (200)", func(t *contract.T) {
		resp := NewAPI(t).Do(http.MethodOptions, apidef.PathTodos)
		RequireStatus(t, resp, http.StatusOK)

		allow := resp.Header.Get("Allow")
		require.NotEmpty(t, allow, "no Allow header in response")
		var methods []string
		for _, m := range strings.Split(allow, ",") {
			methods = append(methods, strings.ToUpper(strings.TrimSpace(m)))
		}
		for _, m := range []string{http.MethodOptions, http.MethodGet, http.MethodHead, http.MethodPost} {
			assert.Contains(t, methods, m)
		}
	})
}
