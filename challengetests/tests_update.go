package challengetests

import (
	"net/http"
	"strconv"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoUpdateTests(t *contract.T) {
	t.Run("PUT /todos/{id} (400)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPut, apidef.TodoPath(apidef.MissingTodoID)).
			JSONBody(apidef.DefaultTodo()))
		RequireError(t, resp, http.StatusBadRequest, apidef.CreateWithPut)
	})

	t.Run("POST /todos/{id} (200)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTemporaryTodo(apidef.DefaultTodo())

		resp := api.Send(api.Request(http.MethodPost, apidef.TodoPath(todo.ID)).
			JSONBody(apidef.NewTodoPayload().WithTitle("updated title")))
		RequireStatus(t, resp, http.StatusOK)
		title, err := resp.Path("$.title")
		require.NoError(t, err)
		assert.Equal(t, "updated title", title)
	})

	t.Run("POST /todos/{id} (404)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.TodoPath(apidef.MissingTodoID)).
			JSONBody(apidef.DefaultTodo()))
		RequireError(t, resp, http.StatusNotFound, apidef.WrongTodoID(apidef.MissingTodoID))
	})

	t.Run("PUT /todos/{id} full (200)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTemporaryTodo(apidef.DefaultTodo())
		replacement := apidef.PayloadFromTodo(todo).
			WithTitle("replaced title").
			WithDescription("replaced description").
			WithDoneStatus(false)

		resp := api.Send(api.Request(http.MethodPut, apidef.TodoPath(todo.ID)).JSONBody(replacement))
		RequireStatus(t, resp, http.StatusOK)
		var updated apidef.Todo
		require.NoError(t, resp.DecodeJSON(&updated))
		assert.Equal(t, apidef.Todo{
			ID:          todo.ID,
			Title:       "replaced title",
			Description: "replaced description",
			DoneStatus:  false,
		}, updated)
	})

	t.Run("PUT /todos/{id} partial (200)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTemporaryTodo(apidef.DefaultTodo())

		resp := api.Send(api.Request(http.MethodPut, apidef.TodoPath(todo.ID)).
			JSONBody(apidef.NewTodoPayload().WithTitle("only a title")))
		RequireStatus(t, resp, http.StatusOK)
		var updated apidef.Todo
		require.NoError(t, resp.DecodeJSON(&updated))
		assert.Equal(t, todo.ID, updated.ID)
		assert.Equal(t, "only a title", updated.Title)
	})

	t.Run("PUT /todos/{id} no title (400)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTemporaryTodo(apidef.DefaultTodo())

		resp := api.Send(api.Request(http.MethodPut, apidef.TodoPath(todo.ID)).
			JSONBody(apidef.DefaultTodo().Without(apidef.FieldTitle)))
		RequireError(t, resp, http.StatusBadRequest, apidef.MandatoryTitle)
	})

	t.Run("PUT /todos/{id} no amend id (400)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTemporaryTodo(apidef.DefaultTodo())
		otherID := todo.ID + 1

		resp := api.Send(api.Request(http.MethodPut, apidef.TodoPath(todo.ID)).
			JSONBody(apidef.DefaultTodo().WithID(otherID)))
		RequireError(t, resp, http.StatusBadRequest, apidef.AmendID(todo.ID, otherID))
	})
}

func DoDeleteTests(t *contract.T) {
	t.Run("DELETE /todos/{id} (200)", func(t *contract.T) {
		api := NewAPI(t)
		todo := api.CreateTodo(apidef.DefaultTodo())

		resp := api.Do(http.MethodDelete, apidef.TodoPath(todo.ID))
		RequireStatus(t, resp, http.StatusOK)

		resp = api.Do(http.MethodGet, apidef.TodoPath(todo.ID))
		RequireError(t, resp, http.StatusNotFound, apidef.TodoNotFound(strconv.Itoa(todo.ID)))
	})
}
