package challengetests

import (
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DoBulkTests empties and then fills the todo store. These tests change every todo in the
// session, so in a shared session they must run after all other groups.
func DoBulkTests(t *contract.T) {
	t.Run("DELETE /todos/{id} (200) all", func(t *contract.T) {
		api := NewAPI(t)
		for _, todo := range api.ListTodos() {
			resp := api.Do(http.MethodDelete, apidef.TodoPath(todo.ID))
			RequireStatus(t, resp, http.StatusOK)
		}
		assert.Len(t, api.ListTodos(), 0)
	})

	t.Run("POST /todos (201) all", func(t *contract.T) {
		api := NewAPI(t)
		existing := len(api.ListTodos())
		require.LessOrEqual(t, existing, apidef.MaxTodos)
		for i := existing; i < apidef.MaxTodos; i++ {
			api.CreateTodo(apidef.DefaultTodo())
		}
		assert.Len(t, api.ListTodos(), apidef.MaxTodos)

		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).JSONBody(apidef.DefaultTodo()))
		RequireError(t, resp, http.StatusBadRequest, apidef.TodoLimitReached)
	})
}
