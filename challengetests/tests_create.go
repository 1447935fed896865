package challengetests

import (
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoCreateTests(t *contract.T) {
	t.Run("POST /todos (201)", func(t *contract.T) {
		api := NewAPI(t)
		payload := apidef.DefaultTodo()
		todo := api.CreateTemporaryTodo(payload)

		assert.Equal(t, payload.Get(apidef.FieldTitle).StringValue(), todo.Title)
		assert.Equal(t, payload.Get(apidef.FieldDescription).StringValue(), todo.Description)
		assert.Equal(t, payload.Get(apidef.FieldDoneStatus).BoolValue(), todo.DoneStatus)
	})

	t.Run("POST /todos (400) doneStatus", func(t *contract.T) {
		api := NewAPI(t)
		for _, value := range []string{"bob", "true"} {
			resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
				JSONBody(apidef.DefaultTodo().With(apidef.FieldDoneStatus, ldvalue.String(value))))
			RequireError(t, resp, http.StatusBadRequest,
				apidef.WrongFieldType(apidef.FieldDoneStatus, "BOOLEAN", "STRING"))
		}
	})

	t.Run("POST /todos (400) title too long", func(t *contract.T) {
		api := NewAPI(t)
		for _, title := range []string{apidef.LongTitle[:apidef.MaxTitleLength+1], apidef.LongTitle} {
			resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
				JSONBody(apidef.DefaultTodo().WithTitle(title)))
			RequireError(t, resp, http.StatusBadRequest, apidef.TooLongTitle)
		}
	})

	t.Run("POST /todos (400) description too long", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			JSONBody(apidef.DefaultTodo().WithDescription(apidef.LongDescription)))
		RequireError(t, resp, http.StatusBadRequest, apidef.TooLongDescription)
	})

	t.Run("POST /todos (201) max out content", func(t *contract.T) {
		todo := NewAPI(t).CreateTemporaryTodo(apidef.DefaultTodo().
			WithTitle(apidef.MaxLengthTitle).
			WithDescription(apidef.MaxLengthDescription))
		assert.Equal(t, apidef.MaxLengthTitle, todo.Title)
		assert.Equal(t, apidef.MaxLengthDescription, todo.Description)
	})

	t.Run("POST /todos (413) content too long", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			JSONBody(apidef.DefaultTodo().WithDescription(apidef.ExtraLongString)))
		RequireError(t, resp, http.StatusRequestEntityTooLarge, apidef.RequestTooLarge)
	})

	t.Run("POST /todos (400) extra", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathTodos).
			JSONBody(apidef.DefaultTodo().With("priority", ldvalue.String("extra"))))
		RequireError(t, resp, http.StatusBadRequest, apidef.UnknownField("priority"))
	})
}
