package challengetests

import (
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoChallengerTests(t *contract.T) {
	t.Run("POST /challenger (201)", func(t *contract.T) {
		c := requireContext(t)
		api := NewAPI(t)
		resp := api.Send(c.Harness.NewRequest(http.MethodPost, apidef.PathChallenger, t.DebugLogger()))
		RequireStatus(t, resp, http.StatusCreated)

		guid := resp.Header.Get(apidef.HeaderChallenger)
		require.NotEmpty(t, guid, "no %s header in response", apidef.HeaderChallenger)
		_, err := c.Harness.ResumeSession(guid, nil)
		assert.NoError(t, err)
	})

	t.Run("GET /challenger/guid (200)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Do(http.MethodGet, apidef.ChallengerPath(api.Session.GUID()))
		RequireStatus(t, resp, http.StatusOK)

		guid, err := resp.Path("$.xChallenger")
		require.NoError(t, err)
		assert.Equal(t, api.Session.GUID(), guid)
	})

	t.Run("PUT /challenger/guid RESTORE (200)", func(t *contract.T) {
		api := NewAPI(t)
		path := apidef.ChallengerPath(api.Session.GUID())
		progress := api.Do(http.MethodGet, path)
		RequireStatus(t, progress, http.StatusOK)

		resp := api.Send(api.Request(http.MethodPut, path).
			ContentType(apidef.MediaTypeJSON).
			RawBody(string(progress.Body)))
		RequireStatus(t, resp, http.StatusOK)
	})

	t.Run("PUT /challenger/guid CREATE (201)", func(t *contract.T) {
		c := requireContext(t)
		api := NewAPI(t)
		progress := api.Do(http.MethodGet, apidef.ChallengerPath(api.Session.GUID()))
		RequireStatus(t, progress, http.StatusOK)
		value, err := progress.JSON()
		require.NoError(t, err)

		newGUID := uuid.NewString()
		body := ldvalue.ObjectBuild()
		for _, key := range value.Keys() {
			body.Set(key, value.GetByKey(key))
		}
		body.Set("xChallenger", ldvalue.String(newGUID))

		resp := api.Send(c.Harness.NewRequest(http.MethodPut, apidef.ChallengerPath(newGUID), t.DebugLogger()).
			Header(apidef.HeaderChallenger, newGUID).
			JSONBody(body.Build()))
		RequireStatus(t, resp, http.StatusCreated)
		c.sessions.add(newGUID)
	})

	t.Run("GET /challenger/database/guid (200)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Do(http.MethodGet, apidef.DatabasePath(api.Session.GUID()))
		RequireStatus(t, resp, http.StatusOK)

		var list apidef.TodoList
		require.NoError(t, resp.DecodeJSON(&list))
		assert.NotNil(t, list.Todos)
	})

	t.Run("PUT /challenger/database/guid (204)", func(t *contract.T) {
		api := NewAPI(t)
		path := apidef.DatabasePath(api.Session.GUID())
		database := api.Do(http.MethodGet, path)
		RequireStatus(t, database, http.StatusOK)

		resp := api.Send(api.Request(http.MethodPut, path).
			ContentType(apidef.MediaTypeJSON).
			RawBody(string(database.Body)))
		RequireStatus(t, resp, http.StatusNoContent)
	})
}

func DoChallengeListTests(t *contract.T) {
	t.Run("GET /challenges (200)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Do(http.MethodGet, apidef.PathChallenges)
		RequireStatus(t, resp, http.StatusOK)

		value, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, apidef.ChallengeCount, value.GetByKey("challenges").Count())
	})
}
