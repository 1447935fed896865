package challengetests

import (
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidAuthToken = "bob"

func DoAuthenticationTests(t *contract.T) {
	t.Run("POST /secret/token (401)", func(t *contract.T) {
		api := NewAPI(t)
		resp := api.Send(api.Request(http.MethodPost, apidef.PathSecretToken).
			EncodedBasicAuth(apidef.InvalidCredentials))
		RequireStatus(t, resp, http.StatusUnauthorized)
	})

	t.Run("POST /secret/token (201)", func(t *contract.T) {
		assert.NotEmpty(t, NewAPI(t).AuthToken())
	})
}

func noteRequest(api *API, method string) *harness.Request {
	req := api.Request(method, apidef.PathSecretNote)
	if method == http.MethodPost {
		req.JSONBody(map[string]string{"note": apidef.SecretNote})
	}
	return req
}

func requireNote(t *contract.T, resp *harness.Response, expected string) {
	RequireStatus(t, resp, http.StatusOK)
	note, err := resp.Path("$.note")
	require.NoError(t, err)
	if expected != "" {
		assert.Equal(t, expected, note)
	}
}

func DoAuthorizationTests(t *contract.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		method := method
		var expectedNote string
		if method == http.MethodPost {
			expectedNote = apidef.SecretNote
		}

		t.Run(method+" /secret/note (403)", func(t *contract.T) {
			api := NewAPI(t)
			resp := api.Send(noteRequest(api, method).AuthToken(invalidAuthToken))
			RequireStatus(t, resp, http.StatusForbidden)
		})

		t.Run(method+" /secret/note (401)", func(t *contract.T) {
			api := NewAPI(t)
			resp := api.Send(noteRequest(api, method))
			RequireStatus(t, resp, http.StatusUnauthorized)
		})

		t.Run(method+" /secret/note (200)", func(t *contract.T) {
			api := NewAPI(t)
			token := api.AuthToken()
			resp := api.Send(noteRequest(api, method).AuthToken(token))
			requireNote(t, resp, expectedNote)
		})

		t.Run(method+" /secret/note (Bearer)", func(t *contract.T) {
			api := NewAPI(t)
			token := api.AuthToken()
			resp := api.Send(noteRequest(api, method).BearerToken(token))
			requireNote(t, resp, expectedNote)
		})
	}
}
