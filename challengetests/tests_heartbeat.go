package challengetests

import (
	"fmt"
	"net/http"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
)

type heartbeatCase struct {
	name     string
	method   string
	override string
	status   int
}

var heartbeatCases = []heartbeatCase{
	{"DELETE /heartbeat (405)", http.MethodDelete, "", http.StatusMethodNotAllowed},
	{"PATCH /heartbeat (500)", http.MethodPatch, "", http.StatusInternalServerError},
	{"TRACE /heartbeat (501)", http.MethodTrace, "", http.StatusNotImplemented},
	{"GET /heartbeat (204)", http.MethodGet, "", http.StatusNoContent},
	{"POST /heartbeat as DELETE (405)", http.MethodPost, http.MethodDelete, http.StatusMethodNotAllowed},
	{"POST /heartbeat as PATCH (500)", http.MethodPost, http.MethodPatch, http.StatusInternalServerError},
	{"POST /heartbeat as TRACE (501)", http.MethodPost, http.MethodTrace, http.StatusNotImplemented},
}

func DoHeartbeatTests(t *contract.T) {
	for _, c := range heartbeatCases {
		c := c
		t.Run(c.name, func(t *contract.T) {
			api := NewAPI(t)
			resp := api.Send(api.Request(c.method, apidef.PathHeartbeat).MethodOverride(c.override))
			RequireStatus(t, resp, c.status)
			assert.Equal(t, fmt.Sprintf("%d %s", c.status, http.StatusText(c.status)), resp.Status)
		})
	}
}
