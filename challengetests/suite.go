package challengetests

import (
	"github.com/apichallenges/todo-contract-tests/framework/contract"
)

// RunTestSuite runs every challenge test. Groups run concurrently, up to config.Parallelism,
// unless the groups share one session; the tests inside a group always run in order.
func RunTestSuite(testContext ChallengeTestContext, config contract.Config) contract.Results {
	if !testContext.IsolateGroups {
		config.Parallelism = 1
	}
	config.TestContext = testContext
	return contract.Run(config, func(t *contract.T) {
		t.RunGroup("challenger", group(DoChallengerTests))
		t.RunGroup("challenges", group(DoChallengeListTests))
		t.RunGroup("GET", group(DoGetTests))
		t.RunGroup("HEAD and OPTIONS", group(DoHeadAndOptionsTests))
		t.RunGroup("POST create", group(DoCreateTests))
		t.RunGroup("update", group(DoUpdateTests))
		t.RunGroup("DELETE", group(DoDeleteTests))
		t.RunGroup("content negotiation", group(DoContentNegotiationTests))
		t.RunGroup("heartbeat", group(DoHeartbeatTests))
		t.RunGroup("authentication", group(DoAuthenticationTests))
		t.RunGroup("authorization", group(DoAuthorizationTests))
		t.RunGroup("bulk", group(DoBulkTests))
	})
}
