// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to the todo API. The base package contains shared types such as
// Logger; other components are in the subpackages harness and contract.
//
// The general model is:
//
// 1. The test harness talks to a remote HTTP service whose behavior is being verified. It
// does not control that service; it can only create a session on it and then send requests
// that are correlated with the session.
//
// 2. There is a general notion of a test scope (contract.T) which is similar to Go's
// testing.T, allowing pieces of test logic to be associated with a test identifier and to
// accumulate success/failure results, but running outside of "go test".
//
// The domain-specific code that knows what is being tested is responsible for building the
// requests, deciding which responses are correct, and providing a domain-specific test API
// on top of the test scope.
package framework
