// Package challengetests contains the API Challenges contract tests and their supporting API.
//
// Each test corresponds to one documented challenge of the todo service. Infrastructure that
// is not specific to the todo domain, such as the test context, filtering, and the HTTP
// request builder, is in the lower-level framework packages.
package challengetests
