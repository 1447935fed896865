// Package harness contains the HTTP plumbing for talking to the service under test: creating
// challenger sessions, building requests that carry the session header, and decoding the
// responses.
package harness
