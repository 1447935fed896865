package contract

import "github.com/apichallenges/todo-contract-tests/framework"

// TestLogger receives notifications about test progress. Implementations must be safe for
// concurrent use, because tests in parallel groups report from their own goroutines.
type TestLogger interface {
	TestStarted(id TestID)
	TestFinished(result TestResult, debugOutput framework.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                {}
func (n nullTestLogger) TestFinished(TestResult, framework.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                        {}
