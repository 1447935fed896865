package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/apichallenges/todo-contract-tests/framework"
	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/fatih/color"
)

// ConsoleTestLogger writes one line per finished test, followed by its errors and, depending
// on the debug settings, its captured debug output. Output for a test is written all at once,
// so that tests reporting from parallel groups do not interleave.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	ShowStarted          bool

	lock sync.Mutex
}

var (
	passLabel = color.New(color.FgGreen, color.Bold).Sprint("PASS")
	failLabel = color.New(color.FgRed, color.Bold).Sprint("FAIL")
	skipLabel = color.New(color.FgYellow).Sprint("SKIP")
)

func (c *ConsoleTestLogger) TestStarted(id contract.TestID) {
	if !c.ShowStarted {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestFinished(result contract.TestResult, debugOutput framework.CapturedOutput) {
	var b strings.Builder
	failed := result.Failed()
	label := passLabel
	if failed {
		label = failLabel
	}
	fmt.Fprintf(&b, "%s %s (%s", label, result.TestID, result.Duration.Round(time.Millisecond))
	if result.Attempts > 1 {
		fmt.Fprintf(&b, ", %d attempts", result.Attempts)
	}
	b.WriteString(")\n")
	for _, err := range result.Errors {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(&b, "    DEBUG ")
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	io.WriteString(c.Out, b.String())
}

func (c *ConsoleTestLogger) TestSkipped(id contract.TestID, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		fmt.Fprintf(c.Out, "%s %s\n", skipLabel, id)
	} else {
		fmt.Fprintf(c.Out, "%s %s (%s)\n", skipLabel, id, reason)
	}
}
