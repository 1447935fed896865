package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/apichallenges/todo-contract-tests/challengetests"
	"github.com/apichallenges/todo-contract-tests/framework"
	"github.com/apichallenges/todo-contract-tests/framework/contract"
	"github.com/apichallenges/todo-contract-tests/framework/harness"
)

const statusQueryTimeout = time.Second * 10

func main() {
	os.Exit(run(os.Args, os.LookupEnv, os.Stdout, os.Stderr))
}

func run(args []string, lookupEnv func(string) (string, bool), out, errOut io.Writer) int {
	var params commandParams
	if err := params.Read(args, lookupEnv, errOut); err != nil {
		fmt.Fprintf(errOut, "Invalid parameters: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(out, "", log.LstdFlags)
	}

	h := harness.NewTestHarness(params.serviceURL, mainDebugLogger)
	if err := h.AwaitService(ctx, statusQueryTimeout, out); err != nil {
		fmt.Fprintf(errOut, "Service error: %s\n", err)
		return 1
	}

	var session *harness.Session
	var err error
	if params.session == "" {
		bootstrapCtx, cancel := context.WithTimeout(ctx, params.timeout)
		session, err = h.NewSession(bootstrapCtx, mainDebugLogger)
		cancel()
	} else {
		session, err = h.ResumeSession(params.session, mainDebugLogger)
	}
	if err != nil {
		fmt.Fprintf(errOut, "Could not start a challenger session: %s\n", err)
		return 1
	}
	fmt.Fprintf(out, "Challenger session: %s\n", session.GUID())

	fmt.Fprintln(out)
	contract.PrintFilterDescription(out, params.filters)

	fmt.Fprintln(out, "Running test suite")
	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
		ShowStarted:          params.debugAll,
	}
	testContext := challengetests.NewChallengeTestContext(h, session, !params.sharedSession)

	startedAt := time.Now()
	results := challengetests.RunTestSuite(testContext, contract.Config{
		Filter:      params.filters.AsFilter,
		TestLogger:  testLogger,
		Parallelism: params.parallelism,
		Retries:     params.retries,
		Timeout:     params.timeout,
		Context:     ctx,
	})
	endedAt := time.Now()

	fmt.Fprintln(out)
	contract.PrintResults(out, results)

	progressCtx, cancel := context.WithTimeout(ctx, params.timeout)
	progress, err := challengetests.FetchProgress(progressCtx, h, testContext.SessionGUIDs())
	cancel()
	if err != nil {
		fmt.Fprintf(errOut, "Could not read challenge progress: %s\n", err)
	}
	if len(progress.Sessions) > 0 {
		fmt.Fprintln(out)
		progress.Print(out, params.debugAll)
	}

	if params.reportDir != "" {
		err := results.WriteReport(params.reportDir, contract.ReportInfo{
			Target:    h.BaseURL(),
			Session:   session.GUID(),
			StartedAt: startedAt,
			EndedAt:   endedAt,
		})
		if err != nil {
			fmt.Fprintf(errOut, "Could not write report: %s\n", err)
			return 1
		}
		fmt.Fprintf(out, "Report written to %s\n", params.reportDir)
	}

	if !results.OK() {
		failed := make([]contract.TestID, 0, len(results.Failures))
		for _, f := range results.Failures {
			failed = append(failed, f.TestID)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(args[0], session.GUID(), failed))
		return 1
	}
	return 0
}
