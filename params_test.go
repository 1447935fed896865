package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/alessio/shellescape"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGUID = "5f6c1a0e-52d5-4b8a-9b1e-1e7a1c0b2d3e"

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := vars[key]
		return value, ok
	}
}

func readParams(t *testing.T, lookupEnv func(string) (string, bool), args ...string) (commandParams, error) {
	var params commandParams
	err := params.Read(append([]string{"contract-tests", "-env-file", ""}, args...), lookupEnv, io.Discard)
	return params, err
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	params, err := readParams(t, noEnv, "-url", "http://localhost:4567")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4567", params.serviceURL)
	assert.Equal(t, defaultParallelism, params.parallelism)
	assert.Equal(t, 0, params.retries)
	assert.Equal(t, defaultTimeout, params.timeout)
	assert.False(t, params.sharedSession)
	assert.False(t, params.filters.IsDefined())
}

func TestURLIsRequired(t *testing.T) {
	_, err := readParams(t, noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-url or BASE_URL is required")
}

func TestBaseURLFromEnvironment(t *testing.T) {
	params, err := readParams(t, envOf(map[string]string{"BASE_URL": "https://apichallenges.example"}))
	require.NoError(t, err)
	assert.Equal(t, "https://apichallenges.example", params.serviceURL)

	params, err = readParams(t, envOf(map[string]string{"BASE_URL": "https://apichallenges.example"}),
		"-url", "http://localhost:4567")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4567", params.serviceURL)
}

func TestCIChangesDefaults(t *testing.T) {
	ci := envOf(map[string]string{"CI": "true"})
	params, err := readParams(t, ci, "-url", "http://localhost:4567")
	require.NoError(t, err)
	assert.Equal(t, ciRetries, params.retries)
	assert.Equal(t, ciParallelism, params.parallelism)

	params, err = readParams(t, ci, "-url", "http://localhost:4567", "-parallel", "3", "-retries", "0")
	require.NoError(t, err)
	assert.Equal(t, 0, params.retries)
	assert.Equal(t, 3, params.parallelism)
}

func TestConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
base_url: http://from-config:4567
parallel: 2
retries: 1
timeout: 5s
report_dir: reports
`)
	params, err := readParams(t, envOf(map[string]string{"CI": "1"}), "-config", path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-config:4567", params.serviceURL)
	assert.Equal(t, 2, params.parallelism)
	assert.Equal(t, 1, params.retries)
	assert.Equal(t, 5*time.Second, params.timeout)
	assert.Equal(t, "reports", params.reportDir)

	params, err = readParams(t, noEnv, "-config", path, "-url", "http://localhost:4567", "-timeout", "1m")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4567", params.serviceURL)
	assert.Equal(t, time.Minute, params.timeout)
}

func TestInvalidConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "timeout: soon\n")
	_, err := readParams(t, noEnv, "-url", "http://localhost:4567", "-config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")

	_, err = readParams(t, noEnv, "-url", "http://localhost:4567", "-config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEnvFile(t *testing.T) {
	path := writeFile(t, "test.env", "BASE_URL=http://from-env-file:4567\nCI=true\n")
	var params commandParams
	require.NoError(t, params.Read([]string{"contract-tests", "-env-file", path}, noEnv, io.Discard))
	assert.Equal(t, "http://from-env-file:4567", params.serviceURL)
	assert.Equal(t, ciRetries, params.retries)

	params = commandParams{}
	env := envOf(map[string]string{"BASE_URL": "http://from-process:4567"})
	require.NoError(t, params.Read([]string{"contract-tests", "-env-file", path}, env, io.Discard))
	assert.Equal(t, "http://from-process:4567", params.serviceURL)
}

func TestMissingEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".env")
	var params commandParams
	err := params.Read([]string{"contract-tests", "-url", "http://localhost:4567", "-env-file", missing}, noEnv, io.Discard)
	require.Error(t, err)
}

func TestValidationErrorsAreAggregated(t *testing.T) {
	_, err := readParams(t, noEnv, "-url", "ftp://localhost", "-parallel", "0", "-retries", "-1", "-session", "bob")
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)
}

func TestFilterFlags(t *testing.T) {
	params, err := readParams(t, noEnv, "-url", "http://localhost:4567", "-run", "^GET/", "-skip", "bulk")
	require.NoError(t, err)
	assert.True(t, params.filters.AsFilter(contract.TestID{Path: []string{"GET", "GET /todos (200)"}}))
	assert.False(t, params.filters.AsFilter(contract.TestID{Path: []string{"bulk", "POST /todos (201) all"}}))
}

func TestUnexpectedArguments(t *testing.T) {
	_, err := readParams(t, noEnv, "-url", "http://localhost:4567", "extra")
	require.Error(t, err)
}

func TestRerunCommand(t *testing.T) {
	params, err := readParams(t, noEnv, "-url", "http://localhost:4567", "-shared-session")
	require.NoError(t, err)
	failed := []contract.TestID{
		{Path: []string{"GET", "GET /todos (200)"}},
		{Path: []string{"bulk"}},
	}
	assert.Equal(t,
		`./contract-tests -url http://localhost:4567 -session `+testGUID+` -env-file '' -shared-session -run '^(GET/GET /todos \(200\)|bulk)$'`,
		params.rerunCommand("./contract-tests", testGUID, failed))
}

func TestRerunCommandKeepsExplicitSettings(t *testing.T) {
	path := writeFile(t, "config.yaml", "base_url: http://localhost:4567\nretries: 3\n")
	params, err := readParams(t, envOf(map[string]string{"CI": "true"}),
		"-config", path, "-parallel", "2", "-timeout", "45s", "-report-dir", "out")
	require.NoError(t, err)
	failed := []contract.TestID{{Path: []string{"bulk"}}}
	assert.Equal(t,
		`./contract-tests -url http://localhost:4567 -session `+testGUID+` -config `+shellescape.Quote(path)+
			` -env-file '' -parallel 2 -timeout 45s -report-dir out -run '^(bulk)$'`,
		params.rerunCommand("./contract-tests", testGUID, failed))
}
