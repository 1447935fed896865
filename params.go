package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apichallenges/todo-contract-tests/framework/contract"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultParallelism = 4
	defaultTimeout     = 30 * time.Second
	defaultEnvFile     = ".env"
	ciRetries          = 2
	ciParallelism      = 1
)

type commandParams struct {
	serviceURL    string
	configFile    string
	envFile       string
	session       string
	filters       contract.RegexFilters
	parallelism   int
	retries       int
	timeout       time.Duration
	reportDir     string
	sharedSession bool
	debug         bool
	debugAll      bool

	// explicit holds the names of the flags given on the command line.
	explicit map[string]bool
}

// fileConfig is the optional YAML configuration file. Anything given on the command line takes
// precedence over it.
type fileConfig struct {
	BaseURL   string `yaml:"base_url"`
	Session   string `yaml:"session"`
	Parallel  *int   `yaml:"parallel"`
	Retries   *int   `yaml:"retries"`
	Timeout   string `yaml:"timeout"`
	ReportDir string `yaml:"report_dir"`
}

// Read parses the command line. The base URL and the CI defaults may also come from the
// environment, as reported by lookupEnv, or from a .env file.
func (c *commandParams) Read(args []string, lookupEnv func(string) (string, bool), errOut io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the API under test (default: $BASE_URL)")
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.envFile, "env-file", defaultEnvFile, "file of environment variables to load if it exists")
	fs.StringVar(&c.session, "session", "", "resume this challenger session instead of creating one")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.IntVar(&c.parallelism, "parallel", defaultParallelism, "maximum number of test groups to run at once")
	fs.IntVar(&c.retries, "retries", 0, "number of times to retry a failed test")
	fs.DurationVar(&c.timeout, "timeout", defaultTimeout, "time limit for each test")
	fs.StringVar(&c.reportDir, "report-dir", "", "directory to write summary.json and summary.md to")
	fs.BoolVar(&c.sharedSession, "shared-session", false, "run every group in one session, one group at a time")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	c.explicit = explicit

	fromFile := make(map[string]bool)
	if c.configFile != "" {
		cfg, err := parseConfigFile(c.configFile)
		if err != nil {
			return err
		}
		if err := c.applyConfig(cfg, explicit, fromFile); err != nil {
			return err
		}
	}

	dotEnv, err := readEnvFile(c.envFile, explicit["env-file"])
	if err != nil {
		return err
	}
	getenv := func(key string) string {
		if value, ok := lookupEnv(key); ok {
			return value
		}
		return dotEnv[key]
	}

	if !explicit["url"] {
		if baseURL := getenv("BASE_URL"); baseURL != "" {
			c.serviceURL = baseURL
		}
	}
	if getenv("CI") != "" {
		if !explicit["retries"] && !fromFile["retries"] {
			c.retries = ciRetries
		}
		if !explicit["parallel"] && !fromFile["parallel"] {
			c.parallelism = ciParallelism
		}
	}
	return c.validate()
}

func (c *commandParams) applyConfig(cfg fileConfig, explicit, fromFile map[string]bool) error {
	if cfg.BaseURL != "" && !explicit["url"] {
		c.serviceURL = cfg.BaseURL
	}
	if cfg.Session != "" && !explicit["session"] {
		c.session = cfg.Session
	}
	if cfg.Parallel != nil && !explicit["parallel"] {
		c.parallelism = *cfg.Parallel
		fromFile["parallel"] = true
	}
	if cfg.Retries != nil && !explicit["retries"] {
		c.retries = *cfg.Retries
		fromFile["retries"] = true
	}
	if cfg.Timeout != "" && !explicit["timeout"] {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: invalid timeout: %w", c.configFile, err)
		}
		c.timeout = timeout
	}
	if cfg.ReportDir != "" && !explicit["report-dir"] {
		c.reportDir = cfg.ReportDir
	}
	return nil
}

func parseConfigFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// readEnvFile loads variables from path. A missing file is only an error if it was named
// explicitly.
func readEnvFile(path string, required bool) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return vars, nil
}

func (c *commandParams) validate() error {
	var result error
	if c.serviceURL == "" {
		result = multierror.Append(result, errors.New("-url or BASE_URL is required"))
	} else if u, err := url.Parse(c.serviceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("invalid base URL %q", c.serviceURL))
	}
	if c.session != "" {
		if _, err := uuid.Parse(c.session); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid session GUID %q", c.session))
		}
	}
	if c.parallelism < 1 {
		result = multierror.Append(result, fmt.Errorf("-parallel must be at least 1, not %d", c.parallelism))
	}
	if c.retries < 0 {
		result = multierror.Append(result, fmt.Errorf("-retries cannot be negative"))
	}
	if c.timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("-timeout must be positive"))
	}
	return result
}

// rerunCommand returns a command line that runs only the given tests against the same service
// and session, with the same settings for any options that were given on the command line.
func (c *commandParams) rerunCommand(program, sessionGUID string, failed []contract.TestID) string {
	var cmd commandBuilder
	cmd.add(program, "-url", c.serviceURL, "-session", sessionGUID)
	carried := []struct{ name, value string }{
		{"config", c.configFile},
		{"env-file", c.envFile},
		{"parallel", strconv.Itoa(c.parallelism)},
		{"retries", strconv.Itoa(c.retries)},
		{"timeout", c.timeout.String()},
		{"report-dir", c.reportDir},
	}
	for _, f := range carried {
		if c.explicit[f.name] {
			cmd.add("-"+f.name, f.value)
		}
	}
	if c.sharedSession {
		cmd.add("-shared-session")
	}
	if c.debug {
		cmd.add("-debug")
	}
	if c.debugAll {
		cmd.add("-debug-all")
	}
	patterns := make([]string, 0, len(failed))
	for _, id := range failed {
		patterns = append(patterns, regexp.QuoteMeta(id.String()))
	}
	cmd.add("-run", "^("+strings.Join(patterns, "|")+")$")
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
