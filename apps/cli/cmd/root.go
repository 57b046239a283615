package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/config"
	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/output"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sophttp",
	Short: "A small HTTP client for JSON services. Failures are data.",
	Long: `sophttp sends GET, POST, PUT and DELETE requests and prints the
response. Transport failures never abort a command: they come back as a
status of -1 with a descriptive error body, exactly like any other
response.

The tree command layers JSON parsing and Django-style error detection
on top, and bench measures request latency against a single endpoint.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if quietFlag {
			level = "error"
		}
		if verboseFlag {
			level = "debug"
		}
		logging.Configure(level)
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

var (
	authFlag            string
	timeoutFlag         string
	proxyFlag           string
	followRedirectsFlag bool
	insecureFlag        bool
	verboseFlag         bool
	quietFlag           bool
	noColorFlag         bool
	prettyFlag          bool
	outputFlag          string
	noHistoryFlag       bool
	historyPathFlag     string
	configFlag          string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&authFlag, "auth", "a", getEnvString("SOPHTTP_AUTH", ""), `Basic auth credentials as "user:password" (env: SOPHTTP_AUTH)`)
	pf.StringVar(&timeoutFlag, "timeout", getEnvString("SOPHTTP_TIMEOUT", "30s"), "Request timeout (e.g., 30s, 1m) (env: SOPHTTP_TIMEOUT)")
	pf.StringVar(&proxyFlag, "proxy", getEnvString("SOPHTTP_PROXY", ""), "Proxy URL for HTTP requests (env: SOPHTTP_PROXY)")
	pf.BoolVarP(&followRedirectsFlag, "follow-redirects", "L", getEnvBool("SOPHTTP_FOLLOW_REDIRECTS", false), "Follow 3xx redirects (env: SOPHTTP_FOLLOW_REDIRECTS)")
	pf.BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("SOPHTTP_INSECURE", false), "Disable SSL certificate validation (env: SOPHTTP_INSECURE)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("SOPHTTP_VERBOSE", false), "Verbose output, includes response headers (env: SOPHTTP_VERBOSE)")
	pf.BoolVarP(&quietFlag, "quiet", "q", getEnvBool("SOPHTTP_QUIET", false), "Suppress all output except errors (env: SOPHTTP_QUIET)")
	pf.BoolVar(&noColorFlag, "no-color", getEnvBool("SOPHTTP_NO_COLOR", false), "Disable colored output (env: SOPHTTP_NO_COLOR)")
	pf.BoolVar(&prettyFlag, "pretty", getEnvBool("SOPHTTP_PRETTY", false), "Pretty-print JSON bodies (env: SOPHTTP_PRETTY)")
	pf.StringVarP(&outputFlag, "output", "o", getEnvString("SOPHTTP_OUTPUT", "console"), "Output format: console, json (env: SOPHTTP_OUTPUT)")
	pf.BoolVar(&noHistoryFlag, "no-history", getEnvBool("SOPHTTP_NO_HISTORY", false), "Do not record this request in history (env: SOPHTTP_NO_HISTORY)")
	pf.StringVar(&historyPathFlag, "history-path", getEnvString("SOPHTTP_HISTORY_PATH", ""), "Path to the history database (env: SOPHTTP_HISTORY_PATH)")
	pf.StringVar(&configFlag, "config", getEnvString("SOPHTTP_CONFIG", ""), "Path to config file (env: SOPHTTP_CONFIG)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// loadMergedConfig layers explicit flag values over the config file over
// the defaults.
func loadMergedConfig() (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	overrides := &config.Config{}
	if timeoutFlag != "30s" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
		overrides.Timeout = int(d.Milliseconds())
	}
	if authFlag != "" {
		overrides.Auth = authFlag
	}
	if proxyFlag != "" {
		overrides.Proxy = proxyFlag
	}
	if followRedirectsFlag {
		overrides.FollowRedirects = config.BoolPtr(true)
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if noHistoryFlag {
		overrides.NoHistory = config.BoolPtr(true)
	}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	if prettyFlag {
		overrides.Pretty = config.BoolPtr(true)
	}
	if outputFlag != "console" {
		overrides.Output = outputFlag
	}
	if historyPathFlag != "" {
		overrides.HistoryPath = historyPathFlag
	}

	return fileConfig.Merge(overrides), nil
}

// buildClient assembles a client from the merged configuration.
func buildClient(cfg *config.Config) *http.Client {
	opts := []http.ClientOption{
		http.WithTimeout(cfg.GetTimeout()),
		http.WithValidateSSL(cfg.GetValidateSSL()),
	}
	if cfg.GetFollowRedirects() {
		opts = append(opts, http.WithFollowRedirects(true))
		if cfg.MaxRedirects > 0 {
			opts = append(opts, http.WithMaxRedirects(cfg.MaxRedirects))
		}
	}
	if cfg.Proxy != "" {
		opts = append(opts, http.WithProxy(cfg.Proxy))
	}

	client := http.NewClient(opts...)
	if cfg.Auth != "" {
		username, password, _ := strings.Cut(cfg.Auth, ":")
		client.SetAuth(username, password)
	}
	return client
}

func consoleFormatter(cfg *config.Config, opts ...output.ConsoleOption) *output.ConsoleFormatter {
	all := []output.ConsoleOption{
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor() || quietFlag),
		output.WithPrettyJSON(cfg.GetPretty()),
	}
	all = append(all, opts...)
	return output.NewConsoleFormatter(all...)
}

// exitError prints err and terminates the process with the given code.
func exitError(code int, err error) {
	f := output.NewConsoleFormatter(
		output.WithWriter(os.Stderr),
		output.WithNoColor(noColorFlag),
	)
	f.FormatError(err)
	os.Exit(code)
}

// historyPath resolves the history database location, creating its parent
// directory when needed.
func historyPath(cfg *config.Config) (string, error) {
	if cfg.HistoryPath != "" {
		return cfg.HistoryPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".sophttp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}
