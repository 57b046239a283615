package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/bench"
	"github.com/catsop/sophttp/packages/config"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/output"
)

var (
	benchProfileFlag     string
	benchMethodFlag      string
	benchContentTypeFlag string
	benchDataFlag        string
	benchRateFlag        float64
	benchConcurrencyFlag int
	benchDurationFlag    string
)

var benchCmd = &cobra.Command{
	Use:   "bench [url]",
	Short: "Measure request latency against a single endpoint",
	Long: `Run a constant-rate benchmark against one URL and print a latency
summary. Settings come from flags, from a YAML profile, or both, with
flags taking precedence. Every worker drives its own client.

Examples:
  sophttp bench http://localhost:8000/info --rate 50 --duration 30s
  sophttp bench http://localhost:8000/node/list -X POST -d 'z=120' -T application/x-www-form-urlencoded
  sophttp bench --profile bench.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: benchCommand,
}

func init() {
	benchCmd.Flags().StringVarP(&benchProfileFlag, "profile", "p", "", "Load bench settings from a YAML file")
	benchCmd.Flags().StringVarP(&benchMethodFlag, "method", "X", "GET", "Request method: GET, POST, PUT, DELETE")
	benchCmd.Flags().StringVarP(&benchContentTypeFlag, "content-type", "T", "", "Request body content type")
	benchCmd.Flags().StringVarP(&benchDataFlag, "data", "d", "", "Request body, a literal string or @file")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 50, "Target requests per second")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 8, "Number of worker clients")
	benchCmd.Flags().StringVar(&benchDurationFlag, "duration", "10s", "Run duration (e.g., 30s, 5m)")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	appCfg, err := loadMergedConfig()
	if err != nil {
		exitError(ExitConfigError, err)
	}

	cfg := bench.DefaultConfig()
	if benchProfileFlag != "" {
		cfg, err = bench.LoadConfig(benchProfileFlag)
		if err != nil {
			exitError(ExitConfigError, err)
		}
	}

	// Explicit flags override the profile
	if len(args) == 1 {
		cfg.URL = args[0]
	}
	if benchMethodFlag != "GET" {
		cfg.Method = benchMethodFlag
	}
	if benchContentTypeFlag != "" {
		cfg.ContentType = benchContentTypeFlag
	}
	if benchDataFlag != "" {
		if strings.HasPrefix(benchDataFlag, "@") {
			cfg.DataFile = strings.TrimPrefix(benchDataFlag, "@")
			cfg.Data = ""
		} else {
			cfg.Data = benchDataFlag
			cfg.DataFile = ""
		}
	}
	if benchRateFlag != 50 {
		cfg.Rate = benchRateFlag
	}
	if benchConcurrencyFlag != 8 {
		cfg.Concurrency = benchConcurrencyFlag
	}
	if benchDurationFlag != "10s" {
		cfg.Duration = benchDurationFlag
	}
	if timeoutFlag != "30s" {
		cfg.Timeout = timeoutFlag
	}
	if appCfg.Auth != "" && cfg.Auth == "" {
		cfg.Auth = appCfg.Auth
	}

	if err := cfg.Validate(); err != nil {
		exitError(ExitUsageError, err)
	}

	if !quietFlag && strings.ToLower(appCfg.Output) != "json" {
		consoleFormatter(appCfg).FormatHeader(version)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, stopping gracefully...")
		cancel()
	}()

	runner := bench.NewRunner(cfg)
	report, err := runner.Run(ctx)
	if err != nil {
		exitError(ExitAppError, err)
	}

	renderBenchReport(appCfg, report)
	return nil
}

func renderBenchReport(cfg *config.Config, report *bench.Report) {
	if quietFlag {
		return
	}
	if strings.ToLower(cfg.Output) == "json" {
		if err := output.NewJSONFormatter().FormatBenchReport(report); err != nil {
			logging.L().Warnf("error writing JSON output: %v", err)
		}
		return
	}
	consoleFormatter(cfg).FormatBenchReport(report)
}
