package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/history"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/output"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed requests",
	Long: `List recent requests from the history database, newest first.

Examples:
  sophttp history
  sophttp history -n 50
  sophttp history -o json`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", getEnvInt("SOPHTTP_HISTORY_LIMIT", 20), "Number of entries to show (env: SOPHTTP_HISTORY_LIMIT)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig()
	if err != nil {
		exitError(ExitConfigError, err)
	}

	path, err := historyPath(cfg)
	if err != nil {
		exitError(ExitConfigError, err)
	}

	store, err := history.Open(path)
	if err != nil {
		exitError(ExitConfigError, err)
	}
	defer store.Close()

	entries, err := store.Recent(historyLimitFlag)
	if err != nil {
		exitError(ExitAppError, err)
	}

	if strings.ToLower(cfg.Output) == "json" {
		if err := output.NewJSONFormatter().FormatHistory(entries); err != nil {
			logging.L().Warnf("error writing JSON output: %v", err)
		}
		return nil
	}
	consoleFormatter(cfg).FormatHistory(entries)
	return nil
}
