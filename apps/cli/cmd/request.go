package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/config"
	"github.com/catsop/sophttp/packages/history"
	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/output"
	"github.com/catsop/sophttp/packages/schema"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	contentTypeFlag string
	dataFlag        string
	watchFlag       bool
	schemaFlag      string
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Send a GET request",
	Long: `Send a GET request and print the response.

Examples:
  sophttp get http://localhost:8000/info
  sophttp get http://localhost:8000/stack/5 --auth catmaid:secret -v
  sophttp get https://example.org/api.json --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, "GET", args[0])
	},
}

var postCmd = &cobra.Command{
	Use:   "post <url>",
	Short: "Send a POST request",
	Long: `Send a POST request and print the response.

Examples:
  sophttp post http://localhost:8000/annotations --data '{"name": "soma"}'
  sophttp post http://localhost:8000/import --data @skeleton.json
  sophttp post http://localhost:8000/form --data 'a=1&b=2' --content-type application/x-www-form-urlencoded
  sophttp post http://localhost:8000/import --data @skeleton.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, "POST", args[0])
	},
}

var putCmd = &cobra.Command{
	Use:   "put <url>",
	Short: "Send a PUT request",
	Long: `Send a PUT request and print the response. The body is uploaded
from an in-memory cursor, so the request carries an exact Content-Length.

Examples:
  sophttp put http://localhost:8000/stack/5 --data '{"title": "L1 CNS"}'
  sophttp put http://localhost:8000/volumes/2 --data @volume.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, "PUT", args[0])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <url>",
	Short: "Send a DELETE request",
	Long: `Send a DELETE request and print the response.

Examples:
  sophttp delete http://localhost:8000/annotations/42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRequest(cmd, "DELETE", args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{postCmd, putCmd} {
		c.Flags().StringVarP(&contentTypeFlag, "content-type", "T", "application/json", "Request body content type")
		c.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body, a literal string or @file")
		c.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send whenever the @file body source changes")
	}
	for _, c := range []*cobra.Command{getCmd, postCmd, putCmd, deleteCmd} {
		c.Flags().StringVar(&schemaFlag, "schema", "", "Validate the response body against a JSON Schema file")
	}
}

func runRequest(cmd *cobra.Command, method, rawURL string) error {
	cfg, err := loadMergedConfig()
	if err != nil {
		exitError(ExitConfigError, err)
	}

	dataPath := ""
	if strings.HasPrefix(dataFlag, "@") {
		dataPath = strings.TrimPrefix(dataFlag, "@")
	}

	client := buildClient(cfg)
	defer client.Close()

	send := func() int {
		var data []byte
		if dataPath != "" {
			var err error
			data, err = os.ReadFile(dataPath)
			if err != nil {
				consoleFormatter(cfg, output.WithWriter(os.Stderr)).
					FormatError(fmt.Errorf("cannot read body file: %w", err))
				return ExitUsageError
			}
		} else if dataFlag != "" {
			data = []byte(dataFlag)
		}

		var resp *http.Response
		switch method {
		case "GET":
			resp = client.Get(rawURL)
		case "POST":
			resp = client.Post(rawURL, contentTypeFlag, data)
		case "PUT":
			resp = client.Put(rawURL, contentTypeFlag, data)
		case "DELETE":
			resp = client.Delete(rawURL)
		}

		renderResponse(cfg, resp)
		recordRequest(cfg, method, rawURL, resp)

		if resp.IsTransportError() {
			return ExitNetworkError
		}
		if schemaFlag != "" {
			return validateResponseSchema(cfg, resp)
		}
		return ExitSuccess
	}

	code := send()

	if !watchFlag || dataPath == "" {
		if code != ExitSuccess {
			os.Exit(code)
		}
		return nil
	}

	return watchAndResend(cmd, dataPath, send)
}

func renderResponse(cfg *config.Config, resp *http.Response) {
	if quietFlag {
		return
	}
	if strings.ToLower(cfg.Output) == "json" {
		f := output.NewJSONFormatter()
		if err := f.FormatResponse(resp); err != nil {
			logging.L().Warnf("error writing JSON output: %v", err)
		}
		return
	}
	consoleFormatter(cfg).FormatResponse(resp)
}

func validateResponseSchema(cfg *config.Config, resp *http.Response) int {
	f := consoleFormatter(cfg, output.WithWriter(os.Stderr))

	schemaData, err := os.ReadFile(schemaFlag)
	if err != nil {
		f.FormatError(fmt.Errorf("cannot read schema file: %w", err))
		return ExitUsageError
	}

	report, err := schema.ValidateBytes(resp.Body, schemaData)
	if err != nil {
		f.FormatError(err)
		return ExitParseError
	}
	if report.Valid {
		return ExitSuccess
	}

	for _, msg := range report.Errors {
		f.FormatError(fmt.Errorf("schema: %s", msg))
	}
	return ExitAppError
}

// recordRequest appends the request to the history database. History
// failures never fail the request itself.
func recordRequest(cfg *config.Config, method, url string, resp *http.Response) {
	if cfg.GetNoHistory() {
		return
	}

	path, err := historyPath(cfg)
	if err != nil {
		logging.L().Warnf("history disabled: %v", err)
		return
	}

	store, err := history.Open(path)
	if err != nil {
		logging.L().Warnf("history disabled: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(history.Entry{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		DurationMs: resp.DurationMs(),
		Bytes:      len(resp.Body),
	}); err != nil {
		logging.L().Warnf("failed to record request: %v", err)
	}
}

func watchAndResend(cmd *cobra.Command, dataPath string, send func() int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(dataPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dataPath, err)
	}

	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", dataPath)

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != absPath {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				// Debounce: reset timer on each event
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nBody file changed: %s\nRe-sending...\n\n", dataPath)
					send()
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", dataPath)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.L().Warnf("watcher error: %v", err)
		}
	}
}
