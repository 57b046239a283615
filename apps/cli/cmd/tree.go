package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/config"
	"github.com/catsop/sophttp/packages/django"
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/output"
	"github.com/catsop/sophttp/packages/ptree"
)

var treeDataFlag string

var treeCmd = &cobra.Command{
	Use:   "tree <url> [path...]",
	Short: "Fetch a JSON document and query it as a property tree",
	Long: `Fetch a JSON document through the error-aware layer and print it,
or print only the values at the given dotted paths.

Non-OK responses are replaced by a small error document, and Django-style
error payloads are detected and logged. Either case exits with code 1.

Examples:
  sophttp tree http://localhost:8000/projects
  sophttp tree http://localhost:8000/stack/5 title resolution.x
  sophttp tree http://localhost:8000/node/list --data 'z=120&top=0'`,
	Args: cobra.MinimumNArgs(1),
	RunE: treeCommand,
}

func init() {
	treeCmd.Flags().StringVarP(&treeDataFlag, "data", "d", "", "Send as POST with this form-encoded body")
}

func treeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig()
	if err != nil {
		exitError(ExitConfigError, err)
	}

	client := django.NewClient(buildClient(cfg))
	defer client.Close()

	url := args[0]
	var tree *ptree.Tree
	if treeDataFlag != "" {
		tree, err = client.PostTree(url, []byte(treeDataFlag))
	} else {
		tree, err = client.GetTree(url)
	}
	if err != nil {
		exitError(ExitParseError, err)
	}

	hadError := django.CheckError(tree)

	if len(args) > 1 {
		f := consoleFormatter(cfg)
		missing := false
		for _, path := range args[1:] {
			if !tree.Has(path) {
				f.FormatError(fmt.Errorf("path %q not found", path))
				missing = true
				continue
			}
			if !quietFlag {
				f.FormatPathValue(path, tree.Value(path))
			}
		}
		if missing {
			os.Exit(ExitAppError)
		}
	} else {
		renderTree(cfg, tree)
	}

	if hadError {
		os.Exit(ExitAppError)
	}
	return nil
}

func renderTree(cfg *config.Config, tree *ptree.Tree) {
	if quietFlag {
		return
	}
	if strings.ToLower(cfg.Output) == "json" {
		if err := output.NewJSONFormatter().FormatTree(tree); err != nil {
			logging.L().Warnf("error writing JSON output: %v", err)
		}
		return
	}
	// Tree output is always pretty-printed.
	consoleFormatter(cfg, output.WithPrettyJSON(true)).FormatTree(tree)
}
