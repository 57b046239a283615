package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/catsop/sophttp/packages/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sophttp project",
	Long: `Initialize sophttp configuration in the current directory.

This creates:
  - .sophttp.config.json  - Configuration file
  - bench.yaml            - Example bench profile

Examples:
  sophttp init
  sophttp init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".sophttp.config.json")
	benchFile := filepath.Join(cwd, "bench.yaml")

	if !forceInit {
		for _, f := range []string{configFile, benchFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Auth = "user:password"
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	benchContent := `# sophttp bench profile
url: http://localhost:8000/info
method: GET
rate: 50
concurrency: 8
duration: 30s
timeout: 10s
# auth: user:password
# method: POST
# content_type: application/json
# data_file: body.json
`

	if err := os.WriteFile(benchFile, []byte(benchContent), 0644); err != nil {
		return fmt.Errorf("failed to create bench profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", benchFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nsophttp initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'sophttp get http://localhost:8000/info' to send a first request.\n")

	return nil
}
