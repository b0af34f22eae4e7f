package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pragermh/mol-mod-import/internal/config"
	"github.com/pragermh/mol-mod-import/internal/tui"
	"github.com/pragermh/mol-mod-import/internal/tui/wizards"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Initialize an asvdb project directory",
	Long: `Initialize a project directory holding asvdb configuration:
- asvdb.yaml with connection settings and import defaults
- .env placeholder for secrets ($PGPASSWORD and friends)

In an interactive terminal, a wizard walks you through the database
connection. Otherwise placeholder files are written for manual editing.

Target directory must be empty, non-existent, or contain only files
this tool manages.

Examples:
  asvdb init .                    # Initialize in current directory
  asvdb init ./baltic-2026        # Initialize in ./baltic-2026`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runInit,
	ValidArgsFunction: completeDirectories,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	if !tui.IsInteractive() {
		return writePlaceholderProject(targetDir)
	}
	if hasEnvConnectionSource() {
		fmt.Fprintln(os.Stderr, "Connection already configured via environment, skipping wizard.")
		return writePlaceholderProject(targetDir)
	}

	result, err := wizards.RunInitWizard(targetDir)
	if err != nil {
		return fmt.Errorf("init wizard failed: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return nil
	}

	if !result.SetupConfig || result.ConnResult.Cancelled {
		return writePlaceholderProject(targetDir)
	}

	cfgResult, err := wizards.RunConfigWizard(result.ConnResult.Config)
	if err != nil {
		return fmt.Errorf("config wizard failed: %w", err)
	}
	if cfgResult.Cancelled {
		return writePlaceholderProject(targetDir)
	}

	configPath := filepath.Join(targetDir, config.ConfigFileName)
	data, err := yaml.Marshal(cfgResult.Config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	envPath, err := writeEnvPlaceholder(targetDir)
	if err != nil {
		return err
	}

	offerSavePgpass(&result.ConnResult.Config)
	wizards.ShowInitComplete(targetDir, []string{configPath, envPath})
	return nil
}

// writePlaceholderProject writes a commented asvdb.yaml and .env for
// manual editing.
func writePlaceholderProject(targetDir string) error {
	configPath := filepath.Join(targetDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.ConfigFileName, targetDir)
	}

	placeholder := `# asvdb project configuration.
# Flags and environment variables override these values.
connection:
  host: localhost
  port: 5432
  username: postgres
  database: asv_db
  sslmode: prefer
import:
  # encoding: latin-1
  # schema: public
  # annotations: true
timeout: 3m
`
	if err := os.WriteFile(configPath, []byte(placeholder), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}

	envPath, err := writeEnvPlaceholder(targetDir)
	if err != nil {
		return err
	}

	wizards.ShowInitComplete(targetDir, []string{configPath, envPath})
	return nil
}

// writeEnvPlaceholder creates a .env stub unless one already exists.
func writeEnvPlaceholder(targetDir string) (string, error) {
	envPath := filepath.Join(targetDir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return envPath, nil
	}

	stub := `# Secrets loaded by asvdb at startup. Never commit real values.
# PGPASSWORD=
# ASVDB_CONNECTION_STRING=
# AZURE_CLIENT_SECRET=
`
	if err := os.WriteFile(envPath, []byte(stub), 0600); err != nil {
		return "", fmt.Errorf("failed to write .env: %w", err)
	}
	return envPath, nil
}
