package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pragermh/mol-mod-import/internal/db"
	"github.com/pragermh/mol-mod-import/internal/logging"
	"github.com/pragermh/mol-mod-import/internal/services"
	"github.com/pragermh/mol-mod-import/internal/tui"
	"github.com/pragermh/mol-mod-import/internal/ui"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <dataset_id>",
	Short: "Delete one dataset and its dependent rows",
	Long: `Delete removes a dataset and everything hanging off its sampling events:
occurrences, measurements (emof), MIxS records and the events themselves,
followed by the dataset row. The whole delete runs in one transaction.

ASV sequences are shared between datasets and are never deleted. Use
'asvdb wipe' to empty the database including sequences.

A dataset that does not exist is reported, not treated as an error.

Examples:
  # Delete a dataset
  asvdb delete SMHI:BalticPicoplankton -d asv_db

  # Delete using a connection string
  asvdb delete SMHI:BalticPicoplankton --connection "postgresql://user@host/asv_db"`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

type deleteFlagValues struct {
	conn    connectionFlags
	schema  string
	timeout time.Duration
}

var deleteFlags deleteFlagValues

func init() {
	rootCmd.AddCommand(deleteCmd)

	registerConnectionFlags(deleteCmd, &deleteFlags.conn)

	deleteCmd.Flags().StringVar(&deleteFlags.schema, "schema", "",
		"Schema holding the ASV tables (default: public, or asvdb.yaml)")
	deleteCmd.Flags().DurationVar(&deleteFlags.timeout, "timeout", 3*time.Minute,
		"Catastrophic failure protection timeout (default 3m)")
}

// buildDeleteConfig builds a DeleteConfig from CLI flags and asvdb.yaml.
func buildDeleteConfig(cmd *cobra.Command, datasetID string, verbose bool) (asvdb.DeleteConfig, error) {
	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return asvdb.DeleteConfig{}, err
	}

	conn, err := resolveConnectionFromFlags(deleteFlags.conn, projectCfg, verbose)
	if err != nil {
		return asvdb.DeleteConfig{}, err
	}
	if err := requireDatabase(conn, "delete"); err != nil {
		return asvdb.DeleteConfig{}, err
	}

	if verbose {
		logConnectionVerbose(conn.ConnConfig)
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, deleteFlags.timeout)
	if err != nil {
		return asvdb.DeleteConfig{}, err
	}

	schema := deleteFlags.schema
	if schema == "" && projectCfg != nil {
		schema = projectCfg.Import.Schema
	}

	return asvdb.DeleteConfig{
		DatasetID:         datasetID,
		ConnectionString:  conn.ConnStr,
		Schema:            schema,
		Timeout:           timeout,
		Verbose:           verbose,
		AuthMethod:        conn.ConnConfig.AuthMethod,
		AzureTenantID:     conn.ConnConfig.AzureTenantID,
		AzureClientID:     conn.ConnConfig.AzureClientID,
		AzureClientSecret: conn.ConnConfig.AzureClientSecret,
	}, nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	datasetID := args[0]
	verbose := getVerboseFlag(cmd)

	config, err := buildDeleteConfig(cmd, datasetID, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	sessionManager := services.NewSessionManager(db.NewConnector, logger)
	// Delete needs no approver interaction. The forced approver satisfies
	// the dependency without ever being asked.
	eraser := services.NewEraseService(sessionManager, ui.NewForcedApprover(verbose), logger)

	ctx, cancel := contextWithTimeoutAndSignals(config.Timeout, "delete")
	defer cancel()

	progress := tui.NewProgressDisplay()
	progress.Start(fmt.Sprintf("Deleting dataset '%s'", datasetID))

	result, err := eraser.DeleteDataset(ctx, config)
	if err != nil {
		progress.Error("Delete failed")
		return err
	}

	if !result.Found {
		fmt.Fprintf(os.Stderr, "Dataset '%s' not found, nothing to delete.\n", result.DatasetID)
		return nil
	}
	progress.Success(fmt.Sprintf("Deleted dataset '%s'", datasetID))
	return nil
}
