package cli

import (
	"errors"
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

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Empty the entire ASV database",
	Long: `Wipe truncates every ASV table (datasets, sampling events, occurrences,
measurements, sequences and annotations) and restarts their sequences.
The schema itself is left in place, ready for fresh imports.

This is irreversible. Interactive confirmation is required: you must
type the database name to proceed. With --force the prompt is replaced
by a short countdown, for use in scripts and test environments.

Examples:
  # Interactive wipe (asks you to type the database name)
  asvdb wipe -d asv_test

  # Non-interactive wipe with countdown
  asvdb wipe -d asv_test --force`,
	Args: cobra.NoArgs,
	RunE: runWipe,
}

type wipeFlagValues struct {
	conn    connectionFlags
	schema  string
	force   bool
	timeout time.Duration
}

var wipeFlags wipeFlagValues

func init() {
	rootCmd.AddCommand(wipeCmd)

	registerConnectionFlags(wipeCmd, &wipeFlags.conn)

	wipeCmd.Flags().StringVar(&wipeFlags.schema, "schema", "",
		"Schema holding the ASV tables (default: public, or asvdb.yaml)")
	wipeCmd.Flags().BoolVar(&wipeFlags.force, "force", false,
		"Skip the interactive confirmation prompt\n"+
			"A countdown runs instead, leaving a window to abort with Ctrl+C")
	wipeCmd.Flags().DurationVar(&wipeFlags.timeout, "timeout", 3*time.Minute,
		"Catastrophic failure protection timeout (default 3m)")
}

// buildWipeConfig builds a WipeConfig from CLI flags and asvdb.yaml.
func buildWipeConfig(cmd *cobra.Command, verbose bool) (asvdb.WipeConfig, error) {
	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return asvdb.WipeConfig{}, err
	}

	conn, err := resolveConnectionFromFlags(wipeFlags.conn, projectCfg, verbose)
	if err != nil {
		return asvdb.WipeConfig{}, err
	}
	if err := requireDatabase(conn, "wipe"); err != nil {
		return asvdb.WipeConfig{}, err
	}

	if verbose {
		logConnectionVerbose(conn.ConnConfig)
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, wipeFlags.timeout)
	if err != nil {
		return asvdb.WipeConfig{}, err
	}

	schema := wipeFlags.schema
	if schema == "" && projectCfg != nil {
		schema = projectCfg.Import.Schema
	}

	return asvdb.WipeConfig{
		DatabaseName:      conn.ConnConfig.Database,
		ConnectionString:  conn.ConnStr,
		Schema:            schema,
		Force:             wipeFlags.force,
		Timeout:           timeout,
		Verbose:           verbose,
		AuthMethod:        conn.ConnConfig.AuthMethod,
		AzureTenantID:     conn.ConnConfig.AzureTenantID,
		AzureClientID:     conn.ConnConfig.AzureClientID,
		AzureClientSecret: conn.ConnConfig.AzureClientSecret,
	}, nil
}

func runWipe(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	config, err := buildWipeConfig(cmd, verbose)
	if err != nil {
		return err
	}

	// Select approver implementation based on --force flag
	var approver asvdb.Approver
	if config.Force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	logger := logging.NewConsoleLogger(verbose)
	sessionManager := services.NewSessionManager(db.NewConnector, logger)
	eraser := services.NewEraseService(sessionManager, approver, logger)

	ctx, cancel := contextWithTimeoutAndSignals(config.Timeout, "wipe")
	defer cancel()

	progress := tui.NewProgressDisplay()
	if err := eraser.Wipe(ctx, config); err != nil {
		if errors.Is(err, asvdb.ErrApprovalDenied) {
			fmt.Fprintln(os.Stderr, "Wipe cancelled.")
		} else {
			progress.Error("Wipe failed")
		}
		return err
	}
	progress.Success(fmt.Sprintf("Wiped all ASV data from database '%s'", config.DatabaseName))
	return nil
}
