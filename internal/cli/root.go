package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `
  __ _ _____   ____| |__
 / _` + "`" + ` / __\ \ / / _` + "`" + ` | '_ \
| (_| \__ \ V /| (_| | |_) |
 \__,_|___/ \_/  \__,_|_.__/`

var rootCmd = &cobra.Command{
	Use:   "asvdb",
	Short: "Amplicon Sequence Variant database importer",
	Long: asciiLogo + `

asvdb loads sequencing submissions (tab-separated event, occurrence,
emof and annotation files) into a PostgreSQL ASV database. Identifiers
are derived from the sequences themselves, so re-imports and sequences
shared between datasets are handled without duplication.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied wipe approval
  13 - Database transaction failed
  14 - Required input file not found
  15 - Input validation failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for asvdb")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
