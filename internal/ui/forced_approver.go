package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the
// countdown, used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) asvdb.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintf(a.output, "☠️  DANGER: about to EMPTY the database '%s'.\n", dbName)
	fmt.Fprintln(a.output, "Every dataset, sampling event, sequence and annotation will be deleted.")
	fmt.Fprintln(a.output)

	countdownSeconds := int(asvdb.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rEmptying in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with database wipe...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ asvdb.Approver = (*ForcedApprover)(nil)
