package asvdb

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitConnectionError  = 11 // Failed to connect to database
	ExitApprovalDenied   = 12 // User denied wipe approval
	ExitImportFailed     = 13 // Database transaction failed
	ExitInputMissing     = 14 // Required input file not found
	ExitValidationFailed = 15 // Malformed input rows
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultSchema is the schema the ASV tables live in.
	DefaultSchema = "public"

	// DatasetTable and friends are the tables the importer targets.
	// Column lists are discovered from information_schema at run time,
	// so only the names are fixed here.
	DatasetTable    = "dataset"
	EventTable      = "sampling_event"
	MixsTable       = "mixs"
	EmofTable       = "emof"
	ASVTable        = "asv"
	OccurrenceTable = "occurrence"
	AnnotationTable = "taxon_annotation"
)
