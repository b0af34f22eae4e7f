package asvdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportConfig contains all parameters needed for an import run.
type ImportConfig struct {
	// InputDir is the directory containing the TSV input files
	// (event.tsv, occurrence.tsv or asv-table.tsv, emof.tsv, annotation.tsv).
	InputDir string

	// DatasetID identifies the dataset the input belongs to
	// (e.g. "SMHI:BalticPicoplankton"). Event identifiers are derived
	// from it: <dataset_id>:<event_id_alias>.
	DatasetID string

	// ProviderEmail is the contact address stored on the dataset row.
	ProviderEmail string

	// ConnectionString is the PostgreSQL connection string (URI format).
	ConnectionString string

	// Schema is the target schema of the ASV tables. Defaults to "public".
	Schema string

	// Encoding overrides input file encoding detection.
	// One of "", "utf-8", "latin-1", "mac-roman".
	Encoding string

	// Annotations enables import of annotation.tsv into taxon_annotation.
	Annotations bool

	// DryRun runs the full pipeline and rolls the transaction back.
	DryRun bool

	// Strict aborts on the first row validation error instead of
	// collecting and reporting all of them.
	Strict bool

	// Timeout is the global timeout for the entire import run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.InputDir == "" {
		errs = append(errs, fmt.Errorf("InputDir is required: %w", ErrInvalidConfig))
	}

	if c.DatasetID == "" {
		errs = append(errs, fmt.Errorf("DatasetID is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	switch c.Encoding {
	case "", EncodingUTF8, EncodingLatin1, EncodingMacRoman:
	default:
		errs = append(errs, fmt.Errorf("unsupported encoding %q: %w", c.Encoding, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DeleteConfig contains all parameters needed to delete one dataset.
type DeleteConfig struct {
	// DatasetID is the dataset identifier to delete.
	DatasetID string

	// ConnectionString is the PostgreSQL connection string (URI format).
	ConnectionString string

	// Schema is the target schema of the ASV tables. Defaults to "public".
	Schema string

	// Timeout is the global timeout for the delete operation.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the DeleteConfig has all required fields.
func (c *DeleteConfig) Validate() error {
	var errs []error

	if c.DatasetID == "" {
		errs = append(errs, fmt.Errorf("DatasetID is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// WipeConfig contains all parameters needed to empty the database.
type WipeConfig struct {
	// DatabaseName is the target database name, shown in the approval
	// prompt before anything destructive happens.
	DatabaseName string

	// ConnectionString is the PostgreSQL connection string (URI format).
	ConnectionString string

	// Schema is the schema whose sequences are restarted. Defaults to "public".
	Schema string

	// Force bypasses interactive approval (countdown instead of prompt).
	Force bool

	// Timeout is the global timeout for the wipe operation.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the WipeConfig has all required fields.
func (c *WipeConfig) Validate() error {
	var errs []error

	if c.DatabaseName == "" {
		errs = append(errs, fmt.Errorf("DatabaseName is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the AWS region for RDS IAM token generation.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// in project:region:instance format.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// Supported input encodings. Latin-1 and mac-roman cover TSV files saved
// from desktop spreadsheet tools, which otherwise garble characters like °C.
const (
	EncodingUTF8     = "utf-8"
	EncodingLatin1   = "latin-1"
	EncodingMacRoman = "mac-roman"
)

// TableCount reports insert statistics for one target table.
type TableCount struct {
	// Table is the unqualified table name (e.g. "occurrence").
	Table string

	// Inserted is the number of new rows written.
	Inserted int64

	// Skipped is the number of input rows that already existed
	// (idempotent re-import) and were left untouched.
	Skipped int64
}

// ImportSummary reports the outcome of one import run.
type ImportSummary struct {
	// RunID uniquely identifies this import run in logs.
	RunID uuid.UUID

	// DatasetID is the dataset the input was imported into.
	DatasetID string

	// Tables holds per-table insert statistics, in execution order.
	Tables []TableCount

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration

	// DryRun is true when the transaction was rolled back on purpose.
	DryRun bool
}

// Inserted returns the total number of rows written across all tables.
func (s *ImportSummary) Inserted() int64 {
	var n int64
	for _, t := range s.Tables {
		n += t.Inserted
	}
	return n
}

// Skipped returns the total number of pre-existing rows across all tables.
func (s *ImportSummary) Skipped() int64 {
	var n int64
	for _, t := range s.Tables {
		n += t.Skipped
	}
	return n
}

// DeleteResult reports the outcome of a dataset delete.
type DeleteResult struct {
	// DatasetID is the requested dataset identifier.
	DatasetID string

	// Found is false when no dataset row matched. Per contract this is
	// a reported outcome, not an error.
	Found bool

	// RowsDeleted is the total number of rows removed across all tables.
	RowsDeleted int64
}
