package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pragermh/mol-mod-import/internal/db"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// EraseService removes data: a single dataset, or everything.
// Thread-Safety: NOT safe for concurrent calls on the same instance.
type EraseService struct {
	sessions *SessionManager
	approver asvdb.Approver
	logger   asvdb.Logger
}

// NewEraseService creates a new EraseService with all dependencies injected.
//
// Panics if any dependency is nil (programmer error).
func NewEraseService(
	sessions *SessionManager,
	approver asvdb.Approver,
	logger asvdb.Logger,
) *EraseService {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &EraseService{
		sessions: sessions,
		approver: approver,
		logger:   logger,
	}
}

// DeleteDataset removes one dataset and everything hanging off its sampling
// events, in one transaction. ASV sequences are shared between datasets and
// are left in place. A dataset that does not exist is a reported outcome
// (Found=false), not an error.
func (s *EraseService) DeleteDataset(ctx context.Context, config asvdb.DeleteConfig) (*asvdb.DeleteResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	schema := config.Schema
	if schema == "" {
		schema = asvdb.DefaultSchema
	}

	connConfig, err := parseConnection(config.ConnectionString, config.AuthMethod,
		config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Open(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	tx, err := session.Conn().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", asvdb.ErrImportFailed, err)
	}
	defer tx.Rollback(ctx)

	result := &asvdb.DeleteResult{DatasetID: config.DatasetID}

	var exists bool
	if err := tx.QueryRow(ctx, buildDatasetExists(schema), config.DatasetID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%w: failed to probe dataset %q: %w", asvdb.ErrImportFailed, config.DatasetID, err)
	}
	if !exists {
		s.logger.Info("Dataset '%s' not found, nothing to delete", config.DatasetID)
		return result, nil
	}
	result.Found = true

	// Child tables first, dataset last.
	statements := []struct {
		table string
		stmt  string
	}{
		{asvdb.OccurrenceTable, buildDeleteByEvent(schema, asvdb.OccurrenceTable)},
		{asvdb.EmofTable, buildDeleteByEvent(schema, asvdb.EmofTable)},
		{asvdb.MixsTable, buildDeleteByEvent(schema, asvdb.MixsTable)},
		{asvdb.EventTable, buildDeleteByDataset(schema, asvdb.EventTable)},
		{asvdb.DatasetTable, buildDeleteByDataset(schema, asvdb.DatasetTable)},
	}
	for _, del := range statements {
		tag, err := tx.Exec(ctx, del.stmt, config.DatasetID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to delete from %q: %w", asvdb.ErrImportFailed, del.table, err)
		}
		s.logger.Verbose("Deleted %d rows from %s", tag.RowsAffected(), del.table)
		result.RowsDeleted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %w", asvdb.ErrImportFailed, err)
	}

	s.logger.Info("✓ Deleted dataset '%s' (%d rows)", config.DatasetID, result.RowsDeleted)
	return result, nil
}

// Wipe empties every data table and restarts the schema's sequences.
// It refuses to run without approval from the injected Approver.
func (s *EraseService) Wipe(ctx context.Context, config asvdb.WipeConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	schema := config.Schema
	if schema == "" {
		schema = asvdb.DefaultSchema
	}

	connConfig, err := parseConnection(config.ConnectionString, config.AuthMethod,
		config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	if err != nil {
		return err
	}

	approved, err := s.approver.RequestApproval(ctx, config.DatabaseName)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("wipe of database %q: %w", config.DatabaseName, asvdb.ErrApprovalDenied)
	}

	session, err := s.sessions.Open(ctx, connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	tx, err := session.Conn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", asvdb.ErrImportFailed, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, buildTruncate(schema)); err != nil {
		return fmt.Errorf("%w: truncate failed: %w", asvdb.ErrImportFailed, err)
	}
	s.logger.Verbose("Truncated all data tables in schema %q", schema)

	if err := s.restartSequences(ctx, tx, schema); err != nil {
		return fmt.Errorf("%w: %w", asvdb.ErrImportFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit failed: %w", asvdb.ErrImportFailed, err)
	}

	s.logger.Info("✓ Emptied database '%s'", config.DatabaseName)
	return nil
}

// restartSequences resets every sequence in the schema so surrogate keys
// start over at 1.
func (s *EraseService) restartSequences(ctx context.Context, tx pgx.Tx, schema string) error {
	rows, err := tx.Query(ctx, querySchemaSequences, schema)
	if err != nil {
		return fmt.Errorf("failed to list sequences: %w", err)
	}

	sequences, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to list sequences: %w", err)
	}

	for _, seq := range sequences {
		if _, err := tx.Exec(ctx, buildSequenceRestart(schema, seq)); err != nil {
			return fmt.Errorf("failed to restart sequence %q: %w", seq, err)
		}
		s.logger.Verbose("Restarted sequence %s", seq)
	}

	return nil
}

// parseConnection parses a connection string and applies the auth settings
// shared by every operation config.
func parseConnection(
	connStr string,
	method asvdb.AuthMethod,
	tenantID, clientID, clientSecret string,
) (*asvdb.ConnectionConfig, error) {
	connConfig, err := db.ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if connConfig.AppName == "" {
		connConfig.AppName = "asvdb"
	}

	connConfig.AuthMethod = method
	connConfig.AzureTenantID = tenantID
	connConfig.AzureClientID = clientID
	connConfig.AzureClientSecret = clientSecret

	return connConfig, nil
}
