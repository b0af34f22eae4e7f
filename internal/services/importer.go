package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pragermh/mol-mod-import/internal/checksum"
	"github.com/pragermh/mol-mod-import/internal/records"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// ImportService loads one dataset submission into the database.
// Thread-Safety: NOT safe for concurrent Import() calls on the same instance.
// Create separate instances for concurrent imports.
type ImportService struct {
	sessions *SessionManager
	logger   asvdb.Logger
	gen      checksum.Generator
}

// NewImportService creates a new ImportService with all dependencies injected.
//
// Panic vs. Error Boundary Rationale:
//   - Panics on nil dependencies: These are programmer errors that should fail
//     loudly at application startup, not during request handling.
//   - Returns errors for runtime conditions: Configuration validation,
//     connection failures, and malformed input are recoverable conditions
//     that should be handled by the caller, not panics.
func NewImportService(
	sessions *SessionManager,
	logger asvdb.Logger,
	gen checksum.Generator,
) *ImportService {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if gen == nil {
		panic("gen cannot be nil")
	}

	return &ImportService{
		sessions: sessions,
		logger:   logger,
		gen:      gen,
	}
}

// Import reads, validates, transforms, and loads one submission directory.
// The whole load runs in a single transaction: either every table is
// written or none of them are. Rows that already exist from a previous
// import of the same dataset are counted as skipped, not errors.
func (s *ImportService) Import(ctx context.Context, config asvdb.ImportConfig) (*asvdb.ImportSummary, error) {
	start := time.Now()

	connConfig, err := s.validateAndParseConfig(config)
	if err != nil {
		return nil, err
	}
	schema := config.Schema
	if schema == "" {
		schema = asvdb.DefaultSchema
	}

	input, err := s.readAndValidateInput(config)
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
	// No-op once the transaction is committed or rolled back.
	defer tx.Rollback(ctx)

	summary := &asvdb.ImportSummary{
		RunID:     uuid.New(),
		DatasetID: config.DatasetID,
		DryRun:    config.DryRun,
	}
	s.logger.Verbose("Import run %s for dataset '%s'", summary.RunID, config.DatasetID)

	if err := s.runPipeline(ctx, tx, schema, input, config, summary); err != nil {
		if errors.Is(err, asvdb.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", asvdb.ErrImportFailed, err)
	}

	if config.DryRun {
		if err := tx.Rollback(ctx); err != nil {
			return nil, fmt.Errorf("%w: rollback failed: %w", asvdb.ErrImportFailed, err)
		}
		s.logger.Info("✓ Dry run complete, transaction rolled back")
	} else {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("%w: commit failed: %w", asvdb.ErrImportFailed, err)
		}
		s.logger.Info("✓ Import completed successfully")
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// validateAndParseConfig validates the configuration and parses the
// connection string.
func (s *ImportService) validateAndParseConfig(config asvdb.ImportConfig) (*asvdb.ConnectionConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.Verbose("Starting import of dataset '%s'", config.DatasetID)
	s.logger.Verbose("Input directory: %s", config.InputDir)

	return parseConnection(config.ConnectionString, config.AuthMethod,
		config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
}

// readAndValidateInput reads the submission directory, reports every
// malformed row, and derives the database identifiers.
func (s *ImportService) readAndValidateInput(config asvdb.ImportConfig) (*records.Input, error) {
	input, err := records.ReadDir(config.InputDir, config.Encoding, config.Annotations)
	if err != nil {
		return nil, err
	}
	if input.FromASVTable {
		s.logger.Verbose("Melted asv-table.tsv into %d occurrence rows", len(input.Occurrences.Rows))
	}

	validator := records.NewValidator(s.gen)
	validator.Strict = config.Strict
	result := validator.Validate(input)
	if err := result.Err(); err != nil {
		return nil, err
	}
	s.logger.Verbose("Validated %d events, %d occurrences", len(input.Events.Rows), len(input.Occurrences.Rows))

	if err := records.Prepare(input, config.DatasetID, s.gen); err != nil {
		return nil, err
	}

	return input, nil
}

// runPipeline writes all tables inside the supplied transaction, in
// foreign key order.
func (s *ImportService) runPipeline(
	ctx context.Context,
	tx pgx.Tx,
	schema string,
	input *records.Input,
	config asvdb.ImportConfig,
	summary *asvdb.ImportSummary,
) error {
	count, err := s.upsertDataset(ctx, tx, schema, config)
	if err != nil {
		return err
	}
	summary.Tables = append(summary.Tables, count)

	steps := []struct {
		table    string
		data     *records.Table
		conflict string
	}{
		{asvdb.EventTable, input.Events, "event_id"},
		{asvdb.MixsTable, input.Events, "event_id"},
		{asvdb.EmofTable, input.Emof, "measurement_id"},
	}
	for _, step := range steps {
		if step.data == nil {
			continue
		}
		count, err := s.loadBatched(ctx, tx, schema, step.table, step.data, step.conflict)
		if err != nil {
			return err
		}
		summary.Tables = append(summary.Tables, count)
	}

	count, err = s.loadASVs(ctx, tx, schema, input.Occurrences)
	if err != nil {
		return err
	}
	summary.Tables = append(summary.Tables, count)

	count, err = s.loadBatched(ctx, tx, schema, asvdb.OccurrenceTable, input.Occurrences, "occurrence_id")
	if err != nil {
		return err
	}
	summary.Tables = append(summary.Tables, count)

	if config.Annotations && input.Annotations != nil {
		count, err = s.loadBatched(ctx, tx, schema, asvdb.AnnotationTable, input.Annotations, "asv_id")
		if err != nil {
			return err
		}
		summary.Tables = append(summary.Tables, count)
	}

	return nil
}

// upsertDataset writes the dataset row. A pre-existing row has its
// provider contact and insertion_time refreshed.
func (s *ImportService) upsertDataset(
	ctx context.Context,
	tx pgx.Tx,
	schema string,
	config asvdb.ImportConfig,
) (asvdb.TableCount, error) {
	var exists bool
	if err := tx.QueryRow(ctx, buildDatasetExists(schema), config.DatasetID).Scan(&exists); err != nil {
		return asvdb.TableCount{}, fmt.Errorf("failed to probe dataset %q: %w", config.DatasetID, err)
	}

	_, err := tx.Exec(ctx, buildDatasetUpsert(schema), config.DatasetID, nullable(config.ProviderEmail))
	if err != nil {
		return asvdb.TableCount{}, fmt.Errorf("failed to upsert dataset %q: %w", config.DatasetID, err)
	}

	count := asvdb.TableCount{Table: asvdb.DatasetTable}
	if exists {
		count.Skipped = 1
	} else {
		count.Inserted = 1
	}
	s.logTableCount(count)
	return count, nil
}

// loadBatched inserts a table row by row through a batch, counting skips
// from the per-row command tags.
func (s *ImportService) loadBatched(
	ctx context.Context,
	tx pgx.Tx,
	schema, table string,
	data *records.Table,
	conflictTarget string,
) (asvdb.TableCount, error) {
	columns, err := s.tableColumns(ctx, tx, schema, table)
	if err != nil {
		return asvdb.TableCount{}, err
	}

	selected, err := data.Select(columns)
	if err != nil {
		return asvdb.TableCount{}, fmt.Errorf("%w: table %q: %w", asvdb.ErrValidationFailed, table, err)
	}
	stmt := buildInsert(schema, table, columns, conflictTarget)
	batch := &pgx.Batch{}
	for _, row := range selected.Rows {
		batch.Queue(stmt, rowArgs(row)...)
	}

	results := tx.SendBatch(ctx, batch)
	count := asvdb.TableCount{Table: table}
	for range selected.Rows {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return asvdb.TableCount{}, fmt.Errorf("failed to insert into %q: %w", table, err)
		}
		count.Inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return asvdb.TableCount{}, fmt.Errorf("failed to insert into %q: %w", table, err)
	}

	count.Skipped = int64(len(selected.Rows)) - count.Inserted
	s.logTableCount(count)
	return count, nil
}

// loadASVs writes the shared ASV table. Sequences are staged with COPY and
// moved over with a whole-tuple EXCEPT, because the same sequence is
// legitimately shared between datasets and must never be duplicated.
func (s *ImportService) loadASVs(
	ctx context.Context,
	tx pgx.Tx,
	schema string,
	occurrences *records.Table,
) (asvdb.TableCount, error) {
	columns, err := s.tableColumns(ctx, tx, schema, asvdb.ASVTable)
	if err != nil {
		return asvdb.TableCount{}, err
	}

	selected, err := occurrences.Select(columns)
	if err != nil {
		return asvdb.TableCount{}, fmt.Errorf("%w: table %q: %w", asvdb.ErrValidationFailed, asvdb.ASVTable, err)
	}
	if err := selected.DedupeBy("asv_id"); err != nil {
		return asvdb.TableCount{}, err
	}

	const tempName = "temp_asv"
	if err := s.stageRows(ctx, tx, tempName, schema, asvdb.ASVTable, columns, selected); err != nil {
		return asvdb.TableCount{}, err
	}

	tag, err := tx.Exec(ctx, buildInsertExcept(tempName, schema, asvdb.ASVTable, columns))
	if err != nil {
		return asvdb.TableCount{}, fmt.Errorf("failed to insert into %q: %w", asvdb.ASVTable, err)
	}

	count := asvdb.TableCount{
		Table:    asvdb.ASVTable,
		Inserted: tag.RowsAffected(),
		Skipped:  int64(len(selected.Rows)) - tag.RowsAffected(),
	}
	s.logTableCount(count)
	return count, nil
}

// stageRows creates a transaction-scoped temp table and COPYs the rows in.
// COPY is binary, so this is only used for all-text column sets.
func (s *ImportService) stageRows(
	ctx context.Context,
	tx pgx.Tx,
	tempName, schema, table string,
	columns []string,
	data *records.Table,
) error {
	if _, err := tx.Exec(ctx, buildTempTable(tempName, schema, table, columns)); err != nil {
		return fmt.Errorf("failed to create staging table %q: %w", tempName, err)
	}

	rows := make([][]any, len(data.Rows))
	for i, row := range data.Rows {
		rows[i] = rowArgs(row)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{tempName}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to stage rows for %q: %w", table, err)
	}
	s.logger.Verbose("Staged %d rows for %s", copied, table)

	return nil
}

// tableColumns discovers the writable columns of a target table.
func (s *ImportService) tableColumns(ctx context.Context, tx pgx.Tx, schema, table string) ([]string, error) {
	rows, err := tx.Query(ctx, queryTableColumns, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}

	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %q: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist (is the schema initialized?)", qualify(schema, table))
	}

	return columns, nil
}

func (s *ImportService) logTableCount(count asvdb.TableCount) {
	s.logger.Info("✓ %s: %d inserted, %d skipped", count.Table, count.Inserted, count.Skipped)
}

// rowArgs converts one row of TSV cells to query arguments. Empty cells
// become NULL.
func rowArgs(row []string) []any {
	args := make([]any, len(row))
	for i, cell := range row {
		args[i] = nullable(cell)
	}
	return args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
