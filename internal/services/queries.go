package services

import (
	"fmt"
	"strings"
)

// SQL used by the import and delete pipelines. Schema and table names are
// interpolated as quoted identifiers; every value goes through a placeholder.

const (
	// queryTableColumns lists the writable columns of a table in ordinal
	// order. Serial columns (surrogate pid keys) are excluded so the
	// importer only requires columns the submitter actually provides.
	queryTableColumns = `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		  AND (column_default IS NULL OR column_default NOT LIKE 'nextval%')
		ORDER BY ordinal_position`

	// querySchemaSequences lists the sequences of a schema. The wipe
	// operation restarts them so surrogate keys begin at 1 again.
	querySchemaSequences = `
		SELECT sequence_name
		FROM information_schema.sequences
		WHERE sequence_schema = $1`
)

// quoteIdent quotes a PostgreSQL identifier, doubling any embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// qualify returns a schema-qualified, quoted table reference.
func qualify(schema, table string) string {
	return quoteIdent(schema) + "." + quoteIdent(table)
}

// quoteColumns quotes each column name and joins them with commas.
func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

// buildInsert returns an INSERT statement with positional placeholders for
// the given columns. When conflictTarget is non-empty an
// ON CONFLICT (...) DO NOTHING clause is appended, which is what makes
// re-importing the same dataset skip rows instead of aborting.
func buildInsert(schema, table string, columns []string, conflictTarget string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualify(schema, table), quoteColumns(columns), strings.Join(placeholders, ", "))
	if conflictTarget != "" {
		stmt += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", quoteIdent(conflictTarget))
	}
	return stmt
}

// buildDatasetUpsert returns the dataset upsert. insertion_time defaults
// database-side on first insert; a re-import refreshes it along with the
// provider contact so the row reflects the latest load.
func buildDatasetUpsert(schema string) string {
	return fmt.Sprintf(`INSERT INTO %s (dataset_id, provider_email) VALUES ($1, $2)
		ON CONFLICT (dataset_id) DO UPDATE SET provider_email = EXCLUDED.provider_email, insertion_time = now()`,
		qualify(schema, "dataset"))
}

// buildTempTable returns DDL for a session-scoped staging table with the
// same column shape as the source table. ON COMMIT DROP ties the table to
// the surrounding import transaction.
func buildTempTable(tempName, schema, table string, columns []string) string {
	return fmt.Sprintf("CREATE TEMPORARY TABLE %s ON COMMIT DROP AS SELECT %s FROM %s WHERE false",
		quoteIdent(tempName), quoteColumns(columns), qualify(schema, table))
}

// buildInsertExcept moves staged rows into the target table, skipping rows
// whose full column tuple already exists. Used for the shared ASV table,
// where the same sequence may arrive from any number of datasets.
func buildInsertExcept(tempName, schema, table string, columns []string) string {
	cols := quoteColumns(columns)
	return fmt.Sprintf("INSERT INTO %s (%s) (SELECT %s FROM %s EXCEPT SELECT %s FROM %s)",
		qualify(schema, table), cols, cols, quoteIdent(tempName), cols, qualify(schema, table))
}

// buildDatasetExists returns the existence probe used by delete.
func buildDatasetExists(schema string) string {
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE dataset_id = $1)",
		qualify(schema, "dataset"))
}

// buildDeleteByEvent returns a DELETE for tables keyed by event_id
// (occurrence, emof, mixs), scoped to one dataset via its sampling events.
func buildDeleteByEvent(schema, table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE event_id IN (SELECT event_id FROM %s WHERE dataset_id = $1)",
		qualify(schema, table), qualify(schema, "sampling_event"))
}

// buildDeleteByDataset returns a DELETE for tables keyed directly by
// dataset_id (sampling_event, dataset).
func buildDeleteByDataset(schema, table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE dataset_id = $1", qualify(schema, table))
}

// buildTruncate empties the two root tables. CASCADE follows the foreign
// keys down through sampling_event, mixs, emof, occurrence and
// taxon_annotation.
func buildTruncate(schema string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s, %s CASCADE",
		qualify(schema, "dataset"), qualify(schema, "asv"))
}

// buildSequenceRestart resets one sequence after a wipe.
func buildSequenceRestart(schema, sequence string) string {
	return fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", qualify(schema, sequence))
}
