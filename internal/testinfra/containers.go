package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "asv_test"
)

// schemaSQL is the reference schema the importer targets. The importer
// discovers column lists from information_schema at run time, so tests that
// add or drop columns here exercise exactly what a production schema change
// would.
const schemaSQL = `
CREATE TABLE dataset (
    pid serial,
    dataset_id text PRIMARY KEY,
    provider_email text,
    insertion_time timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE sampling_event (
    event_id text PRIMARY KEY,
    event_id_alias text NOT NULL,
    dataset_id text NOT NULL REFERENCES dataset (dataset_id),
    event_date text,
    decimal_latitude numeric,
    decimal_longitude numeric
);

CREATE TABLE mixs (
    event_id text PRIMARY KEY REFERENCES sampling_event (event_id),
    target_gene text,
    env_medium text
);

CREATE TABLE emof (
    measurement_id text PRIMARY KEY,
    event_id text NOT NULL REFERENCES sampling_event (event_id),
    measurement_type text,
    measurement_value text,
    measurement_unit text
);

CREATE TABLE asv (
    pid serial,
    asv_id text PRIMARY KEY,
    asv_sequence text NOT NULL
);

CREATE TABLE occurrence (
    occurrence_id text PRIMARY KEY,
    event_id text NOT NULL REFERENCES sampling_event (event_id),
    asv_id text NOT NULL REFERENCES asv (asv_id),
    asv_id_alias text,
    organism_quantity integer,
    previous_identifications text
);

CREATE TABLE taxon_annotation (
    asv_id text PRIMARY KEY REFERENCES asv (asv_id),
    status text,
    date_identified text,
    reference_db text,
    annotation_algorithm text
);
`

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres starts a disposable PostgreSQL container with the ASV
// schema already loaded.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	initScript, err := writeSchemaScript()
	if err != nil {
		return nil, err
	}

	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		postgres.WithInitScripts(initScript),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

func writeSchemaScript() (string, error) {
	dir, err := os.MkdirTemp("", "asvdb-schema")
	if err != nil {
		return "", fmt.Errorf("create schema dir: %w", err)
	}

	path := filepath.Join(dir, "01-schema.sql")
	if err := os.WriteFile(path, []byte(schemaSQL), 0644); err != nil {
		return "", fmt.Errorf("write schema script: %w", err)
	}
	return path, nil
}
