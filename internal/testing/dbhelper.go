// Package testing provides shared helpers for integration tests that need
// a real PostgreSQL database.
package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pragermh/mol-mod-import/internal/checksum"
	"github.com/pragermh/mol-mod-import/internal/db"
	"github.com/pragermh/mol-mod-import/internal/logging"
	"github.com/pragermh/mol-mod-import/internal/services"
	"github.com/pragermh/mol-mod-import/internal/testinfra"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: ASVDB_TEST_CONN env var > auto-started testcontainer > skip test.
// An externally supplied database must already contain the ASV schema.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("ASVDB_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("ASVDB_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// NewTestImporter creates an ImportService wired with the standard
// connector factory and a silent logger.
func NewTestImporter(t *testing.T) *services.ImportService {
	t.Helper()

	logger := logging.NewNullLogger()
	sessions := services.NewSessionManager(db.NewConnector, logger)
	return services.NewImportService(sessions, logger, checksum.New())
}

// NewTestEraser creates an EraseService with a force-approving approver.
func NewTestEraser(t *testing.T) *services.EraseService {
	t.Helper()

	logger := logging.NewNullLogger()
	sessions := services.NewSessionManager(db.NewConnector, logger)
	return services.NewEraseService(sessions, &ForceApprover{}, logger)
}

// ForceApprover is a test approver that always approves destructive requests.
type ForceApprover struct{}

// RequestApproval always returns true (auto-approves).
func (a *ForceApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	return true, nil
}

// GetTestPool creates a connection pool to the test database.
// The pool is automatically closed when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ResetDatabase empties all data tables so tests start from a clean slate.
// The container is shared across tests, so every integration test should
// call this first.
func ResetDatabase(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE dataset, asv CASCADE")
	if err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}
}

var _ asvdb.Approver = (*ForceApprover)(nil)
