package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// SessionManager opens database sessions shared between import and delete.
// Responsibility: create a connector, connect, and pin a single connection
// for the lifetime of the operation.
//
// SessionManager is thread-safe for concurrent use as long as the injected
// dependencies (connectorFactory, logger) are also thread-safe.
type SessionManager struct {
	connectorFactory func(*asvdb.ConnectionConfig) (asvdb.Connector, error)
	logger           asvdb.Logger
}

// NewSessionManager creates a new SessionManager with all dependencies injected.
//
// Panics if any dependency is nil. This is intentional fail-fast behavior
// to prevent cryptic nil pointer dereferences later. Panics indicate
// programmer error (incorrect dependency injection setup).
func NewSessionManager(
	connectorFactory func(*asvdb.ConnectionConfig) (asvdb.Connector, error),
	logger asvdb.Logger,
) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SessionManager{
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

// Open connects to the target database and acquires a single connection
// for the entire session. Everything transactional runs on that one
// connection because the ASV dedupe path uses session-scoped temp tables,
// which do not survive a connection switch.
//
// The caller is responsible for closing the session: defer session.Close()
func (sm *SessionManager) Open(
	ctx context.Context,
	connConfig *asvdb.ConnectionConfig,
) (*asvdb.Session, error) {
	pool, err := sm.connectToDatabase(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return asvdb.NewSession(pool, conn), nil
}

// connectToDatabase establishes a connection pool to the target database.
func (sm *SessionManager) connectToDatabase(
	ctx context.Context,
	connConfig *asvdb.ConnectionConfig,
) (*pgxpool.Pool, error) {
	sm.logger.Verbose("Connecting to database '%s'", connConfig.Database)

	connector, err := sm.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", connConfig.Database, err)
	}

	return pool, nil
}
