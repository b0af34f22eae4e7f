package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockApprover struct {
	approved bool
	err      error

	requestedDB string
}

func (m *mockApprover) RequestApproval(_ context.Context, dbName string) (bool, error) {
	m.requestedDB = dbName
	return m.approved, m.err
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

func mockConnectorFactory(err error) func(*asvdb.ConnectionConfig) (asvdb.Connector, error) {
	return func(_ *asvdb.ConnectionConfig) (asvdb.Connector, error) {
		return &mockConnector{err: err}, nil
	}
}
