package asvdb

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session encapsulates an open database session: the connection pool and a
// single acquired connection. The importer keeps everything on one
// connection because session-scoped temp tables (the ASV dedupe path)
// do not survive a connection switch.
//
// Thread-Safety: NOT safe for concurrent use. Each goroutine should have
// its own Session instance.
//
// Example usage:
//
//	session, err := sessions.Open(ctx, connConfig)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// NewSession creates a new Session instance.
// This is intended to be called by the session manager, not by external code.
//
// Panics if pool or conn is nil (programmer error).
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{pool: pool, conn: conn}
}

// Pool returns the connection pool for the session.
// The pool is valid until Close() is called.
func (s *Session) Pool() *pgxpool.Pool {
	return s.pool
}

// Conn returns the acquired pooled connection for the session.
// All transactional work runs on this connection.
// The connection is valid until Close() is called.
func (s *Session) Conn() *pgxpool.Conn {
	return s.conn
}

// Close releases all resources associated with the session.
// This method is idempotent and safe to call multiple times.
func (s *Session) Close() error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return nil
}
