package db

import (
	"context"
	"time"
)

// TokenProvider yields short-lived credentials for cloud-hosted ASV
// databases. The token stands in for the password when the pool connects,
// so every cloud auth method reduces to the same connector path.
type TokenProvider interface {
	// GetToken returns a fresh token and its expiry. Called again by the
	// connector whenever a pooled connection is (re)established.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for verbose logs. Must not leak secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope Entra ID issues database tokens
// under for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
