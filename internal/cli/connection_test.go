package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/pragermh/mol-mod-import/internal/config"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// clearConnectionEnv blanks every environment variable the resolver reads,
// so tests see only what they set themselves.
func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"DATABASE_URL", "ASVDB_CONNECTION_STRING",
		"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AWS_REGION",
	} {
		t.Setenv(key, "")
	}
}

func TestConnectionStringFromEnv_Precedence(t *testing.T) {
	clearConnectionEnv(t)

	if got := connectionStringFromEnv(); got != "" {
		t.Errorf("empty env should yield empty string, got %q", got)
	}

	t.Setenv("DATABASE_URL", "postgresql://u@h/db1")
	if got := connectionStringFromEnv(); got != "postgresql://u@h/db1" {
		t.Errorf("DATABASE_URL fallback = %q", got)
	}

	t.Setenv("ASVDB_CONNECTION_STRING", "postgresql://u@h/db2")
	if got := connectionStringFromEnv(); got != "postgresql://u@h/db2" {
		t.Errorf("ASVDB_CONNECTION_STRING should win, got %q", got)
	}
}

func TestHasEnvConnectionSource(t *testing.T) {
	clearConnectionEnv(t)

	if hasEnvConnectionSource() {
		t.Error("empty env should not count as a connection source")
	}

	t.Setenv("PGHOST", "localhost")
	if hasEnvConnectionSource() {
		t.Error("PGHOST alone should not count as a connection source")
	}

	t.Setenv("PGDATABASE", "asv_db")
	if !hasEnvConnectionSource() {
		t.Error("PGHOST + PGDATABASE should count as a connection source")
	}
}

func TestResolveConnectionFromFlags_ConflictingFlags(t *testing.T) {
	clearConnectionEnv(t)

	_, err := resolveConnectionFromFlags(connectionFlags{
		connection: "postgresql://user@localhost/asv_db",
		host:       "otherhost",
	}, nil, false)

	if err == nil {
		t.Fatal("expected error for --connection combined with --host")
	}
	if !strings.Contains(err.Error(), "cannot specify both") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveConnectionFromFlags_Defaults(t *testing.T) {
	clearConnectionEnv(t)

	conn, err := resolveConnectionFromFlags(connectionFlags{database: "asv_db"}, nil, false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	cfg := conn.ConnConfig
	if cfg.Host != "localhost" {
		t.Errorf("host = %q, want localhost", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("port = %d, want 5432", cfg.Port)
	}
	if cfg.Database != "asv_db" {
		t.Errorf("database = %q, want asv_db", cfg.Database)
	}
	if cfg.SSLMode != "prefer" {
		t.Errorf("sslmode = %q, want prefer", cfg.SSLMode)
	}
	if conn.ConnStr == "" {
		t.Error("connection string should be built")
	}
}

func TestResolveConnectionFromFlags_DatabaseFlagOverridesConnString(t *testing.T) {
	clearConnectionEnv(t)

	conn, err := resolveConnectionFromFlags(connectionFlags{
		connection: "postgresql://user@localhost:5432/postgres",
		database:   "asv_db",
	}, nil, false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if conn.ConnConfig.Database != "asv_db" {
		t.Errorf("database = %q, -d flag should override connection string", conn.ConnConfig.Database)
	}
}

func TestResolveConnectionFromFlags_ProjectConfigFallback(t *testing.T) {
	clearConnectionEnv(t)

	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:     "db.example.org",
			Port:     5433,
			Username: "asv",
			Database: "asv_prod",
			SSLMode:  "require",
		},
	}

	conn, err := resolveConnectionFromFlags(connectionFlags{}, projectCfg, false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	cfg := conn.ConnConfig
	if cfg.Host != "db.example.org" || cfg.Port != 5433 || cfg.Database != "asv_prod" {
		t.Errorf("project config not applied: %+v", cfg)
	}
	if cfg.SSLMode != "require" {
		t.Errorf("sslmode = %q, want require", cfg.SSLMode)
	}
}

func TestResolveConnectionFromFlags_AzureFromProjectConfig(t *testing.T) {
	clearConnectionEnv(t)

	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:       "srv.postgres.database.azure.com",
			Database:   "asv_db",
			AuthMethod: "azure",
		},
	}

	conn, err := resolveConnectionFromFlags(connectionFlags{}, projectCfg, false)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if conn.ConnConfig.AuthMethod != asvdb.AuthMethodAzureEntraID {
		t.Errorf("auth method = %v, want Azure Entra ID", conn.ConnConfig.AuthMethod)
	}
}

func TestRequireDatabase(t *testing.T) {
	conn := &resolvedConnection{ConnConfig: &asvdb.ConnectionConfig{Database: "asv_db"}}
	if err := requireDatabase(conn, "import"); err != nil {
		t.Errorf("unexpected error with database set: %v", err)
	}

	conn = &resolvedConnection{ConnConfig: &asvdb.ConnectionConfig{}}
	err := requireDatabase(conn, "import")
	if err == nil {
		t.Fatal("expected error without database")
	}
	if !errors.Is(err, asvdb.ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig: %v", err)
	}
}

func TestResolveEffectiveTimeout(t *testing.T) {
	cmd := &cobra.Command{}
	var flagTimeout time.Duration
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 3*time.Minute, "")

	// No project config: flag default wins
	got, err := resolveEffectiveTimeout(cmd, nil, 3*time.Minute)
	if err != nil || got != 3*time.Minute {
		t.Errorf("got %v, %v; want 3m, nil", got, err)
	}

	// Project config wins when flag unchanged
	projectCfg := &config.ProjectConfig{Timeout: "10m"}
	got, err = resolveEffectiveTimeout(cmd, projectCfg, 3*time.Minute)
	if err != nil || got != 10*time.Minute {
		t.Errorf("got %v, %v; want 10m, nil", got, err)
	}

	// Explicit flag wins over project config
	if err := cmd.Flags().Set("timeout", "1m"); err != nil {
		t.Fatal(err)
	}
	got, err = resolveEffectiveTimeout(cmd, projectCfg, time.Minute)
	if err != nil || got != time.Minute {
		t.Errorf("got %v, %v; want 1m, nil", got, err)
	}

	// Invalid duration in asvdb.yaml
	projectCfg = &config.ProjectConfig{Timeout: "not-a-duration"}
	cmd2 := &cobra.Command{}
	cmd2.Flags().Duration("timeout", 3*time.Minute, "")
	if _, err := resolveEffectiveTimeout(cmd2, projectCfg, 3*time.Minute); err == nil {
		t.Error("expected error for invalid timeout string")
	}
}
