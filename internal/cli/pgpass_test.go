package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

func TestEscapePgpass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with:colon", `with\:colon`},
		{`back\slash`, `back\\slash`},
		{`both:\`, `both\:\\`},
	}
	for _, tt := range tests {
		if got := escapePgpass(tt.in); got != tt.want {
			t.Errorf("escapePgpass(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPgpassPath_CustomFile(t *testing.T) {
	t.Setenv("PGPASSFILE", "/custom/pgpass")
	if got := pgpassPath(); got != "/custom/pgpass" {
		t.Errorf("pgpassPath() = %q, want /custom/pgpass", got)
	}
}

func TestWritePgpassEntry_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pgpass")
	t.Setenv("PGPASSFILE", path)

	cfg := &asvdb.ConnectionConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "asv_db",
		Username: "asv",
		Password: "secret",
	}

	if err := writePgpassEntry(cfg); err != nil {
		t.Fatalf("writePgpassEntry failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "localhost:5432:asv_db:asv:secret") {
		t.Errorf("entry missing from .pgpass: %q", string(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}

	// Same host/port/db/user with a new password replaces the line
	cfg.Password = "rotated"
	if err := writePgpassEntry(cfg); err != nil {
		t.Fatalf("second writePgpassEntry failed: %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "secret") {
		t.Error("old password should be replaced")
	}
	if strings.Count(content, "localhost:5432:asv_db:asv:") != 1 {
		t.Errorf("entry should appear exactly once:\n%s", content)
	}
}
