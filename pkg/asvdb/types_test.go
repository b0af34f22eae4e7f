package asvdb_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

func TestImportConfig_Validate(t *testing.T) {
	valid := asvdb.ImportConfig{
		InputDir:         "./input",
		DatasetID:        "SMHI:BalticPicoplankton",
		ConnectionString: "postgresql://user@localhost:5432/asvdb",
	}

	tests := []struct {
		name      string
		mutate    func(*asvdb.ImportConfig)
		wantError bool
	}{
		{"valid config", func(c *asvdb.ImportConfig) {}, false},
		{"valid with encoding", func(c *asvdb.ImportConfig) { c.Encoding = asvdb.EncodingMacRoman }, false},
		{"missing input dir", func(c *asvdb.ImportConfig) { c.InputDir = "" }, true},
		{"missing dataset id", func(c *asvdb.ImportConfig) { c.DatasetID = "" }, true},
		{"missing connection string", func(c *asvdb.ImportConfig) { c.ConnectionString = "" }, true},
		{"negative timeout", func(c *asvdb.ImportConfig) { c.Timeout = -time.Second }, true},
		{"bogus encoding", func(c *asvdb.ImportConfig) { c.Encoding = "ebcdic" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, asvdb.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWipeConfig_Validate(t *testing.T) {
	cfg := asvdb.WipeConfig{
		DatabaseName:     "asvdb",
		ConnectionString: "postgresql://user@localhost:5432/asvdb",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.DatabaseName = ""
	if err := cfg.Validate(); !errors.Is(err, asvdb.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDeleteConfig_Validate(t *testing.T) {
	cfg := asvdb.DeleteConfig{
		DatasetID:        "SMHI:BalticPicoplankton",
		ConnectionString: "postgresql://user@localhost:5432/asvdb",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.DatasetID = ""
	if err := cfg.Validate(); !errors.Is(err, asvdb.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method asvdb.AuthMethod
		want   string
	}{
		{asvdb.AuthMethodStandard, "Standard"},
		{asvdb.AuthMethodAWSIAM, "AWS IAM"},
		{asvdb.AuthMethodGoogleIAM, "Google IAM"},
		{asvdb.AuthMethodAzureEntraID, "Azure Entra ID"},
		{asvdb.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestImportSummary_Totals(t *testing.T) {
	s := asvdb.ImportSummary{
		Tables: []asvdb.TableCount{
			{Table: asvdb.ASVTable, Inserted: 10, Skipped: 2},
			{Table: asvdb.OccurrenceTable, Inserted: 40, Skipped: 5},
		},
	}
	if got := s.Inserted(); got != 50 {
		t.Errorf("Inserted() = %d, want 50", got)
	}
	if got := s.Skipped(); got != 7 {
		t.Errorf("Skipped() = %d, want 7", got)
	}
}
