package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pragermh/mol-mod-import/internal/checksum"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

func newTestImporter(connectErr error) *ImportService {
	sessions := NewSessionManager(mockConnectorFactory(connectErr), &mockLogger{})
	return NewImportService(sessions, &mockLogger{}, checksum.New())
}

// writeSubmission writes a minimal valid submission directory.
func writeSubmission(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"event.tsv": "eventIDAlias\teventDate\n" +
			"S1\t2019-05-01\n",
		"occurrence.tsv": "eventIDAlias\tdnaSequence\torganismQuantity\n" +
			"S1\tACGTACGT\t12\n",
		"emof.tsv": "eventIDAlias\tmeasurementType\tmeasurementValue\n" +
			"S1\ttemperature\t12.3\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestNewImportService_NilDeps(t *testing.T) {
	sessions := NewSessionManager(mockConnectorFactory(nil), &mockLogger{})

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil sessions", func() { NewImportService(nil, &mockLogger{}, checksum.New()) }},
		{"nil logger", func() { NewImportService(sessions, nil, checksum.New()) }},
		{"nil gen", func() { NewImportService(sessions, &mockLogger{}, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestImport_InvalidConfig(t *testing.T) {
	svc := newTestImporter(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		config asvdb.ImportConfig
	}{
		{"missing InputDir", asvdb.ImportConfig{DatasetID: "ds", ConnectionString: "postgresql://localhost/asv"}},
		{"missing DatasetID", asvdb.ImportConfig{InputDir: "/in", ConnectionString: "postgresql://localhost/asv"}},
		{"missing ConnectionString", asvdb.ImportConfig{InputDir: "/in", DatasetID: "ds"}},
		{"bad encoding", asvdb.ImportConfig{InputDir: "/in", DatasetID: "ds", ConnectionString: "postgresql://localhost/asv", Encoding: "utf-16"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, tt.config)
			if !errors.Is(err, asvdb.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestImport_MissingInputDir(t *testing.T) {
	svc := newTestImporter(nil)

	_, err := svc.Import(context.Background(), asvdb.ImportConfig{
		InputDir:         filepath.Join(t.TempDir(), "nope"),
		DatasetID:        "SMHI:Test",
		ConnectionString: "postgresql://localhost/asv",
	})
	if !errors.Is(err, asvdb.ErrInputNotFound) {
		t.Errorf("Expected ErrInputNotFound, got %v", err)
	}
}

func TestImport_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	writeSubmission(t, dir)
	// Quantity must be a positive integer.
	bad := "eventIDAlias\tdnaSequence\torganismQuantity\nS1\tACGTACGT\tlots\n"
	if err := os.WriteFile(filepath.Join(dir, "occurrence.tsv"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newTestImporter(nil)
	_, err := svc.Import(context.Background(), asvdb.ImportConfig{
		InputDir:         dir,
		DatasetID:        "SMHI:Test",
		ConnectionString: "postgresql://localhost/asv",
	})
	if !errors.Is(err, asvdb.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got %v", err)
	}
}

func TestImport_ConnectionFailure(t *testing.T) {
	dir := t.TempDir()
	writeSubmission(t, dir)

	connectErr := errors.New("connect refused by test")
	svc := newTestImporter(connectErr)

	_, err := svc.Import(context.Background(), asvdb.ImportConfig{
		InputDir:         dir,
		DatasetID:        "SMHI:Test",
		ConnectionString: "postgresql://localhost/asv",
	})
	if !errors.Is(err, connectErr) {
		t.Errorf("Expected wrapped connect error, got %v", err)
	}
}

func TestImport_ConnectorFactoryFailure(t *testing.T) {
	dir := t.TempDir()
	writeSubmission(t, dir)

	factoryErr := errors.New("no such auth method")
	sessions := NewSessionManager(func(_ *asvdb.ConnectionConfig) (asvdb.Connector, error) {
		return nil, factoryErr
	}, &mockLogger{})
	svc := NewImportService(sessions, &mockLogger{}, checksum.New())

	_, err := svc.Import(context.Background(), asvdb.ImportConfig{
		InputDir:         dir,
		DatasetID:        "SMHI:Test",
		ConnectionString: "postgresql://localhost/asv",
	})
	if !errors.Is(err, factoryErr) {
		t.Errorf("Expected wrapped factory error, got %v", err)
	}
}

func TestRowArgs_EmptyCellsBecomeNull(t *testing.T) {
	args := rowArgs([]string{"a", "", "c"})
	if args[0] != "a" || args[1] != nil || args[2] != "c" {
		t.Errorf("unexpected args: %v", args)
	}
}
