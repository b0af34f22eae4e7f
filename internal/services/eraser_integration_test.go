package services_test

import (
	"context"
	"testing"

	testhelpers "github.com/pragermh/mol-mod-import/internal/testing"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

func importBoth(t *testing.T, connString string) {
	t.Helper()
	importer := testhelpers.NewTestImporter(t)
	ctx := context.Background()

	if _, err := importer.Import(ctx, asvdb.ImportConfig{
		InputDir:         submissionA(t),
		DatasetID:        "SMHI:TestA",
		ConnectionString: connString,
	}); err != nil {
		t.Fatalf("Import of first dataset failed: %v", err)
	}
	if _, err := importer.Import(ctx, asvdb.ImportConfig{
		InputDir:         submissionB(t),
		DatasetID:        "SMHI:TestB",
		ConnectionString: connString,
	}); err != nil {
		t.Fatalf("Import of second dataset failed: %v", err)
	}
}

func TestDeleteDataset_RemovesOnlyThatDataset(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.ResetDatabase(t, pool)
	importBoth(t, connString)

	eraser := testhelpers.NewTestEraser(t)
	result, err := eraser.DeleteDataset(context.Background(), asvdb.DeleteConfig{
		DatasetID:        "SMHI:TestA",
		ConnectionString: connString,
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if !result.Found {
		t.Error("Expected Found=true for an existing dataset")
	}
	// 3 occurrences + 2 emof + 2 mixs + 2 events + 1 dataset row.
	if result.RowsDeleted != 10 {
		t.Errorf("RowsDeleted = %d, want 10", result.RowsDeleted)
	}

	if got := countRows(t, connString, "dataset"); got != 1 {
		t.Errorf("dataset rows = %d, want 1 (other dataset intact)", got)
	}
	if got := countRows(t, connString, "occurrence"); got != 1 {
		t.Errorf("occurrence rows = %d, want 1", got)
	}
	// Sequences are shared and stay behind.
	if got := countRows(t, connString, "asv"); got != 2 {
		t.Errorf("asv rows = %d, want 2", got)
	}
}

func TestDeleteDataset_NotFoundIsNotAnError(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.ResetDatabase(t, pool)

	eraser := testhelpers.NewTestEraser(t)
	result, err := eraser.DeleteDataset(context.Background(), asvdb.DeleteConfig{
		DatasetID:        "SMHI:Nope",
		ConnectionString: connString,
	})
	if err != nil {
		t.Fatalf("Delete of missing dataset must not error, got %v", err)
	}
	if result.Found {
		t.Error("Expected Found=false")
	}
	if result.RowsDeleted != 0 {
		t.Errorf("RowsDeleted = %d, want 0", result.RowsDeleted)
	}
}

func TestWipe_EmptiesEverythingAndRestartsSequences(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	pool := testhelpers.GetTestPool(t, connString)
	testhelpers.ResetDatabase(t, pool)
	importBoth(t, connString)

	eraser := testhelpers.NewTestEraser(t)
	err := eraser.Wipe(context.Background(), asvdb.WipeConfig{
		DatabaseName:     "asv_test",
		ConnectionString: connString,
	})
	if err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}

	for _, table := range []string{"dataset", "sampling_event", "mixs", "emof", "asv", "occurrence", "taxon_annotation"} {
		if got := countRows(t, connString, table); got != 0 {
			t.Errorf("%s has %d rows after wipe, want 0", table, got)
		}
	}

	// Surrogate keys start over at 1.
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "INSERT INTO dataset (dataset_id) VALUES ('SMHI:Fresh')"); err != nil {
		t.Fatal(err)
	}
	var pid int
	if err := pool.QueryRow(ctx, "SELECT pid FROM dataset WHERE dataset_id = 'SMHI:Fresh'").Scan(&pid); err != nil {
		t.Fatal(err)
	}
	if pid != 1 {
		t.Errorf("pid = %d after wipe, want 1", pid)
	}
}
