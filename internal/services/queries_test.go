package services

import (
	"strings"
	"testing"
)

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"occurrence", `"occurrence"`},
		{"weird name", `"weird name"`},
		{`with"quote`, `"with""quote"`},
	}

	for _, tt := range tests {
		if got := quoteIdent(tt.in); got != tt.want {
			t.Errorf("quoteIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBuildInsert(t *testing.T) {
	got := buildInsert("public", "sampling_event", []string{"event_id", "dataset_id"}, "event_id")
	want := `INSERT INTO "public"."sampling_event" ("event_id", "dataset_id") VALUES ($1, $2) ON CONFLICT ("event_id") DO NOTHING`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildInsert_NoConflictTarget(t *testing.T) {
	got := buildInsert("public", "mixs", []string{"event_id"}, "")
	if strings.Contains(got, "ON CONFLICT") {
		t.Errorf("unexpected conflict clause: %s", got)
	}
}

func TestBuildDatasetUpsert(t *testing.T) {
	got := buildDatasetUpsert("public")
	if !strings.Contains(got, "ON CONFLICT (dataset_id) DO UPDATE") {
		t.Errorf("upsert must refresh provider contact on re-import: %s", got)
	}
	if !strings.Contains(got, "insertion_time = now()") {
		t.Errorf("re-import must refresh insertion_time: %s", got)
	}
}

func TestBuildTempTable(t *testing.T) {
	got := buildTempTable("temp_asv", "public", "asv", []string{"asv_id", "asv_sequence"})
	want := `CREATE TEMPORARY TABLE "temp_asv" ON COMMIT DROP AS SELECT "asv_id", "asv_sequence" FROM "public"."asv" WHERE false`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildInsertExcept(t *testing.T) {
	got := buildInsertExcept("temp_asv", "public", "asv", []string{"asv_id", "asv_sequence"})
	want := `INSERT INTO "public"."asv" ("asv_id", "asv_sequence") (SELECT "asv_id", "asv_sequence" FROM "temp_asv" EXCEPT SELECT "asv_id", "asv_sequence" FROM "public"."asv")`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildDeleteByEvent(t *testing.T) {
	got := buildDeleteByEvent("public", "occurrence")
	want := `DELETE FROM "public"."occurrence" WHERE event_id IN (SELECT event_id FROM "public"."sampling_event" WHERE dataset_id = $1)`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildTruncate(t *testing.T) {
	got := buildTruncate("public")
	want := `TRUNCATE TABLE "public"."dataset", "public"."asv" CASCADE`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildSequenceRestart(t *testing.T) {
	got := buildSequenceRestart("public", "asv_pid_seq")
	want := `ALTER SEQUENCE "public"."asv_pid_seq" RESTART WITH 1`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
