package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
)

func TestMD5_Normalize(t *testing.T) {
	gen := New()

	tests := []struct {
		name     string
		sequence string
		want     string
		wantErr  bool
	}{
		{
			name:     "already canonical",
			sequence: "ACGTACGT",
			want:     "ACGTACGT",
		},
		{
			name:     "lowercase input",
			sequence: "acgtacgt",
			want:     "ACGTACGT",
		},
		{
			name:     "mixed case",
			sequence: "AcGtNnRy",
			want:     "ACGTNNRY",
		},
		{
			name:     "embedded whitespace from spreadsheet export",
			sequence: "ACGT ACGT\nACGT\tACGT",
			want:     "ACGTACGTACGTACGT",
		},
		{
			name:     "uracil and ambiguity codes",
			sequence: "AUGCRYSWKMBDHVN",
			want:     "AUGCRYSWKMBDHVN",
		},
		{
			name:     "empty sequence",
			sequence: "",
			wantErr:  true,
		},
		{
			name:     "whitespace only",
			sequence: "  \t\n",
			wantErr:  true,
		},
		{
			name:     "invalid character",
			sequence: "ACGTXACGT",
			wantErr:  true,
		},
		{
			name:     "gap character rejected",
			sequence: "ACGT-ACGT",
			wantErr:  true,
		},
		{
			name:     "digits rejected",
			sequence: "ACGT123",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gen.Normalize(tt.sequence)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMD5_NormalizeErrorNamesPosition(t *testing.T) {
	gen := New()

	_, err := gen.Normalize("ACGTZ")
	if err == nil {
		t.Fatal("expected error for invalid nucleotide")
	}
	if !strings.Contains(err.Error(), "'Z'") {
		t.Errorf("error should name the offending character, got: %v", err)
	}
	if !strings.Contains(err.Error(), "position 5") {
		t.Errorf("error should name the position, got: %v", err)
	}
}

func TestMD5_ASVID(t *testing.T) {
	gen := New()

	// The identifier is the digest of the NORMALIZED sequence, so all
	// formatting variants of the same sequence must share one identifier.
	variants := []string{
		"ACGTACGTACGT",
		"acgtacgtacgt",
		"ACGT ACGT ACGT",
		"acgt\nacgt\nacgt",
	}

	digest := md5.Sum([]byte("ACGTACGTACGT"))
	want := IDPrefix + hex.EncodeToString(digest[:])

	for _, v := range variants {
		got, err := gen.ASVID(v)
		if err != nil {
			t.Fatalf("ASVID(%q) error: %v", v, err)
		}
		if got != want {
			t.Errorf("ASVID(%q) = %s, want %s", v, got, want)
		}
	}
}

func TestMD5_ASVIDFormat(t *testing.T) {
	gen := New()

	id, err := gen.ASVID("ACGT")
	if err != nil {
		t.Fatalf("ASVID() error: %v", err)
	}

	if !strings.HasPrefix(id, IDPrefix) {
		t.Errorf("identifier %q missing %q prefix", id, IDPrefix)
	}

	digest := strings.TrimPrefix(id, IDPrefix)
	if len(digest) != 32 {
		t.Errorf("digest length = %d, want 32 hex characters", len(digest))
	}
	if digest != strings.ToLower(digest) {
		t.Errorf("digest %q should be lowercase hex", digest)
	}
}

func TestMD5_ASVIDDistinctSequences(t *testing.T) {
	gen := New()

	a, err := gen.ASVID("ACGTACGT")
	if err != nil {
		t.Fatal(err)
	}
	b, err := gen.ASVID("ACGTACGA")
	if err != nil {
		t.Fatal(err)
	}

	if a == b {
		t.Errorf("distinct sequences produced the same identifier: %s", a)
	}
}

func TestMD5_ASVIDInvalidSequence(t *testing.T) {
	gen := New()

	if _, err := gen.ASVID("not a sequence!"); err == nil {
		t.Error("expected error for invalid sequence")
	}
}

func BenchmarkASVID(b *testing.B) {
	gen := New()
	// Typical 16S amplicon length
	sequence := strings.Repeat("ACGT", 110)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.ASVID(sequence); err != nil {
			b.Fatal(err)
		}
	}
}
