package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// IDPrefix is prepended to every sequence digest to form the ASV identifier.
const IDPrefix = "ASV:"

// Generator is an interface for deriving ASV identifiers from sequences.
// This abstraction allows tests to substitute deterministic identifiers.
type Generator interface {
	// Normalize returns the canonical form of a nucleotide sequence.
	Normalize(sequence string) (string, error)

	// ASVID returns the content-addressed identifier for a sequence.
	ASVID(sequence string) (string, error)
}

// MD5 implements identifier generation using the MD5 digest of the
// normalized sequence. MD5 is used for content addressing, not security;
// the algorithm is fixed by identifiers already present in downstream
// systems.
//
// MD5 is a zero-size type and is safe for concurrent use by multiple
// goroutines. Using value semantics (pass by value) eliminates heap
// allocations.
type MD5 struct{}

// New creates a new MD5 based generator.
// Returns by value to avoid heap allocation (MD5 is a zero-size type).
func New() MD5 {
	return MD5{}
}

// iupacNucleotides is the accepted sequence alphabet: the four bases,
// uracil, and the IUPAC ambiguity codes.
const iupacNucleotides = "ACGTURYSWKMBDHVN"

// Normalize strips whitespace, uppercases, and validates the sequence.
// Returns an error naming the first offending character if the sequence
// contains anything outside the IUPAC nucleotide alphabet, or if the
// sequence is empty after normalization.
func (g MD5) Normalize(sequence string) (string, error) {
	var b strings.Builder
	b.Grow(len(sequence))

	for i, r := range sequence {
		if unicode.IsSpace(r) {
			continue
		}
		upper := unicode.ToUpper(r)
		if !strings.ContainsRune(iupacNucleotides, upper) {
			return "", fmt.Errorf("invalid nucleotide %q at position %d", r, i+1)
		}
		b.WriteRune(upper)
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("empty sequence")
	}

	return b.String(), nil
}

// ASVID returns the identifier for a sequence: IDPrefix followed by
// the hex MD5 digest of the normalized sequence.
func (g MD5) ASVID(sequence string) (string, error) {
	normalized, err := g.Normalize(sequence)
	if err != nil {
		return "", err
	}

	digest := md5.Sum([]byte(normalized))
	return IDPrefix + hex.EncodeToString(digest[:]), nil
}
