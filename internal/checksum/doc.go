// Package checksum derives content-addressed identifiers for ASV sequences.
//
// An Amplicon Sequence Variant is identified by its nucleotide sequence
// alone: the same sequence observed in two datasets is the same ASV. The
// identifier is the hex MD5 digest of the normalized sequence, prefixed
// with "ASV:". Records exchanged with the Swedish ASV portal and the
// Bioatlas carry these identifiers, so the digest algorithm is part of
// the data contract and cannot change without re-keying every record.
//
// # Normalization Strategy
//
// Normalization makes identifiers resilient to formatting differences in
// submitted files:
//  1. Strip all whitespace (spreadsheet exports wrap long sequences)
//  2. Convert to uppercase
//  3. Reject characters outside the IUPAC nucleotide alphabet
//
// # Example Usage
//
//	gen := checksum.New()
//	id, err := gen.ASVID("acgtacgt")
//	// id == "ASV:..." on success
//
// # Thread Safety
//
// MD5 is safe for concurrent use by multiple goroutines.
package checksum
