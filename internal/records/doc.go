// Package records reads and reshapes submitted ASV data files.
//
// A submission is a directory of tab-separated files following the
// Darwin Core naming conventions:
//
//   - event.tsv: one row per sampling event, covering both the
//     sampling_event and mixs columns
//   - occurrence.tsv: one row per (event, ASV) observation, or
//     asv-table.tsv: the classic ASV-by-sample matrix, which is melted
//     into occurrence rows before further processing
//   - emof.tsv: extended Measurement-or-Fact rows per event
//   - annotation.tsv: optional taxonomic annotations per sequence
//
// Headers arrive in Darwin Core camelCase and are converted to the
// snake_case column names used by the database. The reader detects the
// file encoding (spreadsheet exports are commonly Latin-1, and files
// saved from Mac Excel need an explicit mac-roman override because they
// are indistinguishable from Latin-1 by inspection).
package records
