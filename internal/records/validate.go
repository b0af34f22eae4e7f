package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pragermh/mol-mod-import/internal/checksum"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// RowError describes one malformed input row.
type RowError struct {
	// File is the input file name (e.g. "occurrence.tsv").
	File string

	// Line is the 1-based line number in the file, counting the header.
	// 0 means the error concerns the file as a whole.
	Line int

	// Msg describes what is wrong.
	Msg string
}

func (e RowError) String() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s: line %d: %s", e.File, e.Line, e.Msg)
}

// ValidationResult collects all row errors found in one submission.
type ValidationResult struct {
	Errors []RowError
}

// OK reports whether the submission passed validation.
func (r *ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns an error carrying asvdb.ErrValidationFailed and every
// collected row error, or nil if validation passed.
func (r *ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = "  " + e.String()
	}
	return fmt.Errorf("%w: %d problem(s)\n%s",
		asvdb.ErrValidationFailed, len(r.Errors), strings.Join(lines, "\n"))
}

// Validator checks a parsed submission against the input contract
// before anything touches the database.
type Validator struct {
	gen checksum.Generator

	// Strict stops at the first error instead of collecting all of them.
	Strict bool
}

// NewValidator creates a Validator using the given identifier generator
// for sequence checks.
func NewValidator(gen checksum.Generator) *Validator {
	return &Validator{gen: gen}
}

// Validate checks the submission and returns all row errors found.
// In strict mode the result holds at most one error.
func (v *Validator) Validate(input *Input) *ValidationResult {
	res := &ValidationResult{}

	for _, t := range []*Table{input.Events, input.Occurrences, input.Emof, input.Annotations} {
		if t == nil {
			continue
		}
		for _, e := range t.BadRows {
			if !v.add(res, e.File, e.Line, "%s", e.Msg) {
				return res
			}
		}
	}

	v.validateEvents(input.Events, res)
	if v.Strict && !res.OK() {
		return res
	}

	aliases := v.eventAliases(input.Events)

	v.validateOccurrences(input.Occurrences, aliases, res)
	if v.Strict && !res.OK() {
		return res
	}

	v.validateEmof(input.Emof, aliases, res)
	if v.Strict && !res.OK() {
		return res
	}

	if input.Annotations != nil {
		v.validateAnnotations(input.Annotations, res)
	}

	return res
}

func (v *Validator) add(res *ValidationResult, file string, line int, format string, args ...any) bool {
	res.Errors = append(res.Errors, RowError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)})
	return !v.Strict
}

func (v *Validator) eventAliases(events *Table) map[string]bool {
	aliases := make(map[string]bool, len(events.Rows))
	idx := events.ColumnIndex("event_id_alias")
	if idx < 0 {
		return aliases
	}
	for _, row := range events.Rows {
		aliases[row[idx]] = true
	}
	return aliases
}

func (v *Validator) validateEvents(t *Table, res *ValidationResult) {
	if !t.HasColumn("event_id_alias") {
		v.add(res, t.Name, 0, "missing column %q", "event_id_alias")
		return
	}

	idx := t.ColumnIndex("event_id_alias")
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		line := t.Line(i)
		alias := row[idx]
		if alias == "" {
			if !v.add(res, t.Name, line, "empty event_id_alias") {
				return
			}
			continue
		}
		if first, dup := seen[alias]; dup {
			if !v.add(res, t.Name, line, "duplicate event_id_alias %q (first on line %d)", alias, first) {
				return
			}
			continue
		}
		seen[alias] = line
	}
}

func (v *Validator) validateOccurrences(t *Table, aliases map[string]bool, res *ValidationResult) {
	for _, col := range []string{"event_id_alias", "asv_sequence", "organism_quantity"} {
		if !t.HasColumn(col) {
			v.add(res, t.Name, 0, "missing column %q", col)
			return
		}
	}

	aliasIdx := t.ColumnIndex("event_id_alias")
	seqIdx := t.ColumnIndex("asv_sequence")
	qtyIdx := t.ColumnIndex("organism_quantity")

	for i, row := range t.Rows {
		line := t.Line(i)

		if alias := row[aliasIdx]; !aliases[alias] {
			if !v.add(res, t.Name, line, "event_id_alias %q not present in %s", alias, EventFile) {
				return
			}
		}

		if _, err := v.gen.Normalize(row[seqIdx]); err != nil {
			if !v.add(res, t.Name, line, "asv_sequence: %v", err) {
				return
			}
		}

		qty, err := strconv.Atoi(row[qtyIdx])
		if err != nil {
			if !v.add(res, t.Name, line, "organism_quantity %q is not an integer", row[qtyIdx]) {
				return
			}
		} else if qty <= 0 {
			if !v.add(res, t.Name, line, "organism_quantity must be positive, got %d", qty) {
				return
			}
		}
	}
}

func (v *Validator) validateEmof(t *Table, aliases map[string]bool, res *ValidationResult) {
	for _, col := range []string{"event_id_alias", "measurement_type"} {
		if !t.HasColumn(col) {
			v.add(res, t.Name, 0, "missing column %q", col)
			return
		}
	}

	aliasIdx := t.ColumnIndex("event_id_alias")
	typeIdx := t.ColumnIndex("measurement_type")

	for i, row := range t.Rows {
		line := t.Line(i)

		if alias := row[aliasIdx]; !aliases[alias] {
			if !v.add(res, t.Name, line, "event_id_alias %q not present in %s", alias, EventFile) {
				return
			}
		}

		if row[typeIdx] == "" {
			if !v.add(res, t.Name, line, "empty measurement_type") {
				return
			}
		}
	}
}

func (v *Validator) validateAnnotations(t *Table, res *ValidationResult) {
	if !t.HasColumn("asv_sequence") {
		v.add(res, t.Name, 0, "missing column %q", "asv_sequence")
		return
	}

	seqIdx := t.ColumnIndex("asv_sequence")
	for i, row := range t.Rows {
		line := t.Line(i)
		if _, err := v.gen.Normalize(row[seqIdx]); err != nil {
			if !v.add(res, t.Name, line, "asv_sequence: %v", err) {
				return
			}
		}
	}
}
