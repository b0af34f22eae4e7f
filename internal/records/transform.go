package records

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pragermh/mol-mod-import/internal/checksum"
)

// TaxonomyRanks are the rank columns collapsed into
// previous_identifications, in concatenation order.
var TaxonomyRanks = []string{
	"kingdom", "phylum", "class", "order", "family",
	"genus", "specific_epithet", "infraspecific_epithet", "otu",
}

// asvTableIDColumns are the identifying columns of an asv-table.tsv;
// every other column is taken to be an event alias holding counts.
var asvTableIDColumns = []string{
	"asv_id_alias", "asv_sequence",
	"kingdom", "phylum", "class", "order", "family",
	"genus", "specific_epithet", "infraspecific_epithet", "otu",
}

// SnakeCase converts a Darwin Core camelCase header to snake_case.
// Already-snake_case input passes through unchanged.
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Insert a separator at a lower→upper boundary, and before
			// the last upper of an acronym run (e.g. DNASequence).
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MeltASVTable converts a classic ASV-by-sample matrix into occurrence
// rows (event_id_alias, organism_quantity), one per non-zero cell.
//
// The matrix identifies each ASV with alias, sequence, and taxonomy
// columns; every remaining column is an event alias whose cells hold
// read counts.
func MeltASVTable(t *Table) (*Table, error) {
	idIdx := make(map[string]int, len(asvTableIDColumns))
	for _, c := range asvTableIDColumns {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return nil, fmt.Errorf("%s: missing column %q", t.Name, c)
		}
		idIdx[c] = idx
	}

	// Event alias columns are everything not identifying the ASV.
	var eventCols []int
	for i, c := range t.Columns {
		if _, ok := idIdx[c]; !ok {
			eventCols = append(eventCols, i)
		}
	}
	if len(eventCols) == 0 {
		return nil, fmt.Errorf("%s: no event columns found", t.Name)
	}

	out := &Table{
		Name:    t.Name,
		Columns: append(append([]string{}, asvTableIDColumns...), "event_id_alias", "organism_quantity"),
		BadRows: t.BadRows,
	}

	for rowNum, row := range t.Rows {
		for _, eventIdx := range eventCols {
			cell := strings.TrimSpace(row[eventIdx])
			if cell == "" {
				continue
			}
			count, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: column %q: count %q is not an integer",
					t.Name, t.Line(rowNum), t.Columns[eventIdx], cell)
			}
			if count <= 0 {
				continue
			}

			melted := make([]string, 0, len(out.Columns))
			for _, c := range asvTableIDColumns {
				melted = append(melted, row[idIdx[c]])
			}
			melted = append(melted, t.Columns[eventIdx], strconv.Itoa(count))
			out.Rows = append(out.Rows, melted)
		}
	}

	return out, nil
}

// CollapseTaxonomy joins the rank columns with "|" into a single
// previous_identifications column and drops the rank columns.
// Missing ranks contribute empty segments so the field keeps a fixed
// shape (kingdom|phylum|...|otu).
func CollapseTaxonomy(t *Table) error {
	err := t.AddColumn("previous_identifications", func(row RowView) (string, error) {
		parts := make([]string, len(TaxonomyRanks))
		for i, rank := range TaxonomyRanks {
			parts[i] = row.Get(rank)
		}
		return strings.Join(parts, "|"), nil
	})
	if err != nil {
		return err
	}
	t.DropColumns(TaxonomyRanks...)
	return nil
}

// Prepare derives the database identifiers for a parsed submission:
//
//   - event_id = <dataset_id>:<event_id_alias> on events, occurrences,
//     and emof rows
//   - asv_id = ASV:<md5 of sequence> on occurrences and annotations
//   - occurrence_id = <event_id>:<asv_id>
//   - measurement_id = <event_id>:<measurement_type>
//
// Taxonomy ranks on the occurrence table are collapsed into
// previous_identifications first. The caller is expected to have
// validated the input; identifier derivation still fails cleanly on
// sequences that cannot be normalized.
func Prepare(input *Input, datasetID string, gen checksum.Generator) error {
	eventID := func(row RowView) (string, error) {
		return datasetID + ":" + row.Get("event_id_alias"), nil
	}

	if err := input.Events.SetColumn("dataset_id", func(RowView) (string, error) {
		return datasetID, nil
	}); err != nil {
		return err
	}
	if err := input.Events.SetColumn("event_id", eventID); err != nil {
		return err
	}

	occ := input.Occurrences
	if occ.HasColumn("kingdom") {
		if err := CollapseTaxonomy(occ); err != nil {
			return err
		}
	}
	if err := occ.SetColumn("event_id", eventID); err != nil {
		return err
	}
	if err := occ.SetColumn("asv_id", func(row RowView) (string, error) {
		return gen.ASVID(row.Get("asv_sequence"))
	}); err != nil {
		return err
	}
	if err := occ.SetColumn("occurrence_id", func(row RowView) (string, error) {
		return row.Get("event_id") + ":" + row.Get("asv_id"), nil
	}); err != nil {
		return err
	}

	emof := input.Emof
	if err := emof.SetColumn("event_id", eventID); err != nil {
		return err
	}
	if err := emof.SetColumn("measurement_id", func(row RowView) (string, error) {
		return row.Get("event_id") + ":" + row.Get("measurement_type"), nil
	}); err != nil {
		return err
	}

	if input.Annotations != nil {
		if err := input.Annotations.SetColumn("asv_id", func(row RowView) (string, error) {
			return gen.ASVID(row.Get("asv_sequence"))
		}); err != nil {
			return err
		}
		input.Annotations.DropColumns("asv_sequence")
	}

	return nil
}
