package records

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// Canonical input file names within a submission directory.
const (
	EventFile      = "event.tsv"
	OccurrenceFile = "occurrence.tsv"
	ASVTableFile   = "asv-table.tsv"
	EmofFile       = "emof.tsv"
	AnnotationFile = "annotation.tsv"
)

// Input holds the parsed contents of one submission directory.
type Input struct {
	// Events covers both sampling_event and mixs columns.
	Events *Table

	// Occurrences is the per-(event, ASV) observation table.
	// When the submission shipped an asv-table.tsv instead, this holds
	// the melted result and FromASVTable is true.
	Occurrences  *Table
	FromASVTable bool

	// Emof holds the extended Measurement-or-Fact rows.
	Emof *Table

	// Annotations is nil unless annotation import was requested and
	// annotation.tsv exists.
	Annotations *Table
}

// ReadDir reads a submission directory into an Input.
//
// event.tsv and emof.tsv are required. For observations the reader
// prefers asv-table.tsv (melting it into occurrence form) and falls
// back to occurrence.tsv, matching how submissions are produced.
// annotation.tsv is only read when withAnnotations is set.
//
// encoding forces the input encoding for all files; when empty, each
// file's encoding is detected independently.
func ReadDir(dir, encoding string, withAnnotations bool) (*Input, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("input directory %s: %w", dir, asvdb.ErrInputNotFound)
		}
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory: %w", dir, asvdb.ErrInputNotFound)
	}

	input := &Input{}

	input.Events, err = ReadTable(filepath.Join(dir, EventFile), encoding)
	if err != nil {
		return nil, err
	}

	asvTablePath := filepath.Join(dir, ASVTableFile)
	if _, statErr := os.Stat(asvTablePath); statErr == nil {
		asvTable, err := ReadTable(asvTablePath, encoding)
		if err != nil {
			return nil, err
		}
		input.Occurrences, err = MeltASVTable(asvTable)
		if err != nil {
			return nil, err
		}
		input.FromASVTable = true
	} else {
		input.Occurrences, err = ReadTable(filepath.Join(dir, OccurrenceFile), encoding)
		if err != nil {
			return nil, err
		}
	}

	input.Emof, err = ReadTable(filepath.Join(dir, EmofFile), encoding)
	if err != nil {
		return nil, err
	}

	if withAnnotations {
		input.Annotations, err = ReadTable(filepath.Join(dir, AnnotationFile), encoding)
		if err != nil {
			return nil, err
		}
	}

	return input, nil
}

// ReadTable reads one TSV file into a Table. Headers are converted from
// Darwin Core camelCase to snake_case, and the legacy dna_sequence
// column is renamed to asv_sequence.
func ReadTable(path, encoding string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), asvdb.ErrInputNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	decoded, err := decode(raw, encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	name := filepath.Base(path)
	reader := csv.NewReader(strings.NewReader(decoded))
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: file is empty", name)
		}
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}

	table := &Table{Name: name, Columns: make([]string, len(header))}
	for i, h := range header {
		table.Columns[i] = SnakeCase(strings.TrimSpace(h))
	}
	table.Rename("dna_sequence", "asv_sequence")

	line := 1
	for {
		row, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		// Ragged rows are collected per line so one bad row does not
		// hide the rest of the file from validation.
		if errors.Is(err, csv.ErrFieldCount) {
			table.BadRows = append(table.BadRows, RowError{
				File: name,
				Line: line,
				Msg:  fmt.Sprintf("wrong number of fields (got %d, want %d)", len(row), len(table.Columns)),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, line)
	}

	return table, nil
}

// decode converts raw file bytes to UTF-8.
//
// With no forced encoding, valid UTF-8 passes through and anything else
// is treated as Latin-1, which is what spreadsheet TSV exports almost
// always are. Mac Excel exports are byte-compatible with Latin-1 but
// map high bytes differently, so mac-roman can only be selected
// explicitly.
func decode(raw []byte, encoding string) (string, error) {
	// Strip a UTF-8 BOM if present; some spreadsheet tools emit one.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	switch encoding {
	case "", asvdb.EncodingUTF8:
		if utf8.Valid(raw) {
			return string(raw), nil
		}
		if encoding == asvdb.EncodingUTF8 {
			return "", fmt.Errorf("file is not valid UTF-8")
		}
		return charmap.ISO8859_1.NewDecoder().String(string(raw))
	case asvdb.EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder().String(string(raw))
	case asvdb.EncodingMacRoman:
		return charmap.Macintosh.NewDecoder().String(string(raw))
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}
