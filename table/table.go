// Package table holds the per-tissue expression summary: one row per
// transcript, keyed by the unversioned transcript ID.
package table

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// KeyColumn is the primary key of the output.
const KeyColumn = "transcript_id"

// FixedColumns precede the tissue columns in every output format.
var FixedColumns = []string{KeyColumn, "transcript_version", "gene_id", "gene_version"}

// Column describes one tissue column.
type Column struct {
	Name    string
	Labels  []string
	Samples int
}

// Row is one transcript. Tissues aligns with Table.Columns. Line is the input
// line the row came from and is not persisted.
type Row struct {
	TranscriptID      string
	TranscriptVersion int
	GeneID            string
	GeneVersion       int
	Tissues           []null.Float
	Line              int
}

type Table struct {
	Columns []Column
	Rows    []Row
	keyed   bool
}

// DuplicateKeyError reports two input rows that share an unversioned
// transcript ID.
type DuplicateKeyError struct {
	TranscriptID string
	Lines        [2]int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("transcript %s appears on lines %d and %d", e.TranscriptID, e.Lines[0], e.Lines[1])
}

// KeyBy sorts the rows by transcript ID and verifies that the key is unique.
func (t *Table) KeyBy() error {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		if t.Rows[i].TranscriptID != t.Rows[j].TranscriptID {
			return t.Rows[i].TranscriptID < t.Rows[j].TranscriptID
		}
		return t.Rows[i].Line < t.Rows[j].Line
	})

	for i := 1; i < len(t.Rows); i++ {
		if t.Rows[i].TranscriptID == t.Rows[i-1].TranscriptID {
			return &DuplicateKeyError{
				TranscriptID: t.Rows[i].TranscriptID,
				Lines:        [2]int{t.Rows[i-1].Line, t.Rows[i].Line},
			}
		}
	}

	t.keyed = true

	return nil
}

// Keyed reports whether KeyBy has succeeded.
func (t *Table) Keyed() bool {
	return t.keyed
}

// Lookup finds a row by transcript ID. The table must be keyed.
func (t *Table) Lookup(transcriptID string) (Row, bool) {
	i := sort.Search(len(t.Rows), func(i int) bool { return t.Rows[i].TranscriptID >= transcriptID })
	if i < len(t.Rows) && t.Rows[i].TranscriptID == transcriptID {
		return t.Rows[i], true
	}

	return Row{}, false
}

// ColumnIndex returns the position of the named tissue column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col.Name == name {
			return i, true
		}
	}

	return 0, false
}

// Header lists every output column name in order.
func (t *Table) Header() []string {
	out := make([]string, 0, len(FixedColumns)+len(t.Columns))
	out = append(out, FixedColumns...)
	for _, col := range t.Columns {
		out = append(out, col.Name)
	}

	return out
}

// Record renders a row as strings aligned with Header. Null tissue values
// are empty.
func (r Row) Record() []string {
	out := make([]string, 0, len(FixedColumns)+len(r.Tissues))
	out = append(out,
		r.TranscriptID,
		strconv.Itoa(r.TranscriptVersion),
		r.GeneID,
		strconv.Itoa(r.GeneVersion),
	)
	for _, v := range r.Tissues {
		out = append(out, NullFloatFormatter(v))
	}

	return out
}

func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return ""
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}
