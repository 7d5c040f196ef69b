// Package expression reads GTEx transcript TPM matrices: a header naming the
// two identifier columns and then every sample, followed by one row per
// transcript.
package expression

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/gtexmedian/versionid"
	"gopkg.in/guregu/null.v3"
)

// IDColumns is the number of leading identifier columns: transcript_id and
// gene_id.
const IDColumns = 2

// MissingValues are entries that are read as missing rather than parsed.
var MissingValues = map[string]struct{}{
	"":    {},
	"NA":  {},
	"NaN": {},
	"nan": {},
}

// Row is one transcript of the matrix. Line is the 1-based line of the input
// it was read from.
type Row struct {
	Line       int
	Transcript versionid.Versioned
	Gene       versionid.Versioned
	Values     []null.Float
}

// RowError locates a problem within a row.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ShapeError reports a row whose width does not match the header.
type ShapeError struct {
	Line   int
	Fields int
	Want   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("line %d has %d fields, but the header has %d", e.Line, e.Fields, e.Want)
}

// DuplicateSampleError reports a sample named twice in the header.
type DuplicateSampleError struct {
	SampleID string
}

func (e *DuplicateSampleError) Error() string {
	return fmt.Sprintf("sample %s appears more than once in the matrix header", e.SampleID)
}

// Reader streams rows from a matrix so that the whole matrix never needs to
// be resident.
type Reader struct {
	cr      *csv.Reader
	samples []string
	line    int
}

// NewReader consumes the header of a delimited matrix.
func NewReader(r io.Reader, delim rune) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("expression matrix is empty")
	} else if err != nil {
		return nil, err
	}

	if len(header) < IDColumns {
		return nil, &ShapeError{Line: 1, Fields: len(header), Want: IDColumns}
	}

	samples := make([]string, 0, len(header)-IDColumns)
	seen := make(map[string]struct{}, len(header))
	for _, sampleID := range header[IDColumns:] {
		if _, exists := seen[sampleID]; exists {
			return nil, &DuplicateSampleError{SampleID: sampleID}
		}
		seen[sampleID] = struct{}{}
		samples = append(samples, sampleID)
	}

	return &Reader{cr: cr, samples: samples, line: 1}, nil
}

// Samples lists the sample IDs in column order.
func (r *Reader) Samples() []string {
	return r.samples
}

// Read returns the next row, or io.EOF once the matrix is exhausted.
func (r *Reader) Read() (*Row, error) {
	record, err := r.cr.Read()
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, fmt.Errorf("after line %d: %w", r.line, err)
	}

	// Blank lines are skipped by the csv reader, so ask it where we are.
	r.line, _ = r.cr.FieldPos(0)

	return ParseRow(r.line, record, len(r.samples))
}

// ParseRow converts one delimited record into a Row.
func ParseRow(line int, record []string, samples int) (*Row, error) {
	if len(record) != IDColumns+samples {
		return nil, &ShapeError{Line: line, Fields: len(record), Want: IDColumns + samples}
	}

	transcript, err := versionid.Split(record[0])
	if err != nil {
		return nil, &RowError{Line: line, Column: "transcript_id", Err: err}
	}

	gene, err := versionid.Split(record[1])
	if err != nil {
		return nil, &RowError{Line: line, Column: "gene_id", Err: err}
	}

	row := &Row{
		Line:       line,
		Transcript: transcript,
		Gene:       gene,
		Values:     make([]null.Float, samples),
	}

	for i, entry := range record[IDColumns:] {
		entry = strings.TrimSpace(entry)
		if _, missing := MissingValues[entry]; missing {
			continue
		}

		v, err := strconv.ParseFloat(entry, 64)
		if err != nil {
			return nil, &RowError{Line: line, Column: fmt.Sprintf("%d", IDColumns+i+1), Err: err}
		}
		row.Values[i] = null.FloatFrom(v)
	}

	return row, nil
}

// Matrix is a fully loaded expression matrix.
type Matrix struct {
	Samples []string
	Rows    []*Row
}

// Load reads an entire matrix into memory.
func Load(r io.Reader, delim rune) (*Matrix, error) {
	rdr, err := NewReader(r, delim)
	if err != nil {
		return nil, err
	}

	m := &Matrix{Samples: rdr.Samples()}
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		m.Rows = append(m.Rows, row)
	}

	return m, nil
}

// Source yields the rows of a matrix one at a time.
type Source interface {
	Samples() []string
	Read() (*Row, error)
}

// Iterate returns a Source over an in-memory matrix.
func (m *Matrix) Iterate() Source {
	return &matrixSource{m: m}
}

type matrixSource struct {
	m    *Matrix
	next int
}

func (s *matrixSource) Samples() []string {
	return s.m.Samples
}

func (s *matrixSource) Read() (*Row, error) {
	if s.next >= len(s.m.Rows) {
		return nil, io.EOF
	}
	s.next++

	return s.m.Rows[s.next-1], nil
}
