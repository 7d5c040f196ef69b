// Package annotation reads GTEx sample attribute tables, such as
// GTEx_Analysis_v8_Annotations_SampleAttributesDS.txt, and resolves the tissue
// each sample came from.
package annotation

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
)

const (
	SampleIDColumn = "SAMPID"
	TissueColumn   = "SMTSD"
)

// Sample is one row of the sample attributes table. Columns other than these
// are ignored.
type Sample struct {
	SampleID         string `csv:"SAMPID"`
	TissueSiteDetail string `csv:"SMTSD"`
}

// Annotations maps sample IDs to their tissue site detail.
type Annotations struct {
	tissues map[string]string
}

// MissingColumnError is returned when the header lacks a required column.
type MissingColumnError struct {
	Column string
	Header []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sample annotations have no %s column (header: %q)", e.Column, e.Header)
}

// ConflictError is returned when a sample is annotated twice with different
// tissues.
type ConflictError struct {
	SampleID string
	Tissues  [2]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sample %s is annotated with both %q and %q", e.SampleID, e.Tissues[0], e.Tissues[1])
}

// MissingError lists matrix samples with no tissue annotation. It is only
// returned when annotations are required.
type MissingError struct {
	SampleIDs []string
}

func (e *MissingError) Error() string {
	shown := e.SampleIDs
	if len(shown) > 5 {
		shown = shown[:5]
	}

	return fmt.Sprintf("%d sample(s) have no tissue annotation, including %q", len(e.SampleIDs), shown)
}

// headerCheckingReader verifies the header before gocsv maps it onto Sample,
// since gocsv silently leaves unmatched fields empty.
type headerCheckingReader struct {
	*csv.Reader
}

func (r headerCheckingReader) ReadAll() ([][]string, error) {
	rows, err := r.Reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &MissingColumnError{Column: SampleIDColumn}
	}

	present := make(map[string]struct{}, len(rows[0]))
	for _, col := range rows[0] {
		present[col] = struct{}{}
	}
	for _, required := range []string{SampleIDColumn, TissueColumn} {
		if _, exists := present[required]; !exists {
			return nil, &MissingColumnError{Column: required, Header: rows[0]}
		}
	}

	return rows, nil
}

// Load parses a delimited sample annotation table keyed by SAMPID.
func Load(r io.Reader, delim rune) (*Annotations, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records := []*Sample{}
	if err := gocsv.UnmarshalCSV(headerCheckingReader{cr}, &records); err != nil {
		return nil, err
	}

	return FromSamples(records)
}

// FromSamples indexes samples by ID. Repeated rows are tolerated as long as
// they agree on the tissue.
func FromSamples(records []*Sample) (*Annotations, error) {
	out := &Annotations{tissues: make(map[string]string, len(records))}

	for _, record := range records {
		if record.SampleID == "" {
			continue
		}

		if prior, exists := out.tissues[record.SampleID]; exists && prior != record.TissueSiteDetail {
			return nil, &ConflictError{SampleID: record.SampleID, Tissues: [2]string{prior, record.TissueSiteDetail}}
		}
		out.tissues[record.SampleID] = record.TissueSiteDetail
	}

	return out, nil
}

// Len is the number of annotated samples.
func (a *Annotations) Len() int {
	return len(a.tissues)
}

// Tissue returns the tissue site detail for sampleID. Samples that are absent,
// or present with an empty SMTSD, report false.
func (a *Annotations) Tissue(sampleID string) (string, bool) {
	tissue, exists := a.tissues[sampleID]
	if !exists || tissue == "" {
		return "", false
	}

	return tissue, true
}

// Resolution is the outcome of looking up every sample of a matrix.
type Resolution struct {
	// Tissues holds the tissue of each sample, in matrix column order. It is
	// empty for unannotated samples.
	Tissues []string

	// Missing lists the unannotated samples.
	Missing []string
}

// Labels returns the distinct tissue labels among the annotated samples, sorted.
func (r Resolution) Labels() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tissue := range r.Tissues {
		if tissue == "" {
			continue
		}
		if _, exists := seen[tissue]; exists {
			continue
		}
		seen[tissue] = struct{}{}
		out = append(out, tissue)
	}
	sort.Strings(out)

	return out
}

// Resolve looks up the tissue of each sample. Unannotated samples are left out
// of every tissue; when required is set they instead produce a *MissingError.
func (a *Annotations) Resolve(sampleIDs []string, required bool) (Resolution, error) {
	res := Resolution{Tissues: make([]string, len(sampleIDs))}

	for i, sampleID := range sampleIDs {
		tissue, ok := a.Tissue(sampleID)
		if !ok {
			res.Missing = append(res.Missing, sampleID)
			continue
		}
		res.Tissues[i] = tissue
	}

	if required && len(res.Missing) > 0 {
		return res, &MissingError{SampleIDs: res.Missing}
	}

	return res, nil
}
