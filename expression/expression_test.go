package expression

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/carbocation/gtexmedian/versionid"
)

const matrix = "transcript_id\tgene_id\tS1\tS2\tS3\n" +
	"ENST00000373020.8\tENSG00000000003.14\t1.5\t2.5\t10\n" +
	"ENST00000494424.1\tENSG00000000003.14\tNA\t0\t\n"

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(matrix), '\t')
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Samples) != 3 || m.Samples[2] != "S3" {
		t.Errorf("Unexpected samples %v", m.Samples)
	}

	if len(m.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(m.Rows))
	}

	first := m.Rows[0]
	if first.Transcript != (versionid.Versioned{ID: "ENST00000373020", Version: 8}) {
		t.Errorf("Unexpected transcript %+v", first.Transcript)
	}
	if first.Gene != (versionid.Versioned{ID: "ENSG00000000003", Version: 14}) {
		t.Errorf("Unexpected gene %+v", first.Gene)
	}
	if first.Line != 2 {
		t.Errorf("Expected line 2, got %d", first.Line)
	}
	if !first.Values[2].Valid || first.Values[2].Float64 != 10 {
		t.Errorf("Unexpected value %+v", first.Values[2])
	}

	second := m.Rows[1]
	if second.Values[0].Valid || second.Values[2].Valid {
		t.Errorf("NA and empty entries should be missing: %+v", second.Values)
	}
	if !second.Values[1].Valid || second.Values[1].Float64 != 0 {
		t.Errorf("A zero entry should be present: %+v", second.Values[1])
	}
}

func TestIterate(t *testing.T) {
	m, err := Load(strings.NewReader(matrix), '\t')
	if err != nil {
		t.Fatal(err)
	}

	src := m.Iterate()
	n := 0
	for {
		_, err := src.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		n++
	}

	if n != 2 {
		t.Errorf("Iterated %d rows", n)
	}
}

func TestMalformedIdentifier(t *testing.T) {
	input := "transcript_id\tgene_id\tS1\n" +
		"ENST00000373020.8\tENSG00000000003.14\t1\n" +
		"ENST00000494424\tENSG00000000003.14\t1\n"

	_, err := Load(strings.NewReader(input), '\t')

	var rerr *RowError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected *RowError, got %v", err)
	}
	if rerr.Line != 3 || rerr.Column != "transcript_id" {
		t.Errorf("Unexpected location %+v", rerr)
	}

	var verr *versionid.Error
	if !errors.As(err, &verr) || verr.Reason != versionid.NoPeriod {
		t.Errorf("Expected a wrapped *versionid.Error, got %v", err)
	}
}

func TestMalformedGene(t *testing.T) {
	input := "transcript_id\tgene_id\tS1\n" +
		"ENST00000373020.8\tENSG00000000003.x\t1\n"

	_, err := Load(strings.NewReader(input), '\t')

	var rerr *RowError
	if !errors.As(err, &rerr) || rerr.Column != "gene_id" {
		t.Fatalf("Expected a gene_id *RowError, got %v", err)
	}
}

func TestBadEntry(t *testing.T) {
	input := "transcript_id\tgene_id\tS1\tS2\n" +
		"ENST00000373020.8\tENSG00000000003.14\t1\tabc\n"

	_, err := Load(strings.NewReader(input), '\t')

	var rerr *RowError
	if !errors.As(err, &rerr) || rerr.Column != "4" {
		t.Fatalf("Expected a *RowError at column 4, got %v", err)
	}
}

func TestShape(t *testing.T) {
	input := "transcript_id\tgene_id\tS1\tS2\n" +
		"ENST00000373020.8\tENSG00000000003.14\t1\n"

	_, err := Load(strings.NewReader(input), '\t')

	var serr *ShapeError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected *ShapeError, got %v", err)
	}
	if serr.Line != 2 || serr.Fields != 3 || serr.Want != 4 {
		t.Errorf("Unexpected shape error %+v", serr)
	}
}

func TestDuplicateSample(t *testing.T) {
	_, err := NewReader(strings.NewReader("transcript_id\tgene_id\tS1\tS1\n"), '\t')

	var derr *DuplicateSampleError
	if !errors.As(err, &derr) || derr.SampleID != "S1" {
		t.Fatalf("Expected *DuplicateSampleError, got %v", err)
	}
}

func TestEmpty(t *testing.T) {
	if _, err := NewReader(strings.NewReader(""), '\t'); err == nil {
		t.Error("Expected an error for an empty matrix")
	}
}
