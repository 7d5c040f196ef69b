package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func TestKeyBy(t *testing.T) {
	tab := &Table{
		Columns: []Column{{Name: "lung"}},
		Rows: []Row{
			{TranscriptID: "ENST3", Line: 2, Tissues: []null.Float{null.FloatFrom(1)}},
			{TranscriptID: "ENST1", Line: 3, Tissues: []null.Float{{}}},
			{TranscriptID: "ENST2", Line: 4, Tissues: []null.Float{null.FloatFrom(2.5)}},
		},
	}

	if err := tab.KeyBy(); err != nil {
		t.Fatal(err)
	}
	if !tab.Keyed() {
		t.Error("Table should be keyed")
	}

	got := []string{}
	for _, row := range tab.Rows {
		got = append(got, row.TranscriptID)
	}
	if diff := cmp.Diff([]string{"ENST1", "ENST2", "ENST3"}, got); diff != "" {
		t.Errorf("Unexpected order (-want +got):\n%s", diff)
	}

	row, ok := tab.Lookup("ENST2")
	if !ok || row.Line != 4 {
		t.Errorf("Lookup returned %+v (%v)", row, ok)
	}
	if _, ok := tab.Lookup("ENST0"); ok {
		t.Error("Lookup found a missing key")
	}
}

func TestKeyByDuplicate(t *testing.T) {
	tab := &Table{
		Rows: []Row{
			{TranscriptID: "ENST1", Line: 7},
			{TranscriptID: "ENST2", Line: 3},
			{TranscriptID: "ENST1", Line: 2},
		},
	}

	err := tab.KeyBy()

	var derr *DuplicateKeyError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected *DuplicateKeyError, got %v", err)
	}
	if derr.TranscriptID != "ENST1" || derr.Lines != [2]int{2, 7} {
		t.Errorf("Unexpected duplicate %+v", derr)
	}
	if tab.Keyed() {
		t.Error("Table should not be keyed")
	}
}

func TestRecord(t *testing.T) {
	tab := &Table{Columns: []Column{{Name: "liver_tissue"}, {Name: "lung"}}}
	row := Row{
		TranscriptID:      "ENST00000373020",
		TranscriptVersion: 8,
		GeneID:            "ENSG00000000003",
		GeneVersion:       14,
		Tissues:           []null.Float{null.FloatFrom(0.25), {}},
	}

	if diff := cmp.Diff(
		[]string{"transcript_id", "transcript_version", "gene_id", "gene_version", "liver_tissue", "lung"},
		tab.Header(),
	); diff != "" {
		t.Errorf("Unexpected header (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(
		[]string{"ENST00000373020", "8", "ENSG00000000003", "14", "0.25", ""},
		row.Record(),
	); diff != "" {
		t.Errorf("Unexpected record (-want +got):\n%s", diff)
	}
}
