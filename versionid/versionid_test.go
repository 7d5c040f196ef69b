package versionid

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	v, err := Split("ENST00000456328.2")
	if err != nil {
		t.Fatal(err)
	}

	if v.ID != "ENST00000456328" || v.Version != 2 {
		t.Errorf("Got %+v", v)
	}

	if v.String() != "ENST00000456328.2" {
		t.Errorf("Round trip produced %s", v)
	}
}

func TestSplitGene(t *testing.T) {
	v, err := Split("ENSG00000223972.15")
	if err != nil {
		t.Fatal(err)
	}

	if v.ID != "ENSG00000223972" || v.Version != 15 {
		t.Errorf("Got %+v", v)
	}
}

func TestSplitRejects(t *testing.T) {
	cases := map[string]Reason{
		"ENST00000456328":          NoPeriod,
		"":                         NoPeriod,
		".2":                       EmptyID,
		"ENST00000456328.":         BadVersion,
		"ENST00000456328.x":        BadVersion,
		"ENST00000456328.1.2":      BadVersion,
		"ENSG00000182378.14_PAR_Y": BadVersion,
	}

	for input, reason := range cases {
		_, err := Split(input)

		var verr *Error
		if !errors.As(err, &verr) {
			t.Errorf("%q: expected *Error, got %v", input, err)
			continue
		}

		if verr.Reason != reason {
			t.Errorf("%q: expected reason %q, got %q", input, reason, verr.Reason)
		}

		if verr.Identifier != input {
			t.Errorf("%q: error names identifier %q", input, verr.Identifier)
		}
	}
}
