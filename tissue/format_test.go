package tissue

import "testing"

func TestFormatName(t *testing.T) {
	cases := map[string]string{
		"Adipose - Subcutaneous":                    "adipose_subcutaneous",
		"Brain (Cortex)":                            "brain_cortex",
		"Cells_EBV-transformed_lymphocytes_":        "cells_ebv_transformed_lymphocytes",
		"Brain - Nucleus accumbens (basal ganglia)": "brain_nucleus_accumbens_basal_ganglia",
		"Lung":           "lung",
		"Liver - Tissue": "liver_tissue",
		"":               "",
		" -()_":          "",
		"_Leading":       "_leading",
	}

	for input, expected := range cases {
		if got := FormatName(input); got != expected {
			t.Errorf("FormatName(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestFormatNameIdempotent(t *testing.T) {
	inputs := []string{
		"Adipose - Subcutaneous",
		"Brain (Cortex)",
		"Cells_EBV-transformed_lymphocytes_",
		"Skin - Sun Exposed (Lower leg)",
		"((__))",
		"a--b  c",
		"Whole Blood",
		"",
	}

	for _, input := range inputs {
		once := FormatName(input)
		if twice := FormatName(once); twice != once {
			t.Errorf("FormatName is not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestFormatNameAlphanumeric(t *testing.T) {
	inputs := []string{"Lung", "UTERUS", "abc123", "X9y8Z7", "a"}

	for _, input := range inputs {
		expected := ""
		for _, r := range input {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			expected += string(r)
		}

		if got := FormatName(input); got != expected {
			t.Errorf("FormatName(%q): expected %q, got %q", input, expected, got)
		}
	}
}
