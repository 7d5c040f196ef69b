package aggregate

import "testing"

func TestExactMedian(t *testing.T) {
	cases := []struct {
		values   []float64
		expected float64
	}{
		{[]float64{4}, 4},
		{[]float64{3, 1}, 2},
		{[]float64{5, 1, 3}, 3},
		{[]float64{10, 1, 2, 3}, 2.5},
	}

	for _, c := range cases {
		if got := (Exact{}).Median(c.values); got != c.expected {
			t.Errorf("Exact median of %v: expected %v, got %v", c.values, c.expected, got)
		}
	}
}

func TestEmpiricalMedian(t *testing.T) {
	cases := []struct {
		values   []float64
		expected float64
	}{
		{[]float64{4}, 4},
		{[]float64{3, 1}, 1},
		{[]float64{5, 1, 3}, 3},
		{[]float64{10, 1, 2, 3}, 2},
	}

	for _, c := range cases {
		if got := (Empirical{}).Median(c.values); got != c.expected {
			t.Errorf("Empirical median of %v: expected %v, got %v", c.values, c.expected, got)
		}
	}
}

func TestMedianDoesNotReorder(t *testing.T) {
	values := []float64{3, 1, 2}
	for _, est := range []Estimator{Exact{}, Empirical{}} {
		est.Median(values)
		if values[0] != 3 || values[1] != 1 || values[2] != 2 {
			t.Errorf("%s reordered its input: %v", est.Name(), values)
		}
	}
}

func TestParseEstimator(t *testing.T) {
	for _, name := range []string{"exact", "empirical"} {
		est, err := ParseEstimator(name)
		if err != nil {
			t.Fatal(err)
		}
		if est.Name() != name {
			t.Errorf("Expected %s, got %s", name, est.Name())
		}
	}

	if _, err := ParseEstimator("approx"); err == nil {
		t.Error("Expected an error for an unknown estimator")
	}
}
