package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Estimator computes the median of a non-empty set of values. Implementations
// must not retain or reorder values.
type Estimator interface {
	Median(values []float64) float64
	Name() string
}

// Exact is the textbook median: the middle value, or the mean of the two
// middle values for an even count.
type Exact struct{}

func (Exact) Name() string { return "exact" }

func (Exact) Median(values []float64) float64 {
	// stats.Median sorts a copy and only fails on empty input.
	m, _ := stats.Median(values)
	return m
}

// Empirical is the lower median from the empirical distribution. It always
// returns one of the observed values, which is how sketch-based approximate
// medians behave on small groups.
type Empirical struct{}

func (Empirical) Name() string { return "empirical" }

func (Empirical) Median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// ParseEstimator accepts "exact" or "empirical".
func ParseEstimator(name string) (Estimator, error) {
	switch strings.ToLower(name) {
	case "exact":
		return Exact{}, nil
	case "empirical":
		return Empirical{}, nil
	}

	return nil, fmt.Errorf("Unrecognized median estimator %q: must be 'exact' or 'empirical'", name)
}
