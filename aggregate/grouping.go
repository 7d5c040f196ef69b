package aggregate

import (
	"github.com/carbocation/gtexmedian/annotation"
	"github.com/carbocation/gtexmedian/table"
	"github.com/carbocation/gtexmedian/tissue"
)

// Grouping assigns matrix columns to output tissue columns.
type Grouping struct {
	Columns []table.Column

	// Members holds, for each output column, the matrix column indices that
	// feed it.
	Members [][]int

	// Excluded counts matrix columns that feed no output column.
	Excluded int
}

// NewGrouping combines per-sample tissue labels with a column plan. Samples
// whose label is empty, or absent from the plan, are excluded.
func NewGrouping(plan *tissue.Plan, res annotation.Resolution) Grouping {
	g := Grouping{
		Columns: make([]table.Column, len(plan.Columns)),
		Members: make([][]int, len(plan.Columns)),
	}

	for i, col := range plan.Columns {
		g.Columns[i] = table.Column{Name: col.Name, Labels: col.Labels}
	}

	for sampleIdx, label := range res.Tissues {
		if label == "" {
			g.Excluded++
			continue
		}

		col, ok := plan.Column(label)
		if !ok {
			g.Excluded++
			continue
		}

		g.Members[col] = append(g.Members[col], sampleIdx)
	}

	for i := range g.Columns {
		g.Columns[i].Samples = len(g.Members[i])
	}

	return g
}
