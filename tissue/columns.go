package tissue

import (
	"fmt"
	"sort"
	"strings"
)

// Policy decides what happens when two raw labels format to the same name.
type Policy int

const (
	// Merge pools the samples of every label that shares a name into one
	// column.
	Merge Policy = iota
	// Reject fails the run on the first shared name.
	Reject
)

func (p Policy) String() string {
	if p == Reject {
		return "error"
	}

	return "merge"
}

// ParsePolicy accepts "merge" or "error".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "merge":
		return Merge, nil
	case "error":
		return Reject, nil
	}

	return Merge, fmt.Errorf("Unrecognized collision policy %q: must be 'merge' or 'error'", s)
}

// ReservedNames cannot be produced by a tissue label since the output table
// already uses them.
var ReservedNames = []string{"transcript_id", "transcript_version", "gene_id", "gene_version"}

// CollisionError reports raw labels that format to the same column name.
type CollisionError struct {
	Name   string
	Labels []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("tissue labels %q all format to the column name %q", e.Labels, e.Name)
}

// ColumnNameError reports a label that formats to an unusable column name.
type ColumnNameError struct {
	Label string
	Name  string
}

func (e *ColumnNameError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("tissue label %q formats to an empty column name", e.Label)
	}

	return fmt.Sprintf("tissue label %q formats to the reserved column name %q", e.Label, e.Name)
}

// Column is one output column along with every raw label feeding it.
type Column struct {
	Name   string
	Labels []string
}

// Plan maps raw tissue labels onto output columns. Columns are sorted by
// name, so the plan depends only on the set of labels, not their order.
type Plan struct {
	Columns []Column
	byLabel map[string]int
}

// PlanColumns builds the column layout for a set of raw tissue labels.
// Repeated labels are ignored.
func PlanColumns(labels []string, policy Policy) (*Plan, error) {
	reserved := make(map[string]struct{}, len(ReservedNames))
	for _, v := range ReservedNames {
		reserved[v] = struct{}{}
	}

	byName := make(map[string]map[string]struct{})
	for _, label := range labels {
		name := FormatName(label)
		if name == "" {
			return nil, &ColumnNameError{Label: label}
		}
		if _, exists := reserved[name]; exists {
			return nil, &ColumnNameError{Label: label, Name: name}
		}

		if _, exists := byName[name]; !exists {
			byName[name] = make(map[string]struct{})
		}
		byName[name][label] = struct{}{}
	}

	plan := &Plan{
		Columns: make([]Column, 0, len(byName)),
		byLabel: make(map[string]int),
	}

	for name, labelSet := range byName {
		col := Column{Name: name}
		for label := range labelSet {
			col.Labels = append(col.Labels, label)
		}
		sort.Strings(col.Labels)
		plan.Columns = append(plan.Columns, col)
	}
	sort.Slice(plan.Columns, func(i, j int) bool { return plan.Columns[i].Name < plan.Columns[j].Name })

	for i, col := range plan.Columns {
		if len(col.Labels) > 1 && policy == Reject {
			return nil, &CollisionError{Name: col.Name, Labels: col.Labels}
		}
		for _, label := range col.Labels {
			plan.byLabel[label] = i
		}
	}

	return plan, nil
}

// Column returns the index into p.Columns that label feeds.
func (p *Plan) Column(label string) (int, bool) {
	i, ok := p.byLabel[label]
	return i, ok
}

// Names lists the output column names in order.
func (p *Plan) Names() []string {
	out := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		out[i] = col.Name
	}

	return out
}

// Collisions returns the columns built from more than one raw label.
func (p *Plan) Collisions() []Column {
	var out []Column
	for _, col := range p.Columns {
		if len(col.Labels) > 1 {
			out = append(out, col)
		}
	}

	return out
}
