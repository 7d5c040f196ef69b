// Package tissue turns GTEx tissue site detail labels (SMTSD) into column
// names and decides which labels share a column.
package tissue

import (
	"regexp"
	"strings"
)

var separatorRun = regexp.MustCompile(`[-()_ ]+`)

// FormatName normalizes a tissue label into an identifier: each run of
// hyphens, parentheses, underscores and spaces becomes a single underscore,
// trailing underscores are removed, and the result is lower-cased.
//
// "Adipose - Subcutaneous" becomes "adipose_subcutaneous". Distinct labels can
// map to the same name; see PlanColumns for how that is resolved.
func FormatName(label string) string {
	return strings.ToLower(strings.TrimRight(separatorRun.ReplaceAllString(label, "_"), "_"))
}
