package dots

import "strings"

// Category is a count column and the label its points carry.
type Category struct {
	Column string
	Label  string
}

// DeriveLabel shortens a column header to the part after the last cutoff,
// trimmed: "Total Ancestry: German" with cutoff ":" gives "German". An
// empty cutoff only trims.
func DeriveLabel(column, cutoff string) string {
	if cutoff == "" {
		return strings.TrimSpace(column)
	}
	if i := strings.LastIndex(column, cutoff); i >= 0 {
		column = column[i+len(cutoff):]
	}
	return strings.TrimSpace(column)
}

// Categories builds the category list for columns. Labels present in labels
// win; the rest are derived with [DeriveLabel].
func Categories(columns []string, labels map[string]string, cutoff string) []Category {
	out := make([]Category, 0, len(columns))
	for _, col := range columns {
		label, ok := labels[col]
		if !ok {
			label = DeriveLabel(col, cutoff)
		}
		out = append(out, Category{Column: col, Label: label})
	}
	return out
}
