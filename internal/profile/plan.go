package profile

import (
	"math"
	"sort"
)

// Action is what the cleaning pass does with a column that has nulls.
type Action string

const (
	// ActionImputeMedian fills numeric nulls with the column median.
	ActionImputeMedian Action = "impute_median"
	// ActionImputeMode fills categorical nulls with the most frequent value.
	ActionImputeMode Action = "impute_mode"
	// ActionDropColumn marks a column too sparse to impute. Advisory:
	// the stored rows keep the column, downstream analysis should drop it.
	ActionDropColumn Action = "drop_column"
)

// PlanEntry is the decision for one column with missing values.
type PlanEntry struct {
	Column      string  `json:"column"`
	NullPercent float64 `json:"null_percent"`
	Action      Action  `json:"action"`
	// FillValue is set for the impute actions.
	FillValue any `json:"fill_value,omitempty"`
}

// ColumnData is the per-column view of a batch the planner works from.
// Numeric holds non-null observations as floats; Categorical holds
// non-null string values; Nulls counts missing cells per column.
type ColumnData struct {
	Rows        int
	Numeric     map[string][]float64
	Categorical map[string][]string
	Nulls       map[string]int
	// Integral marks numeric columns whose values must stay whole.
	Integral map[string]bool
}

// CleaningPlan decides, per column with nulls: drop when the missing
// share exceeds thresholdPercent, otherwise impute median (numeric,
// rounded for integral columns) or mode (categorical). Columns whose
// non-null values are all absent fall back to drop.
func CleaningPlan(data ColumnData, thresholdPercent float64) []PlanEntry {
	if data.Rows == 0 {
		return nil
	}
	var out []PlanEntry
	for col, n := range data.Nulls {
		if n == 0 {
			continue
		}
		pct := round2(100 * float64(n) / float64(data.Rows))
		entry := PlanEntry{Column: col, NullPercent: pct}

		switch {
		case pct > thresholdPercent:
			entry.Action = ActionDropColumn
		default:
			if values, ok := data.Numeric[col]; ok && len(values) > 0 {
				sorted := append([]float64(nil), values...)
				sort.Float64s(sorted)
				med := percentile(sorted, 0.50)
				entry.Action = ActionImputeMedian
				if data.Integral[col] {
					entry.FillValue = int(math.Round(med))
				} else {
					entry.FillValue = med
				}
			} else if values, ok := data.Categorical[col]; ok {
				if m, found := mode(values); found {
					entry.Action = ActionImputeMode
					entry.FillValue = m
				} else {
					entry.Action = ActionDropColumn
				}
			} else {
				entry.Action = ActionDropColumn
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NullPercent != out[j].NullPercent {
			return out[i].NullPercent > out[j].NullPercent
		}
		return out[i].Column < out[j].Column
	})
	return out
}
