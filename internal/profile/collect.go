package profile

import (
	"strconv"

	"loanbook/internal/dataset"
	"loanbook/internal/schema"
)

// CategorySummary is the value_counts view of one categorical column.
type CategorySummary struct {
	Column string          `json:"column"`
	Counts []CategoryCount `json:"counts"`
}

// SkewedColumn reports a column past the skew threshold, with the
// summary it would have after a log1p correction.
type SkewedColumn struct {
	Column   string         `json:"column"`
	Skewness float64        `json:"skewness"`
	Log1p    NumericSummary `json:"log1p"`
}

// Profile is the full statistical picture of one batch.
type Profile struct {
	Rows        int               `json:"rows"`
	Columns     int               `json:"columns"`
	Numeric     []NumericSummary  `json:"numeric"`
	Categorical []CategorySummary `json:"categorical"`
	Missing     []MissingColumn   `json:"missing"`
	Skewed      []SkewedColumn    `json:"skewed"`
}

// Collect splits raw rows into per-column series using the dictionary
// to decide which columns are numeric and which are categorical.
// Identifier and date columns only contribute to the null counts.
func Collect(dict *schema.Dictionary, rows []dataset.Raw) ColumnData {
	data := ColumnData{
		Rows:        len(rows),
		Numeric:     map[string][]float64{},
		Categorical: map[string][]string{},
		Nulls:       map[string]int{},
		Integral:    map[string]bool{},
	}
	for _, spec := range dict.Fields() {
		if spec.Kind == schema.KindInteger {
			data.Integral[spec.Name] = true
		}
	}
	for _, row := range rows {
		for _, spec := range dict.Fields() {
			val := row[spec.Name]
			if val == nil {
				data.Nulls[spec.Name]++
				continue
			}
			switch spec.Kind {
			case schema.KindCurrency, schema.KindInteger, schema.KindPercent, schema.KindRatio:
				if f, ok := toFloat(val); ok {
					data.Numeric[spec.Name] = append(data.Numeric[spec.Name], f)
				} else {
					data.Nulls[spec.Name]++
				}
			case schema.KindCategory:
				data.Categorical[spec.Name] = append(data.Categorical[spec.Name], renderString(val))
			}
		}
	}
	return data
}

// Build assembles the batch profile from collected column data,
// flagging columns with |skewness| above skewThreshold.
func Build(dict *schema.Dictionary, data ColumnData, skewThreshold float64) Profile {
	p := Profile{
		Rows:    data.Rows,
		Columns: len(dict.Fields()),
		Missing: MissingTable(data.Rows, data.Nulls),
	}
	for _, spec := range dict.Fields() {
		if values, ok := data.Numeric[spec.Name]; ok {
			sum := Describe(spec.Name, values, data.Nulls[spec.Name])
			p.Numeric = append(p.Numeric, sum)
			if abs(sum.Skewness) > skewThreshold {
				p.Skewed = append(p.Skewed, SkewedColumn{
					Column:   spec.Name,
					Skewness: sum.Skewness,
					Log1p:    Describe(spec.Name, Log1p(values), data.Nulls[spec.Name]),
				})
			}
			continue
		}
		if values, ok := data.Categorical[spec.Name]; ok {
			p.Categorical = append(p.Categorical, CategorySummary{
				Column: spec.Name,
				Counts: CountCategories(values),
			})
		}
	}
	return p
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func renderString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
