package profile

import (
	"math"
	"sort"
)

// NumericSummary is the describe() row for one numeric column.
type NumericSummary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	P25      float64 `json:"p25"`
	Median   float64 `json:"median"`
	P75      float64 `json:"p75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
}

// Describe summarizes one numeric series. values holds only the
// non-null observations.
func Describe(column string, values []float64, missing int) NumericSummary {
	s := NumericSummary{Column: column, Count: len(values), Missing: missing}
	if len(values) == 0 {
		return s
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = mean(values)
	s.Std = std(values, s.Mean)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P25 = percentile(sorted, 0.25)
	s.Median = percentile(sorted, 0.50)
	s.P75 = percentile(sorted, 0.75)
	s.Skewness = Skewness(values)
	return s
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// std is the sample standard deviation (n-1 denominator).
func std(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// percentile interpolates linearly on an already sorted series.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Skewness is the adjusted Fisher-Pearson coefficient, matching what
// the usual dataframe tooling reports. Returns 0 below 3 observations
// or for a constant series.
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	m := mean(values)
	var m2, m3 float64
	for _, v := range values {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Log1p transforms a series with log(1+x), clipping negatives at zero
// first. Used to report what a skewed column would look like after the
// standard correction.
func Log1p(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		out[i] = math.Log1p(v)
	}
	return out
}

// MissingColumn is one row of the missing-value table.
type MissingColumn struct {
	Column      string  `json:"column"`
	NullCount   int     `json:"null_count"`
	NullPercent float64 `json:"null_percent"`
}

// MissingTable lists columns that have nulls, worst first.
func MissingTable(rows int, nulls map[string]int) []MissingColumn {
	if rows == 0 {
		return nil
	}
	out := make([]MissingColumn, 0, len(nulls))
	for col, n := range nulls {
		if n == 0 {
			continue
		}
		pct := 100 * float64(n) / float64(rows)
		out = append(out, MissingColumn{Column: col, NullCount: n, NullPercent: round2(pct)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NullPercent != out[j].NullPercent {
			return out[i].NullPercent > out[j].NullPercent
		}
		return out[i].Column < out[j].Column
	})
	return out
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// CategoryCount is one distinct value of a categorical column.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountCategories tallies distinct values, most frequent first; ties
// break alphabetically so output is stable.
func CountCategories(values []string) []CategoryCount {
	tally := map[string]int{}
	for _, v := range values {
		tally[v]++
	}
	out := make([]CategoryCount, 0, len(tally))
	for v, n := range tally {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// mode returns the most frequent value, ties broken alphabetically.
func mode(values []string) (string, bool) {
	counts := CountCategories(values)
	if len(counts) == 0 {
		return "", false
	}
	return counts[0].Value, true
}
