package profile

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDescribe(t *testing.T) {
	s := Describe("loan_amount", []float64{1, 2, 3, 4, 5}, 2)
	if s.Count != 5 || s.Missing != 2 {
		t.Fatalf("count/missing = %d/%d", s.Count, s.Missing)
	}
	if !almost(s.Mean, 3) {
		t.Fatalf("mean = %g", s.Mean)
	}
	// sample std of 1..5
	if !almost(s.Std, math.Sqrt(2.5)) {
		t.Fatalf("std = %g", s.Std)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Fatalf("min/max = %g/%g", s.Min, s.Max)
	}
	if !almost(s.Median, 3) || !almost(s.P25, 2) || !almost(s.P75, 4) {
		t.Fatalf("quartiles = %g/%g/%g", s.P25, s.Median, s.P75)
	}
	if !almost(s.Skewness, 0) {
		t.Fatalf("skewness of symmetric series = %g", s.Skewness)
	}
}

func TestDescribe_Empty(t *testing.T) {
	s := Describe("term", nil, 3)
	if s.Count != 0 || s.Missing != 3 || s.Mean != 0 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestPercentile_Interpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	if got := percentile(sorted, 0.5); !almost(got, 25) {
		t.Fatalf("median = %g, want 25", got)
	}
	if got := percentile(sorted, 0.25); !almost(got, 17.5) {
		t.Fatalf("p25 = %g, want 17.5", got)
	}
}

func TestSkewness_RightTail(t *testing.T) {
	// heavy right tail skews positive
	values := []float64{1, 1, 1, 2, 2, 3, 100}
	if got := Skewness(values); got <= 1 {
		t.Fatalf("skewness = %g, want > 1", got)
	}
	// constant series has no skew
	if got := Skewness([]float64{5, 5, 5, 5}); got != 0 {
		t.Fatalf("constant skewness = %g", got)
	}
	// too few observations
	if got := Skewness([]float64{1, 2}); got != 0 {
		t.Fatalf("n=2 skewness = %g", got)
	}
}

func TestLog1p_ClipsNegatives(t *testing.T) {
	out := Log1p([]float64{-5, 0, math.E - 1})
	if out[0] != 0 || out[1] != 0 {
		t.Fatalf("out = %v", out)
	}
	if !almost(out[2], 1) {
		t.Fatalf("log1p(e-1) = %g, want 1", out[2])
	}
}

func TestMissingTable(t *testing.T) {
	got := MissingTable(200, map[string]int{
		"a": 0,
		"b": 10,
		"c": 100,
		"d": 10,
	})
	if len(got) != 3 {
		t.Fatalf("rows = %v", got)
	}
	if got[0].Column != "c" || !almost(got[0].NullPercent, 50) {
		t.Fatalf("worst = %+v", got[0])
	}
	// ties break alphabetically
	if got[1].Column != "b" || got[2].Column != "d" {
		t.Fatalf("tie order = %v", got)
	}
}

func TestCountCategories(t *testing.T) {
	got := CountCategories([]string{"B", "A", "B", "C", "B", "A"})
	if len(got) != 3 {
		t.Fatalf("counts = %v", got)
	}
	if got[0].Value != "B" || got[0].Count != 3 {
		t.Fatalf("top = %+v", got[0])
	}
	if got[1].Value != "A" || got[2].Value != "C" {
		t.Fatalf("order = %v", got)
	}
}
