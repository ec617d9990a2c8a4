package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	src := strings.Join([]string{
		"id,loan_amount,term,grade",
		"L1,1000,36 months,A",
		"L2, 2000 ,,B",
	}, "\n")

	rows, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "L1" || rows[0]["loan_amount"] != "1000" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	// values are trimmed
	if rows[1]["loan_amount"] != "2000" {
		t.Fatalf("loan_amount = %v, want trimmed", rows[1]["loan_amount"])
	}
	// empty cell becomes nil
	if rows[1]["term"] != nil {
		t.Fatalf("term = %v, want nil", rows[1]["term"])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
	if _, err := ReadCSV(strings.NewReader("id,term\n")); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("header only: err = %v, want ErrEmptyDataset", err)
	}
}

func TestReadCSV_NoIDColumn(t *testing.T) {
	src := "loan_amount,term\n1000,36\n"
	if _, err := ReadCSV(strings.NewReader(src)); !errors.Is(err, ErrNoIDColumn) {
		t.Fatalf("err = %v, want ErrNoIDColumn", err)
	}
}
