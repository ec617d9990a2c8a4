package batch

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("batch not found")
	ErrAlreadyCleaned = errors.New("batch already cleaned")
)

type Status string

const (
	// StatusReceived: rows stored, validation not finished.
	StatusReceived Status = "received"
	// StatusValidated: every row validated and persisted.
	StatusValidated Status = "validated"
	// StatusCleaned: imputation applied to the stored rows.
	StatusCleaned Status = "cleaned"
	StatusFailed  Status = "failed"
)

// ImportBatch tracks one CSV import of the loan-payments dataset.
type ImportBatch struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex).
	BatchID        string    `gorm:"type:char(32);column:batch_id;uniqueIndex:ux_batches_batch_id" json:"batch_id"`
	Name           string    `gorm:"size:255;column:name" json:"name"`
	Status         Status    `gorm:"size:16;column:status" json:"status"`
	RowCount       int       `gorm:"column:row_count" json:"rows"`
	ValidCount     int       `gorm:"column:valid_count" json:"valid"`
	InvalidCount   int       `gorm:"column:invalid_count" json:"invalid"`
	ViolationCount int       `gorm:"column:violation_count" json:"violations"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (ImportBatch) TableName() string { return "import_batches" }
