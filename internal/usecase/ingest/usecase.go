package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"loanbook/internal/dataset"
	batchDomain "loanbook/internal/domain/batch"
	recordDomain "loanbook/internal/domain/record"
	"loanbook/internal/domain/uow"
	"loanbook/internal/validate"
	"loanbook/pkg/id"
)

type Usecase struct {
	validator *validate.Validator
	uow       uow.UnitOfWork
	batches   batchDomain.Repository
}

func NewUsecase(v *validate.Validator, tx uow.UnitOfWork, batches batchDomain.Repository) *Usecase {
	return &Usecase{validator: v, uow: tx, batches: batches}
}

// BatchSummaryDTO is the import outcome or current state of a batch.
type BatchSummaryDTO struct {
	BatchID    string    `json:"batch_id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Rows       int       `json:"rows"`
	Valid      int       `json:"valid"`
	Invalid    int       `json:"invalid"`
	Violations int       `json:"violations"`
	CreatedAt  time.Time `json:"created_at"`
}

func summaryOf(b *batchDomain.ImportBatch) *BatchSummaryDTO {
	return &BatchSummaryDTO{
		BatchID:    b.BatchID,
		Name:       b.Name,
		Status:     string(b.Status),
		Rows:       b.RowCount,
		Valid:      b.ValidCount,
		Invalid:    b.InvalidCount,
		Violations: b.ViolationCount,
		CreatedAt:  b.CreatedAt,
	}
}

// Import reads a CSV dump, validates every row against the dictionary,
// and persists the batch, its records (invalid rows included, flagged),
// and every violation in one transaction.
func (u *Usecase) Import(ctx context.Context, name string, src io.Reader) (*BatchSummaryDTO, error) {
	rows, err := dataset.ReadCSV(src)
	if err != nil {
		return nil, err
	}

	b := &batchDomain.ImportBatch{
		BatchID: id.NewID32(),
		Name:    name,
		Status:  batchDomain.StatusReceived,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Batches.Create(ctx, b); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}

		recs := make([]*recordDomain.LoanRecord, 0, len(rows))
		perRow := make([][]validate.Violation, 0, len(rows))
		for _, row := range rows {
			rec, violations := u.validator.Validate(row)
			rec.BatchID = b.ID
			rec.Valid = len(violations) == 0
			recs = append(recs, rec)
			perRow = append(perRow, violations)
			if rec.Valid {
				b.ValidCount++
			} else {
				b.InvalidCount++
			}
		}
		if err := r.Records.BulkInsert(ctx, recs); err != nil {
			return fmt.Errorf("insert records: %w", err)
		}

		// Record PKs are backfilled by the insert above.
		var stored []*recordDomain.Violation
		for i, rec := range recs {
			for _, v := range perRow[i] {
				stored = append(stored, &recordDomain.Violation{
					BatchID:  b.ID,
					RecordPK: rec.ID,
					RecordID: rec.RecordID,
					Field:    v.Field,
					RawValue: v.Value,
					Code:     string(v.Code),
					Message:  v.Message,
				})
			}
		}
		if err := r.Violations.BulkInsert(ctx, stored); err != nil {
			return fmt.Errorf("insert violations: %w", err)
		}

		b.RowCount = len(rows)
		b.ViolationCount = len(stored)
		b.Status = batchDomain.StatusValidated
		return r.Batches.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return summaryOf(b), nil
}

func (u *Usecase) GetBatch(ctx context.Context, batchID string) (*BatchSummaryDTO, error) {
	b, err := u.batches.GetByBatchID(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchDomain.ErrNotFound
		}
		return nil, err
	}
	return summaryOf(b), nil
}
