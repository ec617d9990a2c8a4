package record

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loanbook/internal/dataset"
	batchDomain "loanbook/internal/domain/batch"
	recordDomain "loanbook/internal/domain/record"
	"loanbook/internal/validate"
)

type Usecase struct {
	validator  *validate.Validator
	records    recordDomain.Repository
	violations recordDomain.ViolationRepository
	batches    batchDomain.Repository
}

func NewUsecase(v *validate.Validator, records recordDomain.Repository,
	violations recordDomain.ViolationRepository, batches batchDomain.Repository) *Usecase {
	return &Usecase{validator: v, records: records, violations: violations, batches: batches}
}

// ValidateResultDTO is the outcome of validating one raw mapping.
type ValidateResultDTO struct {
	Valid      bool                     `json:"valid"`
	Record     *recordDomain.LoanRecord `json:"record,omitempty"`
	Violations []validate.Violation     `json:"violations,omitempty"`
}

// ValidateOne runs the schema validator over a single raw mapping.
// Nothing is persisted; the typed record is returned only when the
// mapping is fully valid.
func (u *Usecase) ValidateOne(raw dataset.Raw) ValidateResultDTO {
	rec, violations := u.validator.Validate(raw)
	out := ValidateResultDTO{Valid: len(violations) == 0, Violations: violations}
	if out.Valid {
		out.Record = rec
	}
	return out
}

func (u *Usecase) GetRecord(ctx context.Context, recordID string) (*recordDomain.LoanRecord, error) {
	rec, err := u.records.GetByRecordID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recordDomain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ViolationPageDTO is one page of stored violations for a batch.
type ViolationPageDTO struct {
	BatchID string                   `json:"batch_id"`
	Total   int64                    `json:"total"`
	Limit   int                      `json:"limit"`
	Offset  int                      `json:"offset"`
	Items   []recordDomain.Violation `json:"items"`
}

func (u *Usecase) ListViolations(ctx context.Context, batchID string, limit, offset int) (*ViolationPageDTO, error) {
	b, err := u.batches.GetByBatchID(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchDomain.ErrNotFound
		}
		return nil, err
	}
	total, err := u.violations.CountByBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	items, err := u.violations.ListByBatch(ctx, b.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ViolationPageDTO{
		BatchID: b.BatchID, Total: total, Limit: limit, Offset: offset, Items: items,
	}, nil
}
