package recordmock

import (
	"context"

	domain "loanbook/internal/domain/record"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; unfilled getters fail.
type Repo struct {
	BulkInsertFn    func(ctx context.Context, recs []*domain.LoanRecord) error
	GetByRecordIDFn func(ctx context.Context, recordID string) (*domain.LoanRecord, error)
	ListByBatchFn   func(ctx context.Context, batchPK uint64) ([]domain.LoanRecord, error)
	SaveFn          func(ctx context.Context, r *domain.LoanRecord) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) BulkInsert(ctx context.Context, recs []*domain.LoanRecord) error {
	if m.BulkInsertFn != nil {
		return m.BulkInsertFn(ctx, recs)
	}
	return nil
}

func (m *Repo) GetByRecordID(ctx context.Context, recordID string) (*domain.LoanRecord, error) {
	if m.GetByRecordIDFn != nil {
		return m.GetByRecordIDFn(ctx, recordID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBatch(ctx context.Context, batchPK uint64) ([]domain.LoanRecord, error) {
	if m.ListByBatchFn != nil {
		return m.ListByBatchFn(ctx, batchPK)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, r *domain.LoanRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

// ViolationRepo mocks domain.ViolationRepository the same way.
type ViolationRepo struct {
	BulkInsertFn        func(ctx context.Context, vs []*domain.Violation) error
	ListByBatchFn       func(ctx context.Context, batchPK uint64, limit, offset int) ([]domain.Violation, error)
	CountByBatchFn      func(ctx context.Context, batchPK uint64) (int64, error)
	DeleteByRecordPKsFn func(ctx context.Context, batchPK uint64, recordPKs []uint64) error
}

var _ domain.ViolationRepository = (*ViolationRepo)(nil)

func (m *ViolationRepo) BulkInsert(ctx context.Context, vs []*domain.Violation) error {
	if m.BulkInsertFn != nil {
		return m.BulkInsertFn(ctx, vs)
	}
	return nil
}

func (m *ViolationRepo) ListByBatch(ctx context.Context, batchPK uint64, limit, offset int) ([]domain.Violation, error) {
	if m.ListByBatchFn != nil {
		return m.ListByBatchFn(ctx, batchPK, limit, offset)
	}
	return nil, context.Canceled
}

func (m *ViolationRepo) CountByBatch(ctx context.Context, batchPK uint64) (int64, error) {
	if m.CountByBatchFn != nil {
		return m.CountByBatchFn(ctx, batchPK)
	}
	return 0, context.Canceled
}

func (m *ViolationRepo) DeleteByRecordPKs(ctx context.Context, batchPK uint64, recordPKs []uint64) error {
	if m.DeleteByRecordPKsFn != nil {
		return m.DeleteByRecordPKsFn(ctx, batchPK, recordPKs)
	}
	return nil
}
