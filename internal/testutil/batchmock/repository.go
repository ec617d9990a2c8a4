package batchmock

import (
	"context"

	domain "loanbook/internal/domain/batch"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, b *domain.ImportBatch) error
	GetByBatchIDFn          func(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	GetByBatchIDForUpdateFn func(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	SaveFn                  func(ctx context.Context, b *domain.ImportBatch) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, b *domain.ImportBatch) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByBatchID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	if m.GetByBatchIDFn != nil {
		return m.GetByBatchIDFn(ctx, batchID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByBatchIDForUpdate(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	if m.GetByBatchIDForUpdateFn != nil {
		return m.GetByBatchIDForUpdateFn(ctx, batchID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, b *domain.ImportBatch) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}
