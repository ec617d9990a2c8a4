package uowmock

import (
	"context"
	"errors"

	"loanbook/internal/domain/batch"
	"loanbook/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn      func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBatchTxFn func(ctx context.Context, batchID string, fn func(r uow.Repos, b *batch.ImportBatch) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBatchTx(ctx context.Context, batchID string, fn func(r uow.Repos, b *batch.ImportBatch) error) error {
	if m.WithinBatchTxFn != nil {
		return m.WithinBatchTxFn(ctx, batchID, fn)
	}
	return errUnimplemented
}
