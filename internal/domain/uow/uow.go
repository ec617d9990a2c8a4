package uow

import (
	"context"

	"loanbook/internal/domain/batch"
	"loanbook/internal/domain/record"
)

type Repos struct {
	Batches    batch.Repository
	Records    record.Repository
	Violations record.ViolationRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the batch row first, then pass it in
	WithinBatchTx(ctx context.Context, batchID string, fn func(r Repos, b *batch.ImportBatch) error) error
}
