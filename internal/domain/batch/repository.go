package batch

import "context"

type Repository interface {
	Create(ctx context.Context, b *ImportBatch) error
	// GetByBatchID resolves by the public 32-hex identifier.
	GetByBatchID(ctx context.Context, batchID string) (*ImportBatch, error)
	// GetByBatchIDForUpdate additionally row-locks the batch; only
	// meaningful inside a transaction.
	GetByBatchIDForUpdate(ctx context.Context, batchID string) (*ImportBatch, error)
	Save(ctx context.Context, b *ImportBatch) error
}
