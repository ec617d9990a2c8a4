package record

import "context"

type Repository interface {
	BulkInsert(ctx context.Context, recs []*LoanRecord) error
	// GetByRecordID resolves a record by its dataset id.
	GetByRecordID(ctx context.Context, recordID string) (*LoanRecord, error)
	ListByBatch(ctx context.Context, batchPK uint64) ([]LoanRecord, error)
	Save(ctx context.Context, r *LoanRecord) error
}

type ViolationRepository interface {
	BulkInsert(ctx context.Context, vs []*Violation) error
	ListByBatch(ctx context.Context, batchPK uint64, limit, offset int) ([]Violation, error)
	CountByBatch(ctx context.Context, batchPK uint64) (int64, error)
	// DeleteByRecordPKs drops the stored violations of the given records,
	// used when cleaning rewrites rows and their findings change.
	DeleteByRecordPKs(ctx context.Context, batchPK uint64, recordPKs []uint64) error
}
