package mysql

import (
	"context"

	"gorm.io/gorm"

	recordDomain "loanbook/internal/domain/record"
)

const insertBatchSize = 500

type RecordRepository struct{ db *gorm.DB }

func NewRecordRepository(db *gorm.DB) *RecordRepository { return &RecordRepository{db: db} }

func (r *RecordRepository) BulkInsert(ctx context.Context, recs []*recordDomain.LoanRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(recs, insertBatchSize).Error
}

func (r *RecordRepository) GetByRecordID(ctx context.Context, recordID string) (*recordDomain.LoanRecord, error) {
	var out recordDomain.LoanRecord
	res := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *RecordRepository) ListByBatch(ctx context.Context, batchPK uint64) ([]recordDomain.LoanRecord, error) {
	var out []recordDomain.LoanRecord
	res := r.db.WithContext(ctx).
		Where("batch_id = ?", batchPK).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *RecordRepository) Save(ctx context.Context, rec *recordDomain.LoanRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
