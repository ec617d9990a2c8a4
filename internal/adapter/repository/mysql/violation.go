package mysql

import (
	"context"

	"gorm.io/gorm"

	recordDomain "loanbook/internal/domain/record"
)

type ViolationRepository struct{ db *gorm.DB }

func NewViolationRepository(db *gorm.DB) *ViolationRepository { return &ViolationRepository{db: db} }

func (r *ViolationRepository) BulkInsert(ctx context.Context, vs []*recordDomain.Violation) error {
	if len(vs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(vs, insertBatchSize).Error
}

func (r *ViolationRepository) ListByBatch(ctx context.Context, batchPK uint64, limit, offset int) ([]recordDomain.Violation, error) {
	var out []recordDomain.Violation
	res := r.db.WithContext(ctx).
		Where("batch_id = ?", batchPK).
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&out)
	return out, res.Error
}

func (r *ViolationRepository) DeleteByRecordPKs(ctx context.Context, batchPK uint64, recordPKs []uint64) error {
	if len(recordPKs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("batch_id = ? AND record_pk IN ?", batchPK, recordPKs).
		Delete(&recordDomain.Violation{}).Error
}

func (r *ViolationRepository) CountByBatch(ctx context.Context, batchPK uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&recordDomain.Violation{}).
		Where("batch_id = ?", batchPK).
		Count(&n)
	return n, res.Error
}
