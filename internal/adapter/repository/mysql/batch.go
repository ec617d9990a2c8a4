package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	batchDomain "loanbook/internal/domain/batch"
)

type BatchRepository struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) *BatchRepository { return &BatchRepository{db: db} }

func (r *BatchRepository) Create(ctx context.Context, b *batchDomain.ImportBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BatchRepository) GetByBatchID(ctx context.Context, batchID string) (*batchDomain.ImportBatch, error) {
	var out batchDomain.ImportBatch
	res := r.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&out)
	return &out, res.Error
}

func (r *BatchRepository) GetByBatchIDForUpdate(ctx context.Context, batchID string) (*batchDomain.ImportBatch, error) {
	var out batchDomain.ImportBatch
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("batch_id = ?", batchID).
		First(&out)
	return &out, res.Error
}

func (r *BatchRepository) Save(ctx context.Context, b *batchDomain.ImportBatch) error {
	return r.db.WithContext(ctx).Save(b).Error
}
