package mysql

import (
	"context"

	"gorm.io/gorm"

	"loanbook/internal/domain/batch"
	"loanbook/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Batches:    &BatchRepository{db: tx},
		Records:    &RecordRepository{db: tx},
		Violations: &ViolationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinBatchTx(ctx context.Context, batchID string, fn func(r uow.Repos, b *batch.ImportBatch) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the batch row up-front to prevent races
		b, err := r.Batches.GetByBatchIDForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		return fn(r, b)
	})
}
