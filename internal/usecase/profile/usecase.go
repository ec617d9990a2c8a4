package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"loanbook/internal/dataset"
	batchDomain "loanbook/internal/domain/batch"
	recordDomain "loanbook/internal/domain/record"
	"loanbook/internal/domain/uow"
	"loanbook/internal/profile"
	"loanbook/internal/schema"
	"loanbook/internal/validate"
)

// Cache is the subset of the redis client the usecase needs; satisfied
// by *redis.Client.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Usecase struct {
	dict      *schema.Dictionary
	validator *validate.Validator
	uow       uow.UnitOfWork
	batches   batchDomain.Repository
	records   recordDomain.Repository

	cache    Cache
	cacheTTL time.Duration

	missingThreshold float64
	skewThreshold    float64
}

type Options struct {
	CacheTTL         time.Duration
	MissingThreshold float64
	SkewThreshold    float64
}

func NewUsecase(dict *schema.Dictionary, v *validate.Validator, tx uow.UnitOfWork,
	batches batchDomain.Repository, records recordDomain.Repository,
	cache Cache, opts Options) *Usecase {
	return &Usecase{
		dict: dict, validator: v, uow: tx,
		batches: batches, records: records,
		cache: cache, cacheTTL: opts.CacheTTL,
		missingThreshold: opts.MissingThreshold,
		skewThreshold:    opts.SkewThreshold,
	}
}

// ProfileDTO is the statistical profile of one batch.
type ProfileDTO struct {
	BatchID string          `json:"batch_id"`
	Status  string          `json:"status"`
	Profile profile.Profile `json:"profile"`
}

func cacheKey(batchID string) string { return "profile:batch:" + batchID }

// BatchProfile computes (or serves from cache) the describe/missing/
// skewness profile of a stored batch. The cache is best effort: redis
// trouble is logged, never surfaced.
func (u *Usecase) BatchProfile(ctx context.Context, batchID string) (*ProfileDTO, error) {
	b, err := u.batches.GetByBatchID(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchDomain.ErrNotFound
		}
		return nil, err
	}

	key := cacheKey(b.BatchID)
	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, key).Bytes(); err == nil {
			var dto ProfileDTO
			if json.Unmarshal(raw, &dto) == nil && dto.Status == string(b.Status) {
				return &dto, nil
			}
		}
	}

	recs, err := u.records.ListByBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	rows := make([]dataset.Raw, len(recs))
	for i := range recs {
		rows[i] = recs[i].Raw()
	}
	data := profile.Collect(u.dict, rows)
	dto := &ProfileDTO{
		BatchID: b.BatchID,
		Status:  string(b.Status),
		Profile: profile.Build(u.dict, data, u.skewThreshold),
	}

	if u.cache != nil {
		if raw, err := json.Marshal(dto); err == nil {
			if err := u.cache.Set(ctx, key, raw, u.cacheTTL).Err(); err != nil {
				log.Printf("profile cache set %s: %v", key, err)
			}
		}
	}
	return dto, nil
}

// CleanResultDTO reports what the cleaning pass did to a batch.
type CleanResultDTO struct {
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
	// Plan lists the per-column decisions, sparsest column first.
	Plan []profile.PlanEntry `json:"plan"`
	// ImputedCells counts the null cells that were filled.
	ImputedCells int `json:"imputed_cells"`
	// DroppedColumns are advisory: too sparse to impute, left in place.
	DroppedColumns []string `json:"dropped_columns,omitempty"`
}

// CleanBatch computes the cleaning plan and applies its imputations to
// the stored rows, re-validating each changed record. Runs under the
// batch row lock; a batch can only be cleaned once.
func (u *Usecase) CleanBatch(ctx context.Context, batchID string) (*CleanResultDTO, error) {
	var out *CleanResultDTO

	err := u.uow.WithinBatchTx(ctx, batchID, func(r uow.Repos, b *batchDomain.ImportBatch) error {
		if b.Status == batchDomain.StatusCleaned {
			return batchDomain.ErrAlreadyCleaned
		}

		recs, err := r.Records.ListByBatch(ctx, b.ID)
		if err != nil {
			return err
		}
		rows := make([]dataset.Raw, len(recs))
		for i := range recs {
			rows[i] = recs[i].Raw()
		}
		data := profile.Collect(u.dict, rows)
		plan := profile.CleaningPlan(data, u.missingThreshold)

		fills := map[string]any{}
		var dropped []string
		for _, entry := range plan {
			switch entry.Action {
			case profile.ActionImputeMedian, profile.ActionImputeMode:
				fills[entry.Column] = entry.FillValue
			case profile.ActionDropColumn:
				dropped = append(dropped, entry.Column)
			}
		}

		imputed := 0
		valid, invalid := 0, 0
		var rewrittenPKs []uint64
		var freshViolations []*recordDomain.Violation
		for i := range recs {
			raw := rows[i]
			changed := false
			for col, fill := range fills {
				if raw[col] == nil {
					raw[col] = fill
					changed = true
					imputed++
				}
			}
			rec := &recs[i]
			if changed {
				fresh, violations := u.validator.Validate(raw)
				fresh.ID = rec.ID
				fresh.BatchID = rec.BatchID
				fresh.CreatedAt = rec.CreatedAt
				fresh.Valid = len(violations) == 0
				if err := r.Records.Save(ctx, fresh); err != nil {
					return err
				}
				rewrittenPKs = append(rewrittenPKs, fresh.ID)
				for _, v := range violations {
					freshViolations = append(freshViolations, &recordDomain.Violation{
						BatchID:  b.ID,
						RecordPK: fresh.ID,
						RecordID: fresh.RecordID,
						Field:    v.Field,
						RawValue: v.Value,
						Code:     string(v.Code),
						Message:  v.Message,
					})
				}
				rec = fresh
			}
			if rec.Valid {
				valid++
			} else {
				invalid++
			}
		}

		// Rewritten rows carry a fresh violation set; swap out the
		// stored one so listings stay in step with the counters.
		if err := r.Violations.DeleteByRecordPKs(ctx, b.ID, rewrittenPKs); err != nil {
			return err
		}
		if err := r.Violations.BulkInsert(ctx, freshViolations); err != nil {
			return err
		}
		total, err := r.Violations.CountByBatch(ctx, b.ID)
		if err != nil {
			return err
		}

		b.Status = batchDomain.StatusCleaned
		b.ValidCount = valid
		b.InvalidCount = invalid
		b.ViolationCount = int(total)
		if err := r.Batches.Save(ctx, b); err != nil {
			return err
		}

		out = &CleanResultDTO{
			BatchID:        b.BatchID,
			Status:         string(b.Status),
			Plan:           plan,
			ImputedCells:   imputed,
			DroppedColumns: dropped,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, batchDomain.ErrNotFound
		}
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.Del(ctx, cacheKey(batchID)).Err(); err != nil {
			log.Printf("profile cache del %s: %v", batchID, err)
		}
	}
	return out, nil
}
