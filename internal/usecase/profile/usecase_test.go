package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loanbook/internal/dataset"
	batchDomain "loanbook/internal/domain/batch"
	recordDomain "loanbook/internal/domain/record"
	"loanbook/internal/domain/uow"
	"loanbook/internal/profile"
	"loanbook/internal/schema"
	"loanbook/internal/testutil/batchmock"
	"loanbook/internal/testutil/recordmock"
	"loanbook/internal/testutil/uowmock"
	"loanbook/internal/validate"
)

const testBatchID = "aabbccddaabbccddaabbccddaabbccdd"

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// storedRecords builds typed rows through the validator so they carry
// the same shapes the import path persists.
func storedRecords(t *testing.T, raws []dataset.Raw) []recordDomain.LoanRecord {
	t.Helper()
	v := validate.New(schema.Default())
	out := make([]recordDomain.LoanRecord, 0, len(raws))
	for i, raw := range raws {
		rec, violations := v.Validate(raw)
		rec.ID = uint64(i + 1)
		rec.BatchID = 9
		rec.Valid = len(violations) == 0
		out = append(out, *rec)
	}
	return out
}

func TestBatchProfile_ComputesAndCaches(t *testing.T) {
	mr, rdb := newTestCache(t)

	recs := storedRecords(t, []dataset.Raw{
		{"id": "L1", "loan_amount": "1000", "grade": "A"},
		{"id": "L2", "loan_amount": "2000", "grade": "A"},
		{"id": "L3", "grade": "B"},
	})
	listCalls := 0
	records := &recordmock.Repo{
		ListByBatchFn: func(context.Context, uint64) ([]recordDomain.LoanRecord, error) {
			listCalls++
			return recs, nil
		},
	}
	batches := &batchmock.Repo{
		GetByBatchIDFn: func(_ context.Context, batchID string) (*batchDomain.ImportBatch, error) {
			return &batchDomain.ImportBatch{ID: 9, BatchID: batchID, Status: batchDomain.StatusValidated}, nil
		},
	}
	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), uowmock.New(), batches, records, rdb,
		Options{CacheTTL: time.Minute, MissingThreshold: 10, SkewThreshold: 2})

	dto, err := uc.BatchProfile(context.Background(), testBatchID)
	if err != nil {
		t.Fatalf("BatchProfile: %v", err)
	}
	if dto.Profile.Rows != 3 {
		t.Fatalf("rows = %d, want 3", dto.Profile.Rows)
	}
	var la *profile.NumericSummary
	for i := range dto.Profile.Numeric {
		if dto.Profile.Numeric[i].Column == "loan_amount" {
			la = &dto.Profile.Numeric[i]
		}
	}
	if la == nil || la.Count != 2 || la.Mean != 1500 {
		t.Fatalf("loan_amount summary = %+v, want count 2 mean 1500", la)
	}
	if !mr.Exists("profile:batch:" + testBatchID) {
		t.Fatal("profile not cached")
	}

	// Second call must be served from the cache.
	if _, err := uc.BatchProfile(context.Background(), testBatchID); err != nil {
		t.Fatalf("cached BatchProfile: %v", err)
	}
	if listCalls != 1 {
		t.Fatalf("ListByBatch called %d times, want 1", listCalls)
	}
}

func TestBatchProfile_StaleCacheRecomputed(t *testing.T) {
	mr, rdb := newTestCache(t)
	mr.Set("profile:batch:"+testBatchID,
		`{"batch_id":"`+testBatchID+`","status":"validated","profile":{"rows":99}}`)

	records := &recordmock.Repo{
		ListByBatchFn: func(context.Context, uint64) ([]recordDomain.LoanRecord, error) {
			return storedRecords(t, []dataset.Raw{{"id": "L1"}}), nil
		},
	}
	batches := &batchmock.Repo{
		GetByBatchIDFn: func(_ context.Context, batchID string) (*batchDomain.ImportBatch, error) {
			return &batchDomain.ImportBatch{ID: 9, BatchID: batchID, Status: batchDomain.StatusCleaned}, nil
		},
	}
	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), uowmock.New(), batches, records, rdb,
		Options{CacheTTL: time.Minute})

	dto, err := uc.BatchProfile(context.Background(), testBatchID)
	if err != nil {
		t.Fatalf("BatchProfile: %v", err)
	}
	if dto.Profile.Rows != 1 || dto.Status != string(batchDomain.StatusCleaned) {
		t.Fatalf("dto = %+v, want recomputed profile for cleaned batch", dto)
	}
}

func TestBatchProfile_UnknownBatch(t *testing.T) {
	_, rdb := newTestCache(t)
	batches := &batchmock.Repo{
		GetByBatchIDFn: func(context.Context, string) (*batchDomain.ImportBatch, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), uowmock.New(), batches, &recordmock.Repo{}, rdb, Options{})

	_, err := uc.BatchProfile(context.Background(), testBatchID)
	if !errors.Is(err, batchDomain.ErrNotFound) {
		t.Fatalf("err = %v, want batch.ErrNotFound", err)
	}
}

func TestCleanBatch_ImputesAndInvalidatesCache(t *testing.T) {
	mr, rdb := newTestCache(t)
	mr.Set("profile:batch:"+testBatchID, `{"batch_id":"x"}`)

	recs := storedRecords(t, []dataset.Raw{
		{"id": "L1", "loan_amount": "1000", "term": "36 months", "grade": "A"},
		{"id": "L2", "loan_amount": "2000", "term": "36 months", "grade": "B"},
		{"id": "L3", "loan_amount": "3000", "term": "60 months", "grade": "B", "mths_since_last_record": 4},
		{"id": "L4"},
	})
	var saved []*recordDomain.LoanRecord
	var savedBatch *batchDomain.ImportBatch
	b := &batchDomain.ImportBatch{ID: 9, BatchID: testBatchID, Status: batchDomain.StatusValidated}

	tx := uowmock.New()
	tx.WithinBatchTxFn = func(ctx context.Context, batchID string,
		fn func(r uow.Repos, b *batchDomain.ImportBatch) error) error {
		return fn(uow.Repos{
			Batches: &batchmock.Repo{
				SaveFn: func(_ context.Context, b *batchDomain.ImportBatch) error {
					savedBatch = b
					return nil
				},
			},
			Records: &recordmock.Repo{
				ListByBatchFn: func(context.Context, uint64) ([]recordDomain.LoanRecord, error) {
					return recs, nil
				},
				SaveFn: func(_ context.Context, r *recordDomain.LoanRecord) error {
					saved = append(saved, r)
					return nil
				},
			},
			Violations: &recordmock.ViolationRepo{
				CountByBatchFn: func(context.Context, uint64) (int64, error) { return 0, nil },
			},
		}, b)
	}

	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), tx, &batchmock.Repo{}, &recordmock.Repo{}, rdb,
		Options{MissingThreshold: 50})

	out, err := uc.CleanBatch(context.Background(), testBatchID)
	if err != nil {
		t.Fatalf("CleanBatch: %v", err)
	}
	if out.Status != string(batchDomain.StatusCleaned) {
		t.Fatalf("status = %s, want cleaned", out.Status)
	}

	// Row four had loan_amount, term and grade filled. The public
	// record column is 75% null, past the threshold, so it is only
	// flagged, along with every column absent from the whole batch.
	if out.ImputedCells != 3 {
		t.Fatalf("imputed = %d, want 3", out.ImputedCells)
	}
	dropped := map[string]bool{}
	for _, col := range out.DroppedColumns {
		dropped[col] = true
	}
	if !dropped["mths_since_last_record"] {
		t.Fatalf("dropped = %v, want mths_since_last_record flagged", out.DroppedColumns)
	}
	for _, col := range []string{"loan_amount", "term", "grade", "id"} {
		if dropped[col] {
			t.Fatalf("column %s flagged for dropping", col)
		}
	}

	if len(saved) != 1 || saved[0].RecordID != "L4" {
		t.Fatalf("saved records = %v, want only L4 rewritten", saved)
	}
	got := saved[0]
	if got.LoanAmount == nil || !got.LoanAmount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("loan_amount = %v, want median 2000", got.LoanAmount)
	}
	if got.Term == nil || *got.Term != 36 {
		t.Fatalf("term = %v, want median 36", got.Term)
	}
	if got.Grade == nil || *got.Grade != "B" {
		t.Fatalf("grade = %v, want mode B", got.Grade)
	}
	if !got.Valid || got.ID != 4 {
		t.Fatalf("rewritten record = %+v, want valid with kept pk", got)
	}

	if savedBatch == nil || savedBatch.ValidCount != 4 || savedBatch.InvalidCount != 0 {
		t.Fatalf("batch counters = %+v, want 4 valid", savedBatch)
	}
	if savedBatch.ViolationCount != 0 {
		t.Fatalf("violation count = %d, want 0", savedBatch.ViolationCount)
	}
	if mr.Exists("profile:batch:" + testBatchID) {
		t.Fatal("cached profile not invalidated")
	}
}

func TestCleanBatch_ImputationViolationsPersisted(t *testing.T) {
	_, rdb := newTestCache(t)

	// The funded_amount median (2500) exceeds row four's loan_amount,
	// so the fill turns a valid row into an invalid one.
	recs := storedRecords(t, []dataset.Raw{
		{"id": "L1", "loan_amount": "1000", "funded_amount": "900"},
		{"id": "L2", "loan_amount": "3000", "funded_amount": "2500"},
		{"id": "L3", "loan_amount": "3000", "funded_amount": "2500"},
		{"id": "L4", "loan_amount": "500"},
	})

	var stored []*recordDomain.Violation
	var deletedPKs []uint64
	var savedBatch *batchDomain.ImportBatch
	b := &batchDomain.ImportBatch{ID: 9, BatchID: testBatchID, Status: batchDomain.StatusValidated}

	tx := uowmock.New()
	tx.WithinBatchTxFn = func(ctx context.Context, batchID string,
		fn func(r uow.Repos, b *batchDomain.ImportBatch) error) error {
		return fn(uow.Repos{
			Batches: &batchmock.Repo{
				SaveFn: func(_ context.Context, b *batchDomain.ImportBatch) error {
					savedBatch = b
					return nil
				},
			},
			Records: &recordmock.Repo{
				ListByBatchFn: func(context.Context, uint64) ([]recordDomain.LoanRecord, error) {
					return recs, nil
				},
				SaveFn: func(context.Context, *recordDomain.LoanRecord) error { return nil },
			},
			Violations: &recordmock.ViolationRepo{
				DeleteByRecordPKsFn: func(_ context.Context, _ uint64, pks []uint64) error {
					deletedPKs = pks
					kept := stored[:0]
					for _, v := range stored {
						drop := false
						for _, pk := range pks {
							if v.RecordPK == pk {
								drop = true
							}
						}
						if !drop {
							kept = append(kept, v)
						}
					}
					stored = kept
					return nil
				},
				BulkInsertFn: func(_ context.Context, vs []*recordDomain.Violation) error {
					stored = append(stored, vs...)
					return nil
				},
				CountByBatchFn: func(context.Context, uint64) (int64, error) {
					return int64(len(stored)), nil
				},
			},
		}, b)
	}

	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), tx, &batchmock.Repo{}, &recordmock.Repo{}, rdb,
		Options{MissingThreshold: 50})

	out, err := uc.CleanBatch(context.Background(), testBatchID)
	if err != nil {
		t.Fatalf("CleanBatch: %v", err)
	}
	if out.ImputedCells != 1 {
		t.Fatalf("imputed = %d, want 1", out.ImputedCells)
	}

	if len(deletedPKs) != 1 || deletedPKs[0] != 4 {
		t.Fatalf("deleted pks = %v, want [4]", deletedPKs)
	}
	if len(stored) != 1 {
		t.Fatalf("stored violations = %v, want the cross-field finding", stored)
	}
	v := stored[0]
	if v.RecordID != "L4" || v.Field != "funded_amount" || v.Code != "cross_field" {
		t.Fatalf("violation = %+v, want cross_field on funded_amount of L4", v)
	}

	if savedBatch == nil || savedBatch.ValidCount != 3 || savedBatch.InvalidCount != 1 {
		t.Fatalf("batch counters = %+v, want 3 valid 1 invalid", savedBatch)
	}
	if savedBatch.ViolationCount != 1 {
		t.Fatalf("violation count = %d, want 1", savedBatch.ViolationCount)
	}
}

func TestCleanBatch_AlreadyCleaned(t *testing.T) {
	_, rdb := newTestCache(t)
	tx := uowmock.New()
	tx.WithinBatchTxFn = func(ctx context.Context, batchID string,
		fn func(r uow.Repos, b *batchDomain.ImportBatch) error) error {
		return fn(uow.Repos{}, &batchDomain.ImportBatch{
			ID: 9, BatchID: batchID, Status: batchDomain.StatusCleaned,
		})
	}
	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), tx, &batchmock.Repo{}, &recordmock.Repo{}, rdb, Options{})

	_, err := uc.CleanBatch(context.Background(), testBatchID)
	if !errors.Is(err, batchDomain.ErrAlreadyCleaned) {
		t.Fatalf("err = %v, want ErrAlreadyCleaned", err)
	}
}

func TestCleanBatch_UnknownBatch(t *testing.T) {
	_, rdb := newTestCache(t)
	tx := uowmock.New()
	tx.WithinBatchTxFn = func(context.Context, string,
		func(r uow.Repos, b *batchDomain.ImportBatch) error) error {
		return gorm.ErrRecordNotFound
	}
	dict := schema.Default()
	uc := NewUsecase(dict, validate.New(dict), tx, &batchmock.Repo{}, &recordmock.Repo{}, rdb, Options{})

	_, err := uc.CleanBatch(context.Background(), testBatchID)
	if !errors.Is(err, batchDomain.ErrNotFound) {
		t.Fatalf("err = %v, want batch.ErrNotFound", err)
	}
}
