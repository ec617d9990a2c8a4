package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "loanbook/internal/adapter/http"
	"loanbook/internal/adapter/middleware"
	"loanbook/internal/adapter/repository/mysql"
	"loanbook/internal/config"
	"loanbook/internal/infrastructure/cache"
	"loanbook/internal/infrastructure/db"
	"loanbook/internal/schema"
	ingestUC "loanbook/internal/usecase/ingest"
	profileUC "loanbook/internal/usecase/profile"
	recordUC "loanbook/internal/usecase/record"
	"loanbook/internal/validate"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	dict := schema.Default()
	if cfg.SchemaEnumsFile != "" {
		sets, err := schema.LoadEnumOverrides(cfg.SchemaEnumsFile)
		if err != nil {
			log.Fatalf("schema enums: %v", err)
		}
		if err := dict.ApplyEnumOverrides(sets); err != nil {
			log.Fatalf("schema enums: %v", err)
		}
	}
	validator := validate.New(dict)

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	batches := mysql.NewBatchRepository(gdb)
	records := mysql.NewRecordRepository(gdb)
	violations := mysql.NewViolationRepository(gdb)
	unitOfWork := mysql.NewGormUoW(gdb)

	recUsecase := recordUC.NewUsecase(validator, records, violations, batches)
	ingUsecase := ingestUC.NewUsecase(validator, unitOfWork, batches)
	profUsecase := profileUC.NewUsecase(dict, validator, unitOfWork, batches, records, rdb, profileUC.Options{
		CacheTTL:         time.Duration(cfg.ProfileCacheTTLSecs) * time.Second,
		MissingThreshold: cfg.CleanMissingThreshold,
		SkewThreshold:    cfg.SkewThreshold,
	})

	h := httpadp.NewHandler(dict)
	recHandler := httpadp.NewRecordHandler(recUsecase)
	batchHandler := httpadp.NewBatchHandler(ingUsecase, profUsecase, recUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)
	e.GET("/schema", h.Schema)

	e.POST("/records/validate", recHandler.ValidateRecord)
	e.GET("/records/:record_id", recHandler.GetRecord)

	e.POST("/batches/import", batchHandler.ImportBatch, idemp)
	e.GET("/batches/:batch_id", batchHandler.GetBatch)
	e.GET("/batches/:batch_id/violations", batchHandler.ListViolations)
	e.GET("/batches/:batch_id/profile", batchHandler.GetProfile)
	e.POST("/batches/:batch_id/clean", batchHandler.CleanBatch, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
