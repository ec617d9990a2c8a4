package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loanbook/internal/dataset"
	batchDomain "loanbook/internal/domain/batch"
	ingestUC "loanbook/internal/usecase/ingest"
	profileUC "loanbook/internal/usecase/profile"
	recordUC "loanbook/internal/usecase/record"
)

type BatchHandler struct {
	ingest  *ingestUC.Usecase
	profile *profileUC.Usecase
	records *recordUC.Usecase
}

func NewBatchHandler(ingest *ingestUC.Usecase, profile *profileUC.Usecase, records *recordUC.Usecase) *BatchHandler {
	return &BatchHandler{ingest: ingest, profile: profile, records: records}
}

type batchIDParam struct {
	BatchID string `param:"batch_id" validate:"required,hex32"`
}

func bindBatchID(c echo.Context) (string, error) {
	var p batchIDParam
	if err := c.Bind(&p); err != nil {
		return "", err
	}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.BatchID, nil
}

// ImportBatch accepts a multipart CSV upload under "file"; "name" is
// optional and defaults to the uploaded filename.
func (h *BatchHandler) ImportBatch(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file"})
	}
	name := c.FormValue("name")
	if name == "" {
		name = fh.Filename
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file"})
	}
	defer src.Close()

	dto, err := h.ingest.Import(c.Request().Context(), name, src)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrEmptyDataset), errors.Is(err, dataset.ErrNoIDColumn):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "import failed"})
		}
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BatchHandler) GetBatch(c echo.Context) error {
	batchID, err := bindBatchID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid batch id", Details: ToFieldErrors(err)})
	}
	dto, err := h.ingest.GetBatch(c.Request().Context(), batchID)
	if err != nil {
		if errors.Is(err, batchDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
	}
	return c.JSON(http.StatusOK, dto)
}

type violationsQuery struct {
	BatchID string `param:"batch_id" validate:"required,hex32"`
	Limit   int    `query:"limit" validate:"gte=0,lte=500"`
	Offset  int    `query:"offset" validate:"gte=0"`
}

func (h *BatchHandler) ListViolations(c echo.Context) error {
	q := violationsQuery{Limit: 100}
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if q.Limit == 0 {
		q.Limit = 100
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query", Details: ToFieldErrors(err)})
	}

	page, err := h.records.ListViolations(c.Request().Context(), q.BatchID, q.Limit, q.Offset)
	if err != nil {
		if errors.Is(err, batchDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *BatchHandler) GetProfile(c echo.Context) error {
	batchID, err := bindBatchID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid batch id", Details: ToFieldErrors(err)})
	}
	dto, err := h.profile.BatchProfile(c.Request().Context(), batchID)
	if err != nil {
		if errors.Is(err, batchDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "profile failed"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BatchHandler) CleanBatch(c echo.Context) error {
	batchID, err := bindBatchID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid batch id", Details: ToFieldErrors(err)})
	}
	dto, err := h.profile.CleanBatch(c.Request().Context(), batchID)
	if err != nil {
		switch {
		case errors.Is(err, batchDomain.ErrNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "batch not found"})
		case errors.Is(err, batchDomain.ErrAlreadyCleaned):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "batch already cleaned"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "clean failed"})
		}
	}
	return c.JSON(http.StatusOK, dto)
}
