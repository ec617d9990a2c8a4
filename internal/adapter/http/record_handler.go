package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loanbook/internal/dataset"
	recordDomain "loanbook/internal/domain/record"
	uc "loanbook/internal/usecase/record"
)

type RecordHandler struct{ uc *uc.Usecase }

func NewRecordHandler(u *uc.Usecase) *RecordHandler { return &RecordHandler{uc: u} }

// ValidateRecord checks one raw column mapping against the dictionary.
// Pure: nothing is stored. Violations come back with 200; only a
// malformed body is an error.
func (h *RecordHandler) ValidateRecord(c echo.Context) error {
	var raw dataset.Raw
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if len(raw) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty record"})
	}
	return c.JSON(http.StatusOK, h.uc.ValidateOne(raw))
}

func (h *RecordHandler) GetRecord(c echo.Context) error {
	rec, err := h.uc.GetRecord(c.Request().Context(), c.Param("record_id"))
	if err != nil {
		if errors.Is(err, recordDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
	}
	return c.JSON(http.StatusOK, rec)
}
