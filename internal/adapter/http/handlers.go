package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loanbook/internal/schema"
)

type Handler struct{ dict *schema.Dictionary }

func NewHandler(dict *schema.Dictionary) *Handler { return &Handler{dict: dict} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Schema serves the data dictionary as a machine-readable document.
func (h *Handler) Schema(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dict.Doc())
}
