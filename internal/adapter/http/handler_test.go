package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"loanbook/internal/schema"
)

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	h := NewHandler(schema.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	start := time.Now().UTC()

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("status = %q, want ok", body.Status)
	}
	ts, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time %q not RFC3339Nano: %v", body.Time, err)
	}
	if ts.Before(start.Add(-time.Minute)) || ts.After(time.Now().UTC().Add(time.Minute)) {
		t.Fatalf("time %v outside the request window", ts)
	}
}

func TestSchema_ServesDictionaryDocument(t *testing.T) {
	e := echo.New()
	h := NewHandler(schema.Default())

	req := httptest.NewRequest(http.MethodGet, "/schema", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Schema(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var doc schema.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if doc.Entity != "loan_record" {
		t.Fatalf("entity = %q, want loan_record", doc.Entity)
	}
	if len(doc.Fields) == 0 || doc.Fields[0].Name != schema.FieldID {
		t.Fatalf("fields = %v, want id first", doc.Fields)
	}
	if len(doc.Rules) == 0 {
		t.Fatal("document carries no cross-field rules")
	}
}
