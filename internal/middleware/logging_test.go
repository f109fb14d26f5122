package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	apperrors "contauno/internal/errors"
	"contauno/internal/uuid"
)

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	t.Run("assigns request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

		id := rec.Header().Get(requestIDHeader)
		if !uuid.IsValid(id) {
			t.Fatalf("expected a UUID request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("expected the context to carry %s, got %s", id, rec.Body.String())
		}
	})

	t.Run("keeps client request id", func(t *testing.T) {
		const sent = "0190f000-0000-7000-8000-000000000042"
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set(requestIDHeader, sent)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get(requestIDHeader); got != sent {
			t.Errorf("expected %s, got %s", sent, got)
		}
	})

	t.Run("replaces malformed request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		req.Header.Set(requestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if got := rec.Header().Get(requestIDHeader); got == "<script>" || !uuid.IsValid(got) {
			t.Errorf("expected a fresh id, got %q", got)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrProductNotFound) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", http.NoBody))
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "PRODUCT_NOT_FOUND" {
		t.Errorf("expected 404 PRODUCT_NOT_FOUND, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw", http.NoBody))
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestTracing(t *testing.T) {
	r := gin.New()
	r.Use(Tracing())
	var got trace.SpanContext
	r.GET("/items/:id", func(c *gin.Context) {
		got = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", http.NoBody))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	// The default global provider is a no-op, so the span context is
	// empty but the handler still runs under the wrapped request.
	if got.IsValid() {
		t.Errorf("expected no recording span without a provider, got %v", got)
	}
}
