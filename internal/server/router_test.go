package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

var _ Router = (*BasicRouter)(nil)

func TestBasicRouter(t *testing.T) {
	t.Run("dispatches by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/things", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for GET, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in registration order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("outer"))
		router.Use(tag("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		want := []string{"outer", "inner", "handler"}
		for i, name := range want {
			if order[i] != name {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	var fromContext string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if fromContext != header {
		t.Errorf("context id %q does not match header %q", fromContext, header)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	t.Run("records downstream status", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 passthrough, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "404") {
			t.Errorf("expected status in log line, got %q", buf.String())
		}
	})
}
