package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := WithRequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/drafts", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusTeapot)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d; want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "POST" || fields["path"] != "/api/drafts" {
		t.Errorf("logged fields = %v", fields)
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("logged status = %v", fields["status"])
	}
}
