package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/platform/logger"
)

func TestTraceMiddleware_ReusesRequestID(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)

	var traceID string
	var fromCtx bool
	h := chimw.RequestID(NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		fromCtx = logger.FromContext(r.Context()) != nil
		logger.FromContext(r.Context()).Info("inside handler")
	})))

	r := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	r.Header.Set(chimw.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "req-42", traceID)
	assert.True(t, fromCtx)
	entries := buf.EntriesWithMessage("inside handler")
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0]["trace_id"])
}

func TestTraceMiddleware_GeneratesTraceID(t *testing.T) {
	t.Parallel()

	var traceID string
	h := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, traceID)
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		wantLog   bool
		wantLevel string
	}{
		{name: "api ok", path: "/api/products", status: http.StatusOK, wantLog: true, wantLevel: "INFO"},
		{name: "api not found", path: "/api/products/zz", status: http.StatusNotFound, wantLog: true, wantLevel: "INFO"},
		{name: "api failure", path: "/api/generate", status: http.StatusInternalServerError, wantLog: true, wantLevel: "ERROR"},
		{name: "health is silent", path: "/health", status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log, buf := logger.NewTestLogger(t)
			h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			entries := buf.EntriesWithMessage("request")
			if !tc.wantLog {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			e := entries[0]
			assert.Equal(t, tc.wantLevel, e["level"])
			assert.Equal(t, http.MethodGet, e["method"])
			assert.Equal(t, tc.path, e["path"])
			assert.Equal(t, float64(tc.status), e["status"])
			assert.Contains(t, e, "duration_ms")
		})
	}
}

func TestRequestLogger_PreservesFlusher(t *testing.T) {
	t.Parallel()

	var canFlush bool
	h := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, canFlush = w.(http.Flusher)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/generate", nil))

	assert.True(t, canFlush)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{name: "any origin", origin: "http://a.test", wantOrigin: "*", wantStatus: http.StatusTeapot},
		{name: "listed origin", allowed: []string{"http://a.test"}, origin: "http://a.test", wantOrigin: "http://a.test", wantStatus: http.StatusTeapot},
		{name: "unlisted origin", allowed: []string{"http://a.test"}, origin: "http://b.test", wantStatus: http.StatusTeapot},
		{name: "preflight", origin: "http://a.test", preflight: true, wantOrigin: "*", wantStatus: http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			method := http.MethodGet
			if tc.preflight {
				method = http.MethodOptions
			}
			r := httptest.NewRequest(method, "/api/generate", nil)
			r.Header.Set("Origin", tc.origin)
			if tc.preflight {
				r.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()
			CORS(tc.allowed)(next).ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
