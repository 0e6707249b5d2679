package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	var logBuf strings.Builder
	base := slog.New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seenTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	handler := chimw.RequestID(NewTraceMiddleware(base)(next))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Len(t, seenTraceID, 32)
	assert.Equal(t, seenTraceID, w.Header().Get(TraceIDHeader))
	assert.Contains(t, logBuf.String(), `"msg":"inside handler"`)
	assert.Contains(t, logBuf.String(), `"trace_id":"`+seenTraceID+`"`)
	assert.Contains(t, logBuf.String(), `"request_id":`)
}
