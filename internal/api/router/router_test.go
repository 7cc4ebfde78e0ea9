package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudeviva/clinic-scheduler/internal/http/handlers"
	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
	"github.com/saudeviva/clinic-scheduler/internal/storage"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.NewWithWriter("error", io.Discard)
	service := scheduling.NewService(storage.NewFileStore(t.TempDir()+"/appointments.json"), logger, nil)
	reg := prometheus.NewRegistry()

	return New(&Config{
		Logger:         logger,
		Appointments:   handlers.NewAppointmentsHandler(service, nil, logger),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/appointments", http.StatusOK},
		{http.MethodDelete, "/appointments/1", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, tt.want, rr.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouterPanicsAreRecovered(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/appointments", nil)
	rr := httptest.NewRecorder()
	require.NotPanics(t, func() { router.ServeHTTP(rr, req) })
}
