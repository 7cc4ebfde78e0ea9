package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudeviva/clinic-scheduler/internal/assistant"
	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
	"github.com/saudeviva/clinic-scheduler/internal/storage"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

type fakeLLM struct {
	reply string
}

func (f *fakeLLM) Complete(ctx context.Context, req assistant.LLMRequest) (assistant.LLMResponse, error) {
	return assistant.LLMResponse{Text: f.reply}, nil
}

func newTestRouter(t *testing.T, llm assistant.LLMClient) chi.Router {
	t.Helper()
	logger := logging.NewWithWriter("error", io.Discard)
	store := storage.NewFileStore(t.TempDir() + "/appointments.json")
	service := scheduling.NewService(store, logger, nil)

	var a *assistant.Assistant
	if llm != nil {
		a = assistant.New(llm, "SaudeViva Clinic", "Dr. Carlos", logger)
	}
	h := NewAppointmentsHandler(service, a, logger)

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/appointments", h.List)
	r.Post("/appointments", h.Create)
	r.Post("/appointments/interpret", h.Interpret)
	r.Delete("/appointments/{id}", h.Cancel)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, nil)
	rr := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateAppointment(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doJSON(t, router, http.MethodPost, "/appointments",
		`{"patient": "Ana", "date": "2025-11-10", "time": "10:00"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Appointment scheduling.Appointment `json:"appointment"`
		Message     string                 `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Appointment.ID)
	assert.Equal(t, scheduling.StatusScheduled, resp.Appointment.Status)
	assert.Equal(t, ScheduledMessage, resp.Message)
}

func TestCreateConflictReturns409(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doJSON(t, router, http.MethodPost, "/appointments",
		`{"patient": "Ana", "date": "2025-11-10", "time": "10:00"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/appointments",
		`{"patient": "Bob", "date": "2025-11-10", "time": "10:00"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ana")
}

func TestCreateValidationErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"weekend", `{"patient": "Carla", "date": "2025-11-08", "time": "10:00"}`, http.StatusUnprocessableEntity},
		{"after hours", `{"patient": "Carla", "date": "2025-11-10", "time": "17:31"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"patient": "Carla", "date": "11/10/2025", "time": "10:00"}`, http.StatusUnprocessableEntity},
		{"blank patient", `{"patient": "", "date": "2025-11-10", "time": "10:00"}`, http.StatusUnprocessableEntity},
		{"broken body", `{"patient": `, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/appointments", tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestInterpretSchedulesExtractedRequest(t *testing.T) {
	llm := &fakeLLM{reply: `{"patient": "João", "date": "2025-11-10", "time": "10:00"}`}
	router := newTestRouter(t, llm)

	rr := doJSON(t, router, http.MethodPost, "/appointments/interpret",
		`{"text": "Book João in for Monday at 10"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Appointment scheduling.Appointment      `json:"appointment"`
		Extracted   *assistant.ExtractedRequest `json:"extracted"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "João", resp.Appointment.Patient)
	require.NotNil(t, resp.Extracted)
	assert.Equal(t, "2025-11-10", resp.Extracted.Date)
}

func TestInterpretUnintelligibleRequest(t *testing.T) {
	router := newTestRouter(t, &fakeLLM{reply: "null"})

	rr := doJSON(t, router, http.MethodPost, "/appointments/interpret",
		`{"text": "hello"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "could not understand")
}

func TestInterpretWithoutAssistant(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doJSON(t, router, http.MethodPost, "/appointments/interpret",
		`{"text": "anything"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestListActiveOnly(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, body := range []string{
		`{"patient": "Ana", "date": "2025-11-10", "time": "10:00"}`,
		`{"patient": "Bob", "date": "2025-11-10", "time": "11:00"}`,
	} {
		rr := doJSON(t, router, http.MethodPost, "/appointments", body)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := doJSON(t, router, http.MethodDelete, "/appointments/2", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/appointments", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Appointments []scheduling.Appointment `json:"appointments"`
		Count        int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Ana", resp.Appointments[0].Patient)
}

func TestCancelResponses(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := doJSON(t, router, http.MethodPost, "/appointments",
		`{"patient": "Ana", "date": "2025-11-10", "time": "10:00"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/appointments/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "Ana"))

	// Second cancel and an unknown id share the combined reason.
	for _, path := range []string{"/appointments/1", "/appointments/99"} {
		rr = doJSON(t, router, http.MethodDelete, path, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "not found or already cancelled")
	}

	rr = doJSON(t, router, http.MethodDelete, "/appointments/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
