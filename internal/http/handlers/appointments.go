// Package handlers exposes the appointment book over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saudeviva/clinic-scheduler/internal/assistant"
	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

// ScheduledMessage confirms a booking when no assistant is configured.
const ScheduledMessage = "Appointment scheduled successfully!"

// AppointmentsHandler handles the scheduling endpoints. The assistant
// is optional; without it the natural-language endpoint reports the
// feature as unavailable.
type AppointmentsHandler struct {
	service   *scheduling.Service
	assistant *assistant.Assistant
	logger    *logging.Logger
}

// NewAppointmentsHandler creates the scheduling handler.
func NewAppointmentsHandler(service *scheduling.Service, a *assistant.Assistant, logger *logging.Logger) *AppointmentsHandler {
	if service == nil {
		panic("handlers: scheduling service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{service: service, assistant: a, logger: logger}
}

// HealthCheck handles GET /health.
func (h *AppointmentsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scheduleRequest struct {
	Patient string `json:"patient"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type scheduleResponse struct {
	Appointment *scheduling.Appointment     `json:"appointment"`
	Message     string                      `json:"message"`
	Extracted   *assistant.ExtractedRequest `json:"extracted,omitempty"`
}

// Create handles POST /appointments.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.schedule(w, r, req, nil)
}

type interpretRequest struct {
	Text string `json:"text"`
}

// Interpret handles POST /appointments/interpret: the free-text request
// is run through the assistant and, when all three fields come back,
// scheduled in the same call.
func (h *AppointmentsHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "natural-language scheduling is not configured")
		return
	}

	var req interpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	extracted, err := h.assistant.Extract(r.Context(), req.Text, time.Now())
	if err != nil {
		h.logger.Error("extraction failed", "error", err)
	}
	if extracted == nil {
		writeError(w, http.StatusUnprocessableEntity, "could not understand the request; please rephrase it")
		return
	}

	h.schedule(w, r, scheduleRequest{
		Patient: extracted.Patient,
		Date:    extracted.Date,
		Time:    extracted.Time,
	}, extracted)
}

func (h *AppointmentsHandler) schedule(w http.ResponseWriter, r *http.Request, req scheduleRequest, extracted *assistant.ExtractedRequest) {
	appt, err := h.service.Schedule(r.Context(), req.Patient, req.Date, req.Time)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	message := ScheduledMessage
	if h.assistant != nil {
		message = h.assistant.ConfirmationMessage(r.Context(), appt.Patient, appt.Start.Time)
	}
	writeJSON(w, http.StatusCreated, scheduleResponse{
		Appointment: appt,
		Message:     message,
		Extracted:   extracted,
	})
}

type listResponse struct {
	Appointments []scheduling.Appointment `json:"appointments"`
	Count        int                      `json:"count"`
}

// List handles GET /appointments, returning scheduled records only.
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Appointments: active, Count: len(active)})
}

// Cancel handles DELETE /appointments/{id}.
func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "appointment id must be a number")
		return
	}

	appt, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Appointment %d for %s cancelled.", appt.ID, appt.Patient),
	})
}

func (h *AppointmentsHandler) writeSchedulingError(w http.ResponseWriter, err error) {
	var hoursErr *scheduling.OutOfHoursError
	var conflictErr *scheduling.ConflictError

	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduling.ErrInvalidDateTime), errors.Is(err, scheduling.ErrPatientRequired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &hoursErr):
		writeError(w, http.StatusUnprocessableEntity, hoursErr.Reason)
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Reason)
	default:
		h.logger.Error("scheduling operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
