// Package http exposes the progression engine over a JSON REST surface.
// Authentication happens upstream; the caller's already-authorized identity
// arrives in the X-User-ID header and is never re-derived from body fields.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"progression-service/internal/app"
	"progression-service/internal/domain"
)

const identityHeader = "X-User-ID"

type Handler struct {
	service *app.ProgressionService
	log     *zap.Logger
}

func NewHandler(service *app.ProgressionService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

// Router wires all engine endpoints. Certificate verification is public;
// everything else expects an identity header.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/verify/{token}", h.verifyCertificate)

	r.Route("/api", func(r chi.Router) {
		r.Post("/modules/{moduleID}/attempts", h.startAttempt)
		r.Post("/modules/{moduleID}/attempts/submit", h.submitAttempt)
		r.Post("/modules/{moduleID}/watch", h.recordWatch)
		r.Get("/modules/{moduleID}/attempts", h.listAttempts)
		r.Get("/learning-paths", h.listLearningPaths)
		r.Post("/learning-paths/{pathID}/enroll", h.enrollPath)
		r.Get("/risk/candidates", h.riskCandidates)
		r.Post("/risk/interventions", h.openIntervention)
		r.Patch("/risk/interventions/{id}", h.updateIntervention)
		r.Post("/courses/{courseID}/certificate", h.issueCertificate)
	})

	return r
}

func (h *Handler) startAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	started, err := h.service.StartAttempt(r.Context(), userID, chi.URLParam(r, "moduleID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, started)
}

type submitRequest struct {
	Seed      string            `json:"seed"`
	Answers   map[string]string `json:"answers"`
	StartedAt time.Time         `json:"startedAt"`
}

func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	submitted, err := h.service.SubmitAttempt(r.Context(), userID, chi.URLParam(r, "moduleID"), req.Seed, req.Answers, req.StartedAt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submitted)
}

type watchRequest struct {
	Seconds int `json:"seconds"`
}

func (h *Handler) recordWatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	var req watchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	row, err := h.service.RecordWatchProgress(r.Context(), userID, chi.URLParam(r, "moduleID"), req.Seconds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, row)
}

func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	attempts, err := h.service.ListAttempts(r.Context(), userID, chi.URLParam(r, "moduleID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) listLearningPaths(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	views, err := h.service.ListLearningPaths(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) enrollPath(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	progress, err := h.service.RecomputePath(r.Context(), userID, chi.URLParam(r, "pathID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) riskCandidates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identity(w, r); !ok {
		return
	}
	candidates, err := h.service.RiskCandidates(r.Context(), r.URL.Query().Get("courseId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, candidates)
}

func (h *Handler) openIntervention(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identity(w, r); !ok {
		return
	}
	var req app.InterventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	iv, err := h.service.OpenIntervention(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, iv)
}

func (h *Handler) updateIntervention(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identity(w, r); !ok {
		return
	}
	var req app.InterventionUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	iv, err := h.service.UpdateIntervention(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, iv)
}

func (h *Handler) issueCertificate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}
	issued, err := h.service.IssueCertificate(r.Context(), userID, chi.URLParam(r, "courseID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, issued)
}

func (h *Handler) verifyCertificate(w http.ResponseWriter, r *http.Request) {
	proof, err := h.service.VerifyCertificate(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, proof)
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(identityHeader)
	if userID == "" {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return "", false
	}
	return userID, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrModuleNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrPathNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrInterventionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotEligible):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageFailure):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
