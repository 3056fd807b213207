package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/models"
	"github.com/maturity-pathway/backend/internal/scoring"
	"github.com/maturity-pathway/backend/internal/templates"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Register mounts the scoring and project routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/score", h.Score).Methods(http.MethodPost)
	r.HandleFunc("/projects", h.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", h.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", h.ReplaceProject).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id}", h.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/answers", h.ApplyAnswer).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id}/report", h.GetReport).Methods(http.MethodGet)
}

type projectResponse struct {
	*models.Project
	Warnings []string `json:"warnings,omitempty"`
}

type scoreResponse struct {
	Assessment *models.Assessment       `json:"assessment"`
	Progress   *models.ProgressResponse `json:"progress"`
}

// ── Scoring ─────────────────────────────────────────────

func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var tree models.Assessment
	if err := json.NewDecoder(r.Body).Decode(&tree); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res, err := h.service.Score(&tree)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Assessment: res.Assessment, Progress: progressOf("", res)})
}

// ── Projects ────────────────────────────────────────────

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	p, warnings, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse{Project: p, Warnings: warnings})
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []models.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ReplaceProject(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	p, warnings, err := h.service.Replace(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Project: p, Warnings: warnings})
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	progress, err := h.service.ApplyAnswer(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// ── Helpers ─────────────────────────────────────────────

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *scoring.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Assessment is invalid", Details: verr.Details()})
	case errors.Is(err, ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Project not found"})
	case errors.Is(err, templates.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assessment not found"})
	case errors.Is(err, models.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	default:
		h.log.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
