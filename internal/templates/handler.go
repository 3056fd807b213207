package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/models"
)

// Reader is the read side of the template store.
type Reader interface {
	Get(ctx context.Context, id int64) (*models.Template, error)
	List(ctx context.Context) ([]models.TemplateSummary, error)
}

type Handler struct {
	store Reader
	log   *zap.Logger
}

func NewHandler(store Reader, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("List assessments", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list assessments"})
		return
	}
	if list == nil {
		list = []models.TemplateSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid assessment ID"})
		return
	}

	t, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assessment not found"})
		return
	}
	if err != nil {
		h.log.Error("Get assessment", zap.Int64("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load assessment"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
