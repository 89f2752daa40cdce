package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"gridview/internal/codec"
	"gridview/internal/service"
)

// DiagramHandler handles diagram API requests
type DiagramHandler struct {
	svc    *service.DiagramService
	logger *log.Logger
}

// NewDiagramHandler creates a new diagram handler
func NewDiagramHandler(svc *service.DiagramService, logger *log.Logger) *DiagramHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &DiagramHandler{svc: svc, logger: logger}
}

// Routes returns a router serving every API endpoint
func (h *DiagramHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/view", h.GetView)
	r.Get("/snapshot", h.GetSnapshot)
	r.Get("/history", h.GetHistory)

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", h.CreateNode)
		r.Patch("/{id}", h.UpdateNode)
		r.Put("/{id}/position", h.MoveNode)
		r.Delete("/{id}", h.DeleteNode)
	})

	r.Post("/links", h.CreateLink)
	r.Delete("/links/{source}/{target}", h.DeleteLink)

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.CreateGroup)
		r.Patch("/{id}", h.UpdateGroup)
		r.Delete("/{id}", h.DeleteGroup)
	})

	r.Put("/types/{type}", h.RegisterType)
	r.Delete("/types/{type}", h.UnregisterType)

	r.Post("/undo", h.Undo)
	r.Post("/redo", h.Redo)

	r.Post("/import/{format}", h.Import)
	r.Get("/export/{format}", h.Export)

	r.Get("/snapshots", h.ListSnapshots)
	r.Post("/save", h.Save)
	r.Post("/load", h.Load)

	return r
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ChangeResponse reports the outcome of an edit
type ChangeResponse struct {
	Changed bool   `json:"changed"`
	ID      string `json:"id,omitempty"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
}

func (h *DiagramHandler) writeChange(w http.ResponseWriter, id string, changed bool, statusCode int) {
	canUndo, canRedo := h.svc.HistoryState()
	h.writeJSON(w, ChangeResponse{
		Changed: changed,
		ID:      id,
		CanUndo: canUndo,
		CanRedo: canRedo,
	}, statusCode)
}

func (h *DiagramHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", "err", err)
	}
}

func (h *DiagramHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("failed to encode error response", "err", err)
	}
}

// fail maps a service error to a status code and writes it
func (h *DiagramHandler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, codec.ErrInvalidSnapshot), errors.Is(err, codec.ErrMalformed):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoRepository):
		h.writeError(w, msg, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, codec.ErrUnknownFormat):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInput):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(msg, "err", err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}
