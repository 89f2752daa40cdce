package handler

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gridview/internal/codec"
)

// maxImportSize bounds import request bodies
const maxImportSize = 16 << 20

// ImportResponse summarizes an import
type ImportResponse struct {
	Format string `json:"format"`
	Nodes  int    `json:"nodes"`
	Links  int    `json:"links"`
	Groups int    `json:"groups"`
	Types  int    `json:"types"`
}

// Import replaces the present snapshot with the request body, clearing history
func (h *DiagramHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := h.svc.Import(format, bytes.NewReader(data))
	if err != nil {
		h.fail(w, "Failed to import snapshot", err)
		return
	}

	d := snapshot.Diagram()
	h.logger.Info("snapshot imported", "format", format, "nodes", len(d.Nodes), "links", len(d.Links))
	h.writeJSON(w, ImportResponse{
		Format: format,
		Nodes:  len(d.Nodes),
		Links:  len(d.Links),
		Groups: len(d.Groups),
		Types:  snapshot.Registry().Len(),
	}, http.StatusOK)
}

// Export writes the present snapshot as a downloadable document
func (h *DiagramHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.fail(w, "Failed to export snapshot", err)
		return
	}

	var buf bytes.Buffer
	if err := c.Encode(h.svc.Snapshot(), &buf); err != nil {
		h.fail(w, "Failed to export snapshot", err)
		return
	}

	contentType := "application/json"
	if c.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=diagram."+c.Format())
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write export", "err", err)
	}
}

// ListSnapshots returns stored snapshot records
func (h *DiagramHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListSaved(r.Context())
	if err != nil {
		h.fail(w, "Failed to list snapshots", err)
		return
	}
	h.writeJSON(w, records, http.StatusOK)
}

// SaveRequest is the optional body of POST /api/save
type SaveRequest struct {
	Label string `json:"label"`
}

// Save stores the present snapshot
func (h *DiagramHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}

	record, err := h.svc.Save(r.Context(), req.Label)
	if err != nil {
		h.fail(w, "Failed to save snapshot", err)
		return
	}
	h.writeJSON(w, record, http.StatusOK)
}

// Load replaces the present snapshot with a stored one, clearing history
func (h *DiagramHandler) Load(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		if _, err := h.svc.LoadLatest(r.Context()); err != nil {
			h.fail(w, "Failed to load snapshot", err)
			return
		}
		h.writeChange(w, "", true, http.StatusOK)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, "Invalid snapshot ID", err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.svc.Load(r.Context(), id); err != nil {
		h.fail(w, "Failed to load snapshot", err)
		return
	}
	h.writeChange(w, raw, true, http.StatusOK)
}
