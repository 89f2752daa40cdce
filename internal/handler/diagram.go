package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gridview/internal/codec"
	"gridview/internal/config"
	"gridview/internal/domain"
	"gridview/internal/view"
)

// GetView returns a derived view of the present snapshot
func (h *DiagramHandler) GetView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := view.Selector{
		FocusGroup: q.Get("focus"),
		TraceNode:  q.Get("trace"),
	}

	var mode config.LayoutMode
	if raw := q.Get("layout"); raw != "" {
		mode = config.ParseLayoutMode(raw)
	}

	h.writeJSON(w, h.svc.View(sel, mode), http.StatusOK)
}

// GetSnapshot returns the present snapshot in the JSON document format. The ETag
// is the snapshot's content digest.
func (h *DiagramHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.svc.Snapshot()

	data, digest, err := codec.Canonical(snapshot)
	if err != nil {
		h.fail(w, "Failed to encode snapshot", err)
		return
	}

	etag := `"` + digest + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := bytes.NewReader(data).WriteTo(w); err != nil {
		h.logger.Error("failed to write snapshot", "err", err)
	}
}

// HistoryResponse reports undo/redo availability
type HistoryResponse struct {
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// GetHistory returns undo/redo availability
func (h *DiagramHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	canUndo, canRedo := h.svc.HistoryState()
	h.writeJSON(w, HistoryResponse{CanUndo: canUndo, CanRedo: canRedo}, http.StatusOK)
}

// CreateNodeRequest is the body of POST /api/nodes
type CreateNodeRequest struct {
	Type     domain.NodeType  `json:"type"`
	Position *domain.Position `json:"position,omitempty"`
}

// CreateNode adds a node with a generated ID and default label
func (h *DiagramHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.AddNode(req.Type, req.Position)
	if err != nil {
		h.fail(w, "Failed to create node", err)
		return
	}

	h.writeChange(w, id, true, http.StatusCreated)
}

// UpdateNodeRequest is the body of PATCH /api/nodes/{id}
type UpdateNodeRequest struct {
	Label      string         `json:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// UpdateNode changes a node's label and/or properties
func (h *DiagramHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateNodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	changed, err := h.svc.UpdateNode(id, req.Label, req.Properties)
	if err != nil {
		h.fail(w, "Failed to update node", err)
		return
	}

	h.writeChange(w, id, changed, http.StatusOK)
}

// MoveNode stores a node position
func (h *DiagramHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var pos domain.Position
	if !h.decode(w, r, &pos) {
		return
	}

	changed, err := h.svc.MoveNode(id, pos)
	if err != nil {
		h.fail(w, "Failed to move node", err)
		return
	}

	h.writeChange(w, id, changed, http.StatusOK)
}

// DeleteNode removes a node and everything attached to it
func (h *DiagramHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	changed, err := h.svc.RemoveNode(id)
	if err != nil {
		h.fail(w, "Failed to delete node", err)
		return
	}

	h.writeChange(w, id, changed, http.StatusOK)
}

// CreateLinkRequest is the body of POST /api/links
type CreateLinkRequest struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Properties map[string]any `json:"properties,omitempty"`
}

// CreateLink connects two nodes
func (h *DiagramHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	changed, err := h.svc.AddLink(req.Source, req.Target, req.Properties)
	if err != nil {
		h.fail(w, "Failed to create link", err)
		return
	}

	status := http.StatusCreated
	if !changed {
		status = http.StatusOK
	}
	h.writeChange(w, domain.NewLink(req.Source, req.Target).Key(), changed, status)
}

// DeleteLink removes the link between two nodes
func (h *DiagramHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	source, target := chi.URLParam(r, "source"), chi.URLParam(r, "target")

	changed, err := h.svc.RemoveLink(source, target)
	if err != nil {
		h.fail(w, "Failed to delete link", err)
		return
	}

	h.writeChange(w, domain.NewLink(source, target).Key(), changed, http.StatusOK)
}

// GroupRequest is the body of POST and PATCH on groups. On PATCH, omitted fields
// are left unchanged.
type GroupRequest struct {
	Label   string    `json:"label,omitempty"`
	Members *[]string `json:"members,omitempty"`
}

// CreateGroup adds a group
func (h *DiagramHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req GroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	var members []string
	if req.Members != nil {
		members = *req.Members
	}

	id, err := h.svc.AddGroup(req.Label, members)
	if err != nil {
		h.fail(w, "Failed to create group", err)
		return
	}

	h.writeChange(w, id, true, http.StatusCreated)
}

// UpdateGroup renames a group and/or replaces its members
func (h *DiagramHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	changed, err := h.svc.UpdateGroup(id, req.Label, req.Members)
	if err != nil {
		h.fail(w, "Failed to update group", err)
		return
	}

	h.writeChange(w, id, changed, http.StatusOK)
}

// DeleteGroup removes a group
func (h *DiagramHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	changed, err := h.svc.RemoveGroup(id)
	if err != nil {
		h.fail(w, "Failed to delete group", err)
		return
	}

	h.writeChange(w, id, changed, http.StatusOK)
}

// RegisterTypeRequest is the body of PUT /api/types/{type}
type RegisterTypeRequest struct {
	Label string `json:"label"`
}

// RegisterType adds or relabels a component type
func (h *DiagramHandler) RegisterType(w http.ResponseWriter, r *http.Request) {
	t := domain.NodeType(chi.URLParam(r, "type"))

	var req RegisterTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	changed, err := h.svc.RegisterType(t, req.Label)
	if err != nil {
		h.fail(w, "Failed to register type", err)
		return
	}

	h.writeChange(w, string(t), changed, http.StatusOK)
}

// UnregisterType removes a component type
func (h *DiagramHandler) UnregisterType(w http.ResponseWriter, r *http.Request) {
	t := domain.NodeType(chi.URLParam(r, "type"))

	changed, err := h.svc.UnregisterType(t)
	if err != nil {
		h.fail(w, "Failed to unregister type", err)
		return
	}

	h.writeChange(w, string(t), changed, http.StatusOK)
}

// Undo steps back one edit
func (h *DiagramHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.writeChange(w, "", h.svc.Undo(), http.StatusOK)
}

// Redo re-applies an undone edit
func (h *DiagramHandler) Redo(w http.ResponseWriter, r *http.Request) {
	h.writeChange(w, "", h.svc.Redo(), http.StatusOK)
}

// decode reads a JSON body into v, writing a 400 on failure
func (h *DiagramHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
