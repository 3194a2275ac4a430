package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pomify/internal/auth"
	"pomify/internal/models"
	"pomify/internal/tracker"
)

type EventHandler struct {
	svc *tracker.Service
}

func NewEventHandler(svc *tracker.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

// List handles GET /events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ListDeleted handles GET /events/deleted
func (h *EventHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListDeletedEvents(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), userID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Update handles PATCH /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EventPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), userID(r), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}. The event is soft deleted.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /events/{id}/restore
func (h *EventHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RestoreEvent(r.Context(), userID(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	event, err := h.svc.GetEvent(r.Context(), userID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

type focusRequest struct {
	Seconds int `json:"seconds"`
}

// AddFocus handles POST /events/{id}/focus
func (h *EventHandler) AddFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.AddFocusTime(r.Context(), userID(r), id, req.Seconds); err != nil {
		writeServiceError(w, err)
		return
	}
	event, err := h.svc.GetEvent(r.Context(), userID(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func userID(r *http.Request) string {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return ""
	}
	return user.ID
}
