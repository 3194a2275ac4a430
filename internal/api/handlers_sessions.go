package api

import (
	"net/http"

	"pomify/internal/models"
	"pomify/internal/tracker"
)

type SessionHandler struct {
	svc *tracker.Service
}

func NewSessionHandler(svc *tracker.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// List handles GET /sessions?sort=newest|oldest|most_cycles|most_time
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	order := tracker.SortOrder(r.URL.Query().Get("sort"))

	sessions, err := h.svc.Feed(r.Context(), userID(r), order)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Create handles POST /sessions. A session without completed cycles is
// accepted but not stored.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tracker.SessionInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.svc.RecordSession(r.Context(), userID(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]*models.PomodoroSession{"session": nil})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]*models.PomodoroSession{"session": session})
}
