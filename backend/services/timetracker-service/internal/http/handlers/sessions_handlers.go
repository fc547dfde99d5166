package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"timetrack/backend/services/timetracker-service/internal/service"
)

// SessionsHandlers serves the session lifecycle JSON API.
type SessionsHandlers struct {
	svc    *service.LifecycleService
	logger *zap.Logger
}

// NewSessionsHandlers returns handler.
func NewSessionsHandlers(svc *service.LifecycleService, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{svc: svc, logger: logger}
}

type endSessionRequest struct {
	WorkDetails *string `json:"work_details"`
}

// Start handles POST /api/projects/{id}/sessions/start.
func (h *SessionsHandlers) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	res, err := h.svc.StartSession(r.Context(), service.StartSessionInput{ProjectID: id})
	h.respond(w, id, res, err, http.StatusCreated)
}

// End handles POST /api/projects/{id}/sessions/end. The body is optional.
func (h *SessionsHandlers) End(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	var req endSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.svc.EndSession(r.Context(), service.EndSessionInput{
		ProjectID:   id,
		WorkDetails: req.WorkDetails,
	})
	h.respond(w, id, res, err, http.StatusOK)
}

// Active handles GET /api/sessions/active.
func (h *SessionsHandlers) Active(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListActiveSessions(r.Context())
	if err != nil {
		h.logger.Error("list active sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch active sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// ActiveForProject handles GET /api/projects/{id}/sessions/active.
func (h *SessionsHandlers) ActiveForProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	session, err := h.svc.ActiveSession(r.Context(), id)
	if errors.Is(err, service.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.logger.Error("get active session failed", zap.Int64("project_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch active session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"active_session": session})
}

func (h *SessionsHandlers) respond(w http.ResponseWriter, id int64, res *service.Result, err error, okStatus int) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project not found")
	case err != nil:
		h.logger.Error("session lifecycle failed", zap.Int64("project_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update session")
	case !res.OK():
		writeJSON(w, outcomeStatus(res.Outcome), newResultResponse(res))
	default:
		writeJSON(w, okStatus, newResultResponse(res))
	}
}
