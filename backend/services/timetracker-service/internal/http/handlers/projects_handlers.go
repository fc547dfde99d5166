package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"timetrack/backend/services/timetracker-service/internal/service"
)

// ProjectsHandlers serves the project JSON API.
type ProjectsHandlers struct {
	svc    *service.LifecycleService
	logger *zap.Logger
}

// NewProjectsHandlers returns handler.
func NewProjectsHandlers(svc *service.LifecycleService, logger *zap.Logger) *ProjectsHandlers {
	return &ProjectsHandlers{svc: svc, logger: logger}
}

type createProjectRequest struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	HourlyRate interface{} `json:"hourly_rate"`
}

// rate accepts either a JSON number or a numeric string.
func (r createProjectRequest) rate() (string, bool) {
	switch v := r.HourlyRate.(type) {
	case nil:
		return "", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		return v, true
	default:
		return "", false
	}
}

// List handles GET /api/projects.
func (h *ProjectsHandlers) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// Create handles POST /api/projects.
func (h *ProjectsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rate, ok := req.rate()
	if !ok {
		writeError(w, http.StatusBadRequest, "hourly_rate must be a number")
		return
	}

	res, err := h.svc.CreateProject(r.Context(), service.CreateProjectInput{
		Name:       req.Name,
		Type:       req.Type,
		HourlyRate: rate,
	})
	if err != nil {
		h.logger.Error("create project failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	if !res.OK() {
		writeJSON(w, outcomeStatus(res.Outcome), newResultResponse(res))
		return
	}
	writeJSON(w, http.StatusCreated, newResultResponse(res))
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	view, err := h.svc.ProjectDetail(r.Context(), id)
	if errors.Is(err, service.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.logger.Error("get project failed", zap.Int64("project_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project":        view.Project,
		"active_session": view.Active,
	})
}

// Sessions handles GET /api/projects/{id}/sessions.
func (h *ProjectsHandlers) Sessions(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	sessions, err := h.svc.ListSessions(r.Context(), id)
	if errors.Is(err, service.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		h.logger.Error("list sessions failed", zap.Int64("project_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
