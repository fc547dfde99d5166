package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"timetrack/backend/services/timetracker-service/internal/models"
	"timetrack/backend/services/timetracker-service/internal/service"
)

// PagesHandlers renders the server-side HTML interface.
type PagesHandlers struct {
	svc    *service.LifecycleService
	logger *zap.Logger

	index         *template.Template
	createProject *template.Template
	viewProject   *template.Template
}

// NewPagesHandlers parses the embedded templates and returns handler.
func NewPagesHandlers(svc *service.LifecycleService, logger *zap.Logger) *PagesHandlers {
	return &PagesHandlers{
		svc:           svc,
		logger:        logger,
		index:         parsePage("index.html"),
		createProject: parsePage("create_project.html"),
		viewProject:   parsePage("view_project.html"),
	}
}

type indexPage struct {
	Flashes  []Flash
	Projects []models.Project
}

type createProjectPage struct {
	Flashes []Flash
}

type viewProjectPage struct {
	Flashes  []Flash
	Project  models.Project
	Sessions []models.Session
	Active   *models.Session
}

// Index handles GET /.
func (h *PagesHandlers) Index(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		http.Error(w, "failed to load projects", http.StatusInternalServerError)
		return
	}
	h.render(w, h.index, indexPage{Flashes: popFlashes(w, r), Projects: projects})
}

// CreateProjectForm handles GET /create_project.
func (h *PagesHandlers) CreateProjectForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.createProject, createProjectPage{Flashes: popFlashes(w, r)})
}

// CreateProject handles POST /create_project.
func (h *PagesHandlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	res, err := h.svc.CreateProject(r.Context(), service.CreateProjectInput{
		Name:       r.PostForm.Get("project_name"),
		Type:       r.PostForm.Get("project_type"),
		HourlyRate: r.PostForm.Get("hourly_rate"),
	})
	if err != nil {
		h.logger.Error("create project failed", zap.Error(err))
		http.Error(w, "failed to create project", http.StatusInternalServerError)
		return
	}
	setFlash(w, flashCategory(res.Outcome), res.Message)
	if !res.OK() {
		http.Redirect(w, r, "/create_project", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ViewProject handles GET /project/{id}.
func (h *PagesHandlers) ViewProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	view, err := h.svc.ProjectDetail(r.Context(), id)
	if errors.Is(err, service.ErrProjectNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("load project failed", zap.Int64("project_id", id), zap.Error(err))
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	h.render(w, h.viewProject, viewProjectPage{
		Flashes:  popFlashes(w, r),
		Project:  view.Project,
		Sessions: view.Sessions,
		Active:   view.Active,
	})
}

// StartSession handles POST /project/{id}/start_session.
func (h *PagesHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	res, err := h.svc.StartSession(r.Context(), service.StartSessionInput{ProjectID: id})
	h.redirectToProject(w, r, id, res, err)
}

// EndSession handles POST /project/{id}/end_session.
func (h *PagesHandlers) EndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var details *string
	if values, present := r.PostForm["work_details"]; present && len(values) > 0 {
		details = &values[0]
	}
	res, err := h.svc.EndSession(r.Context(), service.EndSessionInput{ProjectID: id, WorkDetails: details})
	h.redirectToProject(w, r, id, res, err)
}

func (h *PagesHandlers) redirectToProject(w http.ResponseWriter, r *http.Request, id int64, res *service.Result, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("session lifecycle failed", zap.Int64("project_id", id), zap.Error(err))
		http.Error(w, "failed to update session", http.StatusInternalServerError)
		return
	}
	setFlash(w, flashCategory(res.Outcome), res.Message)
	http.Redirect(w, r, fmt.Sprintf("/project/%d", id), http.StatusSeeOther)
}

// render buffers the page so a template error never leaves a half-written body.
func (h *PagesHandlers) render(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("render template failed", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func flashCategory(outcome service.Outcome) string {
	switch outcome {
	case service.OutcomeSuccess:
		return "success"
	case service.OutcomeInvalidInput:
		return "error"
	default:
		return "warning"
	}
}
