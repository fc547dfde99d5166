package httpserver

import (
	"net/http"
	"sort"
	"strings"

	"timetrack/backend/services/timetracker-service/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Pages       *handlers.PagesHandlers
	Projects    *handlers.ProjectsHandlers
	Sessions    *handlers.SessionsHandlers
	SessionFeed http.HandlerFunc
	Health      http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	if deps.Health != nil {
		mux.Handle("/health", method(http.MethodGet, deps.Health))
	}

	if p := deps.Pages; p != nil {
		mux.Handle("/{$}", method(http.MethodGet, http.HandlerFunc(p.Index)))
		mux.Handle("/create_project", byMethod(map[string]http.HandlerFunc{
			http.MethodGet:  p.CreateProjectForm,
			http.MethodPost: p.CreateProject,
		}))
		mux.Handle("/project/{id}", method(http.MethodGet, http.HandlerFunc(p.ViewProject)))
		mux.Handle("/project/{id}/start_session", method(http.MethodPost, http.HandlerFunc(p.StartSession)))
		mux.Handle("/project/{id}/end_session", method(http.MethodPost, http.HandlerFunc(p.EndSession)))
	}

	if h := deps.Projects; h != nil {
		mux.Handle("/api/projects", byMethod(map[string]http.HandlerFunc{
			http.MethodGet:  h.List,
			http.MethodPost: h.Create,
		}))
		mux.Handle("/api/projects/{id}", method(http.MethodGet, http.HandlerFunc(h.Get)))
		mux.Handle("/api/projects/{id}/sessions", method(http.MethodGet, http.HandlerFunc(h.Sessions)))
	}

	if h := deps.Sessions; h != nil {
		mux.Handle("/api/projects/{id}/sessions/start", method(http.MethodPost, http.HandlerFunc(h.Start)))
		mux.Handle("/api/projects/{id}/sessions/end", method(http.MethodPost, http.HandlerFunc(h.End)))
		mux.Handle("/api/projects/{id}/sessions/active", method(http.MethodGet, http.HandlerFunc(h.ActiveForProject)))
		mux.Handle("/api/sessions/active", method(http.MethodGet, http.HandlerFunc(h.Active)))
	}

	if deps.SessionFeed != nil {
		mux.Handle("/ws/sessions", method(http.MethodGet, deps.SessionFeed))
	}
	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return byMethod(map[string]http.HandlerFunc{expected: handler.ServeHTTP})
}

func byMethod(routes map[string]http.HandlerFunc) http.Handler {
	allowed := make([]string, 0, len(routes))
	for m := range routes {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := routes[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	})
}
