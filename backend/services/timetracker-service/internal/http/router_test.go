package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	libdb "timetrack/backend/libs/db"
	"timetrack/backend/services/timetracker-service/internal/http/handlers"
	"timetrack/backend/services/timetracker-service/internal/http/middleware"
	redisstore "timetrack/backend/services/timetracker-service/internal/redis"
	"timetrack/backend/services/timetracker-service/internal/repository/sqlite"
	"timetrack/backend/services/timetracker-service/internal/service"
	"timetrack/backend/services/timetracker-service/internal/timezone"
)

type stubCache struct {
	mock.Mock
}

func (m *stubCache) Save(ctx context.Context, session redisstore.ActiveSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *stubCache) Get(ctx context.Context, projectID int64) (*redisstore.ActiveSession, error) {
	args := m.Called(ctx, projectID)
	cached, _ := args.Get(0).(*redisstore.ActiveSession)
	return cached, args.Error(1)
}

func (m *stubCache) Delete(ctx context.Context, projectID int64) error {
	return m.Called(ctx, projectID).Error(0)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithCache(t, nil)
}

func newTestRouterWithCache(t *testing.T, cache service.ActiveSessionCache) http.Handler {
	t.Helper()

	ctx := context.Background()
	db, err := libdb.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	store := sqlite.NewStore(db)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	clock := timezone.NewClockFunc(timezone.SAST, func() time.Time {
		return time.Date(2024, 3, 4, 9, 0, 0, 0, timezone.SAST)
	})
	svc := service.NewLifecycleService(store, cache, nil, clock, logger)

	router := NewRouter(RouterDeps{
		Pages:    handlers.NewPagesHandlers(svc, logger),
		Projects: handlers.NewProjectsHandlers(svc, logger),
		Sessions: handlers.NewSessionsHandlers(svc, logger),
		Health:   handlers.NewHealthHandler(),
	})
	return middleware.Chain(router, middleware.RequestIDMiddleware(), middleware.RecoveryMiddleware(logger))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = do(t, h, http.MethodPost, "/health", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestAPI_SessionLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/projects", `{"name":"Website","type":"client","hourly_rate":120}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode(t, rec)["project"].(map[string]interface{})
	id := int64(project["id"].(float64))
	require.Equal(t, int64(1), id)

	rec = do(t, h, http.MethodPost, "/api/projects/1/sessions/start", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "success", decode(t, rec)["outcome"])

	rec = do(t, h, http.MethodPost, "/api/projects/1/sessions/start", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "already_active", decode(t, rec)["outcome"])

	rec = do(t, h, http.MethodGet, "/api/sessions/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["sessions"], 1)

	rec = do(t, h, http.MethodPost, "/api/projects/1/sessions/end", `{"work_details":"wireframes"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := decode(t, rec)["session"].(map[string]interface{})
	require.Equal(t, "wireframes", session["work_details"])
	require.Equal(t, float64(0), session["duration_seconds"])

	rec = do(t, h, http.MethodPost, "/api/projects/1/sessions/end", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "no_active_session", decode(t, rec)["outcome"])

	rec = do(t, h, http.MethodGet, "/api/projects/1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["sessions"], 1)

	rec = do(t, h, http.MethodGet, "/api/projects/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decode(t, rec)["active_session"])
}

func TestAPI_CreateProjectValidation(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/projects", `{"name":"A","type":"t","hourly_rate":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decode(t, rec)["outcome"])

	rec = do(t, h, http.MethodPost, "/api/projects", `{"name":"A","type":"t","hourly_rate":-5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/projects", `{"name":"A","type":"t","hourly_rate":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/projects", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"projects":[]}`, rec.Body.String())
}

func TestAPI_EmptySessionListsAreArrays(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/projects", `{"name":"Website","type":"client"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/projects/1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"sessions":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/sessions/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"sessions":[]}`, rec.Body.String())
}

func TestAPI_ActiveSessionReadsCacheFirst(t *testing.T) {
	cache := new(stubCache)
	h := newTestRouterWithCache(t, cache)

	rec := do(t, h, http.MethodPost, "/api/projects", `{"name":"Website","type":"client"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	cache.On("Get", mock.Anything, int64(1)).Return(&redisstore.ActiveSession{
		SessionID:   77,
		ProjectID:   1,
		ProjectName: "Website",
		StartTime:   time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC),
	}, nil).Once()
	cache.On("Get", mock.Anything, int64(1)).Return(nil, redisstore.ErrMiss).Once()
	cache.On("Get", mock.Anything, int64(9)).Return(nil, redisstore.ErrMiss).Once()

	// The store has no open session, so a hit can only come from the cache.
	rec = do(t, h, http.MethodGet, "/api/projects/1/sessions/active", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	active := decode(t, rec)["active_session"].(map[string]interface{})
	require.Equal(t, float64(77), active["id"])
	require.Equal(t, "2024-03-04T09:00:00+02:00", active["start_time"])

	rec = do(t, h, http.MethodGet, "/api/projects/1/sessions/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"active_session":null}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/projects/9/sessions/active", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	cache.AssertExpectations(t)
}

func TestProjectIDMustBePositiveInteger(t *testing.T) {
	h := newTestRouter(t)

	for _, target := range []string{"/project/0", "/project/-1", "/project/abc", "/project/+1", "/project/99"} {
		rec := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
	}
	for _, target := range []string{"/api/projects/abc", "/api/projects/7"} {
		rec := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rec.Code, target)
	}
	rec := do(t, h, http.MethodPost, "/api/projects/42/sessions/start", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/no/such/page", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPages_CreateAndTrack(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/create_project", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="project_name"`)

	rec = postForm(t, h, "/create_project", url.Values{
		"project_name": {"Website"},
		"project_type": {"client"},
		"hourly_rate":  {"abc"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/create_project", rec.Header().Get("Location"))

	rec = postForm(t, h, "/create_project", url.Values{
		"project_name": {"Website"},
		"project_type": {"client"},
		"hourly_rate":  {"100"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	flash := rec.Result().Cookies()
	require.NotEmpty(t, flash)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range flash {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Project created successfully!")
	require.Contains(t, rec.Body.String(), `href="/project/1"`)

	rec = postForm(t, h, "/project/1/start_session", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/project/1", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/project/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "End session")

	rec = postForm(t, h, "/project/1/end_session", url.Values{"work_details": {"homepage copy"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, h, http.MethodGet, "/project/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "homepage copy")
	require.Contains(t, rec.Body.String(), "Start session")

	rec = do(t, h, http.MethodGet, "/project/1/start_session", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
