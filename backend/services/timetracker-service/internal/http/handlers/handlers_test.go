package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"timetrack/backend/services/timetracker-service/internal/service"
)

func TestProjectID(t *testing.T) {
	cases := map[string]bool{
		"1":                    true,
		"42":                   true,
		"0":                    false,
		"-3":                   false,
		"+3":                   false,
		"abc":                  false,
		"99999999999999999999": false,
	}
	for raw, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", raw)
		_, ok := projectID(req)
		require.Equal(t, want, ok, raw)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, "warning", "No active session to end for this project!")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	flashes := popFlashes(out, req)
	require.Equal(t, []Flash{{Category: "warning", Message: "No active session to end for this project!"}}, flashes)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)
}

func TestOutcomeMapping(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, outcomeStatus(service.OutcomeInvalidInput))
	require.Equal(t, http.StatusConflict, outcomeStatus(service.OutcomeAlreadyActive))
	require.Equal(t, http.StatusConflict, outcomeStatus(service.OutcomeNoActiveSession))
	require.Equal(t, "error", flashCategory(service.OutcomeInvalidInput))
	require.Equal(t, "warning", flashCategory(service.OutcomeNoActiveSession))
	require.Equal(t, "success", flashCategory(service.OutcomeSuccess))
}
