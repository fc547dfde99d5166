package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"timetrack/backend/services/timetracker-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// projectID reads the {id} path segment. Only positive decimal integers
// are accepted.
func projectID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// outcomeStatus maps a rejected lifecycle outcome to an HTTP status.
func outcomeStatus(outcome service.Outcome) int {
	switch outcome {
	case service.OutcomeInvalidInput:
		return http.StatusBadRequest
	case service.OutcomeAlreadyActive, service.OutcomeNoActiveSession:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}

type resultResponse struct {
	Outcome string      `json:"outcome"`
	Message string      `json:"message,omitempty"`
	Project interface{} `json:"project,omitempty"`
	Session interface{} `json:"session,omitempty"`
}

func newResultResponse(res *service.Result) resultResponse {
	resp := resultResponse{Outcome: res.Outcome.String(), Message: res.Message}
	if res.Project != nil {
		resp.Project = res.Project
	}
	if res.Session != nil {
		resp.Session = res.Session
	}
	return resp
}
