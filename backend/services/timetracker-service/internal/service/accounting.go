package service

import (
	"time"

	"timetrack/backend/services/timetracker-service/internal/models"
)

const secondsPerHour = 3600.0

// ElapsedSeconds returns whole seconds between start and end, truncated
// toward zero. Negative spans (clock skew) count as zero.
func ElapsedSeconds(start, end time.Time) int64 {
	seconds := int64(end.Sub(start) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

// ApplySession adds a closed session's duration to the project's totals and
// recomputes the estimated cost from scratch.
func ApplySession(project *models.Project, durationSeconds int64) {
	project.TotalHours += float64(durationSeconds) / secondsPerHour
	project.EstimatedCost = project.TotalHours * project.HourlyRate
}
