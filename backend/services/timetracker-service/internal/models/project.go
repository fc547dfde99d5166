package models

import "time"

// Project is a billable unit of work accumulating hours and cost over sessions.
type Project struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Type          string    `db:"type" json:"type"`
	HourlyRate    float64   `db:"hourly_rate" json:"hourly_rate"`
	TotalHours    float64   `db:"total_hours" json:"total_hours"`
	EstimatedCost float64   `db:"estimated_cost" json:"estimated_cost"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
