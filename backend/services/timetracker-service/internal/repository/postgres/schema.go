package postgres

const openSessionIndex = "sessions_one_open_per_project"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL CHECK (name <> ''),
		type TEXT NOT NULL CHECK (type <> ''),
		hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (hourly_rate >= 0),
		total_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		estimated_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		duration_seconds BIGINT NOT NULL DEFAULT 0,
		work_details TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + openSessionIndex + ` ON sessions (project_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS sessions_project_start_idx ON sessions (project_id, start_time DESC)`,
}

var dropSchema = []string{
	`DROP TABLE IF EXISTS sessions`,
	`DROP TABLE IF EXISTS projects`,
}
