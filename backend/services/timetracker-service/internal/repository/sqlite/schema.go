package sqlite

// Timestamps are TEXT so the driver hands back the stored string untouched;
// see parseTimestamp for the accepted layouts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL CHECK (name <> ''),
		type TEXT NOT NULL CHECK (type <> ''),
		hourly_rate REAL NOT NULL DEFAULT 0 CHECK (hourly_rate >= 0),
		total_hours REAL NOT NULL DEFAULT 0,
		estimated_cost REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		work_details TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS sessions_one_open_per_project ON sessions (project_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS sessions_project_idx ON sessions (project_id)`,
}

var dropSchema = []string{
	`DROP TABLE IF EXISTS sessions`,
	`DROP TABLE IF EXISTS projects`,
}
