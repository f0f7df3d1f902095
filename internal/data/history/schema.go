package history

import (
	"database/sql"
	"fmt"
)

const SchemaVersion = 1

var schema = `
CREATE TABLE IF NOT EXISTS resolves (
  project_key TEXT NOT NULL DEFAULT 'default',
  run_id TEXT NOT NULL,
  schema_version INTEGER NOT NULL,
  ts_utc TEXT NOT NULL,
  reference_variant TEXT NOT NULL DEFAULT '',
  module_count INTEGER NOT NULL,
  android_count INTEGER NOT NULL,
  generic_count INTEGER NOT NULL,
  failed_count INTEGER NOT NULL,
  unknown_count INTEGER NOT NULL,
  dependency_count INTEGER NOT NULL,
  cycle_count INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
  PRIMARY KEY (project_key, run_id)
);
CREATE INDEX IF NOT EXISTS idx_resolves_ts ON resolves(ts_utc);
CREATE INDEX IF NOT EXISTS idx_resolves_project_key ON resolves(project_key);
`

func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}
