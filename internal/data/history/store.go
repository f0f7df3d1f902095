// Package history persists one row per resolve run so variant churn and
// failure trends stay inspectable across invocations.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Snapshot summarizes one resolve run.
type Snapshot struct {
	ProjectKey       string
	RunID            string
	SchemaVersion    int
	Timestamp        time.Time
	ReferenceVariant string
	ModuleCount      int
	AndroidCount     int
	GenericCount     int
	FailedCount      int
	UnknownCount     int
	DependencyCount  int
	CycleCount       int
	Duration         time.Duration
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts when several resolves share a db.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSnapshot(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.RunID == "" {
		return fmt.Errorf("snapshot run id must not be empty")
	}
	if snapshot.ProjectKey == "" {
		snapshot.ProjectKey = "default"
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	query := `
INSERT INTO resolves (
  project_key, run_id, schema_version, ts_utc, reference_variant, module_count,
  android_count, generic_count, failed_count, unknown_count, dependency_count,
  cycle_count, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, run_id) DO UPDATE SET
  ts_utc=excluded.ts_utc,
  reference_variant=excluded.reference_variant,
  module_count=excluded.module_count,
  android_count=excluded.android_count,
  generic_count=excluded.generic_count,
  failed_count=excluded.failed_count,
  unknown_count=excluded.unknown_count,
  dependency_count=excluded.dependency_count,
  cycle_count=excluded.cycle_count,
  duration_ms=excluded.duration_ms
`
	_, err := s.db.Exec(
		query,
		snapshot.ProjectKey,
		snapshot.RunID,
		snapshot.SchemaVersion,
		snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
		snapshot.ReferenceVariant,
		snapshot.ModuleCount,
		snapshot.AndroidCount,
		snapshot.GenericCount,
		snapshot.FailedCount,
		snapshot.UnknownCount,
		snapshot.DependencyCount,
		snapshot.CycleCount,
		snapshot.Duration.Milliseconds(),
	)
	return err
}

func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT
  project_key, run_id, schema_version, ts_utc, reference_variant, module_count,
  android_count, generic_count, failed_count, unknown_count, dependency_count,
  cycle_count, duration_ms
FROM resolves
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			snapshot   Snapshot
		)
		if err := rows.Scan(
			&snapshot.ProjectKey,
			&snapshot.RunID,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.ReferenceVariant,
			&snapshot.ModuleCount,
			&snapshot.AndroidCount,
			&snapshot.GenericCount,
			&snapshot.FailedCount,
			&snapshot.UnknownCount,
			&snapshot.DependencyCount,
			&snapshot.CycleCount,
			&durationMS,
		); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, tsRaw); err == nil {
			snapshot.Timestamp = ts
		}
		snapshot.Duration = time.Duration(durationMS) * time.Millisecond
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}
