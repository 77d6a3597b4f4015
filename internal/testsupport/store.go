package testsupport

import (
	"context"
	"database/sql"
	"testing"

	"avexport/internal/config"
	"avexport/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// pipelineSchema mirrors the upstream state tables discovery reads. Only the
// columns the exporter touches are modeled.
const pipelineSchema = `
CREATE TABLE IF NOT EXISTS pdf_reports (
    interview_name TEXT PRIMARY KEY,
    study_id TEXT NOT NULL,
    pr_path TEXT
);
CREATE TABLE IF NOT EXISTS load_openface (
    interview_name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS video_streams (
    interview_name TEXT NOT NULL,
    ir_role TEXT NOT NULL,
    vs_path TEXT NOT NULL,
    video_path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS openface (
    interview_name TEXT NOT NULL,
    ir_role TEXT NOT NULL,
    of_processed_path TEXT NOT NULL
);
`

// SeedPipelineSchema creates the upstream pipeline tables inside the shared
// test database.
func SeedPipelineSchema(t testing.TB, store *ledger.Store) {
	t.Helper()
	if _, err := store.DB().Exec(pipelineSchema); err != nil {
		t.Fatalf("seed pipeline schema: %v", err)
	}
}

// InsertReadyInterview marks an interview as fully processed upstream so
// discovery can select it.
func InsertReadyInterview(t testing.TB, db *sql.DB, studyID, interviewName string) {
	t.Helper()
	if _, err := db.ExecContext(
		context.Background(),
		`INSERT INTO pdf_reports (interview_name, study_id) VALUES (?, ?)`,
		interviewName, studyID,
	); err != nil {
		t.Fatalf("insert pdf report: %v", err)
	}
	if _, err := db.ExecContext(
		context.Background(),
		`INSERT INTO load_openface (interview_name) VALUES (?)`,
		interviewName,
	); err != nil {
		t.Fatalf("insert load_openface: %v", err)
	}
}

// InsertStream records one split video stream for an interview.
func InsertStream(t testing.TB, db *sql.DB, interviewName, role, vsPath, videoPath string) {
	t.Helper()
	if _, err := db.ExecContext(
		context.Background(),
		`INSERT INTO video_streams (interview_name, ir_role, vs_path, video_path) VALUES (?, ?, ?, ?)`,
		interviewName, role, vsPath, videoPath,
	); err != nil {
		t.Fatalf("insert video stream: %v", err)
	}
}

// InsertOpenFace records one per-role OpenFace output directory for an
// interview.
func InsertOpenFace(t testing.TB, db *sql.DB, interviewName, role, processedPath string) {
	t.Helper()
	if _, err := db.ExecContext(
		context.Background(),
		`INSERT INTO openface (interview_name, ir_role, of_processed_path) VALUES (?, ?, ?)`,
		interviewName, role, processedPath,
	); err != nil {
		t.Fatalf("insert openface row: %v", err)
	}
}
