package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"avexport/internal/assets"
	"avexport/internal/config"
)

// Store manages export-ledger persistence backed by SQLite. The same
// database file also holds the upstream pipeline state tables; the store
// only ever writes its own tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.DBPath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the shared database handle for read-only collaborators such as
// artifact discovery.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether any export record exists for the interview. This is
// the exactly-once gate: a recorded interview is never re-selected.
func (s *Store) Exists(ctx context.Context, interviewName string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM exported_assets WHERE interview_name = ?`,
		interviewName,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check exported interview: %w", err)
	}
	return count > 0, nil
}

// InsertBatch appends every record in a single transaction. Either all
// records for the interview become durable or none do.
func (s *Store) InsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO exported_assets (
            interview_name, asset_path, asset_type, asset_export_type,
            asset_tag, asset_destination, exported_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, record := range records {
		if _, err := stmt.ExecContext(
			ctx,
			record.InterviewName,
			record.AssetPath,
			string(record.Kind),
			string(record.Tier),
			string(record.Tag),
			record.Destination,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert ledger record for %s: %w", record.AssetPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger batch: %w", err)
	}
	return nil
}

// ByInterview returns the export records for one interview ordered by id.
func (s *Store) ByInterview(ctx context.Context, interviewName string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM exported_assets WHERE interview_name = ? ORDER BY id`,
		interviewName,
	)
	if err != nil {
		return nil, fmt.Errorf("query records by interview: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List returns every export record ordered by id, newest last.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM exported_assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Stats summarizes the ledger contents.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByTag: make(map[assets.Tag]int)}

	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(DISTINCT interview_name), COUNT(1) FROM exported_assets`,
	).Scan(&stats.Interviews, &stats.Artifacts)
	if err != nil {
		return Stats{}, fmt.Errorf("ledger counts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT asset_tag, COUNT(1) FROM exported_assets GROUP BY asset_tag`)
	if err != nil {
		return Stats{}, fmt.Errorf("ledger tag counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		var count int
		if err := rows.Scan(&tag, &count); err != nil {
			return Stats{}, err
		}
		stats.ByTag[assets.Tag(tag)] = count
	}
	return stats, rows.Err()
}

const recordColumns = "id, interview_name, asset_path, asset_type, asset_export_type, asset_tag, asset_destination, exported_at"

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		record      Record
		kindStr     string
		tierStr     string
		tagStr      string
		exportedRaw string
	)
	if err := scanner.Scan(
		&record.ID,
		&record.InterviewName,
		&record.AssetPath,
		&kindStr,
		&tierStr,
		&tagStr,
		&record.Destination,
		&exportedRaw,
	); err != nil {
		return Record{}, err
	}

	var err error
	if record.Kind, err = assets.ParseKind(kindStr); err != nil {
		return Record{}, fmt.Errorf("ledger row %d: %w", record.ID, err)
	}
	if record.Tier, err = assets.ParseTier(tierStr); err != nil {
		return Record{}, fmt.Errorf("ledger row %d: %w", record.ID, err)
	}
	if record.Tag, err = assets.ParseTag(tagStr); err != nil {
		return Record{}, fmt.Errorf("ledger row %d: %w", record.ID, err)
	}
	if exported, err := parseTimeString(exportedRaw); err == nil {
		record.ExportedAt = exported
	}
	return record, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
