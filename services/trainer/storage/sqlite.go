package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/aa-samples/services/trainer/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

// sqliteStorage is the sqlite implementation for the notebook run ledger
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner. A zero retention keeps the
// runs forever.
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	if retentionSeconds > 0 {
		s.startRetentionCleaner(ctx)
	}

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func (s *sqliteStorage) cleanRetainedRuns(ctx context.Context) error {
	cutoff := time.Now().Unix() - int64(s.retentionSeconds)
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE finished_at < ?", cutoff)
	return err
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_name       TEXT    NOT NULL,
		interval_minutes   INTEGER NOT NULL,
		weeks              INTEGER NOT NULL,
		output_path        TEXT    NOT NULL,
		status             TEXT    NOT NULL,
		error              TEXT    NOT NULL DEFAULT '',
		started_at         INTEGER NOT NULL,
		finished_at        INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dataset_name ON runs(dataset_name);
	CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveRun appends a run to the ledger
func (s *sqliteStorage) SaveRun(ctx context.Context, record common.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (dataset_name, interval_minutes, weeks, output_path, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.DatasetName, record.IntervalInMinutes, record.Weeks, record.OutputPath, string(record.Status),
		record.Error, record.StartedAt, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// GetRuns returns all the retained runs, oldest first
func (s *sqliteStorage) GetRuns(ctx context.Context) ([]common.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dataset_name, interval_minutes, weeks, output_path, status, error, started_at, finished_at
		FROM runs
		ORDER BY started_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return scanRuns(rows)
}

// GetDatasetRuns returns the retained runs of one dataset, oldest first
func (s *sqliteStorage) GetDatasetRuns(ctx context.Context, datasetName string) ([]common.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dataset_name, interval_minutes, weeks, output_path, status, error, started_at, finished_at
		FROM runs
		WHERE dataset_name = ?
		ORDER BY started_at, id
	`, datasetName)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	results, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for dataset %s", ErrRunsNotFound, datasetName)
	}

	return results, nil
}

func scanRuns(rows *sql.Rows) ([]common.RunRecord, error) {
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.RunRecord, 0)
	for rows.Next() {
		var record common.RunRecord
		var status string

		err := rows.Scan(&record.DatasetName, &record.IntervalInMinutes, &record.Weeks, &record.OutputPath,
			&status, &record.Error, &record.StartedAt, &record.FinishedAt)
		if err != nil {
			return nil, err
		}

		record.Status = common.RunStatus(status)
		results = append(results, record)
	}

	return results, rows.Err()
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedRuns(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained runs", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
