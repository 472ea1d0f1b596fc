package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/morningcharge/internal/models"
)

// CompletionRepository keeps the full history of task completions.
//
// The day record in the key/value store only holds status per task index;
// this log keeps every field of each [models.CompletionRecord].
type CompletionRepository struct {
	db *sql.DB
}

// NewCompletionRepository creates a new CompletionRepository with the given database connection
func NewCompletionRepository(db *sql.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Create appends rec under day (YYYYMMDD).
func (r *CompletionRepository) Create(day string, rec models.CompletionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("completion record is missing an id")
	}

	query := `
		INSERT INTO completion_log (id, day, task_id, task_name, task_index, status, completion_time, time_difference, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		rec.ID,
		day,
		rec.TaskID,
		rec.TaskName,
		rec.TaskIndex,
		string(rec.Status),
		rec.CompletionTime,
		rec.TimeDifference,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert completion: %w", err)
	}

	return nil
}

// ListByDay returns the completions recorded on day in the order they were made.
func (r *CompletionRepository) ListByDay(day string) ([]models.CompletionRecord, error) {
	query := `
		SELECT id, task_id, task_name, task_index, status, completion_time, time_difference, completed_at
		FROM completion_log
		WHERE day = ?
		ORDER BY completed_at ASC, task_index ASC
	`

	rows, err := r.db.Query(query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// DeleteDay removes every completion recorded on day and returns how many were removed.
func (r *CompletionRepository) DeleteDay(day string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM completion_log WHERE day = ?`, day)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Count returns the number of logged completions.
func (r *CompletionRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM completion_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return n, nil
}

// scanRow scans a row from [sql.Rows] into a [models.CompletionRecord]
func (r *CompletionRepository) scanRow(rows *sql.Rows) (models.CompletionRecord, error) {
	var (
		rec         models.CompletionRecord
		status      string
		completedAt time.Time
	)

	err := rows.Scan(&rec.ID, &rec.TaskID, &rec.TaskName, &rec.TaskIndex, &status, &rec.CompletionTime, &rec.TimeDifference, &completedAt)
	if err != nil {
		return models.CompletionRecord{}, fmt.Errorf("failed to scan completion: %w", err)
	}

	rec.Status = models.CompletionStatus(status)
	rec.Timestamp = completedAt
	return rec, nil
}
