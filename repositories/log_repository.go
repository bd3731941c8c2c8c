package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/user-management/models"
)

// LogRepository interface defines audit log database operations. Logs are
// append-only: there is no update or delete.
type LogRepository interface {
	GetAll(ctx context.Context) ([]models.Log, error)
	GetByID(ctx context.Context, id int64) (*models.Log, error)
	GetByType(ctx context.Context, logType string) ([]models.Log, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Log, error)
	Create(ctx context.Context, log *models.Log) error
	Count(ctx context.Context) (int, error)
}

// logRepository implements LogRepository interface
type logRepository struct {
	db DBTX
}

// NewLogRepository creates a new log repository
func NewLogRepository(db DBTX) LogRepository {
	return &logRepository{db: db}
}

const logColumns = "id, user_id, created_at, type, changes"

// GetAll retrieves all logs in id order
func (r *logRepository) GetAll(ctx context.Context) ([]models.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// GetByID retrieves a log by ID
func (r *logRepository) GetByID(ctx context.Context, id int64) (*models.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE id = ?`

	var log models.Log
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&log.ID,
		&log.UserID,
		&log.CreatedAt,
		&log.Type,
		&log.Changes,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("log with ID %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	return &log, nil
}

// GetByType retrieves logs whose type exactly matches the argument
func (r *logRepository) GetByType(ctx context.Context, logType string) ([]models.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE type = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, logType)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs by type: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// GetByUserID retrieves all logs describing the given user
func (r *logRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Log, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE user_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs by user: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// Create persists a new log entry and assigns its ID
func (r *logRepository) Create(ctx context.Context, log *models.Log) error {
	query := `
		INSERT INTO logs (user_id, created_at, type, changes)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		log.UserID,
		log.CreatedAt,
		log.Type,
		log.Changes,
	)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	log.ID = id
	return nil
}

// Count returns the total number of logs
func (r *logRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}

	return count, nil
}

// scanLogs scans all rows of a log query
func scanLogs(rows *sql.Rows) ([]models.Log, error) {
	var logs []models.Log
	for rows.Next() {
		var log models.Log
		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.CreatedAt,
			&log.Type,
			&log.Changes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logs: %w", err)
	}

	return logs, nil
}
