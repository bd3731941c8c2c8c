package services

import (
	"context"

	"github.com/blogem/user-management/models"
	"github.com/blogem/user-management/repositories"
)

// LogService interface defines the read-only projection over audit logs
type LogService interface {
	GetAllLogs(ctx context.Context) ([]models.Log, error)
	FilterByType(ctx context.Context, logType string) ([]models.Log, error)
	GetLogsForUser(ctx context.Context, userID int64) ([]models.Log, error)
	GetLogByID(ctx context.Context, id int64) (*models.Log, error)
}

// logService implements LogService interface
type logService struct {
	logRepo repositories.LogRepository
}

// NewLogService creates a new log service
func NewLogService(logRepo repositories.LogRepository) LogService {
	return &logService{logRepo: logRepo}
}

// GetAllLogs retrieves all audit log entries
func (s *logService) GetAllLogs(ctx context.Context) ([]models.Log, error) {
	return s.logRepo.GetAll(ctx)
}

// FilterByType retrieves logs whose type exactly equals the argument.
// Deciding what an empty type means is the caller's job; this always
// filters.
func (s *logService) FilterByType(ctx context.Context, logType string) ([]models.Log, error) {
	return s.logRepo.GetByType(ctx, logType)
}

// GetLogsForUser retrieves all logs describing the given user, including
// logs for users that have since been deleted
func (s *logService) GetLogsForUser(ctx context.Context, userID int64) ([]models.Log, error) {
	return s.logRepo.GetByUserID(ctx, userID)
}

// GetLogByID looks a log up by ID, returning (nil, nil) when absent
func (s *logService) GetLogByID(ctx context.Context, id int64) (*models.Log, error) {
	log, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}
