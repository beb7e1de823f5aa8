package service

import (
	"context"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/repository"
	"github.com/sirupsen/logrus"
)

type LogService interface {
	LogAction(ctx context.Context, userID, action, description, ipAddress string, metadata map[string]interface{}) error
	GetAllLogs(ctx context.Context, page, limit int) ([]*models.LogEntry, error)
	GetLogsByUserID(ctx context.Context, userID string, page, limit int) ([]*models.LogEntry, error)
}

type logService struct {
	logRepo repository.LogRepository
	log     *logrus.Logger
}

func NewLogService(logRepo repository.LogRepository, log *logrus.Logger) LogService {
	return &logService{logRepo: logRepo, log: log}
}

func (s *logService) LogAction(ctx context.Context, userID, action, description, ipAddress string, metadata map[string]interface{}) error {
	logEntry := &models.LogEntry{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		Metadata:    metadata,
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"action":  action,
	}).Debug(description)
	return s.logRepo.SaveLog(ctx, logEntry)
}

func (s *logService) GetAllLogs(ctx context.Context, page, limit int) ([]*models.LogEntry, error) {
	return s.logRepo.GetAllLogs(ctx, page, limit)
}

func (s *logService) GetLogsByUserID(ctx context.Context, userID string, page, limit int) ([]*models.LogEntry, error) {
	return s.logRepo.GetLogsByUserID(ctx, userID, page, limit)
}
