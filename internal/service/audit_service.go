package service

import (
	"context"
	"encoding/json"

	"peopleops/internal/model"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService exposes the audit trail to the API.
type AuditService interface {
	ListAuditLogs(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

// AuditRecorder writes audit rows from inside workflow transactions. A
// failed write is logged and swallowed: observability must never fail the
// primary operation.
type AuditRecorder struct {
	repo   repository.AuditRepository
	logger *logrus.Logger
}

func NewAuditRecorder(repo repository.AuditRepository, logger *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, logger: logger}
}

// Record serializes details and appends an audit row.
func (a *AuditRecorder) Record(ctx context.Context, userID *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := a.repo.Log(ctx, entry); err != nil {
		a.logger.WithFields(logrus.Fields{
			"action":    action,
			"entity_id": entityID,
		}).WithError(err).Warn("failed to write audit log")
	}
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit)
}
