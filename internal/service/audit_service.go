package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

// logAudit writes one audit row within the caller's transaction context.
// Details are serialized to the jsonb column; a nil map stores "{}".
func logAudit(ctx context.Context, audits repository.AuditRepository, actor workflow.Actor, action, entityID, entityName string, details map[string]interface{}) error {
	payload := "{}"
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload = string(b)
		}
	}
	actorID := actor.ID
	if err := audits.Log(ctx, &model.AuditLog{
		UserID:     &actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// AuditService exposes the trail read-only; rows are only ever written by
// the document services, inside their transactions.
type AuditService interface {
	List(ctx context.Context, actor workflow.Actor, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	audits repository.AuditRepository
}

func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) List(ctx context.Context, actor workflow.Actor, page, limit int) ([]model.AuditLog, int64, error) {
	if !actor.Superuser && !actor.Approver {
		return nil, 0, &workflow.PermissionError{Action: "view audit trail", Reason: "approver capability required"}
	}
	return s.audits.List(ctx, page, limit)
}
