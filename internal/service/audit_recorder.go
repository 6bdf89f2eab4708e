package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// auditRecorder writes best-effort audit entries for admin mutations.
type auditRecorder struct {
	writer auditWriter
	logger *zap.Logger
}

func (r auditRecorder) record(ctx context.Context, actor *Actor, action, resource, id string, oldValues, newValues interface{}) {
	if r.writer == nil || actor == nil || actor.Claims == nil {
		return
	}
	userID := actor.Claims.UserID
	entry := &models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Resource:  resource,
		OldValues: marshalAudit(oldValues),
		NewValues: marshalAudit(newValues),
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if id != "" {
		entry.ResourceID = &id
	}
	if err := r.writer.CreateAuditLog(ctx, entry); err != nil && r.logger != nil {
		r.logger.Warn("failed to record audit log", zap.String("action", action), zap.String("resource", resource), zap.String("id", id), zap.Error(err))
	}
}

func marshalAudit(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
