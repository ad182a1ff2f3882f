package audit

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

type contextKey string

const (
	actorKey    contextKey = "audit_actor"
	clientIPKey contextKey = "audit_client_ip"
)

// WithActor stamps the operator identity onto the context. Transport
// middleware calls this before handing a request to the engine.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// WithClientIP stamps the caller address onto the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// AuditService records operator-triggered mutations through the repository.
type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log persists one audit entry. Actor and caller address come from the
// context when transport middleware stamped them; unattended callers are
// recorded as "system".
func (s *AuditService) Log(ctx context.Context, action domain.AuditAction, target, details string) error {
	actor := "system"
	if a, ok := ctx.Value(actorKey).(string); ok && a != "" {
		actor = a
	}
	clientIP := ""
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		clientIP = ip
	}

	// Use the domain factory to enforce entry invariants.
	entry, err := domain.NewAuditLog(actor, action, target, details, clientIP)
	if err != nil {
		return err
	}
	return s.repo.SaveAuditLog(ctx, *entry)
}

// GetLogs retrieves historical audit records, newest first.
func (s *AuditService) GetLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.repo.ListAuditLogs(ctx, limit)
}
