package storage

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Ensure compliance
var _ ports.AuditRepository = (*SQLiteAdapter)(nil)

func (a *SQLiteAdapter) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	model := toAuditModel(entry)
	return a.db.WithContext(ctx).Create(&model).Error
}

func (a *SQLiteAdapter) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	var models []AuditLogModel
	if err := a.db.WithContext(ctx).Order("timestamp desc").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	logs := make([]domain.AuditLog, len(models))
	for i, m := range models {
		logs[i] = toAuditDomain(m)
	}
	return logs, nil
}
