package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// SQLiteAdapter implements ports.AuditRepository using GORM and SQLite.
// Device and alert state stay in memory; only the operator audit trail
// survives restarts.
type SQLiteAdapter struct {
	db *gorm.DB
}

// AuditLogModel is the GORM model for audit entries.
type AuditLogModel struct {
	ID        uint   `gorm:"primaryKey"`
	Actor     string `gorm:"index"`
	Action    string `gorm:"index"`
	Target    string
	Details   string
	IPAddress string
	Timestamp time.Time `gorm:"index"`
}

// TableName pins the table so renaming the Go type later cannot silently
// orphan existing rows.
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// NewSQLiteAdapter initializes the database, instruments it and migrates
// the schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to instrument audit database: %w", err)
	}

	if err := db.AutoMigrate(&AuditLogModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit schema: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
