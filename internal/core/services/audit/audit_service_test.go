package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// MockAuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditLog(ctx context.Context, log domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func TestAuditService_Log(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	svc := NewAuditService(mockRepo)

	ctx := context.Background()

	// Unattended callers fall back to the system actor.
	mockRepo.On("SaveAuditLog", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.ActionDeviceDenied && l.Target == "10.0.0.5" && l.Actor == "system"
	})).Return(nil)

	err := svc.Log(ctx, domain.ActionDeviceDenied, "10.0.0.5", "Added to blacklist")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestAuditService_LogWithActor(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	svc := NewAuditService(mockRepo)

	ctx := WithClientIP(WithActor(context.Background(), "alice"), "192.168.1.10")

	mockRepo.On("SaveAuditLog", mock.Anything, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.ActionAlertAcked && l.Actor == "alice" && l.IPAddress == "192.168.1.10"
	})).Return(nil)

	err := svc.Log(ctx, domain.ActionAlertAcked, "a1b2", "Alert acknowledged")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestAuditService_LogRejectsUnknownAction(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	svc := NewAuditService(mockRepo)

	err := svc.Log(context.Background(), domain.AuditAction("REBOOT"), "x", "y")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	mockRepo.AssertNotCalled(t, "SaveAuditLog", mock.Anything, mock.Anything)
}

func TestAuditService_GetLogs(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	svc := NewAuditService(mockRepo)

	logs := []domain.AuditLog{{ID: 1, Action: domain.ActionSweepStarted}}
	mockRepo.On("ListAuditLogs", mock.Anything, 10).Return(logs, nil)

	res, err := svc.GetLogs(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, domain.ActionSweepStarted, res[0].Action)
}
