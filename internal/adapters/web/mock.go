package web

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockEngine is a mock of ports.Engine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Observe(ctx context.Context, obs domain.Observation) (domain.DeviceRecord, error) {
	args := m.Called(ctx, obs)
	return args.Get(0).(domain.DeviceRecord), args.Error(1)
}

func (m *MockEngine) Devices() []domain.DeviceRecord {
	args := m.Called()
	return args.Get(0).([]domain.DeviceRecord)
}

func (m *MockEngine) Device(ip string) (domain.DeviceRecord, bool) {
	args := m.Called(ip)
	return args.Get(0).(domain.DeviceRecord), args.Bool(1)
}

func (m *MockEngine) Stats() domain.InventoryStats {
	args := m.Called()
	return args.Get(0).(domain.InventoryStats)
}

func (m *MockEngine) ScanFrequency(ip string) int {
	args := m.Called(ip)
	return args.Int(0)
}

func (m *MockEngine) Alerts(filter domain.AlertFilter, severity domain.Severity) []domain.Alert {
	args := m.Called(filter, severity)
	return args.Get(0).([]domain.Alert)
}

func (m *MockEngine) DeviceAlerts(ip string) []domain.Alert {
	args := m.Called(ip)
	return args.Get(0).([]domain.Alert)
}

func (m *MockEngine) Acknowledge(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *MockEngine) ClearAlerts(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockEngine) Allow(ctx context.Context, ip string) error {
	args := m.Called(ctx, ip)
	return args.Error(0)
}

func (m *MockEngine) Deny(ctx context.Context, ip string) error {
	args := m.Called(ctx, ip)
	return args.Error(0)
}

func (m *MockEngine) AccessLists() (allowed, denied []string) {
	args := m.Called()
	return args.Get(0).([]string), args.Get(1).([]string)
}

func (m *MockEngine) StartSweep(ctx context.Context, targets []string) (domain.SweepStatus, error) {
	args := m.Called(ctx, targets)
	return args.Get(0).(domain.SweepStatus), args.Error(1)
}

func (m *MockEngine) SweepStatus() domain.SweepStatus {
	args := m.Called()
	return args.Get(0).(domain.SweepStatus)
}

func (m *MockEngine) ReloadSignatures(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
