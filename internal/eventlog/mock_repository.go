package eventlog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of Repository for service tests.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	args := m.Called(ctx, eventType, userID, payload, metadata)
	return args.Error(0)
}

func (m *MockRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]Event, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
