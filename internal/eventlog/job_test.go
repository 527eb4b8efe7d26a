package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCleanupJob_Process(t *testing.T) {
	mockRepo := new(MockRepository)
	job := NewCleanupJob(NewService(mockRepo), 90)

	mockRepo.On("CleanupOldEvents", mock.Anything, 90).Return(int64(412), nil)

	require.NoError(t, job.Process(context.Background()))
	mockRepo.AssertExpectations(t)
}

func TestCleanupJob_PropagatesFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	job := NewCleanupJob(NewService(mockRepo), 30)

	dbErr := errors.New("connection reset")
	mockRepo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(0), dbErr)

	err := job.Process(context.Background())
	assert.ErrorIs(t, err, dbErr)
}

func TestCleanupJob_RetentionFloor(t *testing.T) {
	mockRepo := new(MockRepository)
	job := NewCleanupJob(NewService(mockRepo), 1)

	// A one-day retention would gut the audit log; the floor applies
	mockRepo.On("CleanupOldEvents", mock.Anything, MinRetentionDays).Return(int64(3), nil)

	require.NoError(t, job.Process(context.Background()))
	mockRepo.AssertExpectations(t)
}
