package services

import (
	"github.com/stretchr/testify/mock"
)

// MockProgressPublisher is a mock for the ProgressPublisher interface
type MockProgressPublisher struct {
	mock.Mock
}

func (m *MockProgressPublisher) BroadcastProgress(step string, progress int, message string) {
	m.Called(step, progress, message)
}

func (m *MockProgressPublisher) BroadcastError(code, message string) {
	m.Called(code, message)
}
