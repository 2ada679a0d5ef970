package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendVerificationMail(email, token string) error {
	args := m.Called(email, token)
	return args.Error(0)
}

func (m *MockMailManager) SendReminderMail(email, title string, dueDate time.Time) error {
	args := m.Called(email, title, dueDate)
	return args.Error(0)
}
