package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"walletapp/internal/domain/models"
)

type AuthRepositoryMock struct {
	mock.Mock
}

func (m *AuthRepositoryMock) SaveUser(ctx context.Context, name, email string, passHash []byte) (uuid.UUID, error) {
	args := m.Called(ctx, name, email, passHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *AuthRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}
