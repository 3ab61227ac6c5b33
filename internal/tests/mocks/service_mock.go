package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
	"walletapp/internal/services"
)

type TransferServiceMock struct {
	mock.Mock
}

func (m *TransferServiceMock) Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail string,
	amount models.Money, toCurrency string, originIP string) error {
	args := m.Called(ctx, senderID, receiverEmail, amount, toCurrency, originIP)
	return args.Error(0)
}

type WalletServiceMock struct {
	mock.Mock
}

func (m *WalletServiceMock) GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Wallet), args.Error(1)
}

type HistoryServiceMock struct {
	mock.Mock
}

func (m *HistoryServiceMock) List(ctx context.Context, userID uuid.UUID, filter services.HistoryFilter, page int) ([]repository.TransactionEntry, int, error) {
	args := m.Called(ctx, userID, filter, page)
	return args.Get(0).([]repository.TransactionEntry), args.Int(1), args.Error(2)
}
