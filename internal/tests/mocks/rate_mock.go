package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"walletapp/internal/domain/models"
)

type RateProviderMock struct {
	mock.Mock
}

func (m *RateProviderMock) GetRate(ctx context.Context, amount models.Money, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
