package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"walletapp/internal/domain/models"
)

// swagger:model
type WalletResponse struct {
	Balance    decimal.Decimal `json:"balance" example:"1500.00"`
	USDBalance decimal.Decimal `json:"usd_balance" example:"20.50"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewWalletResponse(wallet models.Wallet) WalletResponse {
	return WalletResponse{
		Balance:    wallet.Balance.Amount,
		USDBalance: wallet.USDBalance.Amount,
		CreatedAt:  wallet.CreatedAt,
		UpdatedAt:  wallet.UpdatedAt,
	}
}
