package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// swagger:model
type TransactionParty struct {
	Name  string `json:"name" example:"John Doe"`
	Email string `json:"email" example:"john@example.com"`
}

// swagger:model
type TransactionListItem struct {
	ID           int64            `json:"id" example:"42"`
	Sender       TransactionParty `json:"sender"`
	Receiver     TransactionParty `json:"receiver"`
	Amount       decimal.Decimal  `json:"amount" example:"100.50"`
	FromCurrency string           `json:"from_currency" example:"INR"`
	ToCurrency   string           `json:"to_currency" example:"USD"`
	ExchangeRate decimal.Decimal  `json:"exchange_rate" example:"0.012"`
	Type         string           `json:"type" example:"SENT"`
	CreatedAt    time.Time        `json:"created_at"`
}

// swagger:model
type TransactionListResponse struct {
	Transactions []TransactionListItem `json:"transactions"`
	Page         int                   `json:"page" example:"1"`
	PageSize     int                   `json:"page_size" example:"10"`
	Total        int                   `json:"total" example:"23"`
}
