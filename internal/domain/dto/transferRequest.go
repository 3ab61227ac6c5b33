package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"walletapp/internal/domain/models"
)

var (
	ErrMissingReceiver   = errors.New("receiver_email: required")
	ErrAmountNotPositive = errors.New("amount: must be greater than zero")
	ErrAmountTooPrecise  = errors.New("amount: at most 2 decimal places")
	ErrAmountTooLarge    = errors.New("amount: at most 12 digits")
)

// swagger:model
type TransferRequest struct {
	ReceiverEmail string          `json:"receiver_email" example:"jane@example.com"`
	Amount        decimal.Decimal `json:"amount" example:"100.50"`
	FromCurrency  string          `json:"from_currency" example:"INR"`
	ToCurrency    string          `json:"to_currency" example:"USD"`
}

// Normalize uppercases the currency codes and fills in the INR defaults.
func (r *TransferRequest) Normalize() {
	r.FromCurrency = strings.ToUpper(strings.TrimSpace(r.FromCurrency))
	r.ToCurrency = strings.ToUpper(strings.TrimSpace(r.ToCurrency))
	if r.FromCurrency == "" {
		r.FromCurrency = models.CurrencyINR
	}
	if r.ToCurrency == "" {
		r.ToCurrency = models.CurrencyINR
	}
}

func (r TransferRequest) Validate() error {
	if r.ReceiverEmail == "" {
		return ErrMissingReceiver
	}
	if !r.Amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if r.Amount.Exponent() < -2 {
		return ErrAmountTooPrecise
	}
	if r.Amount.NumDigits() > 12 {
		return ErrAmountTooLarge
	}
	if !models.ValidCurrencyCode(r.FromCurrency) {
		return fmt.Errorf("from_currency: %w", models.ErrInvalidCurrency)
	}
	if !models.ValidCurrencyCode(r.ToCurrency) {
		return fmt.Errorf("to_currency: %w", models.ErrInvalidCurrency)
	}
	return nil
}
