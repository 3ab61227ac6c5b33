package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrUnsupportedCurrency = errors.New("currency is not supported by the wallet")

// Wallet holds one balance per supported currency for a single user.
// INR is the ledger-default currency, USD is the secondary one.
// Both balances stay >= 0; mutation goes through the wallet store's locked
// pair primitive, never through a stale read.
type Wallet struct {
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Balance    Money     `json:"balance"`
	USDBalance Money     `json:"usd_balance"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func NewWallet(userID uuid.UUID, createdAt time.Time) Wallet {
	return Wallet{
		UserID:     userID,
		Balance:    Money{Amount: decimal.Zero, Currency: CurrencyINR},
		USDBalance: Money{Amount: decimal.Zero, Currency: CurrencyUSD},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// SupportedCurrency reports whether a wallet models a balance in the given
// currency. Transfers in anything else are rejected up front instead of
// silently crediting a balance that does not exist.
func SupportedCurrency(code string) bool {
	return code == CurrencyINR || code == CurrencyUSD
}

func (w Wallet) BalanceFor(currency string) (Money, error) {
	switch currency {
	case CurrencyINR:
		return w.Balance, nil
	case CurrencyUSD:
		return w.USDBalance, nil
	default:
		return Money{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
}

func (w *Wallet) SetBalance(balance Money) error {
	switch balance.Currency {
	case CurrencyINR:
		w.Balance = balance
	case CurrencyUSD:
		w.USDBalance = balance
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedCurrency, balance.Currency)
	}
	return nil
}
