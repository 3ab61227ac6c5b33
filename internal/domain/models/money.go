package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

var (
	ErrInvalidAmount    = errors.New("amount must not be negative")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter uppercase code")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is a fixed-point decimal amount tagged with a currency code.
// Balances and transfer amounts are never represented as floats: many small
// transfers must not accumulate drift.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	if !ValidCurrencyCode(currency) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func ValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	res := m.Amount.Sub(other.Amount)
	if res.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: res, Currency: m.Currency}, nil
}

// Cmp returns -1, 0 or 1 comparing the amounts. Comparing money in different
// currencies is a programming error and is rejected.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return m.Amount.Cmp(other.Amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	cmp, err := m.Cmp(other)
	if err != nil {
		return false, err
	}
	return cmp < 0, nil
}

// Convert multiplies the amount by rate and truncates the result to two
// decimal places toward zero. Truncation never rounds up, so conversion can
// only lose up to 0.01 in favor of the ledger.
func (m Money) Convert(rate decimal.Decimal, toCurrency string) (Money, error) {
	if !ValidCurrencyCode(toCurrency) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, toCurrency)
	}
	return Money{
		Amount:   m.Amount.Mul(rate).Truncate(2),
		Currency: toCurrency,
	}, nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
