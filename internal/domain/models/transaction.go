package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindSent     TransactionKind = "SENT"
	KindReceived TransactionKind = "RECEIVED"
)

// ParseTransactionKind maps a client-supplied type filter to a kind.
// Unrecognized values come back as the empty kind, meaning "no filter".
func ParseTransactionKind(s string) TransactionKind {
	switch s {
	case "sent", "SENT", "Sent":
		return KindSent
	case "received", "RECEIVED", "Received":
		return KindReceived
	default:
		return ""
	}
}

// TransactionRecord is one leg of a transfer, append-only once written.
// A single transfer produces two records: the SENT leg with the
// pre-conversion amount and the RECEIVED leg with the converted amount.
type TransactionRecord struct {
	ID           int64           `json:"id" db:"id"`
	SenderID     uuid.UUID       `json:"sender_id" db:"sender_id"`
	ReceiverID   uuid.UUID       `json:"receiver_id" db:"receiver_id"`
	Amount       Money           `json:"amount"`
	FromCurrency string          `json:"from_currency" db:"from_currency"`
	ToCurrency   string          `json:"to_currency" db:"to_currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" db:"exchange_rate"`
	Kind         TransactionKind `json:"kind" db:"kind"`
	OriginIP     string          `json:"origin_ip" db:"origin_ip"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
