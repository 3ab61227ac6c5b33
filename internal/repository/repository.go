package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"walletapp/internal/domain/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrWalletNotFound    = errors.New("wallet not found")
)

// PairCommit is what the locked-pair callback hands back to the store:
// both updated wallets plus the transaction legs to append. The store applies
// all of it as one unit or none of it.
type PairCommit struct {
	SenderWallet   models.Wallet
	ReceiverWallet models.Wallet
	Records        []models.TransactionRecord
}

// PairFn runs with fresh reads of both wallets while the store holds locks on
// them. Returning an error aborts the commit.
type PairFn func(sender, receiver models.Wallet) (PairCommit, error)

// TransactionFilter narrows a history query. DateTo is an exclusive upper
// bound; callers wanting an inclusive calendar day pass the next midnight.
type TransactionFilter struct {
	Participant uuid.UUID
	Kind        models.TransactionKind // empty matches both legs
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// TransactionEntry is a transaction record joined with the identities of both
// parties, as exposed by the history view.
type TransactionEntry struct {
	Record   models.TransactionRecord
	Sender   models.User
	Receiver models.User
}
