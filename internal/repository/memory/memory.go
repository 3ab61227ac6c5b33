package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
)

// Storage is an in-memory implementation of the user directory, wallet store
// and transaction log. It backs the test suites and local runs; the postgres
// storage implements the same contracts.
type Storage struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	wallets map[uuid.UUID]models.Wallet
	records []models.TransactionRecord
	nextID  int64

	walletMu map[uuid.UUID]*sync.Mutex
	mapMu    sync.Mutex
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[uuid.UUID]models.User),
		wallets:  make(map[uuid.UUID]models.Wallet),
		walletMu: make(map[uuid.UUID]*sync.Mutex),
		nextID:   1,
	}
}

func (s *Storage) SaveUser(ctx context.Context, name, email string, passHash []byte) (uuid.UUID, error) {
	const op = "storage.Memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return uuid.Nil, fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
		}
	}

	id := uuid.New()
	now := time.Now()
	s.users[id] = models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  passHash,
		CreatedAt: now,
	}
	s.wallets[id] = models.NewWallet(id, now)

	return id, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.Memory.GetUserByEmail"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}

	return models.User{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
}

func (s *Storage) GetWalletForUser(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	const op = "storage.Memory.GetWalletForUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return models.Wallet{}, fmt.Errorf("%s: %w", op, repository.ErrWalletNotFound)
	}

	return wallet, nil
}

// Deposit credits a wallet balance outside of any transfer. Registration
// bonuses and test fixtures go through here.
func (s *Storage) Deposit(ctx context.Context, userID uuid.UUID, amount models.Money) error {
	const op = "storage.Memory.Deposit"

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return fmt.Errorf("%s: %w", op, repository.ErrWalletNotFound)
	}

	balance, err := wallet.BalanceFor(amount.Currency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	credited, err := balance.Add(amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wallet.SetBalance(credited); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	wallet.UpdatedAt = time.Now()
	s.wallets[userID] = wallet

	return nil
}

func (s *Storage) lockFor(userID uuid.UUID) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, ok := s.walletMu[userID]; !ok {
		s.walletMu[userID] = &sync.Mutex{}
	}
	return s.walletMu[userID]
}

// WithLockedPair locks both wallets in user-id order, hands fn fresh reads,
// and applies the returned commit while still holding both locks. Lock order
// is deterministic so opposite-direction transfers cannot deadlock.
func (s *Storage) WithLockedPair(ctx context.Context, senderID, receiverID uuid.UUID, fn repository.PairFn) error {
	const op = "storage.Memory.WithLockedPair"

	first, second := s.lockFor(senderID), s.lockFor(receiverID)
	if strings.Compare(senderID.String(), receiverID.String()) > 0 {
		first, second = second, first
	}
	first.Lock()
	defer first.Unlock()
	// same user on both sides holds a single lock, like the row lock does
	if first != second {
		second.Lock()
		defer second.Unlock()
	}

	s.mu.Lock()
	senderWallet, okSender := s.wallets[senderID]
	receiverWallet, okReceiver := s.wallets[receiverID]
	s.mu.Unlock()
	if !okSender || !okReceiver {
		return fmt.Errorf("%s: %w", op, repository.ErrWalletNotFound)
	}

	commit, err := fn(senderWallet, receiverWallet)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	commit.SenderWallet.UpdatedAt = now
	commit.ReceiverWallet.UpdatedAt = now
	s.wallets[senderID] = commit.SenderWallet
	s.wallets[receiverID] = commit.ReceiverWallet
	s.appendLocked(commit.Records, now)

	return nil
}

func (s *Storage) AppendTransactions(ctx context.Context, records []models.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(records, time.Now())
	return nil
}

func (s *Storage) appendLocked(records []models.TransactionRecord, now time.Time) {
	for _, record := range records {
		record.ID = s.nextID
		s.nextID++
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		s.records = append(s.records, record)
	}
}

func (s *Storage) QueryTransactions(ctx context.Context, filter repository.TransactionFilter) ([]repository.TransactionEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.TransactionRecord
	for _, record := range s.records {
		if record.SenderID != filter.Participant && record.ReceiverID != filter.Participant {
			continue
		}
		if filter.Kind != "" && record.Kind != filter.Kind {
			continue
		}
		if filter.DateFrom != nil && record.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !record.CreatedAt.Before(*filter.DateTo) {
			continue
		}
		matched = append(matched, record)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= total {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	entries := make([]repository.TransactionEntry, 0, len(matched))
	for _, record := range matched {
		entries = append(entries, repository.TransactionEntry{
			Record:   record,
			Sender:   s.users[record.SenderID],
			Receiver: s.users[record.ReceiverID],
		})
	}

	return entries, total, nil
}

func (s *Storage) Close() error { return nil }
