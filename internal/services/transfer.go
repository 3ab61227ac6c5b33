package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
)

type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type WalletStore interface {
	GetWalletForUser(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
	WithLockedPair(ctx context.Context, senderID, receiverID uuid.UUID, fn repository.PairFn) error
}

type RateProvider interface {
	GetRate(ctx context.Context, amount models.Money, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// TransferService moves money between two wallets: it resolves the receiver,
// checks funds, fetches a rate, and applies the debit, the credit and both
// transaction legs as one atomic unit under the wallet store's pair lock.
type TransferService struct {
	log     *slog.Logger
	users   UserDirectory
	wallets WalletStore
	rates   RateProvider
}

func NewTransferService(log *slog.Logger, users UserDirectory, wallets WalletStore, rates RateProvider) *TransferService {
	return &TransferService{
		log:     log,
		users:   users,
		wallets: wallets,
		rates:   rates,
	}
}

func (s *TransferService) GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	const op = "services.TransferService.GetWallet"

	wallet, err := s.wallets.GetWalletForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return models.Wallet{}, fmt.Errorf("%s: %w", op, ErrWalletNotFound)
		}
		return models.Wallet{}, fmt.Errorf("%s: %w", op, err)
	}

	return wallet, nil
}

// Transfer debits amount from the sender and credits the converted amount to
// the receiver. Every step before the locked commit leaves state untouched,
// so those failures are safe to retry from scratch.
func (s *TransferService) Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail string,
	amount models.Money, toCurrency string, originIP string) error {
	const op = "services.TransferService.Transfer"

	log := s.log.With(
		slog.String("op", op),
		slog.String("sender_id", senderID.String()),
		slog.String("amount", amount.String()),
		slog.String("to_currency", toCurrency),
	)

	if !models.SupportedCurrency(amount.Currency) {
		return fmt.Errorf("%s: %w: %q", op, ErrUnsupportedCurrency, amount.Currency)
	}
	if !models.SupportedCurrency(toCurrency) {
		return fmt.Errorf("%s: %w: %q", op, ErrUnsupportedCurrency, toCurrency)
	}

	receiver, err := s.users.GetUserByEmail(ctx, receiverEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrReceiverNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if receiver.ID == senderID {
		return fmt.Errorf("%s: %w", op, ErrSelfTransfer)
	}

	// Advisory pre-check on a plain read: rejects the obviously broke sender
	// before paying for a rate lookup. The check that matters runs under the
	// pair lock below.
	senderWallet, err := s.wallets.GetWalletForUser(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return fmt.Errorf("%s: %w", op, ErrWalletNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkFunds(senderWallet, amount); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rate, err := s.rates.GetRate(ctx, amount, amount.Currency, toCurrency)
	if err != nil {
		log.Error("failed to fetch exchange rate", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	converted, err := amount.Convert(rate, toCurrency)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.wallets.WithLockedPair(ctx, senderID, receiver.ID, func(sender, recv models.Wallet) (repository.PairCommit, error) {
		if err := checkFunds(sender, amount); err != nil {
			return repository.PairCommit{}, err
		}

		senderBalance, err := sender.BalanceFor(amount.Currency)
		if err != nil {
			return repository.PairCommit{}, err
		}
		debited, err := senderBalance.Sub(amount)
		if err != nil {
			return repository.PairCommit{}, err
		}
		if err := sender.SetBalance(debited); err != nil {
			return repository.PairCommit{}, err
		}

		receiverBalance, err := recv.BalanceFor(toCurrency)
		if err != nil {
			return repository.PairCommit{}, err
		}
		credited, err := receiverBalance.Add(converted)
		if err != nil {
			return repository.PairCommit{}, err
		}
		if err := recv.SetBalance(credited); err != nil {
			return repository.PairCommit{}, err
		}

		now := time.Now()
		return repository.PairCommit{
			SenderWallet:   sender,
			ReceiverWallet: recv,
			Records: []models.TransactionRecord{
				{
					SenderID:     senderID,
					ReceiverID:   receiver.ID,
					Amount:       amount,
					FromCurrency: amount.Currency,
					ToCurrency:   toCurrency,
					ExchangeRate: rate,
					Kind:         models.KindSent,
					OriginIP:     originIP,
					CreatedAt:    now,
				},
				{
					SenderID:     senderID,
					ReceiverID:   receiver.ID,
					Amount:       converted,
					FromCurrency: amount.Currency,
					ToCurrency:   toCurrency,
					ExchangeRate: rate,
					Kind:         models.KindReceived,
					OriginIP:     originIP,
					CreatedAt:    now,
				},
			},
		}, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("transfer committed",
		slog.String("receiver_id", receiver.ID.String()),
		slog.String("converted", converted.String()),
		slog.String("rate", rate.String()),
	)

	return nil
}

func checkFunds(wallet models.Wallet, amount models.Money) error {
	balance, err := wallet.BalanceFor(amount.Currency)
	if err != nil {
		return err
	}
	short, err := balance.LessThan(amount)
	if err != nil {
		return err
	}
	if short {
		return ErrInsufficientFunds
	}
	return nil
}
