package services

import (
	"errors"

	"walletapp/internal/domain/models"
	"walletapp/internal/exchange"
)

var (
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrSelfTransfer        = errors.New("cannot transfer to yourself")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidDateFormat   = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrRateUnavailable     = exchange.ErrRateUnavailable
	ErrUnsupportedCurrency = models.ErrUnsupportedCurrency
)
