package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, conn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// SaveUser creates the user and their wallet in one transaction, so a user
// without a wallet is never observable.
func (s *Storage) SaveUser(ctx context.Context, name, email string, passHash []byte) (uuid.UUID, error) {
	const op = "storage.Postgres.SaveUser"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	userSQL, userArgs, err := squirrel.Insert("users").
		Columns("name", "email", "password").
		Values(name, email, passHash).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, userSQL, userArgs...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	walletSQL, walletArgs, err := squirrel.Insert("wallets").
		Columns("user_id", "balance", "usd_balance", "created_at", "updated_at").
		Values(id, decimal.Zero, decimal.Zero, time.Now(), time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.Exec(ctx, walletSQL, walletArgs...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.Postgres.GetUserByEmail"

	sql, args, err := squirrel.Select("id", "name", "email", "password", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	err = s.db.QueryRow(ctx, sql, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) GetWalletForUser(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	const op = "storage.Postgres.GetWalletForUser"

	sql, args, err := squirrel.Select("user_id", "balance", "usd_balance", "created_at", "updated_at").
		From("wallets").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Wallet{}, fmt.Errorf("%s: %w", op, err)
	}

	wallet, err := scanWallet(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Wallet{}, fmt.Errorf("%s: %w", op, repository.ErrWalletNotFound)
		}
		return models.Wallet{}, fmt.Errorf("%s: %w", op, err)
	}

	return wallet, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (models.Wallet, error) {
	var (
		wallet models.Wallet
		inr    decimal.Decimal
		usd    decimal.Decimal
	)
	if err := row.Scan(&wallet.UserID, &inr, &usd, &wallet.CreatedAt, &wallet.UpdatedAt); err != nil {
		return models.Wallet{}, err
	}
	wallet.Balance = models.Money{Amount: inr, Currency: models.CurrencyINR}
	wallet.USDBalance = models.Money{Amount: usd, Currency: models.CurrencyUSD}
	return wallet, nil
}

// WithLockedPair serializes wallet mutation through row locks: both wallet
// rows are selected FOR UPDATE in user-id order inside one transaction, fn
// runs against those fresh reads, and its commit (wallet updates plus
// transaction legs) lands atomically on tx commit.
func (s *Storage) WithLockedPair(ctx context.Context, senderID, receiverID uuid.UUID, fn repository.PairFn) error {
	const op = "storage.Postgres.WithLockedPair"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	lockOrder := []uuid.UUID{senderID, receiverID}
	if strings.Compare(senderID.String(), receiverID.String()) > 0 {
		lockOrder[0], lockOrder[1] = lockOrder[1], lockOrder[0]
	}

	wallets := make(map[uuid.UUID]models.Wallet, 2)
	for _, id := range lockOrder {
		lockSQL, lockArgs, buildErr := squirrel.Select("user_id", "balance", "usd_balance", "created_at", "updated_at").
			From("wallets").
			Where(squirrel.Eq{"user_id": id}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if buildErr != nil {
			err = buildErr
			return fmt.Errorf("%s: %w", op, err)
		}

		var wallet models.Wallet
		wallet, err = scanWallet(tx.QueryRow(ctx, lockSQL, lockArgs...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = repository.ErrWalletNotFound
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		wallets[id] = wallet
	}

	commit, err := fn(wallets[senderID], wallets[receiverID])
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, wallet := range []models.Wallet{commit.SenderWallet, commit.ReceiverWallet} {
		updateSQL, updateArgs, buildErr := squirrel.Update("wallets").
			Set("balance", wallet.Balance.Amount).
			Set("usd_balance", wallet.USDBalance.Amount).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"user_id": wallet.UserID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if buildErr != nil {
			err = buildErr
			return fmt.Errorf("%s: %w", op, err)
		}

		_, err = tx.Exec(ctx, updateSQL, updateArgs...)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = appendTx(ctx, tx, commit.Records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) AppendTransactions(ctx context.Context, records []models.TransactionRecord) error {
	const op = "storage.Postgres.AppendTransactions"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = appendTx(ctx, tx, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func appendTx(ctx context.Context, tx pgx.Tx, records []models.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns("sender_id", "receiver_id", "amount", "amount_currency",
			"from_currency", "to_currency", "exchange_rate", "kind", "origin_ip", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, record := range records {
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		builder = builder.Values(record.SenderID, record.ReceiverID,
			record.Amount.Amount, record.Amount.Currency,
			record.FromCurrency, record.ToCurrency, record.ExchangeRate,
			record.Kind, record.OriginIP, createdAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func (s *Storage) QueryTransactions(ctx context.Context, filter repository.TransactionFilter) ([]repository.TransactionEntry, int, error) {
	const op = "storage.Postgres.QueryTransactions"

	conditions := squirrel.And{
		squirrel.Or{
			squirrel.Eq{"t.sender_id": filter.Participant},
			squirrel.Eq{"t.receiver_id": filter.Participant},
		},
	}
	if filter.Kind != "" {
		conditions = append(conditions, squirrel.Eq{"t.kind": filter.Kind})
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, squirrel.GtOrEq{"t.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		conditions = append(conditions, squirrel.Lt{"t.created_at": *filter.DateTo})
	}

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("transactions t").
		Where(conditions).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	if err := s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := squirrel.Select(
		"t.id", "t.sender_id", "t.receiver_id", "t.amount", "t.amount_currency",
		"t.from_currency", "t.to_currency", "t.exchange_rate", "t.kind", "t.origin_ip", "t.created_at",
		"su.id", "su.name", "su.email",
		"ru.id", "ru.name", "ru.email").
		From("transactions t").
		Join("users su ON t.sender_id = su.id").
		Join("users ru ON t.receiver_id = ru.id").
		Where(conditions).
		OrderBy("t.created_at DESC", "t.id DESC").
		PlaceholderFormat(squirrel.Dollar)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []repository.TransactionEntry
	for rows.Next() {
		var entry repository.TransactionEntry
		err := rows.Scan(
			&entry.Record.ID, &entry.Record.SenderID, &entry.Record.ReceiverID,
			&entry.Record.Amount.Amount, &entry.Record.Amount.Currency,
			&entry.Record.FromCurrency, &entry.Record.ToCurrency,
			&entry.Record.ExchangeRate, &entry.Record.Kind,
			&entry.Record.OriginIP, &entry.Record.CreatedAt,
			&entry.Sender.ID, &entry.Sender.Name, &entry.Sender.Email,
			&entry.Receiver.ID, &entry.Receiver.Name, &entry.Receiver.Email)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}
