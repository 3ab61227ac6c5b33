package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
)

// PageSize is fixed: the per_page query parameter is accepted on the wire and
// deliberately ignored, matching the documented behavior of the service.
const PageSize = 10

const dateLayout = "2006-01-02"

type TransactionLog interface {
	QueryTransactions(ctx context.Context, filter repository.TransactionFilter) ([]repository.TransactionEntry, int, error)
}

// HistoryFilter carries the raw query-string filters; parsing and validation
// happen in List.
type HistoryFilter struct {
	Type     string
	DateFrom string
	DateTo   string
}

// HistoryService builds filter and pagination predicates over the
// transaction log for the history view.
type HistoryService struct {
	log          *slog.Logger
	transactions TransactionLog
}

func NewHistoryService(log *slog.Logger, transactions TransactionLog) *HistoryService {
	return &HistoryService{
		log:          log,
		transactions: transactions,
	}
}

// List returns one page of the user's transaction history, newest first
// (created_at descending, id as tie-break), plus the total match count.
// Date bounds are inclusive calendar days. An unrecognized type value is
// ignored rather than rejected.
func (s *HistoryService) List(ctx context.Context, userID uuid.UUID, filter HistoryFilter, page int) ([]repository.TransactionEntry, int, error) {
	const op = "services.HistoryService.List"

	repoFilter := repository.TransactionFilter{
		Participant: userID,
		Kind:        models.ParseTransactionKind(strings.ToLower(filter.Type)),
	}

	if filter.DateFrom != "" {
		from, err := time.Parse(dateLayout, filter.DateFrom)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: date_from: %w", op, ErrInvalidDateFormat)
		}
		repoFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse(dateLayout, filter.DateTo)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: date_to: %w", op, ErrInvalidDateFormat)
		}
		// inclusive upper day: query everything before the next midnight
		end := to.AddDate(0, 0, 1)
		repoFilter.DateTo = &end
	}

	if page < 1 {
		page = 1
	}
	repoFilter.Limit = PageSize
	repoFilter.Offset = (page - 1) * PageSize

	entries, total, err := s.transactions.QueryTransactions(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return entries, total, nil
}
