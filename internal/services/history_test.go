package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletapp/internal/domain/models"
	"walletapp/internal/repository/memory"
	"walletapp/internal/services"
)

type historyFixture struct {
	storage *memory.Storage
	service *services.HistoryService

	alice uuid.UUID
	bob   uuid.UUID
}

func newHistoryFixture(t *testing.T) *historyFixture {
	t.Helper()

	storage := memory.NewStorage()
	alice, err := storage.SaveUser(context.Background(), "alice", "alice@example.com", []byte("hash"))
	require.NoError(t, err)
	bob, err := storage.SaveUser(context.Background(), "bob", "bob@example.com", []byte("hash"))
	require.NoError(t, err)

	return &historyFixture{
		storage: storage,
		service: services.NewHistoryService(discardLogger(), storage),
		alice:   alice,
		bob:     bob,
	}
}

func (f *historyFixture) seed(t *testing.T, kind models.TransactionKind, createdAt time.Time) {
	t.Helper()
	require.NoError(t, f.storage.AppendTransactions(context.Background(), []models.TransactionRecord{{
		SenderID:   f.alice,
		ReceiverID: f.bob,
		Amount:     money(t, "1.00", "INR"),
		Kind:       kind,
		CreatedAt:  createdAt,
	}}))
}

func TestHistory_TypeFilterIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	now := time.Now()
	f.seed(t, models.KindSent, now)
	f.seed(t, models.KindReceived, now)

	for _, typ := range []string{"sent", "SENT", "Sent"} {
		entries, total, err := f.service.List(ctx, f.alice, services.HistoryFilter{Type: typ}, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, total, "type %q", typ)
		require.Len(t, entries, 1)
		assert.Equal(t, models.KindSent, entries[0].Record.Kind)
	}
}

func TestHistory_TypeFilterAppliesToBothSidesOfATransfer(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	f.seed(t, models.KindSent, time.Now())

	// the receiver of a transfer sees its SENT leg under type=sent too:
	// participant matches sender or receiver, kind filters after that
	entries, total, err := f.service.List(ctx, f.bob, services.HistoryFilter{Type: "sent"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, f.bob, entries[0].Record.ReceiverID)
}

func TestHistory_UnrecognizedTypeIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	now := time.Now()
	f.seed(t, models.KindSent, now)
	f.seed(t, models.KindReceived, now)

	_, total, err := f.service.List(ctx, f.alice, services.HistoryFilter{Type: "refund"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestHistory_DateBoundsAreInclusiveDays(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	f.seed(t, models.KindSent, time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC))
	f.seed(t, models.KindSent, time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC))
	f.seed(t, models.KindSent, time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC))

	entries, total, err := f.service.List(ctx, f.alice, services.HistoryFilter{
		DateFrom: "2024-03-02",
		DateTo:   "2024-03-02",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Record.CreatedAt.Day())

	// the upper bound keeps the whole closing day, 23:59:59 included
	_, total, err = f.service.List(ctx, f.alice, services.HistoryFilter{
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-01",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestHistory_MalformedDateIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)

	_, _, err := f.service.List(ctx, f.alice, services.HistoryFilter{DateFrom: "01-03-2024"}, 1)
	assert.ErrorIs(t, err, services.ErrInvalidDateFormat)

	_, _, err = f.service.List(ctx, f.alice, services.HistoryFilter{DateTo: "2024-3-2x"}, 1)
	assert.ErrorIs(t, err, services.ErrInvalidDateFormat)
}

func TestHistory_FixedPageSize(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		f.seed(t, models.KindSent, base.Add(time.Duration(i)*time.Minute))
	}

	page1, total, err := f.service.List(ctx, f.alice, services.HistoryFilter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page1, services.PageSize)

	page3, _, err := f.service.List(ctx, f.alice, services.HistoryFilter{}, 3)
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	// page numbers below 1 clamp to the first page
	clamped, _, err := f.service.List(ctx, f.alice, services.HistoryFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, clamped, services.PageSize)
	assert.Equal(t, page1[0].Record.ID, clamped[0].Record.ID)
}

func TestHistory_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newHistoryFixture(t)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.seed(t, models.KindSent, base.Add(time.Duration(i)*time.Hour))
	}

	entries, _, err := f.service.List(ctx, f.alice, services.HistoryFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].Record.CreatedAt.Before(entries[i-1].Record.CreatedAt))
	}
}

func TestHistory_EmptyResultIsNotAnError(t *testing.T) {
	f := newHistoryFixture(t)

	entries, total, err := f.service.List(context.Background(), f.alice, services.HistoryFilter{}, 1)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)

	entries, total, err = f.service.List(context.Background(), uuid.New(), services.HistoryFilter{}, 7)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}
