package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"walletapp/internal/domain/dto"
	"walletapp/internal/domain/models"
	"walletapp/internal/repository"
	"walletapp/internal/services"
)

type TransferService interface {
	Transfer(ctx context.Context, senderID uuid.UUID, receiverEmail string,
		amount models.Money, toCurrency string, originIP string) error
}

type HistoryService interface {
	List(ctx context.Context, userID uuid.UUID, filter services.HistoryFilter, page int) ([]repository.TransactionEntry, int, error)
}

type TransferHandler struct {
	log             *slog.Logger
	transferService TransferService
	historyService  HistoryService
}

func NewTransferHandler(log *slog.Logger, transferService TransferService, historyService HistoryService) *TransferHandler {
	return &TransferHandler{
		log:             log,
		transferService: transferService,
		historyService:  historyService,
	}
}

// Transfer
// @Summary Send money to another user
// @Description Debits the caller's wallet and credits the receiver, converting between currencies when they differ.
// @Tags wallet
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.Response "Transfer confirmation"
// @Failure 400 {object} dto.Response "Invalid request or insufficient funds"
// @Failure 404 {object} dto.Response "Receiver or wallet not found"
// @Failure 500 {object} dto.Response "Internal server error"
// @Router /api/transfer [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var input dto.TransferRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	amount, err := models.NewMoney(input.Amount, input.FromCurrency)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	err = h.transferService.Transfer(c.Request.Context(), userID, input.ReceiverEmail,
		amount, input.ToCurrency, originIP(c))
	if err != nil {
		h.respondTransferError(c, err, input.FromCurrency)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Transfer successfully.", struct{}{}))
}

func (h *TransferHandler) respondTransferError(c *gin.Context, err error, fromCurrency string) {
	switch {
	case errors.Is(err, services.ErrReceiverNotFound):
		c.JSON(http.StatusNotFound, dto.Error("Receiver not found"))
	case errors.Is(err, services.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, dto.Error("Wallet not found."))
	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, dto.Error("Insufficient "+fromCurrency+" balance."))
	case errors.Is(err, services.ErrSelfTransfer):
		c.JSON(http.StatusBadRequest, dto.Error("Cannot transfer to yourself."))
	case errors.Is(err, services.ErrUnsupportedCurrency):
		c.JSON(http.StatusBadRequest, dto.Error("Unsupported currency."))
	case errors.Is(err, services.ErrRateUnavailable):
		c.JSON(http.StatusBadRequest, dto.Error("Failed to fetch exchange rate"))
	default:
		h.log.Error("transfer failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong."))
	}
}

// ListTransactions
// @Summary Transaction history
// @Description Paginated history of the caller's transfers, filterable by direction and date range.
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Param type query string false "sent or received"
// @Param date_from query string false "YYYY-MM-DD, inclusive"
// @Param date_to query string false "YYYY-MM-DD, inclusive"
// @Param page query int false "page number, default 1"
// @Success 200 {object} dto.Response "Paginated transaction list"
// @Failure 400 {object} dto.Response "Invalid filter"
// @Failure 500 {object} dto.Response "Internal server error"
// @Router /api/transactions [get]
func (h *TransferHandler) ListTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	filter := services.HistoryFilter{
		Type:     c.Query("type"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	// per_page is accepted on the wire but the page size is fixed

	entries, total, err := h.historyService.List(c.Request.Context(), userID, filter, page)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateFormat) {
			c.JSON(http.StatusBadRequest, dto.Error("Invalid date format."))
			return
		}
		h.log.Error("failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong."))
		return
	}

	items := make([]dto.TransactionListItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TransactionListItem{
			ID:           entry.Record.ID,
			Sender:       dto.TransactionParty{Name: entry.Sender.Name, Email: entry.Sender.Email},
			Receiver:     dto.TransactionParty{Name: entry.Receiver.Name, Email: entry.Receiver.Email},
			Amount:       entry.Record.Amount.Amount,
			FromCurrency: entry.Record.FromCurrency,
			ToCurrency:   entry.Record.ToCurrency,
			ExchangeRate: entry.Record.ExchangeRate,
			Type:         string(entry.Record.Kind),
			CreatedAt:    entry.Record.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, dto.Success("Transactions fetched successfully.", dto.TransactionListResponse{
		Transactions: items,
		Page:         page,
		PageSize:     services.PageSize,
		Total:        total,
	}))
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.Error("Unauthorized"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("Invalid user ID"))
		return uuid.Nil, false
	}
	return userID, true
}

// originIP prefers the first forwarded-for hop, falling back to the peer
// address of the connection.
func originIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.ClientIP()
}
