package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"walletapp/internal/domain/dto"
	"walletapp/internal/domain/models"
	"walletapp/internal/services"
)

type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
}

type WalletHandler struct {
	log           *slog.Logger
	walletService WalletService
}

func NewWalletHandler(log *slog.Logger, walletService WalletService) *WalletHandler {
	return &WalletHandler{
		log:           log,
		walletService: walletService,
	}
}

// GetWallet
// @Summary Current balances
// @Description Returns the caller's INR and USD balances.
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Response "Wallet balances"
// @Failure 404 {object} dto.Response "Wallet not found"
// @Failure 500 {object} dto.Response "Internal server error"
// @Router /api/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("Wallet not found."))
			return
		}
		h.log.Error("failed to fetch wallet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong."))
		return
	}

	c.JSON(http.StatusOK, dto.Success("Wallet fetched successfully.", dto.NewWalletResponse(wallet)))
}
