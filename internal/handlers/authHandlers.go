package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"walletapp/internal/domain/dto"
	"walletapp/internal/middlewares"
	"walletapp/internal/services"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error)
}

type AuthHandler struct {
	log         *slog.Logger
	authService AuthService
}

func NewAuthHandler(log *slog.Logger, authService AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: authService,
	}
}

// Register
// @Summary Create an account
// @Description Registers a user and creates their wallet.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 200 {object} dto.Response "User created"
// @Failure 400 {object} dto.Response "Invalid input"
// @Failure 500 {object} dto.Response "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	_, err := h.authService.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, dto.Error("User already exists."))
		case errors.Is(err, middlewares.ErrEmptyField),
			errors.Is(err, middlewares.ErrInvalidEmail),
			errors.Is(err, middlewares.ErrNameTooShort),
			errors.Is(err, middlewares.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		default:
			h.log.Error("registration failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong."))
		}
		return
	}

	c.JSON(http.StatusOK, dto.Success("User Register successfully.", struct{}{}))
}

// Login
// @Summary Authenticate and receive a JWT pair
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.Response "Token pair"
// @Failure 401 {object} dto.Response "Invalid credentials"
// @Failure 500 {object} dto.Response "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) ||
			errors.Is(err, middlewares.ErrEmptyField) ||
			errors.Is(err, middlewares.ErrInvalidEmail) ||
			errors.Is(err, middlewares.ErrPasswordTooShort) {
			c.JSON(http.StatusUnauthorized, dto.Error("Your username or password is wrong."))
			return
		}
		h.log.Error("login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Error("Something went wrong."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"message":      "User login successfully.",
		"token":        accessToken,
		"refreshToken": refreshToken,
		"time":         time.Now().Format(time.RFC3339),
	})
}
