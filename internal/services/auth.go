package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"walletapp/internal/domain/models"
	"walletapp/internal/lib/jwt"
	"walletapp/internal/middlewares"
	"walletapp/internal/repository"
)

type AuthRepository interface {
	SaveUser(ctx context.Context, name, email string, passHash []byte) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type RedisClient interface {
	StoreRefreshToken(userID, refreshToken string) error
}

type AuthService struct {
	log            *slog.Logger
	authRepository AuthRepository
	redis          RedisClient
	jwtGen         *jwt.Generator
}

func NewAuthService(log *slog.Logger, authRepository AuthRepository, redis RedisClient,
	jwtGen *jwt.Generator) *AuthService {
	return &AuthService{
		log:            log,
		authRepository: authRepository,
		redis:          redis,
		jwtGen:         jwtGen,
	}
}

// Register creates the user together with their wallet; the storage layer
// guarantees the pair comes into existence atomically.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	const op = "services.AuthService.Register"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := middlewares.CheckRegister(name, email, password); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.authRepository.SaveUser(ctx, name, email, passHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserAlreadyExists)
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	return id, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error) {
	const op = "services.AuthService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := middlewares.CheckInput(email, password); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.authRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	accessToken, refreshToken, err = s.jwtGen.GeneratePair(user.ID.String())
	if err != nil {
		log.Error("failed to generate tokens", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.redis.StoreRefreshToken(user.ID.String(), refreshToken); err != nil {
		log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return accessToken, refreshToken, nil
}
