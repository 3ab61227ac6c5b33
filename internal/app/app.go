package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpserver "walletapp/internal/app/http-server"
	"walletapp/internal/config"
	"walletapp/internal/exchange"
	"walletapp/internal/handlers"
	"walletapp/internal/lib/jwt"
	"walletapp/internal/middlewares"
	"walletapp/internal/repository/postgres"
	"walletapp/internal/repository/redis"
	"walletapp/internal/routes"
	"walletapp/internal/services"
)

type App struct {
	HTTPServer *httpserver.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgres.NewPostgres(context.Background(), cfg.Database.PostgresConn)
	if err != nil {
		panic(err)
	}

	jwtGen := jwt.NewGenerator(cfg.JWT.Secret,
		time.Minute*time.Duration(cfg.JWT.AccessExpirationMinutes),
		time.Hour*24*time.Duration(cfg.JWT.RefreshExpirationDays))

	redisDB, err := redis.InitRedis(os.Getenv("REDIS_STORAGE_PATH"), os.Getenv("REDIS_PASSWORD"),
		os.Getenv("REDIS_DB_NUMBER"), time.Hour*24*time.Duration(cfg.JWT.RefreshExpirationDays))
	if err != nil {
		panic(err)
	}

	rateClient := exchange.NewClient(cfg.Exchange.APIURL, &http.Client{Timeout: cfg.Exchange.Timeout})

	authService := services.NewAuthService(log, storage, redisDB, jwtGen)
	transferService := services.NewTransferService(log, storage, storage, rateClient)
	historyService := services.NewHistoryService(log, storage)

	authHandler := handlers.NewAuthHandler(log, authService)
	walletHandler := handlers.NewWalletHandler(log, transferService)
	transferHandler := handlers.NewTransferHandler(log, transferService, historyService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)

	r := routes.InitRoutes(authHandler, walletHandler, transferHandler, authMiddleware)

	server := httpserver.NewServer(log, cfg.Server.Address, r)

	return &App{
		HTTPServer: server,
	}
}
