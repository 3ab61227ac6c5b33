package routes

import (
	"time"

	"github.com/go-openapi/runtime/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"walletapp/internal/handlers"
	"walletapp/internal/middlewares"
)

func InitRoutes(authHandler *handlers.AuthHandler, walletHandler *handlers.WalletHandler,
	transferHandler *handlers.TransferHandler, authMiddleware *middlewares.AuthMiddleware) *gin.Engine {
	router := gin.Default()

	_ = router.SetTrustedProxies(nil)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.StaticFile("/swagger.yaml", "./swagger.yaml")

	opts := middleware.SwaggerUIOpts{SpecURL: "/swagger.yaml"}
	sh := middleware.SwaggerUI(opts, nil)

	router.GET("/swagger/*any", func(c *gin.Context) {
		sh.ServeHTTP(c.Writer, c.Request)
	})

	api := router.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api.Use(authMiddleware.Handle())
	{
		api.GET("/wallet", walletHandler.GetWallet)
		api.POST("/transfer", transferHandler.Transfer)
		api.GET("/transactions", transferHandler.ListTransactions)
	}

	return router
}
