package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nexbuzzer-backend/internal/config"
	"nexbuzzer-backend/internal/handlers"
	"nexbuzzer-backend/internal/middleware"
	"nexbuzzer-backend/internal/models"
	"nexbuzzer-backend/internal/rtc"
	"nexbuzzer-backend/internal/session"
	"nexbuzzer-backend/internal/store"
	ws "nexbuzzer-backend/internal/websocket"
)

func main() {
	log.Println("Starting marketplace server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DSN)
	if err != nil {
		log.Fatal("cannot connect to database:", err)
	}
	defer db.Close()
	log.Println("Successfully connected to PostgreSQL!")

	st := store.NewPostgres(db)
	sessions := session.NewMemoryStore(time.Duration(cfg.SessionTTLHours) * time.Hour)
	issuer := rtc.NewIssuer(cfg.RTCSigningKey)

	hub := ws.NewHub()
	go hub.Run()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	if cfg.AllowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	authHandler := handlers.NewAuthHandler(st, sessions)
	userHandler := handlers.NewUserHandler(st)
	modelHandler := handlers.NewModelHandler(st, sessions)
	walletHandler := handlers.NewWalletHandler(st, cfg.MidtransServerKey, cfg.MidtransProduction)
	callHandler := handlers.NewCallHandler(st, issuer)
	scheduledHandler := handlers.NewScheduledCallHandler(st)
	messageHandler := handlers.NewMessageHandler(st, hub)
	favoriteHandler := handlers.NewFavoriteHandler(st)
	adminHandler := handlers.NewAdminHandler(st)
	wsHandler := handlers.NewWebSocketHandler(sessions, hub)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.RequireAuth(sessions), authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(sessions), authHandler.Me)
		}

		// Public directory; favorite status is filled in when a
		// session cookie is present.
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/:id", modelHandler.GetModel)

		// Gateway webhook is unauthenticated; it verifies against the
		// payment provider instead.
		api.POST("/webhook/payment", walletHandler.HandlePaymentNotification)

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(sessions))
		{
			protected.GET("/users/:userId", userHandler.GetUser)
			protected.PUT("/users/:userId", userHandler.UpdateUser)

			protected.PUT("/models/:id", modelHandler.UpdateModel)

			protected.GET("/wallet", walletHandler.GetWallet)
			protected.POST("/wallet/add-funds", walletHandler.AddFunds)
			protected.GET("/wallet/transactions", walletHandler.ListTransactions)

			protected.GET("/calls", callHandler.ListUserCalls)
			protected.POST("/calls", callHandler.StartCall)
			protected.GET("/calls/model", callHandler.ListModelCalls)
			protected.PUT("/calls/:id/end", callHandler.EndCall)

			protected.GET("/scheduled-calls", scheduledHandler.ListScheduledCalls)
			protected.POST("/scheduled-calls", scheduledHandler.ScheduleCall)
			protected.PUT("/scheduled-calls/:callId", scheduledHandler.UpdateScheduledCall)

			protected.POST("/messages", messageHandler.SendMessage)
			protected.GET("/messages/:userId", messageHandler.GetThread)
			protected.PUT("/messages/:id/read", messageHandler.MarkRead)

			protected.GET("/favorites", favoriteHandler.ListFavorites)
			protected.POST("/favorites", favoriteHandler.AddFavorite)
			protected.DELETE("/favorites/:modelId", favoriteHandler.RemoveFavorite)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(st, models.RoleAdmin))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/models", adminHandler.ListModels)
			}
		}
	}

	r.GET("/ws", wsHandler.ServeWs)

	log.Println("Server starting on", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("could not start server:", err)
	}
}
