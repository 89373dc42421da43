package main

import (
	"log"

	"github.com/aasanchez0794/Angelito-Familiar/internal/config"
	"github.com/aasanchez0794/Angelito-Familiar/internal/database"
	"github.com/aasanchez0794/Angelito-Familiar/internal/handlers"
	"github.com/aasanchez0794/Angelito-Familiar/internal/metrics"
	"github.com/aasanchez0794/Angelito-Familiar/internal/middleware"
	"github.com/aasanchez0794/Angelito-Familiar/internal/services"
	"github.com/aasanchez0794/Angelito-Familiar/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	roster, err := cfg.LoadRoster()
	if err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db, cfg.DBAllowDestructive)

	store := services.NewParticipantService(db, cfg.DrawMaxAttempts)
	if err := store.Initialize(roster); err != nil {
		log.Fatalf("failed to initialize participant store: %v", err)
	}

	metrics.Register()

	hub := ws.NewHub()
	exchange := services.NewExchangeService(store, cfg.PINRequired)
	authService := services.NewAdminAuthService(cfg.AdminPassword, cfg.AdminPasswordHash, cfg.JWTSecret)

	participantHandler := handlers.NewParticipantHandler(exchange, store, hub)
	adminHandler := handlers.NewAdminHandler(authService, store, roster, cfg.PublicURL)
	wsHandler := handlers.NewWSHandler(hub, authService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/admin", wsHandler.HandleAdminSocket)

	api := r.Group("/api/v1")
	{
		api.POST("/register", participantHandler.Register)
		api.POST("/validate", participantHandler.Validate)
		api.POST("/reveal", participantHandler.Reveal)
		api.GET("/stats", participantHandler.GetStats)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			authed := admin.Group("")
			authed.Use(middleware.AdminAuth(authService))
			{
				authed.GET("/participants", adminHandler.Overview)
				authed.GET("/participants/:phone/pin", adminHandler.GetPIN)
				authed.POST("/participants/:phone/pin/reset", adminHandler.ResetPIN)
				authed.GET("/qr", adminHandler.ShareQR)
			}
		}
	}

	log.Printf("server listening on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
