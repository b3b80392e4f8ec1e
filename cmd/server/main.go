package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "time/tzdata"

	"github.com/AurelieMous/projet-zombieland/internal/auth"
	"github.com/AurelieMous/projet-zombieland/internal/catalog"
	"github.com/AurelieMous/projet-zombieland/internal/config"
	"github.com/AurelieMous/projet-zombieland/internal/database"
	"github.com/AurelieMous/projet-zombieland/internal/handlers"
	"github.com/AurelieMous/projet-zombieland/internal/notifier"
	"github.com/AurelieMous/projet-zombieland/internal/ratelimit"
	"github.com/AurelieMous/projet-zombieland/internal/reservation"
	"github.com/AurelieMous/projet-zombieland/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Notifiers
	var notifiers notifier.Multi
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := notifier.NewDiscordSession(cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			notifiers = append(notifiers, notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID))
		}
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := notifier.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("RabbitMQ publisher not initialized: %v", err)
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
		}
	}

	// Initialize Rate Limiter
	var rdb redis.Scripter
	if cfg.RedisAddr != "" {
		client, err := ratelimit.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Rate limiting disabled: %v", err)
		} else {
			defer client.Close()
			rdb = client
		}
	}

	// Initialize Services
	engine := reservation.NewEngine(db, reservation.Options{
		Location: cfg.Location,
		Prefix:   cfg.ReservationPrefix,
		Notifier: notifiers,
	})
	services := handlers.Services{
		Auth:         auth.NewAuthHandler(cfg, db),
		Users:        users.NewService(db, engine),
		Catalog:      catalog.NewService(db),
		Reservations: engine,
		AuthLimiter:  ratelimit.New(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, services)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
