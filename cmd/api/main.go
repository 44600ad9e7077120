// cmd/api/main.go
// Main entry point for the application
// Bootstraps all components and starts the server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumadating/luma-backend/internal/auth"
	"github.com/lumadating/luma-backend/internal/common/database"
	"github.com/lumadating/luma-backend/internal/common/utils"
	"github.com/lumadating/luma-backend/internal/config"
	"github.com/lumadating/luma-backend/internal/matching"
	"github.com/lumadating/luma-backend/internal/messaging"
	"github.com/lumadating/luma-backend/internal/notification"
	"github.com/lumadating/luma-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Luma Dating API")

	// 1. Environment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	// 2. Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	// 3. PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// 4. Redis (optional; notification publishing degrades without it)
	var redisClient *redis.Client
	if cfg.RedisURL != "" && cfg.EnableNotificationPublish {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable (%v), continuing without real-time publishing", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Connected to Redis")
		}
	}

	// 5. Migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Println("Database migrations completed")

	// 6. Module wiring
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileService)

	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo)
	messagingHandler := messaging.NewHandler(messagingService)

	notificationRepo := notification.NewPostgresRepository(db)
	notificationService := notification.NewService(notificationRepo, redisClient, cfg.NotificationChannelPrefix)
	notificationHandler := notification.NewHandler(notificationService)

	matchingRepo := matching.NewPostgresRepository(db)
	matchingService := matching.NewService(
		matchingRepo,
		profileService,
		messagingService,
		notificationService,
		matching.Options{
			DefaultSuggestionLimit: cfg.SuggestedMatchesLimit,
			CandidatePool:          cfg.MaxCandidatePool,
		},
	)
	matchingHandler := matching.NewHandler(matchingService)

	// 7. Routes
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	notification.RegisterRoutes(router, notificationHandler, authMiddleware)

	// 8. Server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown: ", err)
	}

	log.Println("Server stopped")
}

// runMigrations applies the schema. The uniqueness constraints on
// pending_likes, connections and conversations are load-bearing: concurrent
// handlers rely on them to keep match state consistent.
func runMigrations(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE,
		username VARCHAR(50) NOT NULL UNIQUE,
		display_name VARCHAR(100) NOT NULL,
		profile_picture TEXT,
		bio TEXT,
		interests TEXT[] NOT NULL DEFAULT '{}',
		relationship_goal VARCHAR(30),
		birth_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS personality_tests (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES profiles(user_id),
		openness NUMERIC(5,2) NOT NULL CHECK (openness BETWEEN 0 AND 100),
		conscientiousness NUMERIC(5,2) NOT NULL CHECK (conscientiousness BETWEEN 0 AND 100),
		extraversion NUMERIC(5,2) NOT NULL CHECK (extraversion BETWEEN 0 AND 100),
		agreeableness NUMERIC(5,2) NOT NULL CHECK (agreeableness BETWEEN 0 AND 100),
		neuroticism NUMERIC(5,2) NOT NULL CHECK (neuroticism BETWEEN 0 AND 100),
		taken_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_personality_tests_user
		ON personality_tests (user_id, taken_at DESC);

	CREATE TABLE IF NOT EXISTS pending_likes (
		id BIGSERIAL PRIMARY KEY,
		sender_id BIGINT NOT NULL,
		receiver_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT pending_likes_pair_unique UNIQUE (sender_id, receiver_id),
		CONSTRAINT pending_likes_no_self CHECK (sender_id <> receiver_id)
	);
	CREATE INDEX IF NOT EXISTS idx_pending_likes_receiver
		ON pending_likes (receiver_id);

	CREATE TABLE IF NOT EXISTS connections (
		id BIGSERIAL PRIMARY KEY,
		user1_id BIGINT NOT NULL,
		user2_id BIGINT NOT NULL,
		matched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT connections_pair_unique UNIQUE (user1_id, user2_id),
		CONSTRAINT connections_ordered CHECK (user1_id < user2_id)
	);
	CREATE INDEX IF NOT EXISTS idx_connections_user2
		ON connections (user2_id);

	CREATE TABLE IF NOT EXISTS conversations (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE,
		user1_id BIGINT NOT NULL,
		user2_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT conversations_pair_unique UNIQUE (user1_id, user2_id),
		CONSTRAINT conversations_ordered CHECK (user1_id < user2_id)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		type VARCHAR(30) NOT NULL,
		content TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications (user_id, created_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}
