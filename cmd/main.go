package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"appealbot/internal/infrastructure"
	"appealbot/internal/interfaces"
	"appealbot/internal/interfaces/http"
	"appealbot/internal/repository"
	"appealbot/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	// Core: classifier, stores, composer, engine
	appealManager := repository.NewAppealManager()
	states := repository.NewConversationStore()
	classifier := usecases.NewIntentClassifier(usecases.DefaultIntentRules())
	composer := usecases.NewResponseComposer()
	engine := usecases.NewConversationEngine(classifier, states, appealManager, composer)

	// Per-sender inbound throttle: 10 messages per minute, burst 10
	limiter := infrastructure.NewMessageRateLimiter(10.0/60.0, 10)

	// Storage: Postgres when configured, local sqlite otherwise
	var snapshotStore interfaces.SnapshotStore
	var auth *usecases.AuthUsecase
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pgClient, err := infrastructure.NewPostgresClient(dbURL)
		if err != nil {
			panic("Failed to connect to database: " + err.Error())
		}
		defer pgClient.Close()

		snapshotStore = repository.NewPostgresSnapshotStore(pgClient.Pool)
		userRepo := repository.NewUserRepository(pgClient.Pool)
		auth = usecases.NewAuthUsecase(userRepo, os.Getenv("JWT_SECRET"))

		// Ensure Admin User
		if err := auth.EnsureAdmin("root", "root"); err != nil {
			fmt.Println("Warning: Failed to ensure admin user:", err)
		}
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "appealbot.db"
		}
		sqliteClient, err := infrastructure.NewSQLiteClient(path)
		if err != nil {
			panic("Failed to open sqlite store: " + err.Error())
		}
		defer sqliteClient.Close()

		snapshotStore = repository.NewSQLiteSnapshotStore(sqliteClient.DB)
		fmt.Println("DATABASE_URL not set. Using local sqlite store (review API disabled).")
	}

	// Reload appeals from the last snapshot
	if appeals, err := snapshotStore.LoadAll(context.Background()); err != nil {
		fmt.Println("Warning: failed to load appeal snapshots:", err)
	} else if len(appeals) > 0 {
		appealManager.Restore(appeals)
		fmt.Printf("Restored %d appeals from snapshot store\n", len(appeals))
	}

	interval := 30
	if v := os.Getenv("SNAPSHOT_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = n
		}
	}
	snapshotter := infrastructure.NewSnapshotter(appealManager, snapshotStore, time.Duration(interval)*time.Second)
	snapshotter.Start()
	defer snapshotter.Stop()

	// Review API only makes sense with the Postgres user store
	var appealAdmin http.AppealAdmin
	if auth != nil {
		appealAdmin = appealManager
	}

	// Setup HTTP server
	r := gin.Default()
	middleware := http.NewMiddleware(os.Getenv("JWT_SECRET"))
	http.SetupRoutes(r, engine, appealAdmin, appealManager, composer, limiter, auth, middleware)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	if err := r.Run(addr); err != nil {
		fmt.Printf("FAILED to start HTTP Server: %v\n", err)
		os.Exit(1)
	}
}
