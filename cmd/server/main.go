package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"todoapp/internal/auth"
	"todoapp/internal/config"
	"todoapp/internal/db"
	"todoapp/internal/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbConn, err := db.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	if err := db.InitSchema(dbConn); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	tokenManager := auth.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	handler := &handlers.Handler{
		Tasks:  db.NewTaskRepository(dbConn),
		Users:  db.NewUserRepository(dbConn),
		Tokens: tokenManager,
		// allow max 5 register/login attempts per 15 minutes from the same IP
		RateLimiter: handlers.NewRateLimiter(5, 15*time.Minute),
	}

	mux := http.NewServeMux()
	// Task routes are wired without AuthMiddleware: the deployment this
	// replaces serves them unauthenticated. Confirm with stakeholders before
	// changing it; guarding them is a one-line edit here.
	mux.HandleFunc("/tasks/api/", handler.HandleTasks)
	mux.HandleFunc("/auth/register", handler.Register)
	mux.HandleFunc("/auth/login", handler.Login)
	mux.HandleFunc("/auth/refresh", handler.Refresh)
	mux.HandleFunc("/auth/me", handler.AuthMiddleware(handler.Me))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handlers.CORS(mux),
	}

	startServer(server)
}

func startServer(server *http.Server) {
	log.Printf("Starting server on %s", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
