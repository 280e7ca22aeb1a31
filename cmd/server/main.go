package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/peervote/api/internal/adapters/handler/http"
	repo "github.com/peervote/api/internal/adapters/repository/postgres"
	"github.com/peervote/api/internal/adapters/revalidate"
	"github.com/peervote/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	parameterRepo := repo.NewParameterRepository(db)

	revalidator := revalidate.NewLogRevalidator(logger)

	authService := services.NewAuthService(userRepo, authRepo)
	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService(sessionRepo, revalidator)
	voteService := services.NewVoteService(sessionRepo, voteRepo, revalidator)
	reportService := services.NewReportService(sessionRepo, voteRepo, userRepo, parameterRepo)
	parameterService := services.NewParameterService(parameterRepo)

	cookieDomain := os.Getenv("COOKIE_DOMAIN")

	router := handler.NewHandler(handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, cookieDomain, stdhttp.SameSiteLaxMode),
		User:      handler.NewUserHandler(userService),
		Session:   handler.NewSessionHandler(sessionService),
		Vote:      handler.NewVoteHandler(voteService),
		Report:    handler.NewReportHandler(reportService),
		Parameter: handler.NewParameterHandler(parameterService),
	}, authService)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	dbName := os.Getenv("POSTGRES_DB")
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
