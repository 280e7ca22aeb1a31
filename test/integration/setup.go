package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/peervote/api/internal/adapters/handler/http"
	repo "github.com/peervote/api/internal/adapters/repository/postgres"
	"github.com/peervote/api/internal/adapters/revalidate"
	"github.com/peervote/api/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	parameterRepo := repo.NewParameterRepository(db)

	authSvc := services.NewAuthService(userRepo, authRepo)
	userSvc := services.NewUserService(userRepo)
	sessionSvc := services.NewSessionService(sessionRepo, revalidate.Noop{})
	voteSvc := services.NewVoteService(sessionRepo, voteRepo, revalidate.Noop{})
	reportSvc := services.NewReportService(sessionRepo, voteRepo, userRepo, parameterRepo)
	parameterSvc := services.NewParameterService(parameterRepo)

	router := handler.NewHandler(handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, "", http.SameSiteLaxMode),
		User:      handler.NewUserHandler(userSvc),
		Session:   handler.NewSessionHandler(sessionSvc),
		Vote:      handler.NewVoteHandler(voteSvc),
		Report:    handler.NewReportHandler(reportSvc),
		Parameter: handler.NewParameterHandler(parameterSvc),
	}, authSvc)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// createUserAndToken seeds a profile directly and signs an access token
// for it, bypassing the register/login endpoints.
func (app *TestApp) createUserAndToken(t *testing.T, isAdmin bool) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)
	_, err := app.DB.Exec(
		"INSERT INTO profiles (id, full_name, email, password_hash, is_admin) VALUES ($1, $2, $3, 'x', $4)",
		userID, name, email, isAdmin,
	)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return userID, signedToken
}

// doJSON sends an authenticated JSON request and returns the raw response.
func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) createParameter(t *testing.T, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := app.DB.Exec("INSERT INTO voting_parameters (id, name) VALUES ($1, $2)", id, name)
	require.NoError(t, err)
	return id
}
