package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pool-league-service/models"
	"pool-league-service/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDb *gorm.DB

func setupDatabase() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	postgresContainer, err := testcontainers.GenericContainer(context.Background(), testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}

	host, _ := postgresContainer.Host(context.Background())
	port, _ := postgresContainer.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("host=%s port=%s user=user password=password dbname=testdb sslmode=disable", host, port.Port())

	for i := 0; i < 5; i++ {
		testDb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}

	if testDb == nil {
		log.Fatalf("failed to connect to database after multiple attempts")
	}

	if err := testDb.AutoMigrate(
		&models.Player{},
		&models.Challenge{},
		&models.Proposal{},
		&models.Match{},
		&models.FeedItem{},
	); err != nil {
		log.Fatalf("failed to migrate database: %s", err)
	}
}

func TestMain(m *testing.M) {
	setupDatabase()
	m.Run()
}

// newRouterApp registers all route groups in the same order as main.go, so
// tests see the exact routing table the server runs with.
func newRouterApp() *fiber.App {
	feedService := services.NewFeedService(testDb)
	challengeService := services.NewChallengeService(testDb, feedService)
	playerService := services.NewPlayerService(testDb)
	matchService := services.NewMatchService(testDb)

	app := fiber.New()
	SetupPlayerRoutes(app, playerService, challengeService)
	SetupChallengeRoutes(app, challengeService)
	SetupFeedRoutes(app, feedService)
	SetupMatchRoutes(app, matchService)
	return app
}

// The read-only routes must stay reachable without user context no matter
// where they sit in the registration order.
func TestPublicReadsNeedNoUserContext(t *testing.T) {
	app := newRouterApp()

	for _, path := range []string{
		"/players",
		"/challenges",
		"/feed",
		"/matches",
		"/matches/live",
	} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, "GET %s must be public", path)
	}
}

func TestMutationsRequireUserContext(t *testing.T) {
	app := newRouterApp()

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/challenges"},
		{"POST", "/challenges/propose"},
		{"POST", "/challenges/confirm"},
		{"POST", "/challenges/abc/decline"},
		{"POST", "/players/abc/claim"},
		{"POST", "/players/abc/avatar"},
		{"GET", "/players/abc/action-items"},
		{"POST", "/feed"},
		{"POST", "/feed/abc/like"},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, "%s %s must require user context", route.method, route.path)

		// With identity attached the request must reach the handler (any
		// status but 401 — most of these then fail on the bogus payload).
		req = httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "p1")
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.NotEqual(t, 401, resp.StatusCode, "%s %s rejected an authenticated request", route.method, route.path)
	}
}
