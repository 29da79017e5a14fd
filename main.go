package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pool-league-service/handlers"
	"pool-league-service/middleware"
	"pool-league-service/models"
	"pool-league-service/services"
	"pool-league-service/utils"
	"pool-league-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // avatars are the largest upload
	})

	// 🔐 GLOBAL: only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Challenge{},
		&models.Proposal{},
		&models.Match{},
		&models.FeedItem{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedLeagueData(db); err != nil {
		log.Fatal("failed to seed league data:", err)
	}

	feedService := services.NewFeedService(db)
	challengeService := services.NewChallengeService(db, feedService)
	playerService := services.NewPlayerService(db)
	matchService := services.NewMatchService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ratings and ladder positions are owned by the external rating
	// service; sync is optional in local setups.
	ratingServiceURL := os.Getenv("RATING_SERVICE_URL")
	if ratingServiceURL != "" {
		serviceToken := os.Getenv("LEAGUE_SERVICE_TOKEN")
		ratingWorker := workers.NewRatingSyncWorker(db, ratingServiceURL, "/api/v1/public/ratings", serviceToken)
		ratingWorker.Start(ctx)
	} else {
		log.Println("⚠️  RATING_SERVICE_URL not set — rating sync disabled")
	}

	if err := matchService.StartLivenessScheduler(); err != nil {
		log.Fatal("failed to start liveness scheduler:", err)
	}

	handlers.SetupPlayerRoutes(app, playerService, challengeService)
	handlers.SetupChallengeRoutes(app, challengeService)
	handlers.SetupFeedRoutes(app, feedService)
	handlers.SetupMatchRoutes(app, matchService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Match liveness scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
