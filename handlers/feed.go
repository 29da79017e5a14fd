package handlers

import (
	"pool-league-service/middleware"
	"pool-league-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupFeedRoutes(app *fiber.App, feedService *services.FeedService) {
	app.Get("/feed", feedService.GetFeed)

	userCtx := middleware.UserContextMiddleware()
	app.Post("/feed", userCtx, feedService.CreateFeedItem)
	app.Post("/feed/:id/like", userCtx, feedService.LikeFeedItem)
}
