package handlers

import (
	"pool-league-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	app.Get("/matches", matchService.GetAllMatches)
	app.Get("/matches/live", matchService.GetLiveMatches)
	app.Post("/matches/:id/viewers", matchService.JoinStream)
}
