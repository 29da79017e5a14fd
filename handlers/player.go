package handlers

import (
	"pool-league-service/middleware"
	"pool-league-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, challengeService *services.ChallengeService) {
	// 🔓 Roster reads
	app.Get("/players", playerService.GetAllPlayers)
	app.Get("/players/:id", playerService.GetPlayerByID)

	// 🔐 Profile mutations + personal action board
	userCtx := middleware.UserContextMiddleware()
	app.Post("/players/:id/claim", userCtx, playerService.ClaimProfile)
	app.Post("/players/:id/avatar", userCtx, playerService.UploadAvatar)
	app.Get("/players/:id/action-items", userCtx, challengeService.GetActionItems)
}
