package handlers

import (
	"pool-league-service/middleware"
	"pool-league-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challengeService *services.ChallengeService) {
	// 🔓 Read-only routes — Gateway auth only
	app.Get("/challenges", challengeService.GetAllChallenges)
	app.Get("/challenges/:id", challengeService.GetChallengeByID)

	// 🔐 Negotiation transitions require user context. Attached per-route:
	// a "/"-prefixed group would register the middleware app-wide and
	// swallow the public reads above.
	userCtx := middleware.UserContextMiddleware()
	app.Post("/challenges", userCtx, challengeService.CreateChallenge)
	app.Post("/challenges/propose", userCtx, challengeService.ProposeLogistics)
	app.Post("/challenges/confirm", userCtx, challengeService.ConfirmChallenge)
	app.Post("/challenges/:id/decline", userCtx, challengeService.DeclineChallenge)
}
