package services

import (
	"pool-league-service/models"

	"github.com/gofiber/fiber/v2"
)

// GetActionItems lists the challenges currently waiting on the given
// player: incoming challenges they still owe logistics for, and their own
// challenges waiting on final confirmation. Recomputed from status + role
// on every call; "whose turn" is never stored.
func (s *ChallengeService) GetActionItems(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var challenges []models.Challenge
	err := s.DB.
		Where("(opponent_id = ? AND status = ?) OR (challenger_id = ? AND status = ?)",
			playerID, models.ChallengeStatusPendingLogistics,
			playerID, models.ChallengeStatusPendingConfirmation).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load action items"})
	}
	return c.JSON(fiber.Map{"data": challenges})
}
