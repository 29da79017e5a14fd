package services

import (
	"errors"
	"path/filepath"

	"pool-league-service/models"
	"pool-league-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("rank ASC").Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load roster"})
	}
	return c.JSON(fiber.Map{"data": players})
}

func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load player"})
	}
	return c.JSON(fiber.Map{"data": player})
}

type claimProfileRequest struct {
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	AvatarURL   string  `json:"avatar_url"`
}

// ClaimProfile registers a real member against a seed roster row. A
// profile can be claimed exactly once; rank and rating are untouched.
func (s *PlayerService) ClaimProfile(c *fiber.Ctx) error {
	var req claimProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load player"})
	}
	if player.IsClaimed {
		return c.Status(409).JSON(fiber.Map{"error": "profile already claimed"})
	}

	player.IsClaimed = true
	if req.DisplayName != "" {
		player.DisplayName = req.DisplayName
	}
	if req.Email != nil {
		player.Email = req.Email
	}
	if req.Phone != nil {
		player.Phone = req.Phone
	}
	if req.AvatarURL != "" {
		player.AvatarURL = req.AvatarURL
	}

	if err := s.DB.Save(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to claim profile"})
	}
	return c.JSON(fiber.Map{"data": player})
}

// UploadAvatar stores a profile photo in R2 and records the CDN URL.
func (s *PlayerService) UploadAvatar(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load player"})
	}

	file, err := c.FormFile("avatar")
	if err != nil || file.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "avatar file is required"})
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "avatars/" + uuid.NewString() + ext
	url, err := utils.UploadFileToR2(file, key)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload avatar"})
	}

	player.AvatarURL = url
	if err := s.DB.Save(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to save avatar URL"})
	}
	return c.JSON(fiber.Map{"data": player})
}
