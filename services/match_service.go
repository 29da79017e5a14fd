package services

import (
	"errors"
	"log"
	"time"

	"pool-league-service/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MatchService only reads matches and maintains liveness; scores belong to
// the live-scoring side.
type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

func (s *MatchService) GetAllMatches(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Order("created_at DESC").Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load matches"})
	}
	return c.JSON(fiber.Map{"data": matches})
}

func (s *MatchService) GetLiveMatches(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Where("is_live = ?", true).Order("viewers DESC").Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load live matches"})
	}
	return c.JSON(fiber.Map{"data": matches})
}

// JoinStream bumps the viewer counter for the stream screen.
func (s *MatchService) JoinStream(c *fiber.Ctx) error {
	id := c.Params("id")
	res := s.DB.Model(&models.Match{}).Where("id = ?", id).
		UpdateColumn("viewers", gorm.Expr("viewers + 1"))
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to join stream"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}

	var match models.Match
	if err := s.DB.First(&match, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to reload match"})
	}
	return c.JSON(fiber.Map{"data": match})
}

// StartLivenessScheduler flips matches live once their scheduled time
// arrives. Runs every minute.
func (s *MatchService) StartLivenessScheduler() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var matches []models.Match
			now := time.Now()
			err := s.DB.Where("is_live = ? AND scheduled_time <= ?", false, now).
				Find(&matches).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, m := range matches {
				m.IsLive = true
				if err := s.DB.Save(&m).Error; err != nil {
					log.Printf("[Scheduler] Failed to set match %s live: %v", m.ID, err)
				} else {
					log.Printf("✅ Match live: %s vs %s @ %s", m.Player1ID, m.Player2ID, m.Venue)
				}
			}
		}),
	)
	return err
}
