package services

import (
	"errors"
	"log"

	"pool-league-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

// Publish appends a feed item under the given id. If an item with that id
// already exists the call is a no-op, which is what makes engine-triggered
// announcements safe to retry. Content strings are supplied by the caller;
// the publisher has no opinion on copy.
func (s *FeedService) Publish(id string, actor models.FeedActor, content, feedType string) error {
	var count int64
	if err := s.DB.Model(&models.FeedItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	item := models.FeedItem{
		ID:        id,
		ActorID:   actor.ID,
		ActorData: actor,
		Content:   content,
		Type:      feedType,
	}
	// OnConflict DoNothing covers the race between the existence check and
	// the insert when two retries land at once.
	return s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
}

func (s *FeedService) GetFeed(c *fiber.Ctx) error {
	var items []models.FeedItem
	if err := s.DB.Order("created_at DESC").Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load feed"})
	}
	return c.JSON(fiber.Map{"data": items})
}

type createFeedItemRequest struct {
	ActorID string `json:"actor_id"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// CreateFeedItem handles direct user posts (comments). Engine announcements
// never come through here.
func (s *FeedService) CreateFeedItem(c *fiber.Ctx) error {
	var req createFeedItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.ActorID == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "actor_id and content are required"})
	}
	if req.Type == "" {
		req.Type = models.FeedTypeComment
	}
	if req.Type != models.FeedTypeComment && req.Type != models.FeedTypeMatchResult {
		return c.Status(400).JSON(fiber.Map{"error": "invalid feed item type"})
	}

	var actor models.Player
	if err := s.DB.First(&actor, "id = ?", req.ActorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "actor not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load actor"})
	}

	item := models.FeedItem{
		ID:      uuid.NewString(),
		ActorID: actor.ID,
		ActorData: models.FeedActor{
			ID:          actor.ID,
			DisplayName: actor.DisplayName,
			Rank:        actor.Rank,
			FargoRate:   actor.FargoRate,
			AvatarURL:   actor.AvatarURL,
		},
		Content: req.Content,
		Type:    req.Type,
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create feed item"})
	}
	return c.Status(201).JSON(fiber.Map{"data": item})
}

// LikeFeedItem bumps the like counter, the only mutation feed items get.
func (s *FeedService) LikeFeedItem(c *fiber.Ctx) error {
	id := c.Params("id")
	res := s.DB.Model(&models.FeedItem{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to like feed item"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "feed item not found"})
	}

	var item models.FeedItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to reload feed item"})
	}
	return c.JSON(fiber.Map{"data": item})
}

// announce is the engine's best-effort hook: a failed feed post is logged
// and never fails the transition that triggered it.
func (s *FeedService) announce(id string, actor models.FeedActor, content, feedType string) {
	if err := s.Publish(id, actor, content, feedType); err != nil {
		log.Printf("⚠️ [FEED] failed to publish %s: %v", id, err)
	}
}
