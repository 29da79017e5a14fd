package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"pool-league-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeService drives the three-step negotiation: challenger sends
// terms, opponent answers with logistics, challenger confirms. It is the
// only writer of challenge status.
type ChallengeService struct {
	DB   *gorm.DB
	Feed *FeedService
}

func NewChallengeService(db *gorm.DB, feed *FeedService) *ChallengeService {
	return &ChallengeService{DB: db, Feed: feed}
}

type createChallengeRequest struct {
	ChallengerID string `json:"challenger_id"`
	OpponentID   string `json:"opponent_id"`
	Discipline   string `json:"discipline"`
	RaceTo       int    `json:"race_to"`
}

// CreateChallenge validates terms and eligibility, then opens the challenge
// in pending_logistics. Validation always runs here even when the client
// already checked — the handler is authoritative.
func (s *ChallengeService) CreateChallenge(c *fiber.Ctx) error {
	var req createChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.ChallengerID == "" || req.OpponentID == "" || req.Discipline == "" || req.RaceTo == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "challenger_id, opponent_id, discipline and race_to are required"})
	}
	if req.ChallengerID == req.OpponentID {
		return c.Status(400).JSON(fiber.Map{"error": ErrSelfChallenge.Error()})
	}
	if err := ValidateTerms(req.Discipline, req.RaceTo); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var challenger, opponent models.Player
	if err := s.DB.First(&challenger, "id = ?", req.ChallengerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "challenger not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenger"})
	}
	if err := s.DB.First(&opponent, "id = ?", req.OpponentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "opponent not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load opponent"})
	}

	if err := CheckRankGap(challenger, opponent); err != nil {
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	}

	challenge := &models.Challenge{
		ID:           uuid.NewString(),
		ChallengerID: challenger.ID,
		OpponentID:   opponent.ID,
		Discipline:   req.Discipline,
		RaceTo:       req.RaceTo,
		Status:       models.ChallengeStatusPendingLogistics,
	}
	if err := s.DB.Create(challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create challenge"})
	}

	// Announcement is keyed by challenge id: a client retry that reaches
	// this point again cannot produce a second post.
	s.Feed.announce(
		models.ChallengeFeedID(challenge.ID),
		models.FeedActor{
			ID:          challenger.ID,
			DisplayName: challenger.DisplayName,
			Rank:        challenger.Rank,
			FargoRate:   challenger.FargoRate,
			AvatarURL:   challenger.AvatarURL,
		},
		fmt.Sprintf("Has challenged %s to a race to %d in %s!", opponent.DisplayName, challenge.RaceTo, challenge.Discipline),
		models.FeedTypeChallengeUpdate,
	)

	return c.Status(201).JSON(fiber.Map{"data": challenge})
}

type proposeLogisticsRequest struct {
	ChallengeID   string  `json:"challenge_id"`
	ProposerID    string  `json:"proposer_id"`
	Venue         string  `json:"venue"`
	ScheduledTime string  `json:"scheduled_time"`
	Message       *string `json:"message,omitempty"`
}

// ProposeLogistics moves pending_logistics → pending_confirmation. Only the
// opponent may propose; the ball then goes back to the challenger.
func (s *ChallengeService) ProposeLogistics(c *fiber.Ctx) error {
	var req proposeLogisticsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.ChallengeID == "" || req.ProposerID == "" || req.Venue == "" || req.ScheduledTime == "" {
		return c.Status(400).JSON(fiber.Map{"error": "challenge_id, proposer_id, venue and scheduled_time are required"})
	}
	scheduledTime, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid scheduled_time (use RFC3339)"})
	}

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", req.ChallengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenge"})
	}

	if !challenge.IsParty(req.ProposerID) {
		return c.Status(403).JSON(fiber.Map{"error": "proposer is not part of this challenge"})
	}
	if req.ProposerID == challenge.ChallengerID {
		return c.Status(403).JSON(fiber.Map{"error": "only the opponent may propose logistics"})
	}

	if challenge.Status != models.ChallengeStatusPendingLogistics {
		// Retried proposal: same proposer, same logistics, already applied.
		// Respond with the same shape as a fresh proposal.
		if challenge.Status == models.ChallengeStatusPendingConfirmation &&
			challenge.Metadata.LastProposedBy == req.ProposerID &&
			challenge.Venue == req.Venue &&
			challenge.ScheduledTime != nil && challenge.ScheduledTime.Equal(scheduledTime) {
			var existing models.Proposal
			if err := s.DB.Where("challenge_id = ? AND proposer_id = ?", challenge.ID, req.ProposerID).
				Order("created_at DESC").First(&existing).Error; err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to load proposal"})
			}
			return c.JSON(fiber.Map{"data": fiber.Map{
				"proposal":  existing,
				"challenge": challenge,
			}})
		}
		return c.Status(409).JSON(fiber.Map{"error": "challenge is not awaiting logistics"})
	}

	proposal := &models.Proposal{
		ID:            uuid.NewString(),
		ChallengeID:   challenge.ID,
		ProposerID:    req.ProposerID,
		Venue:         req.Venue,
		ScheduledTime: scheduledTime,
		Message:       req.Message,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(proposal).Error; err != nil {
			return err
		}
		challenge.Venue = req.Venue
		challenge.ScheduledTime = &scheduledTime
		challenge.Status = models.ChallengeStatusPendingConfirmation
		challenge.Metadata.Venue = req.Venue
		challenge.Metadata.ScheduledTime = scheduledTime.UTC().Format(time.RFC3339)
		challenge.Metadata.LastProposedBy = req.ProposerID
		return tx.Save(&challenge).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to record proposal"})
	}

	return c.Status(201).JSON(fiber.Map{"data": fiber.Map{
		"proposal":  proposal,
		"challenge": challenge,
	}})
}

type confirmChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
	ConfirmerID string `json:"confirmer_id"`
	ProposalID  string `json:"proposal_id"`
}

// ConfirmChallenge moves pending_confirmation → accepted and creates the
// match, atomically. Confirming again with the same proposal id is a no-op
// that returns the already-accepted state.
func (s *ChallengeService) ConfirmChallenge(c *fiber.Ctx) error {
	var req confirmChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.ChallengeID == "" || req.ConfirmerID == "" || req.ProposalID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "challenge_id, confirmer_id and proposal_id are required"})
	}

	var proposal models.Proposal
	if err := s.DB.First(&proposal, "id = ?", req.ProposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "proposal not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load proposal"})
	}
	// Consistency check before any write: never silently coerce a proposal
	// onto a different challenge.
	if proposal.ChallengeID != req.ChallengeID {
		return c.Status(409).JSON(fiber.Map{"error": "proposal does not belong to this challenge"})
	}

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", req.ChallengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenge"})
	}

	if req.ConfirmerID != challenge.ChallengerID {
		return c.Status(403).JSON(fiber.Map{"error": "only the challenger may confirm"})
	}

	if challenge.Status != models.ChallengeStatusPendingConfirmation {
		if challenge.Status == models.ChallengeStatusAccepted &&
			challenge.Metadata.AcceptedProposalID == req.ProposalID {
			var match models.Match
			if err := s.DB.First(&match, "challenge_id = ?", challenge.ID).Error; err != nil {
				return c.Status(500).JSON(fiber.Map{"error": "failed to load match"})
			}
			return c.JSON(fiber.Map{"data": fiber.Map{"challenge": challenge, "match": match}})
		}
		return c.Status(409).JSON(fiber.Map{"error": "challenge is not awaiting confirmation"})
	}

	// Announcement names are resolved before any write: a transient read
	// failure can only skip the post, never produce a nameless one.
	var challengerP, opponentP models.Player
	announceable := true
	if err := s.DB.First(&challengerP, "id = ?", challenge.ChallengerID).Error; err != nil {
		log.Printf("⚠️ [FEED] failed to load challenger %s for announcement: %v", challenge.ChallengerID, err)
		announceable = false
	}
	if err := s.DB.First(&opponentP, "id = ?", challenge.OpponentID).Error; err != nil {
		log.Printf("⚠️ [FEED] failed to load opponent %s for announcement: %v", challenge.OpponentID, err)
		announceable = false
	}

	match := &models.Match{
		ID:            uuid.NewString(),
		ChallengeID:   challenge.ID,
		Player1ID:     challenge.ChallengerID,
		Player2ID:     challenge.OpponentID,
		Venue:         proposal.Venue,
		ScheduledTime: proposal.ScheduledTime,
	}

	// Status flip and match creation share one transaction so a failure on
	// either side leaves nothing half-applied.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		challenge.Status = models.ChallengeStatusAccepted
		challenge.Venue = proposal.Venue
		challenge.ScheduledTime = &proposal.ScheduledTime
		challenge.Metadata.AcceptedProposalID = proposal.ID
		challenge.Metadata.Venue = proposal.Venue
		challenge.Metadata.ScheduledTime = proposal.ScheduledTime.UTC().Format(time.RFC3339)
		if err := tx.Save(&challenge).Error; err != nil {
			return err
		}

		// The unique index on challenge_id is the hard guarantee; this read
		// keeps the common retry path quiet.
		var existing int64
		if err := tx.Model(&models.Match{}).Where("challenge_id = ?", challenge.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return tx.First(match, "challenge_id = ?", challenge.ID).Error
		}
		return tx.Create(match).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to confirm challenge"})
	}

	if announceable {
		sys := models.SystemActor()
		s.Feed.announce(
			models.MatchFeedID(challenge.ID),
			models.FeedActor{ID: sys.ID, DisplayName: sys.DisplayName},
			fmt.Sprintf("MATCH SET: %s vs %s @ %s on %s.",
				challengerP.DisplayName, opponentP.DisplayName, match.Venue, match.ScheduledTime.Format("Jan 2, 2006")),
			models.FeedTypeSystem,
		)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"challenge": challenge, "match": match}})
}

type declineChallengeRequest struct {
	ActorID string `json:"actor_id"`
}

// DeclineChallenge is allowed to either party from either pending state.
func (s *ChallengeService) DeclineChallenge(c *fiber.Ctx) error {
	var req declineChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.ActorID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "actor_id is required"})
	}

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenge"})
	}

	if !challenge.IsParty(req.ActorID) {
		return c.Status(403).JSON(fiber.Map{"error": "only a challenge party may decline"})
	}

	switch challenge.Status {
	case models.ChallengeStatusDeclined:
		return c.JSON(fiber.Map{"data": challenge})
	case models.ChallengeStatusPendingLogistics, models.ChallengeStatusPendingConfirmation:
		// fall through to the update
	default:
		return c.Status(409).JSON(fiber.Map{"error": "challenge can no longer be declined"})
	}

	challenge.Status = models.ChallengeStatusDeclined
	if err := s.DB.Save(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to decline challenge"})
	}
	return c.JSON(fiber.Map{"data": challenge})
}

func (s *ChallengeService) GetAllChallenges(c *fiber.Ctx) error {
	var challenges []models.Challenge
	if err := s.DB.Order("created_at DESC").Find(&challenges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenges"})
	}
	return c.JSON(fiber.Map{"data": challenges})
}

func (s *ChallengeService) GetChallengeByID(c *fiber.Ctx) error {
	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load challenge"})
	}
	return c.JSON(fiber.Map{"data": challenge})
}
