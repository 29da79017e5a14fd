package models

import "time"

// Match is created exactly once, when a challenge is confirmed. The unique
// index on ChallengeID is what keeps a retried confirmation from minting a
// second match. Scores and liveness are owned by the live-scoring side.
type Match struct {
	ID          string `json:"id" gorm:"primaryKey"`
	ChallengeID string `json:"challenge_id" gorm:"uniqueIndex;not null"`

	// Role-neutral from here on: player1 was the challenger, player2 the
	// opponent, but the match does not care who initiated.
	Player1ID string `json:"player1_id" gorm:"index;not null"`
	Player2ID string `json:"player2_id" gorm:"index;not null"`

	Venue         string    `json:"venue"`
	ScheduledTime time.Time `json:"scheduled_time"`

	Score1  int  `json:"score1" gorm:"default:0"`
	Score2  int  `json:"score2" gorm:"default:0"`
	IsLive  bool `json:"is_live" gorm:"default:false"`
	Viewers int  `json:"viewers" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
