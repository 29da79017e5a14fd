package models

import "time"

// Proposal is a single venue+time suggestion attached to a challenge. A
// challenge may accumulate several (counter-proposals); the accepted one is
// tracked on the challenge metadata, not here.
type Proposal struct {
	ID          string `json:"id" gorm:"primaryKey"`
	ChallengeID string `json:"challenge_id" gorm:"index;not null"`
	ProposerID  string `json:"proposer_id" gorm:"not null"`

	Venue         string    `json:"venue" gorm:"not null"`
	ScheduledTime time.Time `json:"scheduled_time" gorm:"not null"`
	Message       *string   `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
