package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Challenge statuses. A challenge starts in pending_logistics and only ever
// moves forward; accepted/declined/completed are terminal.
const (
	ChallengeStatusPendingLogistics    = "pending_logistics"
	ChallengeStatusPendingConfirmation = "pending_confirmation"
	ChallengeStatusAccepted            = "accepted"
	ChallengeStatusDeclined            = "declined"
	ChallengeStatusCompleted           = "completed" // reserved for post-match reporting
)

const (
	Discipline8Ball  = "8-ball"
	Discipline9Ball  = "9-ball"
	Discipline10Ball = "10-ball"
)

// MinRaceTo is the shortest race the league sanctions.
const MinRaceTo = 5

// MaxRankGap limits challenges to near-neighbors on the ladder.
const MaxRankGap = 5

// ChallengeMetadata carries the last-proposed logistics and, after
// confirmation, the accepted proposal. Stored as a JSONB attachment on the
// challenge row.
type ChallengeMetadata struct {
	Venue              string `json:"venue,omitempty"`
	ScheduledTime      string `json:"scheduled_time,omitempty"`
	LastProposedBy     string `json:"last_proposed_by,omitempty"`
	AcceptedProposalID string `json:"accepted_proposal_id,omitempty"`
}

func (m ChallengeMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *ChallengeMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = ChallengeMetadata{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported metadata column type %T", value)
		}
	}
	return json.Unmarshal(b, m)
}

// Challenge is a two-party negotiation between a challenger and an opponent.
// Roles are asymmetric: the opponent answers with logistics, the challenger
// gives the final confirmation.
type Challenge struct {
	ID           string `json:"id" gorm:"primaryKey"`
	ChallengerID string `json:"challenger_id" gorm:"index;not null"`
	OpponentID   string `json:"opponent_id" gorm:"index;not null"`

	Discipline string `json:"discipline" gorm:"type:varchar(16);not null"`
	RaceTo     int    `json:"race_to" gorm:"not null"`

	Status string `json:"status" gorm:"type:varchar(32);index;default:'pending_logistics'"`

	// Venue/ScheduledTime are both empty until logistics are proposed, then
	// both set for the rest of the challenge's life.
	Venue         string     `json:"venue,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`

	Metadata ChallengeMetadata `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NextActorID derives who must act from status + role. It is never
// persisted, so it cannot drift from the status column.
func (ch *Challenge) NextActorID() string {
	switch ch.Status {
	case ChallengeStatusPendingLogistics:
		return ch.OpponentID
	case ChallengeStatusPendingConfirmation:
		return ch.ChallengerID
	default:
		return ""
	}
}

// IsParty reports whether the given player is one of the two sides.
func (ch *Challenge) IsParty(playerID string) bool {
	return playerID == ch.ChallengerID || playerID == ch.OpponentID
}

// AllowedDiscipline checks the fixed discipline whitelist.
func AllowedDiscipline(d string) bool {
	switch d {
	case Discipline8Ball, Discipline9Ball, Discipline10Ball:
		return true
	}
	return false
}
