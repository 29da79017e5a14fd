package models

import (
	"time"
)

// Player is one row of the league ladder. Rank and FargoRate are maintained
// by the external rating service (see workers.RatingSyncWorker); the
// challenge engine only reads them.
type Player struct {
	ID          string `json:"id" gorm:"primaryKey"`
	DisplayName string `json:"display_name" gorm:"not null"`
	FargoRate   int    `json:"fargo_rate" gorm:"default:0"`
	Rank        int    `json:"rank" gorm:"uniqueIndex;not null"` // ladder position, lower is better

	AvatarURL string `json:"avatar_url,omitempty"`

	// IsClaimed distinguishes a registered member from a seed placeholder.
	// Flipped exactly once when a player claims their profile.
	IsClaimed bool    `json:"is_claimed" gorm:"default:false"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SystemActorID is the synthetic identity used for automated feed
// announcements ("League Bot").
const SystemActorID = "sys"

func SystemActor() Player {
	return Player{ID: SystemActorID, DisplayName: "League Bot"}
}
