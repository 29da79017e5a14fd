package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	FeedTypeComment         = "comment"
	FeedTypeMatchResult     = "match_result"
	FeedTypeChallengeUpdate = "challenge_update"
	FeedTypeSystem          = "system"
)

// FeedActor is the denormalized snapshot of whoever posted the item, stored
// as JSONB in the actor_data column ("user" is a reserved word in Postgres).
type FeedActor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Rank        int    `json:"rank"`
	FargoRate   int    `json:"fargo_rate"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func (a FeedActor) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *FeedActor) Scan(value interface{}) error {
	if value == nil {
		*a = FeedActor{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported actor_data column type %T", value)
		}
	}
	return json.Unmarshal(b, a)
}

// FeedItem is append-only. Engine-produced items carry deterministic ids
// (chal_<challenge_id>, match_<challenge_id>) so a retried transition is a
// no-op instead of a duplicate post. Only Likes is ever mutated.
type FeedItem struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ActorID   string    `json:"actor_id" gorm:"index"`
	ActorData FeedActor `json:"user" gorm:"type:jsonb;column:actor_data"`
	Content   string    `json:"content" gorm:"not null"`
	Type      string    `json:"type" gorm:"type:varchar(24);check:type IN ('comment','match_result','challenge_update','system')"`
	Likes     int       `json:"likes" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

// ChallengeFeedID is the deterministic key for the challenge announcement.
func ChallengeFeedID(challengeID string) string {
	return "chal_" + challengeID
}

// MatchFeedID is the deterministic key for the match-set announcement.
func MatchFeedID(challengeID string) string {
	return "match_" + challengeID
}
