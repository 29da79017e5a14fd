package services

import (
	"encoding/json"
	"testing"

	"pool-league-service/models"

	"github.com/stretchr/testify/assert"
)

func TestPublishIdempotent(t *testing.T) {
	defer clearDatabase()
	feedService := NewFeedService(testDb)

	actor := models.FeedActor{ID: "p1", DisplayName: "Player 1", Rank: 1}
	assert.NoError(t, feedService.Publish("chal_abc", actor, "first", models.FeedTypeChallengeUpdate))
	assert.NoError(t, feedService.Publish("chal_abc", actor, "second", models.FeedTypeChallengeUpdate))

	var items []models.FeedItem
	assert.NoError(t, testDb.Where("id = ?", "chal_abc").Find(&items).Error)
	assert.Len(t, items, 1)
	// the first write wins; the retry changes nothing
	assert.Equal(t, "first", items[0].Content)
}

func TestLikeFeedItem(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()

	item := models.FeedItem{
		ID:        "f_test",
		ActorID:   "p1",
		ActorData: models.FeedActor{ID: "p1", DisplayName: "Player 1"},
		Content:   "rack 'em",
		Type:      models.FeedTypeComment,
	}
	assert.NoError(t, testDb.Create(&item).Error)

	status, env := doJSON(t, app, "POST", "/feed/f_test/like", nil)
	assert.Equal(t, 200, status)

	var liked models.FeedItem
	assert.NoError(t, json.Unmarshal(env.Data, &liked))
	assert.Equal(t, 1, liked.Likes)

	status, env = doJSON(t, app, "POST", "/feed/f_test/like", nil)
	assert.Equal(t, 200, status)
	assert.NoError(t, json.Unmarshal(env.Data, &liked))
	assert.Equal(t, 2, liked.Likes)

	status, _ = doJSON(t, app, "POST", "/feed/missing/like", nil)
	assert.Equal(t, 404, status)
}

func TestGetFeedNewestFirst(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()
	seedPlayers(t, 3, 5)

	first := createChallenge(t, app, "p3", "p5", "9-ball", 7)
	second := createChallenge(t, app, "p5", "p3", "8-ball", 5)

	status, env := doJSON(t, app, "GET", "/feed", nil)
	assert.Equal(t, 200, status)

	var items []models.FeedItem
	assert.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	assert.Equal(t, models.ChallengeFeedID(second.ID), items[0].ID)
	assert.Equal(t, models.ChallengeFeedID(first.ID), items[1].ID)
}
