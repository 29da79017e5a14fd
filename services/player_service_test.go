package services

import (
	"encoding/json"
	"testing"

	"pool-league-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestClaimProfileOnce(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()
	seedPlayers(t, 3)

	email := "p3@example.com"
	status, env := doJSON(t, app, "POST", "/players/p3/claim", fiber.Map{
		"email": email,
	})
	assert.Equal(t, 200, status, "claim failed: %s", env.Error)

	var claimed models.Player
	assert.NoError(t, json.Unmarshal(env.Data, &claimed))
	assert.True(t, claimed.IsClaimed)
	assert.NotNil(t, claimed.Email)
	assert.Equal(t, email, *claimed.Email)
	// rank and rating are untouched by a claim
	assert.Equal(t, 3, claimed.Rank)

	// second claim is rejected
	status, _ = doJSON(t, app, "POST", "/players/p3/claim", fiber.Map{})
	assert.Equal(t, 409, status)
}

func TestClaimUnknownPlayer(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()

	status, _ := doJSON(t, app, "POST", "/players/ghost/claim", fiber.Map{})
	assert.Equal(t, 404, status)
}

func TestSeedLeagueDataIdempotent(t *testing.T) {
	defer clearDatabase()

	assert.NoError(t, SeedLeagueData(testDb))

	var playerCount int64
	testDb.Model(&models.Player{}).Count(&playerCount)
	assert.EqualValues(t, 73, playerCount)

	var top models.Player
	assert.NoError(t, testDb.Where("rank = ?", 1).First(&top).Error)
	assert.Equal(t, "Dan Hamper", top.DisplayName)
	assert.Equal(t, "dan-hamper", top.ID)
	assert.False(t, top.IsClaimed)

	// second boot seeds nothing new
	assert.NoError(t, SeedLeagueData(testDb))
	testDb.Model(&models.Player{}).Count(&playerCount)
	assert.EqualValues(t, 73, playerCount)

	var feedCount int64
	testDb.Model(&models.FeedItem{}).Count(&feedCount)
	assert.EqualValues(t, 4, feedCount)
}
