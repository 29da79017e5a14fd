package services

import (
	"encoding/json"
	"testing"
	"time"

	"pool-league-service/models"

	"github.com/stretchr/testify/assert"
)

func TestStartLivenessScheduler(t *testing.T) {
	s := NewMatchService(testDb)
	assert.NoError(t, s.StartLivenessScheduler())
}

func TestJoinStream(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()

	scheduled := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	match := models.Match{
		ID:            "m1",
		ChallengeID:   "c1",
		Player1ID:     "p3",
		Player2ID:     "p5",
		Venue:         "Eagles 4040",
		ScheduledTime: scheduled,
		IsLive:        true,
	}
	assert.NoError(t, testDb.Create(&match).Error)

	status, _ := doJSON(t, app, "POST", "/matches/m1/viewers", nil)
	assert.Equal(t, 200, status)

	status, _ = doJSON(t, app, "POST", "/matches/m1/viewers", nil)
	assert.Equal(t, 200, status)

	var current models.Match
	assert.NoError(t, testDb.First(&current, "id = ?", "m1").Error)
	assert.Equal(t, 2, current.Viewers)

	status, _ = doJSON(t, app, "POST", "/matches/ghost/viewers", nil)
	assert.Equal(t, 404, status)
}

func TestGetLiveMatchesOrderedByViewers(t *testing.T) {
	defer clearDatabase()
	app := newTestApp()

	scheduled := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	for _, m := range []models.Match{
		{ID: "m1", ChallengeID: "c1", Player1ID: "p1", Player2ID: "p2", Venue: "A", ScheduledTime: scheduled, IsLive: true, Viewers: 3},
		{ID: "m2", ChallengeID: "c2", Player1ID: "p3", Player2ID: "p4", Venue: "B", ScheduledTime: scheduled, IsLive: true, Viewers: 9},
		{ID: "m3", ChallengeID: "c3", Player1ID: "p5", Player2ID: "p6", Venue: "C", ScheduledTime: scheduled, IsLive: false},
	} {
		assert.NoError(t, testDb.Create(&m).Error)
	}

	status, env := doJSON(t, app, "GET", "/matches/live", nil)
	assert.Equal(t, 200, status)

	var matches []models.Match
	assert.NoError(t, json.Unmarshal(env.Data, &matches))
	assert.Len(t, matches, 2)
	assert.Equal(t, "m2", matches[0].ID)
	assert.Equal(t, "m1", matches[1].ID)
}
