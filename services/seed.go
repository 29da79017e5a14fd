package services

import (
	"log"

	"pool-league-service/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Week-one ladder, best first. Ratings descend in even steps from the top
// seed until the rating sync worker brings in real numbers.
var seedRoster = []string{
	"Dan Hamper", "Mike Paliga", "David Smith", "Chase Dalin", "Mike Zahn",
	"Frank Kincl", "Dave Alderman", "Tim Webster", "Jerry Sabol", "Josh Fava",
	"Thomas E. Kingston", "Timmy Squires", "Eric Croft", "Kenny Thurman", "Vern Carpenter",
	"Louise Broksle", "Kurt Kubicka", "Chris Gomez", "George Cotton", "Anthony Jacobs",
	"Mike Churchill", "Matt Gilbert", "Gurn Blanston", "Rob Millions", "Walker Hopkins",
	"Janice Osborne", "Patrick Donald", "Tim Gregor", "James McMasters", "Joe Mackay",
	"Steve Adsem", "Josh Waples", "Samantha Chase", "Lea Hightshoe", "Courtney Norman",
	"Marc Sanche", "Roger Simmons", "Christina Talbot", "Jon Nash", "Sady Garrison",
	"Justin Cavazos", "Sean Royston", "James Smith", "Zach Ledesma", "Clayton Carter",
	"Ryan Fields", "Kris Vladic", "Nate Welch", "Josh Hill", "Steven Ross Brandenburg",
	"Troy Jacobs", "Makayla Ledford", "Sarah Urbaniak VanCleave", "Jennifer Lynn", "Walter Ryan Isenhour",
	"Craig Rogers", "Jesse Chandler", "Tizer Rushford", "Randy Hoag", "Justin Whittenberg",
	"Kenrick Leistiko", "Richard Frankforter", "Justin Huth", "Brandon Lucas Parker", "James Ellington",
	"Anita Scharf", "Ileana Hernandez", "Heather Jarvis", "Keenen Blackbird", "Vicki Clem",
	"Kelly Smail", "Kevin Croft", "Jake Nicholls",
}

const topSeedFargo = 650

// SeedLeagueData populates the roster and a starter feed on first boot.
// Both seeds are skipped as soon as the tables have any rows.
func SeedLeagueData(db *gorm.DB) error {
	var playerCount int64
	if err := db.Model(&models.Player{}).Count(&playerCount).Error; err != nil {
		return err
	}
	if playerCount == 0 {
		log.Println("🌱 Seeding roster…")
		players := make([]models.Player, len(seedRoster))
		for i, name := range seedRoster {
			players[i] = models.Player{
				ID:          slug.Make(name),
				DisplayName: name,
				Rank:        i + 1,
				FargoRate:   topSeedFargo - 4*i,
			}
		}
		if err := db.Create(&players).Error; err != nil {
			return err
		}
	}

	var feedCount int64
	if err := db.Model(&models.FeedItem{}).Count(&feedCount).Error; err != nil {
		return err
	}
	if feedCount == 0 {
		log.Println("🌱 Seeding feed…")
		actor := func(name string, rank int) models.FeedActor {
			return models.FeedActor{
				ID:          slug.Make(name),
				DisplayName: name,
				Rank:        rank,
				FargoRate:   topSeedFargo - 4*(rank-1),
			}
		}
		sys := models.SystemActor()
		items := []models.FeedItem{
			{
				ID:        "f1",
				ActorID:   slug.Make("Dan Hamper"),
				ActorData: actor("Dan Hamper", 1),
				Content:   "Just swept the floor with Mike Paliga. 7-5. Who wants next?",
				Type:      models.FeedTypeComment,
				Likes:     15,
			},
			{
				ID:        "f2",
				ActorID:   slug.Make("Mike Zahn"),
				ActorData: actor("Mike Zahn", 5),
				Content:   "Challenge issued to Dan Hamper. Race to 9. 9-Ball.",
				Type:      models.FeedTypeChallengeUpdate,
				Likes:     8,
			},
			{
				ID:        "f3",
				ActorID:   sys.ID,
				ActorData: models.FeedActor{ID: sys.ID, DisplayName: sys.DisplayName},
				Content:   "Reminder: Weekly tournament sign-ups close tonight at 8 PM at Valley Hub.",
				Type:      models.FeedTypeSystem,
				Likes:     24,
			},
			{
				ID:        "f4",
				ActorID:   slug.Make("David Smith"),
				ActorData: actor("David Smith", 3),
				Content:   "Anyone heading to Eagles tonight for some practice racks?",
				Type:      models.FeedTypeComment,
				Likes:     3,
			},
		}
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}

	return nil
}
