package services

import (
	"errors"
	"fmt"

	"pool-league-service/models"
)

// Validation failures (bad terms) are distinct from eligibility failures
// (rank gap) so callers can render "not eligible" instead of "bad request".
var (
	ErrInvalidDiscipline = errors.New("invalid discipline")
	ErrRaceTooShort      = fmt.Errorf("race_to must be >= %d", models.MinRaceTo)
	ErrSelfChallenge     = errors.New("challenger and opponent must be different players")
	ErrRankGapTooWide    = fmt.Errorf("rank difference > %d not allowed", models.MaxRankGap)
)

// ValidateTerms checks the challenge terms themselves: discipline must be on
// the league whitelist and the race length at least the sanctioned minimum.
// Always re-run server-side regardless of client-side checks.
func ValidateTerms(discipline string, raceTo int) error {
	if !models.AllowedDiscipline(discipline) {
		return ErrInvalidDiscipline
	}
	if raceTo < models.MinRaceTo {
		return ErrRaceTooShort
	}
	return nil
}

// CheckRankGap enforces the ladder eligibility rule: only players within
// MaxRankGap positions of each other may play for ranking.
func CheckRankGap(challenger, opponent models.Player) error {
	gap := challenger.Rank - opponent.Rank
	if gap < 0 {
		gap = -gap
	}
	if gap > models.MaxRankGap {
		return ErrRankGapTooWide
	}
	return nil
}
