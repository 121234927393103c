package seeding

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

const (
	participationBonus   = 5.0
	experiencePerEvent   = 3.0
	maxExperienceBonus   = 50.0
	firstSeedChampBonus  = 100.0
	secondSeedChampBonus = 50.0
	thirdSeedChampBonus  = 25.0
)

// HistoryLookup reports the seeds a competitor held in past events
type HistoryLookup interface {
	// SeedHistory returns one seed per prior assignment of the competitor identified by
	// externalUserID, ignoring assignments for excludeEventID. Unknown competitors have no history.
	SeedHistory(ctx context.Context, externalUserID string, excludeEventID uuid.UUID) ([]int, error)
}

// Scorer computes history based fitness scores
type Scorer struct {
	history HistoryLookup
}

// NewScorer creates a Scorer reading from history
func NewScorer(history HistoryLookup) *Scorer {
	return &Scorer{history: history}
}

// Score returns the fitness score of a competitor, ignoring the event being synced
func (s *Scorer) Score(ctx context.Context, externalUserID string, eventID uuid.UUID) (float64, error) {
	seeds, err := s.history.SeedHistory(ctx, externalUserID, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed history for %s: %w", externalUserID, err)
	}
	return ScoreHistory(seeds), nil
}

// ScoreHistory scores a list of past seeds. Every entry counts as a participation;
// only positive seeds contribute to the averaged placement score.
func ScoreHistory(seeds []int) float64 {
	if len(seeds) == 0 {
		return 0
	}

	experience := ExperienceBonus(len(seeds))

	var total float64
	placed := 0
	for _, seed := range seeds {
		if seed <= 0 {
			continue
		}
		total += BaseScore(seed) + participationBonus + ChampionBonus(seed)
		placed++
	}

	if placed == 0 {
		return round2(experience)
	}
	return round2(total/float64(placed) + experience)
}

// BaseScore is the tiered score of a single seed; lower seeds score steeply higher
func BaseScore(seed int) float64 {
	s := float64(seed)
	switch {
	case seed <= 8:
		return 200 - (s-1)*10
	case seed <= 16:
		return 100 - (s-9)*5
	case seed <= 32:
		return 50 - (s - 17)
	default:
		return math.Max(30-s, 1)
	}
}

// ChampionBonus rewards historical top three seeds
func ChampionBonus(seed int) float64 {
	switch seed {
	case 1:
		return firstSeedChampBonus
	case 2:
		return secondSeedChampBonus
	case 3:
		return thirdSeedChampBonus
	default:
		return 0
	}
}

// ExperienceBonus is 3 points per participation, capped at 50
func ExperienceBonus(participations int) float64 {
	return math.Min(experiencePerEvent*float64(participations), maxExperienceBonus)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
