package seeding

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/stacklok/seedsync/internal/sources"
)

// EntrantScorer scores a competitor for conflict resolution
type EntrantScorer interface {
	Score(ctx context.Context, externalUserID string, eventID uuid.UUID) (float64, error)
}

// ResolvedEntrant is an entrant with its final, event-unique seed
type ResolvedEntrant struct {
	Entrant sources.RawEntrant

	// OriginalSeed is the seed claimed on the platform
	OriginalSeed int

	// Seed is the final seed after resolution
	Seed int

	// Reassigned is set for entrants that lost a conflict and were moved
	Reassigned bool
}

// Conflict records how one contested seed was decided
type Conflict struct {
	Seed      int
	Winner    string
	Discarded []string
	Scores    map[string]float64
}

// Resolution is the outcome of resolving an event's entrant list
type Resolution struct {
	// Entrants holds every input entrant exactly once, ordered by final seed
	Entrants []ResolvedEntrant

	Conflicts  []Conflict
	Reassigned int
}

// Resolver assigns unique seeds to entrants that claim the same seed number
type Resolver struct {
	scorer EntrantScorer
}

// NewResolver creates a Resolver using scorer to decide conflicts
func NewResolver(scorer EntrantScorer) *Resolver {
	return &Resolver{scorer: scorer}
}

// Resolve returns a seed-unique assignment of entrants for eventID.
//
// Each seed claimed by several entrants stays with the strictly highest scored one;
// on an exact tie the entrant first in platform response order keeps it. Losers,
// ordered by claimed seed, take the seeds between 1 and the highest claim that no
// winner holds, then consecutive seeds after the highest claim.
func (r *Resolver) Resolve(ctx context.Context, eventID uuid.UUID, entrants []sources.RawEntrant) (*Resolution, error) {
	res := &Resolution{Entrants: make([]ResolvedEntrant, 0, len(entrants))}
	if len(entrants) == 0 {
		return res, nil
	}

	groups := make(map[int][]sources.RawEntrant)
	var order []int
	maxSeed := 0
	for _, e := range entrants {
		if _, seen := groups[e.Seed]; !seen {
			order = append(order, e.Seed)
		}
		groups[e.Seed] = append(groups[e.Seed], e)
		maxSeed = max(maxSeed, e.Seed)
	}

	taken := make(map[int]bool, len(order))
	var discarded []sources.RawEntrant

	for _, seed := range order {
		group := groups[seed]
		winner := 0

		if len(group) > 1 {
			conflict := Conflict{Seed: seed, Scores: make(map[string]float64, len(group))}
			best := 0.0
			for i, e := range group {
				score, err := r.scorer.Score(ctx, e.ExternalUserID, eventID)
				if err != nil {
					return nil, fmt.Errorf("failed to score entrant %q for seed %d: %w", e.Name, seed, err)
				}
				conflict.Scores[e.ExternalUserID] = score
				if i == 0 || score > best {
					winner, best = i, score
				}
			}

			conflict.Winner = group[winner].ExternalUserID
			for i, e := range group {
				if i != winner {
					discarded = append(discarded, e)
					conflict.Discarded = append(conflict.Discarded, e.ExternalUserID)
				}
			}
			res.Conflicts = append(res.Conflicts, conflict)

			slog.Info("Resolved seed conflict",
				"event_id", eventID.String(),
				"seed", seed,
				"claimants", len(group),
				"winner", group[winner].Name,
				"winner_score", best,
			)
		}

		taken[seed] = true
		res.Entrants = append(res.Entrants, ResolvedEntrant{
			Entrant:      group[winner],
			OriginalSeed: seed,
			Seed:         seed,
		})
	}

	var missing []int
	for s := 1; s <= maxSeed && len(missing) < len(discarded); s++ {
		if !taken[s] {
			missing = append(missing, s)
		}
	}

	slices.SortStableFunc(discarded, func(a, b sources.RawEntrant) int {
		return cmp.Compare(a.Seed, b.Seed)
	})

	next := maxSeed
	for i, e := range discarded {
		var seed int
		if i < len(missing) {
			seed = missing[i]
		} else {
			next++
			seed = next
		}
		slog.Debug("Reassigned entrant",
			"event_id", eventID.String(),
			"entrant", e.Name,
			"claimed_seed", e.Seed,
			"seed", seed,
		)
		res.Entrants = append(res.Entrants, ResolvedEntrant{
			Entrant:      e,
			OriginalSeed: e.Seed,
			Seed:         seed,
			Reassigned:   true,
		})
	}
	res.Reassigned = len(discarded)

	slices.SortStableFunc(res.Entrants, func(a, b ResolvedEntrant) int {
		return cmp.Compare(a.Seed, b.Seed)
	})

	return res, nil
}
