package seeding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/seedsync/internal/seeding"
)

// fixedHistory serves seed histories from a fixture map
type fixedHistory struct {
	seeds map[string][]int
	err   error
	calls int
}

func (f *fixedHistory) SeedHistory(_ context.Context, externalUserID string, _ uuid.UUID) ([]int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.seeds[externalUserID], nil
}

func TestBaseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed int
		want float64
	}{
		{1, 200}, {5, 160}, {8, 130},
		{9, 100}, {12, 85}, {16, 65},
		{17, 50}, {20, 47}, {32, 35},
		{33, 1}, {100, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, seeding.BaseScore(tt.seed), "seed %d", tt.seed)
	}
}

func TestChampionAndExperienceBonus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, seeding.ChampionBonus(1))
	assert.Equal(t, 50.0, seeding.ChampionBonus(2))
	assert.Equal(t, 25.0, seeding.ChampionBonus(3))
	assert.Equal(t, 0.0, seeding.ChampionBonus(4))

	assert.Equal(t, 0.0, seeding.ExperienceBonus(0))
	assert.Equal(t, 3.0, seeding.ExperienceBonus(1))
	assert.Equal(t, 48.0, seeding.ExperienceBonus(16))
	assert.Equal(t, 50.0, seeding.ExperienceBonus(17))
	assert.Equal(t, 50.0, seeding.ExperienceBonus(400))
}

func TestScoreHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		seeds []int
		want  float64
	}{
		{name: "no history", seeds: nil, want: 0},
		{name: "single seed 5", seeds: []int{5}, want: 168},
		{name: "champion", seeds: []int{1}, want: 308},
		{name: "participation without valid seeds", seeds: []int{0, 0}, want: 6},
		// (305 + 210) / 2 + 9, the unseeded entry still counts as a participation
		{name: "mixed", seeds: []int{1, 3, 0}, want: 266.5},
		{name: "deep seeds", seeds: []int{40, 17}, want: 36.5},
		{name: "rounded to two decimals", seeds: []int{1, 2, 4}, want: 250.67},
		{name: "experience cap", seeds: []int{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}, want: 155},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, seeding.ScoreHistory(tt.seeds))
		})
	}
}

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	history := &fixedHistory{seeds: map[string][]int{"bob": {5}}}
	scorer := seeding.NewScorer(history)
	eventID := uuid.New()

	score, err := scorer.Score(context.Background(), "bob", eventID)
	require.NoError(t, err)
	assert.Equal(t, 168.0, score)

	score, err = scorer.Score(context.Background(), "alice", eventID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	history.err = errors.New("db down")
	_, err = scorer.Score(context.Background(), "bob", eventID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bob")
}
