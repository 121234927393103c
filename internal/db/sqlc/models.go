package sqlc

import (
	"time"

	"github.com/google/uuid"
)

type Competitor struct {
	ID               uuid.UUID `json:"id"`
	ExternalUserID   *string   `json:"external_user_id"`
	ExternalPlayerID string    `json:"external_player_id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Discriminator    string    `json:"discriminator"`
	Bio              string    `json:"bio"`
	Birthday         string    `json:"birthday"`
	Pronouns         string    `json:"pronouns"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Country          string    `json:"country"`
	SocialHandle     string    `json:"social_handle"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Event struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	ExternalID   int64     `json:"external_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

type EventSyncStatus struct {
	EventExternalID int64      `json:"event_external_id"`
	Phase           string     `json:"phase"`
	Message         *string    `json:"message"`
	LastAttempt     *time.Time `json:"last_attempt"`
	AttemptCount    int32      `json:"attempt_count"`
	LastSyncTime    *time.Time `json:"last_sync_time"`
	AssignmentCount int32      `json:"assignment_count"`
	SkippedCount    int32      `json:"skipped_count"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type SeedAssignment struct {
	ID           uuid.UUID `json:"id"`
	EventID      uuid.UUID `json:"event_id"`
	CompetitorID uuid.UUID `json:"competitor_id"`
	Seed         int32     `json:"seed"`
	CreatedAt    time.Time `json:"created_at"`
}

type Tournament struct {
	ID         uuid.UUID  `json:"id"`
	ExternalID int64      `json:"external_id"`
	Name       string     `json:"name"`
	StartAt    *time.Time `json:"start_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
