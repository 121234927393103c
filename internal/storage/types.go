// Package storage defines the persistence model of seedsync and the Store used by the sync engine.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=types.go Store

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("conflicts with existing record")

	// ErrLocked is returned when another sync holds the event lock
	ErrLocked = errors.New("event is locked by another sync")
)

// Tournament is an external competition; it is never modified once stored
type Tournament struct {
	ID         uuid.UUID
	ExternalID int64
	Name       string
	StartAt    *time.Time
	CreatedAt  time.Time
}

// Event is one bracket of a tournament and the unit of synchronization
type Event struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	ExternalID   int64
	Name         string
	CreatedAt    time.Time
}

// Competitor is the local identity of a platform user, shared across events
type Competitor struct {
	ID               uuid.UUID
	ExternalUserID   string
	ExternalPlayerID string
	Slug             string
	Name             string
	Discriminator    string
	Bio              string
	Birthday         string
	Pronouns         string
	City             string
	State            string
	Country          string
	SocialHandle     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SeedAssignment places a competitor on a seed of an event.
// Seeds and competitors are both unique within an event.
type SeedAssignment struct {
	ID           uuid.UUID
	EventID      uuid.UUID
	CompetitorID uuid.UUID
	Seed         int
	CreatedAt    time.Time
}

// EventParams describes an event and its tournament as reported by the platform
type EventParams struct {
	ExternalID           int64
	Name                 string
	TournamentExternalID int64
	TournamentName       string
	TournamentStartAt    *time.Time
}

// Store is the persistence used by the sync engine
type Store interface {
	// GetEventByExternalID returns ErrNotFound for unknown events
	GetEventByExternalID(ctx context.Context, externalID int64) (*Event, error)

	// EnsureEvent inserts the tournament and event if absent and returns the stored event
	EnsureEvent(ctx context.Context, params EventParams) (*Event, error)

	CountSeedAssignments(ctx context.Context, eventID uuid.UUID) (int, error)

	// DeleteSeedAssignments removes every assignment of the event and returns how many were removed
	DeleteSeedAssignments(ctx context.Context, eventID uuid.UUID) (int, error)

	// CreateSeedAssignment returns ErrConflict when the seed or competitor is already placed in the event
	CreateSeedAssignment(ctx context.Context, eventID, competitorID uuid.UUID, seed int) (*SeedAssignment, error)

	// ListSeedAssignments returns the event's assignments ordered by seed
	ListSeedAssignments(ctx context.Context, eventID uuid.UUID) ([]SeedAssignment, error)

	// GetCompetitorByExternalUserID returns ErrNotFound for unknown users
	GetCompetitorByExternalUserID(ctx context.Context, externalUserID string) (*Competitor, error)

	// CreateCompetitor returns ErrConflict when the external user id is taken
	CreateCompetitor(ctx context.Context, competitor *Competitor) (*Competitor, error)

	// UpdateCompetitor overwrites the profile fields of an existing competitor
	UpdateCompetitor(ctx context.Context, competitor *Competitor) (*Competitor, error)

	// SeedHistory returns the seeds of every assignment of the user outside excludeEventID
	SeedHistory(ctx context.Context, externalUserID string, excludeEventID uuid.UUID) ([]int, error)

	// LockEvent takes an exclusive, non-blocking lock on the event.
	// It returns ErrLocked when the lock is held elsewhere; unlock releases it.
	LockEvent(ctx context.Context, externalID int64) (unlock func(), err error)
}
