// Package inmemory provides a process-local implementation of storage.Store
package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/seedsync/internal/storage"
)

// store keeps every record in maps guarded by a single mutex
type store struct {
	mu          sync.RWMutex // Protects everything below except locks
	tournaments map[int64]*storage.Tournament
	events      map[int64]*storage.Event
	competitors map[string]*storage.Competitor
	assignments map[uuid.UUID][]storage.SeedAssignment

	lockMu sync.Mutex
	locks  map[int64]bool

	now func() time.Time
}

var _ storage.Store = (*store)(nil)

// Option configures the in-memory store
type Option func(*store)

// WithClock sets the time source used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *store) {
		s.now = now
	}
}

// New creates an empty in-memory store
func New(opts ...Option) storage.Store {
	s := &store{
		tournaments: make(map[int64]*storage.Tournament),
		events:      make(map[int64]*storage.Event),
		competitors: make(map[string]*storage.Competitor),
		assignments: make(map[uuid.UUID][]storage.SeedAssignment),
		locks:       make(map[int64]bool),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *store) GetEventByExternalID(_ context.Context, externalID int64) (*storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[externalID]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", externalID, storage.ErrNotFound)
	}
	out := *event
	return &out, nil
}

func (s *store) EnsureEvent(_ context.Context, params storage.EventParams) (*storage.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tournament, ok := s.tournaments[params.TournamentExternalID]
	if !ok {
		tournament = &storage.Tournament{
			ID:         uuid.New(),
			ExternalID: params.TournamentExternalID,
			Name:       params.TournamentName,
			StartAt:    params.TournamentStartAt,
			CreatedAt:  now,
		}
		s.tournaments[params.TournamentExternalID] = tournament
	}

	event, ok := s.events[params.ExternalID]
	if !ok {
		event = &storage.Event{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			ExternalID:   params.ExternalID,
			Name:         params.Name,
			CreatedAt:    now,
		}
		s.events[params.ExternalID] = event
	}

	out := *event
	return &out, nil
}

func (s *store) CountSeedAssignments(_ context.Context, eventID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assignments[eventID]), nil
}

func (s *store) DeleteSeedAssignments(_ context.Context, eventID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.assignments[eventID])
	delete(s.assignments, eventID)
	return n, nil
}

func (s *store) CreateSeedAssignment(
	_ context.Context, eventID, competitorID uuid.UUID, seed int,
) (*storage.SeedAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assignments[eventID] {
		if a.Seed == seed {
			return nil, fmt.Errorf("seed %d in event %s: %w", seed, eventID, storage.ErrConflict)
		}
		if a.CompetitorID == competitorID {
			return nil, fmt.Errorf("competitor %s in event %s: %w", competitorID, eventID, storage.ErrConflict)
		}
	}

	assignment := storage.SeedAssignment{
		ID:           uuid.New(),
		EventID:      eventID,
		CompetitorID: competitorID,
		Seed:         seed,
		CreatedAt:    s.now(),
	}
	s.assignments[eventID] = append(s.assignments[eventID], assignment)
	return &assignment, nil
}

func (s *store) ListSeedAssignments(_ context.Context, eventID uuid.UUID) ([]storage.SeedAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.assignments[eventID])
	slices.SortFunc(out, func(a, b storage.SeedAssignment) int {
		return cmp.Compare(a.Seed, b.Seed)
	})
	return out, nil
}

func (s *store) GetCompetitorByExternalUserID(_ context.Context, externalUserID string) (*storage.Competitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.competitors[externalUserID]
	if !ok {
		return nil, fmt.Errorf("competitor %s: %w", externalUserID, storage.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (s *store) CreateCompetitor(_ context.Context, competitor *storage.Competitor) (*storage.Competitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.competitors[competitor.ExternalUserID]; exists {
		return nil, fmt.Errorf("competitor %s: %w", competitor.ExternalUserID, storage.ErrConflict)
	}

	c := *competitor
	c.ID = uuid.New()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.competitors[c.ExternalUserID] = &c

	out := c
	return &out, nil
}

func (s *store) UpdateCompetitor(_ context.Context, competitor *storage.Competitor) (*storage.Competitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.competitors[competitor.ExternalUserID]
	if !ok || existing.ID != competitor.ID {
		return nil, fmt.Errorf("competitor %s: %w", competitor.ExternalUserID, storage.ErrNotFound)
	}

	c := *competitor
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	s.competitors[c.ExternalUserID] = &c

	out := c
	return &out, nil
}

func (s *store) SeedHistory(_ context.Context, externalUserID string, excludeEventID uuid.UUID) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.competitors[externalUserID]
	if !ok {
		return nil, nil
	}

	var seeds []int
	for eventID, assignments := range s.assignments {
		if eventID == excludeEventID {
			continue
		}
		for _, a := range assignments {
			if a.CompetitorID == c.ID {
				seeds = append(seeds, a.Seed)
			}
		}
	}
	// Map iteration order is random
	slices.Sort(seeds)
	return seeds, nil
}

func (s *store) LockEvent(_ context.Context, externalID int64) (func(), error) {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if s.locks[externalID] {
		return nil, fmt.Errorf("event %d: %w", externalID, storage.ErrLocked)
	}
	s.locks[externalID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lockMu.Lock()
			defer s.lockMu.Unlock()
			delete(s.locks, externalID)
		})
	}, nil
}
