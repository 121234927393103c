// Package database provides a PostgreSQL implementation of storage.Store
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/seedsync/internal/db/sqlc"
	"github.com/stacklok/seedsync/internal/otel"
	"github.com/stacklok/seedsync/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// options holds configuration options for the database store
type options struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

// Option is a functional option for configuring the database store
type Option func(*options) error

// WithConnectionPool sets the pgx pool used by the store.
// The caller is responsible for closing the pool when it is done.
func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(o *options) error {
		if pool == nil {
			return fmt.Errorf("pgx pool is required")
		}
		o.pool = pool
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer for the store.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// dbStore implements storage.Store on PostgreSQL
type dbStore struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	tracer  trace.Tracer
}

var _ storage.Store = (*dbStore)(nil)

// New creates a new database-backed store with the given options
func New(opts ...Option) (storage.Store, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}

	return &dbStore{
		pool:    o.pool,
		queries: sqlc.New(o.pool),
		tracer:  o.tracer,
	}, nil
}

func (s *dbStore) GetEventByExternalID(ctx context.Context, externalID int64) (*storage.Event, error) {
	ctx, span := s.startSpan(ctx, "dbStore.GetEventByExternalID",
		trace.WithAttributes(otel.AttrEventID.Int64(externalID)))
	defer span.End()

	row, err := s.queries.GetEventByExternalID(ctx, externalID)
	if err != nil {
		recordError(span, err)
		return nil, mapError(err, fmt.Sprintf("event %d", externalID))
	}
	return toEvent(row), nil
}

func (s *dbStore) EnsureEvent(ctx context.Context, params storage.EventParams) (*storage.Event, error) {
	ctx, span := s.startSpan(ctx, "dbStore.EnsureEvent",
		trace.WithAttributes(otel.AttrEventID.Int64(params.ExternalID)))
	defer span.End()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Debug("Rollback failed", "event_id", params.ExternalID, "error", err)
		}
	}()

	querier := s.queries.WithTx(tx)

	tournamentID, err := querier.UpsertTournament(ctx, sqlc.UpsertTournamentParams{
		ExternalID: params.TournamentExternalID,
		Name:       params.TournamentName,
		StartAt:    params.TournamentStartAt,
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to ensure tournament %d: %w", params.TournamentExternalID, err)
	}

	row, err := querier.UpsertEvent(ctx, sqlc.UpsertEventParams{
		TournamentID: tournamentID,
		ExternalID:   params.ExternalID,
		Name:         params.Name,
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to ensure event %d: %w", params.ExternalID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return toEvent(row), nil
}

func (s *dbStore) CountSeedAssignments(ctx context.Context, eventID uuid.UUID) (int, error) {
	ctx, span := s.startSpan(ctx, "dbStore.CountSeedAssignments")
	defer span.End()

	n, err := s.queries.CountSeedAssignments(ctx, eventID)
	if err != nil {
		recordError(span, err)
		return 0, fmt.Errorf("failed to count seed assignments: %w", err)
	}
	return int(n), nil
}

func (s *dbStore) DeleteSeedAssignments(ctx context.Context, eventID uuid.UUID) (int, error) {
	ctx, span := s.startSpan(ctx, "dbStore.DeleteSeedAssignments")
	defer span.End()

	n, err := s.queries.DeleteSeedAssignments(ctx, eventID)
	if err != nil {
		recordError(span, err)
		return 0, fmt.Errorf("failed to delete seed assignments: %w", err)
	}
	span.SetAttributes(otel.AttrResultCount.Int64(n))
	return int(n), nil
}

func (s *dbStore) CreateSeedAssignment(
	ctx context.Context, eventID, competitorID uuid.UUID, seed int,
) (*storage.SeedAssignment, error) {
	ctx, span := s.startSpan(ctx, "dbStore.CreateSeedAssignment",
		trace.WithAttributes(otel.AttrSeed.Int(seed)))
	defer span.End()

	row, err := s.queries.InsertSeedAssignment(ctx, sqlc.InsertSeedAssignmentParams{
		EventID:      eventID,
		CompetitorID: competitorID,
		Seed:         int32(seed), //nolint:gosec // seeds are bounded by the entrant count
	})
	if err != nil {
		recordError(span, err)
		return nil, mapError(err, fmt.Sprintf("seed %d in event %s", seed, eventID))
	}
	return toSeedAssignment(row), nil
}

func (s *dbStore) ListSeedAssignments(ctx context.Context, eventID uuid.UUID) ([]storage.SeedAssignment, error) {
	ctx, span := s.startSpan(ctx, "dbStore.ListSeedAssignments")
	defer span.End()

	rows, err := s.queries.ListSeedAssignments(ctx, eventID)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to list seed assignments: %w", err)
	}

	out := make([]storage.SeedAssignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toSeedAssignment(row))
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(out)))
	return out, nil
}

func (s *dbStore) GetCompetitorByExternalUserID(ctx context.Context, externalUserID string) (*storage.Competitor, error) {
	ctx, span := s.startSpan(ctx, "dbStore.GetCompetitorByExternalUserID",
		trace.WithAttributes(otel.AttrUserID.String(externalUserID)))
	defer span.End()

	row, err := s.queries.GetCompetitorByExternalUserID(ctx, &externalUserID)
	if err != nil {
		recordError(span, err)
		return nil, mapError(err, "competitor "+externalUserID)
	}
	return toCompetitor(row), nil
}

func (s *dbStore) CreateCompetitor(ctx context.Context, c *storage.Competitor) (*storage.Competitor, error) {
	ctx, span := s.startSpan(ctx, "dbStore.CreateCompetitor",
		trace.WithAttributes(otel.AttrUserID.String(c.ExternalUserID)))
	defer span.End()

	row, err := s.queries.InsertCompetitor(ctx, sqlc.InsertCompetitorParams{
		ExternalUserID:   &c.ExternalUserID,
		ExternalPlayerID: c.ExternalPlayerID,
		Slug:             c.Slug,
		Name:             c.Name,
		Discriminator:    c.Discriminator,
		Bio:              c.Bio,
		Birthday:         c.Birthday,
		Pronouns:         c.Pronouns,
		City:             c.City,
		State:            c.State,
		Country:          c.Country,
		SocialHandle:     c.SocialHandle,
	})
	if err != nil {
		recordError(span, err)
		return nil, mapError(err, "competitor "+c.ExternalUserID)
	}
	return toCompetitor(row), nil
}

func (s *dbStore) UpdateCompetitor(ctx context.Context, c *storage.Competitor) (*storage.Competitor, error) {
	ctx, span := s.startSpan(ctx, "dbStore.UpdateCompetitor",
		trace.WithAttributes(otel.AttrUserID.String(c.ExternalUserID)))
	defer span.End()

	row, err := s.queries.UpdateCompetitorProfile(ctx, sqlc.UpdateCompetitorProfileParams{
		ExternalPlayerID: c.ExternalPlayerID,
		Slug:             c.Slug,
		Name:             c.Name,
		Discriminator:    c.Discriminator,
		Bio:              c.Bio,
		Birthday:         c.Birthday,
		Pronouns:         c.Pronouns,
		City:             c.City,
		State:            c.State,
		Country:          c.Country,
		SocialHandle:     c.SocialHandle,
		ID:               c.ID,
		ExternalUserID:   &c.ExternalUserID,
	})
	if err != nil {
		recordError(span, err)
		return nil, mapError(err, "competitor "+c.ExternalUserID)
	}
	return toCompetitor(row), nil
}

func (s *dbStore) SeedHistory(ctx context.Context, externalUserID string, excludeEventID uuid.UUID) ([]int, error) {
	ctx, span := s.startSpan(ctx, "dbStore.SeedHistory",
		trace.WithAttributes(otel.AttrUserID.String(externalUserID)))
	defer span.End()

	rows, err := s.queries.ListSeedHistory(ctx, sqlc.ListSeedHistoryParams{
		ExternalUserID: &externalUserID,
		ExcludeEventID: excludeEventID,
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to load seed history for %s: %w", externalUserID, err)
	}

	seeds := make([]int, 0, len(rows))
	for _, seed := range rows {
		seeds = append(seeds, int(seed))
	}
	span.SetAttributes(otel.AttrResultCount.Int(len(seeds)))
	return seeds, nil
}

// LockEvent takes a session-level advisory lock keyed by the external event id.
// The lock lives on one pooled connection, which is held until unlock.
func (s *dbStore) LockEvent(ctx context.Context, externalID int64) (func(), error) {
	ctx, span := s.startSpan(ctx, "dbStore.LockEvent",
		trace.WithAttributes(otel.AttrEventID.Int64(externalID)))
	defer span.End()

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	q := sqlc.New(conn)
	locked, err := q.TryEventLock(ctx, externalID)
	if err != nil {
		conn.Release()
		recordError(span, err)
		return nil, fmt.Errorf("failed to lock event %d: %w", externalID, err)
	}
	if !locked {
		conn.Release()
		return nil, fmt.Errorf("event %d: %w", externalID, storage.ErrLocked)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled
			if _, err := q.ReleaseEventLock(context.Background(), externalID); err != nil {
				slog.Warn("Failed to release event lock", "event_id", externalID, "error", err)
				// Closing the session drops its advisory locks
				_ = conn.Hijack().Close(context.Background())
				return
			}
			conn.Release()
		})
	}, nil
}

// mapError translates driver errors into storage sentinel errors
func mapError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", what, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func toEvent(row sqlc.Event) *storage.Event {
	return &storage.Event{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		ExternalID:   row.ExternalID,
		Name:         row.Name,
		CreatedAt:    row.CreatedAt,
	}
}

func toSeedAssignment(row sqlc.SeedAssignment) *storage.SeedAssignment {
	return &storage.SeedAssignment{
		ID:           row.ID,
		EventID:      row.EventID,
		CompetitorID: row.CompetitorID,
		Seed:         int(row.Seed),
		CreatedAt:    row.CreatedAt,
	}
}

func toCompetitor(row sqlc.Competitor) *storage.Competitor {
	c := &storage.Competitor{
		ID:               row.ID,
		ExternalPlayerID: row.ExternalPlayerID,
		Slug:             row.Slug,
		Name:             row.Name,
		Discriminator:    row.Discriminator,
		Bio:              row.Bio,
		Birthday:         row.Birthday,
		Pronouns:         row.Pronouns,
		City:             row.City,
		State:            row.State,
		Country:          row.Country,
		SocialHandle:     row.SocialHandle,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.ExternalUserID != nil {
		c.ExternalUserID = *row.ExternalUserID
	}
	return c
}
