// Package identity maps platform users onto local competitors
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/seedsync/internal/sources"
	"github.com/stacklok/seedsync/internal/storage"
)

// ErrMissingExternalID is returned for entrants without a platform user id
var ErrMissingExternalID = errors.New("entrant has no external user id")

// CompetitorStore is the subset of storage.Store the resolver needs
type CompetitorStore interface {
	GetCompetitorByExternalUserID(ctx context.Context, externalUserID string) (*storage.Competitor, error)
	CreateCompetitor(ctx context.Context, competitor *storage.Competitor) (*storage.Competitor, error)
	UpdateCompetitor(ctx context.Context, competitor *storage.Competitor) (*storage.Competitor, error)
}

// Resolver finds or creates the competitor behind an entrant
type Resolver struct {
	store CompetitorStore
}

// NewResolver creates a Resolver backed by store
func NewResolver(store CompetitorStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the competitor for the entrant's platform user.
// Unknown users are created from the entrant profile. Known users are returned
// as stored unless refreshProfile is set, in which case the profile is overwritten.
func (r *Resolver) Resolve(
	ctx context.Context, entrant sources.RawEntrant, refreshProfile bool,
) (*storage.Competitor, error) {
	if entrant.ExternalUserID == "" {
		return nil, fmt.Errorf("entrant %q: %w", entrant.Name, ErrMissingExternalID)
	}

	existing, err := r.store.GetCompetitorByExternalUserID(ctx, entrant.ExternalUserID)
	switch {
	case err == nil:
		if !refreshProfile {
			return existing, nil
		}
		return r.refresh(ctx, existing, entrant)
	case errors.Is(err, storage.ErrNotFound):
		return r.create(ctx, entrant, refreshProfile)
	default:
		return nil, fmt.Errorf("failed to look up competitor %s: %w", entrant.ExternalUserID, err)
	}
}

func (r *Resolver) create(
	ctx context.Context, entrant sources.RawEntrant, refreshProfile bool,
) (*storage.Competitor, error) {
	c := &storage.Competitor{ExternalUserID: entrant.ExternalUserID}
	applyProfile(c, entrant)

	created, err := r.store.CreateCompetitor(ctx, c)
	if err == nil {
		slog.Debug("Created competitor", "user_id", entrant.ExternalUserID, "competitor_id", created.ID)
		return created, nil
	}
	if !errors.Is(err, storage.ErrConflict) {
		return nil, fmt.Errorf("failed to create competitor %s: %w", entrant.ExternalUserID, err)
	}

	// Another writer created the same user between lookup and insert
	existing, err := r.store.GetCompetitorByExternalUserID(ctx, entrant.ExternalUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up competitor %s: %w", entrant.ExternalUserID, err)
	}
	if !refreshProfile {
		return existing, nil
	}
	return r.refresh(ctx, existing, entrant)
}

func (r *Resolver) refresh(
	ctx context.Context, existing *storage.Competitor, entrant sources.RawEntrant,
) (*storage.Competitor, error) {
	c := *existing
	applyProfile(&c, entrant)

	updated, err := r.store.UpdateCompetitor(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh competitor %s: %w", entrant.ExternalUserID, err)
	}
	return updated, nil
}

// applyProfile copies every platform profile field onto c
func applyProfile(c *storage.Competitor, entrant sources.RawEntrant) {
	p := entrant.Profile
	name := p.Name
	if name == "" {
		name = entrant.Name
	}

	c.ExternalPlayerID = entrant.ExternalPlayerID
	c.Slug = p.Slug
	c.Name = name
	c.Discriminator = p.Discriminator
	c.Bio = p.Bio
	c.Birthday = p.Birthday
	c.Pronouns = p.Pronouns
	c.City = p.City
	c.State = p.State
	c.Country = p.Country
	c.SocialHandle = p.SocialHandle
}
