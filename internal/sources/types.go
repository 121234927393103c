package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=types.go EntrantSource,Fetcher

// ErrEventNotFound is returned when the platform does not know the requested event
var ErrEventNotFound = errors.New("event not found")

// Profile holds the user profile fields the platform reports for an entrant
type Profile struct {
	Slug          string
	Name          string
	Discriminator string
	Bio           string
	Birthday      string
	Pronouns      string
	City          string
	State         string
	Country       string
	SocialHandle  string
}

// RawEntrant is one entrant record as returned by the platform, before conflict resolution.
// Several entrants of the same event may claim the same Seed.
type RawEntrant struct {
	// EntrantID is the platform entrant identifier
	EntrantID string

	// Seed is the claimed seed number, always positive
	Seed int

	// Name is the entrant display name
	Name string

	// ExternalUserID identifies the platform user, never empty
	ExternalUserID string

	// ExternalPlayerID identifies the platform player profile
	ExternalPlayerID string

	Profile Profile
}

// EventInfo describes the event and its tournament as reported by the platform
type EventInfo struct {
	ExternalID           int64
	Name                 string
	TournamentExternalID int64
	TournamentName       string
	TournamentStartAt    time.Time
}

// EntrantPage is the decoded content of a single page response
type EntrantPage struct {
	Event      *EventInfo
	TotalPages int
	Entrants   []RawEntrant

	// Excluded counts records on the page that were dropped as invalid seeding data
	Excluded int
}

// FetchResult contains every valid entrant of an event in platform response order
type FetchResult struct {
	EventID  int64
	Event    *EventInfo
	Entrants []RawEntrant
	Excluded int
	Pages    int
}

// EntrantSource requests a single page of entrants for an event
type EntrantSource interface {
	// EntrantPage fetches page (1-based) with perPage entrants.
	// Rate limiting is reported as *RateLimitError, an unknown event as ErrEventNotFound.
	EntrantPage(ctx context.Context, eventID int64, page, perPage int) (*EntrantPage, error)
}

// Fetcher retrieves the complete entrant list of an event
type Fetcher interface {
	FetchAll(ctx context.Context, eventID int64) (*FetchResult, error)
}

// RateLimitError reports that the platform throttled a request
type RateLimitError struct {
	// RetryAfter is the wait requested by the platform, zero when unspecified
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *RateLimitError) Error() string {
	msg := "rate limited by platform"
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	return msg
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// GraphQLError carries the error messages of a GraphQL response
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}
