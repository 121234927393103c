// Package sources retrieves event entrants from the tournament platform.
//
// An EntrantSource performs a single page request against the platform GraphQL API
// and translates transport failures into ErrEventNotFound, *RateLimitError or a
// fatal error. PageFetcher drives a source through every page of an event, waiting
// out rate limits with an injected Sleeper and giving up after a bounded number of
// attempts per page.
//
// Entrants without a claimed seed or without a resolvable user block are dropped
// while decoding and never reach conflict resolution.
package sources
