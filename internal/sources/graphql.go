package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/stacklok/seedsync/internal/httpclient"
)

const entrantsQuery = `query EventEntrants($eventId: ID!, $page: Int!, $perPage: Int!) {
  event(id: $eventId) {
    id
    name
    tournament { id name startAt }
    entrants(query: { page: $page, perPage: $perPage }) {
      pageInfo { total totalPages }
      nodes {
        id
        name
        initialSeedNum
        participants {
          player {
            id
            user {
              id
              slug
              name
              discriminator
              bio
              birthday
              genderPronoun
              location { city state country }
              authorizations(types: [TWITTER]) { externalUsername }
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// GraphQLSource fetches entrant pages from the platform GraphQL API
type GraphQLSource struct {
	client   httpclient.Client
	endpoint string
	token    string
}

// NewGraphQLSource creates a source posting to endpoint with a bearer token
func NewGraphQLSource(client httpclient.Client, endpoint, token string) *GraphQLSource {
	return &GraphQLSource{
		client:   client,
		endpoint: endpoint,
		token:    token,
	}
}

// EntrantPage implements EntrantSource
func (s *GraphQLSource) EntrantPage(ctx context.Context, eventID int64, page, perPage int) (*EntrantPage, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: entrantsQuery,
		Variables: map[string]any{
			"eventId": eventID,
			"page":    page,
			"perPage": perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	data, err := s.client.PostJSON(ctx, s.endpoint, header, body)
	if err != nil {
		return nil, classifyTransportError(eventID, err)
	}

	return parseEntrantPage(eventID, data)
}

func classifyTransportError(eventID int64, err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.IsRateLimited():
			return &RateLimitError{RetryAfter: httpErr.RetryAfter, Err: httpErr}
		case httpErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: event %d: %w", ErrEventNotFound, eventID, err)
		}
	}
	return fmt.Errorf("failed to fetch entrants for event %d: %w", eventID, err)
}

func isRateLimitMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}

func parseEntrantPage(eventID int64, data []byte) (*EntrantPage, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON response for event %d", eventID)
	}
	root := gjson.ParseBytes(data)

	// Throttled responses may arrive with status 200 and a top-level message.
	if msg := root.Get("message").String(); msg != "" && isRateLimitMessage(msg) {
		return nil, &RateLimitError{Message: msg}
	}

	if errs := root.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range errs.Array() {
			msg := e.Get("message").String()
			if isRateLimitMessage(msg) {
				return nil, &RateLimitError{Message: msg}
			}
			gqlErr.Messages = append(gqlErr.Messages, msg)
		}
		return nil, fmt.Errorf("query failed for event %d: %w", eventID, gqlErr)
	}

	event := root.Get("data.event")
	if !event.IsObject() {
		return nil, fmt.Errorf("%w: event %d", ErrEventNotFound, eventID)
	}

	page := &EntrantPage{
		TotalPages: int(event.Get("entrants.pageInfo.totalPages").Int()),
		Event: &EventInfo{
			ExternalID:           event.Get("id").Int(),
			Name:                 event.Get("name").String(),
			TournamentExternalID: event.Get("tournament.id").Int(),
			TournamentName:       event.Get("tournament.name").String(),
		},
	}
	if startAt := event.Get("tournament.startAt"); startAt.Type == gjson.Number {
		page.Event.TournamentStartAt = time.Unix(startAt.Int(), 0).UTC()
	}
	if page.Event.ExternalID == 0 {
		page.Event.ExternalID = eventID
	}

	event.Get("entrants.nodes").ForEach(func(_, node gjson.Result) bool {
		entrant, reason := decodeEntrant(node)
		if reason != "" {
			page.Excluded++
			slog.Debug("Excluding entrant",
				"event_id", eventID,
				"entrant_id", node.Get("id").String(),
				"reason", reason,
			)
			return true
		}
		page.Entrants = append(page.Entrants, entrant)
		return true
	})

	return page, nil
}

// decodeEntrant returns the entrant or a non-empty reason it is not valid seeding data
func decodeEntrant(node gjson.Result) (RawEntrant, string) {
	seed := node.Get("initialSeedNum")
	if seed.Type != gjson.Number || seed.Int() < 1 {
		return RawEntrant{}, "no claimed seed"
	}

	player := node.Get("participants.0.player")
	user := player.Get("user")
	if !user.IsObject() {
		return RawEntrant{}, "no participant user"
	}
	userID := user.Get("id").String()
	if userID == "" {
		return RawEntrant{}, "no participant user id"
	}

	return RawEntrant{
		EntrantID:        node.Get("id").String(),
		Seed:             int(seed.Int()),
		Name:             node.Get("name").String(),
		ExternalUserID:   userID,
		ExternalPlayerID: player.Get("id").String(),
		Profile: Profile{
			Slug:          user.Get("slug").String(),
			Name:          user.Get("name").String(),
			Discriminator: user.Get("discriminator").String(),
			Bio:           user.Get("bio").String(),
			Birthday:      user.Get("birthday").String(),
			Pronouns:      user.Get("genderPronoun").String(),
			City:          user.Get("location.city").String(),
			State:         user.Get("location.state").String(),
			Country:       user.Get("location.country").String(),
			SocialHandle:  user.Get("authorizations.0.externalUsername").String(),
		},
	}, ""
}
