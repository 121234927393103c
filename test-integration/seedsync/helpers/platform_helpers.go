// Package helpers provides test doubles and fixtures for the seedsync integration suite.
package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// FakeEntrant is one seeded entrant served by FakePlatform
type FakeEntrant struct {
	ID     int64
	Name   string
	Seed   int
	UserID string
}

// FakeEvent is an event served by FakePlatform
type FakeEvent struct {
	Name           string
	TournamentID   int64
	TournamentName string
	Entrants       []FakeEntrant
}

// FakePlatform serves the entrants query of the platform GraphQL API
type FakePlatform struct {
	server *httptest.Server

	mu          sync.Mutex
	events      map[int64]FakeEvent
	rateLimited map[int64]int
	requests    map[int64]int
	tokens      []string
}

type entrantsRequest struct {
	Variables struct {
		EventID int64 `json:"eventId"`
		Page    int   `json:"page"`
		PerPage int   `json:"perPage"`
	} `json:"variables"`
}

// NewFakePlatform starts a platform stub. Close it when done.
func NewFakePlatform() *FakePlatform {
	p := &FakePlatform{
		events:      map[int64]FakeEvent{},
		rateLimited: map[int64]int{},
		requests:    map[int64]int{},
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.handle))
	return p
}

// URL is the GraphQL endpoint of the stub
func (p *FakePlatform) URL() string {
	return p.server.URL + "/gql/alpha"
}

// Close stops the stub server
func (p *FakePlatform) Close() {
	p.server.Close()
}

// SetEvent serves ev under id
func (p *FakePlatform) SetEvent(id int64, ev FakeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[id] = ev
}

// RateLimit answers the next n requests for the event with 429
func (p *FakePlatform) RateLimit(id int64, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rateLimited[id] = n
}

// Requests is the number of requests received for the event
func (p *FakePlatform) Requests(id int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[id]
}

// Tokens lists the bearer headers received
func (p *FakePlatform) Tokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tokens...)
}

func (p *FakePlatform) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req entrantsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vars := req.Variables

	p.mu.Lock()
	p.requests[vars.EventID]++
	p.tokens = append(p.tokens, r.Header.Get("Authorization"))
	limited := p.rateLimited[vars.EventID] > 0
	if limited {
		p.rateLimited[vars.EventID]--
	}
	ev, found := p.events[vars.EventID]
	p.mu.Unlock()

	if limited {
		w.Header().Set("Retry-After", "0")
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !found {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"event": nil}})
		return
	}
	_ = json.NewEncoder(w).Encode(eventResponse(vars.EventID, ev, vars.Page, vars.PerPage))
}

func eventResponse(id int64, ev FakeEvent, page, perPage int) map[string]any {
	if perPage <= 0 {
		perPage = len(ev.Entrants)
	}
	totalPages := (len(ev.Entrants) + perPage - 1) / perPage

	start := min((page-1)*perPage, len(ev.Entrants))
	end := min(start+perPage, len(ev.Entrants))

	nodes := make([]map[string]any, 0, end-start)
	for _, e := range ev.Entrants[start:end] {
		nodes = append(nodes, map[string]any{
			"id":             e.ID,
			"name":           e.Name,
			"initialSeedNum": e.Seed,
			"participants": []map[string]any{{
				"player": map[string]any{
					"id": e.ID * 10,
					"user": map[string]any{
						"id":   e.UserID,
						"slug": "user/" + e.UserID,
						"name": e.Name,
						"location": map[string]any{
							"country": "Japan",
						},
					},
				},
			}},
		})
	}

	return map[string]any{
		"data": map[string]any{
			"event": map[string]any{
				"id":   strconv.FormatInt(id, 10),
				"name": ev.Name,
				"tournament": map[string]any{
					"id":      ev.TournamentID,
					"name":    ev.TournamentName,
					"startAt": 1767225600,
				},
				"entrants": map[string]any{
					"pageInfo": map[string]any{"total": len(ev.Entrants), "totalPages": totalPages},
					"nodes":    nodes,
				},
			},
		},
	}
}
