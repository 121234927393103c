package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/stacklok/seedsync/internal/telemetry"
)

const (
	// DefaultPerPage is the page size used when none is configured
	DefaultPerPage = 64

	// DefaultRetryAfter is the wait used when a rate-limit response carries no hint
	DefaultRetryAfter = 60 * time.Second

	// DefaultMaxAttempts bounds the attempts for one page
	DefaultMaxAttempts uint = 5
)

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the Sleeper backed by a real timer
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PageFetcher walks every page of an event through an EntrantSource
type PageFetcher struct {
	source            EntrantSource
	perPage           int
	maxAttempts       uint
	defaultRetryAfter time.Duration
	sleep             Sleeper
	metrics           *telemetry.SyncMetrics
}

// FetcherOption configures a PageFetcher
type FetcherOption func(*PageFetcher)

// WithPerPage sets the page size
func WithPerPage(n int) FetcherOption {
	return func(f *PageFetcher) {
		if n > 0 {
			f.perPage = n
		}
	}
}

// WithMaxAttempts bounds the attempts for a single page; 0 retries rate limits without bound
func WithMaxAttempts(n uint) FetcherOption {
	return func(f *PageFetcher) {
		f.maxAttempts = n
	}
}

// WithDefaultRetryAfter sets the wait used when the platform does not specify one
func WithDefaultRetryAfter(d time.Duration) FetcherOption {
	return func(f *PageFetcher) {
		if d > 0 {
			f.defaultRetryAfter = d
		}
	}
}

// WithSleeper replaces the sleep used while rate limited
func WithSleeper(s Sleeper) FetcherOption {
	return func(f *PageFetcher) {
		f.sleep = s
	}
}

// WithFetchMetrics records rate-limit waits
func WithFetchMetrics(m *telemetry.SyncMetrics) FetcherOption {
	return func(f *PageFetcher) {
		f.metrics = m
	}
}

// NewPageFetcher creates a PageFetcher over source
func NewPageFetcher(source EntrantSource, opts ...FetcherOption) *PageFetcher {
	f := &PageFetcher{
		source:            source,
		perPage:           DefaultPerPage,
		maxAttempts:       DefaultMaxAttempts,
		defaultRetryAfter: DefaultRetryAfter,
		sleep:             SleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll requests pages until the reported page count is reached or a page comes back empty.
// A page is empty only when it carried no records at all; a page whose records were all
// excluded still counts toward pagination. Event metadata is taken from the first page.
func (f *PageFetcher) FetchAll(ctx context.Context, eventID int64) (*FetchResult, error) {
	result := &FetchResult{EventID: eventID}

	for pageNum := 1; ; pageNum++ {
		page, err := f.fetchPage(ctx, eventID, pageNum)
		if err != nil {
			return nil, err
		}

		if result.Event == nil {
			result.Event = page.Event
		}
		result.Pages = pageNum
		result.Entrants = append(result.Entrants, page.Entrants...)
		result.Excluded += page.Excluded

		slog.Debug("Fetched entrant page",
			"event_id", eventID,
			"page", pageNum,
			"total_pages", page.TotalPages,
			"entrants", len(page.Entrants),
			"excluded", page.Excluded,
		)

		if len(page.Entrants)+page.Excluded == 0 || pageNum >= page.TotalPages {
			break
		}
	}

	slog.Info("Fetched event entrants",
		"event_id", eventID,
		"pages", result.Pages,
		"entrants", len(result.Entrants),
		"excluded", result.Excluded,
	)
	return result, nil
}

// fetchPage retries the same page while the platform reports a rate limit, sleeping
// for the requested interval before each new attempt. Other errors are not retried.
func (f *PageFetcher) fetchPage(ctx context.Context, eventID int64, pageNum int) (*EntrantPage, error) {
	var wait time.Duration
	attempt := 0

	operation := func() (*EntrantPage, error) {
		if wait > 0 {
			if err := f.sleep(ctx, wait); err != nil {
				return nil, backoff.Permanent(err)
			}
			wait = 0
		}
		attempt++

		page, err := f.source.EntrantPage(ctx, eventID, pageNum, f.perPage)
		if err == nil {
			return page, nil
		}

		var rateLimited *RateLimitError
		if !errors.As(err, &rateLimited) {
			return nil, backoff.Permanent(err)
		}

		wait = rateLimited.RetryAfter
		if wait <= 0 {
			wait = f.defaultRetryAfter
		}
		f.metrics.RecordRateLimitWait(ctx, eventID)
		slog.Warn("Rate limited by platform",
			"event_id", eventID,
			"page", pageNum,
			"attempt", attempt,
			"retry_after", wait.String(),
		)
		return nil, err
	}

	page, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(f.maxAttempts),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		var rateLimited *RateLimitError
		if errors.As(err, &rateLimited) {
			return nil, fmt.Errorf("page %d of event %d still rate limited after %d attempts: %w",
				pageNum, eventID, attempt, err)
		}
		return nil, err
	}
	return page, nil
}
