package weather

import (
	"context"
	"time"

	"github.com/skycast-app/skycast/internal/common"
)

// Searcher debounces location searches for search-as-you-type front ends.
// Each Query restarts the delay; only the last query of a burst reaches the
// provider. Results are delivered asynchronously to the deliver callback.
type Searcher struct {
	service *Service
	deb     *common.Debouncer
}

// NewSearcher creates a Searcher with the given keystroke delay.
func NewSearcher(service *Service, delay time.Duration) *Searcher {
	return &Searcher{
		service: service,
		deb:     common.NewDebouncer(delay),
	}
}

// Query schedules a debounced search for query. A queued query that has not
// fired yet is cancelled by the next call.
func (s *Searcher) Query(ctx context.Context, query string, deliver func([]Location)) {
	s.deb.Call(func() {
		deliver(s.service.SearchLocations(ctx, query))
	})
}

// Stop cancels any pending query.
func (s *Searcher) Stop() {
	s.deb.Stop()
}
