// Package feeds is the portal's view of the published spreadsheets: which feeds exist, how
// they are fetched and how long a fetched copy may be reused.
package feeds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/driverportal/pkg/sheet"
)

// Snapshot is the immutable set of tables a single render pass works from.
type Snapshot struct {
	Tables    map[string]*sheet.Table
	FetchedAt time.Time
}

// Table returns the feed's table, or an empty one when the feed was not loaded.
func (s *Snapshot) Table(identifier string) *sheet.Table {
	if table, exists := s.Tables[identifier]; exists && table != nil {
		return table
	}

	return sheet.Empty(identifier)
}

// Status is the outcome of the last fetch attempt of a feed.
type Status struct {
	Identifier  string    `json:"identifier"`
	Optional    bool      `json:"optional"`
	Rows        int       `json:"rows"`
	LastFetched time.Time `json:"last_fetched,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Cached      bool      `json:"cached"`
}

type Repository struct {
	Registry *Registry
	Cache    Cache
	Fetchers map[Format]Fetcher

	statusLock sync.Mutex
	status     map[string]Status
}

func NewRepository(registry *Registry, cache Cache, fetchers map[Format]Fetcher) *Repository {
	return &Repository{
		Registry: registry,
		Cache:    cache,
		Fetchers: fetchers,
		status:   map[string]Status{},
	}
}

// Load fetches every registered feed concurrently, reusing cached copies younger than the
// TTL. A failing required feed returns a *FeedError; a failing optional feed is replaced by
// an empty table.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	registered := r.Registry.Feeds
	tables := make([]*sheet.Table, len(registered))
	errs := make([]error, len(registered))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(len(registered) + 1)
	for i, feed := range registered {
		p.Go(func(ctx context.Context) error {
			tables[i], errs[i] = r.loadFeed(ctx, feed)
			return nil
		})
	}
	_ = p.Wait()

	snapshot := &Snapshot{
		Tables:    map[string]*sheet.Table{},
		FetchedAt: time.Now(),
	}

	for i, feed := range registered {
		if errs[i] != nil {
			if !feed.Optional {
				return nil, &FeedError{Feed: feed.Identifier, Err: errs[i]}
			}

			log.Warn().Err(errs[i]).Str("feed", feed.Identifier).Msg("Optional feed unavailable, continuing without it")
			snapshot.Tables[feed.Identifier] = sheet.Empty(feed.Identifier)
			continue
		}

		snapshot.Tables[feed.Identifier] = tables[i]
	}

	return snapshot, nil
}

func (r *Repository) loadFeed(ctx context.Context, feed Feed) (*sheet.Table, error) {
	if table, hit := r.Cache.Get(ctx, feed.Identifier); hit {
		r.recordStatus(feed, table, nil, true)
		return table, nil
	}

	fetcher, exists := r.Fetchers[feed.Format]
	if !exists {
		err := fmt.Errorf("no fetcher configured for format %s", feed.Format)
		r.recordStatus(feed, nil, err, false)
		return nil, err
	}

	table, err := fetcher.Fetch(ctx, r.Registry, feed)
	if err != nil {
		r.recordStatus(feed, nil, err, false)
		return nil, err
	}

	if err := r.Cache.Set(ctx, feed.Identifier, table); err != nil {
		log.Warn().Err(err).Str("feed", feed.Identifier).Msg("Failed to cache feed")
	}

	log.Debug().Str("feed", feed.Identifier).Int("rows", table.Len()).Msg("Loaded feed")
	r.recordStatus(feed, table, nil, false)

	return table, nil
}

// Refresh invalidates every cached feed so the next Load goes to the source.
func (r *Repository) Refresh(ctx context.Context) error {
	log.Info().Msg("Force refreshing all feeds")

	return r.Cache.Invalidate(ctx, r.Registry.Identifiers()...)
}

// Status reports the last fetch outcome of every registered feed in registry order.
func (r *Repository) Status() []Status {
	r.statusLock.Lock()
	defer r.statusLock.Unlock()

	statuses := make([]Status, 0, len(r.Registry.Feeds))
	for _, feed := range r.Registry.Feeds {
		status, exists := r.status[feed.Identifier]
		if !exists {
			status = Status{Identifier: feed.Identifier, Optional: feed.Optional}
		}
		statuses = append(statuses, status)
	}

	return statuses
}

func (r *Repository) recordStatus(feed Feed, table *sheet.Table, err error, cached bool) {
	r.statusLock.Lock()
	defer r.statusLock.Unlock()

	status := r.status[feed.Identifier]
	status.Identifier = feed.Identifier
	status.Optional = feed.Optional
	status.Cached = cached

	if err != nil {
		status.LastError = err.Error()
	} else {
		status.LastError = ""
		status.Rows = table.Len()
		if !cached {
			status.LastFetched = time.Now()
		}
	}

	r.status[feed.Identifier] = status
}
