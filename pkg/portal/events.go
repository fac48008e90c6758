package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/travigo/driverportal/pkg/elastic_client"
)

const lookupIndexPrefix = "driverportal-lookups"

type LookupOutcome string

const (
	OutcomeFound     LookupOutcome = "found"
	OutcomeNotFound  LookupOutcome = "not_found"
	OutcomeDashboard LookupOutcome = "dashboard"
)

// LookupEvent is the indexed record of one lookup. Credentials are never included.
type LookupEvent struct {
	Timestamp time.Time     `json:"@timestamp"`
	Outcome   LookupOutcome `json:"outcome"`

	EmployeeID string     `json:"employee_id,omitempty"`
	Route      string     `json:"route,omitempty"`
	RouteClass RouteClass `json:"route_class,omitempty"`

	Stops               int  `json:"stops"`
	DispatchNote        bool `json:"dispatch_note"`
	DuplicateDrivers    int  `json:"duplicate_drivers"`
	DuplicateDispatches int  `json:"duplicate_dispatches"`

	FeedsFetchedAt time.Time `json:"feeds_fetched_at"`
}

func NewLookupEvent(result *Result, now time.Time) LookupEvent {
	event := LookupEvent{
		Timestamp:           now,
		Outcome:             OutcomeFound,
		Stops:               len(result.Stops),
		DispatchNote:        result.Dispatch != nil,
		DuplicateDrivers:    result.DuplicateDrivers,
		DuplicateDispatches: result.DuplicateDispatches,
		FeedsFetchedAt:      result.FetchedAt,
	}

	switch {
	case result.Dashboard != nil:
		event.Outcome = OutcomeDashboard
	case result.NotFound:
		event.Outcome = OutcomeNotFound
	}

	if result.Driver != nil {
		event.EmployeeID = result.Driver.EmployeeID
		event.Route = result.Route.Raw
		event.RouteClass = result.Route.Class
	}

	return event
}

// ElasticObserver indexes every lookup into a monthly index.
type ElasticObserver struct{}

func (ElasticObserver) ObserveLookup(_ context.Context, result *Result) {
	now := time.Now()

	elastic_client.IndexDocument(fmt.Sprintf("%s-%d-%02d", lookupIndexPrefix, now.Year(), now.Month()), NewLookupEvent(result, now))
}
