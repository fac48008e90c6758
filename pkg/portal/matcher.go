package portal

import (
	"github.com/travigo/driverportal/pkg/cleaner"
	"github.com/travigo/driverportal/pkg/sheet"
	"github.com/travigo/driverportal/pkg/temporal"
	"golang.org/x/exp/slices"
)

// DriverMatch is the roster row a key resolved to. Duplicates counts the later rows that
// carried the same cleaned employee number; the first row always wins.
type DriverMatch struct {
	Driver     DriverRecord
	Duplicates int
}

// FindDriver matches key against every roster employee number after cleaning both sides
// with cleaner.Numeric. A key that cleans to nothing never matches.
func FindDriver(roster *sheet.Table, key string) (DriverMatch, bool) {
	cleanedKey := cleaner.Numeric(key)
	if cleanedKey == "" {
		return DriverMatch{}, false
	}

	var match DriverMatch
	found := false

	for _, row := range roster.Rows() {
		if cleaner.Numeric(row.Get(rosterEmployeeID)) != cleanedKey {
			continue
		}

		if found {
			match.Duplicates++
			continue
		}

		match.Driver = driverFromRow(row)
		found = true
	}

	return match, found
}

type RouteClass string

const (
	// RouteBlank means no assignment is on the roster
	RouteBlank RouteClass = "blank"
	// RouteSpecial is free text such as "Yard Move" with nothing to join on
	RouteSpecial RouteClass = "special"
	// RouteStandard carries digits and is joined against dispatch and schedule
	RouteStandard RouteClass = "standard"
)

// Route is a driver's route designator alongside the cleaned key used for joins.
type Route struct {
	Raw   string     `json:"raw" groups:"basic"`
	Key   string     `json:"key" groups:"basic"`
	Class RouteClass `json:"class" groups:"basic"`
}

// Joinable reports whether dispatch notes and stops can be looked up for the route.
func (r Route) Joinable() bool {
	return r.Class == RouteStandard && r.Key != ""
}

func DeriveRoute(driver DriverRecord) Route {
	return ClassifyRoute(driver.Route)
}

func ClassifyRoute(raw string) Route {
	raw = cleaner.Identifier(raw)

	switch {
	case raw == "":
		return Route{Class: RouteBlank}
	case !cleaner.HasDigit(raw):
		return Route{Raw: raw, Class: RouteSpecial}
	default:
		return Route{Raw: raw, Key: cleaner.Numeric(raw), Class: RouteStandard}
	}
}

type DispatchMatch struct {
	Note       DispatchNote
	Duplicates int
}

// FindDispatchNote returns the first dispatch row for the route, counting any later ones.
func FindDispatchNote(dispatch *sheet.Table, route Route) (DispatchMatch, bool) {
	if !route.Joinable() {
		return DispatchMatch{}, false
	}

	var match DispatchMatch
	found := false

	for _, row := range dispatch.Rows() {
		if cleaner.Numeric(row.Get(dispatchRoute)) != route.Key {
			continue
		}

		if found {
			match.Duplicates++
			continue
		}

		match.Note = dispatchNoteFromRow(row)
		found = true
	}

	return match, found
}

// StoreIDFormatter pads a cleaned store ID for each outbound consumer.
type StoreIDFormatter interface {
	MapStoreID(storeID string) string
	DialerStoreID(storeID string) string
}

const minimumAddressLength = 6

// FindStops returns every schedule row on the route in chronological order of arrival.
// Times at shifted-timezone stores are converted first, rows without a usable address are
// dropped and rows with unreadable arrival times keep their feed order at the end.
func FindStops(schedule *sheet.Table, route Route, storeIDs StoreIDFormatter) []ScheduleStop {
	if !route.Joinable() {
		return nil
	}

	stops := []ScheduleStop{}

	for _, row := range schedule.Rows() {
		joinCell := row.Get(scheduleRoute)
		if cleaner.Numeric(joinCell) != route.Key {
			continue
		}

		address := cleaner.Text(row.Get(scheduleAddress), "")
		if len(address) < minimumAddressLength {
			continue
		}

		storeID := cleaner.Numeric(row.Get(scheduleStoreID))

		stops = append(stops, ScheduleStop{
			Route:         cleaner.Identifier(joinCell),
			RouteKey:      route.Key,
			StoreID:       storeID,
			MapStoreID:    storeIDs.MapStoreID(storeID),
			DialerStoreID: storeIDs.DialerStoreID(storeID),
			Address:       address,
			Arrival:       temporal.ConvertTimezone(cleaner.Text(row.Get(scheduleArrival), "TBD"), address),
			Departure:     temporal.ConvertTimezone(cleaner.Text(row.Get(scheduleDeparture), "TBD"), address),
			DialerSuffix:  cleaner.Identifier(row.Get(scheduleDialerSuffix)),
			Row:           row.Index,
		})
	}

	slices.SortStableFunc(stops, func(a, b ScheduleStop) int {
		return temporal.SortKey(a.Arrival).Compare(temporal.SortKey(b.Arrival))
	})

	return stops
}
