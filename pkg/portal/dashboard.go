package portal

import (
	"github.com/travigo/driverportal/pkg/cleaner"
	"github.com/travigo/driverportal/pkg/feeds"
)

const DefaultDashboardKeyword = "DISPATCH"

// Dashboard is the dispatcher view: one line per roster driver.
type Dashboard struct {
	Routes []DashboardRoute `json:"routes" groups:"basic"`

	Assigned   int `json:"assigned" groups:"basic"`
	Special    int `json:"special" groups:"basic"`
	Unassigned int `json:"unassigned" groups:"basic"`
}

type DashboardRoute struct {
	EmployeeID string `json:"employee_id" groups:"basic"`
	DriverName string `json:"driver_name" groups:"basic"`
	Route      Route  `json:"route" groups:"basic"`

	Comments string `json:"comments,omitempty" groups:"basic"`
	Trailers string `json:"trailers,omitempty" groups:"basic"`

	Stops     int    `json:"stops" groups:"basic"`
	FirstStop string `json:"first_stop,omitempty" groups:"basic"`
}

// BuildDashboard summarises every roster driver in feed order.
func BuildDashboard(snapshot *feeds.Snapshot, storeIDs StoreIDFormatter) *Dashboard {
	roster := snapshot.Table(feeds.Roster)
	dispatch := snapshot.Table(feeds.Dispatch)
	schedule := snapshot.Table(feeds.Schedule)

	dashboard := &Dashboard{Routes: []DashboardRoute{}}

	for _, row := range roster.Rows() {
		driver := driverFromRow(row)
		if driver.EmployeeID == "" {
			continue
		}

		route := DeriveRoute(driver)
		line := DashboardRoute{
			EmployeeID: driver.EmployeeID,
			DriverName: driver.Name,
			Route:      route,
		}

		switch route.Class {
		case RouteBlank:
			dashboard.Unassigned++
		case RouteSpecial:
			dashboard.Special++
		case RouteStandard:
			dashboard.Assigned++

			if match, found := FindDispatchNote(dispatch, route); found {
				line.Comments = match.Note.Comments
				line.Trailers = joinTrailers(match.Note.FirstTrailer, match.Note.SecondTrailer)
			}

			stops := FindStops(schedule, route, storeIDs)
			line.Stops = len(stops)
			if len(stops) > 0 {
				line.FirstStop = cleaner.Text(stops[0].Arrival, "")
			}
		}

		dashboard.Routes = append(dashboard.Routes, line)
	}

	return dashboard
}

func joinTrailers(first string, second string) string {
	switch {
	case first == "" || first == "N/A":
		return second
	case second == "" || second == "N/A":
		return first
	default:
		return first + " / " + second
	}
}
