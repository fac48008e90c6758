package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/driverportal/pkg/feeds"
)

func TestFindDriver(t *testing.T) {
	roster := fixtureTable(t, feeds.Roster, rosterFixture)

	match, found := FindDriver(roster, "4521")
	require.True(t, found)
	assert.Equal(t, "Dana Ortiz", match.Driver.Name)
	assert.Equal(t, "7", match.Driver.Route)
	assert.Equal(t, "PN4521", match.Driver.PeopleNetID)
	assert.Equal(t, 0, match.Driver.Row)
	assert.Equal(t, 1, match.Duplicates)
}

func TestFindDriverIgnoresLeadingZerosAndFormatting(t *testing.T) {
	roster := fixtureTable(t, feeds.Roster, rosterFixture)

	for _, key := range []string{"123", "00123", " 123 ", "123.0"} {
		match, found := FindDriver(roster, key)
		require.True(t, found, key)
		assert.Equal(t, "Sam Lee", match.Driver.Name, key)
	}
}

func TestFindDriverMisses(t *testing.T) {
	roster := fixtureTable(t, feeds.Roster, rosterFixture)

	for _, key := range []string{"9999", "", "   ", "nan", "abc"} {
		_, found := FindDriver(roster, key)
		assert.False(t, found, key)
	}
}

func TestFindDriverFallsBackToFirstColumn(t *testing.T) {
	roster := fixtureTable(t, feeds.Roster, "Emp No,Driver  Name\n0042,Ana Cruz\n")

	match, found := FindDriver(roster, "42")
	require.True(t, found)
	assert.Equal(t, "Ana Cruz", match.Driver.Name)
}

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		raw    string
		expect Route
	}{
		{raw: "14A", expect: Route{Raw: "14A", Key: "14", Class: RouteStandard}},
		{raw: "7", expect: Route{Raw: "7", Key: "7", Class: RouteStandard}},
		{raw: "7.0", expect: Route{Raw: "7.0", Key: "7", Class: RouteStandard}},
		{raw: "", expect: Route{Class: RouteBlank}},
		{raw: "nan", expect: Route{Class: RouteBlank}},
		{raw: " Yard Move ", expect: Route{Raw: "Yard Move", Class: RouteSpecial}},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expect, ClassifyRoute(tc.raw))
		})
	}
}

func TestFindDispatchNote(t *testing.T) {
	dispatch := fixtureTable(t, feeds.Dispatch, dispatchFixture)

	match, found := FindDispatchNote(dispatch, ClassifyRoute("7"))
	require.True(t, found)
	assert.Equal(t, "Load door 12", match.Note.Comments)
	assert.Equal(t, "T100", match.Note.FirstTrailer)
	assert.Equal(t, "N/A", match.Note.SecondTrailer)
	assert.Equal(t, 1, match.Duplicates)

	_, found = FindDispatchNote(dispatch, ClassifyRoute("Yard Move"))
	assert.False(t, found)

	_, found = FindDispatchNote(dispatch, ClassifyRoute(""))
	assert.False(t, found)
}

func TestFindStops(t *testing.T) {
	schedule := fixtureTable(t, feeds.Schedule, scheduleFixture)

	stops := FindStops(schedule, ClassifyRoute("7"), testLinks(t))
	require.Len(t, stops, 2)

	assert.Equal(t, "00101", stops[0].MapStoreID)
	assert.Equal(t, "06:00,Tue", stops[0].Arrival)

	assert.Equal(t, "00205", stops[1].MapStoreID)
	assert.Equal(t, "00205", stops[1].DialerStoreID)
	assert.Equal(t, "13:30,Wed", stops[1].Arrival)
	assert.Equal(t, "14:00,Wed", stops[1].Departure)
}

func TestFindStopsOrdersRolloverAndMalformedTimes(t *testing.T) {
	schedule := fixtureTable(t, feeds.Schedule, scheduleFixture)

	stops := FindStops(schedule, ClassifyRoute("14A"), testLinks(t))
	require.Len(t, stops, 2)

	assert.Equal(t, "23:30,Sun", stops[0].Arrival)
	assert.Equal(t, "00999", stops[0].MapStoreID)

	assert.Equal(t, "TBD", stops[1].Arrival)
	assert.Equal(t, "TBD", stops[1].Departure)
	assert.Equal(t, "", stops[1].MapStoreID)
}

func TestFindStopsSkipsUnjoinableRoutes(t *testing.T) {
	schedule := fixtureTable(t, feeds.Schedule, scheduleFixture)

	assert.Empty(t, FindStops(schedule, ClassifyRoute("Yard Move"), testLinks(t)))
	assert.Empty(t, FindStops(schedule, ClassifyRoute(""), testLinks(t)))
	assert.Empty(t, FindStops(schedule, ClassifyRoute("55"), testLinks(t)))
}

func TestBuildDashboard(t *testing.T) {
	dashboard := BuildDashboard(fixtureSnapshot(t), testLinks(t))

	require.Len(t, dashboard.Routes, 5)
	assert.Equal(t, 3, dashboard.Assigned)
	assert.Equal(t, 1, dashboard.Special)
	assert.Equal(t, 1, dashboard.Unassigned)

	first := dashboard.Routes[0]
	assert.Equal(t, "4521", first.EmployeeID)
	assert.Equal(t, "Load door 12", first.Comments)
	assert.Equal(t, "T100", first.Trailers)
	assert.Equal(t, 2, first.Stops)
	assert.Equal(t, "06:00,Tue", first.FirstStop)

	assert.Equal(t, RouteSpecial, dashboard.Routes[2].Route.Class)
	assert.Equal(t, 0, dashboard.Routes[2].Stops)
}
