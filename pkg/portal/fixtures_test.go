package portal

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"github.com/travigo/driverportal/pkg/sheet"
)

const rosterFixture = `Employee #,Driver Name,Route,PeopleNet ID,PeopleNet Password,DOT Physical Expires,DL Expiration Date,Hire Date,SmartDrive Score,Next Leave Type
4521,Dana Ortiz,7,PN4521,hunter2,2026-11-20,2028-03-01,2019-03-04,92,Vacation
00123.0,Sam Lee,14A,,,,,,,
88,Kim Park,Yard Move,,,not a date,,,,
91,Lou Grant,,,,,,,,
4521,Dup Row,9,,,,,,,
`

const dispatchFixture = `Route #,Comments,1st Trailer,2nd Trailer
7.0,Load door 12,T100,
7,Second note,T200,T300
14,Hazmat placards,T400,T401
`

const scheduleFixture = `Route,Store ID,Store Address,Arrival time,Departure Time
7,205,"1201 W Main St, Phoenix, AZ 85001","14:30,Wed","15:00,Wed"
7,101.0,"55 Elm Street, Denver, CO","06:00,Tue","06:45,Tue"
7,,nan,"08:00,Tue",
7,300,abc,"09:00,Tue",
14,,"Relay Yard, Flagstaff, AZ",TBD,
14,999,"1 Long Road, Mesa, AZ","00:30,Mon","01:00,Mon"
`

const quickLinksFixture = `Name,Phone Number or URL
Dispatch,(480) 555-0100
Elba Peru,Payroll
Timesheets,https://time.example.com
Gate,ext 42
Empty,
`

const safetyFixture = `Date,Message
2026-10-01,Check tire chains
2026-10-14,Heat advisory: hydrate
2026-09-01,
`

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func fixtureTable(t *testing.T, name string, source string) *sheet.Table {
	t.Helper()

	records, err := csv.NewReader(strings.NewReader(source)).ReadAll()
	require.NoError(t, err)

	return sheet.NewTable(name, records)
}

func fixtureSnapshot(t *testing.T) *feeds.Snapshot {
	t.Helper()

	return &feeds.Snapshot{
		Tables: map[string]*sheet.Table{
			feeds.Roster:     fixtureTable(t, feeds.Roster, rosterFixture),
			feeds.Dispatch:   fixtureTable(t, feeds.Dispatch, dispatchFixture),
			feeds.Schedule:   fixtureTable(t, feeds.Schedule, scheduleFixture),
			feeds.QuickLinks: fixtureTable(t, feeds.QuickLinks, quickLinksFixture),
			feeds.Safety:     fixtureTable(t, feeds.Safety, safetyFixture),
		},
		FetchedAt: fixedNow,
	}
}

type staticLoader struct {
	snapshot *feeds.Snapshot
	err      error
}

func (l staticLoader) Load(context.Context) (*feeds.Snapshot, error) {
	return l.snapshot, l.err
}

func testLinks(t *testing.T) *links.Builder {
	t.Helper()

	builder, err := links.NewBuilder(links.Config{})
	require.NoError(t, err)

	return builder
}
