package portal

import (
	"github.com/travigo/driverportal/pkg/cleaner"
	"github.com/travigo/driverportal/pkg/sheet"
)

// Roster columns. Only the employee number has a known position.
var (
	rosterEmployeeID        = sheet.Col(0, "Employee #", "Employee ID")
	rosterName              = sheet.Named("Driver Name", "Driver  Name")
	rosterRoute             = sheet.Named("Route")
	rosterPeopleNetID       = sheet.Named("PeopleNet ID")
	rosterPeopleNetPassword = sheet.Named("PeopleNet Password")
	rosterDOTPhysical       = sheet.Named("DOT Physical Expires")
	rosterLicense           = sheet.Named("DL Expiration Date", "CDL Expiration Date")
	rosterHireDate          = sheet.Named("Hire Date")
	rosterSmartDrive        = sheet.Named("SmartDrive Score")
	rosterNextLeave         = sheet.Named("Next Leave Type")
)

// Dispatch and schedule feeds are joined on their first column whatever it is called.
var (
	dispatchRoute         = sheet.Col(0, "Route")
	dispatchComments      = sheet.Named("Comments")
	dispatchFirstTrailer  = sheet.Named("1st Trailer")
	dispatchSecondTrailer = sheet.Named("2nd Trailer")

	scheduleRoute        = sheet.Col(0, "Route")
	scheduleStoreID      = sheet.Named("Store ID")
	scheduleAddress      = sheet.Named("Store Address")
	scheduleArrival      = sheet.Named("Arrival time", "Arrival Time")
	scheduleDeparture    = sheet.Named("Departure Time", "Departure time")
	scheduleDialerSuffix = sheet.Named("Dialer Suffix", "Tracker Suffix")

	quickLinkName  = sheet.Col(0, "Name")
	quickLinkValue = sheet.Col(1, "Phone Number or URL")
)

// DriverRecord is one roster row. It is rebuilt from the feed on every lookup.
type DriverRecord struct {
	EmployeeID string
	Name       string
	Route      string

	PeopleNetID       string
	PeopleNetPassword string

	DOTPhysicalExpires string
	LicenseExpires     string
	HireDate           string

	SmartDriveScore string
	NextLeaveType   string

	Row int
}

func driverFromRow(row sheet.Row) DriverRecord {
	return DriverRecord{
		EmployeeID:         cleaner.Numeric(row.Get(rosterEmployeeID)),
		Name:               cleaner.Text(row.Get(rosterName), "Driver"),
		Route:              cleaner.Identifier(row.Get(rosterRoute)),
		PeopleNetID:        cleaner.Identifier(row.Get(rosterPeopleNetID)),
		PeopleNetPassword:  cleaner.Identifier(row.Get(rosterPeopleNetPassword)),
		DOTPhysicalExpires: row.Get(rosterDOTPhysical),
		LicenseExpires:     row.Get(rosterLicense),
		HireDate:           row.Get(rosterHireDate),
		SmartDriveScore:    cleaner.Text(row.Get(rosterSmartDrive), "N/A"),
		NextLeaveType:      cleaner.Text(row.Get(rosterNextLeave), "None"),
		Row:                row.Index,
	}
}

type DispatchNote struct {
	Route         string `json:"route" groups:"basic"`
	RouteKey      string `json:"route_key" groups:"basic"`
	Comments      string `json:"comments" groups:"basic"`
	FirstTrailer  string `json:"first_trailer" groups:"basic"`
	SecondTrailer string `json:"second_trailer" groups:"basic"`
}

func dispatchNoteFromRow(row sheet.Row) DispatchNote {
	route := row.Get(dispatchRoute)

	return DispatchNote{
		Route:         cleaner.Identifier(route),
		RouteKey:      cleaner.Numeric(route),
		Comments:      cleaner.Text(row.Get(dispatchComments), "No Comments"),
		FirstTrailer:  cleaner.Text(row.Get(dispatchFirstTrailer), "N/A"),
		SecondTrailer: cleaner.Text(row.Get(dispatchSecondTrailer), "N/A"),
	}
}

// ScheduleStop is one store visit on a route. Arrival and Departure are "HH:MM,Day" strings
// already shifted into the store's local time.
type ScheduleStop struct {
	Route         string `json:"route" groups:"basic"`
	RouteKey      string `json:"route_key" groups:"basic"`
	StoreID       string `json:"store_id" groups:"basic"`
	MapStoreID    string `json:"map_store_id" groups:"basic"`
	DialerStoreID string `json:"dialer_store_id" groups:"basic"`
	Address       string `json:"address" groups:"basic"`
	Arrival       string `json:"arrival" groups:"basic"`
	Departure     string `json:"departure" groups:"basic"`
	DialerSuffix  string `json:"dialer_suffix,omitempty" groups:"basic"`

	Row int `json:"-"`
}

// SafetyMessage is a row of the optional safety feed.
type SafetyMessage struct {
	Date    string `csv:"Date" json:"date" groups:"basic"`
	Message string `csv:"Message" json:"message" groups:"basic"`
}
