// Package portal turns a driver's lookup key into everything the portal shows them: roster
// details, dispatch notes, the day's stops and the quick links.
package portal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"github.com/travigo/driverportal/pkg/temporal"
)

// ErrDriverNotFound is returned alongside a NotFound result when no roster row matches.
var ErrDriverNotFound = errors.New("employee ID not found")

type SnapshotLoader interface {
	Load(ctx context.Context) (*feeds.Snapshot, error)
}

// LookupObserver is told about every completed lookup.
type LookupObserver interface {
	ObserveLookup(ctx context.Context, result *Result)
}

type Service struct {
	Feeds      SnapshotLoader
	Links      *links.Builder
	Calculator temporal.Calculator

	DashboardKeyword string

	Observer LookupObserver
}

func NewService(loader SnapshotLoader, builder *links.Builder, dashboardKeyword string) *Service {
	if dashboardKeyword == "" {
		dashboardKeyword = DefaultDashboardKeyword
	}

	return &Service{
		Feeds:            loader,
		Links:            builder,
		Calculator:       temporal.Calculator{Now: time.Now},
		DashboardKeyword: dashboardKeyword,
	}
}

type ComplianceDate struct {
	Date      string `json:"date" groups:"basic"`
	Countdown string `json:"countdown" groups:"basic"`
	Warning   string `json:"warning,omitempty" groups:"basic"`
}

type Credentials struct {
	ID       string `json:"id" groups:"credentials"`
	Password string `json:"password" groups:"credentials"`
}

type DriverView struct {
	EmployeeID string `json:"employee_id" groups:"basic"`
	Name       string `json:"name" groups:"basic"`

	DOTPhysical ComplianceDate `json:"dot_physical" groups:"basic"`
	License     ComplianceDate `json:"license" groups:"basic"`

	SmartDriveScore string `json:"smartdrive_score" groups:"basic"`
	NextLeaveType   string `json:"next_leave_type" groups:"basic"`
	Tenure          string `json:"tenure" groups:"basic"`

	PeopleNet Credentials `json:"peoplenet" groups:"credentials"`
}

type StopLinks struct {
	StoreTracker string `json:"store_tracker,omitempty" groups:"basic"`
	GoogleMaps   string `json:"google_maps" groups:"basic"`
	TruckMap     string `json:"truck_map" groups:"basic"`
	StoreMap     string `json:"store_map,omitempty" groups:"basic"`
}

type StopView struct {
	Stop  ScheduleStop `json:"stop" groups:"basic"`
	Label string       `json:"label" groups:"basic"`
	Links StopLinks    `json:"links" groups:"basic"`
}

// Result is everything one render pass shows. Exactly one of Driver, Dashboard or NotFound
// is set.
type Result struct {
	NotFound bool `json:"not_found" groups:"basic"`

	Driver     *DriverView       `json:"driver,omitempty" groups:"basic,credentials"`
	Route      Route             `json:"route" groups:"basic"`
	Dispatch   *DispatchNote     `json:"dispatch,omitempty" groups:"basic"`
	Stops      []StopView        `json:"stops" groups:"basic"`
	QuickLinks []links.QuickLink `json:"quick_links" groups:"basic"`

	IssueForm         string `json:"issue_form,omitempty" groups:"basic"`
	RouteConfirmation string `json:"route_confirmation,omitempty" groups:"basic"`

	Dashboard *Dashboard     `json:"dashboard,omitempty" groups:"basic"`
	Safety    *SafetyMessage `json:"safety,omitempty" groups:"basic"`

	// Extra roster and dispatch rows that matched and were ignored
	DuplicateDrivers    int `json:"duplicate_drivers,omitempty" groups:"basic"`
	DuplicateDispatches int `json:"duplicate_dispatches,omitempty" groups:"basic"`

	FetchedAt time.Time `json:"fetched_at" groups:"basic"`
}

// IsDashboardKeyword reports whether key switches the lookup to the dispatcher dashboard.
func (s *Service) IsDashboardKeyword(key string) bool {
	return s.DashboardKeyword != "" && strings.EqualFold(strings.TrimSpace(key), s.DashboardKeyword)
}

// Lookup performs one render pass for key. Feed failures return a *feeds.FeedError and no
// result; a key that matches nobody returns a NotFound result with ErrDriverNotFound.
func (s *Service) Lookup(ctx context.Context, key string) (*Result, error) {
	snapshot, err := s.Feeds.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Stops:      []StopView{},
		QuickLinks: []links.QuickLink{},
		FetchedAt:  snapshot.FetchedAt,
		Safety:     s.safetyBanner(snapshot),
	}

	if s.IsDashboardKeyword(key) {
		result.Dashboard = BuildDashboard(snapshot, s.Links)

		log.Info().Int("drivers", len(result.Dashboard.Routes)).Msg("Dispatcher dashboard lookup")
		s.observe(ctx, result)

		return result, nil
	}

	match, found := FindDriver(snapshot.Table(feeds.Roster), key)
	if !found {
		result.NotFound = true

		log.Info().Msg("Employee ID not found")
		s.observe(ctx, result)

		return result, ErrDriverNotFound
	}

	driver := match.Driver
	if match.Duplicates > 0 {
		log.Warn().Str("employee", driver.EmployeeID).Int("duplicates", match.Duplicates).Msg("Employee ID appears on several roster rows, using the first")
		result.DuplicateDrivers = match.Duplicates
	}

	result.Driver = s.driverView(driver)
	result.Route = DeriveRoute(driver)

	if dispatch, found := FindDispatchNote(snapshot.Table(feeds.Dispatch), result.Route); found {
		result.Dispatch = &dispatch.Note

		if dispatch.Duplicates > 0 {
			log.Warn().Str("route", result.Route.Key).Int("duplicates", dispatch.Duplicates).Msg("Route has several dispatch notes, using the first")
			result.DuplicateDispatches = dispatch.Duplicates
		}
	}

	for _, stop := range FindStops(snapshot.Table(feeds.Schedule), result.Route, s.Links) {
		result.Stops = append(result.Stops, s.stopView(stop))
	}

	result.QuickLinks = s.quickLinks(snapshot)
	result.IssueForm = s.Links.IssueForm()
	result.RouteConfirmation = s.Links.RouteConfirmation(links.RouteConfirmation{
		EmployeeID: driver.EmployeeID,
		DriverName: driver.Name,
		Route:      result.Route.Raw,
		Date:       s.now().Format("2006-01-02"),
	})

	log.Info().
		Str("employee", driver.EmployeeID).
		Str("route", result.Route.Raw).
		Str("class", string(result.Route.Class)).
		Int("stops", len(result.Stops)).
		Msg("Driver lookup")
	s.observe(ctx, result)

	return result, nil
}

func (s *Service) driverView(driver DriverRecord) *DriverView {
	view := &DriverView{
		EmployeeID:      driver.EmployeeID,
		Name:            driver.Name,
		SmartDriveScore: driver.SmartDriveScore,
		NextLeaveType:   driver.NextLeaveType,
		Tenure:          s.Calculator.TenureDisplay(driver.HireDate),
		PeopleNet: Credentials{
			ID:       driver.PeopleNetID,
			Password: driver.PeopleNetPassword,
		},
	}

	view.DOTPhysical = s.complianceDate(driver.DOTPhysicalExpires)
	view.License = s.complianceDate(driver.LicenseExpires)

	return view
}

func (s *Service) complianceDate(raw string) ComplianceDate {
	countdown, warning := s.Calculator.RenewalStatus(raw)

	return ComplianceDate{
		Date:      s.Calculator.FormatDisplayDate(raw),
		Countdown: countdown,
		Warning:   warning,
	}
}

func (s *Service) stopView(stop ScheduleStop) StopView {
	label := stop.MapStoreID
	if label == "" {
		label = "Relay"
	}

	return StopView{
		Stop:  stop,
		Label: label,
		Links: StopLinks{
			StoreTracker: s.Links.StoreTracker(stop.DialerStoreID, stop.DialerSuffix),
			GoogleMaps:   links.GoogleMaps(stop.Address),
			TruckMap:     links.TruckMap(stop.Address),
			StoreMap:     s.Links.StoreMap(stop.MapStoreID),
		},
	}
}

func (s *Service) quickLinks(snapshot *feeds.Snapshot) []links.QuickLink {
	quickLinks := []links.QuickLink{}

	for _, row := range snapshot.Table(feeds.QuickLinks).Rows() {
		if link, show := s.Links.QuickLink(row.Get(quickLinkName), row.Get(quickLinkValue)); show {
			quickLinks = append(quickLinks, link)
		}
	}

	return quickLinks
}

func (s *Service) safetyBanner(snapshot *feeds.Snapshot) *SafetyMessage {
	message, err := LatestSafetyMessage(snapshot.Table(feeds.Safety), s.Calculator)
	if err != nil {
		log.Warn().Err(err).Msg("Could not read safety messages")
		return nil
	}

	return message
}

func (s *Service) now() time.Time {
	if s.Calculator.Now == nil {
		return time.Now()
	}

	return s.Calculator.Now()
}

func (s *Service) observe(ctx context.Context, result *Result) {
	if s.Observer != nil {
		s.Observer.ObserveLookup(ctx, result)
	}
}
