package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/driverportal/pkg/api/routes"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"github.com/travigo/driverportal/pkg/portal"
)

type fakeLookuper struct {
	results map[string]*portal.Result
	err     error
	keys    []string
}

func (f *fakeLookuper) Lookup(_ context.Context, key string) (*portal.Result, error) {
	f.keys = append(f.keys, key)

	if f.err != nil {
		return nil, f.err
	}
	if result, exists := f.results[key]; exists {
		return result, nil
	}

	return &portal.Result{NotFound: true}, portal.ErrDriverNotFound
}

type fakeRepository struct {
	refreshed int
}

func (f *fakeRepository) Refresh(context.Context) error {
	f.refreshed++
	return nil
}

func (f *fakeRepository) Status() []feeds.Status {
	return []feeds.Status{
		{Identifier: feeds.Roster, Rows: 12},
		{Identifier: feeds.Safety, Optional: true, LastError: "status 404"},
	}
}

func driverResult() *portal.Result {
	return &portal.Result{
		Driver: &portal.DriverView{
			EmployeeID:  "4521",
			Name:        "Dana Ortiz",
			DOTPhysical: portal.ComplianceDate{Date: "November 20, 2026", Countdown: "0y 1m 3d", Warning: "⚠️ RENEW NOW"},
			License:     portal.ComplianceDate{Date: "N/A", Countdown: "N/A"},
			Tenure:      "March 04, 2019 (7y, 7m)",
			PeopleNet:   portal.Credentials{ID: "PN4521", Password: "hunter2"},
		},
		Route:    portal.Route{Raw: "7", Key: "7", Class: portal.RouteStandard},
		Dispatch: &portal.DispatchNote{Comments: "Load door 12", FirstTrailer: "T100", SecondTrailer: "N/A"},
		Stops: []portal.StopView{
			{
				Stop:  portal.ScheduleStop{MapStoreID: "00101", Address: "55 Elm Street, Denver, CO", Arrival: "06:00,Tue", Departure: "06:45,Tue"},
				Label: "00101",
				Links: portal.StopLinks{
					StoreTracker: "tel:8008710204,1,,88012%23,,00101,%23,,,1,,,1",
					GoogleMaps:   links.GoogleMaps("55 Elm Street, Denver, CO"),
					TruckMap:     links.TruckMap("55 Elm Street, Denver, CO"),
					StoreMap:     "https://wg.cpcfact.com/store-00101/",
				},
			},
		},
		QuickLinks: []links.QuickLink{
			{Name: "Dispatch", Value: "(480) 555-0100", Kind: links.KindPhone, Href: "tel:4805550100", Style: "btn-purple"},
		},
		IssueForm: links.DefaultIssueForm,
		Safety:    &portal.SafetyMessage{Date: "October 14, 2026", Message: "Heat advisory"},
		FetchedAt: time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
	}
}

func newTestApp(lookuper *fakeLookuper, repository *fakeRepository) *routes.Portal {
	return &routes.Portal{
		Service:     lookuper,
		Repository:  repository,
		PageRefresh: 30 * time.Second,
	}
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return string(body)
}

func TestPortalPage(t *testing.T) {
	lookuper := &fakeLookuper{results: map[string]*portal.Result{"4521": driverResult()}}
	app := NewApp(newTestApp(lookuper, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/?id=4521", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	body := readBody(t, response)
	assert.Contains(t, body, `<meta http-equiv="refresh" content="30">`)
	assert.Contains(t, body, "Dana Ortiz")
	assert.Contains(t, body, "RENEW NOW")
	assert.Contains(t, body, "Load door 12")
	assert.Contains(t, body, "PN4521")
	assert.Contains(t, body, `href="tel:8008710204,1,,88012%23,,00101,%23,,,1,,,1"`)
	assert.Contains(t, body, `href="truckmap://navigate?q=55`)
	assert.Contains(t, body, `href="tel:4805550100"`)
	assert.Contains(t, body, "Heat advisory")
	assert.NotContains(t, body, "ZgotmplZ")
	assert.Equal(t, []string{"4521"}, lookuper.keys)
}

func TestPortalPageWithoutID(t *testing.T) {
	lookuper := &fakeLookuper{}
	app := NewApp(newTestApp(lookuper, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, readBody(t, response), "Enter Employee ID")
	assert.Empty(t, lookuper.keys)
}

func TestPortalPageNotFound(t *testing.T) {
	app := NewApp(newTestApp(&fakeLookuper{}, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/?id=999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	body := readBody(t, response)
	assert.Contains(t, body, "Employee ID not found. Contact Dispatch.")
	assert.NotContains(t, body, "PeopleNet Login")
}

func TestPortalPageFeedError(t *testing.T) {
	lookuper := &fakeLookuper{err: &feeds.FeedError{Feed: feeds.Schedule, Err: errors.New("timeout")}}
	app := NewApp(newTestApp(lookuper, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/?id=4521", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)

	body := readBody(t, response)
	assert.Contains(t, body, "Syncing error: the schedule feed could not be loaded.")
	assert.NotContains(t, body, "timeout")
}

func TestRefreshInvalidatesAndRedirects(t *testing.T) {
	repository := &fakeRepository{}
	app := NewApp(newTestApp(&fakeLookuper{}, repository))

	form := url.Values{"id": {"4521"}}
	request := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, response.StatusCode)
	assert.Equal(t, "/?id=4521", response.Header.Get("Location"))
	assert.Equal(t, 1, repository.refreshed)
}

func TestLookupAPI(t *testing.T) {
	lookuper := &fakeLookuper{results: map[string]*portal.Result{"4521": driverResult()}}
	app := NewApp(newTestApp(lookuper, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/lookup?id=4521", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, response)), &decoded))

	driver := decoded["driver"].(map[string]interface{})
	assert.Equal(t, "Dana Ortiz", driver["name"])
	assert.NotContains(t, driver, "peoplenet")
	assert.Len(t, decoded["stops"], 1)

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/lookup?id=4521&credentials=true", nil))
	require.NoError(t, err)

	decoded = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, response)), &decoded))
	peopleNet := decoded["driver"].(map[string]interface{})["peoplenet"].(map[string]interface{})
	assert.Equal(t, "hunter2", peopleNet["password"])
}

func TestLookupAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		lookuper *fakeLookuper
		path     string
		status   int
		message  string
	}{
		{name: "missing id", lookuper: &fakeLookuper{}, path: "/api/lookup", status: http.StatusBadRequest, message: "An employee ID must be provided"},
		{name: "not found", lookuper: &fakeLookuper{}, path: "/api/lookup?id=1", status: http.StatusNotFound, message: "Employee ID not found. Contact Dispatch."},
		{
			name:     "feed failure",
			lookuper: &fakeLookuper{err: &feeds.FeedError{Feed: feeds.Roster, Err: errors.New("boom")}},
			path:     "/api/lookup?id=1",
			status:   http.StatusServiceUnavailable,
			message:  "Syncing error: the roster feed could not be loaded. Try again shortly.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := NewApp(newTestApp(tc.lookuper, &fakeRepository{}))

			response, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, response.StatusCode)

			var decoded map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(readBody(t, response)), &decoded))
			assert.Equal(t, tc.message, decoded["error"])
		})
	}
}

func TestFeedStatusVersionAndManifest(t *testing.T) {
	app := NewApp(newTestApp(&fakeLookuper{}, &fakeRepository{}))

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/feeds", nil))
	require.NoError(t, err)

	var statuses []feeds.Status
	require.NoError(t, json.Unmarshal([]byte(readBody(t, response)), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, 12, statuses[0].Rows)
	assert.Equal(t, "status 404", statuses[1].LastError)

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)
	assert.Contains(t, readBody(t, response), routes.Version)

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/manifest.webmanifest", nil))
	require.NoError(t, err)
	assert.Equal(t, "application/manifest+json", response.Header.Get("Content-Type"))
	assert.Contains(t, readBody(t, response), `"start_url":"/"`)
}
