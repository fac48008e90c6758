// Package links builds the outbound links a driver taps from the portal: dialers, maps,
// navigation, store pages and forms.
package links

import (
	"net/url"
	"strings"

	"github.com/travigo/driverportal/pkg/cleaner"
)

const (
	googleMapsSearch = "https://www.google.com/maps/search/?api=1&query="
	truckMapNavigate = "truckmap://navigate?q="

	DefaultStoreTracker = "8008710204,1,,88012#,,{store},#,,,1,,,1"
	DefaultStoreMap     = "https://wg.cpcfact.com/store-{store}/"
	DefaultIssueForm    = "https://forms.office.com/Pages/ResponsePage.aspx?id=DQSIkWdsW0yxEjajBLZtrQAAAAAAAAAAAAO__Ti7fnBUQzNYTTY1TjY3Uk0xMEwwTE9SUEZIWTRPRC4u"

	storePlaceholder = "{store}"
)

type Config struct {
	IssueForm    string `yaml:"issue_form"`
	StoreTracker string `yaml:"store_tracker"`
	StoreMap     string `yaml:"store_map"`

	RouteConfirmation RouteConfirmationConfig `yaml:"route_confirmation"`

	// Width the store ID is zero padded to for map pages and for the tracker dialer
	MapStoreIDWidth    int `yaml:"map_store_id_width"`
	DialerStoreIDWidth int `yaml:"dialer_store_id_width"`

	QuickLinkRules []RuleConfig `yaml:"quick_link_rules"`
}

// RouteConfirmationConfig is an external form prefilled from the lookup. Params maps the
// form's query parameter names to one of the RouteConfirmation fields.
type RouteConfirmationConfig struct {
	URL    string            `yaml:"url"`
	Params map[string]string `yaml:"params"`
}

// Builder renders links from a validated Config.
type Builder struct {
	Config Config

	rules []compiledRule
}

func NewBuilder(config Config) (*Builder, error) {
	if config.IssueForm == "" {
		config.IssueForm = DefaultIssueForm
	}
	if config.StoreTracker == "" {
		config.StoreTracker = DefaultStoreTracker
	}
	if config.StoreMap == "" {
		config.StoreMap = DefaultStoreMap
	}
	if config.MapStoreIDWidth <= 0 {
		config.MapStoreIDWidth = 5
	}
	if config.DialerStoreIDWidth <= 0 {
		config.DialerStoreIDWidth = 5
	}

	ruleConfigs := config.QuickLinkRules
	if len(ruleConfigs) == 0 {
		ruleConfigs = DefaultQuickLinkRules
	}

	rules, err := compileRules(ruleConfigs)
	if err != nil {
		return nil, err
	}

	return &Builder{Config: config, rules: rules}, nil
}

// MapStoreID pads a cleaned store ID for store map pages.
func (b *Builder) MapStoreID(storeID string) string {
	return cleaner.PadStoreID(storeID, b.Config.MapStoreIDWidth)
}

// DialerStoreID pads a cleaned store ID for the store tracker phone system.
func (b *Builder) DialerStoreID(storeID string) string {
	return cleaner.PadStoreID(storeID, b.Config.DialerStoreIDWidth)
}

// StoreTracker dials the automated store tracker and keys in the store number. A stop's
// dialer suffix is keyed in after the template's own digits.
func (b *Builder) StoreTracker(dialerStoreID string, suffix string) string {
	if dialerStoreID == "" {
		return ""
	}

	return Tel(strings.ReplaceAll(b.Config.StoreTracker, storePlaceholder, dialerStoreID) + strings.TrimSpace(suffix))
}

func (b *Builder) StoreMap(mapStoreID string) string {
	if mapStoreID == "" {
		return ""
	}

	return strings.ReplaceAll(b.Config.StoreMap, storePlaceholder, url.PathEscape(mapStoreID))
}

func (b *Builder) IssueForm() string {
	return b.Config.IssueForm
}

// RouteConfirmation fields available to the prefilled form.
type RouteConfirmation struct {
	EmployeeID string
	DriverName string
	Route      string
	Date       string
}

func (c RouteConfirmation) field(name string) string {
	switch name {
	case "employee_id":
		return c.EmployeeID
	case "driver_name":
		return c.DriverName
	case "route":
		return c.Route
	case "date":
		return c.Date
	default:
		return ""
	}
}

// RouteConfirmation returns the prefilled confirmation form link, or "" when none is set up.
func (b *Builder) RouteConfirmation(values RouteConfirmation) string {
	form := b.Config.RouteConfirmation
	if form.URL == "" {
		return ""
	}

	parsed, err := url.Parse(form.URL)
	if err != nil {
		return ""
	}

	query := parsed.Query()
	for param, field := range form.Params {
		if value := values.field(field); value != "" {
			query.Set(param, value)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// GoogleMaps searches for an address.
func GoogleMaps(address string) string {
	return googleMapsSearch + url.QueryEscape(normaliseAddress(address))
}

// TruckMap opens the truck navigation app on an address.
func TruckMap(address string) string {
	return truckMapNavigate + url.QueryEscape(normaliseAddress(address))
}

// Tel builds a tel: URI. Commas (pauses) are kept for in-call DTMF digits and '#' is
// percent-encoded so it is not read as a fragment.
func Tel(number string) string {
	var dial strings.Builder
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9', r == '+', r == ',', r == ';', r == '*':
			dial.WriteRune(r)
		case r == '#':
			dial.WriteString("%23")
		}
	}

	return "tel:" + dial.String()
}

func Mail(address string) string {
	return "mailto:" + url.PathEscape(strings.TrimSpace(address))
}

func normaliseAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// Digits keeps only the decimal digits of value.
func Digits(value string) string {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	return digits.String()
}
