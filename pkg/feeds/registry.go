package feeds

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

// Stable identifiers of the feeds a lookup reads.
const (
	Roster     = "roster"
	Dispatch   = "dispatch"
	Schedule   = "schedule"
	QuickLinks = "quicklinks"
	Safety     = "safety"
)

var requiredFeeds = []string{Roster, Dispatch, Schedule, QuickLinks}

type Format string

const (
	FormatCSV       Format = "csv"
	FormatXLSX      Format = "xlsx"
	FormatSheetsAPI Format = "sheets-api"
)

// Registry lists where every feed is published and how long fetched copies may be reused.
type Registry struct {
	BaseURL string `yaml:"base_url"`

	// SpreadsheetID is only needed for sheets-api feeds
	SpreadsheetID string `yaml:"spreadsheet_id"`

	CacheTTL    Duration `yaml:"cache_ttl"`
	PageRefresh Duration `yaml:"page_refresh"`

	Feeds []Feed `yaml:"feeds"`
}

type Feed struct {
	Identifier string `yaml:"identifier"`
	GID        string `yaml:"gid"`
	URL        string `yaml:"url"`
	Format     Format `yaml:"format"`
	Sheet      string `yaml:"sheet"`
	Optional   bool   `yaml:"optional"`
}

const (
	DefaultCacheTTL    = 5 * time.Second
	DefaultPageRefresh = time.Minute
)

// Validate fills defaults and checks every required feed is registered.
func (r *Registry) Validate() error {
	if r.CacheTTL.Duration <= 0 {
		r.CacheTTL.Duration = DefaultCacheTTL
	}
	if r.PageRefresh.Duration <= 0 {
		r.PageRefresh.Duration = DefaultPageRefresh
	}

	seen := map[string]bool{}
	for i := range r.Feeds {
		feed := &r.Feeds[i]

		if feed.Identifier == "" {
			return fmt.Errorf("feed %d has no identifier", i)
		}
		if seen[feed.Identifier] {
			return fmt.Errorf("feed %s registered twice", feed.Identifier)
		}
		seen[feed.Identifier] = true

		if feed.Format == "" {
			feed.Format = FormatCSV
		}

		switch feed.Format {
		case FormatCSV, FormatXLSX:
			if feed.URL == "" && (r.BaseURL == "" || feed.GID == "") {
				return fmt.Errorf("feed %s needs a url or a gid on the base url", feed.Identifier)
			}
		case FormatSheetsAPI:
			if r.SpreadsheetID == "" || feed.Sheet == "" {
				return fmt.Errorf("feed %s needs spreadsheet_id and sheet for the sheets api", feed.Identifier)
			}
		default:
			return fmt.Errorf("feed %s has unrecognised format %s", feed.Identifier, feed.Format)
		}
	}

	for _, identifier := range requiredFeeds {
		if !seen[identifier] {
			return fmt.Errorf("required feed %s is not registered", identifier)
		}
	}

	return nil
}

// Get returns the registered feed with identifier.
func (r *Registry) Get(identifier string) (Feed, bool) {
	for _, feed := range r.Feeds {
		if feed.Identifier == identifier {
			return feed, true
		}
	}

	return Feed{}, false
}

// Identifiers lists every registered feed in registry order.
func (r *Registry) Identifiers() []string {
	identifiers := make([]string, 0, len(r.Feeds))
	for _, feed := range r.Feeds {
		identifiers = append(identifiers, feed.Identifier)
	}

	return identifiers
}

// SourceURL is the export address for a feed with a cache-busting parameter so intermediate
// caches never serve an older export than the feed cache itself would.
func (r *Registry) SourceURL(feed Feed, now time.Time) (string, error) {
	source := feed.URL
	if source == "" {
		source = r.BaseURL
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("feed %s url: %w", feed.Identifier, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("feed " + feed.Identifier + " url is not absolute")
	}

	query := parsed.Query()
	if feed.URL == "" {
		query.Set("gid", feed.GID)
	}
	query.Set("cache_bust", strconv.FormatInt(now.Unix(), 10))
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// Duration is an ISO-8601 duration such as PT5S or PT1M in the registry file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseISODuration(value.Value)
	if err != nil {
		return err
	}

	d.Duration = parsed

	return nil
}

// ParseISODuration converts an ISO-8601 duration into a time.Duration. Calendar units are
// measured from the Unix epoch so P1D is always 24 hours.
func ParseISODuration(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}

	reference := time.Unix(0, 0).UTC()

	return parsed.Shift(reference).Sub(reference), nil
}
