package feeds

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const registryYAML = `
base_url: https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv
cache_ttl: PT10S
page_refresh: PT2M
feeds:
  - identifier: roster
    gid: "1261782560"
  - identifier: dispatch
    gid: "1123038440"
  - identifier: schedule
    gid: "1908585361"
  - identifier: quicklinks
    gid: "489255872"
  - identifier: safety
    url: https://example.com/safety.xlsx
    format: xlsx
    optional: true
`

func parseRegistry(t *testing.T, source string) *Registry {
	t.Helper()

	var registry Registry
	require.NoError(t, yaml.Unmarshal([]byte(source), &registry))

	return &registry
}

func TestRegistryDecodesAndValidates(t *testing.T) {
	registry := parseRegistry(t, registryYAML)
	require.NoError(t, registry.Validate())

	assert.Equal(t, 10*time.Second, registry.CacheTTL.Duration)
	assert.Equal(t, 2*time.Minute, registry.PageRefresh.Duration)
	assert.Equal(t, []string{Roster, Dispatch, Schedule, QuickLinks, Safety}, registry.Identifiers())

	roster, found := registry.Get(Roster)
	require.True(t, found)
	assert.Equal(t, FormatCSV, roster.Format)

	safety, _ := registry.Get(Safety)
	assert.True(t, safety.Optional)
	assert.Equal(t, FormatXLSX, safety.Format)
}

func TestRegistryDefaults(t *testing.T) {
	registry := parseRegistry(t, `
base_url: https://example.com/pub?output=csv
feeds:
  - {identifier: roster, gid: "1"}
  - {identifier: dispatch, gid: "2"}
  - {identifier: schedule, gid: "3"}
  - {identifier: quicklinks, gid: "4"}
`)
	require.NoError(t, registry.Validate())

	assert.Equal(t, DefaultCacheTTL, registry.CacheTTL.Duration)
	assert.Equal(t, DefaultPageRefresh, registry.PageRefresh.Duration)
}

func TestRegistryValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name: "missing required feed",
			source: `
base_url: https://example.com/pub
feeds:
  - {identifier: roster, gid: "1"}
`,
		},
		{
			name: "duplicate feed",
			source: `
base_url: https://example.com/pub
feeds:
  - {identifier: roster, gid: "1"}
  - {identifier: roster, gid: "2"}
`,
		},
		{
			name: "unknown format",
			source: `
base_url: https://example.com/pub
feeds:
  - {identifier: roster, gid: "1", format: pdf}
`,
		},
		{
			name: "sheets api without spreadsheet",
			source: `
feeds:
  - {identifier: roster, format: sheets-api, sheet: Roster}
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, parseRegistry(t, tc.source).Validate())
		})
	}
}

func TestRegistryRejectsBadDuration(t *testing.T) {
	var registry Registry
	assert.Error(t, yaml.Unmarshal([]byte("cache_ttl: five seconds"), &registry))
}

func TestSourceURL(t *testing.T) {
	registry := parseRegistry(t, registryYAML)
	require.NoError(t, registry.Validate())
	now := time.Unix(1792140000, 0)

	roster, _ := registry.Get(Roster)
	source, err := registry.SourceURL(roster, now)
	require.NoError(t, err)

	parsed, err := url.Parse(source)
	require.NoError(t, err)
	assert.Equal(t, "csv", parsed.Query().Get("output"))
	assert.Equal(t, "1261782560", parsed.Query().Get("gid"))
	assert.Equal(t, "1792140000", parsed.Query().Get("cache_bust"))

	safety, _ := registry.Get(Safety)
	source, err = registry.SourceURL(safety, now)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/safety.xlsx?cache_bust=1792140000", source)
}

func TestParseISODuration(t *testing.T) {
	duration, err := ParseISODuration("P1D")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, duration)

	_, err = ParseISODuration("1 day")
	assert.Error(t, err)
}
