package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Days in schedule order. Stop times use these abbreviations after the comma.
var weekDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Arizona cities whose store times are shown one hour behind the rest of the schedule. The
// shift is applied all year.
var shiftedCities = map[string]struct{}{
	"apache junction":  {},
	"avondale":         {},
	"buckeye":          {},
	"bullhead city":    {},
	"camp verde":       {},
	"casa grande":      {},
	"chandler":         {},
	"coolidge":         {},
	"cottonwood":       {},
	"douglas":          {},
	"el mirage":        {},
	"eloy":             {},
	"flagstaff":        {},
	"florence":         {},
	"fountain hills":   {},
	"gilbert":          {},
	"glendale":         {},
	"goodyear":         {},
	"kingman":          {},
	"lake havasu city": {},
	"litchfield park":  {},
	"marana":           {},
	"maricopa":         {},
	"mesa":             {},
	"nogales":          {},
	"oro valley":       {},
	"payson":           {},
	"peoria":           {},
	"phoenix":          {},
	"prescott":         {},
	"prescott valley":  {},
	"queen creek":      {},
	"safford":          {},
	"sahuarita":        {},
	"san luis":         {},
	"scottsdale":       {},
	"sedona":           {},
	"show low":         {},
	"sierra vista":     {},
	"surprise":         {},
	"tempe":            {},
	"tolleson":         {},
	"tucson":           {},
	"wickenburg":       {},
	"winslow":          {},
	"yuma":             {},
}

// StopKey orders stop times within a Monday to Sunday week.
type StopKey struct {
	Day    int
	Hour   int
	Minute int
}

// MalformedStopKey sorts after every valid stop time.
var MalformedStopKey = StopKey{Day: 99, Hour: 99, Minute: 99}

func (k StopKey) Less(other StopKey) bool {
	if k.Day != other.Day {
		return k.Day < other.Day
	}
	if k.Hour != other.Hour {
		return k.Hour < other.Hour
	}

	return k.Minute < other.Minute
}

// Compare returns -1, 0 or 1 for use with slices.SortStableFunc.
func (k StopKey) Compare(other StopKey) int {
	switch {
	case k.Less(other):
		return -1
	case other.Less(k):
		return 1
	default:
		return 0
	}
}

func (k StopKey) String() string {
	return fmt.Sprintf("%02d:%02d,%s", k.Hour, k.Minute, weekDays[k.Day])
}

// ParseStopTime parses "HH:MM,Day".
func ParseStopTime(timeStr string) (StopKey, bool) {
	clock, day, found := strings.Cut(timeStr, ",")
	if !found {
		return StopKey{}, false
	}

	hourStr, minuteStr, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return StopKey{}, false
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return StopKey{}, false
	}

	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return StopKey{}, false
	}

	dayIndex := -1
	for i, abbreviation := range weekDays {
		if strings.EqualFold(strings.TrimSpace(day), abbreviation) {
			dayIndex = i
			break
		}
	}
	if dayIndex < 0 {
		return StopKey{}, false
	}

	return StopKey{Day: dayIndex, Hour: hour, Minute: minute}, true
}

// SortKey returns the chronological key for a stop time, MalformedStopKey when it cannot be
// parsed.
func SortKey(timeStr string) StopKey {
	key, ok := ParseStopTime(timeStr)
	if !ok {
		return MalformedStopKey
	}

	return key
}

// ConvertTimezone moves a stop time one hour back when the address is in one of the shifted
// cities, rolling over to the previous day (Monday wraps to Sunday). Anything it cannot parse
// is returned unchanged.
func ConvertTimezone(timeStr string, address string) string {
	if !InShiftedCity(address) {
		return timeStr
	}

	key, ok := ParseStopTime(timeStr)
	if !ok {
		return timeStr
	}

	key.Hour--
	if key.Hour < 0 {
		key.Hour = 23
		key.Day = (key.Day + len(weekDays) - 1) % len(weekDays)
	}

	return key.String()
}

// InShiftedCity reports whether an address is in one of the shifted cities. Trailing ZIP
// codes and country names are ignored. When the address names a state it must be Arizona.
func InShiftedCity(address string) bool {
	city, state := splitLocality(address)
	if city == "" || (state != "" && state != "az") {
		return false
	}

	for name := range shiftedCities {
		if city == name || strings.HasSuffix(city, " "+name) {
			return true
		}
	}

	return false
}

// splitLocality returns the address text before any state, ZIP or country suffix, and the
// state as a lower case postal code ("" when the address has none).
func splitLocality(address string) (string, string) {
	fields := strings.FieldsFunc(strings.ToLower(address), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	for i := range fields {
		fields[i] = strings.Trim(fields[i], ".")
	}

	for len(fields) > 0 && (isZIP(fields[len(fields)-1]) || isCountry(fields[len(fields)-1])) {
		fields = fields[:len(fields)-1]
	}

	state := ""
	for words := 2; words >= 1 && state == ""; words-- {
		if len(fields) < words {
			continue
		}

		candidate := strings.Join(fields[len(fields)-words:], " ")
		if code, ok := stateNames[candidate]; ok {
			state = code
		} else if _, ok := stateCodes[candidate]; ok && words == 1 {
			state = candidate
		}

		if state != "" {
			fields = fields[:len(fields)-words]
		}
	}

	return strings.Join(fields, " "), state
}

func isCountry(token string) bool {
	return token == "usa" || token == "us"
}

func isZIP(token string) bool {
	zip := strings.ReplaceAll(token, "-", "")
	if zip == "" {
		return false
	}
	for _, r := range zip {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

var stateCodes = map[string]struct{}{
	"al": {}, "ak": {}, "az": {}, "ar": {}, "ca": {}, "co": {}, "ct": {}, "de": {}, "dc": {},
	"fl": {}, "ga": {}, "hi": {}, "id": {}, "il": {}, "in": {}, "ia": {}, "ks": {}, "ky": {},
	"la": {}, "me": {}, "md": {}, "ma": {}, "mi": {}, "mn": {}, "ms": {}, "mo": {}, "mt": {},
	"ne": {}, "nv": {}, "nh": {}, "nj": {}, "nm": {}, "ny": {}, "nc": {}, "nd": {}, "oh": {},
	"ok": {}, "or": {}, "pa": {}, "pr": {}, "ri": {}, "sc": {}, "sd": {}, "tn": {}, "tx": {},
	"ut": {}, "vt": {}, "va": {}, "wa": {}, "wv": {}, "wi": {}, "wy": {},
}

var stateNames = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar", "california": "ca",
	"colorado": "co", "connecticut": "ct", "delaware": "de", "florida": "fl", "georgia": "ga",
	"hawaii": "hi", "idaho": "id", "illinois": "il", "indiana": "in", "iowa": "ia",
	"kansas": "ks", "kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms",
	"missouri": "mo", "montana": "mt", "nebraska": "ne", "nevada": "nv",
	"new hampshire": "nh", "new jersey": "nj", "new mexico": "nm", "new york": "ny",
	"north carolina": "nc", "north dakota": "nd", "ohio": "oh", "oklahoma": "ok",
	"oregon": "or", "pennsylvania": "pa", "rhode island": "ri", "south carolina": "sc",
	"south dakota": "sd", "tennessee": "tn", "texas": "tx", "utah": "ut", "vermont": "vt",
	"virginia": "va", "washington": "wa", "west virginia": "wv", "wisconsin": "wi",
	"wyoming": "wy",
}
