package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// WireFormat is the exact instant format the scheduler requires (UTC).
const WireFormat = "2006-01-02T15:04:05Z"

// Default clock time applied when a phrase carries no parseable time.
const (
	DefaultHour   = 10
	DefaultMinute = 0
)

// Relative-day keyword sets across the six supported languages.
var (
	tomorrowWords = []string{"tomorrow", "mañana", "demain", "morgen", "domani", "amanhã"}
	todayWords    = []string{"today", "hoy", "aujourd'hui", "heute", "oggi", "hoje"}
)

// Clock times need either minutes or an am/pm marker; a bare integer in a
// date phrase ("25 november") must not be read as an hour.
var (
	clockPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)?`)
	ampmPattern  = regexp.MustCompile(`(?i)(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)`)

	isoPattern    = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	slashPattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	dayNumPattern = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearPattern   = regexp.MustCompile(`\b(20\d{2})\b`)
)

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// Ordered token lists keep matching deterministic: a phrase naming two
// months or two weekdays resolves to the one appearing earliest.
var monthTokens = []string{
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var weekdayTokens = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// HasTomorrowWord reports whether the phrase contains a "tomorrow"-class
// keyword in any supported language.
func HasTomorrowWord(phrase string) bool {
	return containsAny(strings.ToLower(phrase), tomorrowWords)
}

// HasTodayWord reports whether the phrase contains a "today"-class keyword.
func HasTodayWord(phrase string) bool {
	return containsAny(strings.ToLower(phrase), todayWords)
}

// ExtractClockTime pulls an explicit clock time out of a phrase. Returns the
// defaults (10:00) and ok=false when no time is present.
func ExtractClockTime(phrase string) (hour, minute int, ok bool) {
	hour, minute = DefaultHour, DefaultMinute

	if m := clockPattern.FindStringSubmatch(phrase); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		hour = applyAMPM(hour, m[3])
		return hour, minute, true
	}
	if m := ampmPattern.FindStringSubmatch(phrase); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute = 0
		hour = applyAMPM(hour, m[2])
		return hour, minute, true
	}
	return hour, minute, false
}

func applyAMPM(hour int, marker string) int {
	marker = strings.ReplaceAll(strings.ToLower(marker), ".", "")
	switch marker {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

// Normalize converts a natural-language date phrase into the scheduler wire
// format, anchored to now in the given location. The result is guaranteed to
// be strictly after now; unparseable phrases return an error.
func Normalize(phrase string, loc *time.Location, now time.Time) (string, error) {
	t, err := NormalizeTime(phrase, loc, now)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(WireFormat), nil
}

// NormalizeTime is Normalize without the final wire formatting.
func NormalizeTime(phrase string, loc *time.Location, now time.Time) (time.Time, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return time.Time{}, fmt.Errorf("date phrase is empty")
	}

	localNow := now.In(loc)
	hour, minute, _ := ExtractClockTime(phrase)
	lower := strings.ToLower(phrase)

	var dt time.Time
	switch {
	case containsAny(lower, tomorrowWords):
		next := localNow.AddDate(0, 0, 1)
		dt = time.Date(next.Year(), next.Month(), next.Day(), hour, minute, 0, 0, loc)

	case containsAny(lower, todayWords):
		dt = time.Date(localNow.Year(), localNow.Month(), localNow.Day(), hour, minute, 0, 0, loc)
		if !dt.After(now) {
			dt = dt.AddDate(0, 0, 1)
		}

	default:
		parsed, withTime, ok := parseFuzzyDate(lower, loc, localNow)
		if !ok {
			return time.Time{}, fmt.Errorf("unable to parse date phrase: %s", phrase)
		}
		dt = parsed
		if !withTime {
			dt = time.Date(dt.Year(), dt.Month(), dt.Day(), hour, minute, 0, 0, loc)
		}
		if sameDate(dt, localNow) && !dt.After(now) {
			dt = dt.AddDate(0, 0, 1)
		}
	}

	// Never produce a past instant.
	if !dt.After(now) {
		next := localNow.AddDate(0, 0, 1)
		dt = time.Date(next.Year(), next.Month(), next.Day(), hour, minute, 0, 0, loc)
	}

	return dt, nil
}

// parseFuzzyDate attempts to find a concrete calendar date inside the
// phrase: ISO dates, US-style slash dates, "November 25 [2026]" /
// "25 November" forms, and English weekday names (next occurrence).
// Returns withTime=true only for forms carrying their own clock time.
func parseFuzzyDate(lower string, loc *time.Location, localNow time.Time) (time.Time, bool, bool) {
	if m := isoPattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if validDate(year, month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), false, true
		}
	}

	if m := slashPattern.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := localNow.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if validDate(year, month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), false, true
		}
	}

	// Clock times are removed before calendar parsing so "at 14:00 on
	// november 25" cannot read 14 as the day of month.
	dateText := ampmPattern.ReplaceAllString(clockPattern.ReplaceAllString(lower, " "), " ")

	monthIdx := -1
	var month time.Month
	for _, token := range monthTokens {
		idx := indexOfWord(dateText, token)
		if idx >= 0 && (monthIdx < 0 || idx < monthIdx) {
			monthIdx = idx
			month = monthNames[token]
		}
	}
	if monthIdx >= 0 {
		if day, ok := nearbyDayNumber(dateText); ok {
			year := localNow.Year()
			if m := yearPattern.FindStringSubmatch(dateText); m != nil {
				year, _ = strconv.Atoi(m[1])
			}
			d := time.Date(year, month, day, 0, 0, 0, 0, loc)
			// A month/day without a year that already passed means next year.
			if yearPattern.FindString(dateText) == "" && d.AddDate(0, 0, 1).Before(localNow) {
				d = d.AddDate(1, 0, 0)
			}
			return d, false, true
		}
	}

	weekdayIdx := -1
	var weekday time.Weekday
	for _, token := range weekdayTokens {
		idx := indexOfWord(dateText, token)
		if idx >= 0 && (weekdayIdx < 0 || idx < weekdayIdx) {
			weekdayIdx = idx
			weekday = weekdayNames[token]
		}
	}
	if weekdayIdx >= 0 {
		ahead := (int(weekday) - int(localNow.Weekday()) + 7) % 7
		d := localNow.AddDate(0, 0, ahead)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), false, true
	}

	return time.Time{}, false, false
}

func nearbyDayNumber(lower string) (int, bool) {
	for _, m := range dayNumPattern.FindAllStringSubmatch(lower, -1) {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 31 {
			return n, true
		}
	}
	return 0, false
}

func indexOfWord(s, word string) int {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(word)
		startOK := start == 0 || !isLetter(s[start-1])
		endOK := end == len(s) || !isLetter(s[end])
		if startOK && endOK {
			return start
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 {
		return false
	}
	return true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// FormatPretty renders an instant as a local 12-hour clock string.
func FormatPretty(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

// DescribeRelative renders an instant as "today at 3:04 PM" or
// "tomorrow at 10 AM", used for suggested alternatives in policy messages.
func DescribeRelative(t, now time.Time, loc *time.Location) string {
	if sameDate(t.In(loc), now.In(loc)) {
		return fmt.Sprintf("today at %s", FormatPretty(t, loc))
	}
	return "tomorrow at 10 AM"
}
