package anime

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SeasonName identifies the quarter of a year an anime season covers.
type SeasonName int

const (
	SeasonUnknown SeasonName = iota
	SeasonWinter
	SeasonSpring
	SeasonSummer
	SeasonFall
)

var seasonNames = map[SeasonName]string{
	SeasonWinter: "winter",
	SeasonSpring: "spring",
	SeasonSummer: "summer",
	SeasonFall:   "fall",
}

var titleCaser = cases.Title(language.English)

// String returns the display name of the season ("Winter").
func (n SeasonName) String() string {
	name, ok := seasonNames[n]
	if !ok {
		return "Unknown"
	}
	return titleCaser.String(name)
}

// ParseSeasonName maps a case-insensitive season name to its value.
// "autumn" is accepted as an alias for fall.
func ParseSeasonName(value string) SeasonName {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "winter":
		return SeasonWinter
	case "spring":
		return SeasonSpring
	case "summer":
		return SeasonSummer
	case "fall", "autumn":
		return SeasonFall
	default:
		return SeasonUnknown
	}
}

// Season pairs a quarter with a year, e.g. Winter 2018.
type Season struct {
	Name SeasonName
	Year int
}

// IsZero reports whether the season is unset.
func (s Season) IsZero() bool {
	return s.Name == SeasonUnknown || s.Year == 0
}

// String renders the season as "Winter 2018".
func (s Season) String() string {
	if s.IsZero() {
		return "Unknown"
	}
	return s.Name.String() + " " + strconv.Itoa(s.Year)
}

// FileName returns the canonical season data file name, e.g. 2018_winter.xml.
func (s Season) FileName() string {
	return strconv.Itoa(s.Year) + "_" + strings.ToLower(s.Name.String()) + ".xml"
}

// Interval returns the half-open date range [start, end) the season covers.
// End is the first day of the following season.
func (s Season) Interval() (Date, Date) {
	startMonth := 1 + 3*(int(s.Name)-1)
	start := Date{Year: s.Year, Month: startMonth, Day: 1}
	next := s.Next()
	end := Date{Year: next.Year, Month: 1 + 3*(int(next.Name)-1), Day: 1}
	return start, end
}

// Contains reports whether a valid date falls inside the season interval.
// Dates without month precision are never contained.
func (s Season) Contains(d Date) bool {
	if !d.IsValid() {
		return false
	}
	start, end := s.Interval()
	return !d.Before(start) && d.Before(end)
}

// Next returns the season that follows s.
func (s Season) Next() Season {
	if s.Name == SeasonFall {
		return Season{Name: SeasonWinter, Year: s.Year + 1}
	}
	return Season{Name: s.Name + 1, Year: s.Year}
}

// Prev returns the season that precedes s.
func (s Season) Prev() Season {
	if s.Name == SeasonWinter {
		return Season{Name: SeasonFall, Year: s.Year - 1}
	}
	return Season{Name: s.Name - 1, Year: s.Year}
}

// Before reports whether s is chronologically earlier than other.
func (s Season) Before(other Season) bool {
	if s.Year != other.Year {
		return s.Year < other.Year
	}
	return s.Name < other.Name
}

// ParseSeason accepts "Winter 2018", "2018 winter", "winter-2018" and the
// file-name form "2018_winter" (with or without .xml).
func ParseSeason(value string) (Season, error) {
	trimmed := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), ".xml")
	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '/'
	})
	if len(fields) != 2 {
		return Season{}, fmt.Errorf("parse season %q: expected a season name and a year", value)
	}
	first, second := fields[0], fields[1]
	if _, err := strconv.Atoi(first); err == nil {
		first, second = second, first
	}
	name := ParseSeasonName(first)
	if name == SeasonUnknown {
		return Season{}, fmt.Errorf("parse season %q: unknown season name %q", value, first)
	}
	year, err := strconv.Atoi(second)
	if err != nil || year <= 0 {
		return Season{}, fmt.Errorf("parse season %q: invalid year %q", value, second)
	}
	return Season{Name: name, Year: year}, nil
}

// SeasonRange lists every season from first to last inclusive. An inverted
// range yields nil.
func SeasonRange(first, last Season) []Season {
	if first.IsZero() || last.IsZero() || last.Before(first) {
		return nil
	}
	var out []Season
	for s := first; !last.Before(s); s = s.Next() {
		out = append(out, s)
	}
	return out
}
