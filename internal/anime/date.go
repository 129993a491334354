package anime

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a calendar date with optional month and day precision. A zero
// component means unknown.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsValid reports whether the date is precise enough to place inside a
// season, which requires both a year and a month.
func (d Date) IsValid() bool {
	return d.Year > 0 && d.Month >= 1 && d.Month <= 12
}

// Before compares two dates. An unknown day sorts as the first of the month.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return max(d.Day, 1) < max(other.Day, 1)
}

// String renders the date as YYYY-MM-DD using 00 for unknown parts.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate parses YYYY, YYYY-MM or YYYY-MM-DD. Components of 00 are kept as
// unknown. The empty string yields the zero Date.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	parts := strings.Split(value, "-")
	if len(parts) > 3 {
		return Date{}, fmt.Errorf("parse date %q: too many components", value)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Date{}, fmt.Errorf("parse date %q: invalid component %q", value, part)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month > 12 || d.Day > 31 {
		return Date{}, fmt.Errorf("parse date %q: out of range", value)
	}
	return d, nil
}
