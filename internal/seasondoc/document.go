package seasondoc

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/Venipa/taiga/internal/anime"
)

// Document is a parsed season data file.
type Document struct {
	XMLName xml.Name `xml:"season"`
	Info    Info     `xml:"info"`
	Anime   []Entry  `xml:"anime"`
}

// Info is the document header.
type Info struct {
	Name     string `xml:"name"`
	Modified string `xml:"modified"`
}

// Entry is one anime listed in a season document.
type Entry struct {
	IDs       []ID   `xml:"id"`
	Title     string `xml:"title"`
	TypeCode  string `xml:"type"`
	Image     string `xml:"image"`
	Trailer   string `xml:"trailer"`
	Producers string `xml:"producers"`
}

// ID is a service identifier of an entry, named by the service.
type ID struct {
	Service string `xml:"name,attr"`
	Value   string `xml:",chardata"`
}

// Season returns the season named in the header, or the zero Season when the
// name cannot be parsed.
func (d *Document) Season() anime.Season {
	season, err := anime.ParseSeason(d.Info.Name)
	if err != nil {
		return anime.Season{}
	}
	return season
}

// ModifiedAt returns the document-wide modification timestamp. Missing or
// unreadable values yield the zero time.
func (d *Document) ModifiedAt() time.Time {
	ts, err := ParseTimestamp(d.Info.Modified)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// MediaType returns the numeric type code as an anime.Type. Unreadable codes
// map to TypeUnknown.
func (e Entry) MediaType() anime.Type {
	code, err := strconv.Atoi(strings.TrimSpace(e.TypeCode))
	if err != nil {
		return anime.TypeUnknown
	}
	return anime.Type(code)
}

// ProducerList splits the comma separated producers.
func (e Entry) ProducerList() []string {
	return anime.SplitProducers(e.Producers)
}

// TrimmedTitle returns the title without surrounding whitespace.
func (e Entry) TrimmedTitle() string {
	return strings.TrimSpace(e.Title)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts unix seconds, RFC 3339, or "2006-01-02 15:04:05"
// (UTC) and returns the time in UTC, truncated to whole seconds.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts.UTC().Truncate(time.Second), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatTimestamp renders t the way season files store it.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}
