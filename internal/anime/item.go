package anime

import (
	"strings"
	"time"
)

// ID is the locally unique identifier of a library record.
type ID int64

// ServiceID is the stable identifier of an external tracking service.
type ServiceID int

// Type is the numeric media type code used by season data files.
type Type int

const (
	TypeUnknown Type = iota
	TypeTV
	TypeOVA
	TypeMovie
	TypeSpecial
	TypeONA
	TypeMusic
)

func (t Type) String() string {
	switch t {
	case TypeTV:
		return "TV"
	case TypeOVA:
		return "OVA"
	case TypeMovie:
		return "Movie"
	case TypeSpecial:
		return "Special"
	case TypeONA:
		return "ONA"
	case TypeMusic:
		return "Music"
	default:
		return "Unknown"
	}
}

// AgeRatingRx marks explicit titles.
const AgeRatingRx = "Rx"

// Item is the local library record for one anime.
type Item struct {
	ID           ID
	IDs          map[ServiceID]string
	Source       ServiceID
	LastModified time.Time
	Title        string
	Type         Type
	ImageURL     string
	TrailerURL   string
	Producers    []string
	DateStart    Date
	// Synopsis is nil when it has never been fetched.
	Synopsis  *string
	AgeRating string
	Genres    []string
}

// ExternalID returns the identifier of the item on the given service.
func (i *Item) ExternalID(service ServiceID) string {
	if i == nil || i.IDs == nil {
		return ""
	}
	return i.IDs[service]
}

// SetExternalID records the identifier of the item on the given service.
func (i *Item) SetExternalID(id string, service ServiceID) {
	if i.IDs == nil {
		i.IDs = make(map[ServiceID]string)
	}
	i.IDs[service] = id
}

// HasSynopsis reports whether a non-empty synopsis is known.
func (i *Item) HasSynopsis() bool {
	return i.Synopsis != nil && strings.TrimSpace(*i.Synopsis) != ""
}

// IsMature reports whether the item should be hidden when mature content is
// excluded.
func (i *Item) IsMature() bool {
	if strings.EqualFold(strings.TrimSpace(i.AgeRating), AgeRatingRx) {
		return true
	}
	for _, genre := range i.Genres {
		if strings.EqualFold(strings.TrimSpace(genre), "hentai") {
			return true
		}
	}
	return false
}

// SplitProducers splits a comma separated producer list, dropping blanks.
func SplitProducers(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinProducers renders producers the way season files store them.
func JoinProducers(producers []string) string {
	return strings.Join(producers, ", ")
}
