package discover

import (
	"strings"
	"time"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/seasondoc"
	"github.com/Venipa/taiga/internal/service"
)

// IDPair is one external identifier of a season entry.
type IDPair struct {
	Service anime.ServiceID
	ID      string
}

// Entry is a season document record prepared for reconciliation.
type Entry struct {
	// IDs keeps document order. A service listed twice keeps its first
	// position and its last value.
	IDs          []IDPair
	Title        string
	Type         anime.Type
	ImageURL     string
	TrailerURL   string
	Producers    []string
	LastModified time.Time
}

// ExternalID returns the entry's identifier on service.
func (e Entry) ExternalID(service anime.ServiceID) string {
	for _, pair := range e.IDs {
		if pair.Service == service {
			return pair.ID
		}
	}
	return ""
}

// NewEntry converts a document entry, resolving service names through
// services. Identifiers of unknown services and blank identifiers are dropped.
func NewEntry(raw seasondoc.Entry, modified time.Time, services Services) Entry {
	entry := Entry{
		Title:        raw.TrimmedTitle(),
		Type:         raw.MediaType(),
		ImageURL:     strings.TrimSpace(raw.Image),
		TrailerURL:   strings.TrimSpace(raw.Trailer),
		Producers:    raw.ProducerList(),
		LastModified: modified,
	}
	positions := make(map[anime.ServiceID]int, len(raw.IDs))
	for _, id := range raw.IDs {
		value := strings.TrimSpace(id.Value)
		svc := services.IDForName(id.Service)
		if value == "" || svc == service.Unknown {
			continue
		}
		if pos, ok := positions[svc]; ok {
			entry.IDs[pos].ID = value
			continue
		}
		positions[svc] = len(entry.IDs)
		entry.IDs = append(entry.IDs, IDPair{Service: svc, ID: value})
	}
	return entry
}
