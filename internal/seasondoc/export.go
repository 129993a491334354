package seasondoc

import (
	"slices"
	"strconv"
	"time"

	"github.com/Venipa/taiga/internal/anime"
)

// ServiceNamer maps service identifiers to the names used in id elements.
type ServiceNamer interface {
	Name(id anime.ServiceID) string
}

// FromItems builds a season document listing items in order. Identifiers of
// services the namer does not know are omitted.
func FromItems(season anime.Season, modified time.Time, items []*anime.Item, namer ServiceNamer) *Document {
	doc := &Document{
		Info: Info{
			Name:     season.String(),
			Modified: FormatTimestamp(modified),
		},
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		entry := Entry{
			Title:     item.Title,
			TypeCode:  strconv.Itoa(int(item.Type)),
			Image:     item.ImageURL,
			Trailer:   item.TrailerURL,
			Producers: anime.JoinProducers(item.Producers),
		}
		services := make([]anime.ServiceID, 0, len(item.IDs))
		for service := range item.IDs {
			services = append(services, service)
		}
		slices.Sort(services)
		for _, service := range services {
			value := item.IDs[service]
			name := namer.Name(service)
			if value == "" || name == "" {
				continue
			}
			entry.IDs = append(entry.IDs, ID{Service: name, Value: value})
		}
		doc.Anime = append(doc.Anime, entry)
	}
	return doc
}
