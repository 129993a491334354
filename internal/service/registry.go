package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Venipa/taiga/internal/anime"
)

// Known service identifiers. Values are persisted in the library database and
// must not be renumbered.
const (
	Unknown     anime.ServiceID = 0
	MyAnimeList anime.ServiceID = 1
	Kitsu       anime.ServiceID = 2
	AniList     anime.ServiceID = 3
)

var builtin = map[string]anime.ServiceID{
	"myanimelist": MyAnimeList,
	"kitsu":       Kitsu,
	"anilist":     AniList,
}

// Registry resolves service names and knows the active service.
type Registry struct {
	byName map[string]anime.ServiceID
	names  map[anime.ServiceID]string
	active anime.ServiceID
}

// NewRegistry builds a registry of the built-in services with activeName as
// the active service.
func NewRegistry(activeName string) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]anime.ServiceID, len(builtin)),
		names:  make(map[anime.ServiceID]string, len(builtin)),
	}
	for name, id := range builtin {
		r.byName[name] = id
		r.names[id] = name
	}
	active := r.IDForName(activeName)
	if active == Unknown {
		return nil, fmt.Errorf("unknown active service %q (known: %s)", activeName, strings.Join(r.Names(), ", "))
	}
	r.active = active
	return r, nil
}

// IDForName returns the identifier for a case-insensitive service name, or
// Unknown.
func (r *Registry) IDForName(name string) anime.ServiceID {
	if r == nil {
		return Unknown
	}
	id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Unknown
	}
	return id
}

// Name returns the canonical name of a service identifier.
func (r *Registry) Name(id anime.ServiceID) string {
	if r == nil {
		return ""
	}
	return r.names[id]
}

// Active returns the service the application is driven by.
func (r *Registry) Active() anime.ServiceID {
	if r == nil {
		return Unknown
	}
	return r.active
}

// Names lists the known service names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
