package discover

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/Venipa/taiga/internal/anime"
)

// Resolve returns the first record matching any of pairs, in pair order.
// Pairs pointing at different records are not reported.
func (db *SeasonDatabase) Resolve(ctx context.Context, pairs []IDPair) (anime.ID, bool, error) {
	for _, pair := range pairs {
		if pair.ID == "" {
			continue
		}
		id, ok, err := db.library.FindByExternalID(ctx, pair.ID, pair.Service)
		if err != nil {
			return 0, false, fmt.Errorf("resolve %d/%s: %w", pair.Service, pair.ID, err)
		}
		if ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// Reconcile decides what entry contributes to the library. A matched record
// at least as new as modified is returned untouched. Otherwise the entry is
// stored, overwriting matched when present, and ErrUnresolvable is returned
// when it has no identifier for the active service.
func (db *SeasonDatabase) Reconcile(ctx context.Context, matched *anime.Item, entry Entry, modified time.Time) (anime.ID, error) {
	if matched != nil && !matched.LastModified.Before(modified) {
		return matched.ID, nil
	}

	active := db.services.Active()
	if entry.ExternalID(active) == "" {
		return 0, ErrUnresolvable
	}

	item := &anime.Item{
		Source:       active,
		LastModified: modified,
		Title:        entry.Title,
		Type:         entry.Type,
		ImageURL:     entry.ImageURL,
		TrailerURL:   entry.TrailerURL,
		Producers:    slices.Clone(entry.Producers),
	}
	if matched != nil {
		item.IDs = maps.Clone(matched.IDs)
		item.DateStart = matched.DateStart
		item.Synopsis = matched.Synopsis
		item.AgeRating = matched.AgeRating
		item.Genres = slices.Clone(matched.Genres)
	}
	for _, pair := range entry.IDs {
		item.SetExternalID(pair.ID, pair.Service)
	}

	if matched != nil {
		if err := db.library.UpdateExisting(ctx, matched.ID, item); err != nil {
			return 0, fmt.Errorf("update record %d: %w", matched.ID, err)
		}
		return matched.ID, nil
	}
	id, err := db.library.Insert(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}
