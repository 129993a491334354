package discover

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/seasondoc"
)

// DefaultRefreshThreshold is the number of incomplete records above which a
// metadata refresh is suggested.
const DefaultRefreshThreshold = 20

// Options configures a SeasonDatabase.
type Options struct {
	Library    Library
	Source     DocumentSource
	Dispatcher Dispatcher
	Services   Services
	Notifier   Notifier
	Logger     *slog.Logger

	// RemoteLocation is the base URL season files are downloaded from. Empty
	// disables downloading.
	RemoteLocation   string
	RefreshThreshold int
	// HideNSFW is the content policy used when the list is rebuilt from the
	// library alone.
	HideNSFW bool
	// Earliest and Latest bound the seasons offered for browsing.
	Earliest anime.Season
	Latest   anime.Season
}

// SeasonDatabase holds the current season and its ordered, duplicate free
// list of library record identifiers. Operations are serialized.
type SeasonDatabase struct {
	library        Library
	source         DocumentSource
	dispatcher     Dispatcher
	services       Services
	notifier       Notifier
	logger         *slog.Logger
	remoteLocation string
	threshold      int
	hideNSFW       bool
	earliest       anime.Season
	latest         anime.Season

	mu      sync.Mutex
	current anime.Season
	items   []anime.ID
}

// New validates opts and returns an empty SeasonDatabase.
func New(opts Options) (*SeasonDatabase, error) {
	if opts.Library == nil {
		return nil, errors.New("discover: library is required")
	}
	if opts.Source == nil {
		return nil, errors.New("discover: document source is required")
	}
	if opts.Services == nil {
		return nil, errors.New("discover: service registry is required")
	}
	db := &SeasonDatabase{
		library:        opts.Library,
		source:         opts.Source,
		dispatcher:     opts.Dispatcher,
		services:       opts.Services,
		notifier:       opts.Notifier,
		logger:         logging.NewComponentLogger(opts.Logger, "discover"),
		remoteLocation: opts.RemoteLocation,
		threshold:      opts.RefreshThreshold,
		hideNSFW:       opts.HideNSFW,
		earliest:       opts.Earliest,
		latest:         opts.Latest,
	}
	if db.dispatcher == nil {
		db.dispatcher = nopDispatcher{}
	}
	if db.notifier == nil {
		db.notifier = nopNotifier{}
	}
	if db.threshold <= 0 {
		db.threshold = DefaultRefreshThreshold
	}
	return db, nil
}

// Current returns the season the list belongs to.
func (db *SeasonDatabase) Current() anime.Season {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.current
}

// Items returns a copy of the season list.
func (db *SeasonDatabase) Items() []anime.ID {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.items)
}

// Reset clears the list and the current season.
func (db *SeasonDatabase) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.items = nil
	db.current = anime.Season{}
}

// Available lists the browsable seasons from earliest to latest.
func (db *SeasonDatabase) Available() []anime.Season {
	return anime.SeasonRange(db.earliest, db.latest)
}

// IsAvailable reports whether season lies within the browsable range.
func (db *SeasonDatabase) IsAvailable(season anime.Season) bool {
	if season.IsZero() || db.earliest.IsZero() || db.latest.IsZero() {
		return false
	}
	return !season.Before(db.earliest) && !db.latest.Before(season)
}

// Records returns the library records of the season list in list order,
// skipping identifiers whose record no longer exists.
func (db *SeasonDatabase) Records(ctx context.Context) ([]*anime.Item, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.records(ctx)
}

func (db *SeasonDatabase) records(ctx context.Context) ([]*anime.Item, error) {
	out := make([]*anime.Item, 0, len(db.items))
	for _, id := range db.items {
		item, err := db.library.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

// Export builds a season document from the current list. The header carries
// the newest modification time among the exported records.
func (db *SeasonDatabase) Export(ctx context.Context) (*seasondoc.Document, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	items, err := db.records(ctx)
	if err != nil {
		return nil, err
	}
	var modified time.Time
	for _, item := range items {
		if item.LastModified.After(modified) {
			modified = item.LastModified
		}
	}
	return seasondoc.FromItems(db.current, modified, items, db.services), nil
}
