package discover

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"slices"
	"time"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/seasondoc"
)

// LoadSeason loads the season file of season.
func (db *SeasonDatabase) LoadSeason(ctx context.Context, season anime.Season) error {
	if season.IsZero() {
		return errors.New("discover: season is unset")
	}
	return db.LoadFile(ctx, season.FileName())
}

// LoadFile loads a season file from the document source. A missing file
// starts a download of the same name and returns ErrNotReady; the list and
// current season are left unchanged in that case.
func (db *SeasonDatabase) LoadFile(ctx context.Context, fileName string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	logger := logging.WithContext(ctx, db.logger)
	data, err := db.source.ReadLocal(fileName)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		db.requestDownload(logger, fileName)
		return ErrNotReady
	}
	return db.load(ctx, logger, data, fileName)
}

// LoadString rebuilds the list from an in-memory season document.
func (db *SeasonDatabase) LoadString(ctx context.Context, data []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.load(ctx, logging.WithContext(ctx, db.logger), data, "")
}

// LoadSeasonFromMemory switches to season and builds its list from the
// library alone.
func (db *SeasonDatabase) LoadSeasonFromMemory(ctx context.Context, season anime.Season) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.current = season
	db.items = nil
	_, err := db.review(ctx, db.policy(db.hideNSFW))
	return err
}

func (db *SeasonDatabase) requestDownload(logger *slog.Logger, fileName string) {
	logging.WarnWithContext(logger, "season file not found", "season_missing",
		logging.String("file", fileName),
		logging.String(logging.FieldErrorHint, "wait for the download or check seasons.remote_location"),
		logging.String(logging.FieldImpact, "season list not loaded"),
	)
	if db.remoteLocation == "" {
		db.notifier.ReportStatus("Season data is not available and downloading is disabled.")
		return
	}
	url := db.remoteLocation + fileName
	db.dispatcher.Enqueue(url)
	logger.Info("season download requested",
		logging.String(logging.FieldEventType, "download_requested"),
		logging.String("url", url),
	)
	db.notifier.ReportStatus("Downloading anime season data...")
}

func (db *SeasonDatabase) load(ctx context.Context, logger *slog.Logger, data []byte, origin string) error {
	doc, err := seasondoc.Parse(data)
	if err != nil {
		parseErr := &ParseError{Path: origin, Err: err}
		db.notifier.ReportError("Could not read anime season file.", parseErr.Error())
		logging.ErrorWithContext(logger, "season file unreadable", "season_parse_failed",
			logging.String("file", origin),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file to download it again"),
		)
		return parseErr
	}

	db.current = doc.Season()
	modified := doc.ModifiedAt()
	logger = logger.With(logging.Season(db.current))

	items := make([]anime.ID, 0, len(doc.Anime))
	var rejected, failed int
	for _, raw := range doc.Anime {
		entry := NewEntry(raw, modified, db.services)
		id, err := db.processEntry(ctx, entry, modified)
		switch {
		case errors.Is(err, ErrUnresolvable):
			rejected++
			logger.Debug("no id for active service", logging.String("title", entry.Title))
			continue
		case err != nil:
			failed++
			logging.WarnWithContext(logger, "season entry skipped", "season_entry_failed",
				logging.String("title", entry.Title),
				logging.Error(err),
				logging.String(logging.FieldImpact, "entry missing from the season list"),
			)
			continue
		}
		if !slices.Contains(items, id) {
			items = append(items, id)
		}
	}
	db.items = items

	logger.Info("season loaded",
		logging.String(logging.FieldEventType, "season_loaded"),
		logging.Int("count", len(items)),
		logging.Int("rejected", rejected),
		logging.Int("failed", failed),
	)

	if len(items) == 0 {
		return nil
	}
	if err := db.library.Save(ctx); err != nil {
		logging.ErrorWithContext(logger, "library save failed", "library_save_failed", logging.Error(err))
		return err
	}
	return nil
}

func (db *SeasonDatabase) processEntry(ctx context.Context, entry Entry, modified time.Time) (anime.ID, error) {
	matchedID, ok, err := db.Resolve(ctx, entry.IDs)
	if err != nil {
		return 0, err
	}
	var matched *anime.Item
	if ok {
		if matched, err = db.library.FindByID(ctx, matchedID); err != nil {
			return 0, err
		}
	}
	return db.Reconcile(ctx, matched, entry, modified)
}
