package discover

import (
	"context"
	"fmt"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/logging"
)

// Policy is the filter a season list is reviewed against.
type Policy struct {
	// Start and End delimit the half-open interval [Start, End).
	Start         anime.Date
	End           anime.Date
	ExcludeMature bool
}

// PolicyFor returns the policy covering season.
func PolicyFor(season anime.Season, excludeMature bool) Policy {
	start, end := season.Interval()
	return Policy{Start: start, End: end, ExcludeMature: excludeMature}
}

// Within reports whether d is a valid date inside the interval.
func (p Policy) Within(d anime.Date) bool {
	return d.IsValid() && !d.Before(p.Start) && d.Before(p.End)
}

func (p Policy) excluded(item *anime.Item) bool {
	return p.ExcludeMature && item.IsMature()
}

// ReviewResult lists the identifiers a review removed and added.
type ReviewResult struct {
	Removed []anime.ID
	Added   []anime.ID
}

// Policy returns the policy for the current season.
func (db *SeasonDatabase) Policy(excludeMature bool) Policy {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.policy(excludeMature)
}

func (db *SeasonDatabase) policy(excludeMature bool) Policy {
	return PolicyFor(db.current, excludeMature)
}

// Review prunes list members that fail policy and adds library records that
// newly satisfy it.
//
// Dangling identifiers and excluded records are always pruned, but a member
// is pruned by date only when its start date is known and outside the
// interval. Discovery requires a known start date inside the interval and
// follows library insertion order.
func (db *SeasonDatabase) Review(ctx context.Context, policy Policy) (ReviewResult, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.review(ctx, policy)
}

func (db *SeasonDatabase) review(ctx context.Context, policy Policy) (ReviewResult, error) {
	logger := logging.WithContext(ctx, db.logger).With(logging.Season(db.current))
	var result ReviewResult

	kept := make([]anime.ID, 0, len(db.items))
	member := make(map[anime.ID]bool, len(db.items))
	for _, id := range db.items {
		if member[id] {
			continue
		}
		item, err := db.library.FindByID(ctx, id)
		if err != nil {
			return ReviewResult{}, fmt.Errorf("review record %d: %w", id, err)
		}
		if item == nil {
			result.Removed = append(result.Removed, id)
			continue
		}
		if policy.excluded(item) || (item.DateStart.IsValid() && !policy.Within(item.DateStart)) {
			result.Removed = append(result.Removed, id)
			logger.Debug("removed item",
				logging.AnimeID(int64(id)),
				logging.String("title", item.Title),
				logging.String("date_start", item.DateStart.String()),
			)
			continue
		}
		member[id] = true
		kept = append(kept, id)
	}

	all, err := db.library.All(ctx)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("review library: %w", err)
	}
	for _, item := range all {
		if item == nil || member[item.ID] {
			continue
		}
		if policy.excluded(item) || !policy.Within(item.DateStart) {
			continue
		}
		member[item.ID] = true
		kept = append(kept, item.ID)
		result.Added = append(result.Added, item.ID)
		logger.Debug("added item",
			logging.AnimeID(int64(item.ID)),
			logging.String("title", item.Title),
			logging.String("date_start", item.DateStart.String()),
		)
	}

	db.items = kept
	if len(result.Removed) > 0 || len(result.Added) > 0 {
		logger.Info("season reviewed",
			logging.String(logging.FieldEventType, "season_reviewed"),
			logging.Int("removed", len(result.Removed)),
			logging.Int("added", len(result.Added)),
			logging.Int("count", len(kept)),
		)
	}
	return result, nil
}
