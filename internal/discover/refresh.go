package discover

import (
	"context"
	"fmt"
)

// NeedsRefresh reports whether more than the refresh threshold of list
// members lack a known start date or a synopsis. It stops counting as soon
// as the threshold is crossed.
func (db *SeasonDatabase) NeedsRefresh(ctx context.Context) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	count := 0
	for _, id := range db.items {
		item, err := db.library.FindByID(ctx, id)
		if err != nil {
			return false, fmt.Errorf("refresh check %d: %w", id, err)
		}
		if item == nil {
			continue
		}
		if !item.DateStart.IsValid() || !item.HasSynopsis() {
			count++
		}
		if count > db.threshold {
			return true, nil
		}
	}
	return false, nil
}
