package stats

import (
	"sort"

	"github.com/verte-zerg/cprtrain/internal/model"
)

// TopSessions returns the n highest-scoring sessions, newest first on ties.
func TopSessions(records []model.SessionRecord, n int) []model.SessionRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	items := make([]model.SessionRecord, len(records))
	copy(items, records)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score == items[j].Score {
			return items[i].CompletedAt.After(items[j].CompletedAt)
		}
		return items[i].Score > items[j].Score
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
