package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/cprtrain/internal/model"
)

func TestTopSessions(t *testing.T) {
	base := time.Unix(0, 0)
	records := []model.SessionRecord{
		{ID: 1, Score: 70, CompletedAt: base},
		{ID: 2, Score: 90, CompletedAt: base.Add(time.Minute)},
		{ID: 3, Score: 70, CompletedAt: base.Add(2 * time.Minute)},
		{ID: 4, Score: 50, CompletedAt: base.Add(3 * time.Minute)},
	}
	top := TopSessions(records, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(top))
	}
	if top[0].ID != 2 || top[1].ID != 3 || top[2].ID != 1 {
		t.Fatalf("unexpected order: %v, %v, %v", top[0].ID, top[1].ID, top[2].ID)
	}
	if records[0].ID != 1 {
		t.Fatalf("input was reordered")
	}
	if got := TopSessions(records, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
