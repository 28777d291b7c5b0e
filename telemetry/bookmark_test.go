package telemetry

import "testing"

func countType(bookmarks []Bookmark, typ BookmarkType) int {
	n := 0
	for _, bm := range bookmarks {
		if bm.Type == typ {
			n++
		}
	}
	return n
}

func TestBookmarkDetector_BirthBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), FoodCount: 100, OrganismCount: 20, Births: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2500, FoodCount: 100, OrganismCount: 20, Births: 10})
	if countType(bookmarks, BookmarkBirthBoom) != 1 {
		t.Errorf("expected birth_boom bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetector_NoHistoryNoBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bookmarks := bd.Check(WindowStats{FoodCount: 100, OrganismCount: 20, Births: 100})
	if countType(bookmarks, BookmarkBirthBoom) != 0 {
		t.Error("birth_boom fired without history")
	}
}

func TestBookmarkDetector_FeedingSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), FoodCount: 100, OrganismCount: 10, EatsStarted: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2000, FoodCount: 100, OrganismCount: 10, EatsStarted: 30})
	if countType(bookmarks, BookmarkFeedingSurge) != 1 {
		t.Errorf("expected feeding_surge bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetector_FoodCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), FoodCount: 100, OrganismCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2500, FoodCount: 50, OrganismCount: 10})
	if countType(bookmarks, BookmarkFoodCrash) != 1 {
		t.Errorf("expected food_crash bookmark, got %v", bookmarks)
	}

	// The peak resets to the crashed level, so holding steady does not re-fire
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3000, FoodCount: 50, OrganismCount: 10})
	if countType(bookmarks, BookmarkFoodCrash) != 0 {
		t.Error("food_crash fired twice for one crash")
	}
}

func TestBookmarkDetector_OrganismRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 500, FoodCount: 100, OrganismCount: 2})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 1000, FoodCount: 100, OrganismCount: 6})

	if countType(bookmarks, BookmarkOrganismRecovery) != 1 {
		t.Errorf("expected organism_recovery bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetector_ExtinctionOncePerEvent(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		organisms int
		want      int
	}{
		{0, 1},
		{0, 0},
		{5, 0},
		{0, 1},
	}

	for i, tt := range tests {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 500), FoodCount: 100, OrganismCount: tt.organisms})
		if got := countType(bookmarks, BookmarkOrganismExtinction); got != tt.want {
			t.Errorf("window %d (%d organisms): %d extinction bookmarks, want %d", i, tt.organisms, got, tt.want)
		}
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 15; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 500), FoodCount: 200 + i%2, OrganismCount: 30})
		fired += countType(bookmarks, BookmarkStableEcosystem)
	}

	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want exactly 1", fired)
	}
}
