package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBirthBoom          BookmarkType = "birth_boom"
	BookmarkFeedingSurge       BookmarkType = "feeding_surge"
	BookmarkOrganismRecovery   BookmarkType = "organism_recovery"
	BookmarkOrganismExtinction BookmarkType = "organism_extinction"
	BookmarkFoodCrash          BookmarkType = "food_crash"
	BookmarkStableEcosystem    BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentOrgMin       int // minimum organism count in recent history
	recentFoodPeak     int // peak food count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	extinct            bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:      make([]WindowStats, historySize),
		historySize:  historySize,
		recentOrgMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBirthBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkFeedingSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkOrganismRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkFoodCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if bd.recentOrgMin < 0 || stats.OrganismCount < bd.recentOrgMin {
		bd.recentOrgMin = stats.OrganismCount
	}
	if stats.FoodCount > bd.recentFoodPeak {
		bd.recentFoodPeak = stats.FoodCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		ordered := make([]WindowStats, 0, bd.historySize)
		ordered = append(ordered, bd.history[bd.historyIdx:]...)
		return append(ordered, bd.history[:bd.historyIdx]...)
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkBirthBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Births) > avg*2.0 && stats.Births >= 5 {
		return &Bookmark{
			Type:        BookmarkBirthBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFeedingSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.OrganismCount == 0 {
		return nil
	}

	// Meals per organism, averaged over history
	var totalRate float64
	var n int
	for _, h := range history {
		if h.OrganismCount > 0 {
			totalRate += float64(h.EatsStarted) / float64(h.OrganismCount)
			n++
		}
	}
	if n == 0 || totalRate == 0 {
		return nil
	}
	avgRate := totalRate / float64(n)
	rate := float64(stats.EatsStarted) / float64(stats.OrganismCount)

	if rate > avgRate*2.0 && stats.EatsStarted >= 10 {
		return &Bookmark{
			Type:        BookmarkFeedingSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Meals per organism %.2f is %.1fx average (%.2f)", rate, rate/avgRate, avgRate),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkOrganismRecovery(stats WindowStats) *Bookmark {
	if bd.recentOrgMin <= 0 || bd.recentOrgMin > 3 {
		return nil
	}

	threshold := bd.recentOrgMin * 3
	if stats.OrganismCount >= threshold && stats.OrganismCount >= 6 {
		oldMin := bd.recentOrgMin
		bd.recentOrgMin = stats.OrganismCount

		return &Bookmark{
			Type:        BookmarkOrganismRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Organism population recovered from %d to %d", oldMin, stats.OrganismCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.OrganismCount > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkOrganismExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Organisms extinct at %.0fs", stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkFoodCrash(stats WindowStats) *Bookmark {
	if bd.recentFoodPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.FoodCount)/float64(bd.recentFoodPeak)
	if dropPercent > 0.30 && stats.FoodCount < bd.recentFoodPeak-10 {
		oldPeak := bd.recentFoodPeak
		bd.recentFoodPeak = stats.FoodCount

		return &Bookmark{
			Type:        BookmarkFoodCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Food crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.FoodCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.FoodCount < 10 || stats.OrganismCount < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var foodSum, orgSum float64
	for _, h := range recent {
		foodSum += float64(h.FoodCount)
		orgSum += float64(h.OrganismCount)
	}
	foodMean := foodSum / 4
	orgMean := orgSum / 4

	var foodVar, orgVar float64
	for _, h := range recent {
		fd := float64(h.FoodCount) - foodMean
		od := float64(h.OrganismCount) - orgMean
		foodVar += fd * fd
		orgVar += od * od
	}
	foodVar /= 4
	orgVar /= 4

	// Squared coefficient of variation below 0.04 means CV < 20%
	var foodCV2, orgCV2 float64
	if foodMean > 0 {
		foodCV2 = foodVar / (foodMean * foodMean)
	}
	if orgMean > 0 {
		orgCV2 = orgVar / (orgMean * orgMean)
	}

	if foodCV2 < 0.04 && orgCV2 < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d food, %d organisms over 5+ windows", stats.FoodCount, stats.OrganismCount),
		}
	}
	return nil
}
