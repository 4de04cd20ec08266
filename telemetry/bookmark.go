package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat/distuv"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSplitChanged BookmarkType = "split_changed"
	BookmarkColorDrift   BookmarkType = "color_drift"
	BookmarkChurnSpike   BookmarkType = "churn_spike"
)

// driftAlpha is the significance below which a window's colour mix is flagged.
const driftAlpha = 0.001

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int32        `csv:"frame"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows in the display's run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkSplitChanged(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkChurnSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := checkColorDrift(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) previous() WindowStats {
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx]
}

func (bd *BookmarkDetector) checkSplitChanged(stats WindowStats) *Bookmark {
	prev := bd.previous()
	if prev.TargetFull == stats.TargetFull && prev.TargetPartial == stats.TargetPartial {
		return nil
	}
	return &Bookmark{
		Type:  BookmarkSplitChanged,
		Frame: stats.WindowEndFrame,
		Description: fmt.Sprintf("Split moved from %.3f/%.3f to %.3f/%.3f",
			prev.TargetFull, prev.TargetPartial, stats.TargetFull, stats.TargetPartial),
	}
}

func (bd *BookmarkDetector) checkChurnSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	total := 0
	for _, h := range history {
		total += h.Removed
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Removed) > avg*2.0 && stats.Removed >= 10 {
		return &Bookmark{
			Type:        BookmarkChurnSpike,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("%d removals is %.1fx average (%.1f)", stats.Removed, float64(stats.Removed)/avg, avg),
		}
	}
	return nil
}

// checkColorDrift tests the window's spawn mix against the target split.
func checkColorDrift(stats WindowStats) *Bookmark {
	df := 0
	for _, share := range []float64{stats.TargetFull, stats.TargetPartial, stats.TargetManual} {
		if share > 0 {
			df++
		}
	}
	df-- // categories minus one
	if df < 1 || stats.ChiSquare <= 0 {
		return nil
	}

	p := distuv.ChiSquared{K: float64(df)}.Survival(stats.ChiSquare)
	if p >= driftAlpha {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkColorDrift,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("Spawn mix deviates from split (chi2=%.2f, p=%.2g)", stats.ChiSquare, p),
	}
}
