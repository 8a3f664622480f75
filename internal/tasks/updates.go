package tasks

import (
	"fmt"

	"github.com/desertthunder/songle/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase enumerates the stages of a warm run.
type Phase int

const (
	Resolve Phase = iota
	FetchSource
	Cached
)

func (p Phase) String() string {
	switch p {
	case Resolve:
		return "resolve"
	case FetchSource:
		return "fetch_source"
	case Cached:
		return "cached"
	default:
		return ""
	}
}

func resolvingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d source(s)...", total),
	}
}

func fetchingUpdate(step, total int, ref models.CatalogReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, ref),
	}
}

func cachedUpdate(step, total int, res WarmItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cached,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, res.Input, res.Tracks),
		Data:    res,
	}
}

func failedUpdate(step, total int, res WarmItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cached,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Input, res.Error),
		Data:    res,
	}
}
