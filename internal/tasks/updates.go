package tasks

import (
	"fmt"

	"github.com/desertthunder/moviweb/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadExisting Phase = iota
	LookupTitle
	ImportTitle
	SkipTitle
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case LoadExisting:
		return "load_existing"
	case LookupTitle:
		return "lookup_title"
	case ImportTitle:
		return "import_title"
	case SkipTitle:
		return "skip_title"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

func loadExistingUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadExisting,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d existing movies", count),
	}
}

func lookupTitleUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupTitle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up: %s...", step, total, title),
	}
}

func importedUpdate(step, total int, movie *models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTitle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, movie.Name()),
		Data:    movie,
	}
}

func skippedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTitle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s (already listed)", step, total, title),
	}
}

func failedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportTitle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func importDoneUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportDone,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Imported %d, skipped %d, missed %d, failed %d", result.Added, result.Skipped, result.Missed, result.Failed),
		Data:    result,
	}
}
