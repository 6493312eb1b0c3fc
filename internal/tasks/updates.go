package tasks

import (
	"fmt"
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
	BuildGraph Phase = iota
	ResolveGenres
	EnrichGenres
	FinishGraph
)

func (p Phase) String() string {
	switch p {
	case BuildGraph:
		return "build_graph"
	case ResolveGenres:
		return "resolve_genres"
	case EnrichGenres:
		return "enrich_genres"
	case FinishGraph:
		return "finish_graph"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func buildGraphUpdate(songs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildGraph,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Building graph from %d songs...", songs),
	}
}

func resolvedGenresUpdate(resolved, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveGenres,
		Step:    resolved,
		Total:   total,
		Message: fmt.Sprintf("Resolved %d/%d genres from the genre map", resolved, total),
	}
}

func enrichStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichGenres,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Looking up %d artists on Last.fm...", total),
	}
}

func enrichArtistUpdate(step, total int, artist, genre string) ProgressUpdate {
	if genre == "" {
		return ProgressUpdate{
			Phase:   EnrichGenres,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s", step, total, artist),
		}
	}
	return ProgressUpdate{
		Phase:   EnrichGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s: %s", step, total, artist, genre),
		Data:    genre,
	}
}

func otherGenresUpdate(other, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FinishGraph,
		Step:    total - other,
		Total:   total,
		Message: fmt.Sprintf("%d of %d artists have no known genre", other, total),
	}
}
