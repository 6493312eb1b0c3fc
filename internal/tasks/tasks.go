package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmap/internal/genres"
	"github.com/desertthunder/ytmap/internal/graph"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/shared"
)

// BuildResult contains the graph and a summary of how its genres were found.
type BuildResult struct {
	Graph    *models.Graph
	Songs    int
	Enriched *EnrichResult // nil when no enricher is configured
}

// GraphBuilder builds artist graphs, resolving genres from the genre map, the genre store, and
// finally the enricher's remote lookup.
type GraphBuilder struct {
	genreMap genres.GenreMap
	store    GenreStore
	enricher *GenreEnricher
	logger   *log.Logger
}

// NewGraphBuilder creates a builder. store and enricher may be nil.
func NewGraphBuilder(genreMap genres.GenreMap, store GenreStore, enricher *GenreEnricher, logger *log.Logger) *GraphBuilder {
	if logger == nil {
		logger = log.Default()
	}
	return &GraphBuilder{genreMap: genreMap, store: store, enricher: enricher, logger: logger}
}

// resolver chains the local genre sources. The store is skipped when nil.
func (b *GraphBuilder) resolver() graph.GenreResolver {
	var store graph.GenreResolver
	if b.store != nil {
		store = b.store
	}
	return graph.Chain(graph.MapResolver(b.genreMap), store)
}

// FromSongs builds the graph for uploaded songs.
func (b *GraphBuilder) FromSongs(ctx context.Context, songs []models.Song, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: nothing to build", shared.ErrNoSongs)
	}

	sendProgress(progress, buildGraphUpdate(len(songs)))
	g := graph.BuildFromSongs(ctx, songs, b.resolver())

	return b.finish(ctx, g, len(songs), progress)
}

// FromSpotify builds the graph for songs read from a Spotify library.
func (b *GraphBuilder) FromSpotify(ctx context.Context, songs []models.Song, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: nothing to build", shared.ErrNoSongs)
	}

	sendProgress(progress, buildGraphUpdate(len(songs)))
	g := graph.BuildFromSpotify(songs)

	r := b.resolver()
	resolved := 0
	for _, n := range g.Nodes {
		if genre, ok := r.ResolveGenre(ctx, n.Name); ok {
			n.Genre = genre
			resolved++
		}
	}
	sendProgress(progress, resolvedGenresUpdate(resolved, len(g.Nodes)))

	return b.finish(ctx, g, len(songs), progress)
}

// finish enriches nodes still missing a genre and marks the rest [models.GenreOther].
func (b *GraphBuilder) finish(ctx context.Context, g *models.Graph, songs int, progress chan<- ProgressUpdate) (*BuildResult, error) {
	result := &BuildResult{Graph: g, Songs: songs}

	if b.enricher != nil {
		enriched, err := b.enricher.Enrich(ctx, g.Nodes, progress)
		result.Enriched = enriched
		if err != nil {
			return nil, fmt.Errorf("genre enrichment interrupted: %w", err)
		}
		b.logger.Debug("enriched genres",
			"candidates", enriched.Candidates, "resolved", enriched.Resolved,
			"cached", enriched.Cached, "missed", enriched.Missed)
	}

	other := 0
	for _, n := range g.Nodes {
		if n.Genre == "" {
			n.Genre = models.GenreOther
		}
		if n.Genre == models.GenreOther {
			other++
		}
	}
	sendProgress(progress, otherGenresUpdate(other, len(g.Nodes)))
	return result, nil
}
