package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmap/internal/graph"
	"github.com/desertthunder/ytmap/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// GenreStore remembers resolved genres between runs.
type GenreStore interface {
	graph.GenreResolver
	Put(artist, genre string) error
}

// EnrichOpts contains configuration for [GenreEnricher].
type EnrichOpts struct {
	NumWorkers int     // Concurrent lookups (default: 4, max: 10)
	RateLimit  float64 // Lookups per second (default: 4)
}

// EnrichResult summarizes an enrichment run.
type EnrichResult struct {
	Candidates int // Nodes without a genre
	Resolved   int // Nodes given a genre by the lookup
	Cached     int // Nodes given a genre by the store
	Missed     int // Nodes left without a genre
}

// GenreEnricher fills in missing node genres with a remote lookup.
type GenreEnricher struct {
	lookup  graph.GenreResolver
	store   GenreStore
	opts    EnrichOpts
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewGenreEnricher creates an enricher around lookup. store may be nil.
func NewGenreEnricher(lookup graph.GenreResolver, store GenreStore, opts EnrichOpts, logger *log.Logger) *GenreEnricher {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}
	if logger == nil {
		logger = log.Default()
	}

	return &GenreEnricher{
		lookup:  lookup,
		store:   store,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:  logger,
	}
}

// missingGenre reports whether n still needs a genre.
func missingGenre(n *models.Node) bool {
	return n.Genre == "" || n.Genre == models.GenreOther
}

// Enrich looks up every node whose genre is empty or [models.GenreOther].
//
// Store hits skip the lookup and the rate limiter. Each worker writes only its own node.
// Cancellation stops outstanding lookups and returns the partial result with the context error.
func (e *GenreEnricher) Enrich(ctx context.Context, nodes []*models.Node, progress chan<- ProgressUpdate) (*EnrichResult, error) {
	var candidates []*models.Node
	for _, n := range nodes {
		if missingGenre(n) {
			candidates = append(candidates, n)
		}
	}

	result := &EnrichResult{Candidates: len(candidates)}
	if len(candidates) == 0 || e.lookup == nil {
		result.Missed = len(candidates)
		return result, nil
	}

	sendProgress(progress, enrichStartUpdate(len(candidates)))

	var (
		mu        sync.Mutex
		completed int
	)
	record := func(n *models.Node, genre string, cached bool) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		switch {
		case genre == "":
			result.Missed++
		case cached:
			result.Cached++
		default:
			result.Resolved++
		}
		sendProgress(progress, enrichArtistUpdate(completed, len(candidates), n.Name, genre))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.NumWorkers)

	for _, n := range candidates {
		g.Go(func() error {
			if e.store != nil {
				if genre, ok := e.store.ResolveGenre(gctx, n.Name); ok && genre != "" {
					n.Genre = genre
					record(n, genre, true)
					return nil
				}
			}

			if err := e.limiter.Wait(gctx); err != nil {
				return err
			}

			genre, ok := e.lookup.ResolveGenre(gctx, n.Name)
			if !ok || genre == "" {
				record(n, "", false)
				return nil
			}

			n.Genre = genre
			if e.store != nil {
				if err := e.store.Put(n.Name, genre); err != nil {
					e.logger.Warn("failed to cache genre", "artist", n.Name, "error", err)
				}
			}
			record(n, genre, false)
			return nil
		})
	}

	err := g.Wait()

	mu.Lock()
	defer mu.Unlock()
	result.Missed = result.Candidates - result.Resolved - result.Cached
	return result, err
}
