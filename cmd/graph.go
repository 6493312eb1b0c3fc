package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/desertthunder/ytmap/internal/formatter"
	"github.com/desertthunder/ytmap/internal/genres"
	"github.com/desertthunder/ytmap/internal/graph"
	"github.com/desertthunder/ytmap/internal/lastfm"
	"github.com/desertthunder/ytmap/internal/models"
	"github.com/desertthunder/ytmap/internal/repositories"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/takeout"
	"github.com/desertthunder/ytmap/internal/tasks"
	"github.com/desertthunder/ytmap/internal/ui"
	"github.com/urfave/cli/v3"
)

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// lastFMClient builds a Last.fm client from the credentials section.
func (r *Runner) lastFMClient(config *shared.Config) *lastfm.Client {
	return lastfm.NewClient(config.Credentials.LastFM, lastfm.WithLogger(shared.WithLogger(r.logger, "service", "lastfm")))
}

// graphBuilder wires the genre map, the sqlite genre cache, and, when enrich is set and an API key is
// configured, Last.fm lookups. db may be nil.
func (r *Runner) graphBuilder(config *shared.Config, db *sql.DB, lfm *lastfm.Client, enrich bool) (*tasks.GraphBuilder, error) {
	genreMap, err := genres.LoadGenreMap(config.Paths.GenreMap)
	if err != nil {
		return nil, fmt.Errorf("failed to load genre map: %w", err)
	}

	var store tasks.GenreStore
	if db != nil {
		store = repositories.NewGenreCache(db, r.logger)
	}

	var enricher *tasks.GenreEnricher
	if enrich && lfm.Configured() {
		enricher = tasks.NewGenreEnricher(lfm, store, tasks.EnrichOpts{
			RateLimit: config.Credentials.LastFM.RequestsPerSecond,
		}, r.logger)
	} else if enrich {
		r.logger.Warn("LASTFM_API_KEY not set, unknown genres stay Other")
	}

	return tasks.NewGraphBuilder(genreMap, store, enricher, r.logger), nil
}

// runBuild runs build, showing a spinner when interactive and printing progress lines otherwise.
func (r *Runner) runBuild(ctx context.Context, title string, interactive bool, build ui.BuildFunc) (*tasks.BuildResult, error) {
	if interactive {
		return ui.RunProgress(ctx, title, build)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := build(ctx, progress)
	close(progress)
	wg.Wait()
	return result, err
}

func (r *Runner) printBuildResult(result *tasks.BuildResult, path string) {
	g := result.Graph
	r.writePlain("✓ Graph saved to %s\n", path)
	r.writePlain("  Songs: %d\n", result.Songs)
	r.writePlain("  Artists: %d\n", len(g.Nodes))
	r.writePlain("  Connections: %d\n", len(g.Links))
	if e := result.Enriched; e != nil {
		r.writePlain("  Last.fm genres: %d found, %d cached, %d missed\n", e.Resolved, e.Cached, e.Missed)
	}
}

// ImportTakeout reads a Google Takeout export and writes music_data.json.
func (r *Runner) ImportTakeout(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("%w: takeout directory is required", shared.ErrMissingArgument)
	}

	result, err := takeout.NewImporter(r.logger).Import(cmd.Args().First())
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		r.logger.Warn("skipped file", "error", w)
	}

	output := orDefault(cmd.String("output"), config.Paths.MusicData)
	if err := result.Data.Save(output); err != nil {
		return err
	}

	stats := result.Data.Stats()
	r.writePlainHeader("Google Takeout import")
	r.writePlain("Source: %s\n", result.Root)
	r.writePlain("Liked songs: %d\n", stats.LikedSongs)
	r.writePlain("History entries: %d\n", stats.History)
	r.writePlain("Library artists: %d\n", stats.Artists)
	r.writePlainln("✓ Saved to %s", output)
	return nil
}

// AssignGenres classifies the artists of an existing graph and saves it in place.
func (r *Runner) AssignGenres(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	path := orDefault(cmd.String("graph"), config.Paths.GraphData)
	g, err := models.LoadGraph(path)
	if err != nil {
		return err
	}

	result := genres.NewClassifier().Run(g)
	if err := g.Save(path); err != nil {
		return err
	}

	r.writePlainHeader("Genre assignment")
	r.writePlain("Assigned: %d (%d still Other)\n", result.Assigned.Changed, result.Assigned.StillOther)
	for i, s := range result.Inferred {
		r.writePlain("Inference pass %d: %d inferred (%d still Other)\n", i+1, s.Changed, s.StillOther)
	}
	r.writePlain("Electronic fallback: %d\n\n", result.Fallback.Changed)
	r.writePlain("%s\n", formatter.GenreTable(result.Distribution))

	if cmd.Bool("save-map") {
		m := genres.FromGraph(g)
		if err := shared.WriteJSONFile(config.Paths.GenreMap, m, 0644); err != nil {
			return fmt.Errorf("failed to save genre map: %w", err)
		}
		r.writePlain("✓ Genre map with %d artists saved to %s\n", len(m), config.Paths.GenreMap)
	}

	r.writePlain("✓ Graph saved to %s\n", path)
	return nil
}

// BuildGraph builds graph_data.json from the liked songs in music_data.json.
func (r *Runner) BuildGraph(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	music, err := models.LoadMusicData(orDefault(cmd.String("music"), config.Paths.MusicData))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNoMusicData, err)
	}

	db, err := shared.OpenDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	builder, err := r.graphBuilder(config, db, r.lastFMClient(config), cmd.Bool("enrich"))
	if err != nil {
		return err
	}

	songs := music.Songs()
	result, err := r.runBuild(ctx, "Building graph", cmd.Bool("interactive"),
		func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.BuildResult, error) {
			return builder.FromSongs(ctx, songs, progress)
		})
	if err != nil {
		return err
	}

	output := orDefault(cmd.String("output"), config.Paths.GraphData)
	if err := result.Graph.Save(output); err != nil {
		return err
	}
	r.printBuildResult(result, output)
	return nil
}

// RebuildGraph refills the song lists of graph nodes from music_data.json.
func (r *Runner) RebuildGraph(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	music, err := models.LoadMusicData(orDefault(cmd.String("music"), config.Paths.MusicData))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNoMusicData, err)
	}

	path := orDefault(cmd.String("graph"), config.Paths.GraphData)
	g, err := models.LoadGraph(path)
	if err != nil {
		return err
	}

	result := graph.Rebuild(g, music)
	if err := g.Save(path); err != nil {
		return err
	}

	r.writePlain("✓ Updated song lists for %d artists\n", result.Updated)
	if len(result.Mismatches) > 0 {
		r.writePlainln("Song count mismatches:")
		for _, m := range result.Mismatches {
			r.writePlain("  %s: count=%d, songs=%d\n", m.Name, m.Count, m.Actual)
		}
	}
	return nil
}

// ExportGraph writes the graph's artists in the requested format.
func (r *Runner) ExportGraph(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	g, err := models.LoadGraph(orDefault(cmd.String("graph"), config.Paths.GraphData))
	if err != nil {
		return err
	}
	if len(g.Nodes) == 0 {
		return fmt.Errorf("%w: graph has no artists to export", shared.ErrInvalidInput)
	}

	path, err := formatter.WriteExport(g, format, cmd.String("output"))
	if err != nil {
		return err
	}

	if cmd.Bool("genres") {
		r.writePlain("%s\n", formatter.GenreTable(genres.Distribution(g)))
	}
	r.writePlain("✓ Exported %d artists to %s\n", len(g.Nodes), path)
	return nil
}
