package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytmap/internal/server"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultMaxTracks = 1000

// SpotifyLibrary authorizes with Spotify in the browser, reads the saved tracks, and builds a graph from them.
//
// Starts a local HTTP server on the redirect URI, opens the browser for user authorization,
// and exchanges the auth code for a token that is used once and not stored.
func (r *Runner) SpotifyLibrary(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	spotify, err := r.spotifyService(config)
	if err != nil {
		return err
	}
	if spotify == nil {
		return fmt.Errorf("%w: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET", shared.ErrNotConfigured)
	}

	maxTracks := cmd.Int("max-tracks")
	if maxTracks <= 0 {
		maxTracks = config.Credentials.Spotify.MaxTracks
	}
	if maxTracks <= 0 {
		maxTracks = defaultMaxTracks
	}

	redirect := orDefault(config.Credentials.Spotify.RedirectURI, shared.DefaultSpotifyRedirectURI)
	r.writePlain("Opening browser for Spotify authorization...\n")
	token, err := server.TerminalLogin(ctx, spotify, redirect, func(authURL string) error {
		if err := r.openBrowser(ctx, authURL); err != nil {
			r.writePlain("Open this URL to continue:\n%s\n", authURL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("spotify authorization failed: %w", err)
	}
	r.writePlain("✓ Authorized with Spotify\n")

	songs, _, err := spotify.LibrarySongs(ctx, token, maxTracks)
	switch {
	case err != nil && len(songs) == 0:
		return fmt.Errorf("error fetching Spotify library: %w", err)
	case err != nil:
		r.logger.Warn("library read stopped early", "songs", len(songs), "error", err)
	case len(songs) == 0:
		return fmt.Errorf("%w: no tracks found in your Spotify library", shared.ErrNoSongs)
	}
	r.logger.Info("read Spotify library", "songs", len(songs))

	db, err := shared.OpenDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	builder, err := r.graphBuilder(config, db, r.lastFMClient(config), true)
	if err != nil {
		return err
	}

	result, err := r.runBuild(ctx, "Building graph", false,
		func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.BuildResult, error) {
			return builder.FromSpotify(ctx, songs, progress)
		})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return shared.ErrCancelled
		}
		return err
	}

	output := orDefault(cmd.String("output"), config.Paths.GraphData)
	if err := result.Graph.Save(output); err != nil {
		return err
	}
	r.printBuildResult(result, output)
	return nil
}
