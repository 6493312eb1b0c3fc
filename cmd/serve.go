package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/desertthunder/ytmap/internal/repositories"
	"github.com/desertthunder/ytmap/internal/server"
	"github.com/desertthunder/ytmap/internal/services"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/urfave/cli/v3"
)

// spotifyService returns the runner's Spotify service, building one from the credentials when unset.
//
// A nil service with a nil error means no client credentials are configured.
func (r *Runner) spotifyService(config *shared.Config) (services.OAuthService, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}
	if !config.Credentials.Spotify.Configured() {
		return nil, nil
	}

	svc, err := services.NewSpotifyService(config.Credentials.Spotify, services.WithHTTPClient(r.httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return svc, nil
}

// Serve runs the API server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}

	db, err := shared.OpenDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	spotify, err := r.spotifyService(config)
	if err != nil {
		return err
	}
	if spotify == nil {
		r.logger.Info("Spotify credentials not set, Spotify routes report not configured")
	}

	lfm := r.lastFMClient(config)
	builder, err := r.graphBuilder(config, db, lfm, true)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:   config,
		Logger:   shared.WithLogger(r.logger, "component", "server"),
		Builder:  builder,
		LastFM:   lfm,
		Spotify:  spotify,
		Sessions: repositories.NewSessionRepository(db),
		States:   repositories.NewStateRepository(db),
	})
	if err != nil {
		return err
	}

	ready := make(chan string, 1)
	go func() {
		addr, ok := <-ready
		if !ok {
			return
		}
		url := browserURL(addr)
		r.writePlain("YouTube Music Mapper running at %s\n", url)
		if cmd.Bool("open") || config.Server.OpenBrowser {
			if err := r.openBrowser(ctx, url); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	}()

	err = srv.ListenAndServe(ctx, ready)
	close(ready)
	return err
}

// browserURL turns a listen address into a URL a browser can open.
func browserURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "http://" + addr
	}
	return "http://" + net.JoinHostPort(host, port)
}
