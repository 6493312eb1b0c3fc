package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmap/internal/launcher"
	"github.com/desertthunder/ytmap/internal/services"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	configPath   string
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	getenv       func(string) string
	spotify      services.OAuthService
	launcherOpts []launcher.Option
	openBrowser  func(context.Context, string) error
	logFile      io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Spotify overrides the service built from the config's credentials.
type RunnerOpts struct {
	Config       *shared.Config
	ConfigPath   string
	HTTPClient   *http.Client
	Logger       *log.Logger
	Output       io.Writer
	Getenv       func(string) string
	Spotify      services.OAuthService
	LauncherOpts []launcher.Option
	OpenBrowser  func(context.Context, string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
		getenv:       opts.Getenv,
		spotify:      opts.Spotify,
		launcherOpts: opts.LauncherOpts,
		openBrowser:  opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		startCommand, setupCommand, importCommand, genresCommand, graphCommand, serveCommand, spotifyCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the config named by --config, or the runner's config when the flag is unset.
//
// Environment overrides are applied either way.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if path := cmd.String("log-file"); path != "" {
		logger, closer, err := shared.NewFileLogger(path)
		if err != nil {
			return nil, err
		}
		r.Close()
		r.logger = logger
		r.logFile = closer
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		r.config = config
		r.configPath = path
		r.logger.Debug("loaded config", "path", path)
	}

	r.config.ApplyEnv(r.getenv)
	return r.config, nil
}

// Close releases the --log-file handle, if one was opened.
func (r *Runner) Close() error {
	if r.logFile == nil {
		return nil
	}
	err := r.logFile.Close()
	r.logFile = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

