package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/desertthunder/ytmap/internal/ui"
	"github.com/desertthunder/ytmap/internal/ytauth"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("init-config") {
		path := r.configPath
		if path == "" {
			path = "config.toml"
		}
		if shared.FileExists(path) {
			r.logger.Info("config file already exists", "path", path)
		} else if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", path)
		}
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	path, err := config.DatabasePath()
	if err != nil {
		return err
	}
	r.logger.Info("initializing database", "path", path)

	db, err := shared.OpenDatabase(config)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	return nil
}

// SetupAuth writes browser.json from a cURL command, individual header values, or the interactive wizard.
func (r *Runner) SetupAuth(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = config.Paths.AuthFile
	}

	var headers ytauth.Headers
	if cmd.Bool("interactive") {
		if headers, err = ui.RunAuthWizard(ctx, outputPath); err != nil {
			return err
		}
	} else {
		if headers, err = r.headersFromFlags(cmd); err != nil {
			return err
		}
		if err := ytauth.Write(outputPath, headers); err != nil {
			return err
		}
	}

	r.logger.Info("browser.json saved", "path", outputPath, "headers", len(headers))

	r.writePlain("✓ YouTube Music authentication configured successfully\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'ytmap start' to launch the mapper backend\n")
	r.writePlain("2. Or run 'ytmap serve' for the native API server\n")
	return nil
}

// headersFromFlags builds headers from exactly one of --curl, --curl-file or --cookie.
func (r *Runner) headersFromFlags(cmd *cli.Command) (ytauth.Headers, error) {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	cookie := cmd.String("cookie")

	sources := 0
	for _, s := range []string{curlCmd, curlFile, cookie} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, fmt.Errorf("%w: one of --curl, --curl-file, --cookie or --interactive must be provided", shared.ErrMissingArgument)
	case sources > 1:
		return nil, fmt.Errorf("%w: --curl, --curl-file and --cookie are mutually exclusive", shared.ErrInvalidArgument)
	}

	if cookie != "" {
		return ytauth.FromHeaders(cookie, cmd.String("authorization"), cmd.String("auth-user"))
	}

	var curlHeaders *shared.CurlHeaders
	var err error
	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	return ytauth.FromCurl(curlHeaders)
}
