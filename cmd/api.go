package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/ytmap/internal/services"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/urfave/cli/v3"
)

// apiClient targets --url, or the port the launcher serves the Python backend on.
func (r *Runner) apiClient(config *shared.Config, cmd *cli.Command) *services.APIService {
	base := cmd.String("url")
	if base == "" && config.Launcher.ServerPort > 0 {
		base = fmt.Sprintf("http://localhost:%d", config.Launcher.ServerPort)
	}
	return services.NewAPIService(base, r.httpClient)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	return r.writePlain("%s\n", resp.Body)
}

// APIStatus reports whether a running backend has imported data or browser authentication.
func (r *Runner) APIStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	api := r.apiClient(config, cmd)
	status, err := api.Status(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Backend: %s\n", api.BaseURL())
	r.writePlain("Mode: %s\n", status.Mode)
	r.writePlain("Authenticated: %t\n", status.Authenticated)
	r.writePlain("%s\n", status.Message)
	return nil
}

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	r.logger.Debug("GET request", "path", path)

	resp, err := r.apiClient(config, cmd).Get(ctx, path)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, !cmd.Bool("compact"))
}

// APIPost makes a direct POST request with a JSON body to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cmd.StringArg("path")
	data := cmd.String("data")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}
	r.logger.Debug("POST request", "path", path)

	resp, err := r.apiClient(config, cmd).Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}
	return r.writeResponse(resp, true)
}
