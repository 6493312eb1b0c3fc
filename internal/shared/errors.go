package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrNotConfigured      = fmt.Errorf("service not configured")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrInvalidState     = fmt.Errorf("invalid state parameter")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrArtistNotFound     = fmt.Errorf("artist not found")

	// Data errors
	ErrNoMusicData     = fmt.Errorf("no music data available")
	ErrNoSongs         = fmt.Errorf("no songs found")
	ErrUnsupportedFile = fmt.Errorf("unsupported file type")
	ErrFileTooLarge    = fmt.Errorf("file too large")
	ErrTakeoutNotFound = fmt.Errorf("could not find YouTube Music data")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
	ErrCancelled       = fmt.Errorf("cancelled by user")
)
