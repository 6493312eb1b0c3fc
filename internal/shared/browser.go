package shared

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// BrowserCommand returns the command line that opens rawURL in the default browser on goos.
//
// Only http and https URLs are accepted, so a crafted redirect cannot launch a local file.
func BrowserCommand(goos, rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not a web URL: %q", ErrInvalidInput, rawURL)
	}

	switch goos {
	case "darwin":
		return []string{"open", rawURL}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open", rawURL}, nil
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens rawURL in the default system browser. The opener is reaped in the background
// and killed if ctx ends first.
func OpenBrowser(ctx context.Context, rawURL string) error {
	args, err := BrowserCommand(getRuntime(), rawURL)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}
