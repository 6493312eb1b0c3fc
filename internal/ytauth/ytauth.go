// package ytauth builds the browser.json header file used to authenticate YouTube Music requests.
package ytauth

import (
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/ytmap/internal/shared"
)

const (
	Origin          = "https://music.youtube.com"
	DefaultAuthUser = "0"
	FilePerm        = os.FileMode(0600)
)

// Headers is the browser.json header map, keyed by lower-case header name.
type Headers map[string]string

// FromHeaders builds browser.json headers from values copied out of DevTools.
//
// The cookie is required; an empty authUser defaults to "0" and authorization is optional.
func FromHeaders(cookie, authorization, authUser string) (Headers, error) {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return nil, fmt.Errorf("%w: cookie is required", shared.ErrMissingArgument)
	}

	authUser = strings.TrimSpace(authUser)
	if authUser == "" {
		authUser = DefaultAuthUser
	}

	h := Headers{
		"accept":          "*/*",
		"accept-language": "en-US,en;q=0.9",
		"content-type":    "application/json",
		"cookie":          cookie,
		"x-goog-authuser": authUser,
		"x-origin":        Origin,
	}
	if authorization = strings.TrimSpace(authorization); authorization != "" {
		h["authorization"] = authorization
	}
	return h, nil
}

// FromCurl builds browser.json headers from a parsed "Copy as cURL" command.
//
// Headers captured from the browser replace the defaults; a cookie must be present.
func FromCurl(c *shared.CurlHeaders) (Headers, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no curl headers", shared.ErrInvalidInput)
	}

	return Normalize(c.ToHeaderMap())
}

// Normalize lower-cases header names and fills the defaults from [FromHeaders]. Non-empty captured
// values replace the defaults; a cookie must be present.
func Normalize(raw map[string]string) (Headers, error) {
	captured := make(map[string]string, len(raw))
	for key, value := range raw {
		captured[strings.ToLower(strings.TrimSpace(key))] = value
	}

	h, err := FromHeaders(captured["cookie"], captured["authorization"], captured["x-goog-authuser"])
	if err != nil {
		return nil, err
	}

	for key, value := range captured {
		switch key {
		case "", "cookie", "authorization", "x-goog-authuser":
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		h[key] = value
	}
	return h, nil
}

// Write saves headers as indented JSON readable only by the owner.
func Write(path string, h Headers) error {
	if h["cookie"] == "" {
		return fmt.Errorf("%w: cookie is required", shared.ErrMissingArgument)
	}
	if err := shared.WriteJSONFile(path, h, FilePerm); err != nil {
		return err
	}
	return os.Chmod(path, FilePerm)
}

// Load reads a browser.json file.
func Load(path string) (Headers, error) {
	var h Headers
	if err := shared.ReadJSONFile(path, &h); err != nil {
		return nil, err
	}
	if h["cookie"] == "" {
		return nil, fmt.Errorf("%w: %s has no cookie", shared.ErrNotAuthenticated, path)
	}
	return h, nil
}

// Exists reports whether a browser.json file exists at path.
func Exists(path string) bool {
	return shared.FileExists(path)
}
