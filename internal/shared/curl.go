// Utilities for parsing cURL commands copied from browser DevTools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	headerRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieRegex = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// CurlHeaders represents parsed headers and cookies from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie passed with -b wins over a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlHeaders, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie, headerCookie string

	for _, match := range headerRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := firstGroup(match)

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		headers[key] = value
	}

	if m := cookieRegex.FindStringSubmatch(curlCmd); len(m) > 1 {
		cookie = firstGroup(m)
	}
	if cookie == "" {
		cookie = headerCookie
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return &CurlHeaders{Headers: headers, Cookie: cookie}, nil
}

func firstGroup(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// ToHeaderMap returns the headers with lower-cased names and the cookie under "cookie".
func (c *CurlHeaders) ToHeaderMap() map[string]string {
	out := make(map[string]string, len(c.Headers)+1)
	for key, value := range c.Headers {
		out[strings.ToLower(key)] = value
	}
	if c.Cookie != "" {
		out["cookie"] = c.Cookie
	}
	return out
}
