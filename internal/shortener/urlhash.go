package shortener

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the longest URL accepted for shortening.
const MaxURLLength = 2048

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: url must not be blank", ErrInvalidArgument)
	}

	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("%w: url exceeds %d characters", ErrInvalidArgument, MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: malformed url: %w", ErrInvalidArgument, err)
	}

	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", ErrInvalidArgument)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: url must have a host", ErrInvalidArgument)
	}

	return nil
}

// NormalizeURL normalizes a URL so equivalent spellings hash identically.
// - Lowercases the scheme and host
// - Removes default ports (80 for http, 443 for https)
// - Removes trailing slashes from path (unless path is just "/")
// - Removes the fragment
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed url: %w", ErrInvalidArgument, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	} else if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

// HashURL computes the hex-encoded SHA-256 of a normalized URL.
func HashURL(normalizedURL string) URLHash {
	h := sha256.Sum256([]byte(normalizedURL))

	return URLHash(hex.EncodeToString(h[:]))
}
