// Package resolver turns free-form player input into a validated [models.CatalogReference].
//
// Accepted forms, for an expected kind K:
//   - share URL: https://open.spotify.com/K/<id>?si=... (also play.spotify.com, intl-xx/ and embed/ prefixes)
//   - URI: spotify:K:<id>
//   - bare canonical ID: 22 alphanumeric characters
//   - artist display name (K = artist only): 1 to 100 characters
//
// Resolution is pure: no I/O and no state.
package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

const (
	catalogHost         = "open.spotify.com"
	uriScheme           = "spotify"
	maxArtistNameLength = 100
)

var (
	canonicalID  = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)
	catalogHosts = map[string]bool{catalogHost: true, "play.spotify.com": true}
)

// InvalidInputError is returned when input cannot be resolved to the expected kind.
//
// It matches [shared.ErrInvalidInputFormat] with errors.Is and carries the kind so callers can show a usage hint.
type InvalidInputError struct {
	Expected models.Kind
	Input    string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %q is not a valid %s link or ID", shared.ErrInvalidInputFormat, e.Input, e.Expected)
}

func (e *InvalidInputError) Unwrap() error {
	return shared.ErrInvalidInputFormat
}

// IsCanonicalID reports whether s has the catalog's 22 character alphanumeric ID shape.
func IsCanonicalID(s string) bool {
	return canonicalID.MatchString(s)
}

// URLFor returns the share URL for a canonical ID of the given kind.
func URLFor(kind models.Kind, id string) string {
	return fmt.Sprintf("https://%s/%s/%s", catalogHost, kind, id)
}

// URIFor returns the spotify: URI for a canonical ID of the given kind.
func URIFor(kind models.Kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", uriScheme, kind, id)
}

// Resolve parses raw into a reference of the expected kind.
func Resolve(raw string, expected models.Kind) (models.CatalogReference, error) {
	input := strings.TrimSpace(raw)
	fail := func() (models.CatalogReference, error) {
		return models.CatalogReference{}, &InvalidInputError{Expected: expected, Input: input}
	}

	if input == "" {
		return fail()
	}

	if id, ok, isLink := extractID(input, expected); isLink {
		if !ok {
			return fail()
		}
		return models.CatalogReference{Kind: expected, Value: id}, nil
	}

	if IsCanonicalID(input) {
		return models.CatalogReference{Kind: expected, Value: input}, nil
	}

	if expected == models.KindArtist && utf8.RuneCountInString(input) <= maxArtistNameLength {
		return models.CatalogReference{Kind: expected, Value: input, ByName: true}, nil
	}

	return fail()
}

// extractID pulls the ID out of a share URL or URI.
//
// isLink reports whether input looked like a catalog link at all; ok reports whether it was a well formed link of kind with a canonical ID.
func extractID(input string, kind models.Kind) (id string, ok, isLink bool) {
	if strings.HasPrefix(strings.ToLower(input), uriScheme+":") {
		parts := strings.Split(input, ":")
		if len(parts) != 3 || !strings.EqualFold(parts[1], kind.String()) {
			return "", false, true
		}
		return parts[2], IsCanonicalID(parts[2]), true
	}

	candidate := input
	if !strings.Contains(candidate, "://") && hasCatalogHostPrefix(candidate) {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false, false
	}
	if !catalogHosts[strings.ToLower(u.Host)] {
		return "", false, true
	}

	parts := pathParts(u.Path)
	if len(parts) > 0 && parts[0] == "embed" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.HasPrefix(parts[0], "intl-") {
		parts = parts[1:]
	}
	if len(parts) < 2 || parts[0] != kind.String() {
		return "", false, true
	}

	return parts[1], IsCanonicalID(parts[1]), true
}

func hasCatalogHostPrefix(s string) bool {
	lower := strings.ToLower(s)
	for host := range catalogHosts {
		if strings.HasPrefix(lower, host+"/") {
			return true
		}
	}
	return false
}

func pathParts(path string) []string {
	raw := strings.Split(path, "/")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
