package model

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProfileURL errors.
var (
	// ErrInvalidProfileURL is returned when the URL is not a canonical profile URL.
	ErrInvalidProfileURL = errors.New("invalid profile URL format")
	// ErrEmptyProfileURL is returned when the URL is empty.
	ErrEmptyProfileURL = errors.New("profile URL cannot be empty")
)

// canonicalProfilePattern matches exactly one canonical profile URL:
// scheme, optional 2-3 character country or www subdomain, the linkedin.com
// host, and a handle of alphanumerics, hyphen, underscore. Nothing may
// follow the handle; trailing paths, queries, and fragments make a URL
// non-canonical.
var canonicalProfilePattern = regexp.MustCompile(
	`^(https?)://(?:([a-z]{2,3})\.)?linkedin\.com/in/([A-Za-z0-9_-]+)$`)

// ProfileURL is an immutable value object representing a canonical LinkedIn
// profile URL. It validates the URL shape and exposes its components.
//
// The country-code subdomain is preserved as part of identity:
// uk.linkedin.com/in/x and www.linkedin.com/in/x are distinct values.
// The same person reached via two locales is therefore not deduplicated.
// This mirrors how the engines present locale-specific profile links and
// avoids guessing at locale equivalence.
type ProfileURL struct {
	url       string // Full canonical URL
	subdomain string // Country-code or www subdomain, empty if none
	handle    string // Profile handle after /in/
}

// ParseProfileURL creates a ProfileURL from an already-canonical URL string.
// Returns an error if the string is empty or deviates from the canonical
// shape in any way. Use normalizer.Canonicalize to reduce a raw search-result
// URL to canonical form first.
func ParseProfileURL(raw string) (ProfileURL, error) {
	if raw == "" {
		return ProfileURL{}, ErrEmptyProfileURL
	}

	m := canonicalProfilePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ProfileURL{}, ErrInvalidProfileURL
	}

	return ProfileURL{
		url:       m[0],
		subdomain: m[2],
		handle:    m[3],
	}, nil
}

// MustParseProfileURL creates a ProfileURL or panics if invalid.
// Use only for known-valid URLs in tests or initialization.
func MustParseProfileURL(raw string) ProfileURL {
	pu, err := ParseProfileURL(raw)
	if err != nil {
		panic(err)
	}
	return pu
}

// String returns the full canonical profile URL.
func (p ProfileURL) String() string {
	return p.url
}

// Handle returns the profile handle, the path segment after /in/.
func (p ProfileURL) Handle() string {
	return p.handle
}

// Subdomain returns the country-code or www subdomain, or empty string
// when the URL uses the bare linkedin.com host.
func (p ProfileURL) Subdomain() string {
	return p.subdomain
}

// IsZero returns true if this is a zero value (empty) ProfileURL.
func (p ProfileURL) IsZero() bool {
	return p.url == ""
}

// Equals returns true if two ProfileURL values identify the same profile
// link. Subdomains participate in equality; see the type comment.
func (p ProfileURL) Equals(other ProfileURL) bool {
	return p.url == other.url
}

// DisplayName derives a human-readable name from the handle slug.
// Hyphen- and underscore-separated words are title-cased; purely numeric
// segments (the disambiguation suffixes LinkedIn appends to common names)
// are dropped. Returns empty string when nothing readable remains.
//
// "jane-doe-1a2b3c" becomes "Jane Doe". The result is a guess, suitable
// only as a fallback title when the result page gave no usable text.
func (p ProfileURL) DisplayName() string {
	titler := cases.Title(language.English)

	parts := strings.FieldsFunc(p.handle, func(r rune) bool {
		return r == '-' || r == '_'
	})

	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if hasDigit(part) {
			continue
		}
		kept = append(kept, titler.String(part))
	}
	return strings.Join(kept, " ")
}

// hasDigit returns true if the string contains an ASCII digit.
func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
