package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// reservedSlugs cannot be claimed as tenant or page slugs because they
// collide with routes or subdomains the platform itself uses.
var reservedSlugs = map[string]struct{}{
	"www":       {},
	"api":       {},
	"admin":     {},
	"app":       {},
	"mail":      {},
	"media":     {},
	"static":    {},
	"assets":    {},
	"health":    {},
	"login":     {},
	"signup":    {},
	"dashboard": {},
	"unfolde":   {},
}

// Slugify turns arbitrary text into a URL-safe slug.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsReservedSlug reports whether a slug collides with platform routes.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}

// ValidSlug reports whether a slug is non-empty, URL-safe and not reserved.
func ValidSlug(slug string) bool {
	if slug == "" || len(slug) > 64 {
		return false
	}
	if Slugify(slug) != slug {
		return false
	}
	return !IsReservedSlug(slug)
}
