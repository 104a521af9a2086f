package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DirectSource is the referrer bucket for visits with no usable referrer.
const DirectSource = "direct"

const defaultSalt = "unfolde-analytics-v1"

var salt = defaultSalt

// SetSalt overrides the server-side hashing salt. Called once at boot.
func SetSalt(s string) {
	if s != "" {
		salt = s
	}
}

var botPattern = regexp.MustCompile(`(?i)bot|crawler|spider|headless|scraper|wget|curl`)

// IsBot reports whether a User-Agent looks like automated traffic.
func IsBot(userAgent string) bool {
	return botPattern.MatchString(userAgent)
}

// VisitorHash derives a daily-rotating visitor identifier from IP and
// User-Agent. Not reversible, rotates at UTC midnight, needs no cookies.
func VisitorHash(ip, userAgent string) string {
	return visitorHashAt(ip, userAgent, time.Now().UTC())
}

func visitorHashAt(ip, userAgent string, at time.Time) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + DateKey(at) + "|" + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// CleanReferrer reduces a referrer URL to a readable source name.
// Known platforms map to canonical short names, anything else keeps its bare
// hostname, and absent or unparseable referrers become "direct".
func CleanReferrer(referrer string) string {
	if referrer == "" {
		return DirectSource
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return DirectSource
	}
	hostname := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case strings.Contains(hostname, "google"):
		return "google"
	case strings.Contains(hostname, "instagram"):
		return "instagram"
	case strings.Contains(hostname, "facebook"), strings.Contains(hostname, "fb.com"):
		return "facebook"
	case strings.Contains(hostname, "twitter"), strings.Contains(hostname, "x.com"):
		return "twitter"
	case strings.Contains(hostname, "linkedin"):
		return "linkedin"
	case strings.Contains(hostname, "pinterest"):
		return "pinterest"
	case strings.Contains(hostname, "behance"):
		return "behance"
	}
	return hostname
}

// Query periods understood by the summary endpoint.
var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// ValidPeriod reports whether p is a known query period.
func ValidPeriod(p string) bool {
	_, ok := periodDays[p]
	return ok
}

// PeriodStart converts a period string to its UTC day-boundary cutoff.
// Unknown periods fall back to 30 days.
func PeriodStart(period string) time.Time {
	days, ok := periodDays[period]
	if !ok {
		days = 30
	}
	return time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
}

// DateKey formats a timestamp as the YYYY-MM-DD rollup key, always in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
