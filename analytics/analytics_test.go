package analytics

import (
	"testing"
	"time"
)

func TestVisitorHashStableWithinDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	a := visitorHashAt("203.0.113.7", "Mozilla/5.0", day)
	b := visitorHashAt("203.0.113.7", "Mozilla/5.0", later)
	if a != b {
		t.Errorf("same visitor on same day hashed differently: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
}

func TestVisitorHashRotatesDaily(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	a := visitorHashAt("203.0.113.7", "Mozilla/5.0", day1)
	b := visitorHashAt("203.0.113.7", "Mozilla/5.0", day2)
	if a == b {
		t.Error("hash did not rotate across days")
	}
}

func TestVisitorHashDistinguishesVisitors(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if visitorHashAt("203.0.113.7", "Mozilla/5.0", day) == visitorHashAt("203.0.113.8", "Mozilla/5.0", day) {
		t.Error("different IPs produced the same hash")
	}
	if visitorHashAt("203.0.113.7", "Mozilla/5.0", day) == visitorHashAt("203.0.113.7", "curl/8.0", day) {
		t.Error("different user agents produced the same hash")
	}
}

func TestCleanReferrer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "direct"},
		{"https://www.google.com/search?q=x", "google"},
		{"https://l.instagram.com/", "instagram"},
		{"https://m.facebook.com/", "facebook"},
		{"https://fb.com/page", "facebook"},
		{"https://t.co/abc", "t.co"},
		{"https://x.com/user", "twitter"},
		{"https://twitter.com/user", "twitter"},
		{"https://www.linkedin.com/feed", "linkedin"},
		{"https://pinterest.com/pin/1", "pinterest"},
		{"https://www.behance.net/gallery", "behance"},
		{"https://someblog.example.org/post", "someblog.example.org"},
		{"not a url at all", "direct"},
		{"/relative/path", "direct"},
	}
	for _, c := range cases {
		if got := CleanReferrer(c.in); got != c.want {
			t.Errorf("CleanReferrer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsBot(t *testing.T) {
	cases := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (Macintosh) Safari/605.1", false},
		{"Mozilla/5.0 (compatible; Googlebot/2.1)", true},
		{"curl/8.4.0", true},
		{"Wget/1.21", true},
		{"python-scraper/0.1", true},
		{"HeadlessChrome/120.0", true},
		{"SpiderMonkey browser", true},
		{"", false},
	}
	for _, c := range cases {
		if got := IsBot(c.ua); got != c.want {
			t.Errorf("IsBot(%q) = %v, want %v", c.ua, got, c.want)
		}
	}
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []string{"7d", "30d", "90d"} {
		if !ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = false", p)
		}
	}
	for _, p := range []string{"", "1d", "365d", "month"} {
		if ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = true", p)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	start := PeriodStart("7d")
	if !start.Before(time.Now().UTC()) {
		t.Error("period start is in the future")
	}
	if start.Hour() != 0 || start.Minute() != 0 {
		t.Errorf("period start not aligned to day boundary: %v", start)
	}
	// unknown periods fall back to 30 days
	if got, want := PeriodStart("bogus"), PeriodStart("30d"); !got.Equal(want) {
		t.Errorf("unknown period start = %v, want %v", got, want)
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 01:30 on Mar 15 in UTC+9 is still Mar 14 in UTC
	local := time.Date(2026, 3, 15, 1, 30, 0, 0, loc)
	if got := DateKey(local); got != "2026-03-14" {
		t.Errorf("DateKey = %q, want 2026-03-14", got)
	}
}
