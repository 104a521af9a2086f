package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My Portfolio", "my-portfolio"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Ümlaut & Co.", "mlaut-co"},
		{"already-a-slug", "already-a-slug"},
		{"Under_Score", "under-score"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	for _, s := range []string{"jane-doe", "studio42", "a"} {
		if !ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = false", s)
		}
	}
	for _, s := range []string{"", "www", "api", "admin", "Has Spaces", "UPPER", "trailing-"} {
		if ValidSlug(s) {
			t.Errorf("ValidSlug(%q) = true", s)
		}
	}
}
