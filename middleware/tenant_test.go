package middleware

import "testing"

func TestSubdomainOf(t *testing.T) {
	cases := []struct {
		host string
		base string
		want string
	}{
		{"jane.unfolde.com", "unfolde.com", "jane"},
		{"www.unfolde.com", "unfolde.com", ""},
		{"unfolde.com", "unfolde.com", ""},
		{"a.b.unfolde.com", "unfolde.com", ""},
		{"jane.other.com", "unfolde.com", ""},
		{"jane.unfolde.com", "", ""},
	}
	for _, c := range cases {
		if got := subdomainOf(c.host, c.base); got != c.want {
			t.Errorf("subdomainOf(%q, %q) = %q, want %q", c.host, c.base, got, c.want)
		}
	}
}

func TestHostOnly(t *testing.T) {
	cases := []struct{ in, want string }{
		{"jane.unfolde.com:8080", "jane.unfolde.com"},
		{"jane.unfolde.com", "jane.unfolde.com"},
		{"JANE.Unfolde.COM", "jane.unfolde.com"},
	}
	for _, c := range cases {
		if got := hostOnly(c.in); got != c.want {
			t.Errorf("hostOnly(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
