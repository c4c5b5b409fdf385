package validate_test

import (
	"strings"
	"testing"

	"jobrec/search-service/internal/validate"
)

// ── Coordinates ────────────────────────────────────────────────────────────

func TestLatitude_Boundaries(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{90.0, true},
		{-90.0, true},
		{90.0000001, false},
		{-90.0000001, false},
		{37.7749, true},
		{91.0, false},
	}
	for _, c := range cases {
		if got := validate.Latitude(c.v); got != c.want {
			t.Errorf("Latitude(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestLongitude_Boundaries(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{180.0, true},
		{-180.0, true},
		{180.0000001, false},
		{-180.0000001, false},
		{-122.4194, true},
		{181.0, false},
	}
	for _, c := range cases {
		if got := validate.Longitude(c.v); got != c.want {
			t.Errorf("Longitude(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

// ── Username / Password / Keyword ──────────────────────────────────────────

func TestUsername(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"john_doe", true},
		{"ab", false},                       // too short
		{"abc", true},                       // minimum length
		{strings.Repeat("a", 20), true},     // maximum length
		{strings.Repeat("a", 21), false},    // too long
		{"user-name_1", true},
		{"bad user", false},                 // space
		{"bad@user", false},                 // symbol
		{"", false},
		{"   ", false},
	}
	for _, c := range cases {
		if got := validate.Username(c.s); got != c.want {
			t.Errorf("Username(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestPassword(t *testing.T) {
	if validate.Password("12345") {
		t.Error("Password shorter than 6 should be invalid")
	}
	if !validate.Password("123456") {
		t.Error("Password of exactly 6 should be valid")
	}
	if validate.Password("") {
		t.Error("empty password should be invalid")
	}
	if validate.Password("日本語パス") {
		t.Error("5-rune multibyte password should be invalid")
	}
	if !validate.Password("日本語パス語") {
		t.Error("6-rune multibyte password should be valid")
	}
}

func TestKeyword_OptionalAndCharset(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"", true},          // keyword is optional
		{"   ", true},       // blank counts as absent
		{"engineer", true},
		{"c++ developer", true},
		{"c# .net-dev", true},
		{"bad@kw", false},
		{"tab\tseparated", false}, // only the literal space is allowed
		{"new\nline", false},
		{strings.Repeat("k", 100), true},
		{strings.Repeat("k", 101), false},
	}
	for _, c := range cases {
		if got := validate.Keyword(c.s); got != c.want {
			t.Errorf("Keyword(%q) = %v, want %v", c.s, got, c.want)
		}
	}
}

// ── Sanitize ───────────────────────────────────────────────────────────────

func TestSanitize_XSS(t *testing.T) {
	got := validate.Sanitize("<script>alert('xss')</script>")
	want := "&lt;script&gt;alert(&#x27;xss&#x27;)&lt;/script&gt;"
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitize_PlainStringUnchanged(t *testing.T) {
	in := "john_doe"
	if got := validate.Sanitize(in); got != in {
		t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
	}
	// Stable under repeated application for reserved-free strings.
	if got := validate.Sanitize(validate.Sanitize(in)); got != in {
		t.Errorf("Sanitize(Sanitize(%q)) = %q, want unchanged", in, got)
	}
}

func TestSanitize_AmpersandBeforeEntities(t *testing.T) {
	if got := validate.Sanitize("a&b"); got != "a&amp;b" {
		t.Errorf("Sanitize(\"a&b\") = %q, want \"a&amp;b\"", got)
	}
	// The & produced by escaping < must not be re-escaped.
	if got := validate.Sanitize("<"); got != "&lt;" {
		t.Errorf("Sanitize(\"<\") = %q, want \"&lt;\"", got)
	}
}

// ── Aggregate validators ───────────────────────────────────────────────────

func TestSearchParameters_AllViolationsCollected(t *testing.T) {
	r := validate.SearchParameters(91.0, 181.0, "bad@kw")
	if r.Valid() {
		t.Fatal("expected invalid result")
	}
	msg := r.Errors()
	for _, frag := range []string{"latitude", "longitude", "keyword"} {
		if !strings.Contains(strings.ToLower(msg), frag) {
			t.Errorf("Errors() = %q, missing %q violation", msg, frag)
		}
	}
	if strings.Count(msg, ";") != 2 {
		t.Errorf("Errors() = %q, want three rules joined by \"; \"", msg)
	}
}

func TestSearchParameters_ValidInput(t *testing.T) {
	r := validate.SearchParameters(37.7749, -122.4194, "engineer")
	if !r.Valid() {
		t.Errorf("expected valid, got errors: %s", r.Errors())
	}
}

func TestRegistration_AllViolationsCollected(t *testing.T) {
	r := validate.Registration("x", "123", "", "Sm1th")
	if r.Valid() {
		t.Fatal("expected invalid result")
	}
	msg := r.Errors()
	for _, frag := range []string{"username", "password", "first name", "last name"} {
		if !strings.Contains(strings.ToLower(msg), frag) {
			t.Errorf("Errors() = %q, missing %q violation", msg, frag)
		}
	}
}

func TestRegistration_Valid(t *testing.T) {
	r := validate.Registration("john_doe", "secret1", "John", "O'Neil-Smith")
	if !r.Valid() {
		t.Errorf("expected valid, got errors: %s", r.Errors())
	}
}
