// Package validate holds the pure input checks run at the HTTP boundary.
//
// Every externally supplied string or coordinate passes through here before
// any side-effecting call is made. Validators never fail hard: callers check
// the boolean or aggregate Result and reject the request themselves.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	nameRe     = regexp.MustCompile(`^[a-zA-Z\s'-]{1,50}$`)
	keywordRe  = regexp.MustCompile(`^[a-zA-Z0-9 +#.-]{1,100}$`)
)

// NotEmpty reports whether s is non-empty after trimming.
func NotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Username reports whether s is 3-20 chars of [A-Za-z0-9_-].
func Username(s string) bool {
	return NotEmpty(s) && usernameRe.MatchString(strings.TrimSpace(s))
}

// Password reports whether s is non-empty and at least 6 characters.
// Counts runes, not bytes, so multibyte passwords are measured fairly.
func Password(s string) bool {
	return NotEmpty(s) && utf8.RuneCountInString(s) >= 6
}

// Name reports whether s is a plausible first/last name: letters, spaces,
// apostrophes and hyphens, 1-50 chars.
func Name(s string) bool {
	return NotEmpty(s) && nameRe.MatchString(strings.TrimSpace(s))
}

// Keyword reports whether s is a valid search keyword. Keywords are optional,
// so the empty string is valid.
func Keyword(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	return keywordRe.MatchString(strings.TrimSpace(s))
}

// Latitude reports whether v is within [-90, 90].
func Latitude(v float64) bool {
	return v >= minLatitude && v <= maxLatitude
}

// Longitude reports whether v is within [-180, 180].
func Longitude(v float64) bool {
	return v >= minLongitude && v <= maxLongitude
}

// Coordinates reports whether both lat and lon are in range.
func Coordinates(lat, lon float64) bool {
	return Latitude(lat) && Longitude(lon)
}

// Sanitize escapes characters with HTML significance so stored or echoed
// input cannot carry markup. The ampersand is escaped first so the entities
// produced for the remaining characters survive intact.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#x27;")
	return s
}

// SanitizeUsername validates then sanitizes a user id, returning "" when the
// id is not a valid username.
func SanitizeUsername(s string) string {
	if !Username(s) {
		return ""
	}
	return Sanitize(s)
}

// SanitizeKeyword validates then sanitizes a keyword, returning "" when the
// keyword is present but malformed.
func SanitizeKeyword(s string) string {
	if !Keyword(s) {
		return ""
	}
	return Sanitize(s)
}

// Result accumulates every violated rule so a caller sees all problems in a
// single round trip instead of failing on the first one.
type Result struct {
	errs []string
}

// AddError records one violation.
func (r *Result) AddError(msg string) {
	r.errs = append(r.errs, msg)
}

// Valid reports whether no rule was violated.
func (r *Result) Valid() bool { return len(r.errs) == 0 }

// Errors joins all violations with "; ".
func (r *Result) Errors() string { return strings.Join(r.errs, "; ") }

// Registration checks all fields of a registration request at once.
func Registration(userID, password, firstName, lastName string) *Result {
	r := &Result{}
	if !Username(userID) {
		r.AddError("Invalid username. Must be 3-20 characters, alphanumeric with _ and - allowed.")
	}
	if !Password(password) {
		r.AddError("Invalid password. Must be at least 6 characters long.")
	}
	if !Name(firstName) {
		r.AddError("Invalid first name. Must contain only letters, spaces, apostrophes, and hyphens.")
	}
	if !Name(lastName) {
		r.AddError("Invalid last name. Must contain only letters, spaces, apostrophes, and hyphens.")
	}
	return r
}

// SearchParameters checks the coordinate pair and optional keyword at once.
func SearchParameters(lat, lon float64, keyword string) *Result {
	r := &Result{}
	if !Latitude(lat) {
		r.AddError("Invalid latitude. Must be between -90 and 90 degrees.")
	}
	if !Longitude(lon) {
		r.AddError("Invalid longitude. Must be between -180 and 180 degrees.")
	}
	if !Keyword(keyword) {
		r.AddError("Invalid keyword format.")
	}
	return r
}
