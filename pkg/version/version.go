// Package version provides the totally ordered (major, minor, patch) triple used
// for engine floors.
//
// Parsing is lenient about the shapes that browser usage feeds emit ("90",
// "15.4", "17.0-17.1") and strict about everything else: prerelease tags,
// build metadata and non-numeric versions such as "all" or "TP" are rejected.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalid is matched by every error returned from Parse.
var ErrInvalid = errors.New("invalid version")

// Version is a comparable numeric version triple.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseError is returned when a string cannot be parsed as a Version.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid version %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Unwrap returns the underlying semver error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalid.
func (e *ParseError) Is(target error) bool { return target == ErrInvalid }

// New returns the version major.minor.patch.
func New(major, minor, patch uint64) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses s into a Version.
//
// Missing components default to zero. A range "a-b" resolves to its lower
// bound a, since a floor is the lowest version that must be supported.
func Parse(s string) (Version, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty"}
	}

	if lo, hi, ok := strings.Cut(in, "-"); ok && isNumeric(hi) {
		in = lo
	}

	sv, err := semver.NewVersion(in)
	if err != nil {
		return Version{}, &ParseError{Input: s, Reason: "not a numeric version", Err: err}
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, &ParseError{Input: s, Reason: "prerelease and build suffixes are not supported"}
	}

	return Version{Major: sv.Major(), Minor: sv.Minor(), Patch: sv.Patch()}, nil
}

// MustParse is like Parse but panics on error. Use it for literal tables only.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// isNumeric reports whether s is a dot-separated run of digits ("15.3").
func isNumeric(s string) bool {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// Compare returns -1 if a < b, 0 if a == b and 1 if a > b.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return cmpUint(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpUint(a.Minor, b.Minor)
	default:
		return cmpUint(a.Patch, b.Patch)
	}
}

func cmpUint(a, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Less reports whether v sorts strictly before o.
func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

// String renders v as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
