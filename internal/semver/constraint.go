// Package semver wraps github.com/Masterminds/semver/v3 with Orbit's
// version-constraint sum type (spec.md §9 "Version selection": separate the
// constraint type — Latest, Partial(major[.minor[.patch]]), Exact(v), Dev —
// from the concrete Version type).
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Version is a resolved, concrete semantic version.
type Version = mmsemver.Version

// ErrDevNotInstallable is returned when resolving a Dev constraint — Dev is
// a sentinel meaning "whatever is on disk", never a tag to install.
var ErrDevNotInstallable = errors.New("version \"dev\" is not installable")

// ErrUnknownVersion is returned when no tag in the candidate set satisfies
// a constraint.
var ErrUnknownVersion = errors.New("no version matches the requested constraint")

// Kind tags which variant a Constraint holds.
type Kind int

const (
	Latest Kind = iota
	Partial
	Exact
	Dev
)

// Constraint is a version-selection request: "the newest tag", "the newest
// 1.x", "exactly 1.2.3", or the uninstallable Dev sentinel.
type Constraint struct {
	Kind     Kind
	Major    int
	Minor    int
	Patch    int
	HasMinor bool
	HasPatch bool
	exact    *Version
}

// ParseConstraint parses a manifest dependency value: "latest"/"*"/"" for
// Latest, "dev" for Dev, a full "major.minor.patch[-pre]" for Exact, or a
// bare "major", "major.minor" for Partial.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "latest", "*":
		return Constraint{Kind: Latest}, nil
	case "dev":
		return Constraint{Kind: Dev}, nil
	}

	if strings.Count(s, ".") >= 2 {
		v, err := mmsemver.NewVersion(s)
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid version constraint %q: %w", s, err)
		}
		return Constraint{Kind: Exact, exact: v}, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Constraint{}, fmt.Errorf("invalid version constraint %q", s)
	}
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Constraint{}, fmt.Errorf("invalid version constraint %q", s)
		}
		nums = append(nums, n)
	}
	c := Constraint{Kind: Partial, Major: nums[0]}
	if len(nums) > 1 {
		c.Minor = nums[1]
		c.HasMinor = true
	}
	return c, nil
}

// MustExact builds an Exact constraint around an already-resolved version,
// used when the lockfile supplies a pinned version rather than a string to
// reparse.
func MustExact(v *Version) Constraint {
	return Constraint{Kind: Exact, exact: v}
}

// Matches reports whether v satisfies the constraint.
func (c Constraint) Matches(v *Version) bool {
	switch c.Kind {
	case Latest:
		return true
	case Dev:
		return false
	case Exact:
		return v.Equal(c.exact)
	case Partial:
		if v.Major() != uint64(c.Major) {
			return false
		}
		if c.HasMinor && v.Minor() != uint64(c.Minor) {
			return false
		}
		if c.HasPatch && v.Patch() != uint64(c.Patch) {
			return false
		}
		return true
	default:
		return false
	}
}

// Resolve picks the newest version in candidates satisfying the constraint
// (spec.md §4.6 step 2, "get_target_version"). Dev is never resolvable.
func (c Constraint) Resolve(candidates []*Version) (*Version, error) {
	if c.Kind == Dev {
		return nil, ErrDevNotInstallable
	}
	var best *Version
	for _, v := range candidates {
		if !c.Matches(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return nil, ErrUnknownVersion
	}
	return best, nil
}

func (c Constraint) String() string {
	switch c.Kind {
	case Latest:
		return "latest"
	case Dev:
		return "dev"
	case Exact:
		return c.exact.String()
	case Partial:
		s := strconv.Itoa(c.Major)
		if c.HasMinor {
			s += "." + strconv.Itoa(c.Minor)
		}
		if c.HasPatch {
			s += "." + strconv.Itoa(c.Patch)
		}
		return s
	default:
		return ""
	}
}

// ParseTag attempts to parse a git tag as a semantic version. Orbit
// considers only tags of the form "*.*.*" (spec.md §4.6 step 1); non-SemVer
// tags return ok=false rather than an error, since a store may legitimately
// carry unrelated tags.
func ParseTag(tag string) (v *Version, ok bool) {
	parsed, err := mmsemver.NewVersion(tag)
	if err != nil {
		return nil, false
	}
	return parsed, true
}
