// Package lockfile reads and writes Orbit.lock (spec.md §4.7, §6) as plain
// Go structs with toml tags over github.com/pelletier/go-toml/v2, no
// hand-rolled tokenizer.
package lockfile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LockVersion is the current lockfile schema version this package writes
// and the only one it can parse (spec.md §4.7 "LOCK_VERSION = 1").
const LockVersion = 1

const headerComment = "# This file is auto-generated by Orbit. DO NOT EDIT.\n"

// ErrUnsupportedVersion is returned when a lockfile declares a schema
// version this build does not know how to read.
var ErrUnsupportedVersion = errors.New("unsupported lockfile version")

// IpSpec names an installed IP unambiguously: an exact name/version pair.
type IpSpec struct {
	Name    string
	Version string
}

// String renders the "<name>:<version>" form the lockfile's dependencies
// array uses.
func (s IpSpec) String() string {
	return fmt.Sprintf("%s:%s", s.Name, s.Version)
}

// ParseIpSpec parses the "<name>:<version>" form back into an IpSpec.
func ParseIpSpec(s string) (IpSpec, error) {
	name, version, ok := strings.Cut(s, ":")
	if !ok {
		return IpSpec{}, fmt.Errorf("malformed dependency spec %q, want \"name:version\"", s)
	}
	return IpSpec{Name: name, Version: version}, nil
}

// LockEntry is one resolved IP in the build list (spec.md §3). Checksum and
// Source are nil for the root package being built.
type LockEntry struct {
	Name         string
	Version      string
	UUID         string
	Checksum     *string
	Source       *string
	Dependencies []IpSpec
}

// MatchesTarget compares name, version, source, and dependency list — not
// checksum — so the root entry can be compared across re-generations
// (spec.md §4.7).
func (e LockEntry) MatchesTarget(other LockEntry) bool {
	if e.Name != other.Name || e.Version != other.Version {
		return false
	}
	if !stringPtrEqual(e.Source, other.Source) {
		return false
	}
	if len(e.Dependencies) != len(other.Dependencies) {
		return false
	}
	for i := range e.Dependencies {
		if e.Dependencies[i] != other.Dependencies[i] {
			return false
		}
	}
	return true
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// LockFile is the deterministic snapshot of a resolved dependency graph
// (spec.md §3). Entries are sorted by (name, version); each entry's
// Dependencies are sorted by (name, version) too.
type LockFile struct {
	Version int
	Entries []LockEntry
}

// New returns an empty, version-1 lockfile.
func New() *LockFile {
	return &LockFile{Version: LockVersion}
}

// IsEmpty reports whether the lockfile has no entries.
func (lf *LockFile) IsEmpty() bool {
	return len(lf.Entries) == 0
}

// Get returns the entry matching name and version exactly, if present.
func (lf *LockFile) Get(name, version string) (LockEntry, bool) {
	for _, e := range lf.Entries {
		if e.Name == name && e.Version == version {
			return e, true
		}
	}
	return LockEntry{}, false
}

// FromBuildList builds a sorted LockFile from resolved entries. The caller
// supplies entries already carrying the root-vs-dependency checksum
// distinction; FromBuildList only imposes the stable sort order spec.md
// §4.7 requires.
func FromBuildList(entries []LockEntry) *LockFile {
	out := make([]LockEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	for i := range out {
		deps := make([]IpSpec, len(out[i].Dependencies))
		copy(deps, out[i].Dependencies)
		sort.Slice(deps, func(a, b int) bool {
			if deps[a].Name != deps[b].Name {
				return deps[a].Name < deps[b].Name
			}
			return deps[a].Version < deps[b].Version
		})
		out[i].Dependencies = deps
	}
	return &LockFile{Version: LockVersion, Entries: out}
}

type lockNumber struct {
	Version int `toml:"version"`
}

type entryDoc struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	UUID         string   `toml:"uuid"`
	Checksum     string   `toml:"checksum,omitempty"`
	URL          string   `toml:"url,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

type fileDoc struct {
	Version int        `toml:"version"`
	Ip      []entryDoc `toml:"ip"`
}

// Parse reads lockfile bytes. It first peeks the schema version; an unknown
// version is a hard ErrUnsupportedVersion, but a malformed document at a
// known version is reported via warn (non-nil, non-fatal) and treated as an
// empty lockfile — the next resolve regenerates it (spec.md §4.7).
func Parse(data []byte) (lf *LockFile, warn error, err error) {
	if len(data) == 0 {
		return New(), nil, nil
	}
	var num lockNumber
	if err := toml.Unmarshal(data, &num); err != nil {
		return nil, nil, fmt.Errorf("reading lockfile version: %w", err)
	}
	switch num.Version {
	case 0:
		return New(), nil, nil
	case LockVersion:
		var doc fileDoc
		if err := toml.Unmarshal(data, &doc); err != nil {
			return New(), fmt.Errorf("failed to parse Orbit.lock file: %w", err), nil
		}
		return docToLockFile(doc), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, num.Version)
	}
}

func docToLockFile(doc fileDoc) *LockFile {
	entries := make([]LockEntry, 0, len(doc.Ip))
	for _, e := range doc.Ip {
		entry := LockEntry{Name: e.Name, Version: e.Version, UUID: e.UUID}
		if e.Checksum != "" {
			c := e.Checksum
			entry.Checksum = &c
		}
		if e.URL != "" {
			u := e.URL
			entry.Source = &u
		}
		for _, d := range e.Dependencies {
			spec, err := ParseIpSpec(d)
			if err != nil {
				continue
			}
			entry.Dependencies = append(entry.Dependencies, spec)
		}
		entries = append(entries, entry)
	}
	return &LockFile{Version: doc.Version, Entries: entries}
}

// Marshal renders the lockfile to Orbit.lock bytes, including the
// "DO NOT EDIT" header comment go-toml/v2's encoder itself doesn't emit.
func Marshal(lf *LockFile) ([]byte, error) {
	doc := fileDoc{Version: LockVersion, Ip: make([]entryDoc, len(lf.Entries))}
	for i, e := range lf.Entries {
		ed := entryDoc{Name: e.Name, Version: e.Version, UUID: e.UUID}
		if e.Checksum != nil {
			ed.Checksum = *e.Checksum
		}
		if e.Source != nil {
			ed.URL = *e.Source
		}
		for _, d := range e.Dependencies {
			ed.Dependencies = append(ed.Dependencies, d.String())
		}
		doc.Ip[i] = ed
	}
	body, err := toml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(headerComment), body...), nil
}
