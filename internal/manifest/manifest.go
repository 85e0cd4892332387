// Package manifest reads and writes Orbit.toml, the per-IP manifest
// (spec.md §6 "Manifest file"), using github.com/pelletier/go-toml/v2 to
// decode it into a plain struct.
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// IpManifest is the machine-readable description of an IP (spec.md §3).
// Dependencies are kept as raw constraint strings here; internal/semver
// parses them on demand, since a manifest can be loaded for display
// (orbit show) without resolving anything.
type IpManifest struct {
	Name         string
	Library      string
	Vendor       string
	Version      string
	UUID         uuid.UUID
	Summary      string
	Source       string
	Dependencies map[string]string
}

type ipTable struct {
	Name    string `toml:"name"`
	Library string `toml:"library"`
	Vendor  string `toml:"vendor"`
	Version string `toml:"version"`
	UUID    string `toml:"uuid,omitempty"`
	Summary string `toml:"summary,omitempty"`
	Source  string `toml:"source,omitempty"`
}

type document struct {
	Ip           ipTable           `toml:"ip"`
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

// MissingFieldError reports a required `ip` table key absent from the
// manifest (spec.md §6, the `has_bare_min` check).
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required key %q in table 'ip'", e.Field)
}

// Parse decodes data into an IpManifest, generating a fresh UUID if the
// document does not declare one (a manifest is valid without a uuid; Orbit
// assigns one lazily the way `orbit init` does upstream).
func Parse(data []byte) (*IpManifest, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := validateBareMin(doc); err != nil {
		return nil, err
	}

	id := uuid.New()
	if doc.Ip.UUID != "" {
		parsed, err := uuid.Parse(doc.Ip.UUID)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q in table 'ip': %w", doc.Ip.UUID, err)
		}
		id = parsed
	}

	return &IpManifest{
		Name:         doc.Ip.Name,
		Library:      doc.Ip.Library,
		Vendor:       doc.Ip.Vendor,
		Version:      doc.Ip.Version,
		UUID:         id,
		Summary:      doc.Ip.Summary,
		Source:       doc.Ip.Source,
		Dependencies: doc.Dependencies,
	}, nil
}

// validateBareMin checks the `ip` table carries the four required keys, in
// the same order the original has_bare_min check does: vendor, library,
// name, version.
func validateBareMin(doc document) error {
	if doc.Ip.Vendor == "" {
		return &MissingFieldError{Field: "vendor"}
	}
	if doc.Ip.Library == "" {
		return &MissingFieldError{Field: "library"}
	}
	if doc.Ip.Name == "" {
		return &MissingFieldError{Field: "name"}
	}
	if doc.Ip.Version == "" {
		return &MissingFieldError{Field: "version"}
	}
	return nil
}

// Marshal serializes m back to Orbit.toml bytes.
func Marshal(m *IpManifest) ([]byte, error) {
	doc := document{
		Ip: ipTable{
			Name:    m.Name,
			Library: m.Library,
			Vendor:  m.Vendor,
			Version: m.Version,
			UUID:    m.UUID.String(),
			Summary: m.Summary,
			Source:  m.Source,
		},
		Dependencies: m.Dependencies,
	}
	return toml.Marshal(doc)
}

// AddDependency returns a copy of m with name/constraint added or
// overwritten in its dependency table. go-toml/v2 has no token-preserving
// edit API the way a toml_edit-style AST does (spec.md §9 "Manifest
// editing" asks for exactly that); DESIGN.md records this as an accepted
// limitation — AddDependency re-serializes the whole document, so any
// comments or key ordering a user hand-edited into Orbit.toml are not
// preserved across an `orbit add` round-trip.
func AddDependency(m *IpManifest, name, constraint string) *IpManifest {
	out := *m
	out.Dependencies = make(map[string]string, len(m.Dependencies)+1)
	for k, v := range m.Dependencies {
		out.Dependencies[k] = v
	}
	out.Dependencies[name] = constraint
	return &out
}

// Info is the read-only identity/summary view `orbit show` prints
// (original_source/src/commands/v2/show.rs), supplemental to spec.md's core
// since the distillation only specifies the manifest's wire format, not a
// display command.
type Info struct {
	Manifest  *IpManifest
	Path      string
	SizeBytes int64
}

// Inspect walks root and sums the size of every regular file under it,
// pairing that with m for display (show.rs computes the same "ip size on
// disk" figure by walking the IP's root directory).
func Inspect(m *IpManifest, root string) (*Info, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var total int64
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Info{Manifest: m, Path: abs, SizeBytes: total}, nil
}
