// Package cache implements the content-addressed installation cache
// (spec.md §4.6): a Store of bare git clones materializes a requested tag
// into a working tree, which is checksummed and copied into a CacheSlot.
// Identity is a content hash throughout — DirChecksum's digest over a
// directory tree is what a slot's name and repair check are built on.
// The persistence layer is built atop go-git/go-git/v5 (git plumbing) and
// gofrs/flock (the advisory lock spec.md §4.6 requires for concurrent
// installs).
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofrs/flock"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/orbit-hdl/orbit/internal/semver"
)

// ErrNoVersionMatch is raised when no tag in the source repository
// satisfies the requested constraint (spec.md §4.6 step 2 "UnknownVersion").
var ErrNoVersionMatch = errors.New("no tag matches the requested version")

// Engine orchestrates install(), spec.md §4.6's single entry point.
type Engine struct {
	store  *Store
	cache  *Cache
	logger *log.Logger
}

// NewEngine builds an Engine over store and cache. A nil logger falls back
// to log.Default().
func NewEngine(store *Store, cache *Cache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{store: store, cache: cache, logger: logger}
}

// InstallResult is the outcome of a successful Install call.
type InstallResult struct {
	Slot             string
	Version          *semver.Version
	AlreadyInstalled bool
}

// Install resolves constraint against sourcePath's version tags, checks
// the winning tag out into the store's working tree for name, and ensures
// a matching cache slot exists — creating or repairing it as needed
// (spec.md §4.6 steps 1-6).
func (e *Engine) Install(ctx context.Context, name, sourcePath string, constraint semver.Constraint, force bool) (*InstallResult, error) {
	lock := flock.New(e.store.LockPath(name))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring store lock for %s: %w", name, err)
	}
	defer lock.Unlock()

	versions, err := gatherTags(sourcePath)
	if err != nil {
		return nil, err
	}
	target, err := constraint.Resolve(versions)
	if err != nil {
		if errors.Is(err, semver.ErrUnknownVersion) {
			return nil, fmt.Errorf("%w: %s for %s", ErrNoVersionMatch, constraint, name)
		}
		return nil, err
	}

	if err := e.store.Sync(name, sourcePath); err != nil {
		return nil, fmt.Errorf("syncing store for %s: %w", name, err)
	}
	tag := target.Original()
	if tag == "" {
		tag = target.String()
	}
	workDir, err := e.store.Checkout(name, tag)
	if err != nil {
		return nil, fmt.Errorf("checking out %s@%s: %w", name, tag, err)
	}

	digest, err := DirChecksum(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("checksumming %s@%s: %w", name, tag, err)
	}
	slot := SlotName(name, target.String(), digest)

	if e.cache.SlotExists(slot) {
		if force {
			if err := e.cache.RemoveSlot(slot); err != nil {
				return nil, err
			}
		} else {
			existing, readErr := e.cache.ReadChecksum(slot)
			if readErr == nil && existing == digest {
				return &InstallResult{Slot: slot, Version: target, AlreadyInstalled: true}, nil
			}
			e.logger.Printf("reinstalling ip %s due to bad checksum", name)
			if err := e.cache.RemoveSlot(slot); err != nil {
				return nil, err
			}
		}
	}

	if err := e.cache.CreateSlot(slot, workDir, digest); err != nil {
		return nil, fmt.Errorf("creating slot %s: %w", slot, err)
	}
	return &InstallResult{Slot: slot, Version: target}, nil
}

// gatherTags opens path as a git repository and collects its tags that
// parse as SemVer (spec.md §4.6 step 1). Tags that don't look like a dotted
// version (at least two dots) are skipped before even attempting a SemVer
// parse, mirroring the "*.*.*" glob the source filters on upstream.
func gatherTags(path string) ([]*semver.Version, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s as a repository: %w", path, err)
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	var out []*semver.Version
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if dotCount(name) < 2 {
			return nil
		}
		if v, ok := semver.ParseTag(name); ok {
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func dotCount(s string) int {
	n := 0
	for _, r := range s {
		if r == '.' {
			n++
		}
	}
	return n
}
