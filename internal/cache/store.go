package cache

import (
	"errors"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Store is the process-wide directory of bare clones keyed by IP name
// (spec.md §3 "Store"): the source-of-truth the cache engine checks a
// requested tag out of when materializing a cache slot.
type Store struct {
	root string
}

// NewStore returns a Store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) barePath(name string) string {
	return filepath.Join(s.root, name+".git")
}

func (s *Store) workPath(name string) string {
	return filepath.Join(s.root, name)
}

// LockPath is the advisory-lock file path gofrs/flock serializes concurrent
// installs of the same IP on (spec.md §4.6 "Concurrency").
func (s *Store) LockPath(name string) string {
	return filepath.Join(s.root, name+".lock")
}

// Sync ensures the store holds a bare clone of sourcePath for name,
// cloning it on first use and fetching tag updates thereafter (spec.md
// §4.6 step 3 "If the store lacks this IP, copy the source tree into the
// store first").
func (s *Store) Sync(name, sourcePath string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	bare := s.barePath(name)
	if _, err := os.Stat(bare); errors.Is(err, os.ErrNotExist) {
		_, err := gogit.PlainClone(bare, true, &gogit.CloneOptions{URL: sourcePath})
		return err
	}
	repo, err := gogit.PlainOpen(bare)
	if err != nil {
		return err
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return err
	}
	err = remote.Fetch(&gogit.FetchOptions{Force: true, Tags: gogit.AllTags})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// Tags returns the tag names the bare clone for name currently carries.
func (s *Store) Tags(name string) ([]string, error) {
	repo, err := gogit.PlainOpen(s.barePath(name))
	if err != nil {
		return nil, err
	}
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	var out []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		out = append(out, ref.Name().Short())
		return nil
	})
	return out, err
}

// Checkout materializes tag into the store's working tree for name,
// replacing whatever was checked out there before (spec.md §4.6 step 3).
// It returns the working tree's path.
func (s *Store) Checkout(name, tag string) (string, error) {
	workDir := s.workPath(name)
	if err := os.RemoveAll(workDir); err != nil {
		return "", err
	}
	_, err := gogit.PlainClone(workDir, false, &gogit.CloneOptions{
		URL:           s.barePath(name),
		ReferenceName: plumbing.NewTagReferenceName(tag),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return "", err
	}
	return workDir, nil
}
