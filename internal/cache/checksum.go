package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DirChecksum computes the content digest of every regular file under root,
// excluding anything under a ".git" directory (spec.md §4.6 step 4): hash
// each file's bytes with SHA-256 in parallel — one of the two
// parallel stages spec.md §5 names explicitly — then hash the sorted
// concatenation of "<relpath>\x00<hex>\n" tuples to produce the slot
// digest. SHA-256 itself is treated as a digest primitive (spec.md §1); no
// third-party hashing library in this project's dependency set targets
// cryptographic digests, so crypto/sha256 is used directly.
func DirChecksum(ctx context.Context, root string) (string, error) {
	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(rels)

	hashes := make([]string, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range rels {
		i, rel := i, rel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := hashFile(filepath.Join(root, rel))
			if err != nil {
				return err
			}
			hashes[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, rel := range rels {
		sb.WriteString(rel)
		sb.WriteByte(0)
		sb.WriteString(hashes[i])
		sb.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
