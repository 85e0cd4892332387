package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/orbit-hdl/orbit/internal/cache"
	"github.com/orbit-hdl/orbit/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaggedRepo(t *testing.T, tags ...string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "gates.vhd"), []byte("entity gates is end entity;\n"), 0o644))
	_, err = wt.Add("gates.vhd")
	require.NoError(t, err)
	sig := &object.Signature{Name: "orbit-test", Email: "test@example.com", When: time.Unix(0, 0)}
	hash, err := wt.Commit("initial", &gogit.CommitOptions{Author: sig})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

func TestInstallCreatesSlotForLatest(t *testing.T) {
	src := newTaggedRepo(t, "1.0.0", "1.2.0", "2.0.0")
	storeDir := t.TempDir()
	cacheDir := t.TempDir()

	engine := cache.NewEngine(cache.NewStore(storeDir), cache.NewCache(cacheDir), nil)
	constraint, err := semver.ParseConstraint("latest")
	require.NoError(t, err)

	result, err := engine.Install(context.Background(), "gates", src, constraint, false)
	require.NoError(t, err)
	assert.False(t, result.AlreadyInstalled)
	assert.Equal(t, "2.0.0", result.Version.String())
	assert.Contains(t, result.Slot, "gates-2.0.0-")

	data, err := os.ReadFile(filepath.Join(cacheDir, result.Slot, ".orbit-checksum"))
	require.NoError(t, err)
	assert.Len(t, string(data), 64)
}

func TestInstallIsIdempotentWithoutForce(t *testing.T) {
	src := newTaggedRepo(t, "1.0.0")
	storeDir := t.TempDir()
	cacheDir := t.TempDir()
	engine := cache.NewEngine(cache.NewStore(storeDir), cache.NewCache(cacheDir), nil)
	constraint, err := semver.ParseConstraint("1.0.0")
	require.NoError(t, err)

	first, err := engine.Install(context.Background(), "gates", src, constraint, false)
	require.NoError(t, err)
	assert.False(t, first.AlreadyInstalled)

	second, err := engine.Install(context.Background(), "gates", src, constraint, false)
	require.NoError(t, err)
	assert.True(t, second.AlreadyInstalled)
	assert.Equal(t, first.Slot, second.Slot)
}

func TestInstallRejectsDev(t *testing.T) {
	src := newTaggedRepo(t, "1.0.0")
	engine := cache.NewEngine(cache.NewStore(t.TempDir()), cache.NewCache(t.TempDir()), nil)
	constraint, err := semver.ParseConstraint("dev")
	require.NoError(t, err)

	_, err = engine.Install(context.Background(), "gates", src, constraint, false)
	assert.ErrorIs(t, err, semver.ErrDevNotInstallable)
}

func TestInstallFailsOnUnknownVersion(t *testing.T) {
	src := newTaggedRepo(t, "1.0.0")
	engine := cache.NewEngine(cache.NewStore(t.TempDir()), cache.NewCache(t.TempDir()), nil)
	constraint, err := semver.ParseConstraint("9")
	require.NoError(t, err)

	_, err = engine.Install(context.Background(), "gates", src, constraint, false)
	assert.ErrorIs(t, err, cache.ErrNoVersionMatch)
}

func TestInstallForceRebuildsCorruptSlot(t *testing.T) {
	src := newTaggedRepo(t, "1.0.0")
	storeDir := t.TempDir()
	cacheDir := t.TempDir()
	engine := cache.NewEngine(cache.NewStore(storeDir), cache.NewCache(cacheDir), nil)
	constraint, err := semver.ParseConstraint("1.0.0")
	require.NoError(t, err)

	first, err := engine.Install(context.Background(), "gates", src, constraint, false)
	require.NoError(t, err)

	checksumPath := filepath.Join(cacheDir, first.Slot, ".orbit-checksum")
	require.NoError(t, os.WriteFile(checksumPath, []byte("0000000000000000000000000000000000000000000000000000000000000000"), 0o644))

	repaired, err := engine.Install(context.Background(), "gates", src, constraint, false)
	require.NoError(t, err)
	assert.False(t, repaired.AlreadyInstalled)
	assert.Equal(t, first.Slot, repaired.Slot)

	data, err := os.ReadFile(checksumPath)
	require.NoError(t, err)
	assert.NotEqual(t, "0000000000000000000000000000000000000000000000000000000000000000", string(data))
}
