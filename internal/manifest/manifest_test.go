package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orbit-hdl/orbit/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToml = `
[ip]
name = "gates"
library = "rary"
vendor = "ks_tech"
version = "1.0.0"
summary = "basic logic gates"

[dependencies]
toolbox = "2"
`

func TestParseValidManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(validToml))
	require.NoError(t, err)
	assert.Equal(t, "gates", m.Name)
	assert.Equal(t, "rary", m.Library)
	assert.Equal(t, "ks_tech", m.Vendor)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, "basic logic gates", m.Summary)
	assert.Equal(t, "2", m.Dependencies["toolbox"])
	assert.NotEqual(t, [16]byte{}, m.UUID)
}

func TestParseMissingRequiredKeyFails(t *testing.T) {
	_, err := manifest.Parse([]byte(`
[ip]
name = "gates"
library = "rary"
`))
	require.Error(t, err)
	var missing *manifest.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "vendor", missing.Field)
}

func TestMarshalRoundTripsRequiredFields(t *testing.T) {
	m, err := manifest.Parse([]byte(validToml))
	require.NoError(t, err)
	data, err := manifest.Marshal(m)
	require.NoError(t, err)
	reparsed, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m.Name, reparsed.Name)
	assert.Equal(t, m.UUID, reparsed.UUID)
}

func TestAddDependencyDoesNotMutateOriginal(t *testing.T) {
	m, err := manifest.Parse([]byte(validToml))
	require.NoError(t, err)
	updated := manifest.AddDependency(m, "gates_v2", "1.2")
	assert.NotContains(t, m.Dependencies, "gates_v2")
	assert.Equal(t, "1.2", updated.Dependencies["gates_v2"])
}

func TestInspectSumsRegularFileSizes(t *testing.T) {
	m, err := manifest.Parse([]byte(validToml))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Orbit.toml"), []byte(validToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gates.vhd"), []byte("entity gates is end entity;\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.vhd"), []byte("entity b is end entity;\n"), 0o644))

	info, err := manifest.Inspect(m, dir)
	require.NoError(t, err)
	assert.Same(t, m, info.Manifest)
	assert.Greater(t, info.SizeBytes, int64(0))
}
