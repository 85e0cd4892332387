package lockfile_test

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/lockfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFromBuildListSortsEntriesAndDeps(t *testing.T) {
	lf := lockfile.FromBuildList([]lockfile.LockEntry{
		{Name: "lab1", Version: "0.1.0", Dependencies: []lockfile.IpSpec{
			{Name: "lab4", Version: "0.5.19"},
			{Name: "lab2", Version: "1.0.0"},
		}},
		{Name: "lab4", Version: "0.5.19"},
		{Name: "lab2", Version: "1.0.0"},
		{Name: "lab3", Version: "2.0.0"},
	})
	names := make([]string, len(lf.Entries))
	for i, e := range lf.Entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"lab1", "lab2", "lab3", "lab4"}, names)
	assert.Equal(t, []lockfile.IpSpec{{Name: "lab2", Version: "1.0.0"}, {Name: "lab4", Version: "0.5.19"}}, lf.Entries[0].Dependencies)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	lf := lockfile.FromBuildList([]lockfile.LockEntry{
		{Name: "gates", Version: "1.0.0", UUID: "00000000-0000-0000-0000-000000000000", Checksum: strPtr("deadbeef"), Source: strPtr("https://example.com/gates.git")},
		{Name: "toolbox", Version: "2.1.0", UUID: "00000000-0000-0000-0000-000000000001"},
	})
	data, err := lockfile.Marshal(lf)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# This file is auto-generated by Orbit. DO NOT EDIT.")

	reparsed, warn, err := lockfile.Parse(data)
	require.NoError(t, err)
	require.NoError(t, warn)
	require.Len(t, reparsed.Entries, 2)
	assert.Equal(t, lf.Entries[0].Name, reparsed.Entries[0].Name)
	assert.Equal(t, *lf.Entries[0].Checksum, *reparsed.Entries[0].Checksum)
	assert.Nil(t, reparsed.Entries[1].Checksum)
}

func TestParseUnsupportedVersionFails(t *testing.T) {
	_, _, err := lockfile.Parse([]byte("version = 99\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, lockfile.ErrUnsupportedVersion)
}

func TestParseMalformedAtKnownVersionWarnsAndReturnsEmpty(t *testing.T) {
	lf, warn, err := lockfile.Parse([]byte("version = 1\nip = \"not-an-array\"\n"))
	require.NoError(t, err)
	require.Error(t, warn)
	assert.True(t, lf.IsEmpty())
}

func TestMatchesTargetIgnoresChecksum(t *testing.T) {
	a := lockfile.LockEntry{Name: "gates", Version: "1.0.0", Checksum: strPtr("aaaa")}
	b := lockfile.LockEntry{Name: "gates", Version: "1.0.0", Checksum: strPtr("bbbb")}
	assert.True(t, a.MatchesTarget(b))

	c := lockfile.LockEntry{Name: "gates", Version: "1.0.1"}
	assert.False(t, a.MatchesTarget(c))
}

func TestIpSpecRoundTrip(t *testing.T) {
	spec := lockfile.IpSpec{Name: "lab4", Version: "0.5.19"}
	parsed, err := lockfile.ParseIpSpec(spec.String())
	require.NoError(t, err)
	assert.Equal(t, spec, parsed)
}
