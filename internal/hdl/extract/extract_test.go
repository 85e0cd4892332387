package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/orbit-hdl/orbit/internal/hdl/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterVhd = `
entity counter is
  port ( clk : in std_logic );
end entity counter;
`

const aluV = `
module alu(input wire clk, output wire [3:0] q);
endmodule
`

func TestReadDispatchesVhdlByExtension(t *testing.T) {
	units, err := extract.Read("counter.vhd", counterVhd)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "counter", units[0].Name.Name)
}

func TestReadDispatchesVerilogByExtension(t *testing.T) {
	units, err := extract.Read("alu.v", aluV)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "alu", units[0].Name.Name)
}

func TestReadUnknownExtensionReturnsNil(t *testing.T) {
	units, err := extract.Read("README.md", "not hdl")
	require.NoError(t, err)
	assert.Nil(t, units)
}

func TestReadLazyNeverErrors(t *testing.T) {
	units := extract.ReadLazy("counter.vhd", counterVhd)
	assert.Len(t, units, 1)
}

func TestReadFilesPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	vhdPath := filepath.Join(dir, "counter.vhd")
	vPath := filepath.Join(dir, "alu.v")
	require.NoError(t, os.WriteFile(vhdPath, []byte(counterVhd), 0o644))
	require.NoError(t, os.WriteFile(vPath, []byte(aluV), 0o644))

	results, err := extract.ReadFiles(context.Background(), []string{vPath, vhdPath})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, vPath, results[0].Path)
	assert.Equal(t, "alu", results[0].Units[0].Name.Name)
	assert.Equal(t, vhdPath, results[1].Path)
	assert.Equal(t, "counter", results[1].Units[0].Name.Name)
}

func TestReadFilesPropagatesMissingFileError(t *testing.T) {
	_, err := extract.ReadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.vhd")})
	assert.Error(t, err)
}
