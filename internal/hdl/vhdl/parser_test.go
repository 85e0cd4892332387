package vhdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitySrc = `
entity counter is
  generic ( WIDTH : integer := 8 );
  port (
    clk : in std_logic;
    rst : in std_logic;
    q   : out std_logic_vector(WIDTH-1 downto 0)
  );
end entity counter;
`

func TestParseEntityExtractsPorts(t *testing.T) {
	p, err := Read("counter.vhd", entitySrc)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "counter", units[0].Name.Name)
	require.Len(t, units[0].Ports, 3)
	assert.Equal(t, "clk", units[0].Ports[0].Name)
	assert.Equal(t, "in", units[0].Ports[0].Direction)
	assert.Equal(t, "q", units[0].Ports[2].Name)
	assert.Equal(t, "out", units[0].Ports[2].Direction)
	assert.False(t, units[0].IsTestbench())
}

const archSrc = `
architecture rtl of top is
  signal s : std_logic;
begin
  u_counter : entity work.counter
    port map ( clk => clk, rst => rst, q => s );

  u_adder : adder
    generic map ( WIDTH => 8 )
    port map ( a => s, b => s, sum => open );
end architecture rtl;
`

func TestParseArchitectureExtractsInstantiations(t *testing.T) {
	p, err := Read("top.vhd", archSrc)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	arch := units[0]
	assert.Equal(t, "rtl", arch.Name.Name)
	assert.Equal(t, "top", arch.Owner.Name)
	require.Len(t, arch.Instantiates, 2)
	names := []string{arch.Instantiates[0].Name, arch.Instantiates[1].Name}
	assert.Contains(t, names, "counter")
	assert.Contains(t, names, "adder")
}

const tbSrc = `
entity counter_tb is
end entity;
`

func TestEntityWithNoPortsIsTestbench(t *testing.T) {
	p, err := Read("counter_tb.vhd", tbSrc)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.True(t, units[0].IsTestbench())
}

func TestReadLazySkipsMalformedConstructWithoutFailing(t *testing.T) {
	src := entitySrc + "\nentity broken is port (\n"
	p := ReadLazy("mixed.vhd", src)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "counter", units[0].Name.Name)
	assert.NotEmpty(t, p.Warnings())
}

func TestPackageAndConfigurationRecognized(t *testing.T) {
	src := `
package types_pkg is
  type state_t is (IDLE, RUN, DONE);
end package types_pkg;

configuration top_cfg of top is
  for rtl
  end for;
end configuration top_cfg;
`
	p, err := Read("types.vhd", src)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 2)
	assert.Equal(t, "types_pkg", units[0].Name.Name)
	assert.Equal(t, "top_cfg", units[1].Name.Name)
	assert.Equal(t, "top", units[1].Owner.Name)
}
