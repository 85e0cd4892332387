package verilog

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/hdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moduleSrc = `
module counter #(parameter WIDTH = 8) (
  input wire clk,
  input wire rst,
  output reg [WIDTH-1:0] q
);
  always @(posedge clk) begin
    if (rst) q <= 0;
  end
endmodule
`

func TestParseModuleExtractsAnsiPorts(t *testing.T) {
	p, err := Read("counter.v", moduleSrc, hdl.Verilog)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "counter", units[0].Name.Name)
	require.Len(t, units[0].Ports, 3)
	assert.Equal(t, "clk", units[0].Ports[0].Name)
	assert.Equal(t, "input", units[0].Ports[0].Direction)
	assert.Equal(t, "q", units[0].Ports[2].Name)
	assert.Equal(t, "output", units[0].Ports[2].Direction)
}

const topSrc = `
module top (input wire clk, input wire rst, output wire [7:0] q);
  counter #(.WIDTH(8)) u_counter (.clk(clk), .rst(rst), .q(q));
  adder u_adder (.a(q), .b(q), .sum());
endmodule
`

func TestParseModuleExtractsInstantiations(t *testing.T) {
	p, err := Read("top.v", topSrc, hdl.Verilog)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	require.Len(t, units[0].Instantiates, 2)
	names := []string{units[0].Instantiates[0].Name, units[0].Instantiates[1].Name}
	assert.Contains(t, names, "counter")
	assert.Contains(t, names, "adder")
}

func TestCaseSensitiveIdentifiers(t *testing.T) {
	src := `
module Top (input wire clk);
  Counter u1 (.clk(clk));
endmodule
`
	p, err := Read("top.sv", src, hdl.SystemVerilog)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "Top", units[0].Name.Name)
	require.Len(t, units[0].Instantiates, 1)
	assert.Equal(t, "Counter", units[0].Instantiates[0].Name)
	assert.False(t, units[0].Instantiates[0].Equal(hdl.NewIdentifier("counter", hdl.SystemVerilog, hdl.Position{})))
}

func TestAttributeInstanceSkippedWithoutError(t *testing.T) {
	src := `
(* keep = "true" *)
module tagged (input wire clk);
endmodule
`
	p, err := Read("tagged.v", src, hdl.Verilog)
	require.NoError(t, err)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "tagged", units[0].Name.Name)
}

func TestReadLazySkipsUnterminatedModule(t *testing.T) {
	src := moduleSrc + "\nmodule broken (\n"
	p := ReadLazy("mixed.v", src, hdl.Verilog)
	units := p.IntoSymbols()
	require.Len(t, units, 1)
	assert.Equal(t, "counter", units[0].Name.Name)
	assert.NotEmpty(t, p.Warnings())
}
