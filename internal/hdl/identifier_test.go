package hdl_test

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/hdl"
	"github.com/stretchr/testify/assert"
)

func TestIdentifierEqualVhdlCaseInsensitive(t *testing.T) {
	a := hdl.NewIdentifier("Counter", hdl.VHDL, hdl.Position{})
	b := hdl.NewIdentifier("COUNTER", hdl.VHDL, hdl.Position{})
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestIdentifierEqualVerilogCaseSensitive(t *testing.T) {
	a := hdl.NewIdentifier("Counter", hdl.Verilog, hdl.Position{})
	b := hdl.NewIdentifier("COUNTER", hdl.Verilog, hdl.Position{})
	assert.False(t, a.Equal(b))
}

func TestIdentifierFastHashShortCircuitsMismatch(t *testing.T) {
	a := hdl.NewIdentifier("alu", hdl.VHDL, hdl.Position{})
	b := hdl.NewIdentifier("memory", hdl.VHDL, hdl.Position{})
	assert.NotEqual(t, a.FastHash, b.FastHash)
	assert.False(t, a.Equal(b))
}

func TestIdentifierStringReturnsOriginalCase(t *testing.T) {
	a := hdl.NewIdentifier("Counter", hdl.VHDL, hdl.Position{})
	assert.Equal(t, "Counter", a.String())
}
