package hdl_test

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/hdl"
	"github.com/stretchr/testify/assert"
)

func TestUnitKindPrimary(t *testing.T) {
	assert.True(t, hdl.KindEntity.Primary())
	assert.True(t, hdl.KindModule.Primary())
	assert.True(t, hdl.KindMacromodule.Primary())
	assert.False(t, hdl.KindArchitecture.Primary())
	assert.False(t, hdl.KindPackage.Primary())
	assert.False(t, hdl.KindConfiguration.Primary())
}

func TestIsTestbenchByPortCount(t *testing.T) {
	withPorts := hdl.DesignUnit{Kind: hdl.KindEntity, Ports: []hdl.Port{{Name: "clk", Direction: "in"}}}
	assert.False(t, withPorts.IsTestbench())

	noPorts := hdl.DesignUnit{Kind: hdl.KindEntity}
	assert.True(t, noPorts.IsTestbench())
}
