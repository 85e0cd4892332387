package orberr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWrapsNilAsNil(t *testing.T) {
	require.Nil(t, New(CacheError, "install", nil))
}

func TestErrorUnwrap(t *testing.T) {
	underlying := errors.New("slot occupied")
	e := New(CacheError, "install", underlying)
	require.NotNil(t, e)
	assert.ErrorIs(t, e, underlying)
	assert.Contains(t, e.Error(), "cache")
	assert.Contains(t, e.Error(), "install")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
	assert.Equal(t, 1, ExitCode(New(GraphError, "plan", errors.New("cyclic"))))
	assert.Equal(t, 101, ExitCode(New(Internal, "plan", errors.New("invariant violated"))))
}
