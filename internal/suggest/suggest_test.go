package suggest_test

import (
	"testing"

	"github.com/orbit-hdl/orbit/internal/suggest"
	"github.com/stretchr/testify/assert"
)

func TestNearestPicksClosestAboveThreshold(t *testing.T) {
	best, ok := suggest.Nearest("counter_tb", []string{"counter_tb", "alu", "memory"}, 0.5)
	assert.True(t, ok)
	assert.Equal(t, "counter_tb", best)
}

func TestNearestRejectsBelowThreshold(t *testing.T) {
	_, ok := suggest.Nearest("zzz", []string{"counter_tb", "alu", "memory"}, suggest.DefaultThreshold)
	assert.False(t, ok)
}

func TestNearestEmptyCandidates(t *testing.T) {
	_, ok := suggest.Nearest("alu", nil, suggest.DefaultThreshold)
	assert.False(t, ok)
}

func TestDidYouMeanFormatsHint(t *testing.T) {
	hint := suggest.DidYouMean("contuner", []string{"counter", "alu"})
	assert.Contains(t, hint, "counter")
}

func TestDidYouMeanEmptyWhenNoMatch(t *testing.T) {
	hint := suggest.DidYouMean("zzz", []string{"counter", "alu"})
	assert.Equal(t, "", hint)
}
