package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExactMatch(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("Christian McCaffrey", "22526")

	id, ok := r.Resolve("christian mccaffrey")
	assert.True(t, ok)
	assert.Equal(t, "22526", id)
}

func TestResolveTokenOrderInsensitive(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("Christian McCaffrey", "22526")

	id, ok := r.Resolve("McCaffrey Christian")
	assert.True(t, ok)
	assert.Equal(t, "22526", id)
}

func TestResolveFuzzyWithinThreshold(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("Christian McCaffrey", "22526")

	// One transposed character is well inside the 0.85 similarity bar.
	id, ok := r.Resolve("Christian McCafferey")
	assert.True(t, ok)
	assert.Equal(t, "22526", id)
}

func TestResolveRejectsBelowThreshold(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("Christian McCaffrey", "22526")

	_, ok := r.Resolve("Justin Jefferson")
	assert.False(t, ok)
}

func TestResolvePicksBestCandidate(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("Josh Allen", "17920")
	r.Add("Keenan Allen", "16389")

	id, ok := r.Resolve("Josh Allenn")
	assert.True(t, ok)
	assert.Equal(t, "17920", id)
}

func TestResolveEmptyResolver(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)

	_, ok := r.Resolve("anyone")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestAddNormalizesAndDeduplicates(t *testing.T) {
	r := NewNameResolver(DefaultMatchThreshold)
	r.Add("  Josh Allen ", "17920")
	r.Add("JOSH ALLEN", "17920")
	r.Add("", "ignored")
	r.Add("No ID", "")

	assert.Equal(t, 1, r.Len())
}

func TestNewNameResolverThresholdFallback(t *testing.T) {
	for _, bad := range []float64{0, -0.2, 1.5} {
		r := NewNameResolver(bad)
		assert.Equal(t, DefaultMatchThreshold, r.threshold)
	}
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 1.0, tokenSortRatio("john smith", "smith john"))
	assert.Less(t, tokenSortRatio("john smith", "jane smythe"), 0.85)
}
